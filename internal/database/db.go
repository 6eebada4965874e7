package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinemavault/internal/config"
)

// Open connects to MySQL and verifies the connection.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Pass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.Host, cfg.Port, cfg.Name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// schema creates the tables used by the MySQL stores.  seq keeps
// insertion order for listing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rentals (
		seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		movie_id VARCHAR(128) NOT NULL,
		price DOUBLE NOT NULL DEFAULT 0,
		transaction_hash VARCHAR(128) NOT NULL DEFAULT '',
		wallet_address VARCHAR(64) NOT NULL DEFAULT '',
		start_time DATETIME(3) NOT NULL,
		end_time DATETIME(3) NOT NULL,
		movie_title VARCHAR(255) NULL,
		movie_poster TEXT NULL,
		movie_price DOUBLE NULL,
		INDEX idx_rentals_wallet (wallet_address)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS local_movies (
		seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		year VARCHAR(16) NOT NULL,
		runtime INT NOT NULL,
		language VARCHAR(64) NOT NULL,
		genre VARCHAR(255) NOT NULL,
		director VARCHAR(255) NOT NULL,
		poster TEXT NOT NULL,
		description TEXT NOT NULL,
		cast_json TEXT NOT NULL,
		rating DOUBLE NOT NULL DEFAULT 0,
		price DOUBLE NOT NULL DEFAULT 0,
		created_at DATETIME(3) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
