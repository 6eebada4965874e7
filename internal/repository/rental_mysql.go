package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinemavault/internal/model"
)

// MySQLRentalStore persists rentals in the `rentals` table.  The movie
// snapshot is flattened into nullable movie_* columns.
type MySQLRentalStore struct {
	db *sql.DB
}

// NewMySQLRentalStore returns a store bound to db.  The schema is created
// by database.Migrate.
func NewMySQLRentalStore(db *sql.DB) *MySQLRentalStore { return &MySQLRentalStore{db: db} }

const rentalColumns = `id, movie_id, price, transaction_hash, wallet_address, start_time, end_time,
	movie_title, movie_poster, movie_price`

func (s *MySQLRentalStore) Append(ctx context.Context, r model.Rental) error {
	title, poster, price := snapshotColumns(r.Movie)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rentals (`+rentalColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.MovieID, r.Price, r.TransactionHash, r.WalletAddress,
		r.StartTime.UTC(), r.EndTime.UTC(), title, poster, price)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

func (s *MySQLRentalStore) List(ctx context.Context, owner string) ([]model.Rental, error) {
	q := `SELECT ` + rentalColumns + ` FROM rentals`
	var args []any
	if owner != "" {
		q += ` WHERE wallet_address = ?`
		args = append(args, owner)
	}
	q += ` ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Rental{}
	for rows.Next() {
		r, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *MySQLRentalStore) FindByID(ctx context.Context, id string) (model.Rental, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = ? LIMIT 1`, id)
	r, err := scanRental(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Rental{}, ErrRentalNotFound
	}
	return r, err
}

func (s *MySQLRentalStore) Update(ctx context.Context, r model.Rental) error {
	title, poster, price := snapshotColumns(r.Movie)
	res, err := s.db.ExecContext(ctx,
		`UPDATE rentals SET movie_id=?, price=?, transaction_hash=?, wallet_address=?, start_time=?, end_time=?,
			movie_title=?, movie_poster=?, movie_price=? WHERE id=?`,
		r.MovieID, r.Price, r.TransactionHash, r.WalletAddress, r.StartTime.UTC(), r.EndTime.UTC(),
		title, poster, price, r.ID)
	if err != nil {
		return err
	}
	// RowsAffected is 0 when the values did not change, so confirm the
	// row exists before reporting not found.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := s.FindByID(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(sc rowScanner) (model.Rental, error) {
	var r model.Rental
	var title, poster sql.NullString
	var price sql.NullFloat64
	if err := sc.Scan(&r.ID, &r.MovieID, &r.Price, &r.TransactionHash, &r.WalletAddress,
		&r.StartTime, &r.EndTime, &title, &poster, &price); err != nil {
		return model.Rental{}, err
	}
	r.StartTime = r.StartTime.UTC()
	r.EndTime = r.EndTime.UTC()
	if title.Valid {
		r.Movie = &model.MovieSnapshot{Title: title.String, Poster: poster.String, Price: price.Float64}
	}
	return r, nil
}

func snapshotColumns(m *model.MovieSnapshot) (sql.NullString, sql.NullString, sql.NullFloat64) {
	if m == nil {
		return sql.NullString{}, sql.NullString{}, sql.NullFloat64{}
	}
	return sql.NullString{String: m.Title, Valid: true},
		sql.NullString{String: m.Poster, Valid: true},
		sql.NullFloat64{Float64: m.Price, Valid: true}
}

// isDuplicate reports a MySQL duplicate key error (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
