package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/cinemavault/internal/model"
)

// MySQLMovieStore keeps fallback movies in the `local_movies` table.  The
// cast list is stored as a JSON array.
type MySQLMovieStore struct {
	db *sql.DB
}

func NewMySQLMovieStore(db *sql.DB) *MySQLMovieStore { return &MySQLMovieStore{db: db} }

const movieColumns = `id, title, year, runtime, language, genre, director, poster, description,
	cast_json, rating, price, created_at`

func (s *MySQLMovieStore) Add(ctx context.Context, m model.LocalMovie) error {
	cast, err := json.Marshal(nonNilCast(m.Cast))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO local_movies (`+movieColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.Title, m.Year, m.Runtime, m.Language, m.Genre, m.Director, m.Poster,
		m.Description, string(cast), m.Rating, m.Price, m.CreatedAt.UTC())
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

func (s *MySQLMovieStore) All(ctx context.Context) ([]model.LocalMovie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM local_movies ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.LocalMovie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MySQLMovieStore) FindByID(ctx context.Context, id string) (model.LocalMovie, bool, error) {
	m, err := scanMovie(s.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM local_movies WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.LocalMovie{}, false, nil
	}
	if err != nil {
		return model.LocalMovie{}, false, err
	}
	return m, true, nil
}

func scanMovie(sc rowScanner) (model.LocalMovie, error) {
	var m model.LocalMovie
	var cast string
	if err := sc.Scan(&m.ID, &m.Title, &m.Year, &m.Runtime, &m.Language, &m.Genre, &m.Director,
		&m.Poster, &m.Description, &cast, &m.Rating, &m.Price, &m.CreatedAt); err != nil {
		return model.LocalMovie{}, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	if err := json.Unmarshal([]byte(cast), &m.Cast); err != nil {
		return model.LocalMovie{}, err
	}
	m.Cast = nonNilCast(m.Cast)
	return m, nil
}

func nonNilCast(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}
