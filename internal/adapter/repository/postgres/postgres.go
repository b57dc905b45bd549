package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/uriz/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", entity.ErrStorageUnavailable, err)
}

// longURLHash keys uriz_long. Long URLs can exceed the btree entry size
// limit, a fixed-size digest cannot.
func longURLHash(longURL string) []byte {
	sum := sha256.Sum256([]byte(longURL))
	return sum[:]
}

type urlDB struct {
	Token   string `db:"token"`
	LongURL string `db:"long_url"`
	Created int64  `db:"created"`
	Visits  int64  `db:"visits"`
}

func (u *urlDB) toEntity() *entity.ShortURL {
	return &entity.ShortURL{
		Token:     u.Token,
		LongURL:   u.LongURL,
		CreatedAt: u.Created,
		Visits:    u.Visits,
	}
}

// URLRepository stores forward records in the uriz table and the reverse
// index in the uriz_long table.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Exists(ctx context.Context, token string) (bool, error) {
	const op = "adapter.repository.postgres.URLRepository.Exists"
	const query = `SELECT EXISTS(SELECT 1 FROM uriz WHERE token = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, token); err != nil {
		return false, fmt.Errorf("%s: failed to query uriz table: %w", op, unavailable(err))
	}

	return exists, nil
}

func (r *URLRepository) GetForward(ctx context.Context, token string) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.GetForward"
	const query = `SELECT token, long_url, created, visits FROM uriz WHERE token = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from uriz table: %w", op, unavailable(err))
	}

	return url.toEntity(), nil
}

func (r *URLRepository) GetReverse(ctx context.Context, longURL string) (string, error) {
	const op = "adapter.repository.postgres.URLRepository.GetReverse"
	const query = `SELECT token FROM uriz_long WHERE long_url_hash = $1`

	var token string

	if err := r.db.GetContext(ctx, &token, query, longURLHash(longURL)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrNotFound)
		}

		return "", fmt.Errorf("%s: failed to get row from uriz_long table: %w", op, unavailable(err))
	}

	return token, nil
}

// InsertForward relies on the primary key of uriz: a duplicate token fails
// with a unique violation and is reported as entity.ErrTokenExists.
func (r *URLRepository) InsertForward(ctx context.Context, url *entity.ShortURL) error {
	const op = "adapter.repository.postgres.URLRepository.InsertForward"
	const query = `INSERT INTO uriz(token, long_url, created, visits) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, url.Token, url.LongURL, url.CreatedAt, url.Visits); err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%s: %w", op, entity.ErrTokenExists)
		}

		return fmt.Errorf("%s: failed to insert into uriz table: %w", op, unavailable(err))
	}

	return nil
}

func (r *URLRepository) InsertReverse(ctx context.Context, idx *entity.ReverseIndex) error {
	const op = "adapter.repository.postgres.URLRepository.InsertReverse"
	const query = `INSERT INTO uriz_long(long_url_hash, long_url, token) VALUES ($1, $2, $3)
		ON CONFLICT (long_url_hash) DO UPDATE SET token = EXCLUDED.token`

	if _, err := r.db.ExecContext(ctx, query, longURLHash(idx.LongURL), idx.LongURL, idx.Token); err != nil {
		return fmt.Errorf("%s: failed to upsert into uriz_long table: %w", op, unavailable(err))
	}

	return nil
}

func (r *URLRepository) IncrementVisits(ctx context.Context, token string) error {
	const op = "adapter.repository.postgres.URLRepository.IncrementVisits"
	const query = `UPDATE uriz SET visits = visits + 1 WHERE token = $1`

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("%s: failed to update uriz table: %w", op, unavailable(err))
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, unavailable(err))
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}

	return nil
}
