package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/credgate/credgate/token"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is a [token.Store] over a pgx connection pool. Rows are only ever
// inserted or flipped to revoked, never deleted.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool. Call [Migrate] first on fresh databases.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded schema migrations through goose. It opens a
// short-lived database/sql connection; the pgx pool is untouched. The
// migration provider is scoped to this call, so migrating another store in
// the same process cannot interfere.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, t *token.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, value, expires_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.UserID, t.Value, t.ExpiresAt, t.RevokedAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (s *Store) FindByValue(ctx context.Context, value string) (*token.RefreshToken, error) {
	query := `
		SELECT id, user_id, value, expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE value = $1`

	t := &token.RefreshToken{}
	err := s.pool.QueryRow(ctx, query, value).Scan(
		&t.ID, &t.UserID, &t.Value, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, token.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return t, nil
}

// Revoke is conditional on the row being unrevoked, which is what makes a
// rotation race produce exactly one winner.
func (s *Store) Revoke(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL`

	tag, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return token.ErrTokenNotFound
	}
	return nil
}

func (s *Store) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE user_id = $1 AND revoked_at IS NULL`

	tag, err := s.pool.Exec(ctx, query, userID, at)
	if err != nil {
		return 0, fmt.Errorf("revoke user tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
