package session

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/actionkit/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresConfig configures PostgresStore. Field tags are read by pkg/config.
type PostgresConfig struct {
	MigrationsTable string `env:"SESSION_MIGRATIONS_TABLE" envDefault:"session_migrations"`
}

// PostgresStore keeps sessions in the sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the sessions table. Versions are tracked in their own
// table so they do not collide with application migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg PostgresConfig, log *slog.Logger) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	if cfg.MigrationsTable == "" {
		cfg.MigrationsTable = "session_migrations"
	}
	return db.Migrate(ctx, pool, sub, cfg.MigrationsTable, log)
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, data, ip, user_agent, created_at, last_active_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Token, data, s.IP, s.UserAgent, s.CreatedAt, s.LastActiveAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("session: insert: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	var (
		s    Session
		data []byte
	)
	err := p.pool.QueryRow(ctx, `
		SELECT id, token, data, ip, user_agent, created_at, last_active_at, expires_at
		FROM sessions WHERE token = $1`, token,
	).Scan(&s.ID, &s.Token, &data, &s.IP, &s.UserAgent, &s.CreatedAt, &s.LastActiveAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: select: %w", err)
	}

	values, err := decode(fmt.Appendf(nil, `{"values":%s}`, data))
	if err != nil {
		return nil, err
	}
	s.Values = values.Values

	if s.IsExpired() {
		return nil, ErrExpired
	}
	return &s, nil
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE sessions
		SET token = $2, data = $3, last_active_at = $4, expires_at = $5
		WHERE id = $1`,
		s.ID, s.Token, data, s.LastActiveAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("session: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, token string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

func (p *PostgresStore) Touch(ctx context.Context, token string, lastActiveAt time.Time) error {
	tag, err := p.pool.Exec(ctx, `UPDATE sessions SET last_active_at = $2 WHERE token = $1`, token, lastActiveAt)
	if err != nil {
		return fmt.Errorf("session: touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes expired sessions in one transaction and returns how
// many were removed. Run it periodically.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("session: delete expired: %w", err)
	}
	return n, nil
}
