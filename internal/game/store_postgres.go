package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists sessions as JSONB blobs in a single table.
// Expiry is advisory: expired rows are filtered on read and left for
// the periodic cleanup job (or a cron DELETE) to reap.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL required for postgres session store")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			expires_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure sessions schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *PostgresStore) Load(ctx context.Context, id string) (*Session, error) {
	const query = `
		SELECT state FROM sessions
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())`

	var raw []byte
	err := p.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	var expires sql.NullTime
	if ttl > 0 {
		expires = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}

	const query = `
		INSERT INTO sessions (id, state, expires_at, updated_at)
		VALUES ($1, $2::jsonb, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, query, s.ID, raw, expires); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}
