package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
)

// DBTX is the subset of pgx used here. Satisfied by *pgxpool.Pool,
// *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema creates the admin session table. Run by cmd/migrate.
const Schema = `CREATE TABLE IF NOT EXISTS admin_sessions (
	id            TEXT PRIMARY KEY,
	admin_id      TEXT NOT NULL,
	email         TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT '',
	backend_token TEXT NOT NULL DEFAULT '',
	issued_at     TIMESTAMPTZ NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS admin_sessions_expires_at_idx ON admin_sessions (expires_at);`

const upsertSession = `INSERT INTO admin_sessions (id, admin_id, email, name, role, backend_token, issued_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	admin_id = EXCLUDED.admin_id,
	email = EXCLUDED.email,
	name = EXCLUDED.name,
	role = EXCLUDED.role,
	backend_token = EXCLUDED.backend_token,
	expires_at = EXCLUDED.expires_at`

const getSession = `SELECT id, admin_id, email, name, role, backend_token, issued_at, expires_at
FROM admin_sessions WHERE id = $1`

const deleteSession = `DELETE FROM admin_sessions WHERE id = $1`

const deleteExpiredSessions = `DELETE FROM admin_sessions WHERE expires_at <= $1`

// PostgresSessionStore keeps admin sessions in the admin_sessions table so
// they survive restarts and are shared between instances.
type PostgresSessionStore struct {
	db DBTX
}

func NewPostgresSessionStore(db DBTX) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

func (p *PostgresSessionStore) Save(ctx context.Context, s *auth.Session) error {
	_, err := p.db.Exec(ctx, upsertSession,
		s.ID, s.AdminID, s.Email, s.Name, s.Role, s.BackendToken, s.IssuedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (p *PostgresSessionStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	var s auth.Session
	err := p.db.QueryRow(ctx, getSession, id).Scan(
		&s.ID, &s.AdminID, &s.Email, &s.Name, &s.Role, &s.BackendToken, &s.IssuedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (p *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, deleteSession, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (p *PostgresSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, deleteExpiredSessions, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ auth.SessionStore = (*PostgresSessionStore)(nil)
