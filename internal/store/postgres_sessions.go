package store

import (
	"context"
	"errors"

	"github.com/Roisfaozi/gas.to/internal/visitor"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSessionStore is the PostgreSQL implementation of
// visitor.SessionStore.
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionStore creates a Postgres-backed session store.
func NewPostgresSessionStore(pool *pgxpool.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

func (p *PostgresSessionStore) Insert(ctx context.Context, session *visitor.Session) error {
	query := `
		INSERT INTO visitor_sessions (id, visitor_id, fingerprint, is_returning, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		session.ID,
		session.VisitorID,
		session.Fingerprint,
		session.IsReturning,
		session.StartedAt,
		session.EndedAt,
	)

	return err
}

func (p *PostgresSessionStore) LatestByFingerprint(ctx context.Context, fingerprint string) (*visitor.Session, error) {
	query := `
		SELECT id, visitor_id, fingerprint, is_returning, started_at, ended_at
		FROM visitor_sessions
		WHERE fingerprint = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	var session visitor.Session

	err := p.pool.QueryRow(ctx, query, fingerprint).Scan(
		&session.ID,
		&session.VisitorID,
		&session.Fingerprint,
		&session.IsReturning,
		&session.StartedAt,
		&session.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, visitor.ErrNotFound
		}

		return nil, err
	}

	return &session, nil
}

func (p *PostgresSessionStore) End(ctx context.Context, sessionID string, endedAt int64) error {
	query := `
		UPDATE visitor_sessions
		SET ended_at = $2
		WHERE id = $1 AND ended_at IS NULL
	`

	_, err := p.pool.Exec(ctx, query, sessionID, endedAt)

	return err
}
