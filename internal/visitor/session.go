package visitor

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("visitor session not found")

// Session is one browsing session. VisitorID is stable across
// sessions with the same fingerprint; a new Session row is created
// per browsing session even for returning visitors. IsReturning is
// decided once, at creation, and never re-derived.
type Session struct {
	ID          string
	VisitorID   string
	Fingerprint string
	IsReturning bool
	StartedAt   int64
	EndedAt     *int64
}

// SessionStore defines storage operations for visitor sessions.
type SessionStore interface {
	Insert(ctx context.Context, session *Session) error

	// LatestByFingerprint returns the most recently started session with
	// the given fingerprint, or ErrNotFound.
	LatestByFingerprint(ctx context.Context, fingerprint string) (*Session, error)

	// End marks a session finished. Idempotent on already-ended sessions.
	End(ctx context.Context, sessionID string, endedAt int64) error
}
