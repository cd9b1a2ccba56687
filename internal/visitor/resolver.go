package visitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the resolved per-visit identity: a fresh session, a
// visitor id that survives across sessions with the same fingerprint,
// and whether the visitor has been seen before.
type Identity struct {
	SessionID   string
	VisitorID   string
	Fingerprint string
	IsReturning bool
}

// Resolver derives visitor identity from client signals. It holds no
// session state of its own; everything it knows lives in the store,
// and the resolved Identity travels with the request.
type Resolver struct {
	sessions SessionStore
	logger   *zap.Logger
}

// NewResolver creates an identity resolver over the session store.
func NewResolver(sessions SessionStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		sessions: sessions,
		logger:   logger,
	}
}

// Resolve computes the fingerprint, reuses the visitor id of the most
// recent session with the same fingerprint, and records exactly one
// new session row. Identity resolution never blocks a visit: on any
// failure it falls back to an all-random identity.
func (r *Resolver) Resolve(ctx context.Context, signals Signals, now time.Time) Identity {
	fingerprint := Fingerprint(signals)

	visitorID := ""
	isReturning := false

	prior, err := r.sessions.LatestByFingerprint(ctx, fingerprint)

	switch {
	case err == nil:
		visitorID = prior.VisitorID
		isReturning = true
	case errors.Is(err, ErrNotFound):
		visitorID = uuid.NewString()
	default:
		r.logger.Warn("visitor lookup failed, using fallback identity",
			zap.Error(err),
		)

		return fallbackIdentity()
	}

	session := &Session{
		ID:          uuid.NewString(),
		VisitorID:   visitorID,
		Fingerprint: fingerprint,
		IsReturning: isReturning,
		StartedAt:   now.UnixMilli(),
	}

	if err := r.sessions.Insert(ctx, session); err != nil {
		r.logger.Warn("session insert failed, using fallback identity",
			zap.Error(err),
		)

		return fallbackIdentity()
	}

	return Identity{
		SessionID:   session.ID,
		VisitorID:   visitorID,
		Fingerprint: fingerprint,
		IsReturning: isReturning,
	}
}

// EndSession marks the session finished. Best-effort: failures are
// logged and swallowed.
func (r *Resolver) EndSession(ctx context.Context, sessionID string, now time.Time) {
	if sessionID == "" {
		return
	}

	if err := r.sessions.End(ctx, sessionID, now.UnixMilli()); err != nil {
		r.logger.Warn("session end failed",
			zap.String("sessionId", sessionID),
			zap.Error(err),
		)
	}
}

func fallbackIdentity() Identity {
	return Identity{
		SessionID:   uuid.NewString(),
		VisitorID:   uuid.NewString(),
		Fingerprint: uuid.NewString(),
		IsReturning: false,
	}
}
