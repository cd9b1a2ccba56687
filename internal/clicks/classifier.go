package clicks

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultUniqueWindow is the trailing window within which repeat
// visits from the same (ip, user agent) pair are not counted unique.
const DefaultUniqueWindow = 24 * time.Hour

// Classifier decides whether a visit counts as unique. The (ip, user
// agent) pairing is a heuristic, not identity matching: distinct users
// behind one IP with the same browser merge, and one user with a
// rotating IP looks unique each time. That inaccuracy is accepted.
type Classifier struct {
	store  Store
	window time.Duration
	logger *zap.Logger
}

// NewClassifier creates a uniqueness classifier over the click store.
// A non-positive window falls back to DefaultUniqueWindow.
func NewClassifier(store Store, window time.Duration, logger *zap.Logger) *Classifier {
	if window <= 0 {
		window = DefaultUniqueWindow
	}

	return &Classifier{
		store:  store,
		window: window,
		logger: logger,
	}
}

// IsUnique reports whether a visit to target from (ip, userAgent) at
// now should be flagged unique. The read runs immediately before the
// insert that persists the new record; two concurrent visits may both
// classify unique, which is an accepted race.
//
// A store read failure classifies the visit unique rather than
// failing the dispatch.
func (c *Classifier) IsUnique(ctx context.Context, target TargetRef, ip, userAgent string, now time.Time) bool {
	since := now.Add(-c.window).UnixMilli()

	exists, err := c.store.ExistsRecent(ctx, target, ip, userAgent, since)
	if err != nil {
		c.logger.Warn("uniqueness check failed, counting visit as unique",
			zap.Error(err),
		)

		return true
	}

	return !exists
}
