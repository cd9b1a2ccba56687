package clicks

import "context"

// Store is the append-only click store. There is deliberately no
// update or delete: click records are the ground truth for all
// aggregation and are never revisited once written.
type Store interface {
	// Insert persists a new click record.
	Insert(ctx context.Context, record *ClickRecord) error

	// ExistsRecent reports whether a click for the same target with the
	// same (ip, user agent) pair exists at or after the since timestamp
	// (epoch millis).
	ExistsRecent(ctx context.Context, target TargetRef, ip, userAgent string, since int64) (bool, error)

	// ListByTarget returns all records for a target with created_at in
	// [start, end] inclusive. Nil bounds mean unbounded.
	ListByTarget(ctx context.Context, target TargetRef, start, end *int64) ([]*ClickRecord, error)
}
