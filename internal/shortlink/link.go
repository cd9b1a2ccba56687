package shortlink

import "time"

// Visibility controls who can resolve a link.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Link represents a shortened URL owned by a user.
// Timestamps are epoch milliseconds, matching the click schema.
type Link struct {
	ID          string
	ShortCode   string
	OriginalURL string
	OwnerID     string
	BioPageID   string // non-empty when the link belongs to a bio page
	IsActive    bool
	ExpiresAt   *int64
	Visibility  Visibility
	CreatedAt   int64
}

// Expired reports whether the link's expiry is set and in the past.
func (l *Link) Expired(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false
	}

	return *l.ExpiresAt < now.UnixMilli()
}

// Resolvable reports whether a visit to this link may be served.
// Inactive and expired links are rejected identically so a visitor
// cannot tell an expired code from one that never existed.
func (l *Link) Resolvable(now time.Time) bool {
	return l.IsActive && !l.Expired(now)
}
