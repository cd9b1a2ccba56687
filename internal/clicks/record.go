package clicks

import (
	"errors"

	"github.com/google/uuid"
)

// Type discriminates what kind of visit a ClickRecord captures.
type Type string

const (
	TypeShortlink    Type = "shortlink"
	TypeBioView      Type = "bio_view"
	TypeBioLinkClick Type = "bio_link_click"
	TypePageView     Type = "page_view"
)

var ErrInvalidTarget = errors.New("click target must reference exactly one of link, bio page, or bio link")

// TargetRef identifies what was visited. Exactly one field is set,
// discriminated by the record's Type; NewRecord enforces this.
type TargetRef struct {
	LinkID    string `json:"linkId,omitempty"`
	BioPageID string `json:"bioPageId,omitempty"`
	BioLinkID string `json:"bioLinkId,omitempty"`
}

// LinkTarget references a shortlink.
func LinkTarget(linkID string) TargetRef { return TargetRef{LinkID: linkID} }

// BioPageTarget references a bio page view.
func BioPageTarget(bioPageID string) TargetRef { return TargetRef{BioPageID: bioPageID} }

// BioLinkTarget references a click on one link of a bio page.
func BioLinkTarget(bioLinkID string) TargetRef { return TargetRef{BioLinkID: bioLinkID} }

func (t TargetRef) valid() bool {
	set := 0

	if t.LinkID != "" {
		set++
	}

	if t.BioPageID != "" {
		set++
	}

	if t.BioLinkID != "" {
		set++
	}

	return set == 1
}

// UTM holds campaign-tracking parameters propagated from the
// referring URL. Absent parameters are nil, never empty strings.
type UTM struct {
	Source   *string `json:"source,omitempty"`
	Medium   *string `json:"medium,omitempty"`
	Campaign *string `json:"campaign,omitempty"`
	Term     *string `json:"term,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// ClickRecord is the immutable fact row for one visit event. It is
// written exactly once by the dispatcher and read by the aggregator;
// nothing mutates or deletes it afterwards.
type ClickRecord struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Target      TargetRef `json:"target"`
	CreatedAt   int64     `json:"createdAt"` // epoch millis
	IP          string    `json:"ip,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	Device      string    `json:"device"`
	UserAgent   string    `json:"userAgent,omitempty"`
	Referer     string    `json:"referer,omitempty"`
	Language    string    `json:"language,omitempty"`
	UTM         UTM       `json:"utm"`
	SessionID   string    `json:"sessionId,omitempty"`
	VisitorID   string    `json:"visitorId,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	IsUnique    bool      `json:"isUnique"`
}

// NewRecord constructs a ClickRecord with a fresh id, enforcing the
// single-target invariant and the type/target pairing at construction
// time rather than by convention.
func NewRecord(recordType Type, target TargetRef, createdAt int64) (*ClickRecord, error) {
	if !target.valid() {
		return nil, ErrInvalidTarget
	}

	switch recordType {
	case TypeShortlink:
		if target.LinkID == "" {
			return nil, ErrInvalidTarget
		}
	case TypeBioView:
		if target.BioPageID == "" {
			return nil, ErrInvalidTarget
		}
	case TypeBioLinkClick:
		if target.BioLinkID == "" {
			return nil, ErrInvalidTarget
		}
	case TypePageView:
		// page views reference whichever page-like target was visited
	default:
		return nil, ErrInvalidTarget
	}

	return &ClickRecord{
		ID:        uuid.NewString(),
		Type:      recordType,
		Target:    target,
		CreatedAt: createdAt,
	}, nil
}
