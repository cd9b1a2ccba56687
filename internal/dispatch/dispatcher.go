// Package dispatch implements the redirect path: resolve a short code
// or bio username, validate liveness, record the visit, and hand the
// result back for responding. Recording is best-effort by design; a
// broken analytics write must never break the user-facing redirect.
package dispatch

import (
	"errors"
	"fmt"
	"time"

	"context"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/Roisfaozi/gas.to/internal/enrich"
	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/Roisfaozi/gas.to/internal/visitor"
	"go.uber.org/zap"
)

// ErrNotFound covers every rejected visit: unknown code or username,
// inactive link, expired link. The causes are deliberately
// indistinguishable so a visitor cannot probe for existence.
var ErrNotFound = errors.New("no url found")

// Recorder persists a completed click record. Production wires a
// stream publisher; tests and single-process deployments wire the
// store directly.
type Recorder func(record *clicks.ClickRecord) error

// Visit carries everything the dispatcher knows about the requester.
type Visit struct {
	Raw     enrich.RawVisit
	Signals visitor.Signals

	// ViewerID is the authenticated user id, when present. Only used to
	// decide private bio page visibility; authentication itself is an
	// external collaborator.
	ViewerID string
}

// BioPageView is the render model for a bio page visit.
type BioPageView struct {
	Page        *biopage.BioPage
	BioLinks    []biopage.BioLink
	SocialLinks []biopage.SocialLink

	// Shell is true when a private page is shown to a non-owner: the
	// page frame renders but both link lists are empty.
	Shell bool
}

// Dispatcher runs once per inbound visit and shares no mutable state
// between requests; everything it touches lives behind repositories.
type Dispatcher struct {
	links      shortlink.Repository
	bioPages   biopage.Repository
	extractor  *enrich.Extractor
	identity   *visitor.Resolver
	classifier *clicks.Classifier
	record     Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewDispatcher wires the redirect pipeline.
func NewDispatcher(
	links shortlink.Repository,
	bioPages biopage.Repository,
	extractor *enrich.Extractor,
	identity *visitor.Resolver,
	classifier *clicks.Classifier,
	recorder Recorder,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		links:      links,
		bioPages:   bioPages,
		extractor:  extractor,
		identity:   identity,
		classifier: classifier,
		record:     recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the dispatcher's clock. Test hook.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now

	return d
}

// ResolveLink looks up and validates a short code, records the click,
// and returns the link to redirect to.
//
// Rejections (unknown, inactive, expired) return ErrNotFound without
// writing a click record. A storage failure on the lookup itself is
// the one case surfaced as a distinct error: there is no sane
// fallback for not being able to read links at all.
func (d *Dispatcher) ResolveLink(ctx context.Context, shortCode string, visit Visit) (*shortlink.Link, error) {
	link, err := d.links.GetByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("resolving short code: %w", err)
	}

	if !link.Resolvable(d.now()) {
		return nil, ErrNotFound
	}

	d.recordVisit(ctx, clicks.TypeShortlink, clicks.LinkTarget(link.ID), visit)

	return link, nil
}

// ResolveBioPage looks up a bio page by username and records the
// view. Private pages render as an empty shell for non-owners rather
// than a hard 404, so their existence is neither confirmed nor their
// content leaked; shell renders record no view.
func (d *Dispatcher) ResolveBioPage(ctx context.Context, username string, visit Visit) (*BioPageView, error) {
	page, err := d.bioPages.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, biopage.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("resolving bio page: %w", err)
	}

	if !page.VisibleTo(visit.ViewerID) {
		return &BioPageView{
			Page:        page,
			BioLinks:    []biopage.BioLink{},
			SocialLinks: []biopage.SocialLink{},
			Shell:       true,
		}, nil
	}

	d.recordVisit(ctx, clicks.TypeBioView, clicks.BioPageTarget(page.ID), visit)

	return &BioPageView{
		Page:        page,
		BioLinks:    page.ActiveLinks(),
		SocialLinks: page.SocialLinks,
	}, nil
}

// ResolveBioLink validates a click on one link of a bio page, records
// it, and returns the destination URL. The same uniform ErrNotFound
// applies to unknown pages, invisible pages, and unknown or inactive
// bio links.
func (d *Dispatcher) ResolveBioLink(ctx context.Context, username, bioLinkID string, visit Visit) (string, error) {
	page, err := d.bioPages.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, biopage.ErrNotFound) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("resolving bio page: %w", err)
	}

	if !page.VisibleTo(visit.ViewerID) {
		return "", ErrNotFound
	}

	for _, l := range page.BioLinks {
		if l.ID == bioLinkID && l.IsActive {
			d.recordVisit(ctx, clicks.TypeBioLinkClick, clicks.BioLinkTarget(l.ID), visit)

			return l.URL, nil
		}
	}

	return "", ErrNotFound
}

// recordVisit runs the enrichment pipeline and persists exactly one
// click record. Every failure in here is logged and swallowed.
func (d *Dispatcher) recordVisit(ctx context.Context, recordType clicks.Type, target clicks.TargetRef, visit Visit) {
	now := d.now()

	record, err := clicks.NewRecord(recordType, target, now.UnixMilli())
	if err != nil {
		d.logger.Error("invalid click target", zap.Error(err))

		return
	}

	visitCtx := d.extractor.Extract(ctx, visit.Raw)
	identity := d.identity.Resolve(ctx, visit.Signals, now)

	record.IP = visitCtx.IP
	record.City = visitCtx.City
	record.Country = visitCtx.Country
	record.Browser = visitCtx.Browser
	record.OS = visitCtx.OS
	record.Device = visitCtx.Device
	record.UserAgent = visitCtx.UserAgent
	record.Referer = visitCtx.Referer
	record.Language = visitCtx.Language
	record.UTM = visitCtx.UTM
	record.SessionID = identity.SessionID
	record.VisitorID = identity.VisitorID
	record.Fingerprint = identity.Fingerprint
	record.IsUnique = d.classifier.IsUnique(ctx, target, visitCtx.IP, visitCtx.UserAgent, now)

	if err := d.record(record); err != nil {
		d.logger.Error("failed to record click",
			zap.String("type", string(recordType)),
			zap.Error(err),
		)
	}
}
