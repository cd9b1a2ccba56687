package stats

import (
	"context"
	"fmt"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/Roisfaozi/gas.to/internal/clicks"
)

// Service answers dashboard stats queries. It only reads the click
// store; aggregation itself is the pure Aggregate reduction.
type Service struct {
	store    clicks.Store
	bioPages biopage.Repository
}

// NewService creates a stats service.
func NewService(store clicks.Store, bioPages biopage.Repository) *Service {
	return &Service{
		store:    store,
		bioPages: bioPages,
	}
}

// LinkStats aggregates clicks on one shortlink within [start, end]
// (epoch millis, inclusive). Nil bounds mean all-time.
func (s *Service) LinkStats(ctx context.Context, linkID string, start, end *int64) (*Report, error) {
	records, err := s.store.ListByTarget(ctx, clicks.LinkTarget(linkID), start, end)
	if err != nil {
		return nil, fmt.Errorf("listing link clicks: %w", err)
	}

	return Aggregate(records), nil
}

// BioPageStats aggregates views of a bio page together with clicks on
// each of its bio links. The parent report composes from per-child
// aggregation: each target's records are scanned once and the partial
// reports merged, rather than re-scanning per dimension.
func (s *Service) BioPageStats(ctx context.Context, bioPageID string, start, end *int64) (*Report, error) {
	page, err := s.bioPages.GetByID(ctx, bioPageID)
	if err != nil {
		return nil, fmt.Errorf("loading bio page: %w", err)
	}

	views, err := s.store.ListByTarget(ctx, clicks.BioPageTarget(page.ID), start, end)
	if err != nil {
		return nil, fmt.Errorf("listing bio page views: %w", err)
	}

	report := Aggregate(views)

	for _, link := range page.BioLinks {
		linkClicks, err := s.store.ListByTarget(ctx, clicks.BioLinkTarget(link.ID), start, end)
		if err != nil {
			return nil, fmt.Errorf("listing bio link clicks: %w", err)
		}

		report.Merge(Aggregate(linkClicks))
	}

	return report, nil
}
