package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/Roisfaozi/gas.to/internal/stats"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// StatsHandler serves dashboard stats queries.
type StatsHandler struct {
	service *stats.Service
	logger  *zap.Logger
}

// NewStatsHandler creates the stats handler.
func NewStatsHandler(service *stats.Service, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

// StatsRequest queries a window of link stats. Dates are epoch
// milliseconds; malformed or missing bounds widen to all-time rather
// than erroring, so the dashboard always gets a payload.
type StatsRequest struct {
	LinkID    string `doc:"The link id"                       path:"id"`
	StartDate string `doc:"Window start, epoch millis" query:"startDate" required:"false"`
	EndDate   string `doc:"Window end, epoch millis"   query:"endDate"   required:"false"`
}

// StatsResponse carries the aggregated report.
type StatsResponse struct {
	Body stats.Report
}

// GetLinkStats aggregates clicks on one link.
func (h *StatsHandler) GetLinkStats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	start := parseEpoch(req.StartDate)
	end := parseEpoch(req.EndDate)

	report, err := h.service.LinkStats(ctx, req.LinkID, start, end)
	if err != nil {
		h.logger.Error("link stats query failed",
			zap.String("linkId", req.LinkID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to fetch stats")
	}

	return &StatsResponse{Body: *report}, nil
}

// BioStatsRequest queries a window of bio page stats.
type BioStatsRequest struct {
	BioPageID string `doc:"The bio page id"                   path:"id"`
	StartDate string `doc:"Window start, epoch millis" query:"startDate" required:"false"`
	EndDate   string `doc:"Window end, epoch millis"   query:"endDate"   required:"false"`
}

// GetBioPageStats aggregates a bio page's views together with clicks
// on each of its links.
func (h *StatsHandler) GetBioPageStats(ctx context.Context, req *BioStatsRequest) (*StatsResponse, error) {
	start := parseEpoch(req.StartDate)
	end := parseEpoch(req.EndDate)

	report, err := h.service.BioPageStats(ctx, req.BioPageID, start, end)
	if err != nil {
		if errors.Is(err, biopage.ErrNotFound) {
			return nil, huma.Error404NotFound("No url found")
		}

		h.logger.Error("bio page stats query failed",
			zap.String("bioPageId", req.BioPageID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to fetch stats")
	}

	return &StatsResponse{Body: *report}, nil
}

// parseEpoch reads an epoch-millis query value; anything unparseable
// becomes a nil (unbounded) edge.
func parseEpoch(raw string) *int64 {
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}

	return &v
}
