package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Roisfaozi/gas.to/internal/dispatch"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// Successful redirects are cached aggressively: short codes are
// immutable once created, so clients may keep the mapping for a year.
const redirectCacheControl = "public, max-age=31536000, immutable"

// RedirectHandler serves the public short code endpoint.
type RedirectHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

// NewRedirectHandler creates the redirect handler.
func NewRedirectHandler(dispatcher *dispatch.Dispatcher, logger *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse issues the redirect to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location     string `header:"Location"`
		CacheControl string `header:"Cache-Control"`
	}
}

// Redirect resolves a short code and redirects to its original URL.
// Unknown, inactive, and expired codes all answer with the same 404.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	link, err := h.dispatcher.ResolveLink(ctx, req.Code, meta.Visit())
	if err != nil {
		if errors.Is(err, dispatch.ErrNotFound) {
			return nil, huma.Error404NotFound("No url found")
		}

		h.logger.Error("short code resolution failed",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve url")
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = link.OriginalURL
	resp.Headers.CacheControl = redirectCacheControl

	return resp, nil
}
