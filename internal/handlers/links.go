package handlers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkHandler serves the administrative link-creation API. This sits
// outside the hot redirect path.
type LinkHandler struct {
	links        shortlink.Repository
	generateCode shortlink.CodeGenerator
	baseURL      string
	logger       *zap.Logger
	now          func() time.Time
}

// NewLinkHandler creates the link handler.
func NewLinkHandler(
	links shortlink.Repository,
	generator shortlink.CodeGenerator,
	baseURL string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		links:        links,
		generateCode: generator,
		baseURL:      baseURL,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateLinkRequest is the request body for shortening a URL.
type CreateLinkRequest struct {
	Body struct {
		URL               string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
		ExpirationMinutes int    `doc:"Optional lifetime in minutes"   json:"expirationMinutes,omitempty"`
		Visibility        string `doc:"public or private"              enum:"public,private"             json:"visibility,omitempty"`
	}
}

// CreateLinkResponse is the response for a created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		ID          string `json:"id"`
		ShortCode   string `json:"short_code"`
		ShortURL    string `json:"short_url"`
		OriginalURL string `json:"original_url"`
		ExpiresAt   *int64 `json:"expires_at,omitempty"`
	}
}

// CreateLink mints a short code for a URL.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	if _, err := url.ParseRequestURI(req.Body.URL); err != nil {
		return nil, huma.Error400BadRequest("invalid url")
	}

	meta := RequestMetaFromContext(ctx)
	now := h.now()

	link := &shortlink.Link{
		ID:          uuid.NewString(),
		ShortCode:   h.generateCode(),
		OriginalURL: req.Body.URL,
		OwnerID:     meta.ViewerID,
		IsActive:    true,
		Visibility:  shortlink.VisibilityPublic,
		CreatedAt:   now.UnixMilli(),
	}

	if req.Body.Visibility == string(shortlink.VisibilityPrivate) {
		link.Visibility = shortlink.VisibilityPrivate
	}

	if req.Body.ExpirationMinutes > 0 {
		expiresAt := now.Add(time.Duration(req.Body.ExpirationMinutes) * time.Minute).UnixMilli()
		link.ExpiresAt = &expiresAt
	}

	if err := h.links.Save(ctx, link); err != nil {
		h.logger.Error("failed to save link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, link.ShortCode)

	resp := &CreateLinkResponse{}
	resp.Headers.Location = shortURL
	resp.Body.ID = link.ID
	resp.Body.ShortCode = link.ShortCode
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = link.OriginalURL
	resp.Body.ExpiresAt = link.ExpiresAt

	return resp, nil
}
