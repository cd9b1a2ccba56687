package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Roisfaozi/gas.to/internal/dispatch"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// BioHandler serves public bio pages and their link redirects.
type BioHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

// NewBioHandler creates the bio page handler.
func NewBioHandler(dispatcher *dispatch.Dispatcher, logger *zap.Logger) *BioHandler {
	return &BioHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// BioPageRequest is the request for viewing a bio page.
type BioPageRequest struct {
	Username string `doc:"The bio page username" example:"roisfaozi" path:"username"`
}

// BioLinkModel is one rendered bio link.
type BioLinkModel struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

// SocialLinkModel is one rendered social profile link.
type SocialLinkModel struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// BioPageResponse is the page render model: active links in display
// order plus social profiles. Private pages viewed by non-owners keep
// the shell but both lists come back empty.
type BioPageResponse struct {
	Body struct {
		Username    string            `json:"username"`
		Title       string            `json:"title"`
		Description string            `json:"description,omitempty"`
		Theme       map[string]any    `json:"theme,omitempty"`
		BioLinks    []BioLinkModel    `json:"bio_links"`
		SocialLinks []SocialLinkModel `json:"social_links"`
	}
}

// GetBioPage renders a bio page by username.
func (h *BioHandler) GetBioPage(ctx context.Context, req *BioPageRequest) (*BioPageResponse, error) {
	meta := RequestMetaFromContext(ctx)

	view, err := h.dispatcher.ResolveBioPage(ctx, req.Username, meta.Visit())
	if err != nil {
		if errors.Is(err, dispatch.ErrNotFound) {
			return nil, huma.Error404NotFound("No url found")
		}

		h.logger.Error("bio page resolution failed",
			zap.String("username", req.Username),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to load bio page")
	}

	resp := &BioPageResponse{}
	resp.Body.Username = view.Page.Username
	resp.Body.Title = view.Page.Title
	resp.Body.Description = view.Page.Description
	resp.Body.Theme = view.Page.Theme
	resp.Body.BioLinks = make([]BioLinkModel, 0, len(view.BioLinks))
	resp.Body.SocialLinks = make([]SocialLinkModel, 0, len(view.SocialLinks))

	for _, link := range view.BioLinks {
		resp.Body.BioLinks = append(resp.Body.BioLinks, BioLinkModel{
			ID:        link.ID,
			Title:     link.Title,
			URL:       link.URL,
			Icon:      link.Icon,
			SortOrder: link.SortOrder,
		})
	}

	for _, social := range view.SocialLinks {
		resp.Body.SocialLinks = append(resp.Body.SocialLinks, SocialLinkModel{
			ID:       social.ID,
			Platform: social.Platform,
			URL:      social.URL,
		})
	}

	return resp, nil
}

// BioLinkRedirectRequest is the request for following one bio link.
type BioLinkRedirectRequest struct {
	Username  string `doc:"The bio page username" path:"username"`
	BioLinkID string `doc:"The bio link id"       path:"bioLinkId"`
}

// BioLinkRedirectResponse redirects to the bio link destination.
type BioLinkRedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// RedirectBioLink records a click on one bio link and redirects to
// its destination. Bio link destinations are owner-editable, so no
// long-lived caching here.
func (h *BioHandler) RedirectBioLink(ctx context.Context, req *BioLinkRedirectRequest) (*BioLinkRedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	url, err := h.dispatcher.ResolveBioLink(ctx, req.Username, req.BioLinkID, meta.Visit())
	if err != nil {
		if errors.Is(err, dispatch.ErrNotFound) {
			return nil, huma.Error404NotFound("No url found")
		}

		h.logger.Error("bio link resolution failed",
			zap.String("username", req.Username),
			zap.String("bioLinkId", req.BioLinkID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve bio link")
	}

	resp := &BioLinkRedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = url

	return resp, nil
}
