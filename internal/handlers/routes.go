package handlers

import (
	"net/http"
	"time"

	"github.com/Roisfaozi/gas.to/internal/ratelimit"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers every public operation. Only the write API
// carries rate limit metadata; the redirect and bio read paths stay
// unlimited.
func RegisterRoutes(
	api huma.API,
	redirectHandler *RedirectHandler,
	bioHandler *BioHandler,
	statsHandler *StatsHandler,
	linkHandler *LinkHandler,
	healthHandler *HealthHandler,
) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports service and dependency health.",
		Tags:        []string{"Health"},
	}, healthHandler.Check)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create short link",
		Description: "Shortens a URL, optionally with an expiry.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, linkHandler.CreateLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/stats/{id}",
		Summary:     "Link stats",
		Description: "Aggregated click stats for one link over an optional window.",
		Tags:        []string{"Stats"},
	}, statsHandler.GetLinkStats)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/bio/{id}/stats",
		Summary:     "Bio page stats",
		Description: "Aggregated view and click stats for a bio page and its links.",
		Tags:        []string{"Stats"},
	}, statsHandler.GetBioPageStats)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/bio/{username}",
		Summary:     "View bio page",
		Description: "Renders the public bio page model for a username.",
		Tags:        []string{"Bio"},
	}, bioHandler.GetBioPage)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/bio/{username}/l/{bioLinkId}",
		Summary:     "Follow bio link",
		Description: "Records the click and redirects to the bio link destination.",
		Tags:        []string{"Bio"},
	}, bioHandler.RedirectBioLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect short link",
		Description: "Redirects to the original URL for a short code.",
		Tags:        []string{"Links"},
	}, redirectHandler.Redirect)
}
