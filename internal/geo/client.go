// Package geo resolves client IPs to coarse locations through an
// ip-api.com style JSON endpoint. The lookup is a soft dependency of
// the redirect path: it is bounded by a short timeout and degrades to
// an empty location instead of failing the request.
package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

// Location is the resolved city/country pair. The zero value means
// the lookup was skipped or failed.
type Location struct {
	City    string
	Country string
}

// Resolver resolves an IP to a Location.
type Resolver interface {
	Lookup(ctx context.Context, ip string) Location
}

// Client is an HTTP-backed Resolver.
type Client struct {
	http    *req.Client
	baseURL string
	logger  *zap.Logger
}

type lookupResponse struct {
	Status  string `json:"status"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// NewClient creates a geo client for a service speaking the ip-api
// JSON format, e.g. http://ip-api.com.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := req.C().
		SetTimeout(timeout).
		SetUserAgent("gasto-geo/1.0").
		SetCommonHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Lookup resolves ip to a Location. Loopback, private, and empty
// addresses are skipped without a network call. Failures log and
// return the zero Location; they never propagate.
func (c *Client) Lookup(ctx context.Context, ip string) Location {
	if !LookupableIP(ip) {
		return Location{}
	}

	var body lookupResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&body).
		Get(fmt.Sprintf("%s/json/%s", c.baseURL, ip))
	if err != nil {
		c.logger.Warn("geo lookup failed", zap.String("ip", ip), zap.Error(err))

		return Location{}
	}

	if !resp.IsSuccessState() || body.Status == "fail" {
		c.logger.Warn("geo lookup rejected",
			zap.String("ip", ip),
			zap.Int("status", resp.StatusCode),
		)

		return Location{}
	}

	return Location{
		City:    body.City,
		Country: body.Country,
	}
}

// NoopResolver always returns the zero Location. Used when no geo
// service is configured and in tests.
type NoopResolver struct{}

func (NoopResolver) Lookup(_ context.Context, _ string) Location {
	return Location{}
}
