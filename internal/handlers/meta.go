package handlers

import (
	"context"

	"github.com/Roisfaozi/gas.to/internal/dispatch"
	"github.com/Roisfaozi/gas.to/internal/enrich"
	"github.com/Roisfaozi/gas.to/internal/visitor"
)

type requestMetaKey struct{}

// RequestMeta is the per-request surface the middleware captures for
// analytics: network identity, the raw headers the extractor parses,
// the fingerprint signals the client reports, and the authenticated
// viewer when present. It travels in the context so handlers stay
// free of transport details.
type RequestMeta struct {
	ClientIP       string
	UserAgent      string
	Referer        string
	AcceptLanguage string
	ViewerID       string
	Signals        visitor.Signals
}

// ContextWithRequestMeta stores request metadata in the context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from the context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// Visit converts the metadata into the dispatcher's visit shape.
func (m RequestMeta) Visit() dispatch.Visit {
	return dispatch.Visit{
		Raw: enrich.RawVisit{
			UserAgent:      m.UserAgent,
			Referer:        m.Referer,
			RemoteIP:       m.ClientIP,
			AcceptLanguage: m.AcceptLanguage,
		},
		Signals:  m.Signals,
		ViewerID: m.ViewerID,
	}
}
