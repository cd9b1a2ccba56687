// Package enrich turns a raw inbound visit into the structured
// attributes a click record is built from: parsed user agent, UTM
// parameters from the referring URL, visit language, and a
// best-effort geo location.
package enrich

import (
	"context"
	"net/url"
	"strings"

	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/Roisfaozi/gas.to/internal/geo"
)

// RawVisit is the unprocessed request surface the extractor works on.
type RawVisit struct {
	UserAgent      string
	Referer        string
	RemoteIP       string
	AcceptLanguage string
}

// VisitContext is the enriched view of one visit.
type VisitContext struct {
	IP        string
	UserAgent string
	Referer   string
	Browser   string
	OS        string
	Device    string
	Language  string
	City      string
	Country   string
	UTM       clicks.UTM
}

// Extractor normalizes raw visits. The geo resolver is its only
// external collaborator and is consulted best-effort.
type Extractor struct {
	geo geo.Resolver
}

// NewExtractor creates a visit context extractor.
func NewExtractor(geoResolver geo.Resolver) *Extractor {
	return &Extractor{geo: geoResolver}
}

// Extract builds the VisitContext for a raw visit. It never fails:
// unparseable pieces degrade to their fallback values.
func (e *Extractor) Extract(ctx context.Context, raw RawVisit) VisitContext {
	info := ParseUserAgent(raw.UserAgent)
	location := e.geo.Lookup(ctx, raw.RemoteIP)

	return VisitContext{
		IP:        raw.RemoteIP,
		UserAgent: raw.UserAgent,
		Referer:   raw.Referer,
		Browser:   info.Browser,
		OS:        info.OS,
		Device:    info.Device,
		Language:  firstLanguage(raw.AcceptLanguage),
		City:      location.City,
		Country:   location.Country,
		UTM:       ParseUTM(raw.Referer),
	}
}

// ParseUTM extracts campaign parameters from the referring URL's
// query string. Missing keys stay nil; an unparseable referer yields
// an empty UTM, never an error.
func ParseUTM(referer string) clicks.UTM {
	if referer == "" {
		return clicks.UTM{}
	}

	parsed, err := url.Parse(referer)
	if err != nil {
		return clicks.UTM{}
	}

	query := parsed.Query()

	return clicks.UTM{
		Source:   utmValue(query, "utm_source"),
		Medium:   utmValue(query, "utm_medium"),
		Campaign: utmValue(query, "utm_campaign"),
		Term:     utmValue(query, "utm_term"),
		Content:  utmValue(query, "utm_content"),
	}
}

func utmValue(query url.Values, key string) *string {
	if !query.Has(key) {
		return nil
	}

	v := query.Get(key)
	if v == "" {
		return nil
	}

	return &v
}

func firstLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return ""
	}

	first, _, _ := strings.Cut(acceptLanguage, ",")

	return strings.TrimSpace(first)
}
