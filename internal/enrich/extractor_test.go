package enrich_test

import (
	"context"
	"testing"

	"github.com/Roisfaozi/gas.to/internal/enrich"
	"github.com/Roisfaozi/gas.to/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 " +
		"(KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

// stubGeo returns a fixed location and records the looked-up IP.
type stubGeo struct {
	location geo.Location
	gotIP    string
}

func (s *stubGeo) Lookup(_ context.Context, ip string) geo.Location {
	s.gotIP = ip

	return s.location
}

func TestParseUserAgent(t *testing.T) {
	t.Run("classifies a desktop browser", func(t *testing.T) {
		info := enrich.ParseUserAgent(chromeWindowsUA)

		assert.Equal(t, "Chrome", info.Browser)
		assert.Equal(t, "Windows", info.OS)
		assert.Equal(t, "desktop", info.Device)
	})

	t.Run("classifies a mobile browser", func(t *testing.T) {
		info := enrich.ParseUserAgent(iphoneUA)

		assert.Equal(t, "mobile", info.Device)
		assert.Equal(t, "iOS", info.OS)
	})

	t.Run("empty user agent degrades to fallbacks", func(t *testing.T) {
		info := enrich.ParseUserAgent("")

		assert.Equal(t, enrich.UnknownValue, info.Browser)
		assert.Equal(t, enrich.UnknownValue, info.OS)
		assert.Equal(t, enrich.DefaultDevice, info.Device)
	})

	t.Run("garbage user agent degrades to fallbacks", func(t *testing.T) {
		info := enrich.ParseUserAgent("\x00\x01 not a user agent")

		assert.Equal(t, enrich.DefaultDevice, info.Device)
		assert.NotEmpty(t, info.Browser)
		assert.NotEmpty(t, info.OS)
	})
}

func TestParseUTM(t *testing.T) {
	t.Run("extracts all parameters", func(t *testing.T) {
		utm := enrich.ParseUTM("https://news.example.com/article?utm_source=newsletter" +
			"&utm_medium=email&utm_campaign=launch&utm_term=shortener&utm_content=header")

		require.NotNil(t, utm.Source)
		assert.Equal(t, "newsletter", *utm.Source)
		require.NotNil(t, utm.Medium)
		assert.Equal(t, "email", *utm.Medium)
		require.NotNil(t, utm.Campaign)
		assert.Equal(t, "launch", *utm.Campaign)
		require.NotNil(t, utm.Term)
		assert.Equal(t, "shortener", *utm.Term)
		require.NotNil(t, utm.Content)
		assert.Equal(t, "header", *utm.Content)
	})

	t.Run("missing parameters stay nil", func(t *testing.T) {
		utm := enrich.ParseUTM("https://news.example.com/article?utm_source=newsletter")

		require.NotNil(t, utm.Source)
		assert.Nil(t, utm.Medium)
		assert.Nil(t, utm.Campaign)
		assert.Nil(t, utm.Term)
		assert.Nil(t, utm.Content)
	})

	t.Run("empty parameter values stay nil", func(t *testing.T) {
		utm := enrich.ParseUTM("https://news.example.com/article?utm_source=")

		assert.Nil(t, utm.Source)
	})

	t.Run("empty referer yields empty UTM", func(t *testing.T) {
		utm := enrich.ParseUTM("")

		assert.Nil(t, utm.Source)
		assert.Nil(t, utm.Medium)
	})

	t.Run("unparseable referer yields empty UTM", func(t *testing.T) {
		utm := enrich.ParseUTM("://not-a-url")

		assert.Nil(t, utm.Source)
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Run("builds the full visit context", func(t *testing.T) {
		geoStub := &stubGeo{location: geo.Location{City: "Berlin", Country: "Germany"}}
		extractor := enrich.NewExtractor(geoStub)

		visit := extractor.Extract(context.Background(), enrich.RawVisit{
			UserAgent:      chromeWindowsUA,
			Referer:        "https://t.co/abc?utm_source=twitter",
			RemoteIP:       "203.0.113.9",
			AcceptLanguage: "de-DE, en-US;q=0.7",
		})

		assert.Equal(t, "203.0.113.9", visit.IP)
		assert.Equal(t, "203.0.113.9", geoStub.gotIP)
		assert.Equal(t, "Chrome", visit.Browser)
		assert.Equal(t, "Windows", visit.OS)
		assert.Equal(t, "desktop", visit.Device)
		assert.Equal(t, "de-DE", visit.Language)
		assert.Equal(t, "Berlin", visit.City)
		assert.Equal(t, "Germany", visit.Country)
		require.NotNil(t, visit.UTM.Source)
		assert.Equal(t, "twitter", *visit.UTM.Source)
	})

	t.Run("empty visit never fails", func(t *testing.T) {
		extractor := enrich.NewExtractor(geo.NoopResolver{})

		visit := extractor.Extract(context.Background(), enrich.RawVisit{})

		assert.Equal(t, enrich.UnknownValue, visit.Browser)
		assert.Equal(t, enrich.UnknownValue, visit.OS)
		assert.Equal(t, enrich.DefaultDevice, visit.Device)
		assert.Empty(t, visit.Language)
		assert.Empty(t, visit.Country)
	})
}
