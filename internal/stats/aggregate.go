// Package stats rolls click records up into the grouped counts the
// dashboard renders.
package stats

import (
	"time"

	"github.com/Roisfaozi/gas.to/internal/clicks"
)

// Aggregate reduces a record set to a Report in a single pass. It is
// a pure function of its input: the same records produce the same
// counts regardless of order, and an empty set produces a zero report
// with empty groupings.
func Aggregate(records []*clicks.ClickRecord) *Report {
	report := NewReport()
	visitors := map[string]struct{}{}

	for _, record := range records {
		report.TotalClicks++

		visitors[visitorKey(record)] = struct{}{}

		day := time.UnixMilli(record.CreatedAt).UTC().Format("2006-01-02")
		report.DailyClicks[day]++

		report.BrowserStats[orUnknown(record.Browser)]++
		report.OSStats[orUnknown(record.OS)]++
		report.DeviceStats[orUnknown(record.Device)]++
		report.CountryStats[orUnknown(record.Country)]++

		report.UTMStats.Sources[orNone(record.UTM.Source)]++
		report.UTMStats.Mediums[orNone(record.UTM.Medium)]++
		report.UTMStats.Campaigns[orNone(record.UTM.Campaign)]++
		report.UTMStats.Terms[orNone(record.UTM.Term)]++
		report.UTMStats.Contents[orNone(record.UTM.Content)]++
	}

	report.UniqueVisitors = int64(len(visitors))

	return report
}

// visitorKey identifies a distinct visitor for unique counting.
// Records written before identity resolution existed have no visitor
// id; fall back to fingerprint, then to the ip+ua pair.
func visitorKey(record *clicks.ClickRecord) string {
	if record.VisitorID != "" {
		return record.VisitorID
	}

	if record.Fingerprint != "" {
		return record.Fingerprint
	}

	return record.IP + "|" + record.UserAgent
}

func orUnknown(v string) string {
	if v == "" {
		return UnknownBucket
	}

	return v
}

func orNone(v *string) string {
	if v == nil || *v == "" {
		return NoneBucket
	}

	return *v
}
