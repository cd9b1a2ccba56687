package stats

// Bucket labels for records missing a dimension value. UTM fields use
// "None" so dashboards can distinguish untagged traffic from traffic
// whose user agent or geo simply could not be classified.
const (
	UnknownBucket = "Unknown"
	NoneBucket    = "None"
)

// UTMReport groups click counts by each campaign dimension.
type UTMReport struct {
	Sources   map[string]int64 `json:"sources"`
	Mediums   map[string]int64 `json:"mediums"`
	Campaigns map[string]int64 `json:"campaigns"`
	Terms     map[string]int64 `json:"terms"`
	Contents  map[string]int64 `json:"contents"`
}

// Report is the aggregated view of a set of click records. Maps are
// always non-nil, so an empty window serializes to empty objects
// rather than nulls.
type Report struct {
	TotalClicks    int64            `json:"total_clicks"`
	UniqueVisitors int64            `json:"unique_visitors"`
	DailyClicks    map[string]int64 `json:"daily_clicks"` // UTC calendar date -> count
	BrowserStats   map[string]int64 `json:"browser_stats"`
	OSStats        map[string]int64 `json:"os_stats"`
	DeviceStats    map[string]int64 `json:"device_stats"`
	CountryStats   map[string]int64 `json:"country_stats"`
	UTMStats       UTMReport        `json:"utm_stats"`
}

// NewReport returns an empty report with all groupings allocated.
func NewReport() *Report {
	return &Report{
		DailyClicks:  map[string]int64{},
		BrowserStats: map[string]int64{},
		OSStats:      map[string]int64{},
		DeviceStats:  map[string]int64{},
		CountryStats: map[string]int64{},
		UTMStats: UTMReport{
			Sources:   map[string]int64{},
			Mediums:   map[string]int64{},
			Campaigns: map[string]int64{},
			Terms:     map[string]int64{},
			Contents:  map[string]int64{},
		},
	}
}

// Merge adds other's counts into r. Used to compose a bio page report
// from per-child link reports without re-scanning records.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}

	r.TotalClicks += other.TotalClicks
	r.UniqueVisitors += other.UniqueVisitors

	mergeCounts(r.DailyClicks, other.DailyClicks)
	mergeCounts(r.BrowserStats, other.BrowserStats)
	mergeCounts(r.OSStats, other.OSStats)
	mergeCounts(r.DeviceStats, other.DeviceStats)
	mergeCounts(r.CountryStats, other.CountryStats)
	mergeCounts(r.UTMStats.Sources, other.UTMStats.Sources)
	mergeCounts(r.UTMStats.Mediums, other.UTMStats.Mediums)
	mergeCounts(r.UTMStats.Campaigns, other.UTMStats.Campaigns)
	mergeCounts(r.UTMStats.Terms, other.UTMStats.Terms)
	mergeCounts(r.UTMStats.Contents, other.UTMStats.Contents)
}

func mergeCounts(dst, src map[string]int64) {
	for k, v := range src {
		dst[k] += v
	}
}
