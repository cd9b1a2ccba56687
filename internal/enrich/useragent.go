package enrich

import ua "github.com/mileusna/useragent"

// Fallback values for visits whose user agent cannot be classified.
const (
	UnknownValue  = "Unknown"
	DefaultDevice = "desktop"
)

// DeviceInfo is the parsed browser/os/device triple.
type DeviceInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent classifies a user agent string. It is total: any
// input, including empty or garbage bytes, yields the fallback triple
// rather than an error.
func ParseUserAgent(userAgent string) DeviceInfo {
	parsed := ua.Parse(userAgent)

	info := DeviceInfo{
		Browser: parsed.Name,
		OS:      parsed.OS,
		Device:  DefaultDevice,
	}

	if info.Browser == "" {
		info.Browser = UnknownValue
	}

	if info.OS == "" {
		info.OS = UnknownValue
	}

	switch {
	case parsed.Mobile:
		info.Device = "mobile"
	case parsed.Tablet:
		info.Device = "tablet"
	}

	return info
}
