package visitor

import "strings"

// Device types derived from the user agent string.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// ParseUserAgent classifies a raw User-Agent header into device type,
// browser family and operating system. Classification is best effort; the
// dashboard only needs coarse buckets.
func ParseUserAgent(ua string) (deviceType, browser, os string) {
	if ua == "" {
		return DeviceDesktop, "Unknown", "Unknown"
	}

	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		deviceType = DeviceTablet
	case strings.Contains(lower, "mobi") || strings.Contains(lower, "iphone") || strings.Contains(lower, "ipod") ||
		(strings.Contains(lower, "android") && strings.Contains(lower, "mobile")):
		deviceType = DeviceMobile
	default:
		deviceType = DeviceDesktop
	}

	// Order matters: Chrome UAs contain "safari", Edge UAs contain "chrome".
	switch {
	case strings.Contains(lower, "edg/") || strings.Contains(lower, "edge/"):
		browser = "Edge"
	case strings.Contains(lower, "opr/") || strings.Contains(lower, "opera"):
		browser = "Opera"
	case strings.Contains(lower, "firefox"):
		browser = "Firefox"
	case strings.Contains(lower, "chrome") || strings.Contains(lower, "crios"):
		browser = "Chrome"
	case strings.Contains(lower, "safari"):
		browser = "Safari"
	case strings.Contains(lower, "msie") || strings.Contains(lower, "trident"):
		browser = "Internet Explorer"
	default:
		browser = "Other"
	}

	switch {
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") || strings.Contains(lower, "ipod"):
		os = "iOS"
	case strings.Contains(lower, "android"):
		os = "Android"
	case strings.Contains(lower, "windows"):
		os = "Windows"
	case strings.Contains(lower, "mac os x") || strings.Contains(lower, "macintosh"):
		os = "macOS"
	case strings.Contains(lower, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	return deviceType, browser, os
}
