// Package reporting defines the read-only aggregate shapes consumed by the
// admin dashboard. These are plain COUNT/GROUP BY reporting queries, not an
// analytics engine.
package reporting

// DashboardStats is the summary block on the admin dashboard.
type DashboardStats struct {
	TotalVisitors      int     `json:"totalVisitors"`
	VisitorsToday      int     `json:"visitorsToday"`
	VisitorsWeek       int     `json:"visitorsWeek"`
	TotalPageViews     int     `json:"totalPageViews"`
	PageViewsToday     int     `json:"pageViewsToday"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	TotalContacts      int     `json:"totalContacts"`
	NewContacts        int     `json:"newContacts"`
	ContactsWeek       int     `json:"contactsWeek"`
}

// Breakdown is one label/count pair from a GROUP BY query.
type Breakdown struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PageStat is view counts for one page URL.
type PageStat struct {
	URL   string `json:"url"`
	Views int    `json:"views"`
}

// TimePoint is one day's session and page-view totals.
type TimePoint struct {
	Day       string `json:"day"`
	Sessions  int    `json:"sessions"`
	PageViews int    `json:"pageViews"`
}

// Repository defines the dashboard reporting queries.
type Repository interface {
	DashboardStats() (*DashboardStats, error)
	DeviceBreakdown() ([]Breakdown, error)
	BrowserBreakdown() ([]Breakdown, error)
	TopPages(limit int) ([]PageStat, error)
	TopReferrers(limit int) ([]Breakdown, error)
	Timeseries(days int) ([]TimePoint, error)
}
