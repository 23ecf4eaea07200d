package analytics

import (
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/reporting"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// SQLReportingRepository is the SQL-based implementation of
// reporting.Repository. Time boundaries are computed in Go and passed as
// parameters so the same queries run on every supported driver.
type SQLReportingRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewSQLReportingRepository creates a new instance of the repository.
func NewSQLReportingRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLReportingRepository {
	return &SQLReportingRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// DashboardStats computes the summary counters for the admin dashboard.
func (r *SQLReportingRepository) DashboardStats() (*reporting.DashboardStats, error) {
	start := time.Now()
	now := r.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.AddDate(0, 0, -7)

	stats := &reporting.DashboardStats{}

	counters := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(DISTINCT visitor_id) FROM analytics_sessions`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(DISTINCT visitor_id) FROM analytics_sessions WHERE started_at >= ?`, []any{todayStart}},
		{&stats.VisitorsWeek, `SELECT COUNT(DISTINCT visitor_id) FROM analytics_sessions WHERE started_at >= ?`, []any{weekStart}},
		{&stats.TotalPageViews, `SELECT COUNT(*) FROM analytics_events WHERE event_type = 'page_view'`, nil},
		{&stats.PageViewsToday, `SELECT COUNT(*) FROM analytics_events WHERE event_type = 'page_view' AND created_at >= ?`, []any{todayStart}},
		{&stats.TotalContacts, `SELECT COUNT(*) FROM contacts`, nil},
		{&stats.NewContacts, `SELECT COUNT(*) FROM contacts WHERE status = 'new'`, nil},
		{&stats.ContactsWeek, `SELECT COUNT(*) FROM contacts WHERE created_at >= ?`, []any{weekStart}},
	}
	for _, c := range counters {
		if err := r.db.QueryRow(c.query, c.args...).Scan(c.dest); err != nil {
			r.logger.Database().Error("Dashboard counter query failed", "error", err.Error(), "query", c.query)
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	const durationQuery = `SELECT COALESCE(AVG(total_time_seconds), 0) FROM analytics_sessions WHERE total_time_seconds > 0`
	if err := r.db.QueryRow(durationQuery).Scan(&stats.AvgSessionDuration); err != nil {
		r.logger.Database().Error("Average session duration query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to compute average session duration: %w", err)
	}

	r.db.CheckAndLogSlowQuery("dashboard stats", time.Since(start))
	return stats, nil
}

// DeviceBreakdown returns session counts grouped by device type.
func (r *SQLReportingRepository) DeviceBreakdown() ([]reporting.Breakdown, error) {
	const query = `
		SELECT device_type, COUNT(*) AS count
		FROM analytics_sessions
		WHERE device_type <> ''
		GROUP BY device_type
		ORDER BY count DESC`
	return r.breakdown(query)
}

// BrowserBreakdown returns session counts grouped by browser.
func (r *SQLReportingRepository) BrowserBreakdown() ([]reporting.Breakdown, error) {
	const query = `
		SELECT browser, COUNT(*) AS count
		FROM analytics_sessions
		WHERE browser <> ''
		GROUP BY browser
		ORDER BY count DESC`
	return r.breakdown(query)
}

// TopPages returns the most viewed page URLs.
func (r *SQLReportingRepository) TopPages(limit int) ([]reporting.PageStat, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	const query = `
		SELECT page_url, COUNT(*) AS views
		FROM analytics_events
		WHERE event_type = 'page_view' AND page_url IS NOT NULL
		GROUP BY page_url
		ORDER BY views DESC
		LIMIT ?`

	start := time.Now()
	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Database().Error("Top pages query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to compute top pages: %w", err)
	}
	defer rows.Close()

	var pages []reporting.PageStat
	for rows.Next() {
		var p reporting.PageStat
		if err := rows.Scan(&p.URL, &p.Views); err != nil {
			return nil, fmt.Errorf("failed to scan page stat: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top pages iteration failed: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return pages, nil
}

// TopReferrers returns the most common session referrers.
func (r *SQLReportingRepository) TopReferrers(limit int) ([]reporting.Breakdown, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	const query = `
		SELECT referrer, COUNT(*) AS count
		FROM analytics_sessions
		WHERE referrer <> ''
		GROUP BY referrer
		ORDER BY count DESC
		LIMIT ?`
	return r.breakdown(query, limit)
}

// Timeseries returns per-day session and page-view totals for the last
// `days` days, oldest first. Days without traffic are filled with zeroes.
func (r *SQLReportingRepository) Timeseries(days int) ([]reporting.TimePoint, error) {
	if days <= 0 || days > 90 {
		days = 30
	}

	dayExpr := "strftime('%Y-%m-%d', started_at)"
	eventDayExpr := "strftime('%Y-%m-%d', created_at)"
	if r.db.Postgres() {
		dayExpr = "to_char(started_at, 'YYYY-MM-DD')"
		eventDayExpr = "to_char(created_at, 'YYYY-MM-DD')"
	}

	now := r.now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	sessionQuery := fmt.Sprintf(`
		SELECT %s AS day, COUNT(*) AS sessions
		FROM analytics_sessions
		WHERE started_at >= ?
		GROUP BY day`, dayExpr)
	eventQuery := fmt.Sprintf(`
		SELECT %s AS day, COUNT(*) AS views
		FROM analytics_events
		WHERE event_type = 'page_view' AND created_at >= ?
		GROUP BY day`, eventDayExpr)

	start := time.Now()

	sessionsByDay, err := r.countsByDay(sessionQuery, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute session timeseries: %w", err)
	}
	viewsByDay, err := r.countsByDay(eventQuery, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute page view timeseries: %w", err)
	}

	points := make([]reporting.TimePoint, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, reporting.TimePoint{
			Day:       day,
			Sessions:  sessionsByDay[day],
			PageViews: viewsByDay[day],
		})
	}

	r.db.CheckAndLogSlowQuery("traffic timeseries", time.Since(start))
	return points, nil
}

func (r *SQLReportingRepository) breakdown(query string, args ...any) ([]reporting.Breakdown, error) {
	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Breakdown query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to compute breakdown: %w", err)
	}
	defer rows.Close()

	var result []reporting.Breakdown
	for rows.Next() {
		var b reporting.Breakdown
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("breakdown iteration failed: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return result, nil
}

func (r *SQLReportingRepository) countsByDay(query string, since time.Time) (map[string]int, error) {
	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}
