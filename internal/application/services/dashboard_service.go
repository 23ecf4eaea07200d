package services

import (
	"fmt"

	"github.com/securepent/securepent-go/internal/domain/reporting"
	"github.com/securepent/securepent-go/internal/infrastructure/caching/stores"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
)

// DashboardService assembles the reporting aggregates behind the admin
// dashboard. Results are cached briefly since the underlying queries scan
// the full event tables.
type DashboardService struct {
	repo   reporting.Repository
	cache  *stores.ReportingStore
	logger *logging.ChanneledLogger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo reporting.Repository, cache *stores.ReportingStore, logger *logging.ChanneledLogger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Overview is the combined dashboard payload.
type Overview struct {
	Stats     *reporting.DashboardStats `json:"stats"`
	Devices   []reporting.Breakdown     `json:"devices"`
	Browsers  []reporting.Breakdown     `json:"browsers"`
	TopPages  []reporting.PageStat      `json:"topPages"`
	Referrers []reporting.Breakdown     `json:"referrers"`
}

// Overview loads the summary counters plus every breakdown in one call.
func (s *DashboardService) Overview() (*Overview, error) {
	if cached, ok := s.cache.Get("overview"); ok {
		s.logger.Analytics().Debug("Dashboard overview served from cache")
		return cached.(*Overview), nil
	}

	stats, err := s.repo.DashboardStats()
	if err != nil {
		return nil, err
	}
	devices, err := s.repo.DeviceBreakdown()
	if err != nil {
		return nil, err
	}
	browsers, err := s.repo.BrowserBreakdown()
	if err != nil {
		return nil, err
	}
	pages, err := s.repo.TopPages(10)
	if err != nil {
		return nil, err
	}
	referrers, err := s.repo.TopReferrers(10)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Stats:     stats,
		Devices:   devices,
		Browsers:  browsers,
		TopPages:  pages,
		Referrers: referrers,
	}
	s.cache.Set("overview", overview)
	return overview, nil
}

// TopPages returns the most viewed page URLs.
func (s *DashboardService) TopPages(limit int) ([]reporting.PageStat, error) {
	key := fmt.Sprintf("pages:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]reporting.PageStat), nil
	}

	pages, err := s.repo.TopPages(limit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, pages)
	return pages, nil
}

// TopReferrers returns the most common traffic sources.
func (s *DashboardService) TopReferrers(limit int) ([]reporting.Breakdown, error) {
	key := fmt.Sprintf("referrers:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]reporting.Breakdown), nil
	}

	referrers, err := s.repo.TopReferrers(limit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, referrers)
	return referrers, nil
}

// Timeseries returns the per-day traffic series for the last `days` days.
func (s *DashboardService) Timeseries(days int) ([]reporting.TimePoint, error) {
	key := fmt.Sprintf("timeseries:%d", days)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]reporting.TimePoint), nil
	}

	points, err := s.repo.Timeseries(days)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, points)
	return points, nil
}
