package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// SeriesPoint is one time bucket of the visitors/page-views series.
type SeriesPoint struct {
	T         time.Time `json:"t"`
	Visitors  int64     `json:"visitors"`
	PageViews int64     `json:"pageViews"`
}

// PageStat ranks a page by view count within a range.
type PageStat struct {
	Path             string  `json:"path"`
	Views            int64   `json:"views"`
	AvgActiveTimeSec float64 `json:"avgActiveTimeSec"`
}

// NamedCount is a generic ranked breakdown row (source, device, geo).
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Totals are the range-wide KPI aggregates.
type Totals struct {
	Visitors      int64
	PageViews     int64
	ActiveTimeSec int64
}

// Repository defines persistence operations for the analytics event log.
type Repository interface {
	Create(ctx context.Context, event *AnalyticsEvent) error
	Totals(ctx context.Context, from, to time.Time) (*Totals, error)
	Series(ctx context.Context, from, to time.Time, bucket Bucket) ([]SeriesPoint, error)
	TopPages(ctx context.Context, from, to time.Time, limit int) ([]PageStat, error)
	Sources(ctx context.Context, from, to time.Time, limit int) ([]NamedCount, error)
	Breakdown(ctx context.Context, from, to time.Time, dimension Dimension, limit int) ([]NamedCount, error)
	LiveVisitors(ctx context.Context, window time.Duration) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Dimension selects the grouping column of a breakdown query.
type Dimension string

const (
	DimensionDeviceType Dimension = "device_type"
	DimensionBrowser    Dimension = "browser"
	DimensionOS         Dimension = "os"
	DimensionCountry    Dimension = "country"
	DimensionCity       Dimension = "city"
)

var dimensionColumns = map[Dimension]string{
	DimensionDeviceType: "device_type",
	DimensionBrowser:    "browser",
	DimensionOS:         "os",
	DimensionCountry:    "country",
	DimensionCity:       "city",
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) Totals(ctx context.Context, from, to time.Time) (*Totals, error) {
	var row struct {
		Visitors      int64
		PageViews     int64
		ActiveTimeSec int64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT visitor_id) AS visitors,
			COUNT(*) FILTER (WHERE event = 'page_view') AS page_views,
			COALESCE(SUM(active_seconds), 0) AS active_time_sec
		FROM analytics_events
		WHERE ts >= ? AND ts < ?
	`, from, to).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics totals: %w", err)
	}

	return &Totals{
		Visitors:      row.Visitors,
		PageViews:     row.PageViews,
		ActiveTimeSec: row.ActiveTimeSec,
	}, nil
}

func (r *repository) Series(ctx context.Context, from, to time.Time, bucket Bucket) ([]SeriesPoint, error) {
	unit := "hour"
	if bucket == BucketDay {
		unit = "day"
	}

	var points []SeriesPoint
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			date_trunc(?, ts AT TIME ZONE 'UTC') AS t,
			COUNT(DISTINCT visitor_id) AS visitors,
			COUNT(*) FILTER (WHERE event = 'page_view') AS page_views
		FROM analytics_events
		WHERE ts >= ? AND ts < ?
		GROUP BY 1
		ORDER BY 1 ASC
	`, unit, from, to).Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics series: %w", err)
	}

	return points, nil
}

func (r *repository) TopPages(ctx context.Context, from, to time.Time, limit int) ([]PageStat, error) {
	if limit <= 0 {
		limit = 10
	}

	var pages []PageStat
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			v.path AS path,
			v.views AS views,
			COALESCE(h.active_sec, 0)::float / v.views AS avg_active_time_sec
		FROM (
			SELECT path, COUNT(*) AS views
			FROM analytics_events
			WHERE event = 'page_view' AND ts >= ? AND ts < ?
			GROUP BY path
		) v
		LEFT JOIN (
			SELECT path, SUM(active_seconds) AS active_sec
			FROM analytics_events
			WHERE event = 'heartbeat' AND ts >= ? AND ts < ?
			GROUP BY path
		) h ON h.path = v.path
		ORDER BY v.views DESC
		LIMIT ?
	`, from, to, from, to, limit).Scan(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}

	return pages, nil
}

func (r *repository) Sources(ctx context.Context, from, to time.Time, limit int) ([]NamedCount, error) {
	if limit <= 0 {
		limit = 10
	}

	// UTM source wins over the referrer host; everything else is direct
	// traffic. Heartbeats are excluded so high-frequency ticks don't inflate
	// source counts.
	var sources []NamedCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(
				NULLIF(utm_source, ''),
				NULLIF(substring(referrer from '^https?://([^/]+)'), ''),
				'Direct'
			) AS name,
			COUNT(*) AS count
		FROM analytics_events
		WHERE event <> 'heartbeat' AND ts >= ? AND ts < ?
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT ?
	`, from, to, limit).Scan(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query traffic sources: %w", err)
	}

	return sources, nil
}

func (r *repository) Breakdown(ctx context.Context, from, to time.Time, dimension Dimension, limit int) ([]NamedCount, error) {
	column, ok := dimensionColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("%w: unknown dimension %q", ErrInvalidInput, dimension)
	}
	if limit <= 0 {
		limit = 10
	}

	var rows []NamedCount
	var err error
	switch dimension {
	case DimensionCountry, DimensionCity:
		// Geo columns stay NULL when enrichment was skipped or failed; those
		// rows carry no signal for the geo breakdown.
		err = r.db.WithContext(ctx).Raw(fmt.Sprintf(`
			SELECT %s AS name, COUNT(*) AS count
			FROM analytics_events
			WHERE event <> 'heartbeat' AND ts >= ? AND ts < ? AND %s IS NOT NULL AND %s <> ''
			GROUP BY 1
			ORDER BY 2 DESC
			LIMIT ?
		`, column, column, column), from, to, limit).Scan(&rows).Error
	default:
		err = r.db.WithContext(ctx).Raw(fmt.Sprintf(`
			SELECT COALESCE(NULLIF(%s, ''), 'Unknown') AS name, COUNT(*) AS count
			FROM analytics_events
			WHERE event <> 'heartbeat' AND ts >= ? AND ts < ?
			GROUP BY 1
			ORDER BY 2 DESC
			LIMIT ?
		`, column), from, to, limit).Scan(&rows).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s breakdown: %w", dimension, err)
	}

	return rows, nil
}

func (r *repository) LiveVisitors(ctx context.Context, window time.Duration) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT visitor_id)
		FROM analytics_events
		WHERE ts >= ?
	`, time.Now().UTC().Add(-window)).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query live visitors: %w", err)
	}
	return count, nil
}

func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("ts < ?", cutoff).Delete(&AnalyticsEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune analytics events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
