package analytics

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	ErrInvalidEvent  = errors.New("invalid event kind")
	ErrMissingIDs    = errors.New("missing visitor or session id")
	ErrInvalidRange  = errors.New("invalid time range")
	ErrInvalidBucket = errors.New("invalid bucket")
)

// Bucket is the aggregation window of the summary series.
type Bucket string

const (
	BucketHour Bucket = "hour"
	BucketDay  Bucket = "day"
)

func (b Bucket) IsValid() bool {
	return b == BucketHour || b == BucketDay
}

func (b Bucket) step() time.Duration {
	if b == BucketDay {
		return 24 * time.Hour
	}
	return time.Hour
}

// truncate aligns a timestamp to the bucket boundary in UTC.
func (b Bucket) truncate(t time.Time) time.Time {
	t = t.UTC()
	if b == BucketDay {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Truncate(time.Hour)
}

// GeoLocation is a resolved IP location carried into an event.
type GeoLocation struct {
	Country string
	City    string
}

// GeoResolver resolves a client IP to an approximate location. Resolution is
// best-effort: a nil result with a nil error means the IP could not be placed.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (*GeoLocation, error)
}

// CollectInput is an unvalidated event payload as received from the browser
// collector. String fields are trimmed and length-capped before persistence.
type CollectInput struct {
	Event     string
	VisitorID string
	SessionID string
	UserID    string

	// TsMillis is the client timestamp in unix milliseconds; zero or negative
	// values fall back to server time.
	TsMillis int64

	Path     string
	Title    string
	Referrer string

	UTMSource   string
	UTMMedium   string
	UTMCampaign string

	DeviceType string
	Browser    string
	OS         string
	Screen     string
	Lang       string

	ActiveSeconds float64

	ClientIP string
}

// SummaryInput selects the range and bucketing of a summary query. The range
// is half-open: [From, To).
type SummaryInput struct {
	From   time.Time
	To     time.Time
	Bucket Bucket
}

// KPIs are the headline numbers of a summary.
type KPIs struct {
	Visitors         int64   `json:"visitors"`
	PageViews        int64   `json:"pageViews"`
	ActiveTimeSec    int64   `json:"activeTimeSec"`
	AvgActiveTimeSec float64 `json:"avgActiveTimeSec"`
}

// Live reports distinct visitors active inside the trailing window,
// independent of the queried range.
type Live struct {
	WindowSec int       `json:"windowSec"`
	Users     int64     `json:"users"`
	Since     time.Time `json:"since"`
	Now       time.Time `json:"now"`
}

// DeviceBreakdown groups ranked device dimensions.
type DeviceBreakdown struct {
	DeviceType []NamedCount `json:"deviceType"`
	Browser    []NamedCount `json:"browser"`
	OS         []NamedCount `json:"os"`
}

// GeoBreakdown carries geo rankings; Enabled is false when no event in range
// has geo data.
type GeoBreakdown struct {
	Enabled   bool         `json:"enabled"`
	Countries []NamedCount `json:"countries"`
	Cities    []NamedCount `json:"cities"`
}

// Summary is the full aggregation result for a range.
type Summary struct {
	KPIs     KPIs            `json:"kpis"`
	Live     Live            `json:"live"`
	Series   []SeriesPoint   `json:"series"`
	TopPages []PageStat      `json:"topPages"`
	Sources  []NamedCount    `json:"sources"`
	Devices  DeviceBreakdown `json:"devices"`
	Geo      GeoBreakdown    `json:"geo"`
}

// Service exposes event ingestion and summary aggregation.
type Service interface {
	Collect(ctx context.Context, input CollectInput) (*AnalyticsEvent, error)
	Summary(ctx context.Context, input SummaryInput) (*Summary, error)
	LiveVisitors(ctx context.Context) (*Live, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo       Repository
	geo        GeoResolver
	liveWindow time.Duration
	logger     *zap.Logger
}

// NewService builds the analytics service. geo may be nil to disable
// enrichment entirely.
func NewService(repo Repository, geo GeoResolver, liveWindow time.Duration, logger *zap.Logger) Service {
	if liveWindow <= 0 {
		liveWindow = 5 * time.Minute
	}
	return &service{
		repo:       repo,
		geo:        geo,
		liveWindow: liveWindow,
		logger:     logger,
	}
}

// cap trims s and truncates it to at most max bytes, returning nil for
// empties. The cut lands on a rune boundary so a multibyte character is never
// split into invalid UTF-8, which Postgres would reject.
func capStr(s string, max int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return &s
}

func capStrDefault(s string, max int, fallback string) string {
	if v := capStr(s, max); v != nil {
		return *v
	}
	return fallback
}

func (s *service) Collect(ctx context.Context, input CollectInput) (*AnalyticsEvent, error) {
	kind := EventKind(strings.TrimSpace(input.Event))
	if !kind.IsValid() {
		return nil, ErrInvalidEvent
	}

	visitorID := capStr(input.VisitorID, 100)
	sessionID := capStr(input.SessionID, 100)
	if visitorID == nil || sessionID == nil {
		return nil, ErrMissingIDs
	}

	ts := time.Now().UTC()
	if input.TsMillis > 0 {
		ts = time.UnixMilli(input.TsMillis).UTC()
	}

	activeSeconds := 0
	if kind == EventHeartbeat {
		activeSeconds = int(math.Floor(input.ActiveSeconds))
		if activeSeconds < 0 {
			activeSeconds = 0
		}
		if activeSeconds > MaxHeartbeatSeconds {
			activeSeconds = MaxHeartbeatSeconds
		}
	}

	event := &AnalyticsEvent{
		Ts:            ts,
		Event:         kind,
		VisitorID:     *visitorID,
		SessionID:     *sessionID,
		UserID:        capStr(input.UserID, 100),
		Path:          capStrDefault(input.Path, 1000, "/"),
		Title:         capStr(input.Title, 300),
		Referrer:      capStr(input.Referrer, 1000),
		UTMSource:     capStr(input.UTMSource, 120),
		UTMMedium:     capStr(input.UTMMedium, 120),
		UTMCampaign:   capStr(input.UTMCampaign, 120),
		DeviceType:    capStr(input.DeviceType, 50),
		Browser:       capStr(input.Browser, 80),
		OS:            capStr(input.OS, 80),
		Screen:        capStr(input.Screen, 50),
		Lang:          capStr(input.Lang, 30),
		ActiveSeconds: activeSeconds,
	}

	// Geo enrichment only for session_start/page_view: heartbeats arrive
	// every few seconds and would hammer the lookup path for no new signal.
	if kind != EventHeartbeat && s.geo != nil && input.ClientIP != "" {
		loc, err := s.geo.Resolve(ctx, input.ClientIP)
		if err != nil {
			s.logger.Warn("geo lookup failed",
				zap.String("ip", input.ClientIP),
				zap.Error(err))
		} else if loc != nil {
			event.Country = capStr(loc.Country, 120)
			event.City = capStr(loc.City, 120)
		}
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Summary(ctx context.Context, input SummaryInput) (*Summary, error) {
	if !input.Bucket.IsValid() {
		return nil, ErrInvalidBucket
	}
	if input.From.IsZero() || input.To.IsZero() || !input.From.Before(input.To) {
		return nil, ErrInvalidRange
	}

	from := input.From.UTC()
	to := input.To.UTC()

	totals, err := s.repo.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rawSeries, err := s.repo.Series(ctx, from, to, input.Bucket)
	if err != nil {
		return nil, err
	}

	topPages, err := s.repo.TopPages(ctx, from, to, 10)
	if err != nil {
		return nil, err
	}

	sources, err := s.repo.Sources(ctx, from, to, 10)
	if err != nil {
		return nil, err
	}

	devices := DeviceBreakdown{}
	for _, dim := range []struct {
		dimension Dimension
		dest      *[]NamedCount
	}{
		{DimensionDeviceType, &devices.DeviceType},
		{DimensionBrowser, &devices.Browser},
		{DimensionOS, &devices.OS},
	} {
		rows, err := s.repo.Breakdown(ctx, from, to, dim.dimension, 10)
		if err != nil {
			return nil, err
		}
		*dim.dest = rows
	}

	countries, err := s.repo.Breakdown(ctx, from, to, DimensionCountry, 10)
	if err != nil {
		return nil, err
	}
	cities, err := s.repo.Breakdown(ctx, from, to, DimensionCity, 10)
	if err != nil {
		return nil, err
	}

	live, err := s.LiveVisitors(ctx)
	if err != nil {
		// Live is a garnish on the summary; a failed count should not sink
		// the whole response.
		s.logger.Warn("live visitor count failed", zap.Error(err))
		live = &Live{WindowSec: int(s.liveWindow.Seconds()), Now: time.Now().UTC()}
	}

	avgActive := 0.0
	if totals.Visitors > 0 {
		avgActive = float64(totals.ActiveTimeSec) / float64(totals.Visitors)
	}

	return &Summary{
		KPIs: KPIs{
			Visitors:         totals.Visitors,
			PageViews:        totals.PageViews,
			ActiveTimeSec:    totals.ActiveTimeSec,
			AvgActiveTimeSec: avgActive,
		},
		Live:     *live,
		Series:   FillSeries(rawSeries, from, to, input.Bucket),
		TopPages: topPages,
		Sources:  sources,
		Devices:  devices,
		Geo: GeoBreakdown{
			Enabled:   len(countries) > 0 || len(cities) > 0,
			Countries: countries,
			Cities:    cities,
		},
	}, nil
}

func (s *service) LiveVisitors(ctx context.Context) (*Live, error) {
	users, err := s.repo.LiveVisitors(ctx, s.liveWindow)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Live{
		WindowSec: int(s.liveWindow.Seconds()),
		Users:     users,
		Since:     now.Add(-s.liveWindow),
		Now:       now,
	}, nil
}

func (s *service) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// FillSeries zero-fills the bucket series over the half-open range [from, to):
// one point per bucket starting at truncate(from), stepping while the bucket
// start is before to. An exact 24 h hourly range therefore yields 24 points.
func FillSeries(points []SeriesPoint, from, to time.Time, bucket Bucket) []SeriesPoint {
	byBucket := make(map[time.Time]SeriesPoint, len(points))
	for _, p := range points {
		byBucket[p.T.UTC()] = p
	}

	var filled []SeriesPoint
	for t := bucket.truncate(from); t.Before(to); t = t.Add(bucket.step()) {
		if p, ok := byBucket[t]; ok {
			filled = append(filled, SeriesPoint{T: t, Visitors: p.Visitors, PageViews: p.PageViews})
		} else {
			filled = append(filled, SeriesPoint{T: t})
		}
	}
	return filled
}
