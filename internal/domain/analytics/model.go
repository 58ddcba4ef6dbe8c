package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventKind identifies the type of a collected analytics event.
type EventKind string

const (
	EventSessionStart EventKind = "session_start"
	EventPageView     EventKind = "page_view"
	EventHeartbeat    EventKind = "heartbeat"
)

func (k EventKind) IsValid() bool {
	switch k {
	case EventSessionStart, EventPageView, EventHeartbeat:
		return true
	}
	return false
}

// MaxHeartbeatSeconds caps the active time a single heartbeat may report.
// Bounds skew from backgrounded tabs and adversarial payloads.
const MaxHeartbeatSeconds = 60

// AnalyticsEvent is one row of the raw event log. Rows are append-only:
// ingestion creates them and nothing mutates or deletes them outside the
// retention sweep.
type AnalyticsEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Ts        time.Time `json:"ts" gorm:"not null;index:idx_analytics_events_ts"`
	Event     EventKind `json:"event" gorm:"type:varchar(50);not null;index:idx_analytics_events_event"`
	VisitorID string    `json:"visitorId" gorm:"type:varchar(100);not null;index:idx_analytics_events_visitor"`
	SessionID string    `json:"sessionId" gorm:"type:varchar(100);not null;index:idx_analytics_events_session"`
	UserID    *string   `json:"userId,omitempty" gorm:"type:varchar(100)"`

	Path     string  `json:"path" gorm:"type:varchar(1000);not null"`
	Title    *string `json:"title,omitempty" gorm:"type:varchar(300)"`
	Referrer *string `json:"referrer,omitempty" gorm:"type:varchar(1000)"`

	UTMSource   *string `json:"utmSource,omitempty" gorm:"column:utm_source;type:varchar(120)"`
	UTMMedium   *string `json:"utmMedium,omitempty" gorm:"column:utm_medium;type:varchar(120)"`
	UTMCampaign *string `json:"utmCampaign,omitempty" gorm:"column:utm_campaign;type:varchar(120)"`

	DeviceType *string `json:"deviceType,omitempty" gorm:"type:varchar(50)"`
	Browser    *string `json:"browser,omitempty" gorm:"type:varchar(80)"`
	OS         *string `json:"os,omitempty" gorm:"column:os;type:varchar(80)"`
	Screen     *string `json:"screen,omitempty" gorm:"type:varchar(50)"`
	Lang       *string `json:"lang,omitempty" gorm:"type:varchar(30)"`

	// ActiveSeconds is non-zero only for heartbeat events, clamped to
	// [0, MaxHeartbeatSeconds].
	ActiveSeconds int `json:"activeSeconds" gorm:"not null;default:0"`

	Country *string `json:"country,omitempty" gorm:"type:varchar(120)"`
	City    *string `json:"city,omitempty" gorm:"type:varchar(120)"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the AnalyticsEvent model
func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// BeforeCreate is called before persisting a new event record
func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Ts.IsZero() {
		e.Ts = time.Now().UTC()
	}
	return nil
}
