package dto

// CollectPage carries the page context of an analytics event.
type CollectPage struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Referrer string `json:"referrer"`
}

// CollectUTM carries campaign attribution parameters.
type CollectUTM struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
}

// CollectDevice carries client device hints reported by the collector.
type CollectDevice struct {
	Type    string `json:"type"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Screen  string `json:"screen"`
	Lang    string `json:"lang"`
}

// CollectEngagement carries accumulated visible time for heartbeats.
type CollectEngagement struct {
	ActiveSeconds float64 `json:"activeSeconds"`
}

// CollectEventRequest is the body of POST /api/analytics/collect as sent by
// the browser collector. Validation happens in the service, not via binding
// tags: a malformed payload must produce {ok:false} rather than gin's default
// error shape.
type CollectEventRequest struct {
	Event      string            `json:"event"`
	VisitorID  string            `json:"visitorId"`
	SessionID  string            `json:"sessionId"`
	UserID     string            `json:"userId"`
	Ts         int64             `json:"ts"`
	Page       CollectPage       `json:"page"`
	UTM        CollectUTM        `json:"utm"`
	Device     CollectDevice     `json:"device"`
	Engagement CollectEngagement `json:"engagement"`
}

// CollectEventResponse acknowledges an accepted or rejected event.
type CollectEventResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SummaryQueryRequest selects the summary range and bucketing.
type SummaryQueryRequest struct {
	From   string `form:"from" binding:"required"`
	To     string `form:"to" binding:"required"`
	Bucket string `form:"bucket"`
}
