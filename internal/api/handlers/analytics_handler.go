package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/analytics"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Collect ingests one browser event. Rejections respond 400 with
// {ok:false,error} and persist nothing; the collector fires and forgets, so
// the body stays minimal either way.
func (h *AnalyticsHandler) Collect(c *gin.Context) {
	var req dto.CollectEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CollectEventResponse{OK: false, Error: "invalid payload"})
		return
	}

	input := analytics.CollectInput{
		Event:         req.Event,
		VisitorID:     req.VisitorID,
		SessionID:     req.SessionID,
		UserID:        req.UserID,
		TsMillis:      req.Ts,
		Path:          req.Page.Path,
		Title:         req.Page.Title,
		Referrer:      req.Page.Referrer,
		UTMSource:     req.UTM.Source,
		UTMMedium:     req.UTM.Medium,
		UTMCampaign:   req.UTM.Campaign,
		DeviceType:    req.Device.Type,
		Browser:       req.Device.Browser,
		OS:            req.Device.OS,
		Screen:        req.Device.Screen,
		Lang:          req.Device.Lang,
		ActiveSeconds: req.Engagement.ActiveSeconds,
		ClientIP:      clientIP(c),
	}

	event, err := h.service.Collect(c.Request.Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == analytics.ErrInvalidEvent || err == analytics.ErrMissingIDs {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, dto.CollectEventResponse{OK: false, Error: err.Error()})
		return
	}

	middleware.ObserveCollectedEvent(string(event.Event))
	c.JSON(http.StatusOK, dto.CollectEventResponse{OK: true})
}

// Summary serves the dashboard aggregation over [from, to). The query model
// normally arrives pre-validated from the route's ValidateQuery middleware.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	var req dto.SummaryQueryRequest
	if v, exists := c.Get("validated_query"); exists {
		if q, ok := v.(*dto.SummaryQueryRequest); ok {
			req = *q
		}
	} else if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	from, err := parseTimestamp(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from timestamp"})
		return
	}
	to, err := parseTimestamp(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to timestamp"})
		return
	}

	bucket := analytics.Bucket(req.Bucket)
	if req.Bucket == "" {
		bucket = analytics.BucketHour
	}

	summary, err := h.service.Summary(c.Request.Context(), analytics.SummaryInput{
		From:   from,
		To:     to,
		Bucket: bucket,
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == analytics.ErrInvalidRange || err == analytics.ErrInvalidBucket {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Live reports distinct visitors seen inside the trailing window.
func (h *AnalyticsHandler) Live(c *gin.Context) {
	live, err := h.service.LiveVisitors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, live)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// clientIP picks the originating address the way the reverse proxy reports
// it: first X-Forwarded-For entry, then X-Real-IP. Empty when neither header
// is present.
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	return strings.TrimSpace(c.GetHeader("X-Real-IP"))
}
