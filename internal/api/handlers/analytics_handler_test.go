package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/analytics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyticsService struct {
	collected  []analytics.CollectInput
	summaryIn  *analytics.SummaryInput
	summaryOut *analytics.Summary
}

func (s *stubAnalyticsService) Collect(_ context.Context, input analytics.CollectInput) (*analytics.AnalyticsEvent, error) {
	kind := analytics.EventKind(strings.TrimSpace(input.Event))
	if !kind.IsValid() {
		return nil, analytics.ErrInvalidEvent
	}
	if strings.TrimSpace(input.VisitorID) == "" || strings.TrimSpace(input.SessionID) == "" {
		return nil, analytics.ErrMissingIDs
	}
	s.collected = append(s.collected, input)
	return &analytics.AnalyticsEvent{Event: kind}, nil
}

func (s *stubAnalyticsService) Summary(_ context.Context, input analytics.SummaryInput) (*analytics.Summary, error) {
	if !input.Bucket.IsValid() {
		return nil, analytics.ErrInvalidBucket
	}
	if !input.From.Before(input.To) {
		return nil, analytics.ErrInvalidRange
	}
	s.summaryIn = &input
	return s.summaryOut, nil
}

func (s *stubAnalyticsService) LiveVisitors(_ context.Context) (*analytics.Live, error) {
	return &analytics.Live{WindowSec: 300, Users: 3}, nil
}

func (s *stubAnalyticsService) PruneOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func setupAnalyticsRouter(svc analytics.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(svc)
	validation := middleware.NewValidationMiddleware()
	router := gin.New()
	router.POST("/api/analytics/collect", handler.Collect)
	router.GET("/api/admin/analytics/summary",
		validation.ValidateQuery(dto.SummaryQueryRequest{}), handler.Summary)
	return router
}

func collectBody(t *testing.T, overrides map[string]interface{}) string {
	t.Helper()
	payload := map[string]interface{}{
		"event":     "page_view",
		"visitorId": "v1",
		"sessionId": "s1",
		"page":      map[string]interface{}{"path": "/moving-quotes", "title": "Quotes"},
	}
	for k, v := range overrides {
		if v == nil {
			delete(payload, k)
			continue
		}
		payload[k] = v
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(b)
}

func TestCollectAcceptsValidEvent(t *testing.T) {
	svc := &stubAnalyticsService{}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect",
		strings.NewReader(collectBody(t, nil)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	require.Len(t, svc.collected, 1)
	assert.Equal(t, "/moving-quotes", svc.collected[0].Path)
}

func TestCollectRejectsMissingSessionID(t *testing.T) {
	svc := &stubAnalyticsService{}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect",
		strings.NewReader(collectBody(t, map[string]interface{}{"sessionId": nil})))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, svc.collected, "nothing reaches the store on rejection")
}

func TestCollectRejectsUnknownEvent(t *testing.T) {
	svc := &stubAnalyticsService{}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect",
		strings.NewReader(collectBody(t, map[string]interface{}{"event": "purchase"})))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.collected)
}

func TestCollectClientIPExtraction(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			name:     "first forwarded entry wins",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1, 10.0.0.2"},
			expected: "203.0.113.5",
		},
		{
			name:     "single forwarded entry",
			headers:  map[string]string{"X-Forwarded-For": "198.51.100.7"},
			expected: "198.51.100.7",
		},
		{
			name:     "real ip fallback",
			headers:  map[string]string{"X-Real-IP": "192.0.2.33"},
			expected: "192.0.2.33",
		},
		{
			name:     "no proxy headers",
			headers:  nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAnalyticsService{}
			router := setupAnalyticsRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect",
				strings.NewReader(collectBody(t, nil)))
			req.Header.Set("Content-Type", "application/json")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, svc.collected, 1)
			assert.Equal(t, tt.expected, svc.collected[0].ClientIP)
		})
	}
}

func TestSummaryQueryParsing(t *testing.T) {
	svc := &stubAnalyticsService{summaryOut: &analytics.Summary{}}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/admin/analytics/summary?from=2025-06-01T00:00:00Z&to=2025-06-02T00:00:00Z&bucket=day", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.summaryIn)
	assert.Equal(t, analytics.BucketDay, svc.summaryIn.Bucket)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), svc.summaryIn.From.UTC())
}

func TestSummaryDefaultsToHourBucket(t *testing.T) {
	svc := &stubAnalyticsService{summaryOut: &analytics.Summary{}}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/admin/analytics/summary?from=2025-06-01&to=2025-06-02", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.summaryIn)
	assert.Equal(t, analytics.BucketHour, svc.summaryIn.Bucket)
}

func TestSummaryQueryValidationRejectsBeforeHandler(t *testing.T) {
	svc := &stubAnalyticsService{summaryOut: &analytics.Summary{}}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/summary?to=2025-06-02", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid query parameters"}`, w.Body.String())
	assert.Nil(t, svc.summaryIn, "the handler never runs on a rejected query")
}

func TestSummaryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing range", ""},
		{"unparsable from", "?from=yesterday&to=2025-06-02"},
		{"invalid bucket", "?from=2025-06-01&to=2025-06-02&bucket=week"},
		{"from after to", "?from=2025-06-03&to=2025-06-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAnalyticsService{summaryOut: &analytics.Summary{}}
			router := setupAnalyticsRouter(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/summary"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
