package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/lead"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLeadService struct {
	result *lead.SubmitResult
	err    error
}

func (s *stubLeadService) Submit(_ context.Context, _ lead.SubmitLeadInput) (*lead.SubmitResult, error) {
	return s.result, s.err
}

func (s *stubLeadService) GetLead(_ context.Context, _ uuid.UUID) (*lead.Lead, error) {
	return nil, lead.ErrLeadNotFound
}

func (s *stubLeadService) ListLeads(_ context.Context, _ lead.LeadFilter) ([]lead.Lead, int64, error) {
	return nil, 0, nil
}

func setupLeadRouter(svc lead.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewLeadHandler(svc)
	router := gin.New()
	router.POST("/api/leads", handler.SubmitLead)
	return router
}

// leadForwardCount reads the current leads_forwarded_total value for an
// outcome from the default registry.
func leadForwardCount(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "leads_forwarded_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestSubmitLeadMetricOutcomes(t *testing.T) {
	const body = `{"name":"Jordan Smith","email":"jordan@example.com","phone":"555-0100"}`

	tests := []struct {
		name    string
		result  *lead.SubmitResult
		outcome string
	}{
		{
			name: "partner accepted",
			result: &lead.SubmitResult{
				Lead:             &lead.Lead{ID: uuid.New()},
				ForwardAttempted: true,
				Forwarded:        true,
			},
			outcome: "success",
		},
		{
			name: "partner down",
			result: &lead.SubmitResult{
				Lead:             &lead.Lead{ID: uuid.New()},
				ForwardAttempted: true,
			},
			outcome: "failed",
		},
		{
			name: "forwarding disabled",
			result: &lead.SubmitResult{
				Lead: &lead.Lead{ID: uuid.New()},
			},
			outcome: "skipped",
		},
	}

	outcomes := []string{"success", "failed", "skipped"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupLeadRouter(&stubLeadService{result: tt.result})

			before := make(map[string]float64, len(outcomes))
			for _, o := range outcomes {
				before[o] = leadForwardCount(t, o)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)

			for _, o := range outcomes {
				expected := before[o]
				if o == tt.outcome {
					expected++
				}
				assert.Equal(t, expected, leadForwardCount(t, o), "outcome %q", o)
			}
		})
	}
}

func TestSubmitLeadValidationError(t *testing.T) {
	router := setupLeadRouter(&stubLeadService{err: lead.ErrInvalidInput})

	req := httptest.NewRequest(http.MethodPost, "/api/leads",
		strings.NewReader(`{"name":"x","email":"x@example.com","phone":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
