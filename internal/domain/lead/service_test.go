package lead

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	leads     []*Lead
	responses []*LeadResponse
	createErr error
}

func (m *memoryRepository) Create(_ context.Context, l *Lead) error {
	if m.createErr != nil {
		return m.createErr
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	m.leads = append(m.leads, l)
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (*Lead, error) {
	for _, l := range m.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, ErrLeadNotFound
}

func (m *memoryRepository) FindAll(_ context.Context, _ LeadFilter) ([]Lead, int64, error) {
	out := make([]Lead, 0, len(m.leads))
	for _, l := range m.leads {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepository) CreateResponse(_ context.Context, r *LeadResponse) error {
	m.responses = append(m.responses, r)
	return nil
}

type fakeForwarder struct {
	calls   int
	payload []byte
	result  *ForwardResult
	err     error
}

func (f *fakeForwarder) Forward(_ context.Context, payload []byte) (*ForwardResult, error) {
	f.calls++
	f.payload = payload
	return f.result, f.err
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func validInput() SubmitLeadInput {
	return SubmitLeadInput{
		Name:     "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "555-0100",
		LeadType: "moving",
		FromZip:  "75201",
		ToZip:    "78701",
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		mutip func(*SubmitLeadInput)
	}{
		{"missing name", func(i *SubmitLeadInput) { i.Name = "  " }},
		{"missing email", func(i *SubmitLeadInput) { i.Email = "" }},
		{"missing phone", func(i *SubmitLeadInput) { i.Phone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepository{}
			svc := NewService(ServiceConfig{Repository: repo, Logger: testLogger()})

			input := validInput()
			tt.mutip(&input)

			_, err := svc.Submit(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.leads)
		})
	}
}

func TestSubmitForwardsAndRecordsResponse(t *testing.T) {
	repo := &memoryRepository{}
	forwarder := &fakeForwarder{result: &ForwardResult{StatusCode: 200, Body: `{"accepted":true}`}}
	svc := NewService(ServiceConfig{Repository: repo, Forwarder: forwarder, Logger: testLogger()})

	raw := json.RawMessage(`{"name":"Jordan Smith","custom_field":"kept"}`)
	input := validInput()
	input.Raw = raw

	result, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, result.ForwardAttempted)
	assert.True(t, result.Forwarded)
	require.NotNil(t, result.Partner)
	assert.Equal(t, 200, result.Partner.StatusCode)

	assert.Equal(t, 1, forwarder.calls)
	assert.JSONEq(t, string(raw), string(forwarder.payload), "the raw submission is forwarded verbatim")

	require.Len(t, repo.leads, 1)
	require.Len(t, repo.responses, 1)
	assert.Equal(t, repo.leads[0].ID, repo.responses[0].LeadID)
	assert.Equal(t, 200, repo.responses[0].StatusCode)
}

func TestSubmitSucceedsWhenPartnerIsDown(t *testing.T) {
	repo := &memoryRepository{}
	forwarder := &fakeForwarder{err: errors.New("connection refused")}
	svc := NewService(ServiceConfig{Repository: repo, Forwarder: forwarder, Logger: testLogger()})

	result, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err, "partner failure must not fail the submission")

	assert.True(t, result.ForwardAttempted)
	assert.False(t, result.Forwarded)
	require.Len(t, repo.leads, 1, "the lead is stored regardless")
	require.Len(t, repo.responses, 1, "the failed attempt is recorded")
	assert.Zero(t, repo.responses[0].StatusCode)
	assert.Contains(t, repo.responses[0].Body, "connection refused")
}

func TestSubmitWithoutForwarderStoresOnly(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(ServiceConfig{Repository: repo, Logger: testLogger()})

	result, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, result.ForwardAttempted, "no attempt is made without a partner endpoint")
	assert.False(t, result.Forwarded)
	require.Len(t, repo.leads, 1)
	assert.Empty(t, repo.responses)
}

func TestSubmitDefaultsLeadType(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(ServiceConfig{Repository: repo, Logger: testLogger()})

	input := validInput()
	input.LeadType = ""

	result, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "moving", result.Lead.LeadType)
}

func TestHTTPForwarder(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"lead_id":"MOV-1234"}`))
	}))
	defer server.Close()

	forwarder := NewHTTPForwarder(server.URL, 2*time.Second)
	result, err := forwarder.Forward(context.Background(), []byte(`{"name":"test"}`))
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `{"name":"test"}`, string(gotBody))
	assert.Equal(t, http.StatusAccepted, result.StatusCode)
	assert.Equal(t, `{"lead_id":"MOV-1234"}`, result.Body)
}

func TestHTTPForwarderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	forwarder := NewHTTPForwarder(server.URL, 50*time.Millisecond)
	_, err := forwarder.Forward(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}
