package lead

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ForwardResult captures the partner's reply to a forwarded lead.
type ForwardResult struct {
	StatusCode int
	Body       string
}

// Forwarder pushes an accepted lead to the moving-network partner endpoint.
type Forwarder interface {
	Forward(ctx context.Context, payload []byte) (*ForwardResult, error)
}

type httpForwarder struct {
	client     *http.Client
	partnerURL string
}

// NewHTTPForwarder builds a Forwarder that POSTs JSON to the configured
// partner endpoint.
func NewHTTPForwarder(partnerURL string, timeout time.Duration) Forwarder {
	return &httpForwarder{
		client:     &http.Client{Timeout: timeout},
		partnerURL: partnerURL,
	}
}

const maxResponseBytes = 64 << 10

func (f *httpForwarder) Forward(ctx context.Context, payload []byte) (*ForwardResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.partnerURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build partner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("partner request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read partner response: %w", err)
	}

	return &ForwardResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
