package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// LookupResult is the external service's answer for one IP.
type LookupResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	Region  string  `json:"regionName"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	ISP     string  `json:"isp"`
	Query   string  `json:"query"`
}

// Client calls an ip-api compatible geolocation service.
type Client interface {
	Lookup(ctx context.Context, ip string) (*LookupResult, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a lookup client against baseURL (e.g.
// "http://ip-api.com/json").
func NewClient(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Lookup(ctx context.Context, ip string) (*LookupResult, error) {
	// Restrict fields to keep the payload small.
	fields := "status,message,country,city,regionName,lat,lon,isp,query"
	endpoint := fmt.Sprintf("%s/%s?fields=%s", c.baseURL, url.PathEscape(ip), url.QueryEscape(fields))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geo lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var result LookupResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geo lookup response: %w", err)
	}

	return &result, nil
}
