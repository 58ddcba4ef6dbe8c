package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepository struct {
	entries map[string]*GeoIPCache
	upserts int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{entries: make(map[string]*GeoIPCache)}
}

func (m *memoryRepository) FindByIP(_ context.Context, ip string) (*GeoIPCache, error) {
	if entry, ok := m.entries[ip]; ok {
		return entry, nil
	}
	return nil, ErrNotFound
}

func (m *memoryRepository) Upsert(_ context.Context, entry *GeoIPCache) error {
	m.upserts++
	m.entries[entry.IP] = entry
	return nil
}

type countingClient struct {
	calls  int
	result *LookupResult
	err    error
}

func (c *countingClient) Lookup(_ context.Context, _ string) (*LookupResult, error) {
	c.calls++
	return c.result, c.err
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.0.0.5", true},
		{"172.16.1.1", true},
		{"192.168.1.10", true},
		{"169.254.0.1", true},
		{"0.0.0.0", true},
		{"", true},
		{"not-an-ip", true},
		{"8.8.8.8", false},
		{"203.0.113.5", false},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPrivateIP(tt.ip))
		})
	}
}

func TestLookupConsultsExternalServiceOncePerIP(t *testing.T) {
	repo := newMemoryRepository()
	client := &countingClient{result: &LookupResult{
		Status:  "success",
		Country: "United States",
		City:    "Austin",
		Region:  "Texas",
		Lat:     30.2672,
		Lon:     -97.7431,
		ISP:     "ExampleNet",
	}}
	svc := NewService(repo, client, zap.NewNop())

	first, err := svc.Lookup(context.Background(), "203.0.113.5")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "United States", *first.Country)
	assert.Equal(t, "Texas", *first.Region)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, repo.upserts)

	second, err := svc.Lookup(context.Background(), "203.0.113.5")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 1, client.calls, "second lookup must come from the cache")
}

func TestLookupUnresolvedReturnsNil(t *testing.T) {
	repo := newMemoryRepository()
	client := &countingClient{result: &LookupResult{Status: "fail", Message: "reserved range"}}
	svc := NewService(repo, client, zap.NewNop())

	entry, err := svc.Lookup(context.Background(), "203.0.113.99")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Zero(t, repo.upserts, "unresolved lookups are not cached")
}

func TestResolveSkipsPrivateAddresses(t *testing.T) {
	repo := newMemoryRepository()
	client := &countingClient{}
	svc := NewService(repo, client, zap.NewNop())

	loc, err := svc.Resolve(context.Background(), "192.168.0.42")
	require.NoError(t, err)
	assert.Nil(t, loc)
	assert.Zero(t, client.calls)
}

func TestResolveMapsCacheEntry(t *testing.T) {
	repo := newMemoryRepository()
	country, city := "Canada", "Toronto"
	repo.entries["198.51.100.7"] = &GeoIPCache{IP: "198.51.100.7", Country: &country, City: &city}
	svc := NewService(repo, &countingClient{}, zap.NewNop())

	loc, err := svc.Resolve(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Canada", loc.Country)
	assert.Equal(t, "Toronto", loc.City)
}

func TestHTTPClientLookup(t *testing.T) {
	var gotPath, gotFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","country":"Germany","city":"Berlin","regionName":"Berlin","lat":52.52,"lon":13.405,"isp":"ExampleISP","query":"198.51.100.23"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	result, err := client.Lookup(context.Background(), "198.51.100.23")
	require.NoError(t, err)

	assert.Equal(t, "/198.51.100.23", gotPath)
	assert.Contains(t, gotFields, "regionName")
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "Germany", result.Country)
	assert.Equal(t, "Berlin", result.Region)
}

func TestHTTPClientLookupNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	_, err := client.Lookup(context.Background(), "198.51.100.23")
	assert.Error(t, err)
}
