package geoip

import (
	"context"
	"net"
	"strings"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/analytics"
	"go.uber.org/zap"
)

// Service resolves client IPs to locations, caching each distinct IP in the
// database so the external service is consulted at most once per IP.
type Service interface {
	analytics.GeoResolver
	Lookup(ctx context.Context, ip string) (*GeoIPCache, error)
}

type service struct {
	repo   Repository
	client Client
	logger *zap.Logger
}

func NewService(repo Repository, client Client, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		client: client,
		logger: logger,
	}
}

// IsPrivateIP reports whether ip is loopback, link-local, or RFC1918/ULA
// space. Those addresses never reach a public geolocation database.
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}

// Lookup returns the cached entry for ip, consulting the external service and
// persisting the result on a cache miss.
func (s *service) Lookup(ctx context.Context, ip string) (*GeoIPCache, error) {
	ip = strings.TrimSpace(ip)

	cached, err := s.repo.FindByIP(ctx, ip)
	if err == nil {
		return cached, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	result, err := s.client.Lookup(ctx, ip)
	if err != nil {
		return nil, err
	}
	if result.Status != "success" {
		s.logger.Debug("geo lookup unresolved",
			zap.String("ip", ip),
			zap.String("message", result.Message))
		return nil, nil
	}

	entry := &GeoIPCache{
		IP:      ip,
		Country: optional(result.Country),
		City:    optional(result.City),
		Region:  optional(result.Region),
		ISP:     optional(result.ISP),
	}
	if result.Lat != 0 || result.Lon != 0 {
		lat, lon := result.Lat, result.Lon
		entry.Lat = &lat
		entry.Lon = &lon
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		// The lookup answer is still usable even if the cache write failed.
		s.logger.Warn("failed to cache geo lookup", zap.String("ip", ip), zap.Error(err))
	}

	return entry, nil
}

// Resolve implements analytics.GeoResolver. Private addresses and unresolved
// IPs return (nil, nil): enrichment is best-effort.
func (s *service) Resolve(ctx context.Context, ip string) (*analytics.GeoLocation, error) {
	if IsPrivateIP(ip) {
		return nil, nil
	}

	entry, err := s.Lookup(ctx, ip)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	loc := &analytics.GeoLocation{}
	if entry.Country != nil {
		loc.Country = *entry.Country
	}
	if entry.City != nil {
		loc.City = *entry.City
	}
	return loc, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
