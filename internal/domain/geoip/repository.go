package geoip

import (
	"context"
	"errors"
	"fmt"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("geoip: cache entry not found")

// Repository defines persistence operations for the geo IP cache.
type Repository interface {
	FindByIP(ctx context.Context, ip string) (*GeoIPCache, error)
	Upsert(ctx context.Context, entry *GeoIPCache) error
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIP(ctx context.Context, ip string) (*GeoIPCache, error) {
	var entry GeoIPCache
	err := r.db.WithContext(ctx).Where("ip = ?", ip).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find geo cache entry: %w", err)
	}
	return &entry, nil
}

// Upsert writes the entry keyed by IP. Concurrent first lookups of the same
// IP both land here; last write wins.
func (r *repository) Upsert(ctx context.Context, entry *GeoIPCache) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip"}},
		DoUpdates: clause.AssignmentColumns([]string{"country", "city", "region", "lat", "lon", "isp"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert geo cache entry: %w", err)
	}
	return nil
}
