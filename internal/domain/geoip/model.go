package geoip

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeoIPCache is one cached lookup result per distinct client IP. Entries are
// derived data: a concurrent double-lookup simply upserts the same row.
type GeoIPCache struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	IP      string    `json:"ip" gorm:"type:varchar(64);not null;uniqueIndex:idx_geo_ip_cache_ip"`
	Country *string   `json:"country,omitempty" gorm:"type:varchar(120)"`
	City    *string   `json:"city,omitempty" gorm:"type:varchar(120)"`
	Region  *string   `json:"region,omitempty" gorm:"type:varchar(120)"`
	Lat     *float64  `json:"lat,omitempty"`
	Lon     *float64  `json:"lon,omitempty"`
	ISP     *string   `json:"isp,omitempty" gorm:"column:isp;type:varchar(200)"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the GeoIPCache model
func (GeoIPCache) TableName() string {
	return "geo_ip_cache"
}

// BeforeCreate is called before persisting a new cache row
func (g *GeoIPCache) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
