package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Leads     LeadsConfig     `mapstructure:"leads"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port" default:"8000"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTExpiryHours int    `mapstructure:"jwt_expiry_hours"`
	JWTIssuer      string `mapstructure:"jwt_issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeoConfig controls the IP geolocation lookup used to enrich analytics events.
type GeoConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LeadsConfig controls forwarding of quote submissions to the moving partner.
type LeadsConfig struct {
	PartnerURL string        `mapstructure:"partner_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// AnalyticsConfig tunes the analytics pipeline. RetentionDays of zero keeps the
// raw event log forever.
type AnalyticsConfig struct {
	LiveWindowSec   int           `mapstructure:"live_window_sec"`
	SummaryCacheTTL time.Duration `mapstructure:"summary_cache_ttl"`
	RetentionDays   int           `mapstructure:"retention_days"`
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// If CONFIG_FILE environment variable is set, use it
	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPath = envConfigFile
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		dir := filepath.Dir(configPath)
		file := filepath.Base(configPath)
		ext := filepath.Ext(file)
		name := strings.TrimSuffix(file, ext)

		v.AddConfigPath(dir)
		v.SetConfigName(name)
	} else {
		// Fallback to default locations
		_, filename, _, _ := runtime.Caller(0)
		pkgConfigDir := filepath.Dir(filename)
		projectRoot := filepath.Join(pkgConfigDir, "..", "..")

		v.AddConfigPath(pkgConfigDir)
		v.AddConfigPath(projectRoot)
		v.AddConfigPath(filepath.Join(projectRoot, "pkg", "config"))
		v.SetConfigName("config")
	}

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("geo.base_url", "http://ip-api.com/json")
	v.SetDefault("geo.timeout", 5*time.Second)
	v.SetDefault("leads.timeout", 10*time.Second)
	v.SetDefault("analytics.live_window_sec", 300)
	v.SetDefault("analytics.summary_cache_ttl", time.Minute)
	v.SetDefault("analytics.retention_days", 0)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error loading config file: %v", err)
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envVars := map[string]string{
		"database.host":             "DB_HOST",
		"database.port":             "DB_PORT",
		"database.user":             "DB_USER",
		"database.password":         "DB_PASSWORD",
		"database.name":             "DB_NAME",
		"database.sslmode":          "DB_SSLMODE",
		"server.mode":               "SERVER_MODE",
		"server.timeout":            "SERVER_TIMEOUT",
		"redis.host":                "REDIS_HOST",
		"redis.port":                "REDIS_PORT",
		"redis.password":            "REDIS_PASSWORD",
		"redis.db":                  "REDIS_DB",
		"auth.jwt_secret":           "JWT_SECRET",
		"auth.jwt_issuer":           "JWT_ISSUER",
		"auth.jwt_expiry_hours":     "JWT_EXPIRY_HOURS",
		"geo.base_url":              "GEO_API_BASE_URL",
		"leads.partner_url":         "LEAD_PARTNER_URL",
		"analytics.live_window_sec": "ANALYTICS_LIVE_WINDOW_SEC",
		"analytics.retention_days":  "ANALYTICS_RETENTION_DAYS",
		"logging.level":             "LOG_LEVEL",
		"logging.format":            "LOG_FORMAT",
	}

	for configKey, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			switch envVar {
			case "DB_PORT", "REDIS_PORT", "REDIS_DB", "JWT_EXPIRY_HOURS",
				"ANALYTICS_LIVE_WINDOW_SEC", "ANALYTICS_RETENTION_DAYS":
				if intVal, err := strconv.Atoi(value); err == nil {
					v.Set(configKey, intVal)
				}
			case "SERVER_TIMEOUT":
				if d, err := time.ParseDuration(value); err == nil {
					v.Set(configKey, d)
				}
			default:
				v.Set(configKey, value)
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	return &config, nil
}
