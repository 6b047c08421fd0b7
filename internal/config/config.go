package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Report   ReportConfig
	Guide    GuideConfig
	LogLevel string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port        string
	AppName     string
	CORSOrigins string
}

// DatabaseConfig selects the gorm dialect and its connection details.
type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	AdminEmail string
}

// RedisConfig configures the store listing cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StoreTTL time.Duration
}

// ReportConfig holds scheduler-related settings.
type ReportConfig struct {
	CronSchedule string
	Timezone     string
}

// GuideConfig points at the usage guide shown on the help page.
type GuideConfig struct {
	VideoLink string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when everything comes from the environment.
		_ = godotenv.Load()
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	storeTTL, err := strconv.Atoi(getEnv("STORE_CACHE_TTL_SECONDS", "30"))
	if err != nil || storeTTL < 1 {
		storeTTL = 30
	}
	tokenTTL, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 24
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			AppName:     getEnv("APP_NAME", "Gazi Tiles Inventory"),
			CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "gazi_tiles"),
			Port:     getEnv("DB_PORT", "5432"),
			TimeZone: getEnv("DB_TIMEZONE", "Asia/Dhaka"),
		},
		Auth: AuthConfig{
			JWTSecret:  strings.TrimSpace(os.Getenv("JWT_SECRET")),
			Issuer:     getEnv("JWT_ISSUER", "gazi-tiles"),
			TokenTTL:   time.Duration(tokenTTL) * time.Hour,
			AdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			StoreTTL: time.Duration(storeTTL) * time.Second,
		},
		Report: ReportConfig{
			CronSchedule: getEnv("REPORT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getEnv("TIMEZONE", "Asia/Dhaka"),
		},
		Guide: GuideConfig{
			VideoLink: os.Getenv("GUIDE_VIDEO_LINK"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must be provided")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" && c.Database.Host == "" {
			return errors.New("DATABASE_URL or DB_HOST must be provided")
		}
	case "sqlite":
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL must point at the sqlite file")
		}
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (postgres, sqlite)", c.Database.Driver)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.Report.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Server.Port
}

// Location returns the business time zone, used for "today".
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DSN builds the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
