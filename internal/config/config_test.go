package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("STORE_CACHE_TTL_SECONDS", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "5000" || cfg.Address() != ":5000" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Redis.StoreTTL != 30*time.Second {
		t.Fatalf("store ttl = %s", cfg.Redis.StoreTTL)
	}
	if !strings.Contains(cfg.Database.DSN(), "dbname=gazi_tiles") {
		t.Fatalf("dsn = %q", cfg.Database.DSN())
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "DB_DRIVER=sqlite\nDATABASE_URL=file:gazi.db\nJWT_SECRET=" + testSecret + "\nREDIS_DB=2\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "REDIS_DB"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN() != "file:gazi.db" {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.Redis.DB != 2 {
		t.Fatalf("redis db = %d", cfg.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "5000"},
			Database: DatabaseConfig{Driver: "postgres", Host: "db"},
			Auth:     AuthConfig{JWTSecret: testSecret},
			Report:   ReportConfig{CronSchedule: "0 21 * * *", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "JWT_SECRET"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DB_DRIVER"},
		{"sqlite without url", func(c *Config) { c.Database.Driver = "sqlite" }, "DATABASE_URL"},
		{"bad timezone", func(c *Config) { c.Report.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"no schedule", func(c *Config) { c.Report.CronSchedule = "" }, "REPORT_CRON_SCHEDULE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
