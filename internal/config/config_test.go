package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "sqlite")
	}
	if cfg.JWT.TokenTTL() != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, expected 7 days", cfg.JWT.TokenTTL())
	}
	if !cfg.Sweeper.Enabled {
		t.Error("sweeper should be enabled by default")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "3001" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "3001")
	}
}

func TestLoad_FileKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9000\"\ndatabase:\n  driver: postgres\n  dsn: postgres://localhost/taskhub\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "9000")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "postgres")
	}
	if cfg.JWT.ExpireHour != 168 {
		t.Errorf("ExpireHour = %d, expected default 168", cfg.JWT.ExpireHour)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid yaml")
	}
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongodb")
	t.Setenv("DB_DSN", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "practice")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRE_HOUR", "12")
	t.Setenv("SWEEPER_SCHEDULE", "@every 1m")

	cfg := DefaultConfig()
	cfg.overrideFromEnv()

	if cfg.Database.Driver != "mongodb" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "mongodb")
	}
	if cfg.Database.Name != "practice" {
		t.Errorf("Name = %q, expected %q", cfg.Database.Name, "practice")
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("Secret = %q, expected %q", cfg.JWT.Secret, "env-secret")
	}
	if cfg.JWT.TokenTTL() != 12*time.Hour {
		t.Errorf("TokenTTL = %v, expected 12h", cfg.JWT.TokenTTL())
	}
	if cfg.Sweeper.Schedule != "@every 1m" {
		t.Errorf("Schedule = %q, expected %q", cfg.Sweeper.Schedule, "@every 1m")
	}
}

func TestOverrideFromEnv_IgnoresBadExpireHour(t *testing.T) {
	t.Setenv("JWT_EXPIRE_HOUR", "soon")

	cfg := DefaultConfig()
	cfg.overrideFromEnv()

	if cfg.JWT.ExpireHour != 168 {
		t.Errorf("ExpireHour = %d, expected 168", cfg.JWT.ExpireHour)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Port = "4242"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != "4242" {
		t.Errorf("Port = %q, expected %q", loaded.Server.Port, "4242")
	}
}
