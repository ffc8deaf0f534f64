package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.Enabled {
		t.Error("Auth enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expensed.yaml")
	data := []byte("server:\n  port: \"9000\"\nauth:\n  enabled: true\n  secret_key: s3cret\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Server.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.SecretKey != "s3cret" {
		t.Errorf("Auth not loaded: %+v", cfg.Auth)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("EXPENSED_DB", ":memory:")
	t.Setenv("JWT_SECRET_KEY", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "5000" {
		t.Errorf("Port = %q, want 5000 (PORT env wins)", cfg.Server.Port)
	}
	if cfg.Storage.DatabasePath != ":memory:" {
		t.Errorf("DatabasePath = %q, want :memory:", cfg.Storage.DatabasePath)
	}
	if cfg.Auth.SecretKey != "env-secret" {
		t.Errorf("SecretKey = %q, want env-secret", cfg.Auth.SecretKey)
	}
	if cfg.Addr() != "0.0.0.0:5000" {
		t.Errorf("Addr = %q, want 0.0.0.0:5000", cfg.Addr())
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []string{"", "abc", "0", "70000", "-1"} {
		cfg := DefaultConfig()
		cfg.Server.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate accepted port %q", port)
		}
	}
}

func TestValidateInvalidPortFromEnv(t *testing.T) {
	// An invalid PORT must fail before any listener is opened.
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load accepted invalid PORT")
	}
}
