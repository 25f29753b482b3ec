package config

import (
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	if err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/hms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.BedRateAC != 75000 {
		t.Errorf("expected default AC bed rate 75000 paise, got %d", cfg.BedRateAC)
	}
	if cfg.BedRateNonAC != 50000 {
		t.Errorf("expected default non-AC bed rate 50000 paise, got %d", cfg.BedRateNonAC)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/hms")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("BED_RATE_AC", "100000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to be true")
	}
	if cfg.BedRateAC != 100000 {
		t.Errorf("expected AC bed rate 100000, got %d", cfg.BedRateAC)
	}
}

func TestValidate_ProductionNeedsAuth(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for production without auth configuration")
	}

	cfg.AuthIssuer = "https://auth.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error with issuer set: %v", err)
	}
}

func TestValidate_DevNeedsNoAuth(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error in development: %v", err)
	}
}

func TestValidate_NegativeRates(t *testing.T) {
	cfg := &Config{Env: "development", BedRateAC: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative bed rate")
	}

	cfg = &Config{Env: "development", NursingRate: -5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative nursing rate")
	}
}
