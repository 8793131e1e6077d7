package config

import "testing"

type testConfig struct {
	DBPath string `env:"TEST_CAIXA_DB_PATH" envDefault:"data/test.db"`
	Locale string `env:"TEST_CAIXA_LOCALE" envDefault:"en-US"`
}

func TestParseEnvUsesDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "data/test.db" {
		t.Fatalf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("Locale = %q, want default", cfg.Locale)
	}
}

func TestParseEnvReadsOverrides(t *testing.T) {
	t.Setenv("TEST_CAIXA_DB_PATH", "/tmp/override.db")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Fatalf("DBPath = %q, want override", cfg.DBPath)
	}
}
