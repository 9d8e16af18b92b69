package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"AFS_DASHBOARD_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Addr string `env:"TEST_ADDR" envDefault:"localhost:1"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("AFS_DASHBOARD_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefixReadsPrefixedName(t *testing.T) {
	t.Setenv("AFS_DASHBOARD_TEST_ADDR", "example:9")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "example:9" {
		t.Fatalf("expected prefixed value, got %q", cfg.Addr)
	}
}

func TestParseEnvWithPrefixIgnoresUnprefixedName(t *testing.T) {
	t.Setenv("TEST_ADDR", "wrong:1")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:1" {
		t.Fatalf("expected default value, got %q", cfg.Addr)
	}
}
