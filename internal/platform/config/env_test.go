package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Addr  string        `env:"LINKPAGE_TEST_ADDR" envDefault:"localhost:3000"`
	Delay time.Duration `env:"LINKPAGE_TEST_DELAY" envDefault:"1s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:3000" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "localhost:3000")
	}
	if cfg.Delay != time.Second {
		t.Fatalf("Delay = %v, want %v", cfg.Delay, time.Second)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("LINKPAGE_TEST_DELAY", "soon")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
