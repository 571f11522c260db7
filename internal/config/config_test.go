package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load server: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ImageMapKey != "monster_images" {
		t.Fatalf("expected default image map key, got %q", cfg.ImageMapKey)
	}
	if cfg.GenerateTimeout != 90*time.Second {
		t.Fatalf("expected 90s generate timeout, got %v", cfg.GenerateTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("TENTCARDS_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("TENTCARDS_PROVIDER_RATE_BURST", "5")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load server: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Fatalf("expected override, got %q", cfg.HTTPAddr)
	}
	if cfg.ProviderRateBurst != 5 {
		t.Fatalf("expected burst 5, got %d", cfg.ProviderRateBurst)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("TENTCARDS_GRPC_PORT", "not-an-int")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestServerValidate(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load server: %v", err)
	}
	cfg.ProviderRateBurst = 0
	cfg.GRPCPort = 70000

	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"ProviderRateBurst", "GRPCPort"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in %v", field, err)
		}
	}
}

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("load client: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080/" {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.FetchConcurrency != 4 {
		t.Fatalf("expected concurrency 4, got %d", cfg.FetchConcurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLogging(t *testing.T) {
	t.Setenv("TENTCARDS_LOG_LEVEL", "debug")

	cfg, err := LoadLogging()
	if err != nil {
		t.Fatalf("load logging: %v", err)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
	if cfg.Format != "text" {
		t.Fatalf("expected text format, got %q", cfg.Format)
	}

	bad := Logging{Level: "loud", Format: "yaml"}
	err = bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"LogLevel", "LogFormat"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in %v", field, err)
		}
	}
}
