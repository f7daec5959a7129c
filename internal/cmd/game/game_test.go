package game

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.HealthPort != 8081 {
		t.Fatalf("expected default health port 8081, got %d", cfg.HealthPort)
	}
	if cfg.Check {
		t.Fatal("expected check to default to false")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-addr", "127.0.0.1:9999",
		"-db", "/tmp/game.db",
		"-tuning", "/tmp/tuning.lua",
		"-check",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/game.db" {
		t.Fatalf("expected db override, got %q", cfg.DBPath)
	}
	if cfg.TuningPath != "/tmp/tuning.lua" {
		t.Fatalf("expected tuning override, got %q", cfg.TuningPath)
	}
	if !cfg.Check {
		t.Fatal("expected check to be set")
	}
}

func TestListenAddr(t *testing.T) {
	if got := listenAddr("", 8080); got != ":8080" {
		t.Fatalf("listenAddr(\"\", 8080) = %q, want :8080", got)
	}
	if got := listenAddr("127.0.0.1:9000", 8080); got != "127.0.0.1:9000" {
		t.Fatalf("listenAddr with addr = %q, want 127.0.0.1:9000", got)
	}
}
