package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Addr != ":3333" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("ttl = %v", cfg.TokenTTL)
	}
	if cfg.StreamFPS != 8 || cfg.StreamQuality != 75 {
		t.Fatalf("stream defaults = %d/%d", cfg.StreamFPS, cfg.StreamQuality)
	}
	if cfg.ExecutorURL != "http://localhost:8080" {
		t.Fatalf("executor url = %q", cfg.ExecutorURL)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("ADDR", ":4444")
	t.Setenv("GATEWAY_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL_SECONDS", "60")
	t.Setenv("STREAM_FPS", "12")
	t.Setenv("STREAM_WIDTH", "0")
	t.Setenv("EXECUTOR_TIMEOUT_SECONDS", "5")

	cfg := FromEnv()
	if cfg.Addr != ":4444" || cfg.Secret != "s3cret" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TokenTTL != time.Minute {
		t.Fatalf("ttl = %v", cfg.TokenTTL)
	}
	if cfg.StreamFPS != 12 || cfg.StreamWidth != 0 {
		t.Fatalf("stream = %d/%d", cfg.StreamFPS, cfg.StreamWidth)
	}
	if cfg.ExecutorTimeout != 5*time.Second {
		t.Fatalf("executor timeout = %v", cfg.ExecutorTimeout)
	}
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("STREAM_FPS", "lots")
	if cfg := FromEnv(); cfg.StreamFPS != 8 {
		t.Fatalf("fps = %d, want default", cfg.StreamFPS)
	}
}
