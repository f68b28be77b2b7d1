package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GRPCAddr() != "0.0.0.0:50051" {
		t.Fatalf("GRPCAddr = %q, want %q", cfg.GRPCAddr(), "0.0.0.0:50051")
	}
	if cfg.MaxRangeDays != 60 || cfg.ConflictHorizonDays != 60 {
		t.Fatalf("range/horizon = %d/%d, want 60/60", cfg.MaxRangeDays, cfg.ConflictHorizonDays)
	}
	if cfg.TimezoneCacheTTL != 72*time.Hour {
		t.Fatalf("TimezoneCacheTTL = %v, want 72h", cfg.TimezoneCacheTTL)
	}
	if cfg.TimezoneLookupTimeout != 10*time.Second {
		t.Fatalf("TimezoneLookupTimeout = %v, want 10s", cfg.TimezoneLookupTimeout)
	}
	if cfg.TimezoneFallbackZone != "Local" {
		t.Fatalf("TimezoneFallbackZone = %q, want Local", cfg.TimezoneFallbackZone)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIETCHEF_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("VIETCHEF_TIMEZONE_CACHE_TTL", "1h")
	t.Setenv("VIETCHEF_AVAILABILITY_MAX_RANGE_DAYS", "30")
	t.Setenv("VIETCHEF_OTEL_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GRPCHost != "127.0.0.1" || cfg.GRPCPort != 6000 {
		t.Fatalf("grpc = %s:%d, want 127.0.0.1:6000", cfg.GRPCHost, cfg.GRPCPort)
	}
	if cfg.TimezoneCacheTTL != time.Hour {
		t.Fatalf("TimezoneCacheTTL = %v, want 1h", cfg.TimezoneCacheTTL)
	}
	if cfg.MaxRangeDays != 30 {
		t.Fatalf("MaxRangeDays = %d, want 30", cfg.MaxRangeDays)
	}
	if !cfg.OTelEnabled {
		t.Fatalf("OTelEnabled = false, want true")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIETCHEF_SHUTDOWN_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoad_InvalidSampleRatio(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIETCHEF_OTEL_SAMPLE_RATIO", "1.5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for sample ratio out of range")
	}
}
