package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RunAddress != ":8080" {
		t.Errorf("unexpected run address %q", cfg.RunAddress)
	}
	if cfg.MinProcessingSec != 10 || cfg.MaxProcessingSec != 30 {
		t.Errorf("unexpected processing bounds [%d, %d]", cfg.MinProcessingSec, cfg.MaxProcessingSec)
	}
	if cfg.RecoveryGraceDelay != 3*time.Second {
		t.Errorf("unexpected grace delay %v", cfg.RecoveryGraceDelay)
	}
	if cfg.RecoveryStaleAfter != 3*time.Hour {
		t.Errorf("unexpected stale cutoff %v", cfg.RecoveryStaleAfter)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("RUN_ADDRESS", ":9999")
	t.Setenv("RECOVERY_STAGGER", "500ms")
	t.Setenv("MIN_PROCESSING_SEC", "1")
	t.Setenv("MAX_PROCESSING_SEC", "2")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RunAddress != ":9999" {
		t.Errorf("unexpected run address %q", cfg.RunAddress)
	}
	if cfg.RecoveryStagger != 500*time.Millisecond {
		t.Errorf("unexpected stagger %v", cfg.RecoveryStagger)
	}
	if cfg.MinProcessingSec != 1 || cfg.MaxProcessingSec != 2 {
		t.Errorf("unexpected processing bounds [%d, %d]", cfg.MinProcessingSec, cfg.MaxProcessingSec)
	}
}

func TestNewConfig_InvalidBounds(t *testing.T) {
	t.Setenv("MIN_PROCESSING_SEC", "30")
	t.Setenv("MAX_PROCESSING_SEC", "10")

	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
}
