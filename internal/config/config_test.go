package config

import "testing"

func TestLoadPoolDefaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	cfg := Load()
	if cfg.DBMaxOpenConns != 10 || cfg.DBMaxIdleConns != 5 {
		t.Errorf("unexpected pool defaults: open=%d idle=%d", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
}

func TestLoadPoolFromEnv(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_MAX_IDLE_CONNS", "8")
	cfg := Load()
	if cfg.DBMaxOpenConns != 25 || cfg.DBMaxIdleConns != 8 {
		t.Errorf("env overrides ignored: open=%d idle=%d", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
}

func TestIntEnvRejectsGarbage(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "muchos")
	if got := intEnv("DB_MAX_OPEN_CONNS", 10); got != 10 {
		t.Errorf("want fallback 10, got %d", got)
	}
}
