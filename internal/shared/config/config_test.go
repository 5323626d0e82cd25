package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "PORT", "OBJECT_STORE", "DATABASE_URL", "MONGO_URI", "RATE_LIMIT_PUBLIC_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.PublicRateLimit != 2 || cfg.PublicRateBurst != 20 {
		t.Fatalf("unexpected rate limit defaults: %v/%d", cfg.PublicRateLimit, cfg.PublicRateBurst)
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "PROD")
	t.Setenv("OBJECT_STORE", " GCS ")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_PUBLIC_BURST", "not-a-number")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "gcs" {
		t.Fatalf("expected gcs, got %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.PublicRateBurst != 20 {
		t.Fatalf("expected invalid burst to fall back to default, got %d", cfg.PublicRateBurst)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MONGO_DB=fromfile\nPORT=9999\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("MONGO_DB", "")
	os.Unsetenv("MONGO_DB")

	cfg := Load()
	if cfg.MongoDB != "fromfile" {
		t.Fatalf("expected MONGO_DB from .env, got %q", cfg.MongoDB)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected environment to win over .env, got %q", cfg.Port)
	}
}
