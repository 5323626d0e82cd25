package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agri-backend/internal/shared/config"
	localstore "agri-backend/internal/shared/storage/object/local"
	"agri-backend/internal/soilanalyses"
)

func TestBuildDevUsesMemoryAndLocalStore(t *testing.T) {
	app, err := Build(config.Config{Env: "dev", LocalStoreDir: t.TempDir(), PublicRateLimit: 2, PublicRateBurst: 20})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })

	if _, ok := app.SoilRepo.(*soilanalyses.MemoryRepo); !ok {
		t.Fatalf("expected memory soil repo, got %T", app.SoilRepo)
	}
	if _, ok := app.Store.(*localstore.Store); !ok {
		t.Fatalf("expected local store, got %T", app.Store)
	}
	if app.backend() != "memory" {
		t.Fatalf("backend = %q", app.backend())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/soil-analysis/analyze", strings.NewReader(`{"ph":6.5,"moisture":50,"nitrogen":50}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBuildProductionRequiresDatabase(t *testing.T) {
	if _, err := Build(config.Config{Env: "production"}); err == nil {
		t.Fatalf("expected error without a database in production")
	}
}

func TestBuildStoreRequiresBucket(t *testing.T) {
	for _, kind := range []string{"s3", "gcs"} {
		if _, err := buildStore(context.Background(), config.Config{ObjectStoreType: kind}); err == nil {
			t.Fatalf("%s: expected missing bucket error", kind)
		}
	}
}
