package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newMeRouter(svc *Service, userID string, guest bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
			c.Set("isGuest", guest)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestMeReturnsStoredProfile(t *testing.T) {
	repo := NewMemoryRepo()
	_ = repo.Upsert(context.Background(), User{ID: "google:1", Email: "asha@example.com", FullName: "Asha"})
	r := newMeRouter(NewService(repo), "google:1", false)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["fullName"] != "Asha" || body["role"] != RoleFarmer {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestMeRejectsGuest(t *testing.T) {
	r := newMeRouter(NewService(NewMemoryRepo()), "guest:abc", true)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
