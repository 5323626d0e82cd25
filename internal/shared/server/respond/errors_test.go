package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/telemetry"
)

func TestErrorEnvelopeAndLogLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		status        int
		code          string
		wantLevel     string
		wantRetryable bool
	}{
		{name: "validation", status: http.StatusBadRequest, code: "invalid_input", wantLevel: "warn"},
		{name: "lost update", status: http.StatusConflict, code: "conflict", wantLevel: "warn", wantRetryable: true},
		{name: "rate limited", status: http.StatusTooManyRequests, code: "rate_limited", wantLevel: "warn", wantRetryable: true},
		{name: "store down", status: http.StatusInternalServerError, code: "internal", wantLevel: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			telemetry.SetOutput(&buf)
			t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

			router := gin.New()
			router.POST("/api/v1/soil-analysis/:id/share", func(c *gin.Context) {
				Error(c, tt.status, tt.code, "failed", nil)
			})
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/soil-analysis/a-1/share", nil))

			if resp.Code != tt.status {
				t.Fatalf("status = %d, want %d", resp.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tt.code || body.Error.Retryable != tt.wantRetryable {
				t.Fatalf("unexpected body: %+v", body.Error)
			}

			var entry map[string]any
			if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
				t.Fatalf("decode log: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Fatalf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["analysis_id"] != "a-1" || entry["route"] != "/api/v1/soil-analysis/:id/share" {
				t.Fatalf("unexpected log fields: %v", entry)
			}
		})
	}
}
