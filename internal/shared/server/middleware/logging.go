package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	LogAnalysisIDKey = "analysisId"
	LogFarmIDKey     = "farmId"
	LogSoilHealthKey = "soilHealth"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"is_guest":    isGuest,
			"analysis_id": c.GetString(LogAnalysisIDKey),
			"farm_id":     c.GetString(LogFarmIDKey),
			"soil_health": c.GetString(LogSoilHealthKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
