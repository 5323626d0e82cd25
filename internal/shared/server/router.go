package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	googleauth "agri-backend/internal/auth"
	"agri-backend/internal/services/health"
	"agri-backend/internal/shared/config"
	"agri-backend/internal/shared/metrics"
	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/server/respond"
	"agri-backend/internal/soilanalyses"
	"agri-backend/internal/users"
)

//go:embed openapi.yaml
var openAPISpec []byte

const (
	healthPath  = "/api/v1/health"
	openAPIPath = "/api/openapi.yaml"

	publicRateGroup = "PUBLIC"
	defaultRate     = 10
	defaultBurst    = 60
)

// RouterDeps carries the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config       config.Config
	SoilHandler  *soilanalyses.Handler
	UsersHandler *users.Handler
	GoogleAuth   *googleauth.GoogleService
	Health       *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	public := append([]string{healthPath}, soilanalyses.PublicPrefixes...)
	groups := map[string]string{}
	for _, p := range soilanalyses.PublicPrefixes {
		groups[p] = publicRateGroup
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	// Unauthenticated surfaces sit outside the auth and rate limit chain.
	r.GET("/metrics", metrics.Handler())
	r.GET(openAPIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPISpec)
	})
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(openAPIPath))))

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(public...),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				publicRateGroup: {Rate: deps.Config.PublicRateLimit, Burst: deps.Config.PublicRateBurst},
				"DEFAULT":       {Rate: defaultRate, Burst: defaultBurst},
			},
			GroupFor: middleware.GroupByPrefix(groups),
		}),
	)
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.SoilHandler != nil {
		deps.SoilHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
