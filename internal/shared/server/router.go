package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/extractions"
	"policy-backend/internal/shared/config"
	"policy-backend/internal/shared/metrics"
	"policy-backend/internal/shared/server/middleware"
	"policy-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts. Keeping construction
// outside the router lets tests inject fakes.
type RouterDeps struct {
	Config      config.Config
	Extractions *extractions.Handler
	Health      gin.HandlerFunc
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.APIKey(deps.Config.APIAuthToken),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"service": "Insurance Document Data Extraction API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"/api/v1/extract":      "POST - Upload document to extract information",
				"/api/v1/extract-text": "POST - Extract information from raw text",
				"/api/v1/extractions":  "GET - List recent extraction requests",
				"/api/v1/health":       "GET - Health check",
				"/metrics":             "GET - Prometheus metrics",
			},
		})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.Health != nil {
		api.GET("/health", deps.Health)
	}
	if deps.Extractions != nil {
		deps.Extractions.RegisterRoutes(api)
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
