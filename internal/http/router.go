package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(runner FieldRunner, ledger RunLister, gatherer prometheus.Gatherer, origins []string) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(runner, ledger)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/parameters", handler.ListParameters)

	fields := v1.Group("/fields")
	fields.POST("/runs", handler.CreateRun)

	v1.GET("/runs", handler.ListRuns)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	// Prometheus metrics.
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return router
}
