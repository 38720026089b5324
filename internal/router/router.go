// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/handlers"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
// The gatherer backs /metrics; pass the registry the service's metrics were
// registered on.
func Setup(h *handlers.Handler, gatherer prometheus.Gatherer, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(allowedOrigins))

	// Upload UI
	r.GET("/", h.Index)

	// Conversion
	r.POST("/convert", h.ConvertPDF)
	r.GET("/download/:filename", h.DownloadFile)

	// Operations
	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	return r
}
