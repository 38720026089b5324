// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared dependencies.
package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/models"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/conversion"
)

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy — build a Service over temp directories.
type Handler struct {
	Service *conversion.Service
	Version string
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(svc *conversion.Service, version string) *Handler {
	return &Handler{
		Service: svc,
		Version: version,
	}
}

// HealthCheck returns the API health status.
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	dirs := h.Service.Dirs()

	storageStatus := "healthy"
	for _, dir := range []string{dirs.Incoming, dirs.Outgoing} {
		if info, err := os.Stat(dir); err != nil {
			storageStatus = "unhealthy: " + err.Error()
			break
		} else if !info.IsDir() {
			storageStatus = "unhealthy: " + dir + " is not a directory"
			break
		}
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:       "ok",
		Version:      h.Version,
		Backend:      h.Service.Backend(),
		UploadDir:    dirs.Incoming,
		ConvertedDir: dirs.Outgoing,
		Storage:      storageStatus,
	})
}
