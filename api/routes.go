package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/leojohnthomas/lef-parser/cellstore"
	"github.com/leojohnthomas/lef-parser/metrics"
)

// Dependencies holds all handler dependencies.
type Dependencies struct {
	Registry *Registry
	Store    *cellstore.Store // optional; snapshot routes return 503 when nil
	Metrics  *metrics.Collector
	Logger   *slog.Logger
	Version  string
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	// Health check and metrics
	e.GET("/health", h.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	// Library management
	libGroup := e.Group("/api/libraries")
	libGroup.GET("", h.HandleListLibraries)
	libGroup.POST("", h.HandleLoadLibrary)
	libGroup.GET("/:name", h.HandleGetLibrary)
	libGroup.DELETE("/:name", h.HandleDeleteLibrary)

	// Macro access
	libGroup.GET("/:name/macros", h.HandleGetMacros)
	libGroup.GET("/:name/macros/msgpack", h.HandleGetMacrosMsgpack)
	libGroup.GET("/:name/macros/:macro", h.HandleGetMacro)
	libGroup.GET("/:name/macros/:macro/msgpack", h.HandleGetMacroMsgpack)

	// Export and persistence
	libGroup.GET("/:name/export", h.HandleExportLibrary)
	libGroup.POST("/:name/snapshot", h.HandleSaveSnapshot)
	e.GET("/api/snapshots", h.HandleListSnapshots)
}
