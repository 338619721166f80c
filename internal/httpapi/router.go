// Package httpapi exposes the analysis engine over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognicore/pulse/internal/collection"
	"github.com/cognicore/pulse/pkg/pulse"
	"github.com/cognicore/pulse/pkg/pulse/store"
)

// Server bundles the dependencies the handlers need.
type Server struct {
	store       store.Store
	engine      *pulse.Engine
	collections *collection.Service
}

// NewServer creates the HTTP server facade.
func NewServer(st store.Store, engine *pulse.Engine, collections *collection.Service) *Server {
	return &Server{store: st, engine: engine, collections: collections}
}

// SetupRouter builds the gin router with all API routes.
func (s *Server) SetupRouter(mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/pulse")
	{
		api.POST("/companies", s.createCompany)
		api.GET("/companies", s.listCompanies)
		api.GET("/companies/:name", s.getCompany)
		api.PUT("/companies/:name", s.updateCompany)
		api.DELETE("/companies/:name", s.deleteCompany)

		api.POST("/companies/:name/collect", s.startCollection)
		api.GET("/companies/:name/collections", s.listCollections)
		api.GET("/runs", s.listRuns)
		api.GET("/runs/:id", s.getRun)
		api.DELETE("/runs/:id", s.cancelRun)

		api.POST("/companies/:name/analyze", s.startAnalysis)
		api.GET("/companies/:name/summary", s.latestSummary)
		api.GET("/jobs/:id", s.getJob)

		api.GET("/status", s.status)
		api.GET("/stats", s.stats)
	}

	return r
}
