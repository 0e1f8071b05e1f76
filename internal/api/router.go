// Package api wires the HTTP surface of the simulator.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bobler41/EV-Parking-Simulation/internal/api/handlers"
	"github.com/bobler41/EV-Parking-Simulation/internal/api/middleware"
	"github.com/bobler41/EV-Parking-Simulation/internal/api/models"
	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
	"github.com/bobler41/EV-Parking-Simulation/internal/runner"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

// Deps are the collaborators of the router.
type Deps struct {
	Store       store.Store
	Runner      *runner.Runner
	Logger      logger.Logger
	Gatherer    prometheus.Gatherer // nil serves the default registry
	ScenarioDir string
	StaticDir   string
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.ErrorHandler(d.Logger))

	inputSets := handlers.NewInputSetHandler(d.Store, d.Logger)
	runs := handlers.NewRunHandler(d.Store, d.Runner, d.Logger)
	scenarios := handlers.NewScenarioHandler(d.ScenarioDir, d.Logger)

	router.GET("/health", func(c *gin.Context) {
		ok := d.Store.Ping(c.Request.Context()) == nil
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, models.HealthResponse{OK: ok, Store: ok})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.POST("/input-sets", inputSets.Create)
		api.GET("/input-sets", inputSets.List)
		api.GET("/input-sets/:id", inputSets.Get)
		api.PATCH("/input-sets/:id", inputSets.Update)
		api.DELETE("/input-sets/:id", inputSets.Delete)

		api.POST("/simulation-runs", runs.Create)
		api.GET("/simulation-runs", runs.List)
		api.GET("/simulation-runs/:id", runs.Get)
		api.GET("/simulation-runs/:id/exemplary-day", runs.ExemplaryDay)
		api.GET("/simulation-runs/:id/event-counts", runs.EventCounts)
		api.GET("/simulation-runs/:id/export.xlsx", runs.ExportXLSX)
		api.GET("/simulation-runs/:id/export.pdf", runs.ExportPDF)

		api.GET("/scenarios", scenarios.List)
	}

	serveStatic(router, d.StaticDir, d.Logger)
	return router
}

// serveStatic serves a built dashboard from dir with SPA fallback, if dir exists.
func serveStatic(router *gin.Engine, dir string, log logger.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.Infof("api: static directory %s not found, skipping static file serving", dir)
		router.NoRoute(notFound)
		return
	}
	router.Static("/assets", filepath.Join(dir, "assets"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	log.Infof("api: serving static files from %s", dir)
}
