package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/bobler41/EV-Parking-Simulation/internal/api/models"
	"github.com/bobler41/EV-Parking-Simulation/internal/config"
	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
)

// ScenarioHandler lists scenario preset files.
type ScenarioHandler struct {
	dir string
	log logger.Logger
}

// NewScenarioHandler serves presets from dir (server.scenario_dir).
func NewScenarioHandler(dir string, log logger.Logger) *ScenarioHandler {
	if dir == "" {
		dir = filepath.Join("examples", "scenarios")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Infof("scenarios: using directory %s", dir)
	return &ScenarioHandler{dir: dir, log: log}
}

// List handles GET /api/v1/scenarios
func (h *ScenarioHandler) List(c *gin.Context) {
	out := []models.ScenarioInfo{}
	scenarios, skipped, err := config.ListScenarios(h.dir)
	if err != nil {
		// A missing directory is an empty catalogue.
		h.log.Warnf("scenarios: read %s: %v", h.dir, err)
		c.JSON(http.StatusOK, gin.H{"scenarios": out})
		return
	}
	for _, e := range skipped {
		h.log.Warnf("scenarios: skipping file: %v", e)
	}
	for _, s := range scenarios {
		out = append(out, models.NewScenarioInfo(s))
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out})
}
