package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bobler41/EV-Parking-Simulation/internal/api/models"
	"github.com/bobler41/EV-Parking-Simulation/internal/export"
	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/runner"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// RunHandler serves /api/v1/simulation-runs.
type RunHandler struct {
	store  store.Store
	runner *runner.Runner
	log    logger.Logger
}

func NewRunHandler(st store.Store, r *runner.Runner, log logger.Logger) *RunHandler {
	return &RunHandler{store: st, runner: r, log: log}
}

// Create handles POST /api/v1/simulation-runs
// By default it waits for the run; ?async=true returns 202 with the queued run.
func (h *RunHandler) Create(c *gin.Context) {
	var req models.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	var q models.RunQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctx := c.Request.Context()

	if q.Async {
		run, err := h.runner.Start(ctx, req.InputSetID, req.Seed)
		if err != nil {
			respondStoreError(c, err, "input set")
			return
		}
		c.JSON(http.StatusAccepted, models.NewSimulationRun(*run, nil))
		return
	}

	run, err := h.runner.Run(ctx, req.InputSetID, req.Seed)
	if err != nil {
		respondStoreError(c, err, "input set")
		return
	}
	if run.Status == model.RunFailed {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SIMULATION_FAILED",
				Message: run.Error,
				Details: map[string]any{"runId": run.ID},
			},
		})
		return
	}
	in, _ := h.store.GetInputSet(ctx, run.InputSetID)
	c.JSON(http.StatusCreated, models.NewSimulationRun(*run, in))
}

// List handles GET /api/v1/simulation-runs
func (h *RunHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	runs, err := h.store.ListRuns(ctx)
	if err != nil {
		respondStoreError(c, err, "simulation runs")
		return
	}
	sets, err := h.store.ListInputSets(ctx)
	if err != nil {
		respondStoreError(c, err, "input sets")
		return
	}
	byID := make(map[string]*model.InputSet, len(sets))
	for i := range sets {
		byID[sets[i].ID] = &sets[i]
	}
	out := make([]models.SimulationRun, len(runs))
	for i, r := range runs {
		out[i] = models.NewSimulationRun(r, byID[r.InputSetID])
	}
	c.JSON(http.StatusOK, gin.H{"simulationRuns": out})
}

// Get handles GET /api/v1/simulation-runs/:id
func (h *RunHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	run, err := h.store.GetRun(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "simulation run")
		return
	}
	in, _ := h.store.GetInputSet(ctx, run.InputSetID)
	c.JSON(http.StatusOK, models.NewSimulationRun(*run, in))
}

// ExemplaryDay handles GET /api/v1/simulation-runs/:id/exemplary-day
func (h *RunHandler) ExemplaryDay(c *gin.Context) {
	ctx := c.Request.Context()
	run, err := h.store.GetRun(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "simulation run")
		return
	}
	points, err := h.store.ExemplaryDay(ctx, run.ID)
	if err != nil {
		respondStoreError(c, err, "simulation run")
		return
	}
	c.JSON(http.StatusOK, models.NewExemplaryDayResponse(*run, points))
}

// EventCounts handles GET /api/v1/simulation-runs/:id/event-counts?period=
func (h *RunHandler) EventCounts(c *gin.Context) {
	var q models.EventCountsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if q.Period != "" && !simulation.Period(q.Period).Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_PERIOD",
			fmt.Sprintf("period must be one of year, month, week, day; got %q", q.Period))
		return
	}
	id := c.Param("id")
	aggs, err := h.store.EventCounts(c.Request.Context(), id, q.Period)
	if err != nil {
		respondStoreError(c, err, "simulation run")
		return
	}
	c.JSON(http.StatusOK, models.NewEventCountsResponse(id, q.Period, aggs))
}

// ExportXLSX handles GET /api/v1/simulation-runs/:id/export.xlsx
func (h *RunHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", contentTypeXLSX, export.BuildRunXLSX)
}

// ExportPDF handles GET /api/v1/simulation-runs/:id/export.pdf
func (h *RunHandler) ExportPDF(c *gin.Context) {
	h.export(c, "pdf", contentTypePDF, export.BuildRunPDF)
}

func (h *RunHandler) export(c *gin.Context, ext, contentType string, build func(export.Report) ([]byte, error)) {
	rep, err := h.loadReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "simulation run")
		return
	}
	if rep.Result.Run.Status != model.RunSucceeded {
		respondError(c, http.StatusConflict, "RUN_NOT_SUCCEEDED",
			fmt.Sprintf("run is %s; only succeeded runs can be exported", rep.Result.Run.Status))
		return
	}
	raw, err := build(*rep)
	if err != nil {
		h.log.Errorf("runs: export %s for %s: %v", ext, rep.Result.Run.ID, err)
		respondError(c, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="simulation-run-%s.%s"`, rep.Result.Run.ID, ext))
	c.Data(http.StatusOK, contentType, raw)
}

func (h *RunHandler) loadReport(ctx context.Context, id string) (*export.Report, error) {
	run, err := h.store.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := h.store.GetInputSet(ctx, run.InputSetID)
	if err != nil {
		return nil, err
	}
	points, err := h.store.ExemplaryDay(ctx, id)
	if err != nil {
		return nil, err
	}
	aggs, err := h.store.EventCounts(ctx, id, "")
	if err != nil {
		return nil, err
	}
	return &export.Report{
		InputSet: *in,
		Result:   model.RunResult{Run: *run, ExemplaryDay: points, EventAggs: aggs},
	}, nil
}
