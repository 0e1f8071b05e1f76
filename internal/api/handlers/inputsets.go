package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bobler41/EV-Parking-Simulation/internal/api/models"
	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

// InputSetHandler serves /api/v1/input-sets.
type InputSetHandler struct {
	store store.Store
	log   logger.Logger
	now   func() time.Time
}

func NewInputSetHandler(st store.Store, log logger.Logger) *InputSetHandler {
	return &InputSetHandler{store: st, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Create handles POST /api/v1/input-sets
func (h *InputSetHandler) Create(c *gin.Context) {
	var req models.CreateInputSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	base := model.InputSet{
		ArrivalMultiplier:      model.DefaultArrivalMultiplier,
		ConsumptionKWhPer100km: model.DefaultConsumptionKWhPer100km,
		ChargerPowerKW:         model.DefaultChargerPowerKW,
	}
	in, err := base.Apply(req.Patch())
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT_SET", err.Error())
		return
	}
	now := h.now()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now

	if err := h.store.CreateInputSet(c.Request.Context(), *in); err != nil {
		respondStoreError(c, err, "input set")
		return
	}
	h.log.Infof("input sets: created %s (%d charge points)", in.ID, in.ChargePoints)
	c.JSON(http.StatusCreated, models.NewInputSet(*in))
}

// List handles GET /api/v1/input-sets
func (h *InputSetHandler) List(c *gin.Context) {
	sets, err := h.store.ListInputSets(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "input sets")
		return
	}
	out := make([]models.InputSet, len(sets))
	for i, s := range sets {
		out[i] = models.NewInputSet(s)
	}
	c.JSON(http.StatusOK, gin.H{"inputSets": out})
}

// Get handles GET /api/v1/input-sets/:id
func (h *InputSetHandler) Get(c *gin.Context) {
	in, err := h.store.GetInputSet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "input set")
		return
	}
	c.JSON(http.StatusOK, models.NewInputSet(*in))
}

// Update handles PATCH /api/v1/input-sets/:id
func (h *InputSetHandler) Update(c *gin.Context) {
	var req models.UpdateInputSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctx := c.Request.Context()
	cur, err := h.store.GetInputSet(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "input set")
		return
	}
	next, err := cur.Apply(req.Patch())
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT_SET", err.Error())
		return
	}
	next.UpdatedAt = h.now()
	if err := h.store.UpdateInputSet(ctx, *next); err != nil {
		respondStoreError(c, err, "input set")
		return
	}
	c.JSON(http.StatusOK, models.NewInputSet(*next))
}

// Delete handles DELETE /api/v1/input-sets/:id. Runs of the input set go with it.
func (h *InputSetHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteInputSet(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "input set")
		return
	}
	h.log.Infof("input sets: deleted %s", id)
	c.Status(http.StatusNoContent)
}
