package models

import "github.com/bobler41/EV-Parking-Simulation/internal/model"

// CreateInputSetRequest is the body of POST /api/v1/input-sets.
// Omitted optional fields take the model defaults.
type CreateInputSetRequest struct {
	Name                   *string  `json:"name,omitempty"`
	ChargePoints           *int     `json:"chargePoints" binding:"required"`
	ArrivalMultiplier      *float64 `json:"arrivalMultiplier,omitempty"`
	ConsumptionKWhPer100km *float64 `json:"consumptionKwhPer100km,omitempty"`
	ChargerPowerKW         *float64 `json:"chargerPowerKw,omitempty"`
}

// UpdateInputSetRequest is the body of PATCH /api/v1/input-sets/:id.
type UpdateInputSetRequest struct {
	Name                   *string  `json:"name,omitempty"`
	ChargePoints           *int     `json:"chargePoints,omitempty"`
	ArrivalMultiplier      *float64 `json:"arrivalMultiplier,omitempty"`
	ConsumptionKWhPer100km *float64 `json:"consumptionKwhPer100km,omitempty"`
	ChargerPowerKW         *float64 `json:"chargerPowerKw,omitempty"`
}

func (r CreateInputSetRequest) Patch() model.InputSetPatch {
	return model.InputSetPatch{
		Name:                   r.Name,
		ChargePoints:           r.ChargePoints,
		ArrivalMultiplier:      r.ArrivalMultiplier,
		ConsumptionKWhPer100km: r.ConsumptionKWhPer100km,
		ChargerPowerKW:         r.ChargerPowerKW,
	}
}

func (r UpdateInputSetRequest) Patch() model.InputSetPatch {
	return model.InputSetPatch{
		Name:                   r.Name,
		ChargePoints:           r.ChargePoints,
		ArrivalMultiplier:      r.ArrivalMultiplier,
		ConsumptionKWhPer100km: r.ConsumptionKWhPer100km,
		ChargerPowerKW:         r.ChargerPowerKW,
	}
}

// CreateRunRequest is the body of POST /api/v1/simulation-runs.
type CreateRunRequest struct {
	InputSetID string  `json:"inputSetId" binding:"required"`
	Seed       *uint32 `json:"seed,omitempty"` // random when omitted
}

// RunQuery holds query parameters of POST /api/v1/simulation-runs.
type RunQuery struct {
	Async bool `form:"async"`
}

// EventCountsQuery holds query parameters of GET /simulation-runs/:id/event-counts.
type EventCountsQuery struct {
	Period string `form:"period"` // year, month, week, day or empty for all
}
