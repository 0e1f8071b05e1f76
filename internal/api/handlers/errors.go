package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bobler41/EV-Parking-Simulation/internal/api/models"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondStoreError maps store failures to 404 or 500.
func respondStoreError(c *gin.Context, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", what+" not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
}
