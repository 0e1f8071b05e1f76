package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bobler41/EV-Parking-Simulation/internal/api/models"
	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
)

// ErrorHandler recovers from panics and replies with the error envelope.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Errorf("http: panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: msg,
			},
		})
	})
}
