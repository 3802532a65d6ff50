package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/services"
)

// RecurringHandler exposes the recurring-expense materializer for manual runs.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RunGenerationRequest represents the request payload for a manual
// materializer run. Month and year default to the current period.
type RunGenerationRequest struct {
	Month int `json:"month" binding:"omitempty,min=1,max=12"`
	Year  int `json:"year" binding:"omitempty,min=1970"`
}

// RunGeneration handles a manual materializer run for a period.
// @Summary     Run recurring generation
// @Description Materialize all active recurring templates for the given period. Idempotent: re-runs skip existing instances.
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RunGenerationRequest false "Target period (defaults to current month)"
// @Success     200 {object} services.GenerationResult "Generation summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/run [post]
func (h *RecurringHandler) RunGeneration(c *gin.Context) {
	var req RunGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if req.Month == 0 || req.Year == 0 {
		now := time.Now().UTC()
		req.Month = int(now.Month())
		req.Year = now.Year()
	}

	result, err := h.recurringService.GenerateForPeriod(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
