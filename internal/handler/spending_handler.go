package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// SpendingHandler handles spending breakdown HTTP requests
type SpendingHandler struct {
	spendingService *service.SpendingService
}

// NewSpendingHandler creates a new SpendingHandler
func NewSpendingHandler(spendingService *service.SpendingService) *SpendingHandler {
	return &SpendingHandler{
		spendingService: spendingService,
	}
}

// GetCategories godoc
// @Summary Get spending by category
// @Description Break down debit spending by category over a date range
// @Tags spending
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD, default 30 days ago)"
// @Param to query string false "End date (YYYY-MM-DD, default today)"
// @Success 200 {array} CategorySpendingResponse
// @Failure 400 {object} ProblemDetails
// @Router /spending/categories [get]
func (h *SpendingHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var from, to time.Time
	if fromStr := c.QueryParam("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return NewValidationError(c, "Invalid from date", []ValidationError{
				{Field: "from", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		from = parsed
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return NewValidationError(c, "Invalid to date", []ValidationError{
				{Field: "to", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		to = parsed
	}

	// One-sided ranges anchor the open end to today
	if from.IsZero() != to.IsZero() {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if from.IsZero() {
			from = to.AddDate(0, 0, -service.DefaultSpendingWindowDays)
		} else {
			to = today
		}
	}

	breakdown, err := h.spendingService.SpendingByCategory(c.Request().Context(), userID, from, to)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get spending breakdown")
		return respondDomainError(c, err, "Failed to get spending breakdown")
	}

	response := make([]CategorySpendingResponse, len(breakdown))
	for i, cs := range breakdown {
		response[i] = toCategorySpendingResponse(cs)
	}
	return c.JSON(http.StatusOK, response)
}
