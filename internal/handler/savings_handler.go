package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// SavingsHandler handles savings-related HTTP requests
type SavingsHandler struct {
	savingsService *service.SavingsService
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

// SavingsSummaryResponse represents the savings summary API response
type SavingsSummaryResponse struct {
	CurrentMonthSavings   string `json:"currentMonthSavings"`
	Goal                  string `json:"goal"`
	ProgressPercentage    string `json:"progressPercentage"`
	AverageMonthlySavings string `json:"averageMonthlySavings"`
	TotalSavings          string `json:"totalSavings"`
	ProjectedAnnual       string `json:"projectedAnnual"`
	OnTrack               bool   `json:"onTrack"`
	DeficitOrSurplus      string `json:"deficitOrSurplus"`
}

// ProjectionPointResponse represents one projected month in API responses
type ProjectionPointResponse struct {
	Month             string `json:"month"`
	ProjectedSavings  string `json:"projectedSavings"`
	CumulativeSavings string `json:"cumulativeSavings"`
}

// GetSummary godoc
// @Summary Get savings summary
// @Description Get the caller's trailing savings view and goal progress
// @Tags savings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SavingsSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /savings/summary [get]
func (h *SavingsHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.savingsService.Summary(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get savings summary")
		return respondDomainError(c, err, "Failed to get savings summary")
	}

	return c.JSON(http.StatusOK, SavingsSummaryResponse{
		CurrentMonthSavings:   summary.CurrentMonthSavings.StringFixed(2),
		Goal:                  summary.Goal.StringFixed(2),
		ProgressPercentage:    summary.ProgressPercentage.StringFixed(2),
		AverageMonthlySavings: summary.AverageMonthlySavings.StringFixed(2),
		TotalSavings:          summary.TotalSavings.StringFixed(2),
		ProjectedAnnual:       summary.ProjectedAnnual.StringFixed(2),
		OnTrack:               summary.OnTrack,
		DeficitOrSurplus:      summary.DeficitOrSurplus.StringFixed(2),
	})
}

// GetProjection godoc
// @Summary Get savings projection
// @Description Project cumulative savings forward from the current balance
// @Tags savings
// @Produce json
// @Security BearerAuth
// @Param months query int false "Projection horizon in months (1-60, default 12)"
// @Success 200 {array} ProjectionPointResponse
// @Failure 400 {object} ProblemDetails
// @Router /savings/projection [get]
func (h *SavingsHandler) GetProjection(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	months := service.DefaultProjectionMonths
	if monthsStr := c.QueryParam("months"); monthsStr != "" {
		parsed, err := strconv.Atoi(monthsStr)
		if err != nil {
			return NewValidationError(c, "Invalid months format", []ValidationError{
				{Field: "months", Message: "Must be a valid integer"},
			})
		}
		months = parsed
	}

	points, err := h.savingsService.Projection(c.Request().Context(), userID, months)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("months", months).Msg("Failed to get savings projection")
		return respondDomainError(c, err, "Failed to get savings projection")
	}

	response := make([]ProjectionPointResponse, len(points))
	for i, point := range points {
		response[i] = ProjectionPointResponse{
			Month:             point.Month.Format("2006-01"),
			ProjectedSavings:  point.ProjectedSavings.StringFixed(2),
			CumulativeSavings: point.CumulativeSavings.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}
