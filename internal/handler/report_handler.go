package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles monthly report HTTP requests
type ReportHandler struct {
	summaryService *service.SummaryService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(summaryService *service.SummaryService) *ReportHandler {
	return &ReportHandler{
		summaryService: summaryService,
	}
}

// MonthlyReportResponse represents one monthly summary in API responses
type MonthlyReportResponse struct {
	MonthYear                string `json:"monthYear"`
	TotalIncome              string `json:"totalIncome"`
	TotalExpenses            string `json:"totalExpenses"`
	NetSavings               string `json:"netSavings"`
	TopExpenseCategoryID     *int32 `json:"topExpenseCategoryId,omitempty"`
	TopExpenseCategoryName   string `json:"topExpenseCategoryName,omitempty"`
	TopExpenseAmount         string `json:"topExpenseAmount"`
	TransactionCount         int    `json:"transactionCount"`
	AverageTransactionAmount string `json:"averageTransactionAmount"`
	SavingsRate              string `json:"savingsRate"`
	IsFinal                  bool   `json:"isFinal"`
}

// GetMonthlyReports godoc
// @Summary List monthly reports
// @Description List the caller's monthly summaries, optionally for one year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Restrict to one calendar year"
// @Success 200 {array} MonthlyReportResponse
// @Failure 400 {object} ProblemDetails
// @Router /reports/monthly [get]
func (h *ReportHandler) GetMonthlyReports(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var year *int
	if yearStr := c.QueryParam("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			return NewValidationError(c, "Invalid year format", []ValidationError{
				{Field: "year", Message: "Must be a valid integer"},
			})
		}
		if parsed < 2000 || parsed > 2100 {
			return NewValidationError(c, "Year must be between 2000 and 2100", []ValidationError{
				{Field: "year", Message: "Must be between 2000 and 2100"},
			})
		}
		year = &parsed
	}

	reports, err := h.summaryService.GetMonthlyReports(c.Request().Context(), userID, year)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get monthly reports")
		return respondDomainError(c, err, "Failed to get monthly reports")
	}

	response := make([]MonthlyReportResponse, len(reports))
	for i, report := range reports {
		response[i] = toMonthlyReportResponse(report)
	}
	return c.JSON(http.StatusOK, response)
}

// Recalculate godoc
// @Summary Recalculate monthly summaries
// @Description Recompute the caller's trailing 13 months of summaries
// @Tags reports
// @Security BearerAuth
// @Success 202
// @Failure 401 {object} ProblemDetails
// @Router /reports/recalculate [post]
func (h *ReportHandler) Recalculate(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.summaryService.RecalculateUserData(c.Request().Context(), userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to recalculate summaries")
		return respondDomainError(c, err, "Failed to recalculate summaries")
	}

	log.Info().Str("user_id", userID.String()).Msg("Monthly summaries recalculated")

	return c.NoContent(http.StatusAccepted)
}

func toMonthlyReportResponse(summary *domain.MonthlySummary) MonthlyReportResponse {
	return MonthlyReportResponse{
		MonthYear:                summary.MonthYear.Format("2006-01"),
		TotalIncome:              summary.TotalIncome.StringFixed(2),
		TotalExpenses:            summary.TotalExpenses.StringFixed(2),
		NetSavings:               summary.NetSavings.StringFixed(2),
		TopExpenseCategoryID:     summary.TopExpenseCategoryID,
		TopExpenseCategoryName:   summary.TopExpenseCategoryName,
		TopExpenseAmount:         summary.TopExpenseAmount.StringFixed(2),
		TransactionCount:         summary.TransactionCount,
		AverageTransactionAmount: summary.AverageTransactionAmount.StringFixed(2),
		SavingsRate:              summary.SavingsRate.StringFixed(2),
		IsFinal:                  summary.IsFinal,
	}
}
