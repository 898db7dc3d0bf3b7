package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// CategorySpendingResponse represents one category row in API responses
type CategorySpendingResponse struct {
	CategoryID   *int32 `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName"`
	Color        string `json:"color,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Amount       string `json:"amount"`
	Count        int    `json:"count"`
	Percentage   string `json:"percentage"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              int32  `json:"id"`
	CategoryID      *int32 `json:"categoryId,omitempty"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	Type            string `json:"type"`
	TransactionDate string `json:"transactionDate"`
	IsRecurring     bool   `json:"isRecurring"`
}

// BudgetOverviewResponse represents the aggregated budget block of the dashboard
type BudgetOverviewResponse struct {
	TotalBudgets       int    `json:"totalBudgets"`
	BudgetsOnTrack     int    `json:"budgetsOnTrack"`
	BudgetsExceeded    int    `json:"budgetsExceeded"`
	TotalBudgetAmount  string `json:"totalBudgetAmount"`
	TotalSpent         string `json:"totalSpent"`
	OverallUtilization string `json:"overallUtilization"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	TotalBalance           string                     `json:"totalBalance"`
	MonthlyIncome          string                     `json:"monthlyIncome"`
	MonthlyExpenses        string                     `json:"monthlyExpenses"`
	MonthlySavings         string                     `json:"monthlySavings"`
	SavingsRate            string                     `json:"savingsRate"`
	TotalTransactionCount  int64                      `json:"totalTransactionCount"`
	UnreadAlertCount       int64                      `json:"unreadAlertCount"`
	ActiveGoalCount        int64                      `json:"activeGoalCount"`
	PendingSuggestionCount int64                      `json:"pendingSuggestionCount"`
	TopExpenseCategories   []CategorySpendingResponse `json:"topExpenseCategories"`
	RecentTransactions     []TransactionResponse      `json:"recentTransactions"`
	BudgetOverview         *BudgetOverviewResponse    `json:"budgetOverview"`
}

// GetSummary godoc
// @Summary Get dashboard summary
// @Description Assemble the current-month dashboard view for the caller
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.dashboardService.GetSummary(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get dashboard summary")
		return respondDomainError(c, err, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, toDashboardSummaryResponse(summary))
}

func toDashboardSummaryResponse(summary *domain.DashboardSummary) DashboardSummaryResponse {
	topCategories := make([]CategorySpendingResponse, len(summary.TopExpenseCategories))
	for i, cs := range summary.TopExpenseCategories {
		topCategories[i] = toCategorySpendingResponse(cs)
	}

	recent := make([]TransactionResponse, len(summary.RecentTransactions))
	for i, tx := range summary.RecentTransactions {
		recent[i] = toTransactionResponse(tx)
	}

	var overview *BudgetOverviewResponse
	if summary.BudgetOverview != nil {
		overview = &BudgetOverviewResponse{
			TotalBudgets:       summary.BudgetOverview.TotalBudgets,
			BudgetsOnTrack:     summary.BudgetOverview.BudgetsOnTrack,
			BudgetsExceeded:    summary.BudgetOverview.BudgetsExceeded,
			TotalBudgetAmount:  summary.BudgetOverview.TotalBudgetAmount.StringFixed(2),
			TotalSpent:         summary.BudgetOverview.TotalSpent.StringFixed(2),
			OverallUtilization: summary.BudgetOverview.OverallUtilization.StringFixed(2),
		}
	}

	return DashboardSummaryResponse{
		TotalBalance:           summary.TotalBalance.StringFixed(2),
		MonthlyIncome:          summary.MonthlyIncome.StringFixed(2),
		MonthlyExpenses:        summary.MonthlyExpenses.StringFixed(2),
		MonthlySavings:         summary.MonthlySavings.StringFixed(2),
		SavingsRate:            summary.SavingsRate.StringFixed(2),
		TotalTransactionCount:  summary.TotalTransactionCount,
		UnreadAlertCount:       summary.UnreadAlertCount,
		ActiveGoalCount:        summary.ActiveGoalCount,
		PendingSuggestionCount: summary.PendingSuggestionCount,
		TopExpenseCategories:   topCategories,
		RecentTransactions:     recent,
		BudgetOverview:         overview,
	}
}

func toCategorySpendingResponse(cs *domain.CategorySpending) CategorySpendingResponse {
	return CategorySpendingResponse{
		CategoryID:   cs.CategoryID,
		CategoryName: cs.CategoryName,
		Color:        cs.Color,
		Icon:         cs.Icon,
		Amount:       cs.Amount.StringFixed(2),
		Count:        cs.Count,
		Percentage:   cs.Percentage.StringFixed(2),
	}
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		CategoryID:      tx.CategoryID,
		Description:     tx.Description,
		Amount:          tx.Amount.StringFixed(2),
		Type:            string(tx.Type),
		TransactionDate: tx.TransactionDate.Format("2006-01-02"),
		IsRecurring:     tx.IsRecurring,
	}
}
