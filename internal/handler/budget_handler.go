package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// CreateBudgetRequest represents a budget creation request
type CreateBudgetRequest struct {
	CategoryID int32   `json:"categoryId"`
	Amount     string  `json:"amount"`
	Period     string  `json:"period"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
}

// UpdateBudgetRequest represents a partial budget update request
type UpdateBudgetRequest struct {
	CategoryID *int32  `json:"categoryId,omitempty"`
	Amount     *string `json:"amount,omitempty"`
	Period     *string `json:"period,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID           int32  `json:"id"`
	CategoryID   int32  `json:"categoryId"`
	Amount       string `json:"amount"`
	Period       string `json:"period"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	CurrentSpent string `json:"currentSpent"`
	IsActive     bool   `json:"isActive"`
}

// UtilizationResponse represents budget utilization in API responses
type UtilizationResponse struct {
	BudgetID              int32  `json:"budgetId"`
	CategoryID            int32  `json:"categoryId"`
	Amount                string `json:"amount"`
	CurrentSpent          string `json:"currentSpent"`
	Remaining             string `json:"remaining"`
	UtilizationPercentage string `json:"utilizationPercentage"`
	IsOverBudget          bool   `json:"isOverBudget"`
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Create a per-category spending budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget creation request"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.CategoryID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category ID is required"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget := &domain.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		Period:     domain.BudgetPeriod(req.Period),
	}

	if req.StartDate != nil && *req.StartDate != "" {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		budget.StartDate = start
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		budget.EndDate = end
	}

	created, err := h.budgetService.Create(c.Request().Context(), budget)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return respondDomainError(c, err, "Failed to create budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", created.ID).Msg("Budget created")

	return c.JSON(http.StatusCreated, toBudgetResponse(created))
}

// GetUtilization godoc
// @Summary Get budget utilization
// @Description Recompute a budget's spent figure and return its utilization
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} UtilizationResponse
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id}/utilization [get]
func (h *BudgetHandler) GetUtilization(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	view, err := h.budgetService.GetUtilization(c.Request().Context(), userID, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int32("budget_id", id).Msg("Failed to get budget utilization")
		return respondDomainError(c, err, "Failed to get budget utilization")
	}

	return c.JSON(http.StatusOK, UtilizationResponse{
		BudgetID:              view.BudgetID,
		CategoryID:            view.CategoryID,
		Amount:                view.Amount.StringFixed(2),
		CurrentSpent:          view.CurrentSpent.StringFixed(2),
		Remaining:             view.Remaining.StringFixed(2),
		UtilizationPercentage: view.UtilizationPercentage.StringFixed(2),
		IsOverBudget:          view.IsOverBudget,
	})
}

// UpdateBudget godoc
// @Summary Update a budget
// @Description Apply a partial update to a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body UpdateBudgetRequest true "Budget update request"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [patch]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	update := &domain.BudgetUpdate{
		CategoryID: req.CategoryID,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		update.Amount = &amount
	}
	if req.Period != nil {
		period := domain.BudgetPeriod(*req.Period)
		update.Period = &period
	}
	if req.StartDate != nil && *req.StartDate != "" {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		update.StartDate = &start
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		update.EndDate = &end
	}

	updated, err := h.budgetService.Update(c.Request().Context(), userID, id, update)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int32("budget_id", id).Msg("Failed to update budget")
		return respondDomainError(c, err, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(updated))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Description Deactivate a budget; its history is retained
// @Tags budgets
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.Delete(c.Request().Context(), userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int32("budget_id", id).Msg("Failed to delete budget")
		return respondDomainError(c, err, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", id).Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:           budget.ID,
		CategoryID:   budget.CategoryID,
		Amount:       budget.Amount.StringFixed(2),
		Period:       string(budget.Period),
		StartDate:    budget.StartDate.Format("2006-01-02"),
		EndDate:      budget.EndDate.Format("2006-01-02"),
		CurrentSpent: budget.CurrentSpent.StringFixed(2),
		IsActive:     budget.IsActive,
	}
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return int32(id), nil
}
