package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	dashboardHandler *DashboardHandler,
	reportHandler *ReportHandler,
	budgetHandler *BudgetHandler,
	savingsHandler *SavingsHandler,
	spendingHandler *SpendingHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// Monthly report routes
	reports := api.Group("/reports")
	reports.GET("/monthly", reportHandler.GetMonthlyReports)
	reports.POST("/recalculate", reportHandler.Recalculate)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:id/utilization", budgetHandler.GetUtilization)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Savings routes
	savings := api.Group("/savings")
	savings.GET("/summary", savingsHandler.GetSummary)
	savings.GET("/projection", savingsHandler.GetProjection)

	// Spending routes
	spending := api.Group("/spending")
	spending.GET("/categories", spendingHandler.GetCategories)

	// WebSocket endpoint authenticates via query-param token, outside the
	// bearer middleware
	e.GET("/ws", wsHandler.HandleWS)
}
