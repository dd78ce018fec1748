package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/expensio/internal/metrics"
	"github.com/expensio/internal/middleware"
	"github.com/expensio/internal/service"
	"github.com/expensio/pkg/response"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles owner-scoped expense API requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// List returns the caller's expenses
// GET /api/v1/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	expenses, err := h.expenseService.List(userID)
	if err != nil {
		middleware.LogError("list expenses failed for user %d: %v", userID, err)
		response.InternalError(c, "failed to load expenses")
		return
	}

	response.Success(c, expenses)
}

// Create adds a new expense owned by the caller
// POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			response.BadRequest(c, "title is required")
			return
		}
		middleware.LogError("create expense failed for user %d: %v", userID, err)
		response.InternalError(c, "failed to add expense")
		return
	}

	response.Created(c, expense)
}

// Update applies a partial update to one of the caller's expenses
// PUT /api/v1/expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	expenseID, ok := parseExpenseID(c)
	if !ok {
		return
	}

	var req service.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Update(userID, expenseID, &req)
	if err != nil {
		h.handleExpenseError(c, userID, err)
		return
	}

	response.Success(c, expense)
}

// Delete removes one of the caller's expenses
// DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	expenseID, ok := parseExpenseID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(userID, expenseID); err != nil {
		h.handleExpenseError(c, userID, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// Summary returns derived spending metrics for the caller
// GET /api/v1/expenses/summary?budget=N
func (h *ExpenseHandler) Summary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var budget float64
	if budgetStr := c.Query("budget"); budgetStr != "" {
		parsed, err := strconv.ParseFloat(budgetStr, 64)
		if err != nil || parsed < 0 {
			response.BadRequest(c, "invalid budget")
			return
		}
		budget = parsed
	}

	expenses, err := h.expenseService.List(userID)
	if err != nil {
		middleware.LogError("summary failed for user %d: %v", userID, err)
		response.InternalError(c, "failed to load expenses")
		return
	}

	response.Success(c, metrics.Compute(expenses, budget, time.Now()))
}

func (h *ExpenseHandler) handleExpenseError(c *gin.Context, userID uint, err error) {
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		response.NotFound(c, "expense not found")
	case errors.Is(err, service.ErrNotExpenseOwner):
		response.Forbidden(c, "not allowed")
	case errors.Is(err, service.ErrTitleRequired):
		response.BadRequest(c, "title is required")
	default:
		middleware.LogError("expense operation failed for user %d: %v", userID, err)
		response.InternalError(c, "expense operation failed")
	}
}

func parseExpenseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid expense id")
		return 0, false
	}
	return uint(id), true
}

// RegisterRoutes registers expense routes behind the auth middleware
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	expenses := rg.Group("/expenses", authMiddleware)
	{
		expenses.GET("", h.List)
		expenses.POST("", h.Create)
		expenses.PUT("/:id", h.Update)
		expenses.DELETE("/:id", h.Delete)
		expenses.GET("/summary", h.Summary)
	}
}
