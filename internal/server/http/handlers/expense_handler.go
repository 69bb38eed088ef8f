package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

// ExpenseHandler manages expense endpoints.
type ExpenseHandler struct {
	facade ExpenseFacade
}

// NewExpenseHandler constructs ExpenseHandler.
func NewExpenseHandler(facade ExpenseFacade) *ExpenseHandler {
	return &ExpenseHandler{facade: facade}
}

// List handles GET /api/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.facade.Expenses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExpenseResponses(expenses))
}

// Create handles POST /api/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		writeError(c, err)
		return
	}
	expense, err := h.facade.CreateExpense(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewExpenseResponse(*expense))
}

// Delete handles DELETE /api/expenses/{id}.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteExpense(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "expense deleted")
}
