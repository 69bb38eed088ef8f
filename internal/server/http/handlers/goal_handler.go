package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

// GoalHandler manages the savings goal endpoints.
type GoalHandler struct {
	facade GoalFacade
}

// NewGoalHandler constructs GoalHandler.
func NewGoalHandler(facade GoalFacade) *GoalHandler {
	return &GoalHandler{facade: facade}
}

// Get handles GET /api/goal. Responds with null when no goal exists.
func (h *GoalHandler) Get(c *gin.Context) {
	goal, err := h.facade.Goal(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if goal == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewGoalResponse(*goal))
}

// Update handles PUT /api/goal/{id}.
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := pathInt(c)
	if !ok {
		return
	}
	var req dto.GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	goal, err := h.facade.UpdateGoal(c.Request.Context(), id, req.ToModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGoalResponse(*goal))
}

// Add handles POST /api/goal/{id}/add.
func (h *GoalHandler) Add(c *gin.Context) {
	id, ok := pathInt(c)
	if !ok {
		return
	}
	var req dto.GoalAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount == nil {
		writeError(c, domainErrors.Validationf("amount is required"))
		return
	}
	goal, err := h.facade.AddToGoal(c.Request.Context(), id, req.Amount.Decimal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGoalResponse(*goal))
}
