package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

const healthTimeout = 3 * time.Second

// DashboardHandler serves dashboard figures and health.
type DashboardHandler struct {
	facade DashboardFacade
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(facade DashboardFacade) *DashboardHandler {
	return &DashboardHandler{facade: facade}
}

// Summary handles GET /api/dashboard/summary?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *DashboardHandler) Summary(c *gin.Context) {
	from, err := queryDate(c, "from")
	if err != nil {
		writeError(c, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := h.facade.DashboardSummary(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDashboardSummaryResponse(*summary))
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, domainErrors.Validationf("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}

// Health handles GET /api/health.
func (h *DashboardHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.facade.Health(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "database unavailable", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
