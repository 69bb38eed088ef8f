package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	req, files, err := readCreateRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		writeError(c, err)
		return
	}

	receipt, attachments, err := h.facade.SubmitOrder(c.Request.Context(), draft, files)
	if err != nil {
		if receipt == nil {
			writeError(c, err)
			return
		}
		status, _ := statusFor(err)
		_ = c.Error(err)
		c.JSON(status, dto.PartialOrderResponse{
			ErrorResponse: dto.ErrorResponse{
				Message: fmt.Sprintf("order #%d was created but some attachments were not stored", receipt.SequenceNumber),
				Error:   err.Error(),
			},
			ID:             receipt.ID.String(),
			SequenceNumber: receipt.SequenceNumber,
			Attachments:    dto.NewAttachmentResponses(attachments),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.NewReceiptResponse(*receipt))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := parseOrderFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(*page))
}

func parseOrderFilter(c *gin.Context) (model.OrderFilter, error) {
	var filter model.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, domainErrors.Validationf("%s must be an integer", name)
		}
		*dst = n
	}
	return filter, nil
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.facade.UpdateOrderStatus(c.Request.Context(), id, model.OrderStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "order status updated")
}

// SetTracking handles PUT /api/orders/{id}/tracking.
func (h *OrderHandler) SetTracking(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.facade.SetTrackingCode(c.Request.Context(), id, req.TrackingCode); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "tracking code saved")
}

// Attach handles POST /api/orders/{id}/attachments.
func (h *OrderHandler) Attach(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	files, err := readFiles(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	attachments, err := h.facade.AttachFiles(c.Request.Context(), id, files)
	if err != nil {
		if attachments == nil {
			writeError(c, err)
			return
		}
		status, _ := statusFor(err)
		_ = c.Error(err)
		c.JSON(status, dto.PartialAttachResponse{
			ErrorResponse: dto.ErrorResponse{
				Message: fmt.Sprintf("%d of %d files were stored", len(attachments), len(files)),
				Error:   err.Error(),
			},
			Attachments: dto.NewAttachmentResponses(attachments),
		})
		return
	}
	c.JSON(http.StatusCreated, dto.NewAttachmentResponses(attachments))
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteOrder(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "order deleted")
}
