// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/easyretail/shop-backend/internal/i18n"
	"github.com/easyretail/shop-backend/internal/models"
	"github.com/easyretail/shop-backend/internal/services"
	"github.com/easyretail/shop-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GET /api/orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	status := c.Query("status")
	if status == "all" {
		status = ""
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), models.OrderStatus(status))
	if err != nil {
		HandleServiceError(c, "order", err)
		return
	}
	utils.SuccessResponse(c, orders)
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, "order", err)
		return
	}
	utils.SuccessResponse(c, order)
}

// POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, "order", err)
		return
	}
	utils.CreatedResponse(c, order, i18n.KeyOrderCreated)
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		HandleServiceError(c, "order", err)
		return
	}
	utils.SuccessMessageResponse(c, order, i18n.KeyOrderUpdated)
}

// DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, "order", err)
		return
	}
	utils.SuccessMessageResponse(c, gin.H{"id": c.Param("id")}, i18n.KeyOrderDeleted)
}
