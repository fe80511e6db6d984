// internal/handlers/customer.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/easyretail/shop-backend/internal/i18n"
	"github.com/easyretail/shop-backend/internal/services"
	"github.com/easyretail/shop-backend/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GET /api/customers
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "customer", err)
		return
	}
	utils.SuccessResponse(c, customers)
}

// GET /api/customers/search?q=
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeySearchQueryMissing), nil)
		return
	}

	customers, err := h.customerService.SearchCustomers(c.Request.Context(), q)
	if err != nil {
		HandleServiceError(c, "customer", err)
		return
	}
	utils.SuccessResponse(c, customers)
}

// GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, "customer", err)
		return
	}
	utils.SuccessResponse(c, customer)
}

// POST /api/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, "customer", err)
		return
	}
	utils.CreatedResponse(c, customer, i18n.KeyCustomerCreated)
}

// PUT /api/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, "customer", err)
		return
	}
	utils.SuccessMessageResponse(c, customer, i18n.KeyCustomerUpdated)
}

// DELETE /api/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, "customer", err)
		return
	}
	utils.SuccessMessageResponse(c, gin.H{"id": c.Param("id")}, i18n.KeyCustomerDeleted)
}
