// internal/handlers/supplier.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/easyretail/shop-backend/internal/i18n"
	"github.com/easyretail/shop-backend/internal/services"
	"github.com/easyretail/shop-backend/internal/utils"
)

type SupplierHandler struct {
	supplierService *services.SupplierService
}

func NewSupplierHandler(supplierService *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// GET /api/suppliers
func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "supplier", err)
		return
	}
	utils.SuccessResponse(c, suppliers)
}

// GET /api/suppliers/search?q=
func (h *SupplierHandler) SearchSuppliers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeySearchQueryMissing), nil)
		return
	}

	suppliers, err := h.supplierService.SearchSuppliers(c.Request.Context(), q)
	if err != nil {
		HandleServiceError(c, "supplier", err)
		return
	}
	utils.SuccessResponse(c, suppliers)
}

// GET /api/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, "supplier", err)
		return
	}
	utils.SuccessResponse(c, supplier)
}

// POST /api/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req services.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, "supplier", err)
		return
	}
	utils.CreatedResponse(c, supplier, i18n.KeySupplierCreated)
}

// PUT /api/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req services.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, "supplier", err)
		return
	}
	utils.SuccessMessageResponse(c, supplier, i18n.KeySupplierUpdated)
}

// DELETE /api/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, "supplier", err)
		return
	}
	utils.SuccessMessageResponse(c, gin.H{"id": c.Param("id")}, i18n.KeySupplierDeleted)
}
