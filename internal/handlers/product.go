// internal/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/i18n"
	"github.com/easyretail/shop-backend/internal/inventory"
	"github.com/easyretail/shop-backend/internal/services"
	"github.com/easyretail/shop-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listParams := services.ProductListParams{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	if status := c.Query("status"); status != "" && status != "all" {
		s := inventory.Status(status)
		if !s.Valid() {
			utils.ValidationErrorResponse(c, "unknown status "+strconv.Quote(status), nil)
			return
		}
		listParams.Status = s
	}

	if activeStr := c.Query("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			listParams.Active = &active
		}
	}

	if params.Requested {
		listParams.Page = params.Page
		listParams.Limit = params.Limit
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), listParams)
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}

	if !params.Requested {
		utils.SuccessResponse(c, products)
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /api/products/low-stock
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.LowStock(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /api/products/out-of-stock
func (h *ProductHandler) GetOutOfStock(c *gin.Context) {
	products, err := h.productService.OutOfStock(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /api/products/stats
func (h *ProductHandler) GetStats(c *gin.Context) {
	stats, err := h.productService.Stats(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /api/products/export
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	products, filename, err := h.productService.ExportProducts(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, products)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	in, uploaded, ok := h.bindProduct(c)
	if !ok {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.removeImage(uploaded)
		HandleServiceError(c, "product", err)
		return
	}

	utils.CreatedResponse(c, product, i18n.KeyProductCreated)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	previous, err := h.productService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}

	in, uploaded, ok := h.bindProduct(c)
	if !ok {
		return
	}

	product, err := h.productService.UpdateProduct(ctx, c.Param("id"), in)
	if err != nil {
		h.removeImage(uploaded)
		HandleServiceError(c, "product", err)
		return
	}
	if previous.Image != product.Image {
		h.removeImage(previous.Image)
	}

	utils.SuccessMessageResponse(c, product, i18n.KeyProductUpdated)
}

// PATCH /api/products/:id/toggle-active
func (h *ProductHandler) ToggleActive(c *gin.Context) {
	product, err := h.productService.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessMessageResponse(c, product, i18n.KeyProductToggled)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.productService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	if err := h.productService.DeleteProduct(ctx, product.ID); err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	h.removeImage(product.Image)
	utils.SuccessMessageResponse(c, gin.H{"id": c.Param("id")}, i18n.KeyProductDeleted)
}

// DELETE /api/products
func (h *ProductHandler) DeleteAllProducts(c *gin.Context) {
	deleted, err := h.productService.DeleteAllProducts(c.Request.Context())
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessMessageResponse(c, gin.H{"deleted": deleted}, i18n.KeyProductDeletedAll)
}

// POST /api/products/import
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var inputs []services.ProductInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	products, err := h.productService.ImportProducts(c.Request.Context(), inputs)
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.CreatedResponse(c, products, i18n.KeyProductImported, len(products))
}

type saleRequest struct {
	Items []services.SaleItem `json:"items"`
}

// POST /api/products/sales
func (h *ProductHandler) RecordSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	products, err := h.productService.RecordSale(c.Request.Context(), req.Items)
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessMessageResponse(c, products, i18n.KeyProductSaleRecorded)
}

type bulkUpdateRequest struct {
	Updates []services.ProductInput `json:"updates"`
}

// PATCH /api/products/bulk
func (h *ProductHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	products, err := h.productService.BulkUpdate(c.Request.Context(), req.Updates)
	if err != nil {
		HandleServiceError(c, "product", err)
		return
	}
	utils.SuccessMessageResponse(c, products, i18n.KeyProductBulkUpdated, len(products))
}

// bindProduct reads a JSON body or a multipart form. An uploaded "image"
// file replaces the image field and its URL is returned as uploaded. It
// writes the error response itself.
func (h *ProductHandler) bindProduct(c *gin.Context) (in *services.ProductInput, uploaded string, ok bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var body services.ProductInput
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.BadRequestResponse(c, "", err.Error())
			return nil, "", false
		}
		return &body, "", true
	}

	in = productFromForm(c)

	file, header, err := c.Request.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, "", true
	}
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyUploadInvalid), err.Error())
		return nil, "", false
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, header, h.storageService.ProductImageOptions())
	if err != nil {
		HandleServiceError(c, "product", err)
		return nil, "", false
	}
	in.Image = &result.URL
	return in, result.URL, true
}

// removeImage drops an uploaded file that no product points at any more.
// Failures are only logged.
func (h *ProductHandler) removeImage(url string) {
	if url == "" {
		return
	}
	if err := h.storageService.RemoveImage(url); err != nil {
		logrus.WithError(err).WithField("image", url).Warn("Failed to remove product image")
	}
}

func productFromForm(c *gin.Context) *services.ProductInput {
	in := &services.ProductInput{}
	text := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	number := func(key string) *coerce.Number {
		if v, ok := c.GetPostForm(key); ok {
			return coerce.NumberOf(v)
		}
		return nil
	}

	in.Name = text("name")
	in.Description = text("description")
	in.Category = text("category")
	in.SKU = text("sku")
	in.Image = text("image")
	in.Price = number("price")
	in.Stock = number("stock")
	in.Quantity = number("quantity")
	if v, ok := c.GetPostForm("isActive"); ok {
		in.IsActive = coerce.BoolOf(v)
	}
	return in
}
