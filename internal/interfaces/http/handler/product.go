package handler

import (
	"net/http"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product API endpoints
type ProductHandler struct {
	BaseHandler
	products *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductRoutes builds the /products route group. Middleware in create runs
// before the create handler only.
func ProductRoutes(h *ProductHandler, create ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("products", "/products")
	group.GET("", h.List)
	group.POST("", chain(create, h.Create)...)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	return group
}

// Create godoc
// @Summary      Create a product
// @Description  Create a product. Description must be unique and price non-negative.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the first response for repeated keys"
// @Param        request body catalog.ProductRequest true "Product"
// @Success      201 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	h.Reply(c, http.StatusCreated, product, err)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "product")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	h.Reply(c, http.StatusOK, product, err)
}

// List godoc
// @Summary      List products
// @Description  List products ordered by creation time, optionally filtered by a description substring
// @Tags         products
// @Produce      json
// @Param        search query string false "Description contains"
// @Param        skip query int false "Rows to skip" default(0) minimum(0)
// @Param        limit query int false "Page size" default(100) minimum(0) maximum(1000)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalog.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	h.ReplyPage(c, products, total, filter.Skip, filter.Limit, err)
}

// Update godoc
// @Summary      Replace a product
// @Description  Replace every field of a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.ProductRequest true "Product"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "product")
	if !ok {
		return
	}

	var req catalog.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	h.Reply(c, http.StatusOK, product, err)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Delete a product and every invoice line item that references it
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.DeleteResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "product")
	if !ok {
		return
	}

	resp, err := h.products.Delete(c.Request.Context(), id)
	h.Reply(c, http.StatusOK, resp, err)
}
