package handler

import (
	"net/http"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *partner.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *partner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// CustomerRoutes builds the /customers route group. Middleware in create runs
// before the create handler only.
func CustomerRoutes(h *CustomerHandler, create ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("customers", "/customers")
	group.GET("", h.List)
	group.POST("", chain(create, h.Create)...)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	return group
}

// Create godoc
// @Summary      Create a customer
// @Description  Create a customer. Name must be unique, phone exactly 10 digits.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the first response for repeated keys"
// @Param        request body partner.CustomerRequest true "Customer"
// @Success      201 {object} APIResponse[partner.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partner.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), req)
	h.Reply(c, http.StatusCreated, customer, err)
}

// GetByID godoc
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partner.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "customer")
	if !ok {
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), id)
	h.Reply(c, http.StatusOK, customer, err)
}

// List godoc
// @Summary      List customers
// @Description  List customers ordered by creation time, optionally filtered by a case-insensitive name substring
// @Tags         customers
// @Produce      json
// @Param        customer_name query string false "Name contains"
// @Param        skip query int false "Rows to skip" default(0) minimum(0)
// @Param        limit query int false "Page size" default(100) minimum(0) maximum(1000)
// @Success      200 {object} APIResponse[[]partner.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partner.CustomerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customers.List(c.Request.Context(), filter)
	h.ReplyPage(c, customers, total, filter.Skip, filter.Limit, err)
}

// Update godoc
// @Summary      Replace a customer
// @Description  Replace every field of a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partner.CustomerRequest true "Customer"
// @Success      200 {object} APIResponse[partner.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "customer")
	if !ok {
		return
	}

	var req partner.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, req)
	h.Reply(c, http.StatusOK, customer, err)
}

// Delete godoc
// @Summary      Delete a customer
// @Description  Delete a customer that no invoice references
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partner.DeleteResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "customer")
	if !ok {
		return
	}

	resp, err := h.customers.Delete(c.Request.Context(), id)
	h.Reply(c, http.StatusOK, resp, err)
}
