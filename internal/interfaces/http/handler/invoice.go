package handler

import (
	"net/http"
	"strconv"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices  *invoicing.InvoiceService
	documents *invoicing.DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *invoicing.InvoiceService, documents *invoicing.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoices:  invoices,
		documents: documents,
	}
}

// InvoiceRoutes builds the /invoices route group. Middleware in create runs
// before the create handler only.
func InvoiceRoutes(h *InvoiceHandler, create ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("invoices", "/invoices")
	group.GET("", h.List)
	group.POST("", chain(create, h.Create)...)
	group.GET("/terms", h.Terms)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Replace)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/pdf", h.DownloadPDF)
	return group
}

// Create godoc
// @Summary      Create an invoice
// @Description  Create an invoice with its line items. The due date is derived from the terms,
// @Description  the total from the line items, and the status is always submitted.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the first response for repeated keys"
// @Param        request body invoicing.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[invoicing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicing.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), req)
	h.Reply(c, http.StatusCreated, invoice, err)
}

// GetByID godoc
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoicing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), id)
	h.Reply(c, http.StatusOK, invoice, err)
}

// List godoc
// @Summary      List invoices
// @Description  List invoices ordered by creation time, optionally filtered by customer name
// @Tags         invoices
// @Produce      json
// @Param        customer_name query string false "Customer name contains"
// @Param        skip query int false "Rows to skip" default(0) minimum(0)
// @Param        limit query int false "Page size" default(100) minimum(0) maximum(1000)
// @Success      200 {object} APIResponse[[]invoicing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter invoicing.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	h.ReplyPage(c, invoices, total, filter.Skip, filter.Limit, err)
}

// Replace godoc
// @Summary      Replace an invoice
// @Description  Replace the header and the complete line item set of an invoice.
// @Description  The status is reset to draft.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicing.ReplaceInvoiceRequest true "Invoice"
// @Success      200 {object} APIResponse[invoicing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Replace(c *gin.Context) {
	id, ok := h.ParseID(c, "invoice")
	if !ok {
		return
	}

	var req invoicing.ReplaceInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.Replace(c.Request.Context(), id, req)
	h.Reply(c, http.StatusOK, invoice, err)
}

// Delete godoc
// @Summary      Delete an invoice
// @Description  Delete an invoice together with its line items
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoicing.DeleteResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "invoice")
	if !ok {
		return
	}

	resp, err := h.invoices.Delete(c.Request.Context(), id)
	h.Reply(c, http.StatusOK, resp, err)
}

// Terms godoc
// @Summary      List payment terms
// @Description  List the recognized invoice terms codes
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[invoicing.TermsResponse]
// @Router       /invoices/terms [get]
func (h *InvoiceHandler) Terms(c *gin.Context) {
	h.Reply(c, http.StatusOK, h.invoices.Terms(), nil)
}

// DownloadPDF godoc
// @Summary      Download invoice PDF
// @Description  Render the invoice to PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary "PDF file"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := h.ParseID(c, "invoice")
	if !ok {
		return
	}

	doc, err := h.documents.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+doc.Filename)
	c.Header("Content-Length", strconv.Itoa(len(doc.Data)))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
