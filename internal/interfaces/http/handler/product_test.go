package handler

import (
	"net/http"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/apptest"
	catalogapp "github.com/IndraniBorra/InvoiceManagementStore/internal/application/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductTestEngine(repos *apptest.Repos) *gin.Engine {
	service := catalogapp.NewProductService(repos.Products, repos.Scope)
	return newTestEngine(ProductRoutes(NewProductHandler(service)))
}

func newTestProduct(t *testing.T, description, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(description, decimal.RequireFromString(price))
	require.NoError(t, err)
	return p
}

func TestProductHandler_Create(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)

	repos.Products.On("ExistsByDescription", mock.Anything, "Widget", (*uuid.UUID)(nil)).Return(false, nil)
	repos.Products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/products",
		`{"product_description":"Widget","product_price":"19.99"}`)

	assertStatus(t, http.StatusCreated, w)
	var got catalogapp.ProductResponse
	decodeData(t, decodeResponse(t, w), &got)
	assert.Equal(t, "Widget", got.Description)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
	repos.AssertExpectations(t)
}

func TestProductHandler_Create_NumericPrice(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)

	repos.Products.On("ExistsByDescription", mock.Anything, "Gadget", (*uuid.UUID)(nil)).Return(false, nil)
	repos.Products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/products",
		`{"product_description":"Gadget","product_price":7.5}`)

	assertStatus(t, http.StatusCreated, w)
	var got catalogapp.ProductResponse
	decodeData(t, decodeResponse(t, w), &got)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got.Price))
}

func TestProductHandler_Create_NegativePrice(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/products",
		`{"product_description":"Widget","product_price":"-1"}`)

	assertStatus(t, http.StatusBadRequest, w)
	resp := decodeResponse(t, w)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Equal(t, []string{"product_price"}, detailFields(resp))
}

func TestProductHandler_Create_DuplicateDescription(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)

	repos.Products.On("ExistsByDescription", mock.Anything, "Widget", (*uuid.UUID)(nil)).Return(true, nil)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/products",
		`{"product_description":"Widget","product_price":"1.00"}`)

	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "ALREADY_EXISTS", decodeResponse(t, w).Error.Code)
	repos.Products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductHandler_List_Search(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)
	products := []catalog.Product{*newTestProduct(t, "Blue Widget", "2.50")}

	filterMatches := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "widget" && f.Offset == 0 && f.Limit == 5
	})
	repos.Products.On("FindAll", mock.Anything, filterMatches).Return(products, nil)
	repos.Products.On("Count", mock.Anything, filterMatches).Return(int64(1), nil)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/products?search=widget&limit=5", nil)

	assertStatus(t, http.StatusOK, w)
	resp := decodeResponse(t, w)
	var got []catalogapp.ProductResponse
	decodeData(t, resp, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Blue Widget", got[0].Description)
	assert.Equal(t, 5, resp.Meta.Limit)
	repos.AssertExpectations(t)
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)
	id := uuid.New()

	repos.Products.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound)

	w := doRequest(t, engine, http.MethodPut, "/api/v1/products/"+id.String(),
		`{"product_description":"Widget","product_price":"1.00"}`)

	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestProductHandler_Delete_ReportsAffectedInvoices(t *testing.T) {
	repos := apptest.NewRepos()
	engine := newProductTestEngine(repos)
	product := newTestProduct(t, "Widget", "3.00")
	affected := []uuid.UUID{uuid.New(), uuid.New()}

	repos.Products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	repos.Invoices.On("DeleteLineItemsByProduct", mock.Anything, product.ID).Return(affected, nil)
	repos.Products.On("Delete", mock.Anything, product.ID).Return(nil)

	w := doRequest(t, engine, http.MethodDelete, "/api/v1/products/"+product.ID.String(), nil)

	assertStatus(t, http.StatusOK, w)
	var got catalogapp.DeleteResponse
	decodeData(t, decodeResponse(t, w), &got)
	assert.True(t, got.Deleted)
	assert.Equal(t, affected, got.AffectedInvoices)
	repos.AssertExpectations(t)
}
