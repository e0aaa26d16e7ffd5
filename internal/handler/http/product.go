package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/httputil"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/validator"
)

// maxBodySize caps request bodies at 1MB.
const maxBodySize = 1 << 20

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
// Field order matters: the first missing field is the one reported.
type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Brand        string  `json:"brand" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Category     string  `json:"category" validate:"required,uuid"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// UpdateProductRequest is the JSON request body for a sparse product update.
type UpdateProductRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	Brand        *string  `json:"brand" validate:"omitempty,min=1"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Category     *string  `json:"category" validate:"omitempty,uuid"`
	Quantity     *int     `json:"quantity" validate:"omitempty,gte=0"`
	CountInStock *int     `json:"countInStock" validate:"omitempty,gte=0"`
}

// FilterProductsRequest is the JSON request body for the filtered listing.
// Checked carries category ids; Radio carries an optional [min, max] price
// range.
type FilterProductsRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio" validate:"omitempty,max=2"`
}

// --- Handlers ---

// SearchProducts handles GET /api/products?keyword=&page=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "page must be a valid positive integer"})
			return
		}
		page = p
	}

	result, err := h.service.SearchProducts(r.Context(), keyword, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// ListProducts handles GET /api/products/all
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// TopProducts handles GET /api/products/top
func (h *ProductHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.TopProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// NewProducts handles GET /api/products/new
func (h *ProductHandler) NewProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.NewProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// FilterProducts handles POST /api/products/filtered
func (h *ProductHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req FilterProductsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var minPrice, maxPrice *float64
	if len(req.Radio) == 2 {
		minPrice, maxPrice = &req.Radio[0], &req.Radio[1]
	}

	products, err := h.service.FilterProducts(r.Context(), req.Checked, minPrice, maxPrice)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:         req.Name,
		Brand:        req.Brand,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   req.Category,
		Quantity:     req.Quantity,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &service.UpdateProductInput{
		Name:         req.Name,
		Brand:        req.Brand,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   req.Category,
		Quantity:     req.Quantity,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}
