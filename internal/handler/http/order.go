package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/httputil"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/validator"
)

// OrderHandler handles HTTP requests for checkout and order management.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// PlaceOrderRequest is the JSON request body for placing an order.
type PlaceOrderRequest struct {
	OrderItems      []PlaceOrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest  `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                  `json:"paymentMethod" validate:"required"`
}

// PlaceOrderItemRequest is one requested order line.
type PlaceOrderItemRequest struct {
	Product string `json:"product" validate:"required"`
	Qty     int    `json:"qty" validate:"required,gte=1"`
}

// ShippingAddressRequest is the shipping destination for an order.
type ShippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// --- Handlers ---

// PlaceOrder handles POST /api/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req PlaceOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items := make([]service.PlaceOrderItem, 0, len(req.OrderItems))
	for _, line := range req.OrderItems {
		items = append(items, service.PlaceOrderItem{
			ProductID: line.Product,
			Qty:       line.Qty,
		})
	}

	user := UserFromContext(r.Context())

	order, err := h.service.PlaceOrder(r.Context(), user.ID, &service.PlaceOrderInput{
		Items: items,
		ShippingAddress: domain.Address{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, order)
}

// ListMyOrders handles GET /api/orders/mine
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	orders, err := h.service.ListMyOrders(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := UserFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), id, user)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, orders)
}

// MarkPaid handles PUT /api/orders/{id}/pay
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := UserFromContext(r.Context())

	order, err := h.service.MarkPaid(r.Context(), id, user)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, order)
}

// MarkDelivered handles PUT /api/orders/{id}/deliver
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.MarkDelivered(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, order)
}
