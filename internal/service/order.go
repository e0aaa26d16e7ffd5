package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/event"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/repository"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

// Pricing rules applied at checkout. Orders above the free-shipping
// threshold ship for free; tax is a flat rate on the item subtotal.
const (
	taxRate               = 0.15
	shippingFlatPrice     = 10.0
	freeShippingThreshold = 100.0
)

// OrderService implements checkout and order management.
type OrderService struct {
	repo     repository.OrderRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrderInput holds the parameters for placing an order. Item names and
// prices are snapshotted from the catalog, never trusted from the client.
type PlaceOrderInput struct {
	Items           []PlaceOrderItem
	ShippingAddress domain.Address
	PaymentMethod   string
}

// PlaceOrderItem is one requested line of an order.
type PlaceOrderItem struct {
	ProductID string
	Qty       int
}

// PlaceOrder creates an order for the given user, pricing each line from the
// current catalog and decrementing stock transactionally.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, input *PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("No order items")
	}

	var (
		items      []domain.OrderItem
		itemsPrice float64
	)
	for _, line := range input.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve order item %s: %w", line.ProductID, err)
		}
		if product.CountInStock < line.Qty {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Not enough stock for %s", product.Name))
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       line.Qty,
			Price:     product.Price,
		})
		itemsPrice += product.Price * float64(line.Qty)
	}

	itemsPrice = round2(itemsPrice)

	shippingPrice := shippingFlatPrice
	if itemsPrice > freeShippingThreshold {
		shippingPrice = 0
	}
	taxPrice := round2(itemsPrice * taxRate)

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      round2(itemsPrice + taxPrice + shippingPrice),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Float64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order for its owner or an admin.
func (s *OrderService) GetOrder(ctx context.Context, id string, requester *domain.User) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if order.UserID != requester.ID && !requester.IsAdmin {
		return nil, apperrors.Unauthorized("Not authorized")
	}

	return order, nil
}

// ListMyOrders returns the requesting user's orders.
func (s *OrderService) ListMyOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

// ListOrders returns all orders.
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// MarkPaid records payment on an order the requester owns (or any order for
// an admin).
func (s *OrderService) MarkPaid(ctx context.Context, id string, requester *domain.User) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for payment: %w", err)
	}

	if order.UserID != requester.ID && !requester.IsAdmin {
		return nil, apperrors.Unauthorized("Not authorized")
	}

	updated, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	s.logger.InfoContext(ctx, "order paid", slog.String("order_id", id))

	return updated, nil
}

// MarkDelivered records delivery on an order.
func (s *OrderService) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	updated, err := s.repo.MarkDelivered(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark order delivered: %w", err)
	}

	s.logger.InfoContext(ctx, "order delivered", slog.String("order_id", id))

	return updated, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
