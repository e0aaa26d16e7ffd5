package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	pkgkafka "github.com/Shashwat-pati/Ecommerce-Backend/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicProductCreated = "storefront.product.created"
	TopicProductUpdated = "storefront.product.updated"
	TopicProductDeleted = "storefront.product.deleted"
	TopicReviewAdded    = "storefront.product.review_added"
	TopicOrderPlaced    = "storefront.order.placed"
	TopicUserRegistered = "storefront.user.registered"
)

// Aggregate type constants.
const (
	AggregateTypeProduct = "product"
	AggregateTypeOrder   = "order"
	AggregateTypeUser    = "user"
)

// Source identifier for events originating from this backend.
const Source = "storefront-backend"

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Price      float64 `json:"price"`
	CategoryID string  `json:"category_id"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewAddedData is the payload for a review_added event.
type ReviewAddedData struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	TotalPrice float64 `json:"total_price"`
	ItemCount  int     `json:"item_count"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Producer publishes storefront domain events to Kafka. A nil underlying
// Kafka producer turns publishing into a no-op, which tests rely on.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductData{
		ID:         product.ID,
		Name:       product.Name,
		Brand:      product.Brand,
		Price:      product.Price,
		CategoryID: product.CategoryID,
	}

	return p.publish(ctx, topic, product.ID, AggregateTypeProduct, data)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishReviewAdded publishes a review_added event keyed on the product.
func (p *Producer) PublishReviewAdded(ctx context.Context, review *domain.Review) error {
	data := ReviewAddedData{
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
	}

	return p.publish(ctx, TopicReviewAdded, review.ProductID, AggregateTypeProduct, data)
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	data := OrderPlacedData{
		ID:         order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		ItemCount:  len(order.Items),
	}

	return p.publish(ctx, TopicOrderPlaced, order.ID, AggregateTypeOrder, data)
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if p.kafka == nil {
		return nil
	}

	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
