package repository

import (
	"context"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
)

// ProductFilter defines the criteria for the filtered catalog listing.
type ProductFilter struct {
	CategoryIDs []string
	MinPrice    *float64
	MaxPrice    *float64
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Search returns one page of products whose name matches the keyword
	// (case-insensitive substring) along with the total match count.
	Search(ctx context.Context, keyword string, page, perPage int) ([]*domain.Product, int, error)

	// ListWithCategory returns the newest products with category names
	// joined in, up to limit.
	ListWithCategory(ctx context.Context, limit int) ([]*domain.Product, error)

	// ListTop returns the highest-rated products, up to limit.
	ListTop(ctx context.Context, limit int) ([]*domain.Product, error)

	// ListNew returns the newest products, up to limit.
	ListNew(ctx context.Context, limit int) ([]*domain.Product, error)

	// ListFiltered returns products matching the category and price filter.
	ListFiltered(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	// Add inserts a review and recomputes the product's rating and
	// num_reviews in the same transaction. It returns ErrAlreadyExists
	// when the user has already reviewed the product and ErrNotFound when
	// the product does not exist.
	Add(ctx context.Context, review *domain.Review) error

	// ListByProductID returns all reviews for a product, newest first.
	ListByProductID(ctx context.Context, productID string) ([]*domain.Review, error)
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category into the store.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// List returns all categories.
	List(ctx context.Context) ([]*domain.Category, error)

	// Update modifies an existing category in the store.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	// Create inserts an order with its line items and decrements product
	// stock in the same transaction.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its line items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUserID returns a user's orders, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*domain.Order, error)

	// List returns all orders, newest first.
	List(ctx context.Context) ([]*domain.Order, error)

	// MarkPaid records payment on an order.
	MarkPaid(ctx context.Context, id string) (*domain.Order, error)

	// MarkDelivered records delivery on an order.
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}
