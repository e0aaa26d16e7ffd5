package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/database"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

const orderColumns = `id, user_id, address, city, postal_code, country, payment_method,
		items_price, tax_price, shipping_price, total_price,
		is_paid, paid_at, is_delivered, delivered_at, created_at, updated_at`

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts an order with its line items and decrements product stock
// in the same transaction. A line whose product has insufficient stock
// fails the whole order.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertOrder := `
		INSERT INTO orders (id, user_id, address, city, postal_code, country, payment_method,
			items_price, tax_price, shipping_price, total_price, is_paid, is_delivered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.Exec(ctx, insertOrder,
		o.ID,
		o.UserID,
		o.ShippingAddress.Address,
		o.ShippingAddress.City,
		o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country,
		o.PaymentMethod,
		o.ItemsPrice,
		o.TaxPrice,
		o.ShippingPrice,
		o.TotalPrice,
		o.IsPaid,
		o.IsDelivered,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (order_id, product_id, name, qty, price)
		VALUES ($1, $2, $3, $4, $5)`

	decrementStock := `
		UPDATE products
		SET count_in_stock = count_in_stock - $1, updated_at = now()
		WHERE id = $2 AND count_in_stock >= $1`

	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, insertItem, o.ID, item.ProductID, item.Name, item.Qty, item.Price); err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.NotFound("Product not found")
			}
			return fmt.Errorf("insert order item: %w", err)
		}

		ct, err := tx.Exec(ctx, decrementStock, item.Qty, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.InvalidInput(fmt.Sprintf("Not enough stock for %s", item.Name))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	var o domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(orderDest(&o)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	items, err := r.listItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}

	return &o, nil
}

// ListByUserID returns a user's orders, newest first.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, orderColumns)

	return r.listOrders(ctx, query, userID)
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)

	return r.listOrders(ctx, query)
}

// MarkPaid records payment on an order.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET is_paid = TRUE, paid_at = now(), updated_at = now()
		WHERE id = $1`

	return r.mark(ctx, query, id)
}

// MarkDelivered records delivery on an order.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = now(), updated_at = now()
		WHERE id = $1`

	return r.mark(ctx, query, id)
}

func (r *OrderRepository) mark(ctx context.Context, query, id string) (*domain.Order, error) {
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, apperrors.NotFound("Order not found")
	}

	return r.GetByID(ctx, id)
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []*domain.Order
		ids    []string
	)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(orderDest(&o)...); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &o)
		ids = append(ids, o.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	if orders == nil {
		return []*domain.Order{}, nil
	}

	items, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
		if o.Items == nil {
			o.Items = []domain.OrderItem{}
		}
	}

	return orders, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	query := `
		SELECT order_id, product_id, name, qty, price
		FROM order_items
		WHERE order_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Qty, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}

func orderDest(o *domain.Order) []any {
	return []any{
		&o.ID,
		&o.UserID,
		&o.ShippingAddress.Address,
		&o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country,
		&o.PaymentMethod,
		&o.ItemsPrice,
		&o.TaxPrice,
		&o.ShippingPrice,
		&o.TotalPrice,
		&o.IsPaid,
		&o.PaidAt,
		&o.IsDelivered,
		&o.DeliveredAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}
