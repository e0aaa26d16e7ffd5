package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/repository"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/database"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

const productColumns = `id, name, brand, description, price, category_id, quantity, count_in_stock, rating, num_reviews, created_at, updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, brand, description, price, category_id, quantity, count_in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Brand,
		p.Description,
		p.Price,
		p.CategoryID,
		p.Quantity,
		p.CountInStock,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("Invalid category")
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	return r.scanProduct(ctx, query, id)
}

// Search returns one page of products whose name matches the keyword along
// with the total match count.
func (r *ProductRepository) Search(ctx context.Context, keyword string, page, perPage int) ([]*domain.Product, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 6
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	// count(*) OVER() yields the total match count in the same query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		WHERE name ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, productColumns)

	rows, err := r.pool.Query(ctx, query, "%"+keyword+"%", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	return scanProductRows(rows, true)
}

// ListWithCategory returns the newest products with category names joined in.
func (r *ProductRepository) ListWithCategory(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.brand, p.description, p.price, p.category_id, p.quantity,
		       p.count_in_stock, p.rating, p.num_reviews, p.created_at, p.updated_at,
		       c.name AS category_name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list products with category: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Brand,
			&p.Description,
			&p.Price,
			&p.CategoryID,
			&p.Quantity,
			&p.CountInStock,
			&p.Rating,
			&p.NumReviews,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []*domain.Product{}
	}

	return products, nil
}

// ListTop returns the highest-rated products.
func (r *ProductRepository) ListTop(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		ORDER BY rating DESC
		LIMIT $1`, productColumns)

	return r.listProducts(ctx, query, limit)
}

// ListNew returns the newest products.
func (r *ProductRepository) ListNew(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		ORDER BY created_at DESC
		LIMIT $1`, productColumns)

	return r.listProducts(ctx, query, limit)
}

// ListFiltered returns products matching the category and price filter.
func (r *ProductRepository) ListFiltered(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if len(filter.CategoryIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("category_id = ANY($%d)", argIndex))
		args = append(args, filter.CategoryIDs)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products
		%s
		ORDER BY created_at DESC`, productColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list filtered products: %w", err)
	}
	defer rows.Close()

	products, _, err := scanProductRows(rows, false)
	return products, err
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, brand = $2, description = $3, price = $4, category_id = $5,
		    quantity = $6, count_in_stock = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Brand,
		p.Description,
		p.Price,
		p.CategoryID,
		p.Quantity,
		p.CountInStock,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("Invalid category")
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Product not found")
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Product not found")
	}

	return nil
}

func (r *ProductRepository) listProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, _, err := scanProductRows(rows, false)
	return products, err
}

// scanProduct is a helper that executes a query expected to return a single product row.
func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.Quantity,
		&p.CountInStock,
		&p.Rating,
		&p.NumReviews,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

func scanProductRows(rows pgx.Rows, withCount bool) ([]*domain.Product, int, error) {
	var (
		products   []*domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product

		dest := []any{
			&p.ID,
			&p.Name,
			&p.Brand,
			&p.Description,
			&p.Price,
			&p.CategoryID,
			&p.Quantity,
			&p.CountInStock,
			&p.Rating,
			&p.NumReviews,
			&p.CreatedAt,
			&p.UpdatedAt,
		}
		if withCount {
			dest = append(dest, &totalCount)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []*domain.Product{}
	}

	return products, totalCount, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}
