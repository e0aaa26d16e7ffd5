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

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Add inserts a review and recomputes the product's rating and num_reviews
// inside one transaction. The product row is locked first so concurrent
// appends serialize, and the (product_id, user_id) unique constraint makes
// exactly one of two duplicate submissions win.
func (r *ReviewRepository) Add(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var productID string
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, review.ProductID).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("Product not found")
		}
		return fmt.Errorf("lock product row: %w", err)
	}

	insert := `
		INSERT INTO product_reviews (id, product_id, user_id, name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, user_id) DO NOTHING`

	ct, err := tx.Exec(ctx, insert,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Name,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	// The original API reports a duplicate review as a 400, not a 409.
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidInput("Product already reviewed")
	}

	recompute := `
		UPDATE products p
		SET num_reviews = agg.cnt,
		    rating = agg.avg_rating,
		    updated_at = now()
		FROM (
			SELECT count(*) AS cnt, COALESCE(avg(rating), 0) AS avg_rating
			FROM product_reviews
			WHERE product_id = $1
		) agg
		WHERE p.id = $1`

	if _, err := tx.Exec(ctx, recompute, review.ProductID); err != nil {
		return fmt.Errorf("recompute product rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review transaction: %w", err)
	}

	return nil
}

// ListByProductID returns all reviews for a product, newest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string) ([]*domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, name, rating, comment, created_at
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Name,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}

	return reviews, nil
}
