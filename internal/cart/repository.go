package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context, userID int64) ([]Item, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error
	Delete(ctx context.Context, id, userID int64) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, userID int64) ([]Item, error) {
	query := `
		SELECT
			c.id AS cart_id,
			p.id AS product_id,
			p.name AS product_name,
			p.price,
			c.quantity,
			(p.price * c.quantity) AS subtotal
		FROM carts c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.CartID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart items: %w", err)
	}

	return items, nil
}

// Add upserts the (user, product) row. The accumulated quantity is clamped to
// the product's current stock so a cart can never ask for more than exists.
func (r *postgresRepository) Add(ctx context.Context, userID, productID int64, quantity int) error {
	var stock int
	err := r.db.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 AND status = 'active'`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("repository: failed to read product stock: %w", err)
	}

	query := `
		INSERT INTO carts (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE
		SET quantity = LEAST(carts.quantity + EXCLUDED.quantity, $4),
		    updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, userID, productID, quantity, stock); err != nil {
		return fmt.Errorf("repository: failed to upsert cart row: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error {
	query := `UPDATE carts SET quantity = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`

	tag, err := r.db.Exec(ctx, query, quantity, id, userID)
	if err != nil {
		return fmt.Errorf("repository: failed to update cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}
