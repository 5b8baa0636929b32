package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/belanjaaja/backend/internal/db"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrAddressNotFound   = errors.New("address not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Repository interface {
	// Checkout runs the whole checkout workflow in one transaction and
	// returns the created order id and totals.
	Checkout(ctx context.Context, userID int64, in CheckoutInput, shippingCost int64) (*CheckoutResult, error)
	// Cancel restocks the order's items and marks order, payment and
	// shipping cancelled, all in one transaction.
	Cancel(ctx context.Context, orderID, userID int64) error
	// EnsurePayment guarantees a pending payment row exists for the order
	// and returns the order total.
	EnsurePayment(ctx context.Context, orderID, userID int64, method string) (int64, error)
	// SettlePayment applies a gateway settlement. It reports whether any
	// state changed, so replays are visible as no-ops.
	SettlePayment(ctx context.Context, orderID int64, transactionID string) (bool, error)
	// UpdateFulfillment moves an order through the seller-side states.
	UpdateFulfillment(ctx context.Context, orderID, sellerID int64, next Status, trackingNumber string) error

	ListByUser(ctx context.Context, userID int64) ([]Summary, error)
	GetByUser(ctx context.Context, orderID, userID int64) (*Summary, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]SellerOrder, error)
	AdminList(ctx context.Context, statusFilter, paymentFilter string) ([]AdminOrder, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

func (r *postgresRepository) Checkout(ctx context.Context, userID int64, in CheckoutInput, shippingCost int64) (*CheckoutResult, error) {
	var result CheckoutResult

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the product row for the duration of the workflow so two
		// concurrent checkouts cannot both pass the stock check.
		var price int64
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT price, stock FROM products WHERE id = $1 AND status = 'active' FOR UPDATE`,
			in.ProductID,
		).Scan(&price, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrProductNotFound
			}
			return fmt.Errorf("repository: failed to lock product %d: %w", in.ProductID, err)
		}

		if stock < in.Quantity {
			return ErrInsufficientStock
		}

		subtotal := price * int64(in.Quantity)
		total := subtotal + shippingCost

		addressID := in.AddressID
		if addressID == 0 {
			err := tx.QueryRow(ctx, `
				INSERT INTO user_addresses (user_id, recipient_name, phone, address, city, postal_code)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, userID, in.Address.RecipientName, in.Address.Phone, in.Address.Address, in.Address.City, in.Address.PostalCode).Scan(&addressID)
			if err != nil {
				return fmt.Errorf("repository: failed to insert address: %w", err)
			}
		}

		// Value-copy the durable address into an immutable order-time
		// snapshot. Editing the address book later never rewrites where
		// this order was sent.
		var snapshotID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO shipping_addresses (user_id, recipient_name, phone, address, city, postal_code)
			SELECT user_id, recipient_name, phone, address, city, postal_code
			FROM user_addresses
			WHERE id = $1 AND user_id = $2
			RETURNING id
		`, addressID, userID).Scan(&snapshotID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("repository: failed to snapshot address %d: %w", addressID, err)
		}

		var orderID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (user_id, shipping_id, total, status)
			VALUES ($1, $2, $3, 'pending')
			RETURNING id
		`, userID, snapshotID, total).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
		`, orderID, in.ProductID, in.Quantity, price)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payment (order_id, method, amount, status)
			VALUES ($1, $2, $3, 'pending')
		`, orderID, in.PaymentMethod, total)
		if err != nil {
			return fmt.Errorf("repository: failed to insert payment: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO shipping (order_id, courier_name, status)
			VALUES ($1, $2, 'pending')
		`, orderID, in.Courier)
		if err != nil {
			return fmt.Errorf("repository: failed to insert shipping: %w", err)
		}

		// Conditional decrement with an affected-row check. The FOR UPDATE
		// above already serializes checkouts for this product; the guard
		// keeps the non-negative stock invariant even if it did not.
		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, in.Quantity, in.ProductID)
		if err != nil {
			return fmt.Errorf("repository: failed to decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientStock
		}

		_, err = tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1 AND product_id = $2`, userID, in.ProductID)
		if err != nil {
			return fmt.Errorf("repository: failed to clear cart entry: %w", err)
		}

		result = CheckoutResult{
			OrderID:      orderID,
			Subtotal:     subtotal,
			ShippingCost: shippingCost,
			Total:        total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postgresRepository) Cancel(ctx context.Context, orderID, userID int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var orderStatus Status
		var paymentStatus PaymentStatus
		err := tx.QueryRow(ctx, `
			SELECT o.status, p.status
			FROM orders o
			JOIN payment p ON p.order_id = o.id
			WHERE o.id = $1 AND o.user_id = $2
			FOR UPDATE OF o
		`, orderID, userID).Scan(&orderStatus, &paymentStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("repository: failed to lock order %d: %w", orderID, err)
		}

		if orderStatus != StatusPending || paymentStatus != PaymentPending {
			return ErrNotCancellable
		}

		// Return every line item's quantity to stock.
		_, err = tx.Exec(ctx, `
			UPDATE products p
			SET stock = p.stock + oi.quantity, updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = $1 AND p.id = oi.product_id
		`, orderID)
		if err != nil {
			return fmt.Errorf("repository: failed to restock items: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status = 'cancelled', updated_at = NOW() WHERE id = $1`, orderID); err != nil {
			return fmt.Errorf("repository: failed to cancel order: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE payment SET status = 'cancelled' WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("repository: failed to cancel payment: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE shipping SET status = 'cancelled' WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("repository: failed to cancel shipping: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) EnsurePayment(ctx context.Context, orderID, userID int64, method string) (int64, error) {
	var total int64

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT total FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID).Scan(&total)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("repository: failed to select order %d: %w", orderID, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payment (order_id, method, amount, status)
			VALUES ($1, $2, $3, 'pending')
			ON CONFLICT (order_id) DO NOTHING
		`, orderID, method, total)
		if err != nil {
			return fmt.Errorf("repository: failed to ensure payment row: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *postgresRepository) SettlePayment(ctx context.Context, orderID int64, transactionID string) (bool, error) {
	var applied bool

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// Both updates are keyed on the pending state, so replaying a
		// settlement notification changes nothing.
		tag, err := tx.Exec(ctx, `
			UPDATE payment
			SET status = 'paid', transaction_id = $1, paid_at = NOW()
			WHERE order_id = $2 AND status = 'pending'
		`, transactionID, orderID)
		if err != nil {
			return fmt.Errorf("repository: failed to settle payment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if _, err := tx.Exec(ctx, `
			UPDATE orders SET status = 'processing', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
		`, orderID); err != nil {
			return fmt.Errorf("repository: failed to move order to processing: %w", err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

func (r *postgresRepository) UpdateFulfillment(ctx context.Context, orderID, sellerID int64, next Status, trackingNumber string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// The order must contain at least one of the seller's products;
		// otherwise it is invisible to this seller.
		var current Status
		err := tx.QueryRow(ctx, `
			SELECT o.status
			FROM orders o
			WHERE o.id = $1
			  AND EXISTS (
				SELECT 1
				FROM order_items oi
				JOIN products p ON p.id = oi.product_id
				WHERE oi.order_id = o.id AND p.seller_id = $2
			  )
			FOR UPDATE OF o
		`, orderID, sellerID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("repository: failed to lock order %d: %w", orderID, err)
		}

		if !current.CanTransitionTo(next) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidTransition, current, next)
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, next, orderID); err != nil {
			return fmt.Errorf("repository: failed to update order status: %w", err)
		}

		if next == StatusShipped {
			if _, err := tx.Exec(ctx, `
				UPDATE shipping
				SET tracking_number = $1, status = 'shipped', shipped_at = NOW()
				WHERE order_id = $2
			`, trackingNumber, orderID); err != nil {
				return fmt.Errorf("repository: failed to update shipping record: %w", err)
			}
		}

		return nil
	})
}

const summaryColumns = `
	o.id, o.total, o.status, o.created_at,
	sa.recipient_name, sa.phone, sa.address, sa.city, sa.postal_code,
	COALESCE(p.method, ''), COALESCE(p.status, 'pending'),
	COALESCE(s.courier_name, ''), COALESCE(s.status, 'pending'), s.tracking_number
`

func scanSummary(row pgx.Row, sum *Summary) error {
	return row.Scan(
		&sum.OrderID, &sum.Total, &sum.Status, &sum.CreatedAt,
		&sum.Address.RecipientName, &sum.Address.Phone, &sum.Address.Address,
		&sum.Address.City, &sum.Address.PostalCode,
		&sum.PaymentMethod, &sum.PaymentStatus,
		&sum.CourierName, &sum.ShippingStatus, &sum.TrackingNumber,
	)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID int64) ([]Summary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM orders o
		JOIN shipping_addresses sa ON o.shipping_id = sa.id
		LEFT JOIN payment p ON p.order_id = o.id
		LEFT JOIN shipping s ON s.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user %d: %w", userID, err)
	}
	defer rows.Close()

	summariesByID := make(map[int64]*Summary)
	var orderIDs []int64

	for rows.Next() {
		var sum Summary
		if err := scanSummary(rows, &sum); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		sum.Items = make([]Item, 0)
		summariesByID[sum.OrderID] = &sum
		orderIDs = append(orderIDs, sum.OrderID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Summary{}, nil
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, pr.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products pr ON pr.id = oi.product_id
		WHERE oi.order_id = ANY($1)
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it Item
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if sum, ok := summariesByID[it.OrderID]; ok {
			sum.Items = append(sum.Items, it)
		}
	}

	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	summaries := make([]Summary, 0, len(orderIDs))
	for _, id := range orderIDs {
		summaries = append(summaries, *summariesByID[id])
	}

	return summaries, nil
}

func (r *postgresRepository) GetByUser(ctx context.Context, orderID, userID int64) (*Summary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM orders o
		JOIN shipping_addresses sa ON o.shipping_id = sa.id
		LEFT JOIN payment p ON p.order_id = o.id
		LEFT JOIN shipping s ON s.order_id = o.id
		WHERE o.user_id = $1 AND o.id = $2
	`

	var sum Summary
	if err := scanSummary(r.db.QueryRow(ctx, query, userID, orderID), &sum); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %d: %w", orderID, err)
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, pr.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products pr ON pr.id = oi.product_id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer itemRows.Close()

	sum.Items = make([]Item, 0)
	for itemRows.Next() {
		var it Item
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		sum.Items = append(sum.Items, it)
	}

	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return &sum, nil
}

func (r *postgresRepository) ListBySeller(ctx context.Context, sellerID int64) ([]SellerOrder, error) {
	query := `
		SELECT
			o.id,
			o.total,
			o.status,
			o.created_at,
			u.name AS buyer_name,
			COALESCE(s.courier_name, ''),
			s.tracking_number,
			COUNT(oi.id)::int AS total_items
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		LEFT JOIN shipping s ON s.order_id = o.id
		WHERE p.seller_id = $1
		  AND o.status IN ('processing', 'packed', 'shipped')
		GROUP BY o.id, u.name, s.courier_name, s.tracking_number
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query seller orders: %w", err)
	}
	defer rows.Close()

	orders := make([]SellerOrder, 0)
	for rows.Next() {
		var so SellerOrder
		if err := rows.Scan(&so.OrderID, &so.Total, &so.Status, &so.CreatedAt, &so.BuyerName, &so.CourierName, &so.TrackingNumber, &so.TotalItems); err != nil {
			return nil, fmt.Errorf("repository: failed to scan seller order: %w", err)
		}
		orders = append(orders, so)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating seller orders: %w", err)
	}

	return orders, nil
}

func (r *postgresRepository) AdminList(ctx context.Context, statusFilter, paymentFilter string) ([]AdminOrder, error) {
	query := `
		SELECT
			o.id,
			u.name AS buyer,
			COALESCE(s.shop_name, ''),
			o.total,
			o.status,
			COALESCE(p.status, 'pending'),
			o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products pr ON pr.id = oi.product_id
		LEFT JOIN sellers s ON s.id = pr.seller_id
		LEFT JOIN payment p ON p.order_id = o.id
		WHERE 1=1
	`

	args := make([]any, 0, 2)
	if statusFilter != "" {
		args = append(args, statusFilter)
		query += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	if paymentFilter != "" {
		args = append(args, paymentFilter)
		query += fmt.Sprintf(" AND COALESCE(p.status, 'pending') = $%d", len(args))
	}

	query += `
		GROUP BY o.id, u.name, s.shop_name, o.total, o.status, p.status, o.created_at
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query admin orders: %w", err)
	}
	defer rows.Close()

	orders := make([]AdminOrder, 0)
	for rows.Next() {
		var ao AdminOrder
		if err := rows.Scan(&ao.OrderID, &ao.Buyer, &ao.ShopName, &ao.Total, &ao.Status, &ao.PaymentStatus, &ao.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan admin order: %w", err)
		}
		orders = append(orders, ao)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating admin orders: %w", err)
	}

	return orders, nil
}
