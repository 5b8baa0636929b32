package seller

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("seller not found")
	ErrAlreadySeller = errors.New("user is already a seller")
)

type Repository interface {
	Create(ctx context.Context, s *Seller) error
	GetByUserID(ctx context.Context, userID int64) (*Seller, error)
	UpdateProfile(ctx context.Context, s *Seller) error
	List(ctx context.Context) ([]AdminListing, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, s *Seller) error {
	query := `
		INSERT INTO sellers (user_id, shop_name, shop_description)
		VALUES ($1, $2, $3)
		RETURNING id, rating, status, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, s.UserID, s.ShopName, s.ShopDescription).
		Scan(&s.ID, &s.Rating, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadySeller
		}
		return fmt.Errorf("repository: failed to insert seller: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID int64) (*Seller, error) {
	query := `
		SELECT id, user_id, shop_name, shop_description, rating, status, created_at, updated_at
		FROM sellers
		WHERE user_id = $1
	`

	var s Seller
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&s.ID, &s.UserID, &s.ShopName, &s.ShopDescription, &s.Rating, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select seller by user id %d: %w", userID, err)
	}

	return &s, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, s *Seller) error {
	query := `
		UPDATE sellers
		SET shop_name = $1, shop_description = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, s.ShopName, s.ShopDescription, s.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update seller profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]AdminListing, error) {
	query := `
		SELECT s.id, s.shop_name, s.rating, s.status, u.name AS owner_name, u.email
		FROM sellers s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query sellers: %w", err)
	}
	defer rows.Close()

	sellers := make([]AdminListing, 0)
	for rows.Next() {
		var l AdminListing
		if err := rows.Scan(&l.ID, &l.ShopName, &l.Rating, &l.Status, &l.OwnerName, &l.Email); err != nil {
			return nil, fmt.Errorf("repository: failed to scan seller: %w", err)
		}
		sellers = append(sellers, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating sellers: %w", err)
	}

	return sellers, nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE sellers SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update seller status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
