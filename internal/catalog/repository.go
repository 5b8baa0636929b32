package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type Repository interface {
	ListActive(ctx context.Context) ([]Listing, error)
	GetListing(ctx context.Context, id int64) (*Listing, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]Listing, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	SetProductStatus(ctx context.Context, id int64, status string) error
	AdminListProducts(ctx context.Context) ([]Listing, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CategoryPath(ctx context.Context, id int64) ([]PathEntry, error)
	CategoryExistsByName(ctx context.Context, name string) (bool, error)
	CreateCategory(ctx context.Context, c *Category) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const listingColumns = `
	p.id, p.seller_id, p.category_id, p.name, p.description, p.price, p.stock,
	p.status, p.created_at, p.updated_at, s.shop_name, COALESCE(c.name, '')
`

func (r *postgresRepository) scanListings(rows pgx.Rows) ([]Listing, error) {
	defer rows.Close()

	listings := make([]Listing, 0)
	for rows.Next() {
		var l Listing
		err := rows.Scan(
			&l.ID, &l.SellerID, &l.CategoryID, &l.Name, &l.Description, &l.Price,
			&l.Stock, &l.Status, &l.CreatedAt, &l.UpdatedAt, &l.ShopName, &l.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return listings, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.status = 'active'
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}

	return r.scanListings(rows)
}

func (r *postgresRepository) GetListing(ctx context.Context, id int64) (*Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	var l Listing
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.SellerID, &l.CategoryID, &l.Name, &l.Description, &l.Price,
		&l.Stock, &l.Status, &l.CreatedAt, &l.UpdatedAt, &l.ShopName, &l.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product %d: %w", id, err)
	}

	return &l, nil
}

func (r *postgresRepository) ListBySeller(ctx context.Context, sellerID int64) ([]Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.seller_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query seller products: %w", err)
	}

	return r.scanListings(rows)
}

func (r *postgresRepository) AdminListProducts(ctx context.Context) ([]Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}

	return r.scanListings(rows)
}

func (r *postgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (seller_id, category_id, name, description, price, stock, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, p.SellerID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price = $4, stock = $5, updated_at = NOW()
		WHERE id = $6 AND seller_id = $7
	`

	tag, err := r.db.Exec(ctx, query, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ID, p.SellerID)
	if err != nil {
		return fmt.Errorf("repository: failed to update product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) SetProductStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update product status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT c.id, c.name, c.parent_id, COALESCE(p.name, '') AS parent_name
		FROM categories c
		LEFT JOIN categories p ON p.id = c.parent_id
		ORDER BY c.name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.ParentName); err != nil {
			return nil, fmt.Errorf("repository: failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating categories: %w", err)
	}

	return categories, nil
}

// CategoryPath walks parent_id links from the category up to its root and
// returns the chain root-first, ready for breadcrumbs.
func (r *postgresRepository) CategoryPath(ctx context.Context, id int64) ([]PathEntry, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, name, parent_id, 0 AS depth
			FROM categories
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.name, c.parent_id, a.depth + 1
			FROM categories c
			JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT id, name FROM ancestors ORDER BY depth DESC
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query category path: %w", err)
	}
	defer rows.Close()

	path := make([]PathEntry, 0)
	for rows.Next() {
		var e PathEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("repository: failed to scan category path entry: %w", err)
		}
		path = append(path, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating category path: %w", err)
	}

	if len(path) == 0 {
		return nil, ErrCategoryNotFound
	}

	return path, nil
}

func (r *postgresRepository) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository: failed to check category name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CreateCategory(ctx context.Context, c *Category) error {
	err := r.db.QueryRow(ctx, `INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`, c.Name, c.ParentID).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to insert category: %w", err)
	}
	return nil
}
