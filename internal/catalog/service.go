package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrInvalidInput = errors.New("invalid product or category input")

type Service interface {
	ListActive(ctx context.Context) ([]Listing, error)
	GetListing(ctx context.Context, id int64) (*Listing, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]Listing, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	SetProductStatus(ctx context.Context, id int64, status string) error
	AdminListProducts(ctx context.Context) ([]Listing, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CategoryPath(ctx context.Context, id int64) ([]PathEntry, error)
	CreateCategory(ctx context.Context, name string, parentID *int64) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListActive(ctx context.Context) ([]Listing, error) {
	listings, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return listings, nil
}

func (s *service) GetListing(ctx context.Context, id int64) (*Listing, error) {
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}
	return l, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID int64) ([]Listing, error) {
	listings, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list seller products: %w", err)
	}
	return listings, nil
}

func (s *service) CreateProduct(ctx context.Context, p *Product) error {
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		log.Error().Err(err).Int64("seller_id", p.SellerID).Msg("service: failed to create product")
		return fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Int64("product_id", p.ID).Int64("seller_id", p.SellerID).Msg("Product created")
	return nil
}

func (s *service) UpdateProduct(ctx context.Context, p *Product) error {
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("service: failed to update product: %w", err)
	}

	return nil
}

func (s *service) SetProductStatus(ctx context.Context, id int64, status string) error {
	if status != ProductActive && status != ProductInactive {
		return fmt.Errorf("%w: unknown product status %q", ErrInvalidInput, status)
	}

	if err := s.repo.SetProductStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("service: failed to update product status: %w", err)
	}

	return nil
}

func (s *service) AdminListProducts(ctx context.Context) ([]Listing, error) {
	listings, err := s.repo.AdminListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return listings, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *service) CategoryPath(ctx context.Context, id int64) ([]PathEntry, error) {
	path, err := s.repo.CategoryPath(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch category path: %w", err)
	}
	return path, nil
}

func (s *service) CreateCategory(ctx context.Context, name string, parentID *int64) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	exists, err := s.repo.CategoryExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: failed to check category name: %w", err)
	}
	if exists {
		return nil, ErrCategoryExists
	}

	c := &Category{Name: name, ParentID: parentID}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("service: failed to create category: %w", err)
	}

	return c, nil
}
