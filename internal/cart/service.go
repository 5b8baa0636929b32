package cart

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Service interface {
	List(ctx context.Context, userID int64) ([]Item, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error
	Delete(ctx context.Context, id, userID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID int64) ([]Item, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list cart: %w", err)
	}
	return items, nil
}

func (s *service) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.repo.Add(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("service: failed to add to cart: %w", err)
	}

	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.repo.UpdateQuantity(ctx, id, userID, quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("service: failed to update cart quantity: %w", err)
	}

	return nil
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("service: failed to delete cart item: %w", err)
	}

	return nil
}
