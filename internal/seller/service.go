package seller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	Register(ctx context.Context, userID int64, shopName, shopDescription string) (*Seller, error)
	GetByUserID(ctx context.Context, userID int64) (*Seller, error)
	UpdateProfile(ctx context.Context, userID int64, shopName, shopDescription string) (*Seller, error)
	List(ctx context.Context) ([]AdminListing, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, userID int64, shopName, shopDescription string) (*Seller, error) {
	sl := &Seller{
		UserID:          userID,
		ShopName:        shopName,
		ShopDescription: shopDescription,
	}

	if err := s.repo.Create(ctx, sl); err != nil {
		if errors.Is(err, ErrAlreadySeller) {
			return nil, ErrAlreadySeller
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("service: failed to register seller")
		return nil, fmt.Errorf("service: failed to register seller: %w", err)
	}

	log.Info().Int64("seller_id", sl.ID).Int64("user_id", userID).Msg("Seller registered")
	return sl, nil
}

func (s *service) GetByUserID(ctx context.Context, userID int64) (*Seller, error) {
	sl, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch seller: %w", err)
	}
	return sl, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, shopName, shopDescription string) (*Seller, error) {
	sl, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch seller for update: %w", err)
	}

	sl.ShopName = shopName
	sl.ShopDescription = shopDescription

	if err := s.repo.UpdateProfile(ctx, sl); err != nil {
		return nil, fmt.Errorf("service: failed to update seller profile: %w", err)
	}

	return sl, nil
}

func (s *service) List(ctx context.Context) ([]AdminListing, error) {
	sellers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list sellers: %w", err)
	}
	return sellers, nil
}

func (s *service) SetStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case "active", "inactive", "suspended":
	default:
		return fmt.Errorf("service: invalid seller status %q", status)
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("service: failed to update seller status: %w", err)
	}

	log.Info().Int64("seller_id", id).Str("status", status).Msg("Seller status updated")
	return nil
}
