package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAddresses   = errors.New("address limit reached")
)

// MaxAddresses is the address-book cap per user.
const MaxAddresses = 2

type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetStatus(ctx context.Context, id int64, status string) error

	ListAddresses(ctx context.Context, userID int64) ([]Address, error)
	CreateAddress(ctx context.Context, a *Address) error
	UpdateAddress(ctx context.Context, a *Address) error
	DeleteAddress(ctx context.Context, id, userID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     RoleUser,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create user")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Msg("User registered")
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service: failed to fetch user for login: %w", err)
	}

	if !auth.VerifyPassword(password, u.Password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch user: %w", err)
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}
	return users, nil
}

func (s *service) SetStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended:
	default:
		return fmt.Errorf("service: invalid user status %q", status)
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("service: failed to update user status: %w", err)
	}

	log.Info().Int64("user_id", id).Str("status", status).Msg("User status updated")
	return nil
}

func (s *service) ListAddresses(ctx context.Context, userID int64) ([]Address, error) {
	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}
	return addresses, nil
}

func (s *service) CreateAddress(ctx context.Context, a *Address) error {
	count, err := s.repo.CountAddresses(ctx, a.UserID)
	if err != nil {
		return fmt.Errorf("service: failed to count addresses: %w", err)
	}
	if count >= MaxAddresses {
		return ErrTooManyAddresses
	}

	if err := s.repo.CreateAddress(ctx, a); err != nil {
		return fmt.Errorf("service: failed to create address: %w", err)
	}

	return nil
}

func (s *service) UpdateAddress(ctx context.Context, a *Address) error {
	if err := s.repo.UpdateAddress(ctx, a); err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("service: failed to update address: %w", err)
	}
	return nil
}

func (s *service) DeleteAddress(ctx context.Context, id, userID int64) error {
	if err := s.repo.DeleteAddress(ctx, id, userID); err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("service: failed to delete address: %w", err)
	}
	return nil
}
