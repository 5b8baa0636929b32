package seller_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/seller"
)

type mockSellerRepository struct {
	createFunc        func(ctx context.Context, s *seller.Seller) error
	getByUserIDFunc   func(ctx context.Context, userID int64) (*seller.Seller, error)
	updateProfileFunc func(ctx context.Context, s *seller.Seller) error
	listFunc          func(ctx context.Context) ([]seller.AdminListing, error)
	setStatusFunc     func(ctx context.Context, id int64, status string) error
}

func (m *mockSellerRepository) Create(ctx context.Context, s *seller.Seller) error {
	return m.createFunc(ctx, s)
}

func (m *mockSellerRepository) GetByUserID(ctx context.Context, userID int64) (*seller.Seller, error) {
	return m.getByUserIDFunc(ctx, userID)
}

func (m *mockSellerRepository) UpdateProfile(ctx context.Context, s *seller.Seller) error {
	return m.updateProfileFunc(ctx, s)
}

func (m *mockSellerRepository) List(ctx context.Context) ([]seller.AdminListing, error) {
	return m.listFunc(ctx)
}

func (m *mockSellerRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return m.setStatusFunc(ctx, id, status)
}

func TestSellerService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mockSellerRepository{
			createFunc: func(_ context.Context, s *seller.Seller) error {
				s.ID = 3
				return nil
			},
		}
		svc := seller.NewService(repo)

		s, err := svc.Register(context.Background(), 7, "Toko Budi", "Batik dan kemeja")
		require.NoError(t, err)
		assert.Equal(t, int64(3), s.ID)
		assert.Equal(t, int64(7), s.UserID)
		assert.Equal(t, "Toko Budi", s.ShopName)
	})

	t.Run("one_shop_per_user", func(t *testing.T) {
		repo := &mockSellerRepository{
			createFunc: func(_ context.Context, _ *seller.Seller) error {
				return seller.ErrAlreadySeller
			},
		}
		svc := seller.NewService(repo)

		_, err := svc.Register(context.Background(), 7, "Toko Budi Kedua", "")
		assert.ErrorIs(t, err, seller.ErrAlreadySeller)
	})
}

func TestSellerService_UpdateProfile(t *testing.T) {
	t.Run("not_a_seller", func(t *testing.T) {
		repo := &mockSellerRepository{
			getByUserIDFunc: func(_ context.Context, _ int64) (*seller.Seller, error) {
				return nil, seller.ErrNotFound
			},
		}
		svc := seller.NewService(repo)

		_, err := svc.UpdateProfile(context.Background(), 7, "Toko Budi", "")
		assert.ErrorIs(t, err, seller.ErrNotFound)
	})

	t.Run("updates_fields", func(t *testing.T) {
		repo := &mockSellerRepository{
			getByUserIDFunc: func(_ context.Context, userID int64) (*seller.Seller, error) {
				return &seller.Seller{ID: 3, UserID: userID, ShopName: "Toko Budi"}, nil
			},
			updateProfileFunc: func(_ context.Context, s *seller.Seller) error {
				assert.Equal(t, "Toko Budi Baru", s.ShopName)
				assert.Equal(t, "Sekarang jual sepatu", s.ShopDescription)
				return nil
			},
		}
		svc := seller.NewService(repo)

		s, err := svc.UpdateProfile(context.Background(), 7, "Toko Budi Baru", "Sekarang jual sepatu")
		require.NoError(t, err)
		assert.Equal(t, int64(3), s.ID)
	})
}

func TestSellerService_SetStatus(t *testing.T) {
	repo := &mockSellerRepository{
		setStatusFunc: func(_ context.Context, _ int64, _ string) error { return nil },
	}
	svc := seller.NewService(repo)

	assert.NoError(t, svc.SetStatus(context.Background(), 3, "inactive"))
	assert.Error(t, svc.SetStatus(context.Background(), 3, "closed"))
}
