package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/catalog"
)

type mockCatalogRepository struct {
	listActiveFunc           func(ctx context.Context) ([]catalog.Listing, error)
	getListingFunc           func(ctx context.Context, id int64) (*catalog.Listing, error)
	listBySellerFunc         func(ctx context.Context, sellerID int64) ([]catalog.Listing, error)
	createProductFunc        func(ctx context.Context, p *catalog.Product) error
	updateProductFunc        func(ctx context.Context, p *catalog.Product) error
	setProductStatusFunc     func(ctx context.Context, id int64, status string) error
	adminListProductsFunc    func(ctx context.Context) ([]catalog.Listing, error)
	listCategoriesFunc       func(ctx context.Context) ([]catalog.Category, error)
	categoryPathFunc         func(ctx context.Context, id int64) ([]catalog.PathEntry, error)
	categoryExistsByNameFunc func(ctx context.Context, name string) (bool, error)
	createCategoryFunc       func(ctx context.Context, c *catalog.Category) error
}

func (m *mockCatalogRepository) ListActive(ctx context.Context) ([]catalog.Listing, error) {
	return m.listActiveFunc(ctx)
}

func (m *mockCatalogRepository) GetListing(ctx context.Context, id int64) (*catalog.Listing, error) {
	return m.getListingFunc(ctx, id)
}

func (m *mockCatalogRepository) ListBySeller(ctx context.Context, sellerID int64) ([]catalog.Listing, error) {
	return m.listBySellerFunc(ctx, sellerID)
}

func (m *mockCatalogRepository) CreateProduct(ctx context.Context, p *catalog.Product) error {
	return m.createProductFunc(ctx, p)
}

func (m *mockCatalogRepository) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	return m.updateProductFunc(ctx, p)
}

func (m *mockCatalogRepository) SetProductStatus(ctx context.Context, id int64, status string) error {
	return m.setProductStatusFunc(ctx, id, status)
}

func (m *mockCatalogRepository) AdminListProducts(ctx context.Context) ([]catalog.Listing, error) {
	return m.adminListProductsFunc(ctx)
}

func (m *mockCatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return m.listCategoriesFunc(ctx)
}

func (m *mockCatalogRepository) CategoryPath(ctx context.Context, id int64) ([]catalog.PathEntry, error) {
	return m.categoryPathFunc(ctx, id)
}

func (m *mockCatalogRepository) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	return m.categoryExistsByNameFunc(ctx, name)
}

func (m *mockCatalogRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	return m.createCategoryFunc(ctx, c)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	t.Run("rejects_negative_price", func(t *testing.T) {
		svc := catalog.NewService(&mockCatalogRepository{})

		err := svc.CreateProduct(context.Background(), &catalog.Product{SellerID: 3, Name: "Tas", Price: -1})
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
	})

	t.Run("rejects_negative_stock", func(t *testing.T) {
		svc := catalog.NewService(&mockCatalogRepository{})

		err := svc.CreateProduct(context.Background(), &catalog.Product{SellerID: 3, Name: "Tas", Price: 50000, Stock: -5})
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
	})

	t.Run("delegates_to_repository", func(t *testing.T) {
		repo := &mockCatalogRepository{
			createProductFunc: func(_ context.Context, p *catalog.Product) error {
				p.ID = 10
				return nil
			},
		}
		svc := catalog.NewService(repo)

		p := &catalog.Product{SellerID: 3, Name: "Tas Kulit", Price: 250000, Stock: 4, Status: catalog.ProductActive}
		require.NoError(t, svc.CreateProduct(context.Background(), p))
		assert.Equal(t, int64(10), p.ID)
	})
}

func TestCatalogService_UpdateProduct_OwnershipMiss(t *testing.T) {
	// The repository scopes updates by seller_id; another seller's product
	// surfaces as not found.
	repo := &mockCatalogRepository{
		updateProductFunc: func(_ context.Context, _ *catalog.Product) error {
			return catalog.ErrProductNotFound
		},
	}
	svc := catalog.NewService(repo)

	err := svc.UpdateProduct(context.Background(), &catalog.Product{ID: 1, SellerID: 99, Name: "Tas", Price: 1000})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCatalogService_SetProductStatus(t *testing.T) {
	repo := &mockCatalogRepository{
		setProductStatusFunc: func(_ context.Context, _ int64, _ string) error { return nil },
	}
	svc := catalog.NewService(repo)

	assert.NoError(t, svc.SetProductStatus(context.Background(), 1, catalog.ProductInactive))
	assert.ErrorIs(t, svc.SetProductStatus(context.Background(), 1, "archived"), catalog.ErrInvalidInput)
}

func TestCatalogService_CategoryPath(t *testing.T) {
	repo := &mockCatalogRepository{
		categoryPathFunc: func(_ context.Context, id int64) ([]catalog.PathEntry, error) {
			assert.Equal(t, int64(5), id)
			return []catalog.PathEntry{
				{ID: 1, Name: "Fashion"},
				{ID: 3, Name: "Pria"},
				{ID: 5, Name: "Kemeja"},
			}, nil
		},
	}
	svc := catalog.NewService(repo)

	path, err := svc.CategoryPath(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, "Fashion", path[0].Name, "path runs root first")
	assert.Equal(t, "Kemeja", path[2].Name)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	t.Run("rejects_blank_name", func(t *testing.T) {
		svc := catalog.NewService(&mockCatalogRepository{})

		_, err := svc.CreateCategory(context.Background(), "   ", nil)
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		repo := &mockCatalogRepository{
			categoryExistsByNameFunc: func(_ context.Context, name string) (bool, error) {
				assert.Equal(t, "Fashion", name)
				return true, nil
			},
		}
		svc := catalog.NewService(repo)

		_, err := svc.CreateCategory(context.Background(), "Fashion", nil)
		assert.ErrorIs(t, err, catalog.ErrCategoryExists)
	})

	t.Run("trims_and_creates", func(t *testing.T) {
		parentID := int64(1)
		repo := &mockCatalogRepository{
			categoryExistsByNameFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
			createCategoryFunc: func(_ context.Context, c *catalog.Category) error {
				c.ID = 9
				return nil
			},
		}
		svc := catalog.NewService(repo)

		c, err := svc.CreateCategory(context.Background(), "  Sepatu ", &parentID)
		require.NoError(t, err)
		assert.Equal(t, int64(9), c.ID)
		assert.Equal(t, "Sepatu", c.Name)
		require.NotNil(t, c.ParentID)
		assert.Equal(t, int64(1), *c.ParentID)
	})
}
