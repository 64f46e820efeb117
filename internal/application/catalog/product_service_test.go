package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func newTestProductService() (*ProductService, *MockProductRepository, *MockCategoryRepository) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	return NewProductService(productRepo, categoryRepo), productRepo, categoryRepo
}

func createRequest() CreateProductRequest {
	return CreateProductRequest{
		Code:        "KOPI-001",
		Name:        "Kopi Gayo 250g",
		Slug:        "kopi-gayo-250g",
		Price:       decimal.NewFromInt(85000),
		WeightGrams: 250,
	}
}

func TestProductService_Create(t *testing.T) {
	service, productRepo, _ := newTestProductService()

	productRepo.On("ExistsByCode", mock.Anything, "KOPI-001").Return(false, nil)
	productRepo.On("ExistsBySlug", mock.Anything, "kopi-gayo-250g").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "KOPI-001", resp.Code)
	assert.Equal(t, "kopi-gayo-250g", resp.Slug)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(85000)))
	assert.Equal(t, string(catalog.ProductStatusActive), resp.Status)

	productRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	service, productRepo, _ := newTestProductService()

	productRepo.On("ExistsByCode", mock.Anything, "KOPI-001").Return(true, nil)

	_, err := service.Create(context.Background(), createRequest())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	service, productRepo, categoryRepo := newTestProductService()

	categoryID := uuid.New()
	req := createRequest()
	req.CategoryID = &categoryID

	productRepo.On("ExistsByCode", mock.Anything, mock.Anything).Return(false, nil)
	productRepo.On("ExistsBySlug", mock.Anything, mock.Anything).Return(false, nil)
	categoryRepo.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

	_, err := service.Create(context.Background(), req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
}

func TestProductService_GetBySlug(t *testing.T) {
	service, productRepo, _ := newTestProductService()

	product, err := catalog.NewProduct("KOPI-001", "Kopi Gayo 250g", "kopi-gayo-250g",
		valueobject.NewMoneyIDRFromInt(85000), 250)
	require.NoError(t, err)

	productRepo.On("FindBySlug", mock.Anything, "kopi-gayo-250g").Return(product, nil)

	resp, err := service.GetBySlug(context.Background(), "kopi-gayo-250g")
	require.NoError(t, err)
	assert.Equal(t, product.ID, resp.ID)
}

func TestProductService_AdjustStock(t *testing.T) {
	service, productRepo, _ := newTestProductService()

	product, err := catalog.NewProduct("KOPI-001", "Kopi Gayo 250g", "kopi-gayo-250g",
		valueobject.NewMoneyIDRFromInt(85000), 250)
	require.NoError(t, err)
	require.NoError(t, product.AdjustStock(10))

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	resp, err := service.AdjustStock(context.Background(), product.ID, AdjustStockRequest{Delta: -4})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Stock)
}

func TestProductService_AdjustStock_BelowZero(t *testing.T) {
	service, productRepo, _ := newTestProductService()

	product, err := catalog.NewProduct("KOPI-001", "Kopi Gayo 250g", "kopi-gayo-250g",
		valueobject.NewMoneyIDRFromInt(85000), 250)
	require.NoError(t, err)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err = service.AdjustStock(context.Background(), product.ID, AdjustStockRequest{Delta: -1})
	require.Error(t, err)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_List(t *testing.T) {
	service, productRepo, _ := newTestProductService()

	product, err := catalog.NewProduct("KOPI-001", "Kopi Gayo 250g", "kopi-gayo-250g",
		valueobject.NewMoneyIDRFromInt(85000), 250)
	require.NoError(t, err)

	productRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "sort_order"
	})).Return([]catalog.Product{*product}, nil)
	productRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	responses, total, err := service.List(context.Background(), ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	assert.Equal(t, "KOPI-001", responses[0].Code)
}

func TestCategoryService_Delete_InUse(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, productRepo)

	categoryID := uuid.New()
	productRepo.On("CountByCategory", mock.Anything, categoryID).Return(int64(3), nil)

	err := service.Delete(context.Background(), categoryID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CATEGORY_IN_USE", domainErr.Code)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_Create(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, productRepo)

	categoryRepo.On("ExistsBySlug", mock.Anything, "minuman").Return(false, nil)
	categoryRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := service.Create(context.Background(), CreateCategoryRequest{
		Name: "Minuman",
		Slug: "minuman",
	})
	require.NoError(t, err)
	assert.Equal(t, "Minuman", resp.Name)
	assert.Equal(t, string(catalog.CategoryStatusActive), resp.Status)
}
