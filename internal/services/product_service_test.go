package services_test

import (
	"fmt"
	"testing"
	"time"

	"lapaklaptop/internal/models"
	"lapaklaptop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAllWithVariants() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDWithVariants(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) CreateWithVariants(product *models.Product, quantities []int) error {
	args := m.Called(product, quantities)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateWithVariants(product *models.Product, quantities []int) error {
	args := m.Called(product, quantities)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteWithVariants(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockStockRepository is a mock implementation of repositories.StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetAll() ([]models.Stock, error) {
	args := m.Called()
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockRepository) UpsertQuantity(variantID string, quantity int) error {
	args := m.Called(variantID, quantity)
	return args.Error(0)
}

func TestStockStatusFor_BandBoundaries(t *testing.T) {
	assert.Equal(t, services.StockStatusOut, services.StockStatusFor(0))
	assert.Equal(t, services.StockStatusLow, services.StockStatusFor(1))
	assert.Equal(t, services.StockStatusLow, services.StockStatusFor(5))
	assert.Equal(t, services.StockStatusIn, services.StockStatusFor(6))
}

func threeVariantCatalog() ([]models.Product, []models.Stock) {
	products := []models.Product{
		{
			ID:   "prod-1",
			Name: "ThinkPad X1 Carbon",
			Variants: []models.ProductVariant{
				{ID: "var-1", ProductID: "prod-1", RAM: "8GB", SSD: "256GB", Price: 5000000},
				{ID: "var-2", ProductID: "prod-1", RAM: "16GB", SSD: "512GB", Price: 7000000},
				{ID: "var-3", ProductID: "prod-1", RAM: "32GB", SSD: "1TB", Price: 9000000},
			},
		},
	}
	stock := []models.Stock{
		{ID: "s-1", VariantID: "var-1", Quantity: 0},
		{ID: "s-2", VariantID: "var-2", Quantity: 3},
		{ID: "s-3", VariantID: "var-3", Quantity: 7},
	}
	return products, stock
}

func TestProductService_ListProductsWithStock_Aggregation(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	products, stock := threeVariantCatalog()
	mockProducts.On("GetAllWithVariants").Return(products, nil).Once()
	mockStock.On("GetAll").Return(stock, nil).Once()

	views, err := service.ListProductsWithStock(services.ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, 10, view.TotalStock)
	assert.Len(t, view.Variants, 3)
	assert.Equal(t, services.StockStatusOut, view.Variants[0].StockStatus)
	assert.Equal(t, services.StockStatusLow, view.Variants[1].StockStatus)
	assert.Equal(t, services.StockStatusIn, view.Variants[2].StockStatus)

	mockProducts.AssertExpectations(t)
	mockStock.AssertExpectations(t)
}

func TestProductService_ListProductsWithStock_VariantWithoutStockRowCountsAsZero(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	products, _ := threeVariantCatalog()
	mockProducts.On("GetAllWithVariants").Return(products, nil).Once()
	mockStock.On("GetAll").Return([]models.Stock{}, nil).Once()

	views, err := service.ListProductsWithStock(services.ListOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 0, views[0].TotalStock)
	for _, v := range views[0].Variants {
		assert.Equal(t, services.StockStatusOut, v.StockStatus)
	}
}

func searchableCatalog() ([]models.Product, []models.Stock) {
	gaming := &models.Category{ID: "cat-gaming", Name: "Gaming"}
	ultrabook := &models.Category{ID: "cat-ultra", Name: "Ultrabook"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	products := []models.Product{
		{
			ID: "prod-1", Name: "Legion 5", Processor: "Ryzen 7 5800H",
			CategoryID: "cat-gaming", Category: gaming, Rating: 4.5, PriceRange: "Rp 9jt - 11jt",
			Variants: []models.ProductVariant{{ID: "var-1", ProductID: "prod-1", RAM: "16GB", SSD: "512GB", Price: 9000000}},
		},
		{
			ID: "prod-2", Name: "MacBook Air M1", Processor: "Apple M1",
			CategoryID: "cat-ultra", Category: ultrabook, Rating: 4.8, PriceRange: "Rp 7jt - 8jt",
			Variants: []models.ProductVariant{{ID: "var-2", ProductID: "prod-2", RAM: "8GB", SSD: "256GB", Price: 7000000}},
		},
		{
			ID: "prod-3", Name: "Aspire 5", Processor: "Core i5-1135G7",
			CategoryID: "cat-ultra", Category: ultrabook, Rating: 4.0, PriceRange: "Rp 4jt - 5jt",
			Variants: []models.ProductVariant{{ID: "var-3", ProductID: "prod-3", RAM: "8GB", SSD: "512GB", Price: 4000000}},
		},
	}
	for i := range products {
		products[i].CreatedAt = base.AddDate(0, 0, i)
	}
	stock := []models.Stock{
		{ID: "s-1", VariantID: "var-1", Quantity: 2},
		{ID: "s-2", VariantID: "var-2", Quantity: 0},
		{ID: "s-3", VariantID: "var-3", Quantity: 8},
	}
	return products, stock
}

func expectCatalog(mockProducts *MockProductRepository, mockStock *MockStockRepository) {
	products, stock := searchableCatalog()
	mockProducts.On("GetAllWithVariants").Return(products, nil).Once()
	mockStock.On("GetAll").Return(stock, nil).Once()
}

func TestProductService_ListProductsWithStock_Search(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	// Case-insensitive substring match against the processor field.
	expectCatalog(mockProducts, mockStock)
	views, err := service.ListProductsWithStock(services.ListOptions{Search: "ryzen"})
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "Legion 5", views[0].Product.Name)

	// Category name participates in the search too.
	expectCatalog(mockProducts, mockStock)
	views, err = service.ListProductsWithStock(services.ListOptions{Search: "ultrabook"})
	assert.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestProductService_ListProductsWithStock_Filters(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	expectCatalog(mockProducts, mockStock)
	views, err := service.ListProductsWithStock(services.ListOptions{CategoryID: "cat-ultra"})
	assert.NoError(t, err)
	assert.Len(t, views, 2)

	expectCatalog(mockProducts, mockStock)
	views, err = service.ListProductsWithStock(services.ListOptions{StockStatus: services.StockStatusOut})
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "MacBook Air M1", views[0].Product.Name)

	expectCatalog(mockProducts, mockStock)
	views, err = service.ListProductsWithStock(services.ListOptions{StockStatus: services.StockStatusIn})
	assert.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestProductService_ListProductsWithStock_SortAndPaginate(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	expectCatalog(mockProducts, mockStock)
	views, err := service.ListProductsWithStock(services.ListOptions{SortBy: services.SortByTotalStock, SortDesc: true})
	assert.NoError(t, err)
	assert.Equal(t, []int{8, 2, 0}, []int{views[0].TotalStock, views[1].TotalStock, views[2].TotalStock})

	expectCatalog(mockProducts, mockStock)
	views, err = service.ListProductsWithStock(services.ListOptions{SortBy: services.SortByName})
	assert.NoError(t, err)
	assert.Equal(t, "Aspire 5", views[0].Product.Name)
	assert.Equal(t, "Legion 5", views[1].Product.Name)

	// Pagination is applied last, after sorting.
	expectCatalog(mockProducts, mockStock)
	views, err = service.ListProductsWithStock(services.ListOptions{SortBy: services.SortByName, Offset: 1, Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "Legion 5", views[0].Product.Name)

	// Offset past the end yields an empty page, not an error.
	expectCatalog(mockProducts, mockStock)
	views, err = service.ListProductsWithStock(services.ListOptions{Offset: 10})
	assert.NoError(t, err)
	assert.Empty(t, views)
}

func TestProductService_CreateProductWithVariants(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	product := &models.Product{
		Name:     "ThinkPad T480",
		Variants: []models.ProductVariant{{RAM: "8GB", SSD: "256GB", Price: 4500000}},
	}
	mockProducts.On("CreateWithVariants", product, []int{3}).Return(nil).Once()
	assert.NoError(t, service.CreateProductWithVariants(product, []int{3}))
	mockProducts.AssertExpectations(t)

	// A product without variants is rejected before the repository is touched.
	err := service.CreateProductWithVariants(&models.Product{Name: "No Variants"}, nil)
	assert.Error(t, err)
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	mockProducts.AssertNotCalled(t, "CreateWithVariants", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProductWithVariants(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	mockProducts.On("DeleteWithVariants", "prod-1").Return(nil).Once()
	assert.NoError(t, service.DeleteProductWithVariants("prod-1"))

	mockProducts.On("DeleteWithVariants", "prod-99").Return(fmt.Errorf("product with ID prod-99 not found for deletion")).Once()
	err := service.DeleteProductWithVariants("prod-99")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	mockProducts.AssertExpectations(t)
}

func TestProductService_UpdateStock(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockStock := new(MockStockRepository)
	service := services.NewProductService(mockProducts, mockStock)

	mockStock.On("UpsertQuantity", "var-1", 4).Return(nil).Once()
	assert.NoError(t, service.UpdateStock("var-1", 4))
	mockStock.AssertExpectations(t)

	err := service.UpdateStock("var-1", -1)
	assert.Error(t, err)
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	mockStock.AssertNotCalled(t, "UpsertQuantity", "var-1", -1)
}
