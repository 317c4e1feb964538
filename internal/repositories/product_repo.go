package repositories

import (
	"lapaklaptop/internal/models"
)

// ProductRepository defines the interface for product data access. The
// multi-table mutations replace the variant and stock sets wholesale and must be
// atomic: either every row lands or none do.
type ProductRepository interface {
	GetAllWithVariants() ([]models.Product, error)
	GetByIDWithVariants(id string) (*models.Product, error)
	CreateWithVariants(product *models.Product, quantities []int) error
	UpdateWithVariants(product *models.Product, quantities []int) error
	DeleteWithVariants(id string) error
}

// StockRepository defines the interface for stock data access.
type StockRepository interface {
	GetAll() ([]models.Stock, error)
	UpsertQuantity(variantID string, quantity int) error
}
