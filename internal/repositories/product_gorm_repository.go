package repositories

import (
	"fmt"

	"lapaklaptop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAllWithVariants retrieves all products with their category and variants in
// one batched fetch (no per-product querying).
func (r *GORMProductRepository) GetAllWithVariants() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").Preload("Variants").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByIDWithVariants retrieves a single product by its ID with category and
// variants preloaded.
func (r *GORMProductRepository) GetByIDWithVariants(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").Preload("Variants").First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// CreateWithVariants creates a product, its variants, and one stock row per
// variant in a single transaction. quantities[i] is the initial stock quantity
// of product.Variants[i].
func (r *GORMProductRepository) CreateWithVariants(product *models.Product, quantities []int) error {
	if len(quantities) != len(product.Variants) {
		return fmt.Errorf("got %d stock quantities for %d variants", len(quantities), len(product.Variants))
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		variants := product.Variants
		product.Variants = nil
		defer func() { product.Variants = variants }()

		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		if err := insertVariantsWithStock(tx, product.ID, variants, quantities); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// UpdateWithVariants saves the product row then fully replaces its variant set
// and the matching stock rows (delete-all-then-insert, not a diff), all in one
// transaction.
func (r *GORMProductRepository) UpdateWithVariants(product *models.Product, quantities []int) error {
	if len(quantities) != len(product.Variants) {
		return fmt.Errorf("got %d stock quantities for %d variants", len(quantities), len(product.Variants))
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		variants := product.Variants
		product.Variants = nil
		defer func() { product.Variants = variants }()

		res := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
			"name":        product.Name,
			"processor":   product.Processor,
			"description": product.Description,
			"price_range": product.PriceRange,
			"rating":      product.Rating,
			"image_url":   product.ImageURL,
			"category_id": product.CategoryID,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s %w for update", product.ID, ErrNotFound)
		}

		if err := deleteVariantsWithStock(tx, product.ID); err != nil {
			return err
		}
		if err := insertVariantsWithStock(tx, product.ID, variants, quantities); err != nil {
			return err
		}
		return nil
	})
}

// DeleteWithVariants removes stock rows, then variant rows, then the product
// row, in that dependency order, inside one transaction.
func (r *GORMProductRepository) DeleteWithVariants(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteVariantsWithStock(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s %w for deletion", id, ErrNotFound)
		}
		return nil
	})
}

// insertVariantsWithStock inserts the variant rows and one stock row per variant.
func insertVariantsWithStock(tx *gorm.DB, productID string, variants []models.ProductVariant, quantities []int) error {
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.New().String()
		}
		variants[i].ProductID = productID
		if err := tx.Create(&variants[i]).Error; err != nil {
			return fmt.Errorf("failed to create variant: %w", err)
		}
		stock := models.Stock{
			ID:        uuid.New().String(),
			VariantID: variants[i].ID,
			Quantity:  quantities[i],
		}
		if err := tx.Create(&stock).Error; err != nil {
			return fmt.Errorf("failed to create stock row: %w", err)
		}
	}
	return nil
}

// deleteVariantsWithStock removes all stock rows of a product's variants, then
// the variants themselves.
func deleteVariantsWithStock(tx *gorm.DB, productID string) error {
	var variantIDs []string
	if err := tx.Model(&models.ProductVariant{}).Where("product_id = ?", productID).Pluck("id", &variantIDs).Error; err != nil {
		return fmt.Errorf("failed to list variant IDs: %w", err)
	}
	if len(variantIDs) > 0 {
		if err := tx.Delete(&models.Stock{}, "variant_id IN ?", variantIDs).Error; err != nil {
			return fmt.Errorf("failed to delete stock rows: %w", err)
		}
	}
	if err := tx.Delete(&models.ProductVariant{}, "product_id = ?", productID).Error; err != nil {
		return fmt.Errorf("failed to delete variants: %w", err)
	}
	return nil
}

// GORMStockRepository is a GORM implementation of StockRepository.
type GORMStockRepository struct {
	db *gorm.DB
}

// NewGORMStockRepository creates a new instance of GORMStockRepository.
func NewGORMStockRepository(db *gorm.DB) *GORMStockRepository {
	return &GORMStockRepository{
		db: db,
	}
}

// GetAll retrieves all stock rows.
func (r *GORMStockRepository) GetAll() ([]models.Stock, error) {
	var stock []models.Stock
	if err := r.db.Find(&stock).Error; err != nil {
		return nil, fmt.Errorf("failed to get stock rows: %w", err)
	}
	return stock, nil
}

// UpsertQuantity sets the quantity for a variant, creating the stock row if it
// does not exist yet (conflict key: variant_id).
func (r *GORMStockRepository) UpsertQuantity(variantID string, quantity int) error {
	stock := models.Stock{
		ID:        uuid.New().String(),
		VariantID: variantID,
		Quantity:  quantity,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": quantity}),
	}).Create(&stock).Error
	if err != nil {
		return fmt.Errorf("failed to upsert stock for variant %s: %w", variantID, err)
	}
	return nil
}
