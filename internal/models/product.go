package models

import "gorm.io/gorm"

// Category groups products, e.g. "Ultrabook" or "Workstation".
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Product represents a secondhand laptop listed in the store.
// Pricing lives on the variants; PriceRange is the display string shown in listings.
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string           `json:"name" validate:"required,min=3,max=100"`
	Processor   string           `json:"processor" validate:"omitempty,max=100"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	PriceRange  string           `json:"price_range" validate:"omitempty,max=100"`
	Rating      float64          `json:"rating" validate:"gte=0,lte=5"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url"`
	CategoryID  string           `json:"category_id" validate:"omitempty,uuid"`
	Category    *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Variants    []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model
}

// ProductVariant is a distinct ram x ssd combination of a product with its own price.
type ProductVariant struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID string  `json:"product_id" gorm:"index;type:varchar(36)"`
	RAM       string  `json:"ram" validate:"required,max=20"`
	SSD       string  `json:"ssd" validate:"required,max=20"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	gorm.Model
}

// Stock holds the on-hand quantity for a single variant. At most one row per
// variant; a variant without a row counts as quantity 0.
type Stock struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	VariantID string `json:"variant_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	gorm.Model
}
