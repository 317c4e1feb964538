package services

import (
	"sort"
	"strings"

	"lapaklaptop/internal/models"
	"lapaklaptop/internal/repositories"
)

// Stock status bands, derived from quantity at read time and never stored.
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusIn  = "in_stock"
)

// lowStockThreshold is the upper bound of the low-stock band.
const lowStockThreshold = 5

// StockStatusFor bands a quantity: 0 is out of stock, 1-5 low, above 5 in stock.
func StockStatusFor(quantity int) string {
	switch {
	case quantity <= 0:
		return StockStatusOut
	case quantity <= lowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// VariantStock is a variant with its stock quantity and derived status attached.
type VariantStock struct {
	models.ProductVariant
	Quantity    int    `json:"quantity"`
	StockStatus string `json:"stock_status"`
}

// ProductStock is the admin list/detail view of a product: its variants with
// stock and the aggregate total.
type ProductStock struct {
	Product    models.Product `json:"product"`
	Variants   []VariantStock `json:"variants"`
	TotalStock int            `json:"total_stock"`
}

// Sort keys accepted by ListOptions.
const (
	SortByName       = "name"
	SortByPriceRange = "price_range"
	SortByRating     = "rating"
	SortByTotalStock = "total_stock"
	SortByCreatedAt  = "created_at"
)

// ListOptions are the in-memory refinements applied after the base fetch, in
// order: search, category filter, stock filter, sort, then offset/limit.
type ListOptions struct {
	Search      string
	CategoryID  string
	StockStatus string // in_stock (total > 0) or out_of_stock (total == 0)
	SortBy      string
	SortDesc    bool
	Offset      int
	Limit       int // <= 0 means no limit
}

// ProductService handles the admin product read path (stock aggregation) and the
// transactional product/variant/stock mutations.
type ProductService struct {
	productRepo repositories.ProductRepository
	stockRepo   repositories.StockRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, stockRepo repositories.StockRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// ListProductsWithStock fetches all products with variants plus all stock rows
// in one pass, attaches per-variant quantity and status band, computes each
// product's total stock, then applies the requested refinements in memory.
func (s *ProductService) ListProductsWithStock(opts ListOptions) ([]ProductStock, error) {
	products, err := s.productRepo.GetAllWithVariants()
	if err != nil {
		return nil, err
	}
	stock, err := s.stockRepo.GetAll()
	if err != nil {
		return nil, err
	}

	quantityByVariant := make(map[string]int, len(stock))
	for _, row := range stock {
		quantityByVariant[row.VariantID] = row.Quantity
	}

	views := make([]ProductStock, 0, len(products))
	for _, p := range products {
		view := ProductStock{Product: p}
		view.Variants = make([]VariantStock, 0, len(p.Variants))
		for _, v := range p.Variants {
			qty := quantityByVariant[v.ID] // 0 when the variant has no stock row
			view.Variants = append(view.Variants, VariantStock{
				ProductVariant: v,
				Quantity:       qty,
				StockStatus:    StockStatusFor(qty),
			})
			view.TotalStock += qty
		}
		view.Product.Variants = nil // variants are served with stock attached
		views = append(views, view)
	}

	views = filterProducts(views, opts)
	sortProducts(views, opts)
	return paginate(views, opts.Offset, opts.Limit), nil
}

// filterProducts applies the search, category, and stock-band filters.
func filterProducts(views []ProductStock, opts ListOptions) []ProductStock {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	out := views[:0]
	for _, view := range views {
		if search != "" && !matchesSearch(view.Product, search) {
			continue
		}
		if opts.CategoryID != "" && view.Product.CategoryID != opts.CategoryID {
			continue
		}
		if opts.StockStatus == StockStatusIn && view.TotalStock == 0 {
			continue
		}
		if opts.StockStatus == StockStatusOut && view.TotalStock > 0 {
			continue
		}
		out = append(out, view)
	}
	return out
}

// matchesSearch reports whether the lowercased needle occurs in the product's
// name, processor, description, or category name.
func matchesSearch(p models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Processor), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	return p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), needle)
}

// sortProducts orders the views by the requested key. Unknown keys leave the
// fetch order untouched.
func sortProducts(views []ProductStock, opts ListOptions) {
	var less func(a, b ProductStock) bool
	switch opts.SortBy {
	case SortByName:
		less = func(a, b ProductStock) bool { return a.Product.Name < b.Product.Name }
	case SortByPriceRange:
		less = func(a, b ProductStock) bool { return a.Product.PriceRange < b.Product.PriceRange }
	case SortByRating:
		less = func(a, b ProductStock) bool { return a.Product.Rating < b.Product.Rating }
	case SortByTotalStock:
		less = func(a, b ProductStock) bool { return a.TotalStock < b.TotalStock }
	case SortByCreatedAt:
		less = func(a, b ProductStock) bool { return a.Product.CreatedAt.Before(b.Product.CreatedAt) }
	default:
		return
	}
	sort.Slice(views, func(i, j int) bool {
		if opts.SortDesc {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}

// paginate applies offset/limit last, after filtering and sorting.
func paginate(views []ProductStock, offset, limit int) []ProductStock {
	if offset >= len(views) {
		return []ProductStock{}
	}
	if offset > 0 {
		views = views[offset:]
	}
	if limit > 0 && limit < len(views) {
		views = views[:limit]
	}
	return views
}

// GetProductWithStock returns one product in the same aggregated view.
func (s *ProductService) GetProductWithStock(id string) (*ProductStock, error) {
	product, err := s.productRepo.GetByIDWithVariants(id)
	if err != nil {
		return nil, err
	}
	stock, err := s.stockRepo.GetAll()
	if err != nil {
		return nil, err
	}
	quantityByVariant := make(map[string]int, len(stock))
	for _, row := range stock {
		quantityByVariant[row.VariantID] = row.Quantity
	}

	view := &ProductStock{Product: *product}
	for _, v := range product.Variants {
		qty := quantityByVariant[v.ID]
		view.Variants = append(view.Variants, VariantStock{
			ProductVariant: v,
			Quantity:       qty,
			StockStatus:    StockStatusFor(qty),
		})
		view.TotalStock += qty
	}
	view.Product.Variants = nil
	return view, nil
}

// CreateProductWithVariants creates a product with its variants and initial
// stock quantities (quantities[i] belongs to product.Variants[i]).
func (s *ProductService) CreateProductWithVariants(product *models.Product, quantities []int) error {
	if len(product.Variants) == 0 {
		return &ValidationError{Msg: "produk harus memiliki minimal satu varian"}
	}
	return s.productRepo.CreateWithVariants(product, quantities)
}

// UpdateProductWithVariants saves the product and fully replaces its variant and
// stock sets.
func (s *ProductService) UpdateProductWithVariants(product *models.Product, quantities []int) error {
	if len(product.Variants) == 0 {
		return &ValidationError{Msg: "produk harus memiliki minimal satu varian"}
	}
	return s.productRepo.UpdateWithVariants(product, quantities)
}

// DeleteProductWithVariants removes a product with its variants and stock rows.
func (s *ProductService) DeleteProductWithVariants(id string) error {
	return s.productRepo.DeleteWithVariants(id)
}

// UpdateStock sets one variant's stock quantity.
func (s *ProductService) UpdateStock(variantID string, quantity int) error {
	if quantity < 0 {
		return &ValidationError{Msg: "jumlah stok tidak boleh negatif"}
	}
	return s.stockRepo.UpsertQuantity(variantID, quantity)
}
