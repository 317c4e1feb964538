package handlers

import (
	"log"

	"lapaklaptop/internal/models"
	"lapaklaptop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog and the admin
// product/stock screens.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

// RegisterAdminRoutes registers the back-office product and stock routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)

	router.Patch("/stock/:variantId", h.HandleUpdateStock)
}

// listOptionsFromQuery reads the refinement query parameters.
func listOptionsFromQuery(c *fiber.Ctx) services.ListOptions {
	return services.ListOptions{
		Search:      c.Query("search"),
		CategoryID:  c.Query("category_id"),
		StockStatus: c.Query("stock_status"),
		SortBy:      c.Query("sort_by"),
		SortDesc:    c.Query("sort_dir") == "desc",
		Offset:      c.QueryInt("offset", 0),
		Limit:       c.QueryInt("limit", 0),
	}
}

// HandleListProducts lists products with per-variant stock attached, applying
// search/filter/sort/pagination from the query string.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	views, err := h.service.ListProductsWithStock(listOptionsFromQuery(c))
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(views)
}

// HandleGetProduct returns one product with stock attached.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	view, err := h.service.GetProductWithStock(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(view)
}

// VariantRequest is one ram/ssd combination with its price and initial stock.
type VariantRequest struct {
	RAM      string  `json:"ram" validate:"required,max=20"`
	SSD      string  `json:"ssd" validate:"required,max=20"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// ProductRequest is the body for product create/update. The variant set given
// here fully replaces the stored one.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,min=3,max=100"`
	Processor   string           `json:"processor" validate:"omitempty,max=100"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	PriceRange  string           `json:"price_range" validate:"omitempty,max=100"`
	Rating      float64          `json:"rating" validate:"gte=0,lte=5"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url"`
	CategoryID  string           `json:"category_id" validate:"omitempty,uuid"`
	Variants    []VariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// toModel converts the request into a product plus the per-variant stock
// quantities.
func (r ProductRequest) toModel(id string) (*models.Product, []int) {
	product := &models.Product{
		ID:          id,
		Name:        r.Name,
		Processor:   r.Processor,
		Description: r.Description,
		PriceRange:  r.PriceRange,
		Rating:      r.Rating,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
	}
	quantities := make([]int, 0, len(r.Variants))
	for _, v := range r.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			RAM:   v.RAM,
			SSD:   v.SSD,
			Price: v.Price,
		})
		quantities = append(quantities, v.Quantity)
	}
	return product, quantities
}

// parseProductRequest binds and validates a product body.
func (h *ProductHandler) parseProductRequest(c *fiber.Ctx) (*ProductRequest, error) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

// HandleCreateProduct creates a product with its variants and initial stock.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req, err := h.parseProductRequest(c)
	if err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return respondValidationErrors(c, vErrs)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, quantities := req.toModel("")
	if err := h.service.CreateProductWithVariants(product, quantities); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct saves the product and replaces its variant and stock sets.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	req, err := h.parseProductRequest(c)
	if err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return respondValidationErrors(c, vErrs)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, quantities := req.toModel(c.Params("id"))
	if err := h.service.UpdateProductWithVariants(product, quantities); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product with its variants and stock rows.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProductWithVariants(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Produk berhasil dihapus",
	})
}

// StockRequest is the body for PATCH /stock/:variantId.
type StockRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleUpdateStock sets one variant's stock quantity.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	variantID := c.Params("variantId")

	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.UpdateStock(variantID, req.Quantity); err != nil {
		log.Printf("Error updating stock for variant %s: %v", variantID, err)
		return respondError(c, err, "Could not update stock")
	}
	return c.JSON(fiber.Map{
		"message":  "Stok berhasil diperbarui",
		"quantity": req.Quantity,
	})
}
