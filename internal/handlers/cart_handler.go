package handlers

import (
	"log"

	"lapaklaptop/internal/cart"
	"lapaklaptop/internal/repositories"
	"lapaklaptop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// sessionHeader carries the visitor's cart session id.
const sessionHeader = "X-Session-ID"

// CartHandler handles HTTP requests for the session-scoped cart.
type CartHandler struct {
	sessions       repositories.CartSessionRepository
	productService *services.ProductService
	validate       *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(sessions repositories.CartSessionRepository, productService *services.ProductService) *CartHandler {
	return &CartHandler{
		sessions:       sessions,
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items", h.HandleRemoveItem)
	cartRoutes.Put("/checked", h.HandleSetChecked)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// loadCart rehydrates the cart bound to the request's session header.
func (h *CartHandler) loadCart(c *fiber.Ctx) (*cart.Cart, error) {
	sessionID := c.Get(sessionHeader)
	if sessionID == "" {
		return nil, &services.ValidationError{Msg: "header X-Session-ID wajib diisi"}
	}
	return cart.New(repositories.NewSessionStorage(h.sessions, sessionID)), nil
}

// cartResponse renders the cart's state with its derived totals.
func cartResponse(ct *cart.Cart) fiber.Map {
	return fiber.Map{
		"lines":         ct.Lines(),
		"checked_lines": ct.CheckedLines(),
		"total_price":   ct.TotalPrice(),
		"total_items":   ct.TotalItems(),
	}
}

// HandleGetCart returns the cart's lines and totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	ct, err := h.loadCart(c)
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	return c.JSON(cartResponse(ct))
}

// AddItemRequest identifies the variant being added by its ram/ssd combination.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	RAM       string `json:"ram" validate:"required"`
	SSD       string `json:"ssd" validate:"required"`
}

// HandleAddItem adds a product variant to the cart, snapshotting its current
// price. Adding the same combination again increments its quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	ct, err := h.loadCart(c)
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	view, err := h.productService.GetProductWithStock(req.ProductID)
	if err != nil {
		return respondError(c, err, "Could not look up product")
	}
	var line *cart.Line
	for _, v := range view.Variants {
		if v.RAM == req.RAM && v.SSD == req.SSD {
			line = &cart.Line{
				ProductID:   view.Product.ID,
				VariantID:   v.ID,
				ProductName: view.Product.Name,
				RAM:         v.RAM,
				SSD:         v.SSD,
				Price:       v.Price,
			}
			break
		}
	}
	if line == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "varian produk tidak ditemukan",
		})
	}

	if err := ct.AddItem(*line); err != nil {
		log.Printf("Error adding cart item: %v", err)
		return respondError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(cartResponse(ct))
}

// LineRequest identifies an existing cart line.
type LineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	RAM       string `json:"ram" validate:"required"`
	SSD       string `json:"ssd" validate:"required"`
	Quantity  int    `json:"quantity"`
	Checked   bool   `json:"checked"`
}

// parseLineRequest binds and validates a line-identifying body.
func (h *CartHandler) parseLineRequest(c *fiber.Ctx) (*LineRequest, error) {
	var req LineRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

// HandleUpdateQuantity overwrites a line's quantity; zero removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	ct, err := h.loadCart(c)
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	req, err := h.parseLineRequest(c)
	if err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return respondValidationErrors(c, vErrs)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := ct.UpdateQuantity(req.ProductID, req.RAM, req.SSD, req.Quantity); err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(cartResponse(ct))
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	ct, err := h.loadCart(c)
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	req, err := h.parseLineRequest(c)
	if err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return respondValidationErrors(c, vErrs)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := ct.RemoveItem(req.ProductID, req.RAM, req.SSD); err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(cartResponse(ct))
}

// HandleSetChecked marks or unmarks a line for checkout.
func (h *CartHandler) HandleSetChecked(c *fiber.Ctx) error {
	ct, err := h.loadCart(c)
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	req, err := h.parseLineRequest(c)
	if err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return respondValidationErrors(c, vErrs)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := ct.SetChecked(req.ProductID, req.RAM, req.SSD, req.Checked); err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(cartResponse(ct))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	ct, err := h.loadCart(c)
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	if err := ct.Clear(); err != nil {
		return respondError(c, err, "Could not clear cart")
	}
	return c.JSON(cartResponse(ct))
}
