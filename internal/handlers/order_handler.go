package handlers

import (
	"log"

	"lapaklaptop/internal/cart"
	"lapaklaptop/internal/repositories"
	"lapaklaptop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and order administration.
type OrderHandler struct {
	service  *services.OrderService
	sessions repositories.CartSessionRepository
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, sessions repositories.CartSessionRepository) *OrderHandler {
	return &OrderHandler{
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public checkout route.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders", h.HandleCheckout)
}

// RegisterAdminRoutes registers the back-office order routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutHTTPRequest is the body for POST /orders. The purchased lines come
// from the session cart's checked subset, not from the body.
type CheckoutHTTPRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Address       string `json:"address"`
	DeliveryMode  string `json:"delivery_mode"`
}

// HandleCheckout composes an order from the session cart's checked lines. On
// success the cart is cleared and the WhatsApp hand-off returned.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	sessionID := c.Get(sessionHeader)
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "header X-Session-ID wajib diisi",
		})
	}

	var req CheckoutHTTPRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	ct := cart.New(repositories.NewSessionStorage(h.sessions, sessionID))
	result, err := h.service.Checkout(services.CheckoutRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		DeliveryMode:  req.DeliveryMode,
		Lines:         ct.CheckedLines(),
	})
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err, "Could not create order")
	}

	// Only the purchased (checked) lines leave the cart; unchecked lines stay.
	// A failure here does not undo the order.
	if err := ct.RemoveChecked(); err != nil {
		log.Printf("Warning: failed to remove purchased lines for session %s: %v", sessionID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleGetOrders retrieves all orders for the back office.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order with items and status history.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// UpdateStatusRequest is the body for PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

// HandleUpdateOrderStatus moves an order along the status progression. The
// acting admin comes from the JWT claims set by the auth middleware.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	actor, _ := c.Locals("username").(string)
	if actor == "" {
		actor = "admin"
	}

	if err := h.service.UpdateOrderStatus(orderID, req.Status, actor, req.Note); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err, "Could not update order status")
	}

	return c.JSON(fiber.Map{
		"message": "Status pesanan berhasil diperbarui",
		"status":  req.Status,
	})
}
