package handlers

import (
	"log"

	"lapaklaptop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles HTTP requests for store settings.
type SettingsHandler struct {
	service *services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// RegisterRoutes registers the public settings route.
func (h *SettingsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/settings", h.HandleGetSettings)
}

// RegisterAdminRoutes registers the back-office settings route.
func (h *SettingsHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Put("/settings/:key", h.HandleSetSetting)
}

// HandleGetSettings returns all settings as a key-value map, served through the
// TTL cache.
func (h *SettingsHandler) HandleGetSettings(c *fiber.Ctx) error {
	values, err := h.service.All()
	if err != nil {
		log.Printf("Error getting settings: %v", err)
		return respondError(c, err, "Could not retrieve settings")
	}
	return c.JSON(values)
}

// SettingRequest is the body for PUT /settings/:key.
type SettingRequest struct {
	Value string `json:"value"`
}

// HandleSetSetting writes one setting and invalidates the cache.
func (h *SettingsHandler) HandleSetSetting(c *fiber.Ctx) error {
	var req SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	key := c.Params("key")
	if err := h.service.Set(key, req.Value); err != nil {
		log.Printf("Error setting %s: %v", key, err)
		return respondError(c, err, "Could not save setting")
	}
	return c.JSON(fiber.Map{
		"message": "Pengaturan berhasil disimpan",
		"key":     key,
		"value":   req.Value,
	})
}
