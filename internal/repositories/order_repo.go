package repositories

import (
	"lapaklaptop/internal/models"
)

// OrderRepository defines the interface for order data access. Create, CreateItems
// and Delete are separate calls on purpose: order creation uses a compensating
// delete when item insertion fails after the order row landed.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	Delete(id string) error
	UpdateStatus(id string, status string) error
	AppendHistory(entry *models.OrderStatusHistory) error
}
