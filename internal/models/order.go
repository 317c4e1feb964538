package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Progression is linear; cancellation is allowed from any
// non-terminal status.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Delivery modes offered at checkout.
const (
	DeliveryModePickup = "pickup"   // ambil di toko
	DeliveryModeHome   = "delivery" // dikirim ke alamat
)

// PaymentStatusPending is the only payment status this system assigns; settlement
// happens over WhatsApp, outside the system.
const PaymentStatusPending = "pending"

// Order represents a customer order placed through the WhatsApp checkout.
type Order struct {
	ID            string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber   string               `json:"order_number" gorm:"uniqueIndex;type:varchar(40)"`
	CustomerName  string               `json:"customer_name" gorm:"type:varchar(100)"`
	CustomerPhone string               `json:"customer_phone" gorm:"type:varchar(30)"`
	Address       string               `json:"address" gorm:"type:varchar(500)"`
	DeliveryMode  string               `json:"delivery_mode" gorm:"type:varchar(20)"`
	TotalAmount   float64              `json:"total_amount"`
	Status        string               `json:"status" gorm:"type:varchar(20)"`
	PaymentStatus string               `json:"payment_status" gorm:"type:varchar(20)"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	History       []OrderStatusHistory `json:"history,omitempty" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// OrderItem is a single line within an order. Price and the ram/ssd labels are
// snapshotted at order-creation time, never looked up live afterwards.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36)"`
	VariantID   string  `json:"variant_id" gorm:"type:varchar(36)"`
	ProductName string  `json:"product_name" gorm:"type:varchar(100)"`
	RAM         string  `json:"ram" gorm:"type:varchar(20)"`
	SSD         string  `json:"ssd" gorm:"type:varchar(20)"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	gorm.Model
}

// OrderStatusHistory is an append-only log row. Rows are never updated or deleted.
type OrderStatusHistory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"order_id" gorm:"index;type:varchar(36)"`
	Status    string    `json:"status" gorm:"type:varchar(20)"`
	Note      string    `json:"note" gorm:"type:varchar(500)"`
	Actor     string    `json:"actor" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
}
