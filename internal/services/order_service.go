package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"lapaklaptop/internal/cart"
	"lapaklaptop/internal/models"
	"lapaklaptop/internal/repositories"
	"lapaklaptop/pkg/rabbitmq"
	"lapaklaptop/pkg/whatsapp"
)

// ValidationError marks a checkout request rejected before any persistence
// attempt. The message is user-facing, in Indonesian.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// CheckoutRequest carries the customer-supplied delivery details plus the
// checked cart lines going through checkout.
type CheckoutRequest struct {
	CustomerName  string
	CustomerPhone string
	Address       string
	DeliveryMode  string
	Lines         []cart.Line
}

// CheckoutResult is the outcome of a successful checkout: the persisted order,
// the plain-text summary, and the WhatsApp deep link handing it off.
type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	Message      string        `json:"message"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

// OrderNumberGenerator issues order numbers shaped as ORD-<year>-<millis>.
// The millisecond component is kept strictly monotonic under a mutex so rapid
// sequential generations within the same millisecond never collide.
type OrderNumberGenerator struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next order number for the given time.
func (g *OrderNumberGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("ORD-%d-%d", now.Year(), ms)
}

// OrderService composes orders out of checked cart lines and manages their
// status lifecycle.
type OrderService struct {
	orderRepo repositories.OrderRepository
	settings  *SettingsService
	mqClient  *rabbitmq.Client
	numbers   OrderNumberGenerator
}

// NewOrderService creates a new OrderService. mqClient may be nil; event
// publication is then skipped.
func NewOrderService(orderRepo repositories.OrderRepository, settings *SettingsService, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		settings:  settings,
		mqClient:  mqClient,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order with items and history.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// validateCheckout applies the checkout rules fail-fast: the first violated rule
// wins and nothing is persisted.
func validateCheckout(req CheckoutRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return &ValidationError{Msg: "nama pemesan wajib diisi"}
	}
	if req.DeliveryMode != models.DeliveryModePickup && strings.TrimSpace(req.Address) == "" {
		return &ValidationError{Msg: "alamat pengiriman wajib diisi"}
	}
	if req.DeliveryMode != models.DeliveryModePickup && req.DeliveryMode != models.DeliveryModeHome {
		return &ValidationError{Msg: "metode pengiriman wajib dipilih"}
	}
	if len(req.Lines) == 0 {
		return &ValidationError{Msg: "pilih minimal satu barang untuk checkout"}
	}
	return nil
}

// Checkout validates the request, persists the order and its items, appends the
// initial status history row, and builds the WhatsApp hand-off. Item-row failure
// after the order row landed triggers a compensating delete of the order; a
// history failure is logged but does not fail the checkout.
func (s *OrderService) Checkout(req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	var totalAmount float64
	for _, line := range req.Lines {
		totalAmount += line.Price * float64(line.Quantity)
	}

	now := time.Now()
	order := &models.Order{
		OrderNumber:   s.numbers.Next(now),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Address:       strings.TrimSpace(req.Address),
		DeliveryMode:  req.DeliveryMode,
		TotalAmount:   totalAmount,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	items := make([]models.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			RAM:         line.RAM,
			SSD:         line.SSD,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
			LineTotal:   line.Price * float64(line.Quantity),
		})
	}
	if err := s.orderRepo.CreateItems(items); err != nil {
		// Compensating delete: never leave a headless order row behind.
		if delErr := s.orderRepo.Delete(order.ID); delErr != nil {
			log.Printf("Failed to roll back order %s after item failure: %v", order.ID, delErr)
		}
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	order.Items = items

	// History is best-effort, not transactionally required.
	history := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    models.OrderStatusPending,
		Note:      "pesanan dibuat",
		Actor:     "system",
		CreatedAt: now,
	}
	if err := s.orderRepo.AppendHistory(history); err != nil {
		log.Printf("Warning: failed to append initial history for order %s: %v", order.ID, err)
	}

	s.publishEvent(rabbitmq.EventOrderCreated, order)

	message := s.buildMessage(order)
	waNumber := ""
	if s.settings != nil {
		waNumber = s.settings.Value(models.SettingWhatsAppNumber, "")
	}

	return &CheckoutResult{
		Order:        order,
		Message:      message,
		WhatsAppLink: whatsapp.BuildLink(waNumber, message),
	}, nil
}

// nextStatus maps each non-terminal status to its linear successor.
var nextStatus = map[string]string{
	models.OrderStatusPending:    models.OrderStatusConfirmed,
	models.OrderStatusConfirmed:  models.OrderStatusProcessing,
	models.OrderStatusProcessing: models.OrderStatusShipped,
	models.OrderStatusShipped:    models.OrderStatusDelivered,
}

// UpdateOrderStatus moves an order along the linear status progression, or
// cancels it from any non-terminal status. Each change appends a history row.
func (s *OrderService) UpdateOrderStatus(id, status, actor, note string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}

	terminal := order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled
	switch {
	case status == models.OrderStatusCancelled:
		if terminal {
			return &ValidationError{Msg: fmt.Sprintf("pesanan dengan status %s tidak dapat dibatalkan", order.Status)}
		}
	case nextStatus[order.Status] == status:
		// Legal linear step.
	default:
		return &ValidationError{Msg: fmt.Sprintf("perubahan status dari %s ke %s tidak diperbolehkan", order.Status, status)}
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	history := &models.OrderStatusHistory{
		OrderID:   id,
		Status:    status,
		Note:      note,
		Actor:     actor,
		CreatedAt: time.Now(),
	}
	if err := s.orderRepo.AppendHistory(history); err != nil {
		log.Printf("Warning: failed to append history for order %s: %v", id, err)
	}

	order.Status = status
	s.publishEvent(rabbitmq.EventOrderStatusChanged, order)
	return nil
}

// publishEvent publishes an order lifecycle event best-effort.
func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishOrderEvent(rabbitmq.OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}

// deliveryLabel returns the Indonesian label shown for a delivery mode.
func deliveryLabel(mode string) string {
	if mode == models.DeliveryModePickup {
		return "Ambil di Toko"
	}
	return "Dikirim ke Alamat"
}

// buildMessage renders the plain-text order summary handed to WhatsApp.
func (s *OrderService) buildMessage(order *models.Order) string {
	storeName := "Lapak Laptop"
	if s.settings != nil {
		storeName = s.settings.Value(models.SettingStoreName, storeName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s! Saya ingin memesan:\n\n", storeName)
	fmt.Fprintf(&b, "No. Pesanan: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Nama: %s\n", order.CustomerName)
	if order.CustomerPhone != "" {
		fmt.Fprintf(&b, "Telepon: %s\n", order.CustomerPhone)
	}
	fmt.Fprintf(&b, "Pengiriman: %s\n", deliveryLabel(order.DeliveryMode))
	if order.Address != "" {
		fmt.Fprintf(&b, "Alamat: %s\n", order.Address)
	}
	b.WriteString("\nPesanan:\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s (%s/%s) x%d = %s\n",
			i+1, item.ProductName, item.RAM, item.SSD, item.Quantity, formatRupiah(item.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatRupiah(order.TotalAmount))
	b.WriteString("Terima kasih!")
	return b.String()
}

// formatRupiah renders an amount as "Rp 1.500.000".
func formatRupiah(amount float64) string {
	s := strconv.FormatInt(int64(amount), 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if negative {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}
