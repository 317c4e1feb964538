package services_test

import (
	"fmt"
	"testing"
	"time"

	"lapaklaptop/internal/cart"
	"lapaklaptop/internal/models"
	"lapaklaptop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(items []models.OrderItem) error {
	args := m.Called(items)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendHistory(entry *models.OrderStatusHistory) error {
	args := m.Called(entry)
	return args.Error(0)
}

func checkoutLines() []cart.Line {
	return []cart.Line{
		{ProductID: "prod-a", VariantID: "var-1", ProductName: "Product A", RAM: "8GB", SSD: "256GB", Price: 1000000, Quantity: 1},
		{ProductID: "prod-a", VariantID: "var-2", ProductName: "Product A", RAM: "16GB", SSD: "512GB", Price: 1500000, Quantity: 2},
	}
}

func TestOrderNumberGenerator_RapidSequentialGenerationsAreUnique(t *testing.T) {
	var gen services.OrderNumberGenerator

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		number := gen.Next(time.Now())
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, 1000)
}

func TestOrderNumberGenerator_Format(t *testing.T) {
	var gen services.OrderNumberGenerator
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	number := gen.Next(now)
	assert.Equal(t, fmt.Sprintf("ORD-2026-%d", now.UnixMilli()), number)
}

func TestOrderService_Checkout_ValidationBeforePersistence(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*services.CheckoutRequest)
		wantMsg string
	}{
		{
			name:    "empty name",
			mutate:  func(r *services.CheckoutRequest) { r.CustomerName = "   " },
			wantMsg: "nama pemesan wajib diisi",
		},
		{
			name: "missing address for home delivery",
			mutate: func(r *services.CheckoutRequest) {
				r.DeliveryMode = models.DeliveryModeHome
				r.Address = ""
			},
			wantMsg: "alamat pengiriman wajib diisi",
		},
		{
			name: "delivery mode not selected",
			mutate: func(r *services.CheckoutRequest) {
				r.DeliveryMode = ""
				r.Address = "Jl. Test 1"
			},
			wantMsg: "metode pengiriman wajib dipilih",
		},
		{
			name:    "no checked lines",
			mutate:  func(r *services.CheckoutRequest) { r.Lines = nil },
			wantMsg: "pilih minimal satu barang",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			service := services.NewOrderService(mockRepo, nil, nil)

			req := services.CheckoutRequest{
				CustomerName: "Jane",
				Address:      "Jl. Test 1",
				DeliveryMode: models.DeliveryModeHome,
				Lines:        checkoutLines(),
			}
			tt.mutate(&req)

			result, err := service.Checkout(req)
			assert.Nil(t, result)
			assert.Error(t, err)
			var vErr *services.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Contains(t, err.Error(), tt.wantMsg)

			// Validation errors must never reach the persistence layer.
			mockRepo.AssertNotCalled(t, "Create", mock.Anything)
			mockRepo.AssertNotCalled(t, "CreateItems", mock.Anything)
		})
	}
}

func TestOrderService_Checkout_AddressOptionalForPickup(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockRepo.On("CreateItems", mock.AnythingOfType("[]models.OrderItem")).Return(nil).Once()
	mockRepo.On("AppendHistory", mock.AnythingOfType("*models.OrderStatusHistory")).Return(nil).Once()

	result, err := service.Checkout(services.CheckoutRequest{
		CustomerName: "Budi",
		DeliveryMode: models.DeliveryModePickup,
		Lines:        checkoutLines()[:1],
	})
	assert.NoError(t, err)
	assert.NotNil(t, result)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Checkout_Success(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	var createdOrder *models.Order
	mockRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		createdOrder = args.Get(0).(*models.Order)
		createdOrder.ID = "order-1"
	}).Return(nil).Once()
	mockRepo.On("CreateItems", mock.AnythingOfType("[]models.OrderItem")).Return(nil).Once()
	mockRepo.On("AppendHistory", mock.AnythingOfType("*models.OrderStatusHistory")).Return(nil).Once()

	result, err := service.Checkout(services.CheckoutRequest{
		CustomerName: "Jane",
		Address:      "Jl. Test 1",
		DeliveryMode: models.DeliveryModeHome,
		Lines:        checkoutLines(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	// total = 1000000*1 + 1500000*2
	assert.Equal(t, 4000000.0, result.Order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.Equal(t, models.PaymentStatusPending, result.Order.PaymentStatus)
	assert.Len(t, result.Order.Items, 2)
	assert.Equal(t, "var-1", result.Order.Items[0].VariantID)
	assert.Equal(t, 1000000.0, result.Order.Items[0].LineTotal)
	assert.Equal(t, 3000000.0, result.Order.Items[1].LineTotal)
	assert.Contains(t, result.Order.OrderNumber, "ORD-")

	// The message carries the itemized summary and the grand total.
	assert.Contains(t, result.Message, result.Order.OrderNumber)
	assert.Contains(t, result.Message, "Product A (8GB/256GB) x1")
	assert.Contains(t, result.Message, "Product A (16GB/512GB) x2")
	assert.Contains(t, result.Message, "Rp 4.000.000")
	assert.Contains(t, result.Message, "Dikirim ke Alamat")
	assert.Contains(t, result.WhatsAppLink, "https://wa.me/")

	mockRepo.AssertExpectations(t)
}

func TestOrderService_Checkout_CompensatingDeleteOnItemFailure(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Order).ID = "order-doomed"
	}).Return(nil).Once()
	mockRepo.On("CreateItems", mock.AnythingOfType("[]models.OrderItem")).Return(fmt.Errorf("insert failed")).Once()
	mockRepo.On("Delete", "order-doomed").Return(nil).Once()

	result, err := service.Checkout(services.CheckoutRequest{
		CustomerName: "Jane",
		Address:      "Jl. Test 1",
		DeliveryMode: models.DeliveryModeHome,
		Lines:        checkoutLines(),
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	// The just-created order must have been deleted, no headless order remains.
	mockRepo.AssertCalled(t, "Delete", "order-doomed")
	mockRepo.AssertNotCalled(t, "AppendHistory", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Checkout_HistoryFailureDoesNotFailOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockRepo.On("CreateItems", mock.AnythingOfType("[]models.OrderItem")).Return(nil).Once()
	mockRepo.On("AppendHistory", mock.AnythingOfType("*models.OrderStatusHistory")).Return(fmt.Errorf("history table down")).Once()

	result, err := service.Checkout(services.CheckoutRequest{
		CustomerName: "Jane",
		Address:      "Jl. Test 1",
		DeliveryMode: models.DeliveryModeHome,
		Lines:        checkoutLines(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	// Legal linear step: pending -> confirmed, with a history row appended.
	mockRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusPending}, nil).Once()
	mockRepo.On("UpdateStatus", "order-1", models.OrderStatusConfirmed).Return(nil).Once()
	mockRepo.On("AppendHistory", mock.MatchedBy(func(h *models.OrderStatusHistory) bool {
		return h.OrderID == "order-1" && h.Status == models.OrderStatusConfirmed && h.Actor == "admin"
	})).Return(nil).Once()

	err := service.UpdateOrderStatus("order-1", models.OrderStatusConfirmed, "admin", "dikonfirmasi")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Skipping a step is rejected before any write.
	mockRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusPending}, nil).Once()
	err = service.UpdateOrderStatus("order-1", models.OrderStatusShipped, "admin", "")
	assert.Error(t, err)
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	mockRepo.AssertExpectations(t)

	// Cancellation is allowed from any non-terminal status.
	mockRepo.On("GetByID", "order-2").Return(&models.Order{ID: "order-2", Status: models.OrderStatusProcessing}, nil).Once()
	mockRepo.On("UpdateStatus", "order-2", models.OrderStatusCancelled).Return(nil).Once()
	mockRepo.On("AppendHistory", mock.AnythingOfType("*models.OrderStatusHistory")).Return(nil).Once()
	err = service.UpdateOrderStatus("order-2", models.OrderStatusCancelled, "admin", "stok habis")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// A delivered order is terminal and cannot be cancelled.
	mockRepo.On("GetByID", "order-3").Return(&models.Order{ID: "order-3", Status: models.OrderStatusDelivered}, nil).Once()
	err = service.UpdateOrderStatus("order-3", models.OrderStatusCancelled, "admin", "")
	assert.Error(t, err)
	assert.ErrorAs(t, err, &vErr)
	mockRepo.AssertExpectations(t)
}
