package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	checkout "github.com/fjod/go_shop/internal/checkout/service"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	orderrepo "github.com/fjod/go_shop/internal/order/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- Mocks ---

type OrdersMock struct {
	order  *orderdomain.Order
	orders []*orderdomain.Order
	err    error
}

func (m OrdersMock) GetOrderByIDForUser(context.Context, uuid.UUID, string) (*orderdomain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m OrdersMock) ListOrdersByUserID(context.Context, string) ([]*orderdomain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.orders, nil
}

type CheckoutMock struct {
	order *orderdomain.Order
	err   error
}

func (m CheckoutMock) PlaceOrder(context.Context, string, checkout.ShippingInfo, string) (*orderdomain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m CheckoutMock) CancelOrder(context.Context, string, uuid.UUID) (*orderdomain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

// --- helpers ---

func withUser(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, "u1")
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func confirmedOrder() *orderdomain.Order {
	return &orderdomain.Order{
		ID:     uuid.New(),
		UserID: "u1",
		Items: []orderdomain.OrderItem{
			{ProductID: 1, ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("1299.99")},
		},
		TotalAmount:     decimal.RequireFromString("1299.99"),
		Status:          orderdomain.OrderStatusConfirmed,
		PaymentStatus:   orderdomain.PaymentStatusCompleted,
		ShippingAddress: "1 Main St, Springfield",
		CreatedAt:       time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC),
	}
}

// --- ListOrders tests ---

func TestListOrders_Success(t *testing.T) {
	order := confirmedOrder()
	handler := NewOrdersHandler(OrdersMock{orders: []*orderdomain.Order{order}}, CheckoutMock{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("GET", "/api/v1/orders", nil))

	handler.ListOrders(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response []OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response) != 1 {
		t.Fatalf("expected 1 order, got %d", len(response))
	}
	if response[0].ID != order.ID.String() {
		t.Errorf("expected id '%s', got '%s'", order.ID, response[0].ID)
	}
	if response[0].TotalAmount != "1299.99" {
		t.Errorf("expected total_amount '1299.99', got '%s'", response[0].TotalAmount)
	}
	if len(response[0].Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(response[0].Items))
	}
	if response[0].Items[0].ProductName != "Laptop" {
		t.Errorf("expected product_name 'Laptop', got '%s'", response[0].Items[0].ProductName)
	}
}

func TestListOrders_EmptyList(t *testing.T) {
	handler := NewOrdersHandler(OrdersMock{orders: []*orderdomain.Order{}}, CheckoutMock{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("GET", "/api/v1/orders", nil))

	handler.ListOrders(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	// Must be a JSON array, not null
	var response []OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response == nil {
		t.Error("expected empty array, got null")
	}
}

func TestListOrders_Unauthorized(t *testing.T) {
	handler := NewOrdersHandler(OrdersMock{}, CheckoutMock{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/orders", nil)

	handler.ListOrders(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

// --- GetOrder tests ---

func TestGetOrder_Success(t *testing.T) {
	order := confirmedOrder()
	handler := NewOrdersHandler(OrdersMock{order: order}, CheckoutMock{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(withUser(httptest.NewRequest("GET", "/api/v1/orders/"+order.ID.String(), nil)), "order_id", order.ID.String())

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "CONFIRMED" {
		t.Errorf("expected status CONFIRMED, got %s", response.Status)
	}
	if response.PaymentStatus != "COMPLETED" {
		t.Errorf("expected payment_status COMPLETED, got %s", response.PaymentStatus)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	handler := NewOrdersHandler(OrdersMock{err: orderrepo.ErrOrderNotFound}, CheckoutMock{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	id := uuid.New().String()
	request := withURLParam(withUser(httptest.NewRequest("GET", "/api/v1/orders/"+id, nil)), "order_id", id)

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestGetOrder_InvalidID(t *testing.T) {
	handler := NewOrdersHandler(OrdersMock{}, CheckoutMock{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(withUser(httptest.NewRequest("GET", "/api/v1/orders/not-a-uuid", nil)), "order_id", "not-a-uuid")

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

// --- CancelOrder tests ---

func TestCancelOrder_Success(t *testing.T) {
	order := confirmedOrder()
	order.Status = orderdomain.OrderStatusCancelled
	handler := NewOrdersHandler(OrdersMock{}, CheckoutMock{order: order}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(withUser(httptest.NewRequest("POST", "/api/v1/orders/"+order.ID.String()+"/cancel", nil)), "order_id", order.ID.String())

	handler.CancelOrder(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "CANCELLED" {
		t.Errorf("expected status CANCELLED, got %s", response.Status)
	}
}

func TestCancelOrder_InvalidTransition(t *testing.T) {
	mock := CheckoutMock{err: &orderdomain.InvalidTransitionError{
		From: orderdomain.OrderStatusCancelled,
		To:   orderdomain.OrderStatusCancelled,
	}}
	handler := NewOrdersHandler(OrdersMock{}, mock, zap.NewNop())

	recorder := httptest.NewRecorder()
	id := uuid.New().String()
	request := withURLParam(withUser(httptest.NewRequest("POST", "/api/v1/orders/"+id+"/cancel", nil)), "order_id", id)

	handler.CancelOrder(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, recorder.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != "invalid_status_transition" {
		t.Errorf("expected code 'invalid_status_transition', got '%s'", response.Code)
	}
}
