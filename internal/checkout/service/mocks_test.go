package service

import (
	"context"
	"errors"
	"sync"
	"time"

	cartdomain "github.com/fjod/go_shop/internal/cart/domain"
	catalogdomain "github.com/fjod/go_shop/internal/catalog/domain"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	"github.com/fjod/go_shop/internal/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeCarts struct {
	mu         sync.Mutex
	carts      map[string]*cartdomain.Cart
	clearCalls int
	clearErr   error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[string]*cartdomain.Cart)}
}

func (f *fakeCarts) seed(userID string, items ...cartdomain.CartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[userID] = &cartdomain.Cart{
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (f *fakeCarts) items(userID string) []cartdomain.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cart, ok := f.carts[userID]; ok {
		return append([]cartdomain.CartItem(nil), cart.Items...)
	}
	return nil
}

func (f *fakeCarts) GetCartLocked(_ context.Context, userID string) (*cartdomain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cart, ok := f.carts[userID]; ok {
		copied := *cart
		copied.Items = append([]cartdomain.CartItem(nil), cart.Items...)
		return &copied, nil
	}
	return &cartdomain.Cart{UserID: userID}, nil
}

func (f *fakeCarts) ClearCartLocked(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	if cart, ok := f.carts[userID]; ok {
		cart.Items = []cartdomain.CartItem{}
	}
	return nil
}

func (f *fakeCarts) WithUserLock(_ string, fn func() error) error {
	return fn()
}

type stubCatalog struct {
	mu       sync.Mutex
	products map[int64]*catalogdomain.Product
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{products: make(map[int64]*catalogdomain.Product)}
}

func (c *stubCatalog) add(id int64, name, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[id] = &catalogdomain.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func (c *stubCatalog) setPrice(id int64, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[id].Price = decimal.RequireFromString(price)
}

func (c *stubCatalog) GetProduct(_ context.Context, id int64) (*catalogdomain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errors.New("product not found")
}

type mockProcessor struct {
	err     error
	decline string
	charges []payment.ChargeRequest
}

func (p *mockProcessor) Charge(_ context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	p.charges = append(p.charges, req)
	if p.err != nil {
		return nil, p.err
	}
	if p.decline != "" {
		return &payment.ChargeResult{Approved: false, Reason: p.decline}, nil
	}
	return &payment.ChargeResult{PaymentID: uuid.New().String(), Approved: true}, nil
}

type mockNotifier struct {
	err       error
	confirmed chan *orderdomain.Order
	cancelled chan *orderdomain.Order
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		confirmed: make(chan *orderdomain.Order, 8),
		cancelled: make(chan *orderdomain.Order, 8),
	}
}

func (n *mockNotifier) OrderConfirmed(_ context.Context, order *orderdomain.Order) error {
	n.confirmed <- order
	return n.err
}

func (n *mockNotifier) OrderCancelled(_ context.Context, order *orderdomain.Order) error {
	n.cancelled <- order
	return n.err
}

type failingOrderStore struct {
	OrderStore
	createErr error
}

func (f *failingOrderStore) CreateOrder(ctx context.Context, order *orderdomain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.OrderStore.CreateOrder(ctx, order)
}
