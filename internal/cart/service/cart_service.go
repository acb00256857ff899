package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_shop/internal/cart/cache"
	"github.com/fjod/go_shop/internal/cart/domain"
	"github.com/fjod/go_shop/internal/cart/repository"
	catalogdomain "github.com/fjod/go_shop/internal/catalog/domain"
	"github.com/fjod/go_shop/internal/inventory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Catalog is the read model the cart consults for product existence,
// live prices and advisory stock checks.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog Catalog
	log     *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-user, shared with checkout
}

func NewCartService(repo repository.CartRepository, cartCache cache.CartCache, catalog Catalog, log *zap.Logger) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cartCache,
		catalog: catalog,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// WithUserLock serializes cart mutation and checkout for one user. All
// mutating operations take this lock; checkout holds it across its
// read-reserve-persist-clear sequence so a concurrent AddItem can
// neither vanish into a stale snapshot nor survive the clear.
func (s *CartService) WithUserLock(userID string, fn func() error) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (s *CartService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// GetCart returns the user's cart, creating an empty one lazily. Reads
// go through the cache with singleflight so concurrent misses for the
// same user hit the repository once.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cart cache get failed", zap.String("user_id", userID), zap.Error(err))
		}

		cart, err := s.loadCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, userID, cart); err != nil {
				s.log.Warn("cart cache set failed", zap.String("user_id", userID), zap.Error(err))
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// GetCartLocked reads the cart straight from the repository, skipping
// cache and singleflight. Checkout snapshots the cart with this inside
// WithUserLock: the cache is written back asynchronously, so a cached
// read could return a snapshot from before a concurrent AddItem and the
// following clear would drop that item.
func (s *CartService) GetCartLocked(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.loadCart(ctx, userID)
}

func (s *CartService) loadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		now := time.Now()
		return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem merges quantity into the user's line for the product. The
// stock check is advisory: it gives early feedback but only checkout's
// reservation is authoritative.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.WithUserLock(userID, func() error {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return err
		}

		cart, err := s.loadCart(ctx, userID)
		if err != nil {
			return err
		}

		wanted := quantity
		if line, ok := cart.Item(productID); ok {
			wanted += line.Quantity
		}
		if !product.HasAvailableStock(wanted) {
			return &inventory.InsufficientStockError{ProductID: productID, Available: product.Stock}
		}

		if err := s.repo.AddItem(ctx, userID, domain.CartItem{ProductID: productID, Quantity: quantity}); err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}

		s.invalidateCache(userID)
		return nil
	})
}

// UpdateQuantity overwrites the line quantity (not additive). A
// non-positive quantity removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	return s.WithUserLock(userID, func() error {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return err
		}

		if !product.HasAvailableStock(quantity) {
			return &inventory.InsufficientStockError{ProductID: productID, Available: product.Stock}
		}

		if err := s.repo.UpdateItemQuantity(ctx, userID, productID, quantity); err != nil {
			return err
		}

		s.invalidateCache(userID)
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) error {
	return s.WithUserLock(userID, func() error {
		err := s.repo.RemoveItem(ctx, userID, productID)
		if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
			return err
		}

		s.invalidateCache(userID)
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.WithUserLock(userID, func() error {
		return s.clearLocked(ctx, userID)
	})
}

// ClearCartLocked clears without taking the user lock. Checkout calls
// this from inside WithUserLock.
func (s *CartService) ClearCartLocked(ctx context.Context, userID string) error {
	return s.clearLocked(ctx, userID)
}

func (s *CartService) clearLocked(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return err
	}
	s.invalidateCache(userID)
	return nil
}

// CartTotal prices the cart at current catalog prices. This is a
// pre-purchase estimate; orders freeze their own price snapshot.
func (s *CartService) CartTotal(ctx context.Context, userID string) (decimal.Decimal, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to price cart item %d: %w", item.ProductID, err)
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

func (s *CartService) ItemCount(ctx context.Context, userID string) (int, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.TotalItems(), nil
}

func (s *CartService) IsEmpty(ctx context.Context, userID string) (bool, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return false, err
	}
	return cart.IsEmpty(), nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cart cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
