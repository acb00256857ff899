package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_shop/internal/catalog/domain"
)

var ErrProductNotFound = errors.New("product not found")

type RepoInterface interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetProductsInStock(ctx context.Context) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	SetStock(ctx context.Context, id int64, quantity int) error
	Close() error
	RunMigrations(string) error
}
