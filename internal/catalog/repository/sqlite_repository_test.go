package repository_test

import (
	"context"
	"testing"

	"github.com/fjod/go_shop/internal/catalog/domain"
	db "github.com/fjod/go_shop/internal/catalog/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.Repository {
	// Use in-memory database for tests
	conn, err := db.OpenDB(":memory:")
	require.NoError(t, err)

	repo := db.NewRepository(conn)
	require.NoError(t, repo.RunMigrations("./migrations"))

	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGetAllProducts_ReturnsSeededProducts(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 5) // seed migration inserts 5 products
	assert.Equal(t, "Laptop", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("1299.99")))
	assert.Equal(t, 10, products[0].Stock)
}

func TestGetProduct_Found(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Coffee Mug", p.Name)
	assert.Equal(t, "Kitchen", p.Category)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.00")))
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, db.ErrProductNotFound)
}

func TestGetProductsByCategory(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetProductsByCategory(context.Background(), "Office")
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "Desk Lamp", products[0].Name)
	assert.Equal(t, "Notebook", products[1].Name)
}

func TestSearchProducts_MatchesNameAndDescription(t *testing.T) {
	repo := setupTestDB(t)

	byName, err := repo.SearchProducts(context.Background(), "lamp")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Desk Lamp", byName[0].Name)

	byDescription, err := repo.SearchProducts(context.Background(), "switches")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Mechanical Keyboard", byDescription[0].Name)
}

func TestListCategories(t *testing.T) {
	repo := setupTestDB(t)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Electronics", "Kitchen", "Office"}, categories)
}

func TestCreateProduct_AssignsID(t *testing.T) {
	repo := setupTestDB(t)

	p := &domain.Product{
		Name:     "Monitor",
		Price:    decimal.RequireFromString("249.00"),
		Stock:    7,
		Category: "Electronics",
	}
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	assert.NotZero(t, p.ID)

	loaded, err := repo.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monitor", loaded.Name)
	assert.Equal(t, 7, loaded.Stock)
}

func TestUpdateProduct_DoesNotTouchStock(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	p.Price = decimal.RequireFromString("1199.00")
	require.NoError(t, repo.UpdateProduct(context.Background(), p))

	loaded, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, loaded.Price.Equal(decimal.RequireFromString("1199.00")))
	assert.Equal(t, 10, loaded.Stock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.UpdateProduct(context.Background(), &domain.Product{ID: 999, Name: "Ghost"})
	assert.ErrorIs(t, err, db.ErrProductNotFound)
}

func TestSetStock(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetStock(context.Background(), 1, 3))

	p, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	assert.ErrorIs(t, repo.SetStock(context.Background(), 999, 3), db.ErrProductNotFound)
}

func TestGetProductsInStock_ExcludesSoldOut(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetStock(context.Background(), 2, 0))

	products, err := repo.GetProductsInStock(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 4)
	for _, p := range products {
		assert.Positive(t, p.Stock)
	}
}
