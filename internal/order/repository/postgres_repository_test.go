package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_shop/internal/order/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *Repository {
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations(creds))
	return repo
}

func TestPostgresCreateAndGetOrder(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	order := &domain.Order{
		UserID: "u1",
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Laptop", Quantity: 2, Price: decimal.RequireFromString("1299.99")},
			{ProductID: 3, ProductName: "Coffee Mug", Quantity: 1, Price: decimal.RequireFromString("12.00")},
		},
		TotalAmount:     decimal.RequireFromString("2611.98"),
		Status:          domain.OrderStatusConfirmed,
		PaymentStatus:   domain.PaymentStatusCompleted,
		ShippingAddress: "1 Main St, Springfield, IL 62704, USA",
	}

	require.NoError(t, repo.CreateOrder(ctx, order))
	require.NotEqual(t, uuid.Nil, order.ID)

	loaded, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "u1", loaded.UserID)
	assert.Equal(t, domain.OrderStatusConfirmed, loaded.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, loaded.PaymentStatus)
	assert.True(t, loaded.TotalAmount.Equal(decimal.RequireFromString("2611.98")))
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Laptop", loaded.Items[0].ProductName)
	assert.True(t, loaded.Items[0].Price.Equal(decimal.RequireFromString("1299.99")))
}

func TestPostgresGetOrderByIDForUser_ScopesByOwner(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	order := &domain.Order{
		UserID:        "u1",
		Items:         []domain.OrderItem{{ProductID: 1, ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("1299.99")}},
		TotalAmount:   decimal.RequireFromString("1299.99"),
		Status:        domain.OrderStatusConfirmed,
		PaymentStatus: domain.PaymentStatusCompleted,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	_, err := repo.GetOrderByIDForUser(ctx, order.ID, "u1")
	require.NoError(t, err)

	_, err = repo.GetOrderByIDForUser(ctx, order.ID, "someone-else")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgresListOrdersByUserID_NewestFirst(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		order := &domain.Order{
			UserID:        "u1",
			Items:         []domain.OrderItem{{ProductID: 1, ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("1299.99")}},
			TotalAmount:   decimal.RequireFromString("1299.99"),
			Status:        domain.OrderStatusConfirmed,
			PaymentStatus: domain.PaymentStatusCompleted,
			CreatedAt:     time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.CreateOrder(ctx, order))
	}

	orders, err := repo.ListOrdersByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))
	assert.True(t, orders[1].CreatedAt.After(orders[2].CreatedAt))
}

func TestPostgresUpdateStatus_TransitionRules(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	order := &domain.Order{
		UserID:        "u1",
		Items:         []domain.OrderItem{{ProductID: 1, ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("1299.99")}},
		TotalAmount:   decimal.RequireFromString("1299.99"),
		Status:        domain.OrderStatusConfirmed,
		PaymentStatus: domain.PaymentStatusCompleted,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled))

	err := repo.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled)
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.OrderStatusCancelled, invalid.From)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), domain.OrderStatusShipped), ErrOrderNotFound)
}
