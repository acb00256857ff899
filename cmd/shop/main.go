package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fjod/go_shop/internal/api"
	"github.com/fjod/go_shop/internal/cart/cache"
	cartrepo "github.com/fjod/go_shop/internal/cart/repository"
	cartservice "github.com/fjod/go_shop/internal/cart/service"
	catalogrepo "github.com/fjod/go_shop/internal/catalog/repository"
	checkout "github.com/fjod/go_shop/internal/checkout/service"
	"github.com/fjod/go_shop/internal/inventory"
	"github.com/fjod/go_shop/internal/notification"
	orderrepo "github.com/fjod/go_shop/internal/order/repository"
	"github.com/fjod/go_shop/internal/payment"
	"github.com/fjod/go_shop/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	HTTPPort string

	SQLitePath        string
	CatalogMigrations string

	// Optional backends; empty values select in-memory fallbacks so the
	// binary runs standalone.
	MongoURI  string
	MongoDB   string
	RedisAddr string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	OrderMigrations  string

	KafkaBrokers []string
	KafkaTopic   string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		SQLitePath:        getEnv("SQLITE_PATH", "shop.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS", "./internal/catalog/repository/migrations"),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDB:           getEnv("MONGO_DB", "shop"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		PostgresHost:      getEnv("POSTGRES_HOST", ""),
		PostgresUser:      getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:        getEnv("POSTGRES_DB", "shop"),
		OrderMigrations:   getEnv("ORDER_MIGRATIONS", "./internal/order/repository/migrations"),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "order-events"),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}

	cfg.PostgresPort, _ = strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log, err := logger.New("shop")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Catalog and inventory share the products table, so the conditional
	// stock decrement and catalog reads see the same rows.
	db, err := catalogrepo.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer db.Close()

	catalog := catalogrepo.NewRepository(db)
	if err := catalog.RunMigrations(cfg.CatalogMigrations); err != nil {
		log.Fatal("failed to run catalog migrations", zap.Error(err))
	}
	ledger := inventory.NewSQLLedger(db)

	var cartStore cartrepo.CartRepository
	if cfg.MongoURI != "" {
		mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		repo := cartrepo.NewMongoRepository(mongoDB)
		if err := repo.CreateIndexes(ctx); err != nil {
			log.Fatal("failed to create cart indexes", zap.Error(err))
		}
		cartStore = repo
	} else {
		log.Info("MONGO_URI not set, using in-memory cart store")
		cartStore = cartrepo.NewMemoryRepository()
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cartStore.Close(closeCtx); err != nil {
			log.Warn("failed to close cart store", zap.Error(err))
		}
	}()

	var cartCache cache.CartCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		cartCache = cache.NewRedisCache(client)
	} else {
		log.Info("REDIS_ADDR not set, cart caching disabled")
	}

	cartSvc := cartservice.NewCartService(cartStore, cartCache, catalog, log)

	var orderStore orderrepo.OrderRepository
	if cfg.PostgresHost != "" {
		creds := &orderrepo.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPassword,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.OrderMigrations,
		}
		repo, err := orderrepo.NewRepository(creds)
		if err != nil {
			log.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		if err := repo.RunMigrations(creds); err != nil {
			log.Fatal("failed to run order migrations", zap.Error(err))
		}
		orderStore = repo
	} else {
		log.Info("POSTGRES_HOST not set, using in-memory order store")
		orderStore = orderrepo.NewMemoryRepository()
	}
	defer orderStore.Close()

	payments := payment.WithBreaker(payment.Simulated{})

	var notifier notification.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notification.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	} else {
		log.Info("KAFKA_BROKERS not set, order events go to the log")
		notifier = notification.NewLogNotifier(log)
	}

	checkoutSvc := checkout.NewCheckoutService(cartSvc, catalog, orderStore, ledger, payments, notifier, log)

	router := api.NewRouter(api.Handlers{
		Products: api.NewProductHandler(catalog, log),
		Cart:     api.NewCartHandler(cartSvc, log),
		Checkout: api.NewCheckoutHandler(checkoutSvc, log),
		Orders:   api.NewOrdersHandler(orderStore, checkoutSvc, log),
	}, log, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
