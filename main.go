package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"toko/internal/config"
	"toko/internal/handlers"
	"toko/internal/logger"
	"toko/internal/middleware"
	"toko/internal/repositories"
	"toko/internal/services"
	"toko/pkg/rabbitmq"
	"toko/pkg/redisx"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// appDeps are the collaborators the HTTP app is built from. Publisher and Replay may be nil.
type appDeps struct {
	DB        *gorm.DB
	Publisher services.EventPublisher
	Replay    services.ReplayCache
	JWTSecret string
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(d appDeps) *fiber.App {
	store := repositories.NewGORMStore(d.DB)

	productHandler := handlers.NewProductHandler(services.NewProductService(store.Products()))
	cartHandler := handlers.NewCartHandler(services.NewCartService(store))
	orderHandler := handlers.NewOrderHandler(
		services.NewCheckoutService(store, d.Publisher, d.Replay),
		services.NewOrderService(store, d.Publisher),
	)

	app := fiber.New(fiber.Config{AppName: "toko"})
	app.Use(recover.New())
	app.Use(middleware.RequestID(), middleware.AccessLog())

	app.Get("/health", func(c *fiber.Ctx) error {
		database := "connected"
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			database = "unavailable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   d.Publisher != nil,
		})
	})

	protected := app.Group("/api/v1", middleware.AuthRequired(d.JWTSecret))
	productHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return app
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("failed to load config", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	deps := appDeps{DB: db, JWTSecret: cfg.JWTSecret}

	// Events are best effort, so the API still starts without a broker.
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
	if err != nil {
		log.Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
	} else {
		defer mqClient.Close()
		deps.Publisher = mqClient
		err = mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			return services.AuditOrderEvent(ctx, msg.Body)
		})
		if err != nil {
			log.Warn("failed to start order event consumer", zap.Error(err))
		}
	}

	if cfg.RedisAddr != "" {
		rdb, err := redisx.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, checkout replay disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.Replay = redisx.NewCheckoutCache(rdb, cfg.IdempotencyTTL)
		}
	}

	app := newApp(deps)

	go func() {
		log.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during fiber shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}
