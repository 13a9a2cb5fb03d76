package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"food-delivery/config"
	"food-delivery/controllers"
	"food-delivery/libs"
	"food-delivery/middleware"
	"food-delivery/repositories"
	"food-delivery/services"
	"food-delivery/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App is the fully wired HTTP application and the resources it owns.
type App struct {
	Router *gin.Engine
	Orders *services.OrderService

	pool   *pgxpool.Pool
	redis  *redis.Client
	events *libs.EventPublisher
}

// NewApp connects to the stores, runs migrations when enabled and builds the router.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "max_conns", cfg.DBMaxConns)

	if cfg.RunMigrations {
		applied, err := config.RunMigrations(cfg.DSN())
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("migrations checked", "applied", applied)
	}

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
	} else if rdb != nil {
		logger.Info("redis connected")
	}

	var events *libs.EventPublisher
	if cfg.AMQPURL != "" {
		events, err = libs.NewEventPublisher(cfg.AMQPURL, cfg.OrderEventsQueue)
		if err != nil {
			logger.Warn("rabbitmq unavailable, order events disabled", "error", err)
		} else {
			logger.Info("rabbitmq connected", "queue", cfg.OrderEventsQueue)
		}
	}

	app := &App{pool: pool, redis: rdb, events: events}
	app.Router, app.Orders = buildRouter(cfg, logger, pool, rdb)
	if events != nil {
		app.Orders.WithEvents(events)
	}
	return app, nil
}

func buildRouter(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client) (*gin.Engine, *services.OrderService) {
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	cache := libs.NewRedisCache(rdb, cfg.CacheTTL)

	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool, repositories.NewSessionPool(pool, cfg.DBAcquireTimeout))
	reviewRepo := repositories.NewReviewRepository(pool)
	teamRepo := repositories.NewTeamRepository(pool)

	orderService := services.NewOrderService(orderRepo, services.OrderPolicy{
		LegacyDefaults: cfg.OrderLegacyDefaults,
		TxTimeout:      cfg.OrderTxTimeout,
	}, logger).WithReplayCache(libs.NewIdempotencyStore(rdb, cfg.IdempotencyTTL))

	mailer, err := libs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	switch {
	case err == nil:
		orderService.WithNotifier(mailer, userRepo)
	case errors.Is(err, libs.ErrMailerNotConfigured):
		logger.Info("order confirmation mail disabled")
	default:
		logger.Warn("mailer setup failed", "error", err)
	}

	productService := services.NewProductService(productRepo, cache, logger)

	ctrl := Controllers{
		Auth:     controllers.NewAuthController(services.NewAuthService(userRepo, tokens)),
		User:     controllers.NewUserController(services.NewUserService(userRepo)),
		Product:  controllers.NewProductController(productService),
		Category: controllers.NewCategoryController(productService),
		Order:    controllers.NewOrderController(orderService),
		History:  controllers.NewHistoryController(orderService),
		Review:   controllers.NewReviewController(services.NewReviewService(reviewRepo, productRepo, cache, logger)),
		Team:     controllers.NewTeamController(services.NewTeamService(teamRepo)),
		System:   controllers.NewSystemController(userRepo),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
	)
	SetupRoutes(router, ctrl, tokens, cfg.StaticDir)

	return router, orderService
}

// Close waits for pending order notifications and releases the store and broker connections.
func (a *App) Close() error {
	a.Orders.Wait()
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			return fmt.Errorf("close rabbitmq: %w", err)
		}
	}
	a.pool.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
	}
	return nil
}
