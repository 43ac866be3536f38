package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/campuseats-backend/api/controllers"
	"github.com/angelmondragon/campuseats-backend/api/routes"
	"github.com/angelmondragon/campuseats-backend/internal/admin"
	"github.com/angelmondragon/campuseats-backend/internal/checkout"
	"github.com/angelmondragon/campuseats-backend/internal/marketplace"
	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/internal/orders"
	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/internal/users"
	"github.com/angelmondragon/campuseats-backend/pkg/config"
	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/instance"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/mail"
	"github.com/angelmondragon/campuseats-backend/pkg/metrics"
	"github.com/angelmondragon/campuseats-backend/pkg/migrate"
	"github.com/angelmondragon/campuseats-backend/pkg/redis"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
	"github.com/angelmondragon/campuseats-backend/pkg/storage/minio"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	pingers := map[string]controllers.Pinger{"db": dbClient, "redis": nil}
	var idempotency redis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		idempotency = redisClient
		pingers["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis disabled, checkout retries are not deduplicated")
	}

	var uploader storage.Uploader
	if cfg.Media.Enabled() {
		mediaClient, err := minio.New(ctx, cfg.Media, logg)
		if err != nil {
			return err
		}
		uploader = mediaClient
	} else {
		logg.Warn(ctx, "media store disabled, logo and image uploads will fail")
	}

	mailer, err := mail.New(cfg.Mail)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	svc, err := buildServices(dbClient, uploader, mailer, orderMetrics, logg)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Infra{
		Pingers:     pingers,
		Idempotency: idempotency,
		Gatherer:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
	}, svc)

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(dbClient *db.Client, uploader storage.Uploader, mailer mail.Sender, m *metrics.OrderMetrics, logg *logger.Logger) (routes.Services, error) {
	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	storeRepo := stores.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	optionRepo := options.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)

	usersSvc, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, err
	}
	productsSvc, err := products.NewService(productRepo, optionRepo, uploader)
	if err != nil {
		return routes.Services{}, err
	}
	optionsSvc, err := options.NewService(dbClient, optionRepo)
	if err != nil {
		return routes.Services{}, err
	}
	storesSvc, err := stores.NewService(dbClient, storeRepo, productsSvc, uploader)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutSvc, err := checkout.NewService(dbClient, storeRepo, productRepo, optionRepo, orderRepo, m, logg)
	if err != nil {
		return routes.Services{}, err
	}
	ordersSvc, err := orders.NewService(orderRepo, orders.Lookups{
		Products: productRepo,
		Options:  optionRepo,
		Stores:   storeRepo,
		Users:    userRepo,
	}, m, logg)
	if err != nil {
		return routes.Services{}, err
	}
	marketplaceSvc, err := marketplace.NewService(marketplace.NewRepository(conn), storeRepo, productRepo, optionsSvc)
	if err != nil {
		return routes.Services{}, err
	}
	adminSvc, err := admin.NewService(storeRepo, userRepo, orderRepo, mailer, logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Users:       usersSvc,
		Stores:      storesSvc,
		Products:    productsSvc,
		Options:     optionsSvc,
		Checkout:    checkoutSvc,
		Orders:      ordersSvc,
		Marketplace: marketplaceSvc,
		Admin:       adminSvc,
	}, nil
}
