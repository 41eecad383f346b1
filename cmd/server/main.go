package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/flytau/airline-reservation/internal/app"
	"github.com/flytau/airline-reservation/internal/config"
	"github.com/flytau/airline-reservation/internal/database"
	"github.com/flytau/airline-reservation/internal/handler"
	"github.com/flytau/airline-reservation/internal/middleware"
	"github.com/flytau/airline-reservation/internal/queue"
	"github.com/flytau/airline-reservation/internal/repository"
	"github.com/flytau/airline-reservation/internal/router"
	"github.com/flytau/airline-reservation/internal/sched"
	"github.com/flytau/airline-reservation/migrations"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := app.NewLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(database.Config{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	migrator, err := app.NewMigrator(db, migrations.FS)
	if err != nil {
		log.Fatalf("migrator setup failed: %v", err)
	}
	ctx := context.Background()
	if err := migrator.Run(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	if v, err := migrator.Version(ctx); err == nil {
		logger.Info("database migrated", zap.Int64("version", v))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting and response cache disabled")
	}

	// Repositories and the scheduling engine.
	schedStore := repository.NewSchedStore(db)
	continuity := sched.NewContinuityChecker(schedStore, cfg.HomeBase)
	resolver := sched.NewResolver(schedStore, continuity)
	reconciler := sched.NewReconciler(schedStore, logger)

	routeRepo := repository.NewRouteRepo(db)
	aircraftRepo := repository.NewAircraftRepo(db)
	crewRepo := repository.NewCrewRepo(db)
	flightRepo := repository.NewFlightRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	reportRepo := repository.NewReportRepo(db)

	accessTTL := time.Duration(cfg.AccessTTLMin) * time.Minute
	handlers := router.Handlers{
		Health: handler.NewHealthHandler(db),
		Auth:   handler.NewAuthHandler(customerRepo, crewRepo, cfg.JWTSecret, accessTTL, cfg.BcryptCost),
		Public: handler.NewPublicFlightHandler(flightRepo, routeRepo, aircraftRepo),
		Booking: handler.NewBookingHandler(bookingRepo, flightRepo, aircraftRepo,
			customerRepo, logger),
		Flights: handler.NewManagerFlightHandler(flightRepo, routeRepo, aircraftRepo,
			bookingRepo, schedStore, resolver, cfg.HomeBase, logger),
		Fleet:   handler.NewFleetHandler(aircraftRepo, crewRepo, routeRepo, cfg.BcryptCost),
		Reports: handler.NewReportHandler(reportRepo),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.Reconcile(reconciler, logger))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	handlers.RegisterRoutes(e, cfg.JWTSecret, rdb, config.LoadCacheConfig())

	// Background reconcile loop, so statuses converge without traffic.
	scheduler := app.NewScheduler(reconciler, cfg.ReconcileInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Passenger notification consumer.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			logger.Error("notification consumer stopped", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("home_base", cfg.HomeBase))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
