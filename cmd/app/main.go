package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heinthant2k4/sports-arena-booking/internal/booking"
	"github.com/heinthant2k4/sports-arena-booking/internal/config"
	"github.com/heinthant2k4/sports-arena-booking/internal/dashboard"
	"github.com/heinthant2k4/sports-arena-booking/internal/db"
	"github.com/heinthant2k4/sports-arena-booking/internal/email"
	"github.com/heinthant2k4/sports-arena-booking/internal/events"
	"github.com/heinthant2k4/sports-arena-booking/internal/facility"
	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
	"github.com/heinthant2k4/sports-arena-booking/internal/server"
	"github.com/heinthant2k4/sports-arena-booking/internal/user"
)

// @title Sports Arena Booking API
// @version 1.0
// @description Facility booking for the university sports arena.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}
	logger.Info("Starting Sports Arena Booking", "port", cfg.Port, "timezone", cfg.BookingTimezone)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
		publisher = p
		logger.Info("Publishing booking events", "exchange", cfg.AMQPExchange)
	}
	defer publisher.Close()

	emailService := email.New(rdb, email.SMTPConfig{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	userService := user.NewService(user.NewRepository(database), cfg.JWTSecret)
	facilityService := facility.NewService(
		facility.NewRepository(database),
		facility.NewRedisCache(rdb, cfg.CacheTTL),
	)
	bookingService := booking.NewService(
		booking.NewRepository(database),
		facilityService,
		userService,
		emailService,
		publisher,
		booking.Options{
			Location:        cfg.Location(),
			RequireApproval: cfg.BookingRequireApproval,
		},
	)
	dashboardService := dashboard.NewService(dashboard.NewRepository(database), cfg.Location(), nil)

	srv := server.New(server.Deps{
		Config:     cfg,
		DB:         database,
		Redis:      rdb,
		Mailer:     emailService,
		Users:      userService,
		Facilities: facilityService,
		Bookings:   bookingService,
		Dashboard:  dashboardService,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("Server error: %v", err)
		}
	}

	logger.Info("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
