package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/airvista/travelsample/api"
	"github.com/airvista/travelsample/internal/accounts"
	"github.com/airvista/travelsample/internal/airports"
	"github.com/airvista/travelsample/internal/bookings"
	"github.com/airvista/travelsample/internal/config"
	"github.com/airvista/travelsample/internal/database"
	"github.com/airvista/travelsample/internal/flights"
	"github.com/airvista/travelsample/internal/hotels"
	"github.com/airvista/travelsample/pkg/logger"
)

func main() {
	// Connection flags, matching the sample app's CLI
	dbHost := flag.String("c", "", "database host to connect to")
	dbUser := flag.String("u", "", "database username")
	dbPass := flag.String("p", "", "database password")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Create logger
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, err := logger.NewLogger(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// CLI flags override configured database connection
	if *dbHost != "" {
		cfg.Database.Host = *dbHost
	}
	if *dbUser != "" {
		cfg.Database.User = *dbUser
	}
	if *dbPass != "" {
		cfg.Database.Password = *dbPass
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.DSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	// Create schema and load the sample dataset
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate schema", zap.Error(err))
	}
	if err := database.Seed(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed sample data", zap.Error(err))
	}

	// Connect to Redis when the hotel cache is enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	}

	// Create the booking event publisher when enabled
	var publisher bookings.EventPublisher
	if cfg.Kafka.EnableEvents {
		kafkaPublisher := bookings.NewKafkaPublisher(zapLogger, cfg.Kafka.Brokers, cfg.Kafka.BookingTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Create services
	accountsSvc, err := accounts.NewService(zapLogger, db, cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	if err != nil {
		zapLogger.Fatal("Failed to create accounts service", zap.Error(err))
	}

	airportsSvc, err := airports.NewService(zapLogger, db)
	if err != nil {
		zapLogger.Fatal("Failed to create airports service", zap.Error(err))
	}

	flightsSvc, err := flights.NewService(zapLogger, db)
	if err != nil {
		zapLogger.Fatal("Failed to create flights service", zap.Error(err))
	}

	hotelCache := hotels.NewSearchCache(redisClient, cfg.Redis.CacheTTL)
	hotelsSvc, err := hotels.NewService(zapLogger, db, hotelCache)
	if err != nil {
		zapLogger.Fatal("Failed to create hotels service", zap.Error(err))
	}

	bookingsSvc, err := bookings.NewService(zapLogger, db, publisher)
	if err != nil {
		zapLogger.Fatal("Failed to create bookings service", zap.Error(err))
	}

	// Create API server
	apiServer := api.NewServer(zapLogger, accountsSvc, airportsSvc, flightsSvc, hotelsSvc, bookingsSvc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("Starting API server", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	// Wait for interrupt to shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited properly")
}
