package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecofinds/cache"
	"ecofinds/config"
	"ecofinds/database"
	ecogrpc "ecofinds/grpc"
	"ecofinds/handlers"
	"ecofinds/kafka"
	"ecofinds/middleware"
	"ecofinds/repository"
	"ecofinds/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "probe the local gRPC health endpoint and exit")
	flag.Parse()

	cfg := config.Load()

	if *healthcheck {
		os.Exit(probe(cfg.GRPCAddr))
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.SeedDemoData {
		if err := database.SeedDemoData(context.Background(), db, cfg.DemoPassword, logger); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	// Initialize Redis cache (optional)
	var (
		redisClient  *redis.Client
		productCache service.ProductCache
	)
	if cfg.RedisAddr != "" {
		redisClient, err = cache.InitRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		productCache = cache.NewProductCache(redisClient, cache.DefaultTTL)
	}

	// Initialize Kafka producer (optional)
	var (
		publisher   *kafka.OrderPublisher
		orderEvents service.OrderEvents
	)
	if cfg.KafkaBroker != "" {
		producer, err := kafka.InitProducer(cfg.KafkaBroker, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
		publisher = kafka.NewOrderPublisher(producer, cfg.KafkaTopic, logger)
		orderEvents = publisher
	}

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing("ecofinds", cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	store := repository.New(db)
	tokens := service.NewTokenManager(cfg.JWTSecret, service.TokenTTL)
	router := handlers.NewRouter(handlers.Services{
		Auth:    service.NewAuthService(store, tokens, logger),
		Catalog: service.NewCatalogService(store, productCache, logger),
		Orders:  service.NewOrderService(store, orderEvents, logger),
		Chat:    service.NewChatService(store, logger),
	}, logger)

	// Start REST server
	restSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		if err := restSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("EcoFinds REST API started", zap.String("addr", cfg.HTTPAddr))

	// Start gRPC health server
	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("Failed to listen on gRPC port", zap.Error(err))
	}

	health := ecogrpc.NewHealthServer(db, logger)
	grpcServer := ecogrpc.NewServer(health)

	go func() {
		if err := grpcServer.Serve(grpcListener); err != nil {
			logger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	logger.Info("EcoFinds gRPC health server started", zap.String("addr", cfg.GRPCAddr))

	gracefulShutdown(restSrv, grpcServer, health, db, redisClient, publisher, shutdownTracing, logger)
}

// gracefulShutdown handles SIGINT/SIGTERM and shuts down all services gracefully
func gracefulShutdown(
	restSrv *http.Server,
	grpcServer *grpc.Server,
	health *ecogrpc.HealthServer,
	db *sql.DB,
	redisClient *redis.Client,
	publisher *kafka.OrderPublisher,
	shutdownTracing func(),
	logger *zap.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received. Exiting...")

	health.Drain()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop REST server
	if err := restSrv.Shutdown(ctx); err != nil {
		logger.Error("REST server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("REST server stopped gracefully")
	}

	// Stop gRPC server
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped gracefully")

	// Close Kafka producer
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close Kafka producer", zap.Error(err))
		} else {
			logger.Info("Kafka producer closed gracefully")
		}
	}

	// Close Redis cache
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis cache", zap.Error(err))
		} else {
			logger.Info("Redis cache closed gracefully")
		}
	}

	// Close database
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	} else {
		logger.Info("Database connection closed gracefully")
	}

	// Shutdown tracing
	shutdownTracing()
	logger.Info("EcoFinds exited gracefully")
}

// probe exits 0 when the local gRPC health check reports SERVING.
func probe(addr string) int {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 1
	}
	if host == "" {
		host = "127.0.0.1"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	serving, err := ecogrpc.Probe(ctx, net.JoinHostPort(host, port),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil || !serving {
		return 1
	}
	return 0
}
