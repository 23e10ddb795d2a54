// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/product"
	mongodb "github.com/maisonheirbloom/storefront-api/internal/infrastructure/database/mongo"
	redisdb "github.com/maisonheirbloom/storefront-api/internal/infrastructure/database/redis"
	"github.com/maisonheirbloom/storefront-api/internal/interfaces/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to Redis
	redisClient, err := redisdb.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Connect to MongoDB
	mongoClient, err := mongodb.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Close()

	// Health checks
	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	if err := mongoClient.Health(); err != nil {
		log.Fatalf("MongoDB health check failed: %v", err)
	}

	// Prepare the catalog
	productService := product.NewService(mongoClient.GetDatabase(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := productService.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Index creation failed: %v", err)
	}

	// Seed initial catalog data in development
	if cfg.IsDevelopment() {
		if err := productService.SeedCatalog(ctx); err != nil {
			log.Printf("Warning: Catalog seeding failed: %v", err)
		}
	}
	cancel()

	log.Println("All systems operational")

	// Create and start HTTP server
	server := http.NewServer(cfg, redisClient, mongoClient)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("Server shutdown completed")
}
