package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/taprate/backend/internal/config"
	"github.com/taprate/backend/internal/database"
	"github.com/taprate/backend/internal/handler"
	"github.com/taprate/backend/internal/repository"
	"github.com/taprate/backend/internal/service"
	"github.com/taprate/backend/pkg/mailer"
)

func main() {
	ctx := context.Background()

	// Load .env if present, then configuration from environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables")
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting drawing service in %s mode", cfg.App.Environment)

	// Initialize database connections
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connections: %v", err)
		}
	}()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// Wire repositories, gateways and services
	companyRepo := repository.NewCompanyRepository(db.Postgres)
	entryRepo := repository.NewEntryRepository(db.Postgres)
	mail := mailer.New(cfg)

	drawingService := service.NewDrawingService(companyRepo, entryRepo, mail)
	couponService := service.NewCouponService(db.Postgres)

	router := handler.NewRouter(cfg, db,
		handler.NewDrawingHandler(drawingService),
		handler.NewCouponHandler(couponService),
	)

	// Create server; h2c lets us serve HTTP/2 without TLS
	server := &http.Server{
		Addr:           cfg.Server.GetServerAddr(),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
		Handler:        h2c.NewHandler(router, &http2.Server{}),
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting drawing service on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
