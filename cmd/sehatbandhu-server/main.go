package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/auth"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/booking"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/notification"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/payment"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/server"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/database"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithField("version", "1.0.0").Info("Starting SehatBandhu server")

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateSchema(ctx); err != nil {
		cancel()
		log.WithError(err).Error("Failed to initialize database schema")
		os.Exit(1)
	}
	cancel()

	// Shared collaborators
	metrics := monitoring.NewMetricsCollector("sehatbandhu")
	mailer := notification.FromConfig(&cfg.Mail, log)

	// Domain services
	bookingService := booking.NewService(cfg, log,
		booking.NewRepository(db, log), mailer, metrics)
	authService := auth.NewService(cfg, log,
		auth.NewRepository(db, log), mailer, metrics)
	paymentService := payment.NewService(cfg, log,
		payment.NewClient(&cfg.Payment, log), metrics)

	srv := server.New(cfg, log, db, &server.Services{
		Booking: bookingService,
		Auth:    authService,
		Payment: paymentService,
	}, metrics)

	// Start server in a goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down SehatBandhu server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("SehatBandhu server stopped")
}
