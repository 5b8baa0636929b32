package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/belanjaaja/backend/internal/admin"
	"github.com/belanjaaja/backend/internal/auth"
	"github.com/belanjaaja/backend/internal/cart"
	"github.com/belanjaaja/backend/internal/catalog"
	"github.com/belanjaaja/backend/internal/config"
	"github.com/belanjaaja/backend/internal/db"
	handler "github.com/belanjaaja/backend/internal/handler/http"
	"github.com/belanjaaja/backend/internal/messaging"
	"github.com/belanjaaja/backend/internal/order"
	"github.com/belanjaaja/backend/internal/payment"
	"github.com/belanjaaja/backend/internal/seller"
	"github.com/belanjaaja/backend/internal/user"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "belanjaaja").Logger()

	log.Info().Msg("BelanjaAja starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	database, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	var producer *messaging.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = producer.Close() }()
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka producer enabled")
	}

	var gateway payment.Gateway
	if cfg.Midtrans.ServerKey != "" {
		gateway = payment.NewSnapGateway(cfg.Midtrans.ServerKey)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userService := user.NewService(user.NewRepository(database.Pool))
	sellerService := seller.NewService(seller.NewRepository(database.Pool))
	catalogService := catalog.NewService(catalog.NewRepository(database.Pool))
	cartService := cart.NewService(cart.NewRepository(database.Pool))
	adminService := admin.NewService(admin.NewRepository(database.Pool))

	var publisher order.Publisher
	if producer != nil {
		publisher = producer
	}
	orderService := order.NewService(order.NewRepository(database.Pool), gateway, publisher, cfg.Midtrans.ServerKey, log.Logger)

	router := handler.NewRouter(handler.RouterDeps{
		Tokens:  tokens,
		Auth:    handler.NewAuthHandler(userService, tokens),
		Address: handler.NewAddressHandler(userService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService, userService),
		Seller:  handler.NewSellerHandler(sellerService, catalogService, orderService),
		Admin:   handler.NewAdminHandler(adminService, userService, sellerService, catalogService, orderService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
