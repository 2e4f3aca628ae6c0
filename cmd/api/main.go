package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"delivery-quotation/internal/config"
	"delivery-quotation/internal/geocode"
	"delivery-quotation/internal/models"
	"delivery-quotation/internal/modules/quotation"
	"delivery-quotation/internal/modules/webhook"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	creds := quotation.ProviderCredentials{
		APIKey:    cfg.ProviderAPIKey,
		APISecret: cfg.ProviderAPISecret,
		Market:    cfg.ProviderMarket,
		BaseURL:   cfg.ProviderBaseURL,
	}
	if !creds.Configured() {
		log.Println("provider credentials missing; running in permanent fallback mode")
	}

	var geocoder quotation.GeocoderInterface
	if cfg.GoogleMapsAPIKey != "" {
		g, err := geocode.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Fatalf("failed to init geocoder: %v", err)
		}
		geocoder = g
	} else {
		log.Println("GOOGLE_MAPS_API_KEY missing; requests without coordinates will be rejected")
	}

	providerClient := quotation.NewProviderClient(creds, time.Duration(cfg.ProviderTimeoutSeconds)*time.Second)

	quoteSvc := quotation.NewService(
		creds,
		providerClient,
		geocoder,
		quotation.PickupPoint{
			Coordinate: models.Coordinate{Lat: cfg.StandardPickupLat, Lng: cfg.StandardPickupLng},
			Address:    cfg.StandardPickupAddress,
		},
		quotation.PickupPoint{
			Coordinate: models.Coordinate{Lat: cfg.ExpressPickupLat, Lng: cfg.ExpressPickupLng},
			Address:    cfg.ExpressPickupAddress,
		},
		cfg.MaxQuoteDistanceKm,
	)
	quoteHandler := quotation.NewHandler(quoteSvc)

	webhookRepo := webhook.NewRepository(dbPool)
	webhookSvc := webhook.NewService(webhookRepo)
	webhookHandler := webhook.NewHandler(webhookSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	api := e.Group("/api")
	quoteHandler.RegisterRoutes(api)
	webhookHandler.RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
