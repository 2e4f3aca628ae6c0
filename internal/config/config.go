package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all environment-provided settings, read once at process start.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Delivery provider integration. When the key or secret is absent the
	// service runs in permanent fallback mode and never calls the provider.
	ProviderAPIKey         string `mapstructure:"PROVIDER_API_KEY"`
	ProviderAPISecret      string `mapstructure:"PROVIDER_API_SECRET"`
	ProviderMarket         string `mapstructure:"PROVIDER_MARKET"`
	ProviderBaseURL        string `mapstructure:"PROVIDER_BASE_URL"`
	ProviderTimeoutSeconds int    `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`

	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`

	// Serviceability cap for quotations, uniform across service classes.
	MaxQuoteDistanceKm float64 `mapstructure:"MAX_QUOTE_DISTANCE_KM"`

	// Store pickup points per fulfilment channel.
	StandardPickupLat     float64 `mapstructure:"STANDARD_PICKUP_LAT"`
	StandardPickupLng     float64 `mapstructure:"STANDARD_PICKUP_LNG"`
	StandardPickupAddress string  `mapstructure:"STANDARD_PICKUP_ADDRESS"`
	ExpressPickupLat      float64 `mapstructure:"EXPRESS_PICKUP_LAT"`
	ExpressPickupLng      float64 `mapstructure:"EXPRESS_PICKUP_LNG"`
	ExpressPickupAddress  string  `mapstructure:"EXPRESS_PICKUP_ADDRESS"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PROVIDER_MARKET", "ID")
	viper.SetDefault("PROVIDER_BASE_URL", "https://rest.sandbox.lalamove.com")
	viper.SetDefault("PROVIDER_TIMEOUT_SECONDS", 8)
	viper.SetDefault("MAX_QUOTE_DISTANCE_KM", 70.0)

	viper.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key without a default must be bound explicitly or it stays invisible
	// to Unmarshal when no .env file exists.
	for _, key := range []string{
		"DATABASE_URL",
		"PROVIDER_API_KEY",
		"PROVIDER_API_SECRET",
		"GOOGLE_MAPS_API_KEY",
		"STANDARD_PICKUP_LAT",
		"STANDARD_PICKUP_LNG",
		"STANDARD_PICKUP_ADDRESS",
		"EXPRESS_PICKUP_LAT",
		"EXPRESS_PICKUP_LNG",
		"EXPRESS_PICKUP_ADDRESS",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	err := viper.ReadInConfig()
	if err != nil {
		// Env-only deployments have no .env file; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
