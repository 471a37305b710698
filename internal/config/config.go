package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`
	AppURL             string `envconfig:"APP_URL" default:"http://localhost:3000"`

	// Stripe settings
	StripeSecretKey      string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripePublishableKey string `envconfig:"STRIPE_PUBLISHABLE_KEY"`
	StripeWebhookSecret  string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	StripePriceStarter   string `envconfig:"STRIPE_STARTER_PRICE_ID" required:"true"`
	StripePriceGrowth    string `envconfig:"STRIPE_GROWTH_PRICE_ID" required:"true"`
	StripePricePro       string `envconfig:"STRIPE_PRO_PRICE_ID" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
