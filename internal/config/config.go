package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config carries all process configuration. It is loaded once at startup and
// injected into services; nothing reads the environment at call time.
type Config struct {
	Environment string
	Port        string
	DatabaseDSN string

	AdminToken    string
	WebhookSecret string

	PriceBasicUSD         float64
	PriceInternationalUSD float64

	Payments PaymentConfig
	Meta     MetaConfig
	Tracing  TracingConfig

	// ReferencePrefix is prepended to subscription ids to form the
	// correlation reference embedded in checkout requests and webhooks.
	ReferencePrefix string

	// SiteURL is used as the landing link for ad creatives and as the base
	// for checkout redirect URLs.
	SiteURL string
}

// PaymentConfig holds payment gateway credentials.
type PaymentConfig struct {
	MTNAccount    string
	OrangeAccount string

	FlutterwaveSecretKey string
	FlutterwaveBaseURL   string

	PaystackSecretKey string
	PaystackBaseURL   string
}

// MetaConfig holds Meta Marketing API credentials.
type MetaConfig struct {
	AccessToken string
	AdAccountID string
	PageID      string
	BaseURL     string
}

// TracingConfig configures the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Load builds a Config from the environment. A .env file is honored when
// present so local development matches deployed behavior.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Environment: getenv("ENVIRONMENT", "development"),
		Port:        getenv("PORT", "3000"),
		DatabaseDSN: getenv("DATABASE_DSN", "file:farmpro.db?cache=shared"),

		AdminToken:    getenv("ADMIN_TOKEN", "admin-token-sample"),
		WebhookSecret: os.Getenv("FLW_WEBHOOK_SECRET"),

		PriceBasicUSD:         getenvFloat("PRICE_BASIC", 5),
		PriceInternationalUSD: getenvFloat("PRICE_INTERNATIONAL", 10),

		Payments: PaymentConfig{
			MTNAccount:    os.Getenv("MTN_ACCOUNT"),
			OrangeAccount: os.Getenv("ORANGE_ACCOUNT"),

			FlutterwaveSecretKey: os.Getenv("FLW_SECRET_KEY"),
			FlutterwaveBaseURL:   getenv("FLW_BASE_URL", "https://api.flutterwave.com"),

			PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
			PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		},

		Meta: MetaConfig{
			AccessToken: os.Getenv("META_ACCESS_TOKEN"),
			AdAccountID: os.Getenv("META_AD_ACCOUNT_ID"),
			PageID:      os.Getenv("META_PAGE_ID"),
			BaseURL:     getenv("META_API_BASE_URL", "https://graph.facebook.com/v17.0"),
		},

		Tracing: TracingConfig{
			Enabled:          getenvBool("OTEL_TRACING_ENABLED", false),
			ExporterEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ExporterProtocol: getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    getenvFloat("OTEL_SAMPLING_RATIO", 1),
		},

		ReferencePrefix: getenv("REFERENCE_PREFIX", "farmpro"),
		SiteURL:         getenv("FARMPRO_URL", "https://farmpro.local"),
	}
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Module provides the process configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)
