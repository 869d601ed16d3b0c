package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	TLS        TLSConfig
	Session    SessionConfig
	Appbase    AppbaseConfig
	Aggregator AggregatorConfig
	Payments   PaymentsConfig
	PDF        PDFConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
}

// AppbaseConfig configures the backend-as-a-service vendor that owns
// identity sessions and the document database.
type AppbaseConfig struct {
	Endpoint              string
	ProjectID             string
	APIKey                string
	DatabaseID            string
	BankCollection        string
	TransactionCollection string
}

// AggregatorConfig configures the financial-data aggregation vendor.
type AggregatorConfig struct {
	BaseURL       string
	ClientID      string
	Secret        string
	MaxRetries    int
	FanoutTimeout time.Duration
}

// PaymentsConfig configures the payment-rail vendor.
type PaymentsConfig struct {
	BaseURL string
	APIKey  string
}

type PDFConfig struct {
	ChromePath    string
	LoadTimeout   time.Duration
	RenderTimeout time.Duration
	MaxConcurrent int
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	sessionMaxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}

	aggRetries, err := strconv.Atoi(getEnv("AGGREGATOR_MAX_RETRIES", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGGREGATOR_MAX_RETRIES: %w", err)
	}
	fanoutTimeout, err := time.ParseDuration(getEnv("AGGREGATOR_FANOUT_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGGREGATOR_FANOUT_TIMEOUT: %w", err)
	}

	pdfLoadTimeout, err := time.ParseDuration(getEnv("PDF_LOAD_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PDF_LOAD_TIMEOUT: %w", err)
	}
	pdfRenderTimeout, err := time.ParseDuration(getEnv("PDF_RENDER_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PDF_RENDER_TIMEOUT: %w", err)
	}
	pdfMaxConcurrent, err := strconv.Atoi(getEnv("PDF_MAX_CONCURRENT", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid PDF_MAX_CONCURRENT: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "horizon-session"),
			MaxAge:     sessionMaxAge,
		},
		Appbase: AppbaseConfig{
			Endpoint:              getEnv("APPBASE_ENDPOINT", "https://cloud.appbase.io/v1"),
			ProjectID:             getEnv("APPBASE_PROJECT", ""),
			APIKey:                getEnv("APPBASE_KEY", ""),
			DatabaseID:            getEnv("APPBASE_DATABASE_ID", ""),
			BankCollection:        getEnv("APPBASE_BANK_COLLECTION_ID", "banks"),
			TransactionCollection: getEnv("APPBASE_TRANSACTION_COLLECTION_ID", "transactions"),
		},
		Aggregator: AggregatorConfig{
			BaseURL:       getEnv("AGGREGATOR_URL", "https://api.bankfeed.io"),
			ClientID:      getEnv("AGGREGATOR_CLIENT_ID", ""),
			Secret:        getEnv("AGGREGATOR_SECRET", ""),
			MaxRetries:    aggRetries,
			FanoutTimeout: fanoutTimeout,
		},
		Payments: PaymentsConfig{
			BaseURL: getEnv("PAYMENTS_URL", "https://api.railpay.io"),
			APIKey:  getEnv("PAYMENTS_KEY", ""),
		},
		PDF: PDFConfig{
			ChromePath:    getEnv("PDF_CHROME_PATH", ""),
			LoadTimeout:   pdfLoadTimeout,
			RenderTimeout: pdfRenderTimeout,
			MaxConcurrent: pdfMaxConcurrent,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "horizon-api"),
			Environment:  getEnv("APP_ENV", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("OTEL_METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.Appbase.ProjectID == "" {
		return nil, fmt.Errorf("APPBASE_PROJECT is required")
	}
	if cfg.Appbase.APIKey == "" {
		return nil, fmt.Errorf("APPBASE_KEY is required")
	}
	if cfg.Appbase.DatabaseID == "" {
		return nil, fmt.Errorf("APPBASE_DATABASE_ID is required")
	}
	if cfg.Aggregator.ClientID == "" || cfg.Aggregator.Secret == "" {
		return nil, fmt.Errorf("AGGREGATOR_CLIENT_ID and AGGREGATOR_SECRET are required")
	}
	if cfg.PDF.MaxConcurrent < 1 {
		return nil, fmt.Errorf("PDF_MAX_CONCURRENT must be at least 1")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
