package config

import (
	"os"
	"time"
)

// Config carries every tunable the service reads from the environment.
// Load is called once in main and the struct is handed to constructors;
// nothing else looks at os.Getenv.
type Config struct {
	Port string

	Database Database
	Redis    Redis
	Kafka    Kafka

	JaegerEndpoint string

	Payment  Payment
	AI       AI
	Carriers Carriers
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Enabled reports whether a database host was configured. Without one
// the service keeps records in process memory.
func (d Database) Enabled() bool { return d.Host != "" }

type Redis struct {
	Host     string
	Port     string
	Password string
}

func (r Redis) Enabled() bool { return r.Host != "" }

type Kafka struct {
	Broker string
	Topic  string
}

func (k Kafka) Enabled() bool { return k.Broker != "" }

type Payment struct {
	StripeSecretKey      string
	StripePublishableKey string
}

// Mock reports whether payments run against the deterministic mock
// gateway instead of Stripe.
func (p Payment) Mock() bool { return p.StripeSecretKey == "" }

type AI struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func (a AI) Enabled() bool { return a.APIKey != "" }

// Carriers holds per-carrier API credentials. Real carrier clients are
// not wired up; a missing key simply shows up in the startup log as
// mock mode for that carrier.
type Carriers struct {
	FedExAPIKey string
	UPSAPIKey   string
	USPSAPIKey  string
	DHLAPIKey   string
}

// Missing returns the names of carriers without a configured API key.
func (c Carriers) Missing() []string {
	var out []string
	if c.FedExAPIKey == "" {
		out = append(out, "FedEx")
	}
	if c.UPSAPIKey == "" {
		out = append(out, "UPS")
	}
	if c.USPSAPIKey == "" {
		out = append(out, "USPS")
	}
	if c.DHLAPIKey == "" {
		out = append(out, "DHL")
	}
	return out
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Database: Database{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "catalogdb"),
		},
		Redis: Redis{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Kafka: Kafka{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TOPIC", "commerce_events"),
		},
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		Payment: Payment{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		},
		AI: AI{
			APIKey:  getEnv("WINDSURF_API_KEY", ""),
			Model:   getEnv("WINDSURF_MODEL", ""),
			BaseURL: getEnv("WINDSURF_BASE_URL", ""),
			Timeout: getDurationEnv("AI_TIMEOUT", 30*time.Second),
		},
		Carriers: Carriers{
			FedExAPIKey: getEnv("FEDEX_API_KEY", ""),
			UPSAPIKey:   getEnv("UPS_API_KEY", ""),
			USPSAPIKey:  getEnv("USPS_API_KEY", ""),
			DHLAPIKey:   getEnv("DHL_API_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
