package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB/ledger endpoints), security settings
// - default: Values common across all environments (timeouts, retry policy), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Ledger     LedgerConfig
	Purchasing PurchasingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// LedgerConfig points at the commerce platform gateway.
type LedgerConfig struct {
	BaseURL string `envconfig:"LEDGER_BASE_URL" required:"true"`
	// StreamURL is the websocket endpoint prefix for live transaction updates,
	// e.g. ws://ledger.internal. Per-user paths are appended.
	StreamURL string `envconfig:"LEDGER_STREAM_URL" required:"true"`
	// Timeout bounds fetchOwnedRecords and purchase calls so an unresponsive
	// ledger cannot stall callers indefinitely.
	Timeout       time.Duration `envconfig:"LEDGER_TIMEOUT" default:"10s"`
	ReconnectBase time.Duration `envconfig:"LEDGER_RECONNECT_BASE" default:"1s"`
	ReconnectMax  time.Duration `envconfig:"LEDGER_RECONNECT_MAX" default:"30s"`
}

// PurchasingConfig is the local policy gate in front of the ledger. When a
// switch is off the coordinator fails fast without contacting the ledger.
type PurchasingConfig struct {
	Enabled             bool `envconfig:"PURCHASING_ENABLED" default:"true"`
	SubscriptionEnabled bool `envconfig:"PURCHASING_SUBSCRIPTION_ENABLED" default:"true"`
	UnitsEnabled        bool `envconfig:"PURCHASING_UNITS_ENABLED" default:"true"`
	// Re-verification retry for purchases stuck in pending (unverified grant).
	ReverifyAttempts int           `envconfig:"PURCHASING_REVERIFY_ATTEMPTS" default:"3"`
	ReverifyInterval time.Duration `envconfig:"PURCHASING_REVERIFY_INTERVAL" default:"30s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "test",
			Password: "testpass",
			DBName:   "entitlement_test",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Log: LogConfig{
			Level:          "debug",
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 9 * 60 * 60,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-testing-only",
			Duration: "24h",
		},
		Ledger: LedgerConfig{
			BaseURL:       "http://localhost:8999",
			StreamURL:     "ws://localhost:8999",
			Timeout:       10 * time.Second,
			ReconnectBase: 10 * time.Millisecond,
			ReconnectMax:  100 * time.Millisecond,
		},
		Purchasing: PurchasingConfig{
			Enabled:             true,
			SubscriptionEnabled: true,
			UnitsEnabled:        true,
			ReverifyAttempts:    3,
			ReverifyInterval:    10 * time.Millisecond,
		},
	}
}
