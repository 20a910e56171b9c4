package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Payments source
	PaymentsSource string
	PaymentsAPIURL string
	PaymentsToken  string

	// Google Sheets
	GoogleSpreadsheetID string
	GooglePaymentsRange string

	// Import worker
	ImportInterval time.Duration

	// Budget defaults (whole dollars)
	DefaultDailyLimit    int
	DefaultCategoryLimit int

	// Calendar
	Timezone string

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_events"),

		PaymentsSource: getEnv("PAYMENTS_SOURCE", "mock"),
		PaymentsAPIURL: getEnv("PAYMENTS_API_URL", ""),
		PaymentsToken:  getEnv("PAYMENTS_API_TOKEN", ""),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GooglePaymentsRange: getEnv("GOOGLE_PAYMENTS_RANGE", "Payments!A2:E"),

		ImportInterval: getEnvDuration("IMPORT_INTERVAL", 15*time.Minute),

		DefaultDailyLimit:    getEnvInt("DEFAULT_DAILY_LIMIT", 100),
		DefaultCategoryLimit: getEnvInt("DEFAULT_CATEGORY_LIMIT", 1000),

		Timezone: getEnv("TIMEZONE", "UTC"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate payments source
	validSources := []string{"mock", "http", "sheets"}
	isValidSource := false
	for _, source := range validSources {
		if c.PaymentsSource == source {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid payments source '%s': must be one of %v", c.PaymentsSource, validSources))
	}

	if c.PaymentsSource == "http" {
		if c.PaymentsAPIURL == "" {
			errors = append(errors, "PAYMENTS_API_URL is required when using the http payments source")
		} else if parsedURL, err := url.Parse(c.PaymentsAPIURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid payments API URL '%s': %v", c.PaymentsAPIURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid payments API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.PaymentsSource == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using the sheets payments source")
		}
		if c.GooglePaymentsRange == "" {
			errors = append(errors, "Google payments range cannot be empty when using the sheets payments source")
		}
	}

	// Validate import worker configuration
	if c.ImportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid import interval %v: must be at least 1 second", c.ImportInterval))
	} else if c.ImportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid import interval %v: must be at most 24 hours", c.ImportInterval))
	}

	// Validate budget defaults
	if c.DefaultDailyLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid default daily limit %d: must be at least 1", c.DefaultDailyLimit))
	}
	if c.DefaultCategoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid default category limit %d: must be at least 1", c.DefaultCategoryLimit))
	}

	// Validate timezone
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves the configured timezone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
