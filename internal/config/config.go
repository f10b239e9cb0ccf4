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

	// Backend selection
	DataBackend string

	// Firebase (Realtime Database store + Identity Provider)
	FirebaseAPIKey            string
	FirebaseAuthDomain        string
	FirebaseProjectID         string
	FirebaseStorageBucket     string // optional
	FirebaseMessagingSenderID string // optional
	FirebaseAppID             string
	FirebaseDatabaseURL       string

	// SQLite backend
	SQLiteDBPath string

	// AMQP (sheets-export sync pipeline)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	SheetsSpreadsheetID string
	SheetsSheetName     string

	// Summarization
	GeminiAPIKey string
	GeminiModel  string

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", "rtdb"),

		FirebaseAPIKey:            getEnv("FIREBASE_API_KEY", ""),
		FirebaseAuthDomain:        getEnv("FIREBASE_AUTH_DOMAIN", ""),
		FirebaseProjectID:         getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseStorageBucket:     getEnv("FIREBASE_STORAGE_BUCKET", ""),
		FirebaseMessagingSenderID: getEnv("FIREBASE_MESSAGING_SENDER_ID", ""),
		FirebaseAppID:             getEnv("FIREBASE_APP_ID", ""),
		FirebaseDatabaseURL:       getEnv("FIREBASE_DATABASE_URL", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/watchdog.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "watchdog"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "export_entries"),

		SheetsSpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsSheetName:     getEnv("SHEETS_SHEET_NAME", "Ledger"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 30*time.Second),
	}
}

// Validate checks the configuration and returns a combined error listing
// every problem. The process refuses to start on any of them.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"rtdb", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// The Firebase block backs both the rtdb store and the identity
	// provider; everything except storage bucket and messaging sender id
	// is required when the rtdb backend is selected.
	if c.DataBackend == "rtdb" {
		errs = append(errs, c.validateFirebase()...)
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SyncBatchSize < 1 || c.SyncBatchSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid sync batch size %d: must be between 1 and 1000", c.SyncBatchSize))
	}
	if c.SyncInterval < time.Second || c.SyncInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be between 1s and 24h", c.SyncInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) validateFirebase() []string {
	var errs []string
	required := []struct {
		name  string
		value string
	}{
		{"FIREBASE_API_KEY", c.FirebaseAPIKey},
		{"FIREBASE_AUTH_DOMAIN", c.FirebaseAuthDomain},
		{"FIREBASE_PROJECT_ID", c.FirebaseProjectID},
		{"FIREBASE_APP_ID", c.FirebaseAppID},
		{"FIREBASE_DATABASE_URL", c.FirebaseDatabaseURL},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Sprintf("missing required %s", r.name))
		}
	}
	if c.FirebaseDatabaseURL != "" && !validDatabaseURL(c.FirebaseDatabaseURL) {
		errs = append(errs, fmt.Sprintf(
			"invalid FIREBASE_DATABASE_URL %q: must start with https:// and end with .firebaseio.com or .firebasedatabase.app",
			c.FirebaseDatabaseURL))
	}
	return errs
}

// validDatabaseURL checks the expected Realtime Database host pattern.
func validDatabaseURL(u string) bool {
	u = strings.TrimRight(u, "/")
	if !strings.HasPrefix(u, "https://") {
		return false
	}
	return strings.HasSuffix(u, ".firebaseio.com") || strings.HasSuffix(u, ".firebasedatabase.app")
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
