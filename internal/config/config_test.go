package config

import (
	"strings"
	"testing"
	"time"
)

func validRTDBConfig() Config {
	return Config{
		Port:                "8081",
		DataBackend:         "rtdb",
		FirebaseAPIKey:      "key",
		FirebaseAuthDomain:  "demo.firebaseapp.com",
		FirebaseProjectID:   "demo",
		FirebaseAppID:       "1:123:web:abc",
		FirebaseDatabaseURL: "https://demo.firebaseio.com",
		SyncBatchSize:       10,
		SyncInterval:        30 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid rtdb config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc'",
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name:        "missing api key",
			mutate:      func(c *Config) { c.FirebaseAPIKey = "" },
			wantErr:     true,
			errorString: "missing required FIREBASE_API_KEY",
		},
		{
			name:        "missing database url",
			mutate:      func(c *Config) { c.FirebaseDatabaseURL = "" },
			wantErr:     true,
			errorString: "missing required FIREBASE_DATABASE_URL",
		},
		{
			name:        "database url wrong host",
			mutate:      func(c *Config) { c.FirebaseDatabaseURL = "https://demo.example.com" },
			wantErr:     true,
			errorString: "invalid FIREBASE_DATABASE_URL",
		},
		{
			name:        "database url not https",
			mutate:      func(c *Config) { c.FirebaseDatabaseURL = "http://demo.firebaseio.com" },
			wantErr:     true,
			errorString: "invalid FIREBASE_DATABASE_URL",
		},
		{
			name: "firebasedatabase.app host accepted",
			mutate: func(c *Config) {
				c.FirebaseDatabaseURL = "https://demo-default-rtdb.europe-west1.firebasedatabase.app"
			},
		},
		{
			name: "firebase not required for memory backend",
			mutate: func(c *Config) {
				c.DataBackend = "memory"
				c.FirebaseAPIKey = ""
				c.FirebaseDatabaseURL = ""
			},
		},
		{
			name: "bad amqp scheme",
			mutate: func(c *Config) {
				c.AMQPURL = "http://localhost:5672"
				c.AMQPExchange = "x"
				c.AMQPQueue = "q"
			},
			wantErr:     true,
			errorString: "invalid AMQP URL scheme",
		},
		{
			name:        "sync batch size out of range",
			mutate:      func(c *Config) { c.SyncBatchSize = 0 },
			wantErr:     true,
			errorString: "invalid sync batch size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRTDBConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Fatalf("expected error containing %q, got %v", tt.errorString, err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("SYNC_INTERVAL", "")
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("unexpected default port %q", cfg.Port)
	}
	if cfg.DataBackend != "rtdb" {
		t.Fatalf("unexpected default backend %q", cfg.DataBackend)
	}
	if cfg.SyncInterval != 30*time.Second {
		t.Fatalf("unexpected default sync interval %v", cfg.SyncInterval)
	}
}
