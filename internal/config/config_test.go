package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8082",
		DataBackend:    "memory",
		SQLiteDBPath:   "./test.db",
		StatsCacheTTL:  30 * time.Second,
		StatsCacheSize: 16,
		PinMaxAttempts: 5,
		PinLockBase:    30 * time.Second,
		PinLockCap:     15 * time.Minute,
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
			name:   "valid memory backend config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "stats cache TTL too small",
			mutate:      func(c *Config) { c.StatsCacheTTL = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid stats cache TTL",
		},
		{
			name:        "PIN lock cap below base",
			mutate:      func(c *Config) { c.PinLockCap = time.Second },
			wantErr:     true,
			errorString: "invalid PIN lock cap",
		},
		{
			name: "multiple errors are combined",
			mutate: func(c *Config) {
				c.Port = "abc"
				c.PinMaxAttempts = 0
			},
			wantErr:     true,
			errorString: "invalid PIN max attempts 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "SQLITE_DB_PATH", "DATA_BACKEND",
		"STATS_CACHE_TTL", "STATS_CACHE_SIZE",
		"PIN_MAX_ATTEMPTS", "PIN_LOCK_BASE", "PIN_LOCK_CAP",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8082" {
		t.Errorf("Port = %q, want 8082", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %q, want sqlite", cfg.DataBackend)
	}
	if cfg.PinMaxAttempts != 5 {
		t.Errorf("PinMaxAttempts = %d, want 5", cfg.PinMaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PIN_LOCK_BASE", "1m")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if cfg.PinLockBase != time.Minute {
		t.Errorf("PinLockBase = %v, want 1m", cfg.PinLockBase)
	}
}
