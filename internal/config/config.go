package config

import (
	"fmt"
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

	// Backend selection
	DataBackend string

	// Statistics cache
	StatsCacheTTL  time.Duration
	StatsCacheSize int

	// PIN lockout policy
	PinMaxAttempts int
	PinLockBase    time.Duration
	PinLockCap     time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/daftar.db"),
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),

		StatsCacheTTL:  getEnvDuration("STATS_CACHE_TTL", 30*time.Second),
		StatsCacheSize: getEnvInt("STATS_CACHE_SIZE", 16),

		PinMaxAttempts: getEnvInt("PIN_MAX_ATTEMPTS", 5),
		PinLockBase:    getEnvDuration("PIN_LOCK_BASE", 30*time.Second),
		PinLockCap:     getEnvDuration("PIN_LOCK_CAP", 15*time.Minute),
	}
}

// Validate checks the configuration and returns a combined error for every
// invalid field.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

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

	if c.StatsCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid stats cache TTL %v: must be at least 1 second", c.StatsCacheTTL))
	}
	if c.StatsCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid stats cache size %d: must be at least 1", c.StatsCacheSize))
	}

	if c.PinMaxAttempts < 1 {
		errors = append(errors, fmt.Sprintf("invalid PIN max attempts %d: must be at least 1", c.PinMaxAttempts))
	}
	if c.PinLockBase < time.Second {
		errors = append(errors, fmt.Sprintf("invalid PIN lock base %v: must be at least 1 second", c.PinLockBase))
	}
	if c.PinLockCap < c.PinLockBase {
		errors = append(errors, fmt.Sprintf("invalid PIN lock cap %v: must be at least the base %v", c.PinLockCap, c.PinLockBase))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
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
