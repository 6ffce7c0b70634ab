package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo
)

type Config struct {
	// HTTP Server
	Port         string
	CookieSecure bool

	// Upstream API
	APIBaseURL string
	APITimeout time.Duration

	// Revalidation cache
	DedupeInterval  time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	CleanupInterval time.Duration

	// Sessions
	SessionTTL time.Duration
	SessionMax int

	// AMQP invalidation bus, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Rate limiting
	RateLimitPerMinute int

	LogLevel string

	// Timezone names the location due dates and "today" are computed in
	Timezone string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
		APITimeout: getEnvDuration("API_TIMEOUT", 9*time.Second),

		DedupeInterval:  getEnvDuration("CACHE_DEDUPE_INTERVAL", 2*time.Second),
		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 256),
		CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionMax: getEnvInt("SESSION_MAX", 1000),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "omonat.invalidate"),
		AMQPQueue:    getEnv("AMQP_QUEUE", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		Timezone: getEnv("APP_TIMEZONE", "Asia/Tashkent"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.APITimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at least 1 second", c.APITimeout))
	} else if c.APITimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at most 1 minute", c.APITimeout))
	}

	if c.DedupeInterval < 0 {
		errors = append(errors, fmt.Sprintf("invalid dedupe interval %v: must not be negative", c.DedupeInterval))
	}
	if c.CacheTTL < c.DedupeInterval {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least the dedupe interval %v", c.CacheTTL, c.DedupeInterval))
	}
	if c.CacheMaxEntries < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheMaxEntries))
	}
	if c.CleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cleanup interval %v: must be at least 1 second", c.CleanupInterval))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionMax < 1 {
		errors = append(errors, fmt.Sprintf("invalid session limit %d: must be at least 1", c.SessionMax))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// BusEnabled reports whether cross-instance invalidation is configured
func (c *Config) BusEnabled() bool {
	return c.AMQPURL != ""
}

// Location returns the configured timezone, UTC if it cannot be loaded.
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
