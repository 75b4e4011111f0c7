// Package config loads process configuration from the environment.
// A .env file in the working directory is read first if present; real
// environment variables take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Server holds the RPC server configuration.
type Server struct {
	// HTTP Server
	Port        string
	MetricsPath string

	// Database
	DBPath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// AMQP (optional; events are dropped when AMQPURL is empty)
	AMQPURL      string
	AMQPExchange string

	// Display
	Locale string
}

// Client holds the terminal client configuration.
type Client struct {
	ServerURL string
	Email     string
	Password  string
	Locale    string
}

const devJWTSecret = "debitum-dev-secret-change-me"

// LoadDotEnv reads .env files into the environment. Missing files are fine.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadServer reads the server configuration.
func LoadServer() (*Server, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Server{
		Port:        getEnv("PORT", "8080"),
		MetricsPath: getEnv("METRICS_PATH", "/metrics"),

		DBPath: getEnv("DB_PATH", "./data/debitum.db"),

		JWTSecret: getEnv("JWT_SECRET", devJWTSecret),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "debitum"),

		Locale: getEnv("DISPLAY_LOCALE", "en"),
	}
	return cfg, nil
}

// LoadClient reads the terminal client configuration.
func LoadClient() (*Client, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	return &Client{
		ServerURL: getEnv("DEBITUM_SERVER", "http://localhost:8080"),
		Email:     getEnv("DEBITUM_EMAIL", ""),
		Password:  getEnv("DEBITUM_PASSWORD", ""),
		Locale:    getEnv("DISPLAY_LOCALE", "en"),
	}, nil
}

// DevSecret reports whether the server runs with the built-in JWT secret.
func (c *Server) DevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Language parses the configured display locale.
func (c *Server) Language() language.Tag {
	return parseLocale(c.Locale)
}

// Language parses the configured display locale.
func (c *Client) Language() language.Tag {
	return parseLocale(c.Locale)
}

// Validate validates the configuration and returns an error if invalid
func (c *Server) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Sprintf("invalid metrics path '%s': must start with '/'", c.MetricsPath))
	}

	if len(c.JWTSecret) < 16 {
		errs = append(errs, "JWT secret must be at least 16 characters")
	}
	if c.TokenTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
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
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("invalid display locale '%s': %v", c.Locale, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Validate validates the client configuration.
func (c *Client) Validate() error {
	var errs []string

	if u, err := url.Parse(c.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Sprintf("invalid server URL '%s': must be http(s)", c.ServerURL))
	}
	if c.Email == "" {
		errs = append(errs, "email is required")
	}
	if c.Password == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
