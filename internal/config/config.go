// Package config assembles process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/utilities"
)

const (
	defaultAddr       = "0.0.0.0:5000"
	defaultTokenTTL   = time.Hour
	defaultBcryptCost = 10
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Config holds everything the server needs at startup.
type Config struct {
	HTTPAddr       string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	SnowflakeNode  int64
	AllowedOrigins []string
	Database       database.Config
	Log            utilities.Config
}

// Load reads a .env file if one is present and then the process environment.
func Load() *Config {
	// best-effort: if no .env exists, continue with the real env
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", defaultAddr),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       parseDuration(os.Getenv("JWT_TTL"), defaultTokenTTL),
		BcryptCost:     parseInt(os.Getenv("BCRYPT_COST"), defaultBcryptCost),
		SnowflakeNode:  utilities.NodeFromEnv(),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Database:       database.ConfigFromEnv(),
		Log:            utilities.ConfigFromEnv(),
	}
}

// Validate reports configuration the server cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// String renders the config for logs with the secret redacted.
func (c *Config) String() string {
	secret := ""
	if c.JWTSecret != "" {
		secret = "[redacted]"
	}
	return fmt.Sprintf("addr=%s token_ttl=%s bcrypt_cost=%d snowflake_node=%d origins=%v jwt_secret=%s",
		c.HTTPAddr, c.TokenTTL, c.BcryptCost, c.SnowflakeNode, c.AllowedOrigins, secret)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
