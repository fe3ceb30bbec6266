// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the sportstore account server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP API.
//   - StoreURL: account store location; the scheme selects the backend
//     (mongodb://, mongodb+srv://, postgres://, postgresql://, memory://).
//   - DatabaseName: MongoDB database name (ignored by other backends).
//   - SecretKey / SigningAlgorithm: HMAC secret and JWT algorithm (HS256/HS384/HS512).
//   - AccessTokenValidityDuration: default lifetime of issued tokens.
//   - StoreTimeout: connect and per-operation timeout against the store.
//   - PasswordHashAlgorithm / BcryptCost: credential hashing settings.
//   - LogFormat / LogLevel: see logging.New.
//   - CORSAllowedOrigins: origins allowed by the CORS middleware ("*" for any).
type Config struct {
	EndpointAddrHTTP            string
	StoreURL                    string
	DatabaseName                string
	SecretKey                   string
	SigningAlgorithm            string
	AccessTokenValidityDuration time.Duration
	StoreTimeout                time.Duration
	PasswordHashAlgorithm       string
	BcryptCost                  int
	LogFormat                   string
	LogLevel                    string
	CORSAllowedOrigins          []string
}

// DefaultSecretKey is the development secret set by LoadDefaults.
const DefaultSecretKey = "secretKey"

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey is insecure for production and must be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.StoreURL = "mongodb://localhost:27017"
	c.DatabaseName = "smart_sport_db"
	c.SecretKey = DefaultSecretKey
	c.SigningAlgorithm = "HS256"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.StoreTimeout = 5 * time.Second
	c.PasswordHashAlgorithm = "bcrypt"
	c.BcryptCost = 12
	c.LogFormat = "json"
	c.LogLevel = "info"
	c.CORSAllowedOrigins = []string{"*"}
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	switch c.SigningAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported signing algorithm %q (use HS256, HS384 or HS512)", c.SigningAlgorithm)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token lifetime must be positive, got %s", c.AccessTokenValidityDuration)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout)
	}
	switch c.PasswordHashAlgorithm {
	case "bcrypt":
		if c.BcryptCost < 4 || c.BcryptCost > 31 {
			return fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", c.BcryptCost)
		}
	case "argon2id":
	default:
		return fmt.Errorf("unsupported password hash algorithm %q (use bcrypt or argon2id)", c.PasswordHashAlgorithm)
	}
	if c.StoreURL == "" {
		return errors.New("store url must not be empty")
	}
	if _, err := url.Parse(c.StoreURL); err != nil {
		return fmt.Errorf("invalid store url: %w", err)
	}
	return nil
}

// UsesDefaultSecret reports whether tokens would be signed with the
// development secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env file) and finally
// from command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, nil)
	parseFlags(cfg)
	return cfg
}
