package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sportstore/internal/flagx"
	"github.com/dmitrijs2005/sportstore/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Durations accept "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	StoreURL                    string         `json:"store_url"`
	DatabaseName                string         `json:"database_name"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StoreTimeout                timex.Duration `json:"store_timeout"`
	PasswordHashAlgorithm       string         `json:"password_hash_algorithm"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Missing keys keep their current value. An unreadable file or invalid JSON
// panics: configuration errors are programmer/operator errors at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StoreURL, c.StoreURL)
	setString(&config.DatabaseName, c.DatabaseName)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	setString(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
