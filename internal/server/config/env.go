package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/sportstore/internal/flagx"
	"github.com/joho/godotenv"
)

// envConfig lists the environment variables the server understands.
// MONGODB_URL is kept for deployments that predate STORE_URL.
type envConfig struct {
	Port                     string        `env:"PORT"`
	HTTPAddr                 string        `env:"HTTP_ADDR"`
	StoreURL                 string        `env:"STORE_URL"`
	MongoDBURL               string        `env:"MONGODB_URL"`
	DatabaseName             string        `env:"DATABASE_NAME"`
	SecretKey                string        `env:"SECRET_KEY"`
	Algorithm                string        `env:"ALGORITHM"`
	AccessTokenExpireMinutes int           `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	StoreTimeout             time.Duration `env:"STORE_TIMEOUT"`
	PasswordHashAlgorithm    string        `env:"PASSWORD_HASH_ALGORITHM"`
	BcryptCost               int           `env:"BCRYPT_COST"`
	LogFormat                string        `env:"LOG_FORMAT"`
	LogLevel                 string        `env:"LOG_LEVEL"`
	CORSAllowedOrigins       []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

const defaultEnvFile = ".env"

// parseEnv overlays environment variables onto config. When environ is nil
// the process environment is used, after loading the dotenv file named by
// -env-file (or ./.env when present). Variables already set in the process
// win over the dotenv file. Malformed values panic.
func parseEnv(config *Config, environ map[string]string) {
	var e envConfig
	var err error
	if environ == nil {
		loadDotEnv(flagx.EnvFileFlag())
		err = env.Parse(&e)
	} else {
		err = env.ParseWithOptions(&e, env.Options{Environment: environ})
	}
	if err != nil {
		panic(err)
	}

	if e.Port != "" {
		config.EndpointAddrHTTP = ":" + e.Port
	}
	setString(&config.EndpointAddrHTTP, e.HTTPAddr)
	setString(&config.StoreURL, e.MongoDBURL)
	setString(&config.StoreURL, e.StoreURL)
	setString(&config.DatabaseName, e.DatabaseName)
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.SigningAlgorithm, e.Algorithm)
	setString(&config.PasswordHashAlgorithm, e.PasswordHashAlgorithm)
	setString(&config.LogFormat, e.LogFormat)
	setString(&config.LogLevel, e.LogLevel)
	if e.AccessTokenExpireMinutes != 0 {
		config.AccessTokenValidityDuration = time.Duration(e.AccessTokenExpireMinutes) * time.Minute
	}
	if e.StoreTimeout != 0 {
		config.StoreTimeout = e.StoreTimeout
	}
	if e.BcryptCost != 0 {
		config.BcryptCost = e.BcryptCost
	}
	if len(e.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = e.CORSAllowedOrigins
	}
}

// loadDotEnv loads path into the process environment. An explicitly named
// file must exist; the implicit ./.env is optional.
func loadDotEnv(path string) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}
}
