package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   store URL (mongodb://..., postgres://..., memory://)
//	-n string   database name
//	-s string   JWT HMAC secret key
//	-g string   JWT signing algorithm
//	-t int      access token validity, minutes
//	-l string   log level
//
// Only recognised flags are parsed (see flagx.FilterArgs), so -c/-config and
// -env-file are left to their own readers.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-n", "-s", "-g", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreURL, "d", config.StoreURL, "account store URL")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "g", config.SigningAlgorithm, "token signing algorithm")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t overrides only when passed.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
}
