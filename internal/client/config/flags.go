package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/flagx"
)

// Flags owned by this package. The CLI strips them before parsing its
// subcommand.
var Flags = []string{"-a", "-t", "-c", "-config", "--config"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the server (default from Config)
//	-t int      request timeout in seconds (default from Config)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
