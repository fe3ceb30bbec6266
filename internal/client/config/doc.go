// Package config loads runtime configuration for the sportstore CLI.
//
// Sources, later wins:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags -a (server URL) and -t (timeout in seconds).
//
// JSON schema:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s"
//	}
package config
