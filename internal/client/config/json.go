package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sportstore/internal/flagx"
	"github.com/dmitrijs2005/sportstore/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// request_timeout may be a string like "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Keys missing from the file keep their current values. Read and
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
