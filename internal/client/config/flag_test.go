package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-t", "3", "login", "-email", "a@example.com"}, expectPanic: false,
			expected: &Config{ServerURL: "http://127.0.0.1:9090", RequestTimeout: 3 * time.Second}},
		{name: "Test2 subcommand flags ignored", args: []string{"cmd", "me", "-token", "abc"}, expectPanic: false,
			expected: &Config{ServerURL: "", RequestTimeout: 0}},
		{name: "Test3 incorrect timeout", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsJSONTimeoutWithoutT(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{"request_timeout": "1500ms"})
	os.Args = []string{"cmd", "-c", path, "-a", "http://shop:8000", "me"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "http://shop:8000", cfg.ServerURL)
}
