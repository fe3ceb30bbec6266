package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.StoreURL = "memory://"
	c.BcryptCost = 4
	c.LogLevel = "error"
	c.EndpointAddrHTTP = freeAddr(t)
	return c
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewApp_InvalidConfig(t *testing.T) {
	tests := map[string]func(c *config.Config){
		"empty secret":       func(c *config.Config) { c.SecretKey = "" },
		"bad algorithm":      func(c *config.Config) { c.SigningAlgorithm = "RS256" },
		"bad hash algorithm": func(c *config.Config) { c.PasswordHashAlgorithm = "md5" },
		"unsupported store":  func(c *config.Config) { c.StoreURL = "mysql://localhost/shop" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := testConfig(t)
			mutate(c)
			_, err := newApp(context.Background(), c, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestNewApp_WarnsAboutDefaultSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		wantWarn bool
	}{
		{name: "default secret", secret: config.DefaultSecretKey, wantWarn: true},
		{name: "custom secret", secret: "a-real-secret", wantWarn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testConfig(t)
			c.LogLevel = "warn"
			c.SecretKey = tt.secret

			var logs bytes.Buffer
			_, err := newApp(context.Background(), c, &logs)
			require.NoError(t, err)

			if tt.wantWarn {
				assert.Contains(t, logs.String(), "development secret key")
			} else {
				assert.NotContains(t, logs.String(), "development secret key")
			}
			assert.NotContains(t, logs.String(), tt.secret+`"`)
		})
	}
}

func TestApp_RunServesAndStops(t *testing.T) {
	c := testConfig(t)
	app, err := newApp(context.Background(), c, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	url := "http://" + c.EndpointAddrHTTP + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
