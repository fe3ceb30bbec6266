// Package common contains shared constants and sentinel errors used across
// the sportstore server and client.
package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-Id"
)
