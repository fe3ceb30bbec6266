package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	for _, u := range []string{"127.0.0.1:8000", "ftp://host", "://"} {
		_, err := NewClient(u, time.Second)
		assert.Error(t, err, u)
	}
}

func TestClient_Register(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Nguyen Van A", body["full_name"])
		assert.Equal(t, "secret1", body["password"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"abc","full_name":"Nguyen Van A","email":"a@example.com","date_of_birth":"2000-01-01T00:00:00Z","gender":"male","is_admin":false,"created_at":"2026-01-02T03:04:05Z"}`)
	})

	a, err := c.Register(context.Background(), Registration{
		FullName: "Nguyen Van A", Email: "a@example.com", DateOfBirth: "2000-01-01", Gender: "male", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", a.ID)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), a.DateOfBirth)
}

func TestClient_LoginAndBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","user":{"_id":"abc"}}`)
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"detail":"not authenticated"}`)
				return
			}
			_, _ = io.WriteString(w, `{"_id":"abc"}`)
		case "/api/auth/update-profile":
			assert.Equal(t, http.MethodPatch, r.Method)
			b, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"gender":"other"}`, string(b))
			_, _ = io.WriteString(w, `{"_id":"abc","gender":"other"}`)
		}
	})
	ctx := context.Background()

	res, err := c.Login(ctx, "a@example.com", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, "abc", res.User.ID)

	me, err := c.Me(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", me.ID)

	_, err = c.Me(ctx, "")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "not authenticated")

	gender := "other"
	updated, err := c.UpdateProfile(ctx, "tok", ProfileUpdate{Gender: &gender})
	require.NoError(t, err)
	assert.Equal(t, "other", updated.Gender)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnprocessableEntity, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"detail":"nope"}`)
			})

			_, err := c.Me(context.Background(), "tok")
			require.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, "nope", se.Detail)
		})
	}
}

func TestClient_Health(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			_, _ = io.WriteString(w, `{"status":"healthy","database":"connected"}`)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"status":"unhealthy","database":"disconnected"}`)
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connected", h.Database)

	healthy.Store(false)
	h, err = c.Health(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.NotNil(t, h)
	assert.Equal(t, "disconnected", h.Database)
}

func TestClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
