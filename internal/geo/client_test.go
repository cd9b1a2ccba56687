package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Roisfaozi/gas.to/internal/geo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClient_Lookup(t *testing.T) {
	t.Run("resolves a public address", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/json/8.8.8.8", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success","city":"Mountain View","country":"United States"}`))
		}))
		defer server.Close()

		client := geo.NewClient(server.URL, time.Second, zap.NewNop())

		location := client.Lookup(context.Background(), "8.8.8.8")

		assert.Equal(t, "Mountain View", location.City)
		assert.Equal(t, "United States", location.Country)
	})

	t.Run("skips private addresses without a network call", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := geo.NewClient(server.URL, time.Second, zap.NewNop())

		location := client.Lookup(context.Background(), "192.168.1.5")

		assert.Zero(t, location)
		assert.False(t, called)
	})

	t.Run("service failure degrades to the zero location", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"fail"}`))
		}))
		defer server.Close()

		client := geo.NewClient(server.URL, time.Second, zap.NewNop())

		assert.Zero(t, client.Lookup(context.Background(), "8.8.8.8"))
	})

	t.Run("unreachable service degrades to the zero location", func(t *testing.T) {
		client := geo.NewClient("http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())

		assert.Zero(t, client.Lookup(context.Background(), "8.8.8.8"))
	})
}
