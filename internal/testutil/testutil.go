// Package testutil provides common test utilities for the bookpeek project.
package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"
)

// NewIPv4TestServer starts a test server bound to IPv4 loopback to
// avoid IPv6 listener issues.
func NewIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen on IPv4 loopback: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	t.Cleanup(server.Close)
	return server
}

// CountingHandler wraps a handler and counts how many requests hit it.
// Use it to assert that an operation made (or skipped) upstream calls.
type CountingHandler struct {
	Handler http.Handler
	hits    atomic.Int64
}

// ServeHTTP implements http.Handler.
func (c *CountingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.hits.Add(1)
	c.Handler.ServeHTTP(w, r)
}

// Hits returns the number of requests served so far.
func (c *CountingHandler) Hits() int64 {
	return c.hits.Load()
}

// ResetViper resets viper state and schedules another reset when the
// test completes.
func ResetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}
