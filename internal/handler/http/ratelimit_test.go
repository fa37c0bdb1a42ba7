package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "burst request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "clients are limited independently")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refilled after a second")
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	assert.False(t, rl.Enabled())
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}

	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow("any"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/get_all_articles", nil)
	req.RemoteAddr = "192.0.2.10:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"Too Many Requests"}`, rec.Body.String())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(rl.idleTTL + time.Minute)
	rl.Allow("fresh")

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "fresh")
}

func TestRateLimiter_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/get_all_articles", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed, "rotating forwarding headers must not refill the bucket")
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "203.0.113.7")
}

func TestRateLimiter_TrustedProxyKeysOnForwardedClient(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	rl := NewRateLimiter(1, 1, WithIPExtractor(NewIPExtractor(trusted)))
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/get_all_articles", nil)
		req.RemoteAddr = "10.1.2.3:8080"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"), "distinct clients behind the proxy are limited separately")
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
}

func TestIPExtractors(t *testing.T) {
	trusted := TrustedProxyExtractor{Trusted: []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("2001:db8::/32"),
	}}

	tests := []struct {
		name       string
		extractor  IPExtractor
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "remote addr", extractor: RemoteAddrExtractor{}, remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "remote addr ignores forwarded for", extractor: RemoteAddrExtractor{}, remoteAddr: "192.0.2.1:1234", headers: map[string]string{"X-Forwarded-For": "203.0.113.7"}, want: "192.0.2.1"},
		{name: "ipv6 remote", extractor: RemoteAddrExtractor{}, remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "remote without port", extractor: RemoteAddrExtractor{}, remoteAddr: "192.0.2.9", want: "192.0.2.9"},
		{name: "untrusted peer keeps remote addr", extractor: trusted, remoteAddr: "203.0.113.50:1", headers: map[string]string{"X-Forwarded-For": "198.51.100.9", "X-Real-IP": "198.51.100.9"}, want: "203.0.113.50"},
		{name: "trusted peer uses forwarded client", extractor: trusted, remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.7"}, want: "203.0.113.7"},
		{name: "spoofed leftmost entry is skipped", extractor: trusted, remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.7, 10.0.0.5"}, want: "203.0.113.7"},
		{name: "trusted ipv6 proxy", extractor: trusted, remoteAddr: "[2001:db8::9]:443", headers: map[string]string{"X-Forwarded-For": "198.51.100.4"}, want: "198.51.100.4"},
		{name: "malformed forwarded falls back to real ip", extractor: trusted, remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.4"}, want: "198.51.100.4"},
		{name: "trusted peer without headers", extractor: trusted, remoteAddr: "10.0.0.1:1", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, tt.extractor.ExtractIP(req))
		})
	}
}

func TestNewIPExtractor(t *testing.T) {
	assert.IsType(t, RemoteAddrExtractor{}, NewIPExtractor(nil))
	assert.IsType(t, TrustedProxyExtractor{}, NewIPExtractor([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}))
}
