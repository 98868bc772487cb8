package authgate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/platform/resilience"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.IntrospectPath == "" {
		cfg.IntrospectPath = "/v1/introspect"
	}
	return NewClient(cfg, srv.Client(), nil)
}

func TestVerifyAccessToken(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":true,"user_id":"usr-1","email":"alice@example.com","role":"premium"}`))
	}, Config{CacheTTL: time.Minute, CacheMaxSize: 10})

	principal, err := client.VerifyAccessToken(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "usr-1" || principal.Email != "alice@example.com" {
		t.Fatalf("unexpected principal %+v", principal)
	}
	if principal.Role != user.RolePremium {
		t.Fatalf("role = %q, want premium", principal.Role)
	}

	// Second lookup for the same token must come from the cache.
	if _, err := client.VerifyAccessToken(context.Background(), "token-1"); err != nil {
		t.Fatalf("cached verify: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("introspection hits = %d, want 1", got)
	}
}

func TestVerifyAccessToken_EmptyToken(t *testing.T) {
	client := NewClient(DefaultConfig(), &http.Client{}, nil)

	_, err := client.VerifyAccessToken(context.Background(), "   ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyAccessToken_Denied(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Config{})

	_, err := client.VerifyAccessToken(context.Background(), "bad-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyAccessToken_InactiveToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active":false}`))
	}, Config{})

	_, err := client.VerifyAccessToken(context.Background(), "stale-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyAccessToken_UnknownRoleDefaultsToRegistered(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active":true,"user_id":"usr-2","email":"b@example.com","role":"mystery"}`))
	}, Config{})

	principal, err := client.VerifyAccessToken(context.Background(), "token-2")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.Role != user.RoleRegistered {
		t.Fatalf("role = %q, want registered", principal.Role)
	}
}

func TestVerifyAccessToken_CircuitOpensOnServerErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.VerifyAccessToken(context.Background(), "token-3"); err == nil {
			t.Fatalf("verify %d: expected error", i)
		}
	}

	_, err := client.VerifyAccessToken(context.Background(), "token-3")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
	}
}

func TestVerifyAccessToken_DeniedDoesNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 3; i++ {
		_, err := client.VerifyAccessToken(context.Background(), "token-4")
		if !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("verify %d: err = %v, want ErrUnauthorized", i, err)
		}
	}
}

func TestPrincipalCacheExpiry(t *testing.T) {
	cache := newPrincipalCache(time.Nanosecond, 4)
	cache.Set("k", user.Principal{UserID: "usr-1"})
	time.Sleep(time.Millisecond)

	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expired entry must not be returned")
	}
}

func TestPrincipalCacheCapacity(t *testing.T) {
	cache := newPrincipalCache(time.Minute, 2)
	cache.Set("a", user.Principal{UserID: "usr-a"})
	cache.Set("b", user.Principal{UserID: "usr-b"})
	cache.Set("c", user.Principal{UserID: "usr-c"})

	if len(cache.byToken) > 2 {
		t.Fatalf("cache size = %d, want <= 2", len(cache.byToken))
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("latest entry must survive eviction")
	}
}

func TestBuildURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"https://accounts.local/", "/v1/introspect", "https://accounts.local/v1/introspect"},
		{"https://accounts.local", "v1/introspect", "https://accounts.local/v1/introspect"},
		{"https://accounts.local", "", "https://accounts.local"},
		{"https://accounts.local", "https://other.local/x", "https://other.local/x"},
	}
	for _, tc := range cases {
		if got := buildURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("buildURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
