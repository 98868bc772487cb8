package authgate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
	"github.com/openfpl/fantasy-platform/internal/platform/resilience"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

// errTransient marks failures that should trip the circuit breaker.
// Denied or inactive tokens are definitive answers and never count.
var errTransient = crerr.New("account service transient failure")

type Config struct {
	BaseURL        string
	IntrospectPath string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	CacheMaxSize   int
	CircuitBreaker resilience.CircuitBreakerConfig
}

func DefaultConfig() Config {
	return Config{
		IntrospectPath: "/v1/introspect",
		RequestTimeout: 5 * time.Second,
		CacheTTL:       30 * time.Second,
		CacheMaxSize:   10_000,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	}
}

// Client verifies bearer tokens against the account service. Successful
// verdicts are cached briefly keyed by token hash, concurrent lookups for
// the same token are collapsed, and repeated transport failures open a
// circuit breaker so a dead account service cannot pile up goroutines.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	cache         *principalCache
	flight        resilience.SingleFlight
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultConfig().RequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var breaker *resilience.CircuitBreaker
	if cfg.CircuitBreaker.Enabled {
		bc := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
		breaker = resilience.NewCircuitBreaker(bc.FailureThreshold, bc.OpenTimeout, bc.HalfOpenMaxReq)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		cache:         newPrincipalCache(cfg.CacheTTL, cfg.CacheMaxSize),
		breaker:       breaker,
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(key); ok {
		return principal, nil
	}

	val, err, shared := c.flight.Do(key, func() (any, error) {
		return c.introspect(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal := val.(user.Principal)
	if !shared {
		c.cache.Set(key, principal)
	}
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: account service circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.doIntrospect(ctx, token)
	if c.breaker != nil {
		if crerr.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return user.Principal{}, err
	}
	return principal, nil
}

func (c *Client) doIntrospect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", errTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "account introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: introspection failed with status %d", errTransient, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
		Role:   roleFromString(decoded.Role),
	}, nil
}

func roleFromString(role string) user.Role {
	switch user.Role(strings.TrimSpace(role)) {
	case user.RolePremium:
		return user.RolePremium
	case user.RoleSuperAdmin:
		return user.RoleSuperAdmin
	default:
		return user.RoleRegistered
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
