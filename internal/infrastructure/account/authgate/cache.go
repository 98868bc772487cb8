package authgate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
)

// principalCache holds verified principals for a short TTL keyed by token
// hash. Capacity is bounded; when full it drops expired entries first and
// then an arbitrary one.
type principalCache struct {
	mu      sync.Mutex
	byToken map[string]cachedPrincipal
	ttl     time.Duration
	cap     int
}

type cachedPrincipal struct {
	principal user.Principal
	staleAt   time.Time
}

func newPrincipalCache(ttl time.Duration, capacity int) *principalCache {
	return &principalCache{
		byToken: make(map[string]cachedPrincipal),
		ttl:     ttl,
		cap:     capacity,
	}
}

func (c *principalCache) Get(key string) (user.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byToken[key]
	if !ok {
		return user.Principal{}, false
	}
	if !time.Now().Before(entry.staleAt) {
		delete(c.byToken, key)
		return user.Principal{}, false
	}
	return entry.principal, true
}

func (c *principalCache) Set(key string, principal user.Principal) {
	if c.ttl <= 0 {
		return
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap > 0 && len(c.byToken) >= c.cap {
		for k, entry := range c.byToken {
			if !entry.staleAt.After(now) {
				delete(c.byToken, k)
			}
		}
		for k := range c.byToken {
			if len(c.byToken) < c.cap {
				break
			}
			delete(c.byToken, k)
		}
	}

	c.byToken[key] = cachedPrincipal{principal: principal, staleAt: now.Add(c.ttl)}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}
