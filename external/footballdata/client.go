package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
	"github.com/openfpl/fantasy-platform/internal/platform/resilience"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org"
	defaultTimeout = 20 * time.Second
)

var authTokenRegex = regexp.MustCompile(`(?i)(x-auth-token:?\s*)\S+`)
var errFootballDataTransient = crerr.New("football data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls fixtures and standings from the football data provider and
// packs them into one gameweek snapshot per league. Identical concurrent
// fetches are collapsed and repeated provider failures open the breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchGameweekSnapshot downloads the league's matches and standings and
// returns them as one raw document. The gameweek window comes from the
// kickoff range of the current matchday.
func (c *Client) FetchGameweekSnapshot(ctx context.Context, lg league.League) (league.GameweekSnapshot, error) {
	code := strings.TrimSpace(lg.LeagueID)
	if code == "" {
		return league.GameweekSnapshot{}, fmt.Errorf("league %s has no provider competition code", lg.ID)
	}

	query := map[string]string{}
	if season := strings.TrimSpace(lg.Season); season != "" {
		query["season"] = season
	}

	matchesRaw, err := c.doJSON(ctx, lg, "/v4/competitions/"+url.PathEscape(code)+"/matches", query)
	if err != nil {
		return league.GameweekSnapshot{}, fmt.Errorf("fetch matches competition=%s: %w", code, err)
	}
	standingsRaw, err := c.doJSON(ctx, lg, "/v4/competitions/"+url.PathEscape(code)+"/standings", query)
	if err != nil {
		return league.GameweekSnapshot{}, fmt.Errorf("fetch standings competition=%s: %w", code, err)
	}

	start, end, err := currentMatchdayWindow(matchesRaw)
	if err != nil {
		return league.GameweekSnapshot{}, fmt.Errorf("resolve gameweek window competition=%s: %w", code, err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(`{"fixtures":`)
	_, _ = buf.Write(matchesRaw)
	_, _ = buf.WriteString(`,"standings":`)
	_, _ = buf.Write(standingsRaw)
	_, _ = buf.WriteString(`}`)

	doc := make([]byte, buf.Len())
	copy(doc, buf.Bytes())

	return league.GameweekSnapshot{
		FixturesStandings: doc,
		StartDate:         start,
		EndDate:           end,
	}, nil
}

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	Matchday int    `json:"matchday"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
}

// currentMatchdayWindow picks the lowest matchday that still has an
// unfinished match, falling back to the last matchday of the season, and
// returns the kickoff range of its matches.
func currentMatchdayWindow(raw []byte) (time.Time, time.Time, error) {
	var envelope matchesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("decode matches payload: %w", err)
	}

	current := 0
	last := 0
	for _, item := range envelope.Matches {
		if item.Matchday <= 0 {
			continue
		}
		if item.Matchday > last {
			last = item.Matchday
		}
		finished := strings.EqualFold(strings.TrimSpace(item.Status), "FINISHED")
		if !finished && (current == 0 || item.Matchday < current) {
			current = item.Matchday
		}
	}
	if current == 0 {
		current = last
	}
	if current == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("no matchdays in provider payload")
	}

	var start, end time.Time
	for _, item := range envelope.Matches {
		if item.Matchday != current {
			continue
		}
		kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(item.UTCDate))
		if err != nil {
			continue
		}
		kickoff = kickoff.UTC()
		if start.IsZero() || kickoff.Before(start) {
			start = kickoff
		}
		if end.IsZero() || kickoff.After(end) {
			end = kickoff
		}
	}
	if start.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("matchday %d has no parsable kickoff dates", current)
	}

	return start, end, nil
}

func (c *Client) doJSON(ctx context.Context, lg league.League, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football data circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	baseURL := c.baseURL
	if override := strings.TrimRight(strings.TrimSpace(lg.APIProvider.BaseURL), "/"); override != "" {
		baseURL = override
	}
	token := c.token
	if override := strings.TrimSpace(lg.APIProvider.APIKey); override != "" {
		token = override
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, token)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFootballDataTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, token string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if token != "" {
			req.Header.Set("X-Auth-Token", token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeSensitiveText(err.Error(), token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return authTokenRegex.ReplaceAllString(value, "${1}REDACTED")
}
