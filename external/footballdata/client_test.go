package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/platform/resilience"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

const testMatchesPayload = `{"matches":[
	{"matchday":1,"utcDate":"2026-08-15T11:30:00Z","status":"FINISHED"},
	{"matchday":2,"utcDate":"2026-08-22T11:30:00Z","status":"TIMED"},
	{"matchday":2,"utcDate":"2026-08-24T19:00:00Z","status":"TIMED"}
]}`

const testStandingsPayload = `{"standings":[{"table":[{"position":1,"team":{"name":"Arsenal FC"}}]}]}`

func testLeague() league.League {
	return league.League{
		ID:       "lg-1",
		LeagueID: "PL",
		Season:   "2026",
	}
}

func newSnapshotServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/matches"):
			_, _ = w.Write([]byte(testMatchesPayload))
		case strings.HasSuffix(r.URL.Path, "/standings"):
			_, _ = w.Write([]byte(testStandingsPayload))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchGameweekSnapshot(t *testing.T) {
	srv := newSnapshotServer(t)
	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Token:      "secret",
	})

	snapshot, err := client.FetchGameweekSnapshot(context.Background(), testLeague())
	if err != nil {
		t.Fatalf("fetch snapshot: %v", err)
	}

	wantStart := time.Date(2026, 8, 22, 11, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 8, 24, 19, 0, 0, 0, time.UTC)
	if !snapshot.StartDate.Equal(wantStart) {
		t.Fatalf("start date = %v, want %v", snapshot.StartDate, wantStart)
	}
	if !snapshot.EndDate.Equal(wantEnd) {
		t.Fatalf("end date = %v, want %v", snapshot.EndDate, wantEnd)
	}

	var doc struct {
		Fixtures  map[string]any `json:"fixtures"`
		Standings map[string]any `json:"standings"`
	}
	if err := sonic.Unmarshal(snapshot.FixturesStandings, &doc); err != nil {
		t.Fatalf("combined document is not valid JSON: %v", err)
	}
	if doc.Fixtures == nil || doc.Standings == nil {
		t.Fatalf("combined document missing sections: %s", snapshot.FixturesStandings)
	}
}

func TestFetchGameweekSnapshot_ProviderOverride(t *testing.T) {
	srv := newSnapshotServer(t)
	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    "http://unreachable.invalid",
		Token:      "wrong",
	})

	lg := testLeague()
	lg.APIProvider = league.APIProvider{BaseURL: srv.URL, APIKey: "secret"}

	if _, err := client.FetchGameweekSnapshot(context.Background(), lg); err != nil {
		t.Fatalf("fetch snapshot with provider override: %v", err)
	}
}

func TestFetchGameweekSnapshot_MissingCompetitionCode(t *testing.T) {
	client := NewClient(ClientConfig{HTTPClient: &http.Client{}})

	lg := testLeague()
	lg.LeagueID = " "
	if _, err := client.FetchGameweekSnapshot(context.Background(), lg); err == nil {
		t.Fatalf("expected error for missing competition code")
	}
}

func TestFetchGameweekSnapshot_CircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Token:      "secret",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchGameweekSnapshot(context.Background(), testLeague()); err == nil {
		t.Fatalf("expected provider failure")
	}

	_, err := client.FetchGameweekSnapshot(context.Background(), testLeague())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
	}
}

func TestCurrentMatchdayWindow_AllFinishedFallsBackToLast(t *testing.T) {
	raw := []byte(`{"matches":[
		{"matchday":1,"utcDate":"2026-08-15T11:30:00Z","status":"FINISHED"},
		{"matchday":2,"utcDate":"2026-08-22T11:30:00Z","status":"FINISHED"}
	]}`)

	start, end, err := currentMatchdayWindow(raw)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	want := time.Date(2026, 8, 22, 11, 30, 0, 0, time.UTC)
	if !start.Equal(want) || !end.Equal(want) {
		t.Fatalf("window = [%v, %v], want [%v, %v]", start, end, want, want)
	}
}

func TestCurrentMatchdayWindow_EmptyPayload(t *testing.T) {
	if _, _, err := currentMatchdayWindow([]byte(`{"matches":[]}`)); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	got := sanitizeSensitiveText("dial failed X-Auth-Token: secret-token", "secret-token")
	if strings.Contains(got, "secret-token") {
		t.Fatalf("token leaked: %s", got)
	}
}
