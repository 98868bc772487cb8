package usecase

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/cache"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

func newLeagueService(t *testing.T) (*LeagueService, *memory.LeagueRepository) {
	t.Helper()

	repo := memory.NewLeagueRepository(memory.SeedLeagues())
	store := cache.NewStore(time.Minute)
	return NewLeagueService(repo, store, logging.NewNop()), repo
}

func snapshotAt(start time.Time) league.GameweekSnapshot {
	return league.GameweekSnapshot{
		FixturesStandings: json.RawMessage(`{"fixtures":[]}`),
		StartDate:         start,
		EndDate:           start.Add(3 * 24 * time.Hour),
	}
}

func TestLeagueService_GetLeague(t *testing.T) {
	svc, _ := newLeagueService(t)

	lg, err := svc.GetLeague(t.Context(), memory.LeagueIDPremier)
	if err != nil {
		t.Fatalf("get league failed: %v", err)
	}
	if lg.Name != "Premier League" {
		t.Fatalf("unexpected league %q", lg.Name)
	}

	_, err = svc.GetLeague(t.Context(), "league-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.GetLeague(t.Context(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_GetLeague_CacheInvalidation(t *testing.T) {
	svc, repo := newLeagueService(t)

	if _, err := svc.GetLeague(t.Context(), memory.LeagueIDPremier); err != nil {
		t.Fatalf("warm read failed: %v", err)
	}

	// A direct repo write is invisible until the cache is invalidated.
	lg, _, _ := repo.GetByID(t.Context(), memory.LeagueIDPremier)
	lg.Name = "Premier League Renamed"
	if err := repo.Save(t.Context(), lg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cached, err := svc.GetLeague(t.Context(), memory.LeagueIDPremier)
	if err != nil {
		t.Fatalf("cached read failed: %v", err)
	}
	if cached.Name != "Premier League" {
		t.Fatalf("expected stale cached name, got %q", cached.Name)
	}

	// Any service write path invalidates; SaveGameweekSnapshot is one.
	if err := svc.SaveGameweekSnapshot(t.Context(), memory.LeagueIDPremier, snapshotAt(time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("save snapshot failed: %v", err)
	}

	fresh, err := svc.GetLeague(t.Context(), memory.LeagueIDPremier)
	if err != nil {
		t.Fatalf("fresh read failed: %v", err)
	}
	if fresh.Name != "Premier League Renamed" {
		t.Fatalf("expected fresh name after invalidation, got %q", fresh.Name)
	}
}

func TestLeagueService_ListLeagues_ClampsPaging(t *testing.T) {
	svc, _ := newLeagueService(t)

	leagues, err := svc.ListLeagues(t.Context(), league.ListFilter{Limit: -5, Offset: -1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(leagues) != 2 {
		t.Fatalf("expected both seed leagues, got %d", len(leagues))
	}

	leagues, err = svc.ListLeagues(t.Context(), league.ListFilter{Keyword: "eredivisie"})
	if err != nil {
		t.Fatalf("keyword list failed: %v", err)
	}
	if len(leagues) != 1 || leagues[0].ID != memory.LeagueIDEredivie {
		t.Fatalf("unexpected keyword result: %v", leagues)
	}
}

func TestLeagueService_SaveGameweekSnapshot_SortsByStartDate(t *testing.T) {
	svc, repo := newLeagueService(t)
	now := time.Date(2026, 8, 22, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	later := snapshotAt(time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))
	earlier := snapshotAt(time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC))

	if err := svc.SaveGameweekSnapshot(t.Context(), memory.LeagueIDPremier, later); err != nil {
		t.Fatalf("save later failed: %v", err)
	}
	if err := svc.SaveGameweekSnapshot(t.Context(), memory.LeagueIDPremier, earlier); err != nil {
		t.Fatalf("save earlier failed: %v", err)
	}

	lg, _, _ := repo.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(lg.GameWeeks) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(lg.GameWeeks))
	}
	if !lg.GameWeeks[0].StartDate.Before(lg.GameWeeks[1].StartDate) {
		t.Fatalf("snapshots not sorted by start date")
	}
	if !lg.LastSyncTime.Equal(now) {
		t.Fatalf("last sync time not stamped: %v", lg.LastSyncTime)
	}
}

func TestLeagueService_SaveGameweekSnapshot_Validation(t *testing.T) {
	svc, _ := newLeagueService(t)

	err := svc.SaveGameweekSnapshot(t.Context(), memory.LeagueIDPremier, league.GameweekSnapshot{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero dates, got %v", err)
	}

	err = svc.SaveGameweekSnapshot(t.Context(), "league-missing", snapshotAt(time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_SetWinners(t *testing.T) {
	svc, _ := newLeagueService(t)

	_, err := svc.SetWinners(t.Context(), alicePrincipal(), memory.LeagueIDPremier, []string{memory.UserIDAlice})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	lg, err := svc.SetWinners(t.Context(), adminPrincipal(), memory.LeagueIDPremier, []string{memory.UserIDAlice, memory.UserIDBram})
	if err != nil {
		t.Fatalf("set winners failed: %v", err)
	}
	if len(lg.WinnerIDs) != 2 {
		t.Fatalf("unexpected winners: %v", lg.WinnerIDs)
	}
}
