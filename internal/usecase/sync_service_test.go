package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

type stubSnapshotProvider struct {
	failFor map[string]error
}

func (p *stubSnapshotProvider) FetchGameweekSnapshot(_ context.Context, lg league.League) (league.GameweekSnapshot, error) {
	if err, ok := p.failFor[lg.ID]; ok {
		return league.GameweekSnapshot{}, err
	}
	start := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	return league.GameweekSnapshot{
		FixturesStandings: json.RawMessage(`{"standings":[]}`),
		StartDate:         start,
		EndDate:           start.Add(3 * 24 * time.Hour),
	}, nil
}

func TestSyncService_SyncLeagueSnapshots(t *testing.T) {
	repo := memory.NewLeagueRepository(memory.SeedLeagues())
	leagueSvc := NewLeagueService(repo, nil, logging.NewNop())
	svc := NewSyncService(&stubSnapshotProvider{}, repo, leagueSvc, 2, logging.NewNop())

	result, err := svc.SyncLeagueSnapshots(t.Context(), []string{memory.LeagueIDPremier, memory.LeagueIDEredivie})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	lg, _, _ := repo.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(lg.GameWeeks) != 1 {
		t.Fatalf("snapshot not stored: %d", len(lg.GameWeeks))
	}
}

func TestSyncService_SyncLeagueSnapshots_BestEffort(t *testing.T) {
	repo := memory.NewLeagueRepository(memory.SeedLeagues())
	leagueSvc := NewLeagueService(repo, nil, logging.NewNop())
	provider := &stubSnapshotProvider{
		failFor: map[string]error{memory.LeagueIDPremier: fmt.Errorf("upstream 502")},
	}
	svc := NewSyncService(provider, repo, leagueSvc, 2, logging.NewNop())

	result, err := svc.SyncLeagueSnapshots(t.Context(), []string{memory.LeagueIDPremier, memory.LeagueIDEredivie})
	if err != nil {
		t.Fatalf("a failing league must not fail the run: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Results come back sorted by league ID.
	if result.Leagues[0].LeagueID != memory.LeagueIDEredivie || result.Leagues[0].Status != "success" {
		t.Fatalf("unexpected first status: %+v", result.Leagues[0])
	}
	if result.Leagues[1].LeagueID != memory.LeagueIDPremier || result.Leagues[1].Status != "failed" {
		t.Fatalf("unexpected second status: %+v", result.Leagues[1])
	}

	lg, _, _ := repo.GetByID(t.Context(), memory.LeagueIDEredivie)
	if len(lg.GameWeeks) != 1 {
		t.Fatalf("healthy league snapshot not stored")
	}
}

func TestSyncService_SyncLeagueSnapshots_NoProvider(t *testing.T) {
	repo := memory.NewLeagueRepository(memory.SeedLeagues())
	leagueSvc := NewLeagueService(repo, nil, logging.NewNop())
	svc := NewSyncService(nil, repo, leagueSvc, 2, logging.NewNop())

	_, err := svc.SyncLeagueSnapshots(t.Context(), []string{memory.LeagueIDPremier})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
