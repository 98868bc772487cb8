package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

func seedAggregate(t *testing.T, aggs *memory.UserLeagueRepository, userID, leagueID string, points int) {
	t.Helper()

	info := userleague.NewInfo(userID, leagueID, userID+" team", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	info.CurrentPoints = points
	if err := aggs.Save(t.Context(), info); err != nil {
		t.Fatalf("seed aggregate: %v", err)
	}
}

func TestRankService_RecomputeLeagueRanks_DenseRanks(t *testing.T) {
	aggs := memory.NewUserLeagueRepository()
	seedAggregate(t, aggs, "user-a", memory.LeagueIDPremier, 90)
	seedAggregate(t, aggs, "user-b", memory.LeagueIDPremier, 120)
	seedAggregate(t, aggs, "user-c", memory.LeagueIDPremier, 90)
	seedAggregate(t, aggs, "user-d", memory.LeagueIDPremier, 60)

	svc := NewRankService(aggs, 2, logging.NewNop())
	result, err := svc.RecomputeLeagueRanks(t.Context(), []string{memory.LeagueIDPremier})
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if result.RankedCount != 4 {
		t.Fatalf("expected 4 ranked aggregates, got %d", result.RankedCount)
	}

	wantRanks := map[string]int{
		"user-b": 1,
		"user-a": 2,
		"user-c": 2,
		"user-d": 3,
	}
	for userID, want := range wantRanks {
		info, exists, _ := aggs.GetByPair(t.Context(), userID, memory.LeagueIDPremier)
		if !exists {
			t.Fatalf("aggregate for %s missing", userID)
		}
		if info.CurrentRank == nil || *info.CurrentRank != want {
			t.Fatalf("user %s: expected rank %d, got %v", userID, want, info.CurrentRank)
		}
	}
}

func TestRankService_RecomputeLeagueRanks_SkipsEmptyLeague(t *testing.T) {
	aggs := memory.NewUserLeagueRepository()
	seedAggregate(t, aggs, "user-a", memory.LeagueIDPremier, 10)

	svc := NewRankService(aggs, 2, logging.NewNop())
	result, err := svc.RecomputeLeagueRanks(t.Context(), []string{memory.LeagueIDPremier, memory.LeagueIDEredivie})
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	if result.LeagueCount != 2 || result.RankedCount != 1 || result.SkippedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	// The pool never gets more workers than leagues.
	if result.WorkerCount != 2 {
		t.Fatalf("expected 2 workers, got %d", result.WorkerCount)
	}
}

func TestRankService_FanOut_DrainsInFlightTasksOnSubmitFailure(t *testing.T) {
	aggs := memory.NewUserLeagueRepository()
	seedAggregate(t, aggs, "user-a", memory.LeagueIDPremier, 10)

	svc := NewRankService(aggs, 2, logging.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	submit := func(task func()) error {
		calls++
		if calls == 1 {
			go func() {
				close(started)
				<-release
				task()
			}()
			return nil
		}
		return errors.New("pool is closed")
	}

	done := make(chan struct{})
	var result RankResult
	var fanOutErr error
	go func() {
		defer close(done)
		_, fanOutErr = svc.fanOutRecompute(t.Context(), []string{memory.LeagueIDPremier, memory.LeagueIDEredivie}, submit, &result)
	}()

	<-started
	select {
	case <-done:
		t.Fatal("fan-out returned before the in-flight task finished")
	default:
	}

	close(release)
	<-done

	if fanOutErr == nil {
		t.Fatal("expected a submit error")
	}
	// The first task ran to completion before the method returned.
	if result.RankedCount != 1 {
		t.Fatalf("expected 1 ranked aggregate, got %d", result.RankedCount)
	}
}

func TestRankService_RecomputeLeagueRanks_NoLeagues(t *testing.T) {
	svc := NewRankService(memory.NewUserLeagueRepository(), 0, logging.NewNop())

	_, err := svc.RecomputeLeagueRanks(t.Context(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
