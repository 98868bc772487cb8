package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

const defaultSyncConcurrency = 4

// SnapshotProvider fetches one league's current fixtures/standings
// snapshot from the upstream football-data service.
type SnapshotProvider interface {
	FetchGameweekSnapshot(ctx context.Context, lg league.League) (league.GameweekSnapshot, error)
}

// SyncStatus is one league's outcome in a sync run.
type SyncStatus struct {
	LeagueID string `json:"league_id"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

type SyncResult struct {
	LeagueCount  int          `json:"league_count"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	Leagues      []SyncStatus `json:"leagues"`
}

// SyncService pulls gameweek snapshots for many leagues concurrently.
// Runs are best-effort: one league failing never blocks the others, and
// the core flows never depend on a sync having happened.
type SyncService struct {
	provider    SnapshotProvider
	leagueRepo  league.Repository
	leagueSvc   *LeagueService
	concurrency int
	logger      *logging.Logger
}

func NewSyncService(
	provider SnapshotProvider,
	leagueRepo league.Repository,
	leagueSvc *LeagueService,
	concurrency int,
	logger *logging.Logger,
) *SyncService {
	if concurrency < 1 {
		concurrency = defaultSyncConcurrency
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		provider:    provider,
		leagueRepo:  leagueRepo,
		leagueSvc:   leagueSvc,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *SyncService) SyncLeagueSnapshots(ctx context.Context, leagueIDs []string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagueSnapshots")
	defer span.End()

	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: snapshot provider is not configured", ErrDependencyUnavailable)
	}

	leagueIDs, err := cleanIDs(leagueIDs)
	if err != nil {
		return SyncResult{}, err
	}
	if len(leagueIDs) == 0 {
		return SyncResult{}, fmt.Errorf("%w: league ids are required", ErrInvalidInput)
	}

	result := SyncResult{
		LeagueCount: len(leagueIDs),
		Leagues:     make([]SyncStatus, 0, len(leagueIDs)),
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for _, leagueID := range leagueIDs {
		leagueID := leagueID
		workers.Go(func() {
			status := SyncStatus{LeagueID: leagueID, Status: "success"}
			if err := s.syncOneLeague(ctx, leagueID); err != nil {
				status.Status = "failed"
				status.Message = err.Error()
				s.logger.WarnContext(ctx, "league snapshot sync failed",
					"league_id", leagueID,
					"error", err,
				)
			}

			mu.Lock()
			if status.Status == "success" {
				result.SuccessCount++
			} else {
				result.FailedCount++
			}
			result.Leagues = append(result.Leagues, status)
			mu.Unlock()
		})
	}
	workers.Wait()

	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})

	s.logger.InfoContext(ctx, "league snapshots synced",
		"league_count", result.LeagueCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
	)

	return result, nil
}

func (s *SyncService) syncOneLeague(ctx context.Context, leagueID string) error {
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	snapshot, err := s.provider.FetchGameweekSnapshot(ctx, lg)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	if err := s.leagueSvc.SaveGameweekSnapshot(ctx, leagueID, snapshot); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	return nil
}
