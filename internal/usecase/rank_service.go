package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

const defaultRankWorkerCount = 4

// RankResult summarizes one recompute run.
type RankResult struct {
	LeagueCount  int `json:"league_count"`
	RankedCount  int `json:"ranked_count"`
	FailedCount  int `json:"failed_count"`
	WorkerCount  int `json:"worker_count"`
	SkippedCount int `json:"skipped_count"`
}

// RankService recomputes league standings from aggregate points.
type RankService struct {
	aggRepo userleague.Repository
	workers int
	logger  *logging.Logger
	now     func() time.Time
}

func NewRankService(aggRepo userleague.Repository, workers int, logger *logging.Logger) *RankService {
	if workers < 1 {
		workers = defaultRankWorkerCount
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RankService{
		aggRepo: aggRepo,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// RecomputeLeagueRanks fans the leagues out over a worker pool. Within one
// league, aggregates are ordered by current points descending and dense
// ranks are assigned (equal points share a rank).
func (s *RankService) RecomputeLeagueRanks(ctx context.Context, leagueIDs []string) (RankResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankService.RecomputeLeagueRanks")
	defer span.End()

	leagueIDs, err := cleanIDs(leagueIDs)
	if err != nil {
		return RankResult{}, err
	}
	if len(leagueIDs) == 0 {
		return RankResult{}, fmt.Errorf("%w: league ids are required", ErrInvalidInput)
	}

	workerCount := s.workers
	if workerCount > len(leagueIDs) {
		workerCount = len(leagueIDs)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RankResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	result := RankResult{
		LeagueCount: len(leagueIDs),
		WorkerCount: workerCount,
	}

	taskErrs, err := s.fanOutRecompute(ctx, leagueIDs, pool.Submit, &result)
	if err != nil {
		return RankResult{}, err
	}

	if len(taskErrs) > 0 {
		return result, fmt.Errorf("recompute league ranks: %w", errors.Join(taskErrs...))
	}

	s.logger.InfoContext(ctx, "league ranks recomputed",
		"league_count", result.LeagueCount,
		"ranked_count", result.RankedCount,
		"skipped_count", result.SkippedCount,
	)

	return result, nil
}

// fanOutRecompute submits one task per league and always drains in-flight
// tasks before returning; they share result with the caller's goroutine.
func (s *RankService) fanOutRecompute(ctx context.Context, leagueIDs []string, submit func(func()) error, result *RankResult) ([]error, error) {
	var mu sync.Mutex
	var taskErrs []error
	var workers sync.WaitGroup
	var submitErr error

	for _, leagueID := range leagueIDs {
		leagueID := leagueID
		workers.Add(1)
		if err := submit(func() {
			defer workers.Done()

			ranked, err := s.recomputeOneLeague(ctx, leagueID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailedCount++
				taskErrs = append(taskErrs, fmt.Errorf("league=%s: %w", leagueID, err))
				return
			}
			if ranked == 0 {
				result.SkippedCount++
				return
			}
			result.RankedCount += ranked
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit task to worker pool: %w", err)
			break
		}
	}

	workers.Wait()

	return taskErrs, submitErr
}

func (s *RankService) recomputeOneLeague(ctx context.Context, leagueID string) (int, error) {
	infos, err := s.aggRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("list aggregates: %w", err)
	}
	if len(infos) == 0 {
		return 0, nil
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CurrentPoints > infos[j].CurrentPoints
	})

	now := s.now().UTC()
	rank := 0
	lastPoints := 0
	for i := range infos {
		if i == 0 || infos[i].CurrentPoints != lastPoints {
			rank++
			lastPoints = infos[i].CurrentPoints
		}
		assigned := rank
		infos[i].CurrentRank = &assigned
		infos[i].LastUpdated = now

		if err := s.aggRepo.Save(ctx, infos[i]); err != nil {
			return 0, fmt.Errorf("save aggregate user=%s: %w", infos[i].UserID, err)
		}
	}

	return len(infos), nil
}
