package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/platform/cache"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

const (
	defaultLeaguePageSize = 20
	maxLeaguePageSize     = 100

	leagueCacheKeyPrefix = "league::"
)

// LeagueService serves the league catalog. Reads go through the TTL cache;
// every write invalidates the cached entry.
type LeagueService struct {
	leagueRepo league.Repository
	cache      *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, store *cache.Store, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		cache:      store,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	loader := func(ctx context.Context) (any, error) {
		lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		return lg, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return league.League{}, err
		}
		return value.(league.League), nil
	}

	value, err := s.cache.GetOrLoad(ctx, leagueCacheKeyPrefix+leagueID, loader)
	if err != nil {
		return league.League{}, err
	}

	lg, ok := value.(league.League)
	if !ok {
		return league.League{}, fmt.Errorf("unexpected cache entry type %T", value)
	}
	return lg, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context, filter league.ListFilter) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	filter.Keyword = strings.TrimSpace(filter.Keyword)
	if filter.Limit <= 0 {
		filter.Limit = defaultLeaguePageSize
	}
	if filter.Limit > maxLeaguePageSize {
		filter.Limit = maxLeaguePageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	leagues, err := s.leagueRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

// SaveGameweekSnapshot appends one provider snapshot to the league and
// re-sorts the history by start date ascending before persisting.
func (s *LeagueService) SaveGameweekSnapshot(ctx context.Context, leagueID string, snapshot league.GameweekSnapshot) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.SaveGameweekSnapshot")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if snapshot.StartDate.IsZero() || snapshot.EndDate.IsZero() {
		return fmt.Errorf("%w: snapshot start and end dates are required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	lg.GameWeeks = append(lg.GameWeeks, snapshot)
	lg.SortGameWeeks()
	lg.LastSyncTime = s.now().UTC()
	lg.UpdatedAt = lg.LastSyncTime

	if err := s.leagueRepo.Save(ctx, lg); err != nil {
		return fmt.Errorf("save league: %w", err)
	}
	s.invalidate(ctx, leagueID)

	s.logger.InfoContext(ctx, "gameweek snapshot stored",
		"league_id", leagueID,
		"gameweek_count", len(lg.GameWeeks),
	)

	return nil
}

// SetWinners replaces the league's winners list.
func (s *LeagueService) SetWinners(ctx context.Context, principal user.Principal, leagueID string, winnerIDs []string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.SetWinners")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return league.League{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	winners, err := cleanIDs(winnerIDs)
	if err != nil {
		return league.League{}, err
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	lg.WinnerIDs = winners
	lg.UpdatedAt = s.now().UTC()

	if err := s.leagueRepo.Save(ctx, lg); err != nil {
		return league.League{}, fmt.Errorf("save league: %w", err)
	}
	s.invalidate(ctx, leagueID)

	s.logger.InfoContext(ctx, "league winners set",
		"league_id", leagueID,
		"winner_count", len(winners),
	)

	return lg, nil
}

func (s *LeagueService) invalidate(ctx context.Context, leagueID string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, leagueCacheKeyPrefix+leagueID)
}
