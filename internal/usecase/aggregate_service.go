package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/player"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

const gameweekSquadSize = 11

// AggregateView is an aggregate joined with display fields from the user
// and league rows.
type AggregateView struct {
	Info       userleague.Info
	UserName   string
	UserEmail  string
	LeagueName string
}

// AggregateService reads and mutates per-(user, league) aggregates.
type AggregateService struct {
	aggRepo    userleague.Repository
	userRepo   user.Repository
	leagueRepo league.Repository
	playerRepo player.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewAggregateService(
	aggRepo userleague.Repository,
	userRepo user.Repository,
	leagueRepo league.Repository,
	playerRepo player.Repository,
	logger *logging.Logger,
) *AggregateService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AggregateService{
		aggRepo:    aggRepo,
		userRepo:   userRepo,
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *AggregateService) GetAggregate(ctx context.Context, principal user.Principal, userID, leagueID string) (AggregateView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregateService.GetAggregate")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return AggregateView{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if !principal.CanActFor(userID) {
		return AggregateView{}, fmt.Errorf("%w: cannot read another user's aggregate", ErrForbidden)
	}

	info, exists, err := s.aggRepo.GetByPair(ctx, userID, leagueID)
	if err != nil {
		return AggregateView{}, fmt.Errorf("get aggregate: %w", err)
	}
	if !exists {
		return AggregateView{}, fmt.Errorf("%w: no aggregate for user=%s league=%s", ErrNotFound, userID, leagueID)
	}

	view := AggregateView{Info: info}

	usr, ok, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return AggregateView{}, fmt.Errorf("get user: %w", err)
	}
	if ok {
		view.UserName = usr.DisplayName()
		view.UserEmail = usr.Email
	}

	lg, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return AggregateView{}, fmt.Errorf("get league: %w", err)
	}
	if ok {
		view.LeagueName = lg.Name
	}

	return view, nil
}

// DeepUpdate applies a partial update to the aggregate. Identity and
// display fields are not patchable; gameweek entries are targeted upserts
// by gameweekNumber. Concurrent updates on the same pair are
// last-writer-wins.
func (s *AggregateService) DeepUpdate(ctx context.Context, principal user.Principal, userID, leagueID string, patch userleague.Patch) (userleague.Info, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregateService.DeepUpdate")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return userleague.Info{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if !principal.CanActFor(userID) {
		return userleague.Info{}, fmt.Errorf("%w: cannot update another user's aggregate", ErrForbidden)
	}

	info, exists, err := s.aggRepo.GetByPair(ctx, userID, leagueID)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get aggregate: %w", err)
	}
	if !exists {
		return userleague.Info{}, fmt.Errorf("%w: no aggregate for user=%s league=%s", ErrNotFound, userID, leagueID)
	}

	if err := info.ApplyPatch(patch, s.now().UTC()); err != nil {
		if errors.Is(err, userleague.ErrInvalidGameweekNumber) {
			return userleague.Info{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return userleague.Info{}, fmt.Errorf("apply patch: %w", err)
	}

	if err := s.aggRepo.Save(ctx, info); err != nil {
		return userleague.Info{}, fmt.Errorf("save aggregate: %w", err)
	}

	s.logger.InfoContext(ctx, "aggregate updated",
		"user_id", userID,
		"league_id", leagueID,
		"gameweeks_patched", len(patch.GameWeeks),
	)

	return info, nil
}

// CreateTeamInput is the gameweek team creation payload.
type CreateTeamInput struct {
	UserID         string
	LeagueID       string
	GameweekNumber int
	PlayerIDs      []string
	Captain        string
	ViceCaptain    string
	// Budget of zero takes the schema default.
	Budget int64
}

// CreateTeamForGameweek validates and stores the 11-player team for one
// gameweek. The entry lands at index GameweekNumber-1, padding holes with
// nils; an existing entry for that gameweek is a conflict.
func (s *AggregateService) CreateTeamForGameweek(ctx context.Context, principal user.Principal, input CreateTeamInput) (userleague.Info, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregateService.CreateTeamForGameweek")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Captain = strings.TrimSpace(input.Captain)
	input.ViceCaptain = strings.TrimSpace(input.ViceCaptain)

	if input.UserID == "" || input.LeagueID == "" {
		return userleague.Info{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if !principal.CanActFor(input.UserID) {
		return userleague.Info{}, fmt.Errorf("%w: cannot create a team for another user", ErrForbidden)
	}
	if input.GameweekNumber < 1 {
		return userleague.Info{}, fmt.Errorf("%w: gameweek number must be at least 1", ErrInvalidInput)
	}
	if len(input.PlayerIDs) != gameweekSquadSize {
		return userleague.Info{}, fmt.Errorf("%w: exactly %d players are required, got %d", ErrInvalidInput, gameweekSquadSize, len(input.PlayerIDs))
	}

	playerIDs := make([]string, 0, gameweekSquadSize)
	seen := make(map[string]struct{}, gameweekSquadSize)
	for _, id := range input.PlayerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return userleague.Info{}, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return userleague.Info{}, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		playerIDs = append(playerIDs, id)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return userleague.Info{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get players: %w", err)
	}
	if len(players) != len(playerIDs) {
		found := make(map[string]struct{}, len(players))
		for _, p := range players {
			found[p.ID] = struct{}{}
		}
		for _, id := range playerIDs {
			if _, ok := found[id]; !ok {
				return userleague.Info{}, fmt.Errorf("%w: player=%s", ErrNotFound, id)
			}
		}
	}

	budget := input.Budget
	if budget == 0 {
		budget = userleague.DefaultTransferBudget
	}
	if budget < 0 {
		return userleague.Info{}, fmt.Errorf("%w: budget must not be negative", ErrInvalidInput)
	}

	var totalCost int64
	for _, p := range players {
		totalCost += p.Price
	}
	if totalCost > budget {
		return userleague.Info{}, fmt.Errorf("%w: team cost %d exceeds budget %d", ErrInvalidInput, totalCost, budget)
	}

	// Captain eligibility comes after resolution and cost so an unknown
	// player surfaces as not-found even when the captain is also wrong.
	if _, ok := seen[input.Captain]; !ok {
		return userleague.Info{}, fmt.Errorf("%w: captain must be one of the selected players", ErrInvalidInput)
	}
	if _, ok := seen[input.ViceCaptain]; !ok {
		return userleague.Info{}, fmt.Errorf("%w: vice captain must be one of the selected players", ErrInvalidInput)
	}

	now := s.now().UTC()
	info, exists, err := s.aggRepo.GetByPair(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get aggregate: %w", err)
	}
	if !exists {
		usr, ok, err := s.userRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return userleague.Info{}, fmt.Errorf("get user: %w", err)
		}
		if !ok {
			return userleague.Info{}, fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
		}
		info = userleague.NewInfo(input.UserID, input.LeagueID, defaultTeamName(usr), now)
	}

	if _, taken := info.GameweekAt(input.GameweekNumber); taken {
		return userleague.Info{}, fmt.Errorf("%w: team already exists for gameweek %d", ErrConflict, input.GameweekNumber)
	}

	gw := &userleague.GameWeek{
		GameweekNumber:  input.GameweekNumber,
		ScoreMultiplier: userleague.DefaultScoreMultiplier,
		TransfersMade:   []int{},
		BoostersUsed:    []string{},
		Team: userleague.Team{
			Players:         playerIDs,
			TransferHistory: []string{},
			Captain:         input.Captain,
			ViceCaptain:     input.ViceCaptain,
			BenchPlayers:    []string{},
			TransferBudget:  budget - totalCost,
		},
	}
	if err := info.SetGameweek(gw); err != nil {
		return userleague.Info{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	info.LastUpdated = now
	info.LastActiveAt = now

	if err := s.aggRepo.Save(ctx, info); err != nil {
		return userleague.Info{}, fmt.Errorf("save aggregate: %w", err)
	}

	s.logger.InfoContext(ctx, "gameweek team created",
		"user_id", input.UserID,
		"league_id", input.LeagueID,
		"gameweek", input.GameweekNumber,
		"transfer_budget", gw.Team.TransferBudget,
	)

	return info, nil
}
