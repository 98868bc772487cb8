package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/membership"
	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/platform/id"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

// RewardService maintains the badge, prize and booster catalogs. Every
// write keeps the back-reference arrays on users and leagues symmetric;
// the membership repository owns the transactions.
type RewardService struct {
	badgeRepo   reward.BadgeRepository
	prizeRepo   reward.PrizeRepository
	boosterRepo reward.BoosterRepository
	coordinator membership.Repository
	idGen       id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewRewardService(
	badgeRepo reward.BadgeRepository,
	prizeRepo reward.PrizeRepository,
	boosterRepo reward.BoosterRepository,
	coordinator membership.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *RewardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RewardService{
		badgeRepo:   badgeRepo,
		prizeRepo:   prizeRepo,
		boosterRepo: boosterRepo,
		coordinator: coordinator,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *RewardService) ListBadges(ctx context.Context) ([]reward.Badge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.ListBadges")
	defer span.End()

	badges, err := s.badgeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return badges, nil
}

func (s *RewardService) ListPrizes(ctx context.Context) ([]reward.Prize, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.ListPrizes")
	defer span.End()

	prizes, err := s.prizeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	return prizes, nil
}

func (s *RewardService) ListBoosters(ctx context.Context) ([]reward.Booster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.ListBoosters")
	defer span.End()

	boosters, err := s.boosterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boosters: %w", err)
	}
	return boosters, nil
}

type BadgeInput struct {
	Name        string
	Description string
	Condition   string
	Tags        []string
	UserIDs     []string
	LeagueIDs   []string
}

func (s *RewardService) CreateBadge(ctx context.Context, principal user.Principal, input BadgeInput) (reward.Badge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.CreateBadge")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return reward.Badge{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return reward.Badge{}, fmt.Errorf("%w: badge name is required", ErrInvalidInput)
	}

	_, exists, err := s.badgeRepo.GetByName(ctx, input.Name)
	if err != nil {
		return reward.Badge{}, fmt.Errorf("get badge by name: %w", err)
	}
	if exists {
		return reward.Badge{}, fmt.Errorf("%w: badge name %q is taken", ErrConflict, input.Name)
	}

	users, err := cleanIDs(input.UserIDs)
	if err != nil {
		return reward.Badge{}, err
	}
	leagues, err := cleanIDs(input.LeagueIDs)
	if err != nil {
		return reward.Badge{}, err
	}

	badgeID, err := s.idGen.NewID()
	if err != nil {
		return reward.Badge{}, fmt.Errorf("generate badge id: %w", err)
	}

	now := s.now().UTC()
	badge := reward.Badge{
		ID:          badgeID,
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		Condition:   strings.TrimSpace(input.Condition),
		Tags:        input.Tags,
		UserIDs:     users,
		LeagueIDs:   leagues,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := badge.Validate(); err != nil {
		return reward.Badge{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.coordinator.SaveBadgeWithRefs(ctx, badge,
		membership.RefDiff{Added: users},
		membership.RefDiff{Added: leagues},
	)
	if err != nil {
		return reward.Badge{}, fmt.Errorf("save badge: %w", err)
	}

	s.logger.InfoContext(ctx, "badge created", "badge_id", badge.ID, "name", badge.Name)

	return badge, nil
}

func (s *RewardService) UpdateBadge(ctx context.Context, principal user.Principal, badgeID string, input BadgeInput) (reward.Badge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.UpdateBadge")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return reward.Badge{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return reward.Badge{}, fmt.Errorf("%w: badge id is required", ErrInvalidInput)
	}

	badge, exists, err := s.badgeRepo.GetByID(ctx, badgeID)
	if err != nil {
		return reward.Badge{}, fmt.Errorf("get badge: %w", err)
	}
	if !exists {
		return reward.Badge{}, fmt.Errorf("%w: badge=%s", ErrNotFound, badgeID)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return reward.Badge{}, fmt.Errorf("%w: badge name is required", ErrInvalidInput)
	}
	if input.Name != badge.Name {
		other, taken, err := s.badgeRepo.GetByName(ctx, input.Name)
		if err != nil {
			return reward.Badge{}, fmt.Errorf("get badge by name: %w", err)
		}
		if taken && other.ID != badgeID {
			return reward.Badge{}, fmt.Errorf("%w: badge name %q is taken", ErrConflict, input.Name)
		}
	}

	users, err := cleanIDs(input.UserIDs)
	if err != nil {
		return reward.Badge{}, err
	}
	leagues, err := cleanIDs(input.LeagueIDs)
	if err != nil {
		return reward.Badge{}, err
	}

	userDiff := membership.Diff(badge.UserIDs, users)
	leagueDiff := membership.Diff(badge.LeagueIDs, leagues)

	badge.Name = input.Name
	badge.Description = strings.TrimSpace(input.Description)
	badge.Condition = strings.TrimSpace(input.Condition)
	badge.Tags = input.Tags
	badge.UserIDs = users
	badge.LeagueIDs = leagues
	badge.UpdatedAt = s.now().UTC()

	if err := s.coordinator.SaveBadgeWithRefs(ctx, badge, userDiff, leagueDiff); err != nil {
		return reward.Badge{}, fmt.Errorf("save badge: %w", err)
	}

	s.logger.InfoContext(ctx, "badge updated",
		"badge_id", badge.ID,
		"users_added", len(userDiff.Added),
		"users_removed", len(userDiff.Removed),
	)

	return badge, nil
}

func (s *RewardService) DeleteBadge(ctx context.Context, principal user.Principal, badgeID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.DeleteBadge")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return fmt.Errorf("%w: badge id is required", ErrInvalidInput)
	}

	_, exists, err := s.badgeRepo.GetByID(ctx, badgeID)
	if err != nil {
		return fmt.Errorf("get badge: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: badge=%s", ErrNotFound, badgeID)
	}

	if err := s.coordinator.DeleteBadge(ctx, badgeID); err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}

	s.logger.InfoContext(ctx, "badge deleted", "badge_id", badgeID)

	return nil
}

type PrizeInput struct {
	Title       string
	Description string
	Reward      string
	Condition   string
	RankRange   reward.RankRange
	UserIDs     []string
	LeagueIDs   []string
}

func (s *RewardService) CreatePrize(ctx context.Context, principal user.Principal, input PrizeInput) (reward.Prize, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.CreatePrize")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return reward.Prize{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return reward.Prize{}, fmt.Errorf("%w: prize title is required", ErrInvalidInput)
	}

	_, exists, err := s.prizeRepo.GetByTitle(ctx, input.Title)
	if err != nil {
		return reward.Prize{}, fmt.Errorf("get prize by title: %w", err)
	}
	if exists {
		return reward.Prize{}, fmt.Errorf("%w: prize title %q is taken", ErrConflict, input.Title)
	}

	users, err := cleanIDs(input.UserIDs)
	if err != nil {
		return reward.Prize{}, err
	}
	leagues, err := cleanIDs(input.LeagueIDs)
	if err != nil {
		return reward.Prize{}, err
	}

	prizeID, err := s.idGen.NewID()
	if err != nil {
		return reward.Prize{}, fmt.Errorf("generate prize id: %w", err)
	}

	now := s.now().UTC()
	prize := reward.Prize{
		ID:          prizeID,
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Reward:      strings.TrimSpace(input.Reward),
		Condition:   strings.TrimSpace(input.Condition),
		RankRange:   input.RankRange,
		PlayerIDs:   users,
		LeagueIDs:   leagues,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := prize.Validate(); err != nil {
		return reward.Prize{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.coordinator.SavePrizeWithRefs(ctx, prize,
		membership.RefDiff{Added: users},
		membership.RefDiff{Added: leagues},
	)
	if err != nil {
		return reward.Prize{}, fmt.Errorf("save prize: %w", err)
	}

	s.logger.InfoContext(ctx, "prize created", "prize_id", prize.ID, "title", prize.Title)

	return prize, nil
}

func (s *RewardService) UpdatePrize(ctx context.Context, principal user.Principal, prizeID string, input PrizeInput) (reward.Prize, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.UpdatePrize")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return reward.Prize{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	prizeID = strings.TrimSpace(prizeID)
	if prizeID == "" {
		return reward.Prize{}, fmt.Errorf("%w: prize id is required", ErrInvalidInput)
	}

	prize, exists, err := s.prizeRepo.GetByID(ctx, prizeID)
	if err != nil {
		return reward.Prize{}, fmt.Errorf("get prize: %w", err)
	}
	if !exists {
		return reward.Prize{}, fmt.Errorf("%w: prize=%s", ErrNotFound, prizeID)
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return reward.Prize{}, fmt.Errorf("%w: prize title is required", ErrInvalidInput)
	}
	if input.Title != prize.Title {
		other, taken, err := s.prizeRepo.GetByTitle(ctx, input.Title)
		if err != nil {
			return reward.Prize{}, fmt.Errorf("get prize by title: %w", err)
		}
		if taken && other.ID != prizeID {
			return reward.Prize{}, fmt.Errorf("%w: prize title %q is taken", ErrConflict, input.Title)
		}
	}

	users, err := cleanIDs(input.UserIDs)
	if err != nil {
		return reward.Prize{}, err
	}
	leagues, err := cleanIDs(input.LeagueIDs)
	if err != nil {
		return reward.Prize{}, err
	}

	userDiff := membership.Diff(prize.PlayerIDs, users)
	leagueDiff := membership.Diff(prize.LeagueIDs, leagues)

	prize.Title = input.Title
	prize.Description = strings.TrimSpace(input.Description)
	prize.Reward = strings.TrimSpace(input.Reward)
	prize.Condition = strings.TrimSpace(input.Condition)
	prize.RankRange = input.RankRange
	prize.PlayerIDs = users
	prize.LeagueIDs = leagues
	prize.UpdatedAt = s.now().UTC()

	if err := prize.Validate(); err != nil {
		return reward.Prize{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.coordinator.SavePrizeWithRefs(ctx, prize, userDiff, leagueDiff); err != nil {
		return reward.Prize{}, fmt.Errorf("save prize: %w", err)
	}

	s.logger.InfoContext(ctx, "prize updated",
		"prize_id", prize.ID,
		"users_added", len(userDiff.Added),
		"users_removed", len(userDiff.Removed),
	)

	return prize, nil
}

func (s *RewardService) DeletePrize(ctx context.Context, principal user.Principal, prizeID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.DeletePrize")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	prizeID = strings.TrimSpace(prizeID)
	if prizeID == "" {
		return fmt.Errorf("%w: prize id is required", ErrInvalidInput)
	}

	_, exists, err := s.prizeRepo.GetByID(ctx, prizeID)
	if err != nil {
		return fmt.Errorf("get prize: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: prize=%s", ErrNotFound, prizeID)
	}

	if err := s.coordinator.DeletePrize(ctx, prizeID); err != nil {
		return fmt.Errorf("delete prize: %w", err)
	}

	s.logger.InfoContext(ctx, "prize deleted", "prize_id", prizeID)

	return nil
}

type BoosterInput struct {
	Name        string
	Description string
	Effect      string
	Tags        []string
	LeagueIDs   []string
}

func (s *RewardService) CreateBooster(ctx context.Context, principal user.Principal, input BoosterInput) (reward.Booster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.CreateBooster")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return reward.Booster{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return reward.Booster{}, fmt.Errorf("%w: booster name is required", ErrInvalidInput)
	}

	_, exists, err := s.boosterRepo.GetByName(ctx, input.Name)
	if err != nil {
		return reward.Booster{}, fmt.Errorf("get booster by name: %w", err)
	}
	if exists {
		return reward.Booster{}, fmt.Errorf("%w: booster name %q is taken", ErrConflict, input.Name)
	}

	leagues, err := cleanIDs(input.LeagueIDs)
	if err != nil {
		return reward.Booster{}, err
	}

	boosterID, err := s.idGen.NewID()
	if err != nil {
		return reward.Booster{}, fmt.Errorf("generate booster id: %w", err)
	}

	now := s.now().UTC()
	booster := reward.Booster{
		ID:          boosterID,
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		Effect:      strings.TrimSpace(input.Effect),
		Tags:        input.Tags,
		LeagueIDs:   leagues,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := booster.Validate(); err != nil {
		return reward.Booster{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.coordinator.SaveBoosterWithRefs(ctx, booster, membership.RefDiff{Added: leagues}); err != nil {
		return reward.Booster{}, fmt.Errorf("save booster: %w", err)
	}

	s.logger.InfoContext(ctx, "booster created", "booster_id", booster.ID, "name", booster.Name)

	return booster, nil
}

func (s *RewardService) UpdateBooster(ctx context.Context, principal user.Principal, boosterID string, input BoosterInput) (reward.Booster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.UpdateBooster")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return reward.Booster{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	boosterID = strings.TrimSpace(boosterID)
	if boosterID == "" {
		return reward.Booster{}, fmt.Errorf("%w: booster id is required", ErrInvalidInput)
	}

	booster, exists, err := s.boosterRepo.GetByID(ctx, boosterID)
	if err != nil {
		return reward.Booster{}, fmt.Errorf("get booster: %w", err)
	}
	if !exists {
		return reward.Booster{}, fmt.Errorf("%w: booster=%s", ErrNotFound, boosterID)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return reward.Booster{}, fmt.Errorf("%w: booster name is required", ErrInvalidInput)
	}
	if input.Name != booster.Name {
		other, taken, err := s.boosterRepo.GetByName(ctx, input.Name)
		if err != nil {
			return reward.Booster{}, fmt.Errorf("get booster by name: %w", err)
		}
		if taken && other.ID != boosterID {
			return reward.Booster{}, fmt.Errorf("%w: booster name %q is taken", ErrConflict, input.Name)
		}
	}

	leagues, err := cleanIDs(input.LeagueIDs)
	if err != nil {
		return reward.Booster{}, err
	}
	leagueDiff := membership.Diff(booster.LeagueIDs, leagues)

	booster.Name = input.Name
	booster.Description = strings.TrimSpace(input.Description)
	booster.Effect = strings.TrimSpace(input.Effect)
	booster.Tags = input.Tags
	booster.LeagueIDs = leagues
	booster.UpdatedAt = s.now().UTC()

	if err := s.coordinator.SaveBoosterWithRefs(ctx, booster, leagueDiff); err != nil {
		return reward.Booster{}, fmt.Errorf("save booster: %w", err)
	}

	s.logger.InfoContext(ctx, "booster updated", "booster_id", booster.ID)

	return booster, nil
}

func (s *RewardService) DeleteBooster(ctx context.Context, principal user.Principal, boosterID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RewardService.DeleteBooster")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	boosterID = strings.TrimSpace(boosterID)
	if boosterID == "" {
		return fmt.Errorf("%w: booster id is required", ErrInvalidInput)
	}

	_, exists, err := s.boosterRepo.GetByID(ctx, boosterID)
	if err != nil {
		return fmt.Errorf("get booster: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: booster=%s", ErrNotFound, boosterID)
	}

	if err := s.coordinator.DeleteBooster(ctx, boosterID); err != nil {
		return fmt.Errorf("delete booster: %w", err)
	}

	s.logger.InfoContext(ctx, "booster deleted", "booster_id", boosterID)

	return nil
}
