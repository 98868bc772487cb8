package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/membership"
	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

// MembershipService is the coordinator for every write that touches
// memberships or reference arrays on more than one entity. All of its
// multi-entity writes are transactional through the membership repository.
type MembershipService struct {
	userRepo    user.Repository
	leagueRepo  league.Repository
	aggRepo     userleague.Repository
	badgeRepo   reward.BadgeRepository
	prizeRepo   reward.PrizeRepository
	coordinator membership.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewMembershipService(
	userRepo user.Repository,
	leagueRepo league.Repository,
	aggRepo userleague.Repository,
	badgeRepo reward.BadgeRepository,
	prizeRepo reward.PrizeRepository,
	coordinator membership.Repository,
	logger *logging.Logger,
) *MembershipService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MembershipService{
		userRepo:    userRepo,
		leagueRepo:  leagueRepo,
		aggRepo:     aggRepo,
		badgeRepo:   badgeRepo,
		prizeRepo:   prizeRepo,
		coordinator: coordinator,
		logger:      logger,
		now:         time.Now,
	}
}

// JoinLeague enrolls userID into leagueID: membership is mirrored on both
// entities and a zeroed aggregate is created, all-or-nothing.
func (s *MembershipService) JoinLeague(ctx context.Context, principal user.Principal, userID, leagueID string) (userleague.Info, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MembershipService.JoinLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return userleague.Info{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if !principal.CanActFor(userID) {
		return userleague.Info{}, fmt.Errorf("%w: cannot join a league for another user", ErrForbidden)
	}

	usr, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return userleague.Info{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	_, exists, err = s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return userleague.Info{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	for _, id := range usr.LeagueIDs {
		if id == leagueID {
			return userleague.Info{}, fmt.Errorf("%w: user is already a member of league=%s", ErrConflict, leagueID)
		}
	}

	_, exists, err = s.aggRepo.GetByPair(ctx, userID, leagueID)
	if err != nil {
		return userleague.Info{}, fmt.Errorf("get aggregate: %w", err)
	}
	if exists {
		return userleague.Info{}, fmt.Errorf("%w: aggregate already exists for user=%s league=%s", ErrConflict, userID, leagueID)
	}

	info := userleague.NewInfo(userID, leagueID, defaultTeamName(usr), s.now().UTC())
	if err := s.coordinator.Join(ctx, userID, leagueID, info); err != nil {
		if errors.Is(err, membership.ErrDuplicatePair) {
			return userleague.Info{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return userleague.Info{}, fmt.Errorf("join league: %w", err)
	}

	s.logger.InfoContext(ctx, "league joined",
		"user_id", userID,
		"league_id", leagueID,
	)

	return info, nil
}

// LeaveLeague removes the membership from both entities. The aggregate is
// retained so historical scores survive a re-join.
func (s *MembershipService) LeaveLeague(ctx context.Context, principal user.Principal, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MembershipService.LeaveLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if !principal.CanActFor(userID) {
		return fmt.Errorf("%w: cannot leave a league for another user", ErrForbidden)
	}

	usr, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	_, exists, err = s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	member := false
	for _, id := range usr.LeagueIDs {
		if id == leagueID {
			member = true
			break
		}
	}
	if !member {
		return fmt.Errorf("%w: user is not a member of league=%s", ErrInvalidInput, leagueID)
	}

	if err := s.coordinator.Leave(ctx, userID, leagueID); err != nil {
		return fmt.Errorf("leave league: %w", err)
	}

	s.logger.InfoContext(ctx, "league left",
		"user_id", userID,
		"league_id", leagueID,
	)

	return nil
}

// SetUserRefsInput is the admin bulk edit payload. A nil list leaves that
// reference set unchanged.
type SetUserRefsInput struct {
	LeagueIDs *[]string
	BadgeIDs  *[]string
	PrizeIDs  *[]string
}

// SetUserRefs rewrites a user's league/badge/prize reference sets in one
// transaction. Leagues removed here lose their aggregates, unlike
// LeaveLeague.
func (s *MembershipService) SetUserRefs(ctx context.Context, principal user.Principal, userID string, input SetUserRefsInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MembershipService.SetUserRefs")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return user.User{}, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	usr, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	now := s.now().UTC()
	cs := membership.ChangeSet{User: usr}

	if input.LeagueIDs != nil {
		requested, err := cleanIDs(*input.LeagueIDs)
		if err != nil {
			return user.User{}, err
		}
		cs.Leagues = membership.Diff(usr.LeagueIDs, requested)
		for _, leagueID := range cs.Leagues.Added {
			_, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
			if err != nil {
				return user.User{}, fmt.Errorf("get league: %w", err)
			}
			if !ok {
				return user.User{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
			}

			_, hasAgg, err := s.aggRepo.GetByPair(ctx, userID, leagueID)
			if err != nil {
				return user.User{}, fmt.Errorf("get aggregate: %w", err)
			}
			if !hasAgg {
				cs.NewInfos = append(cs.NewInfos, userleague.NewInfo(userID, leagueID, defaultTeamName(usr), now))
			}
		}
		cs.User.LeagueIDs = requested
	}

	if input.BadgeIDs != nil {
		requested, err := cleanIDs(*input.BadgeIDs)
		if err != nil {
			return user.User{}, err
		}
		cs.Badges = membership.Diff(usr.BadgeIDs, requested)
		for _, badgeID := range cs.Badges.Added {
			_, ok, err := s.badgeRepo.GetByID(ctx, badgeID)
			if err != nil {
				return user.User{}, fmt.Errorf("get badge: %w", err)
			}
			if !ok {
				return user.User{}, fmt.Errorf("%w: badge=%s", ErrNotFound, badgeID)
			}
		}
		cs.User.BadgeIDs = requested
	}

	if input.PrizeIDs != nil {
		requested, err := cleanIDs(*input.PrizeIDs)
		if err != nil {
			return user.User{}, err
		}
		cs.Prizes = membership.Diff(usr.PrizeIDs, requested)
		for _, prizeID := range cs.Prizes.Added {
			_, ok, err := s.prizeRepo.GetByID(ctx, prizeID)
			if err != nil {
				return user.User{}, fmt.Errorf("get prize: %w", err)
			}
			if !ok {
				return user.User{}, fmt.Errorf("%w: prize=%s", ErrNotFound, prizeID)
			}
		}
		cs.User.PrizeIDs = requested
	}

	cs.User.UpdatedAt = now
	if err := s.coordinator.ApplyChangeSet(ctx, cs); err != nil {
		return user.User{}, fmt.Errorf("apply user refs change set: %w", err)
	}

	s.logger.InfoContext(ctx, "user refs updated",
		"user_id", userID,
		"leagues_added", len(cs.Leagues.Added),
		"leagues_removed", len(cs.Leagues.Removed),
		"badges_added", len(cs.Badges.Added),
		"badges_removed", len(cs.Badges.Removed),
		"prizes_added", len(cs.Prizes.Added),
		"prizes_removed", len(cs.Prizes.Removed),
	)

	return cs.User, nil
}

// SetUserLeagues rewrites only the league memberships.
func (s *MembershipService) SetUserLeagues(ctx context.Context, principal user.Principal, userID string, leagueIDs []string) (user.User, error) {
	return s.SetUserRefs(ctx, principal, userID, SetUserRefsInput{LeagueIDs: &leagueIDs})
}

// SetUserBadges rewrites only the badge references.
func (s *MembershipService) SetUserBadges(ctx context.Context, principal user.Principal, userID string, badgeIDs []string) (user.User, error) {
	return s.SetUserRefs(ctx, principal, userID, SetUserRefsInput{BadgeIDs: &badgeIDs})
}

// SetUserPrizes rewrites only the prize references.
func (s *MembershipService) SetUserPrizes(ctx context.Context, principal user.Principal, userID string, prizeIDs []string) (user.User, error) {
	return s.SetUserRefs(ctx, principal, userID, SetUserRefsInput{PrizeIDs: &prizeIDs})
}

func defaultTeamName(u user.User) string {
	name := strings.TrimSpace(u.FirstName)
	if name == "" {
		name = "My"
	}
	return name + "'s Team"
}

func cleanIDs(ids []string) ([]string, error) {
	cleaned := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: id cannot be empty", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}
