package memory

import (
	"context"
	"fmt"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/membership"
	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
)

// Step names surfaced to the fault hook, in apply order.
const (
	StepSaveUser        = "save_user"
	StepSaveLeague      = "save_league"
	StepSaveAggregate   = "save_aggregate"
	StepDeleteAggregate = "delete_aggregate"
	StepSaveBadge       = "save_badge"
	StepSavePrize       = "save_prize"
	StepSaveBooster     = "save_booster"
	StepDeleteBadge     = "delete_badge"
	StepDeletePrize     = "delete_prize"
	StepDeleteBooster   = "delete_booster"
)

// MembershipRepository mirrors the postgres coordinator for tests. Writes
// are staged first; FaultHook runs once per staged step before anything is
// applied, so a hook error leaves every store untouched.
type MembershipRepository struct {
	users    *UserRepository
	leagues  *LeagueRepository
	aggs     *UserLeagueRepository
	badges   *BadgeRepository
	prizes   *PrizeRepository
	boosters *BoosterRepository

	FaultHook func(step string) error
}

func NewMembershipRepository(
	users *UserRepository,
	leagues *LeagueRepository,
	aggs *UserLeagueRepository,
	badges *BadgeRepository,
	prizes *PrizeRepository,
	boosters *BoosterRepository,
) *MembershipRepository {
	return &MembershipRepository{
		users:    users,
		leagues:  leagues,
		aggs:     aggs,
		badges:   badges,
		prizes:   prizes,
		boosters: boosters,
	}
}

type stagedWrite struct {
	step  string
	apply func(ctx context.Context) error
}

func (r *MembershipRepository) commit(ctx context.Context, writes []stagedWrite) error {
	if r.FaultHook != nil {
		for _, w := range writes {
			if err := r.FaultHook(w.step); err != nil {
				return err
			}
		}
	}
	for _, w := range writes {
		if err := w.apply(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *MembershipRepository) Join(ctx context.Context, userID, leagueID string, info userleague.Info) error {
	usr, ok, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}

	lg, ok, err := r.leagues.GetByID(ctx, leagueID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}

	if _, exists, err := r.aggs.GetByPair(ctx, userID, leagueID); err != nil {
		return err
	} else if exists {
		return membership.ErrDuplicatePair
	}

	usr.LeagueIDs = membership.AddRef(usr.LeagueIDs, leagueID)
	lg.UserIDs = membership.AddRef(lg.UserIDs, userID)

	return r.commit(ctx, []stagedWrite{
		{StepSaveUser, func(ctx context.Context) error { return r.users.Save(ctx, usr) }},
		{StepSaveLeague, func(ctx context.Context) error { return r.leagues.Save(ctx, lg) }},
		{StepSaveAggregate, func(ctx context.Context) error { return r.aggs.Save(ctx, info) }},
	})
}

func (r *MembershipRepository) Leave(ctx context.Context, userID, leagueID string) error {
	usr, ok, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}

	lg, ok, err := r.leagues.GetByID(ctx, leagueID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}

	usr.LeagueIDs = membership.RemoveRef(usr.LeagueIDs, leagueID)
	lg.UserIDs = membership.RemoveRef(lg.UserIDs, userID)

	return r.commit(ctx, []stagedWrite{
		{StepSaveUser, func(ctx context.Context) error { return r.users.Save(ctx, usr) }},
		{StepSaveLeague, func(ctx context.Context) error { return r.leagues.Save(ctx, lg) }},
	})
}

func (r *MembershipRepository) ApplyChangeSet(ctx context.Context, cs membership.ChangeSet) error {
	writes := []stagedWrite{
		{StepSaveUser, func(ctx context.Context) error { return r.users.Save(ctx, cs.User) }},
	}

	userID := cs.User.ID
	for _, leagueID := range cs.Leagues.Added {
		lg, ok, err := r.leagues.GetByID(ctx, leagueID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("league %s not found", leagueID)
		}
		lg.UserIDs = membership.AddRef(lg.UserIDs, userID)
		writes = append(writes, stagedWrite{StepSaveLeague, func(ctx context.Context) error { return r.leagues.Save(ctx, lg) }})
	}
	for _, leagueID := range cs.Leagues.Removed {
		lg, ok, err := r.leagues.GetByID(ctx, leagueID)
		if err != nil {
			return err
		}
		if ok {
			lg.UserIDs = membership.RemoveRef(lg.UserIDs, userID)
			writes = append(writes, stagedWrite{StepSaveLeague, func(ctx context.Context) error { return r.leagues.Save(ctx, lg) }})
		}
		leagueID := leagueID
		writes = append(writes, stagedWrite{StepDeleteAggregate, func(ctx context.Context) error { return r.aggs.Delete(ctx, userID, leagueID) }})
	}
	for _, info := range cs.NewInfos {
		info := info
		writes = append(writes, stagedWrite{StepSaveAggregate, func(ctx context.Context) error { return r.aggs.Save(ctx, info) }})
	}

	for _, badgeID := range cs.Badges.Added {
		b, ok, err := r.badges.GetByID(ctx, badgeID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("badge %s not found", badgeID)
		}
		b.UserIDs = membership.AddRef(b.UserIDs, userID)
		writes = append(writes, stagedWrite{StepSaveBadge, func(ctx context.Context) error { return r.badges.Save(ctx, b) }})
	}
	for _, badgeID := range cs.Badges.Removed {
		b, ok, err := r.badges.GetByID(ctx, badgeID)
		if err != nil {
			return err
		}
		if ok {
			b.UserIDs = membership.RemoveRef(b.UserIDs, userID)
			writes = append(writes, stagedWrite{StepSaveBadge, func(ctx context.Context) error { return r.badges.Save(ctx, b) }})
		}
	}

	for _, prizeID := range cs.Prizes.Added {
		p, ok, err := r.prizes.GetByID(ctx, prizeID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("prize %s not found", prizeID)
		}
		p.PlayerIDs = membership.AddRef(p.PlayerIDs, userID)
		writes = append(writes, stagedWrite{StepSavePrize, func(ctx context.Context) error { return r.prizes.Save(ctx, p) }})
	}
	for _, prizeID := range cs.Prizes.Removed {
		p, ok, err := r.prizes.GetByID(ctx, prizeID)
		if err != nil {
			return err
		}
		if ok {
			p.PlayerIDs = membership.RemoveRef(p.PlayerIDs, userID)
			writes = append(writes, stagedWrite{StepSavePrize, func(ctx context.Context) error { return r.prizes.Save(ctx, p) }})
		}
	}

	return r.commit(ctx, writes)
}

func (r *MembershipRepository) SaveBadgeWithRefs(ctx context.Context, b reward.Badge, users, leagues membership.RefDiff) error {
	writes := []stagedWrite{
		{StepSaveBadge, func(ctx context.Context) error { return r.badges.Save(ctx, b) }},
	}

	userWrites, err := r.stageUserRefWrites(ctx, users, func(u *user.User, add bool) {
		if add {
			u.BadgeIDs = membership.AddRef(u.BadgeIDs, b.ID)
		} else {
			u.BadgeIDs = membership.RemoveRef(u.BadgeIDs, b.ID)
		}
	})
	if err != nil {
		return err
	}
	leagueWrites, err := r.stageLeagueRefWrites(ctx, leagues, func(l *league.League, add bool) {
		if add {
			l.BadgeIDs = membership.AddRef(l.BadgeIDs, b.ID)
		} else {
			l.BadgeIDs = membership.RemoveRef(l.BadgeIDs, b.ID)
		}
	})
	if err != nil {
		return err
	}

	writes = append(writes, userWrites...)
	writes = append(writes, leagueWrites...)
	return r.commit(ctx, writes)
}

func (r *MembershipRepository) SavePrizeWithRefs(ctx context.Context, p reward.Prize, users, leagues membership.RefDiff) error {
	writes := []stagedWrite{
		{StepSavePrize, func(ctx context.Context) error { return r.prizes.Save(ctx, p) }},
	}

	userWrites, err := r.stageUserRefWrites(ctx, users, func(u *user.User, add bool) {
		if add {
			u.PrizeIDs = membership.AddRef(u.PrizeIDs, p.ID)
		} else {
			u.PrizeIDs = membership.RemoveRef(u.PrizeIDs, p.ID)
		}
	})
	if err != nil {
		return err
	}
	leagueWrites, err := r.stageLeagueRefWrites(ctx, leagues, func(l *league.League, add bool) {
		if add {
			l.PrizeIDs = membership.AddRef(l.PrizeIDs, p.ID)
		} else {
			l.PrizeIDs = membership.RemoveRef(l.PrizeIDs, p.ID)
		}
	})
	if err != nil {
		return err
	}

	writes = append(writes, userWrites...)
	writes = append(writes, leagueWrites...)
	return r.commit(ctx, writes)
}

func (r *MembershipRepository) SaveBoosterWithRefs(ctx context.Context, b reward.Booster, leagues membership.RefDiff) error {
	writes := []stagedWrite{
		{StepSaveBooster, func(ctx context.Context) error { return r.boosters.Save(ctx, b) }},
	}

	leagueWrites, err := r.stageLeagueRefWrites(ctx, leagues, func(l *league.League, add bool) {
		if add {
			l.BoosterIDs = membership.AddRef(l.BoosterIDs, b.ID)
		} else {
			l.BoosterIDs = membership.RemoveRef(l.BoosterIDs, b.ID)
		}
	})
	if err != nil {
		return err
	}

	writes = append(writes, leagueWrites...)
	return r.commit(ctx, writes)
}

func (r *MembershipRepository) DeleteBadge(ctx context.Context, id string) error {
	b, ok, err := r.badges.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("badge %s not found", id)
	}

	writes := []stagedWrite{
		{StepDeleteBadge, func(ctx context.Context) error { return r.badges.Delete(ctx, id) }},
	}
	userWrites, err := r.stageUserRefWrites(ctx, membership.RefDiff{Removed: b.UserIDs}, func(u *user.User, _ bool) {
		u.BadgeIDs = membership.RemoveRef(u.BadgeIDs, id)
	})
	if err != nil {
		return err
	}
	leagueWrites, err := r.stageLeagueRefWrites(ctx, membership.RefDiff{Removed: b.LeagueIDs}, func(l *league.League, _ bool) {
		l.BadgeIDs = membership.RemoveRef(l.BadgeIDs, id)
	})
	if err != nil {
		return err
	}

	writes = append(writes, userWrites...)
	writes = append(writes, leagueWrites...)
	return r.commit(ctx, writes)
}

func (r *MembershipRepository) DeletePrize(ctx context.Context, id string) error {
	p, ok, err := r.prizes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("prize %s not found", id)
	}

	writes := []stagedWrite{
		{StepDeletePrize, func(ctx context.Context) error { return r.prizes.Delete(ctx, id) }},
	}
	userWrites, err := r.stageUserRefWrites(ctx, membership.RefDiff{Removed: p.PlayerIDs}, func(u *user.User, _ bool) {
		u.PrizeIDs = membership.RemoveRef(u.PrizeIDs, id)
	})
	if err != nil {
		return err
	}
	leagueWrites, err := r.stageLeagueRefWrites(ctx, membership.RefDiff{Removed: p.LeagueIDs}, func(l *league.League, _ bool) {
		l.PrizeIDs = membership.RemoveRef(l.PrizeIDs, id)
	})
	if err != nil {
		return err
	}

	writes = append(writes, userWrites...)
	writes = append(writes, leagueWrites...)
	return r.commit(ctx, writes)
}

func (r *MembershipRepository) DeleteBooster(ctx context.Context, id string) error {
	b, ok, err := r.boosters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("booster %s not found", id)
	}

	writes := []stagedWrite{
		{StepDeleteBooster, func(ctx context.Context) error { return r.boosters.Delete(ctx, id) }},
	}
	leagueWrites, err := r.stageLeagueRefWrites(ctx, membership.RefDiff{Removed: b.LeagueIDs}, func(l *league.League, _ bool) {
		l.BoosterIDs = membership.RemoveRef(l.BoosterIDs, id)
	})
	if err != nil {
		return err
	}

	writes = append(writes, leagueWrites...)
	return r.commit(ctx, writes)
}

func (r *MembershipRepository) stageUserRefWrites(ctx context.Context, diff membership.RefDiff, mutate func(*user.User, bool)) ([]stagedWrite, error) {
	writes := make([]stagedWrite, 0, len(diff.Added)+len(diff.Removed))
	for _, userID := range diff.Added {
		u, ok, err := r.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("user %s not found", userID)
		}
		mutate(&u, true)
		writes = append(writes, stagedWrite{StepSaveUser, func(ctx context.Context) error { return r.users.Save(ctx, u) }})
	}
	for _, userID := range diff.Removed {
		u, ok, err := r.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		mutate(&u, false)
		writes = append(writes, stagedWrite{StepSaveUser, func(ctx context.Context) error { return r.users.Save(ctx, u) }})
	}
	return writes, nil
}

func (r *MembershipRepository) stageLeagueRefWrites(ctx context.Context, diff membership.RefDiff, mutate func(*league.League, bool)) ([]stagedWrite, error) {
	writes := make([]stagedWrite, 0, len(diff.Added)+len(diff.Removed))
	for _, leagueID := range diff.Added {
		l, ok, err := r.leagues.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("league %s not found", leagueID)
		}
		mutate(&l, true)
		writes = append(writes, stagedWrite{StepSaveLeague, func(ctx context.Context) error { return r.leagues.Save(ctx, l) }})
	}
	for _, leagueID := range diff.Removed {
		l, ok, err := r.leagues.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		mutate(&l, false)
		writes = append(writes, stagedWrite{StepSaveLeague, func(ctx context.Context) error { return r.leagues.Save(ctx, l) }})
	}
	return writes, nil
}
