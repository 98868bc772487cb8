package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/membership"
	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

// MembershipRepository owns the multi-row transactions behind joins,
// leaves, admin bulk edits and reward reference reconciliation. Every
// method commits all staged rows or none.
type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Join(ctx context.Context, userID, leagueID string, info userleague.Info) error {
	return r.inTx(ctx, "join league", func(tx *sqlx.Tx) error {
		usr, exists, err := getUser(ctx, tx, qb.Eq("public_id", userID))
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("join: user %s not found", userID)
		}
		lg, exists, err := getLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("join: league %s not found", leagueID)
		}

		if err := insertUserLeague(ctx, tx, info); err != nil {
			return err
		}

		usr.LeagueIDs = membership.AddRef(usr.LeagueIDs, leagueID)
		if err := saveUser(ctx, tx, usr); err != nil {
			return err
		}
		lg.UserIDs = membership.AddRef(lg.UserIDs, userID)
		return saveLeague(ctx, tx, lg)
	})
}

// insertUserLeague is a plain insert so the compound unique index reports
// a racing join instead of silently overwriting.
func insertUserLeague(ctx context.Context, tx *sqlx.Tx, info userleague.Info) error {
	insertModel, err := userLeagueInsertFromDomain(info)
	if err != nil {
		return fmt.Errorf("map aggregate row: %w", err)
	}
	query, args, err := qb.InsertModel("user_league_info", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert aggregate query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("insert aggregate: %w", membership.ErrDuplicatePair)
		}
		return fmt.Errorf("insert aggregate: %w", err)
	}

	return nil
}

func (r *MembershipRepository) Leave(ctx context.Context, userID, leagueID string) error {
	return r.inTx(ctx, "leave league", func(tx *sqlx.Tx) error {
		usr, exists, err := getUser(ctx, tx, qb.Eq("public_id", userID))
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("leave: user %s not found", userID)
		}
		lg, exists, err := getLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("leave: league %s not found", leagueID)
		}

		usr.LeagueIDs = membership.RemoveRef(usr.LeagueIDs, leagueID)
		if err := saveUser(ctx, tx, usr); err != nil {
			return err
		}
		lg.UserIDs = membership.RemoveRef(lg.UserIDs, userID)
		return saveLeague(ctx, tx, lg)
	})
}

func (r *MembershipRepository) ApplyChangeSet(ctx context.Context, cs membership.ChangeSet) error {
	return r.inTx(ctx, "apply change set", func(tx *sqlx.Tx) error {
		if err := saveUser(ctx, tx, cs.User); err != nil {
			return err
		}

		for _, leagueID := range cs.Leagues.Added {
			lg, exists, err := getLeague(ctx, tx, leagueID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("change set: league %s not found", leagueID)
			}
			lg.UserIDs = membership.AddRef(lg.UserIDs, cs.User.ID)
			if err := saveLeague(ctx, tx, lg); err != nil {
				return err
			}
		}
		for _, leagueID := range cs.Leagues.Removed {
			lg, exists, err := getLeague(ctx, tx, leagueID)
			if err != nil {
				return err
			}
			if exists {
				lg.UserIDs = membership.RemoveRef(lg.UserIDs, cs.User.ID)
				if err := saveLeague(ctx, tx, lg); err != nil {
					return err
				}
			}
			if err := deleteUserLeague(ctx, tx, cs.User.ID, leagueID); err != nil {
				return err
			}
		}
		for _, info := range cs.NewInfos {
			if err := insertUserLeague(ctx, tx, info); err != nil {
				return err
			}
		}

		if err := applyBadgeUserRefs(ctx, tx, cs.Badges, cs.User.ID); err != nil {
			return err
		}
		return applyPrizeUserRefs(ctx, tx, cs.Prizes, cs.User.ID)
	})
}

func applyBadgeUserRefs(ctx context.Context, tx *sqlx.Tx, diff membership.RefDiff, userID string) error {
	for _, badgeID := range diff.Added {
		b, exists, err := getBadge(ctx, tx, qb.Eq("public_id", badgeID))
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("change set: badge %s not found", badgeID)
		}
		b.UserIDs = membership.AddRef(b.UserIDs, userID)
		if err := saveBadge(ctx, tx, b); err != nil {
			return err
		}
	}
	for _, badgeID := range diff.Removed {
		b, exists, err := getBadge(ctx, tx, qb.Eq("public_id", badgeID))
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		b.UserIDs = membership.RemoveRef(b.UserIDs, userID)
		if err := saveBadge(ctx, tx, b); err != nil {
			return err
		}
	}
	return nil
}

func applyPrizeUserRefs(ctx context.Context, tx *sqlx.Tx, diff membership.RefDiff, userID string) error {
	for _, prizeID := range diff.Added {
		p, exists, err := getPrize(ctx, tx, qb.Eq("public_id", prizeID))
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("change set: prize %s not found", prizeID)
		}
		p.PlayerIDs = membership.AddRef(p.PlayerIDs, userID)
		if err := savePrize(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, prizeID := range diff.Removed {
		p, exists, err := getPrize(ctx, tx, qb.Eq("public_id", prizeID))
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		p.PlayerIDs = membership.RemoveRef(p.PlayerIDs, userID)
		if err := savePrize(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *MembershipRepository) SaveBadgeWithRefs(ctx context.Context, b reward.Badge, users, leagues membership.RefDiff) error {
	return r.inTx(ctx, "save badge with refs", func(tx *sqlx.Tx) error {
		if err := saveBadge(ctx, tx, b); err != nil {
			return err
		}
		if err := mirrorUserRefs(ctx, tx, users, b.ID, userRefBadges); err != nil {
			return err
		}
		return mirrorLeagueRefs(ctx, tx, leagues, b.ID, leagueRefBadges)
	})
}

func (r *MembershipRepository) SavePrizeWithRefs(ctx context.Context, p reward.Prize, users, leagues membership.RefDiff) error {
	return r.inTx(ctx, "save prize with refs", func(tx *sqlx.Tx) error {
		if err := savePrize(ctx, tx, p); err != nil {
			return err
		}
		if err := mirrorUserRefs(ctx, tx, users, p.ID, userRefPrizes); err != nil {
			return err
		}
		return mirrorLeagueRefs(ctx, tx, leagues, p.ID, leagueRefPrizes)
	})
}

func (r *MembershipRepository) SaveBoosterWithRefs(ctx context.Context, b reward.Booster, leagues membership.RefDiff) error {
	return r.inTx(ctx, "save booster with refs", func(tx *sqlx.Tx) error {
		if err := saveBooster(ctx, tx, b); err != nil {
			return err
		}
		return mirrorLeagueRefs(ctx, tx, leagues, b.ID, leagueRefBoosters)
	})
}

func (r *MembershipRepository) DeleteBadge(ctx context.Context, id string) error {
	return r.inTx(ctx, "delete badge", func(tx *sqlx.Tx) error {
		b, exists, err := getBadge(ctx, tx, qb.Eq("public_id", id))
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		if err := mirrorUserRefs(ctx, tx, membership.RefDiff{Removed: b.UserIDs}, id, userRefBadges); err != nil {
			return err
		}
		if err := mirrorLeagueRefs(ctx, tx, membership.RefDiff{Removed: b.LeagueIDs}, id, leagueRefBadges); err != nil {
			return err
		}
		return deleteByPublicID(ctx, tx, "badges", id)
	})
}

func (r *MembershipRepository) DeletePrize(ctx context.Context, id string) error {
	return r.inTx(ctx, "delete prize", func(tx *sqlx.Tx) error {
		p, exists, err := getPrize(ctx, tx, qb.Eq("public_id", id))
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		if err := mirrorUserRefs(ctx, tx, membership.RefDiff{Removed: p.PlayerIDs}, id, userRefPrizes); err != nil {
			return err
		}
		if err := mirrorLeagueRefs(ctx, tx, membership.RefDiff{Removed: p.LeagueIDs}, id, leagueRefPrizes); err != nil {
			return err
		}
		return deleteByPublicID(ctx, tx, "prizes", id)
	})
}

func (r *MembershipRepository) DeleteBooster(ctx context.Context, id string) error {
	return r.inTx(ctx, "delete booster", func(tx *sqlx.Tx) error {
		b, exists, err := getBooster(ctx, tx, qb.Eq("public_id", id))
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		if err := mirrorLeagueRefs(ctx, tx, membership.RefDiff{Removed: b.LeagueIDs}, id, leagueRefBoosters); err != nil {
			return err
		}
		return deleteByPublicID(ctx, tx, "boosters", id)
	})
}

func (r *MembershipRepository) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", op, err)
	}
	return nil
}
