package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/membership"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type userRefField int

const (
	userRefBadges userRefField = iota
	userRefPrizes
)

type leagueRefField int

const (
	leagueRefBadges leagueRefField = iota
	leagueRefPrizes
	leagueRefBoosters
)

// mirrorUserRefs applies a reward reference diff to the users side.
// Removed references on missing rows are skipped; added references on
// missing rows fail the transaction.
func mirrorUserRefs(ctx context.Context, tx *sqlx.Tx, diff membership.RefDiff, refID string, field userRefField) error {
	for _, userID := range diff.Added {
		usr, exists, err := getUser(ctx, tx, qb.Eq("public_id", userID))
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("mirror refs: user %s not found", userID)
		}
		switch field {
		case userRefBadges:
			usr.BadgeIDs = membership.AddRef(usr.BadgeIDs, refID)
		case userRefPrizes:
			usr.PrizeIDs = membership.AddRef(usr.PrizeIDs, refID)
		}
		if err := saveUser(ctx, tx, usr); err != nil {
			return err
		}
	}

	for _, userID := range diff.Removed {
		usr, exists, err := getUser(ctx, tx, qb.Eq("public_id", userID))
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		switch field {
		case userRefBadges:
			usr.BadgeIDs = membership.RemoveRef(usr.BadgeIDs, refID)
		case userRefPrizes:
			usr.PrizeIDs = membership.RemoveRef(usr.PrizeIDs, refID)
		}
		if err := saveUser(ctx, tx, usr); err != nil {
			return err
		}
	}

	return nil
}

func mirrorLeagueRefs(ctx context.Context, tx *sqlx.Tx, diff membership.RefDiff, refID string, field leagueRefField) error {
	for _, leagueID := range diff.Added {
		lg, exists, err := getLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("mirror refs: league %s not found", leagueID)
		}
		switch field {
		case leagueRefBadges:
			lg.BadgeIDs = membership.AddRef(lg.BadgeIDs, refID)
		case leagueRefPrizes:
			lg.PrizeIDs = membership.AddRef(lg.PrizeIDs, refID)
		case leagueRefBoosters:
			lg.BoosterIDs = membership.AddRef(lg.BoosterIDs, refID)
		}
		if err := saveLeague(ctx, tx, lg); err != nil {
			return err
		}
	}

	for _, leagueID := range diff.Removed {
		lg, exists, err := getLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		switch field {
		case leagueRefBadges:
			lg.BadgeIDs = membership.RemoveRef(lg.BadgeIDs, refID)
		case leagueRefPrizes:
			lg.PrizeIDs = membership.RemoveRef(lg.PrizeIDs, refID)
		case leagueRefBoosters:
			lg.BoosterIDs = membership.RemoveRef(lg.BoosterIDs, refID)
		}
		if err := saveLeague(ctx, tx, lg); err != nil {
			return err
		}
	}

	return nil
}
