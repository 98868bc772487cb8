package membership

import (
	"context"
	"errors"

	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
)

// ErrDuplicatePair reports a join racing an existing (user, league)
// aggregate. The unique index surfaces it even when the service-level
// checks passed.
var ErrDuplicatePair = errors.New("membership already exists for user and league")

// RefDiff is a computed set difference applied to a back-reference array.
type RefDiff struct {
	Added   []string
	Removed []string
}

// ChangeSet is the admin bulk edit: the user row to persist plus every
// mirrored reference change, applied in one transaction.
type ChangeSet struct {
	User    user.User
	Leagues RefDiff
	Badges  RefDiff
	Prizes  RefDiff
	// NewInfos are aggregates created for added leagues that have none
	// yet. Aggregates for removed leagues are deleted; Leave never does
	// that.
	NewInfos []userleague.Info
}

// Repository owns the multi-entity transactions that keep memberships and
// back-references mutually consistent. Every method is all-or-nothing.
type Repository interface {
	// Join adds the membership on both sides and creates the aggregate.
	Join(ctx context.Context, userID, leagueID string, info userleague.Info) error
	// Leave removes the membership on both sides. The aggregate is
	// retained.
	Leave(ctx context.Context, userID, leagueID string) error
	// ApplyChangeSet persists an admin bulk edit.
	ApplyChangeSet(ctx context.Context, cs ChangeSet) error

	SaveBadgeWithRefs(ctx context.Context, b reward.Badge, users, leagues RefDiff) error
	SavePrizeWithRefs(ctx context.Context, p reward.Prize, users, leagues RefDiff) error
	SaveBoosterWithRefs(ctx context.Context, b reward.Booster, leagues RefDiff) error

	// Delete* remove the entity and pull its ID from every referencing
	// user and league.
	DeleteBadge(ctx context.Context, id string) error
	DeletePrize(ctx context.Context, id string) error
	DeleteBooster(ctx context.Context, id string) error
}
