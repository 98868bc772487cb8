package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]Player, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Player, error)
	Save(ctx context.Context, p Player) error
}
