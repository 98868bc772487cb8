package userleague

import "context"

// Repository describes aggregate persistence needs from use cases.
type Repository interface {
	GetByPair(ctx context.Context, userID, leagueID string) (Info, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Info, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Info, error)
	Save(ctx context.Context, info Info) error
	Delete(ctx context.Context, userID, leagueID string) error
}
