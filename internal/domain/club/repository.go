package club

import "context"

// Repository describes club persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Club, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Club, error)
	Save(ctx context.Context, c Club) error
}
