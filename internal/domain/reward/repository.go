package reward

import "context"

// BadgeRepository describes badge persistence needs from use cases.
type BadgeRepository interface {
	GetByID(ctx context.Context, id string) (Badge, bool, error)
	GetByName(ctx context.Context, name string) (Badge, bool, error)
	List(ctx context.Context) ([]Badge, error)
	Save(ctx context.Context, b Badge) error
	Delete(ctx context.Context, id string) error
}

// PrizeRepository describes prize persistence needs from use cases.
type PrizeRepository interface {
	GetByID(ctx context.Context, id string) (Prize, bool, error)
	GetByTitle(ctx context.Context, title string) (Prize, bool, error)
	List(ctx context.Context) ([]Prize, error)
	Save(ctx context.Context, p Prize) error
	Delete(ctx context.Context, id string) error
}

// BoosterRepository describes booster persistence needs from use cases.
type BoosterRepository interface {
	GetByID(ctx context.Context, id string) (Booster, bool, error)
	GetByName(ctx context.Context, name string) (Booster, bool, error)
	List(ctx context.Context) ([]Booster, error)
	Save(ctx context.Context, b Booster) error
	Delete(ctx context.Context, id string) error
}
