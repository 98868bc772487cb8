package league

import "context"

// ListFilter narrows and pages List results.
type ListFilter struct {
	Keyword string
	Status  Status
	Limit   int
	Offset  int
}

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (League, bool, error)
	List(ctx context.Context, filter ListFilter) ([]League, error)
	Save(ctx context.Context, l League) error
}
