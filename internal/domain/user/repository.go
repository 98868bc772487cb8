package user

import "context"

// ListFilter narrows and pages List results.
type ListFilter struct {
	Keyword        string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Repository describes user persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Save(ctx context.Context, u User) error
}
