package message

import "context"

// Repository describes message persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Message, bool, error)
	ListForUser(ctx context.Context, userID string) ([]Message, error)
	Save(ctx context.Context, m Message) error
}
