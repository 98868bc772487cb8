package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfpl/fantasy-platform/internal/domain/message"
)

type MessageRepository struct {
	mu    sync.RWMutex
	items map[string]message.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{items: make(map[string]message.Message)}
}

func (r *MessageRepository) GetByID(_ context.Context, id string) (message.Message, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return message.Message{}, false, nil
	}

	return m, true, nil
}

func (r *MessageRepository) ListForUser(_ context.Context, userID string) ([]message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]message.Message, 0)
	for _, m := range r.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if m, n := out[i], out[j]; !m.CreatedAt.Equal(n.CreatedAt) {
			return m.CreatedAt.After(n.CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *MessageRepository) Save(_ context.Context, m message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = m
	return nil
}
