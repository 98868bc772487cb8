package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(seed []user.User) *UserRepository {
	items := make(map[string]user.User, len(seed))
	for _, u := range seed {
		items[u.ID] = cloneUser(u)
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, false, nil
	}

	return cloneUser(u), true, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), true, nil
		}
	}

	return user.User{}, false, nil
}

func (r *UserRepository) List(_ context.Context, filter user.ListFilter) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(filter.Keyword)
	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		if u.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if keyword != "" {
			haystack := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
			if !strings.Contains(haystack, keyword) {
				continue
			}
		}
		out = append(out, cloneUser(u))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []user.User{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *UserRepository) Save(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u user.User) user.User {
	copied := u
	copied.ReferredPeople = append([]string(nil), u.ReferredPeople...)
	copied.LeagueIDs = append([]string(nil), u.LeagueIDs...)
	copied.BadgeIDs = append([]string(nil), u.BadgeIDs...)
	copied.PrizeIDs = append([]string(nil), u.PrizeIDs...)
	return copied
}
