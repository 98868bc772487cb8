package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfpl/fantasy-platform/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	items map[string]club.Club
}

func NewClubRepository(seed []club.Club) *ClubRepository {
	items := make(map[string]club.Club, len(seed))
	for _, c := range seed {
		items[c.ID] = c
	}
	return &ClubRepository{items: items}
}

func (r *ClubRepository) GetByID(_ context.Context, id string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return club.Club{}, false, nil
	}

	return c, true, nil
}

func (r *ClubRepository) ListByLeague(_ context.Context, leagueID string) ([]club.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]club.Club, 0, len(r.items))
	for _, c := range r.items {
		if c.LeagueID == leagueID {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *ClubRepository) Save(_ context.Context, c club.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[c.ID] = c
	return nil
}
