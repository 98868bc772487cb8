package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/openfpl/fantasy-platform/internal/domain/reward"
)

type BadgeRepository struct {
	mu    sync.RWMutex
	items map[string]reward.Badge
}

func NewBadgeRepository(seed []reward.Badge) *BadgeRepository {
	items := make(map[string]reward.Badge, len(seed))
	for _, b := range seed {
		items[b.ID] = cloneBadge(b)
	}
	return &BadgeRepository{items: items}
}

func (r *BadgeRepository) GetByID(_ context.Context, id string) (reward.Badge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[id]
	if !ok {
		return reward.Badge{}, false, nil
	}

	return cloneBadge(b), true, nil
}

func (r *BadgeRepository) GetByName(_ context.Context, name string) (reward.Badge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.items {
		if strings.EqualFold(b.Name, name) {
			return cloneBadge(b), true, nil
		}
	}

	return reward.Badge{}, false, nil
}

func (r *BadgeRepository) List(_ context.Context) ([]reward.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reward.Badge, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, cloneBadge(b))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *BadgeRepository) Save(_ context.Context, b reward.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[b.ID] = cloneBadge(b)
	return nil
}

func (r *BadgeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

type PrizeRepository struct {
	mu    sync.RWMutex
	items map[string]reward.Prize
}

func NewPrizeRepository(seed []reward.Prize) *PrizeRepository {
	items := make(map[string]reward.Prize, len(seed))
	for _, p := range seed {
		items[p.ID] = clonePrize(p)
	}
	return &PrizeRepository{items: items}
}

func (r *PrizeRepository) GetByID(_ context.Context, id string) (reward.Prize, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return reward.Prize{}, false, nil
	}

	return clonePrize(p), true, nil
}

func (r *PrizeRepository) GetByTitle(_ context.Context, title string) (reward.Prize, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if strings.EqualFold(p.Title, title) {
			return clonePrize(p), true, nil
		}
	}

	return reward.Prize{}, false, nil
}

func (r *PrizeRepository) List(_ context.Context) ([]reward.Prize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reward.Prize, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, clonePrize(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PrizeRepository) Save(_ context.Context, p reward.Prize) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = clonePrize(p)
	return nil
}

func (r *PrizeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

type BoosterRepository struct {
	mu    sync.RWMutex
	items map[string]reward.Booster
}

func NewBoosterRepository(seed []reward.Booster) *BoosterRepository {
	items := make(map[string]reward.Booster, len(seed))
	for _, b := range seed {
		items[b.ID] = cloneBooster(b)
	}
	return &BoosterRepository{items: items}
}

func (r *BoosterRepository) GetByID(_ context.Context, id string) (reward.Booster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[id]
	if !ok {
		return reward.Booster{}, false, nil
	}

	return cloneBooster(b), true, nil
}

func (r *BoosterRepository) GetByName(_ context.Context, name string) (reward.Booster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.items {
		if strings.EqualFold(b.Name, name) {
			return cloneBooster(b), true, nil
		}
	}

	return reward.Booster{}, false, nil
}

func (r *BoosterRepository) List(_ context.Context) ([]reward.Booster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reward.Booster, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, cloneBooster(b))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *BoosterRepository) Save(_ context.Context, b reward.Booster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[b.ID] = cloneBooster(b)
	return nil
}

func (r *BoosterRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func cloneBadge(b reward.Badge) reward.Badge {
	copied := b
	copied.Tags = append([]string(nil), b.Tags...)
	copied.UserIDs = append([]string(nil), b.UserIDs...)
	copied.LeagueIDs = append([]string(nil), b.LeagueIDs...)
	return copied
}

func clonePrize(p reward.Prize) reward.Prize {
	copied := p
	copied.PlayerIDs = append([]string(nil), p.PlayerIDs...)
	copied.LeagueIDs = append([]string(nil), p.LeagueIDs...)
	return copied
}

func cloneBooster(b reward.Booster) reward.Booster {
	copied := b
	copied.Tags = append([]string(nil), b.Tags...)
	copied.LeagueIDs = append([]string(nil), b.LeagueIDs...)
	return copied
}
