package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[string]league.League
}

func NewLeagueRepository(seed []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(seed))
	for _, l := range seed {
		items[l.ID] = cloneLeague(l)
	}
	return &LeagueRepository{items: items}
}

func (r *LeagueRepository) GetByID(_ context.Context, id string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[id]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(l), true, nil
}

func (r *LeagueRepository) List(_ context.Context, filter league.ListFilter) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(filter.Keyword)
	out := make([]league.League, 0, len(r.items))
	for _, l := range r.items {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(l.Name), keyword) {
			continue
		}
		out = append(out, cloneLeague(l))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []league.League{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *LeagueRepository) Save(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[l.ID] = cloneLeague(l)
	return nil
}

func cloneLeague(l league.League) league.League {
	copied := l
	copied.GameWeeks = append([]league.GameweekSnapshot(nil), l.GameWeeks...)
	copied.PlayerIDs = append([]string(nil), l.PlayerIDs...)
	copied.ClubIDs = append([]string(nil), l.ClubIDs...)
	copied.UserIDs = append([]string(nil), l.UserIDs...)
	copied.WinnerIDs = append([]string(nil), l.WinnerIDs...)
	copied.BadgeIDs = append([]string(nil), l.BadgeIDs...)
	copied.PrizeIDs = append([]string(nil), l.PrizeIDs...)
	copied.BoosterIDs = append([]string(nil), l.BoosterIDs...)
	return copied
}
