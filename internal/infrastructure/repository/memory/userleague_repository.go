package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
)

type UserLeagueRepository struct {
	mu    sync.RWMutex
	items map[string]userleague.Info
}

func NewUserLeagueRepository() *UserLeagueRepository {
	return &UserLeagueRepository{items: make(map[string]userleague.Info)}
}

func (r *UserLeagueRepository) GetByPair(_ context.Context, userID, leagueID string) (userleague.Info, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.items[pairKey(userID, leagueID)]
	if !ok {
		return userleague.Info{}, false, nil
	}

	return cloneInfo(info), true, nil
}

func (r *UserLeagueRepository) ListByUser(_ context.Context, userID string) ([]userleague.Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userleague.Info, 0)
	for _, info := range r.items {
		if info.UserID == userID {
			out = append(out, cloneInfo(info))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].LeagueID < out[j].LeagueID })

	return out, nil
}

func (r *UserLeagueRepository) ListByLeague(_ context.Context, leagueID string) ([]userleague.Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userleague.Info, 0)
	for _, info := range r.items {
		if info.LeagueID == leagueID {
			out = append(out, cloneInfo(info))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (r *UserLeagueRepository) Save(_ context.Context, info userleague.Info) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[pairKey(info.UserID, info.LeagueID)] = cloneInfo(info)
	return nil
}

func (r *UserLeagueRepository) Delete(_ context.Context, userID, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, pairKey(userID, leagueID))
	return nil
}

func pairKey(userID, leagueID string) string {
	return userID + "::" + leagueID
}

func cloneInfo(info userleague.Info) userleague.Info {
	copied := info
	copied.Notifications = append([]userleague.Notification(nil), info.Notifications...)
	if info.CurrentRank != nil {
		rank := *info.CurrentRank
		copied.CurrentRank = &rank
	}
	copied.GameWeeks = make([]*userleague.GameWeek, len(info.GameWeeks))
	for i, gw := range info.GameWeeks {
		copied.GameWeeks[i] = cloneGameWeek(gw)
	}
	return copied
}

func cloneGameWeek(gw *userleague.GameWeek) *userleague.GameWeek {
	if gw == nil {
		return nil
	}
	copied := *gw
	if gw.GameweekRank != nil {
		rank := *gw.GameweekRank
		copied.GameweekRank = &rank
	}
	copied.TransfersMade = append([]int(nil), gw.TransfersMade...)
	copied.BoostersUsed = append([]string(nil), gw.BoostersUsed...)
	copied.Team.Players = append([]string(nil), gw.Team.Players...)
	copied.Team.TransferHistory = append([]string(nil), gw.Team.TransferHistory...)
	copied.Team.BenchPlayers = append([]string(nil), gw.Team.BenchPlayers...)
	return &copied
}
