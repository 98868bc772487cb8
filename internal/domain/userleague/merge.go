package userleague

import (
	"errors"
	"fmt"
	"time"

	"github.com/openfpl/fantasy-platform/internal/platform/id"
)

var ErrInvalidGameweekNumber = errors.New("gameweek number must be at least 1")

// ApplyPatch deep-merges p into the aggregate:
//
//   - Scalar fields present in the patch overwrite the stored values;
//     explicit null clears the nullable CurrentRank.
//   - headToHeadStats merges key-by-key.
//   - notifications, like every plain array, is replaced wholesale.
//   - gameWeeks entries are targeted upserts by gameweekNumber: the slot at
//     index number-1 is replaced wholesale with schema defaults applied,
//     untouched slots keep their stored entries, and the slice grows with
//     nils up to the highest patched number. It never shrinks.
//
// LastUpdated is set unconditionally. On error the aggregate is unchanged.
func (i *Info) ApplyPatch(p Patch, now time.Time) error {
	for _, gw := range p.GameWeeks {
		if gw == nil {
			continue
		}
		if gw.GameweekNumber < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidGameweekNumber, gw.GameweekNumber)
		}
	}

	if p.TeamName.Set && p.TeamName.Valid {
		i.TeamName = p.TeamName.Value
	}
	if p.TeamLogo.Set && p.TeamLogo.Valid {
		i.TeamLogo = p.TeamLogo.Value
	}
	if p.CurrentPoints.Set && p.CurrentPoints.Valid {
		i.CurrentPoints = p.CurrentPoints.Value
	}
	if p.CurrentRank.Set {
		if p.CurrentRank.Valid {
			rank := p.CurrentRank.Value
			i.CurrentRank = &rank
		} else {
			i.CurrentRank = nil
		}
	}
	if p.Activity.Set && p.Activity.Valid {
		i.Activity = p.Activity.Value
	}
	if p.IsActive.Set && p.IsActive.Valid {
		i.IsActive = p.IsActive.Value
	}
	if p.LastActiveAt.Set && p.LastActiveAt.Valid {
		i.LastActiveAt = p.LastActiveAt.Value
	}

	if p.HeadToHeadStats != nil {
		if p.HeadToHeadStats.WinRate.Set && p.HeadToHeadStats.WinRate.Valid {
			i.HeadToHeadStats.WinRate = p.HeadToHeadStats.WinRate.Value
		}
		if streaks := p.HeadToHeadStats.Streaks; streaks != nil {
			if streaks.CurrentStreak.Set && streaks.CurrentStreak.Valid {
				i.HeadToHeadStats.Streaks.CurrentStreak = streaks.CurrentStreak.Value
			}
			if streaks.BestStreak.Set && streaks.BestStreak.Valid {
				i.HeadToHeadStats.Streaks.BestStreak = streaks.BestStreak.Value
			}
		}
	}

	if p.Notifications.Set && p.Notifications.Valid {
		i.Notifications = append([]Notification(nil), p.Notifications.Value...)
	}

	for _, gwPatch := range p.GameWeeks {
		if gwPatch == nil {
			continue
		}
		if err := i.SetGameweek(gwPatch.resolve()); err != nil {
			return err
		}
	}

	i.LastUpdated = now

	return nil
}

// resolve materializes the patch entry as a full gameweek record with
// schema defaults for omitted defaulted fields.
func (p *GameWeekPatch) resolve() *GameWeek {
	gw := &GameWeek{
		GameweekNumber:     p.GameweekNumber,
		PointsScored:       p.PointsScored,
		GameweekRank:       p.GameweekRank,
		ScoreMultiplier:    DefaultScoreMultiplier,
		BenchPoints:        p.BenchPoints,
		TransfersMade:      append([]int{}, p.TransfersMade...),
		TransfersMadeCount: p.TransfersMadeCount,
		BoostersUsed:       FilterBoosterIDs(p.BoostersUsed),
		Team:               Team{TransferBudget: DefaultTransferBudget},
	}
	if p.ScoreMultiplier != nil {
		gw.ScoreMultiplier = *p.ScoreMultiplier
	}
	if p.HeadToHead != nil {
		gw.HeadToHead = *p.HeadToHead
	}
	if p.Team != nil {
		gw.Team.Players = append([]string{}, p.Team.Players...)
		gw.Team.TransferHistory = append([]string{}, p.Team.TransferHistory...)
		gw.Team.Captain = p.Team.Captain
		gw.Team.ViceCaptain = p.Team.ViceCaptain
		gw.Team.BenchPlayers = append([]string{}, p.Team.BenchPlayers...)
		if p.Team.TransferBudget != nil {
			gw.Team.TransferBudget = *p.Team.TransferBudget
		}
	} else {
		gw.Team.Players = []string{}
		gw.Team.TransferHistory = []string{}
		gw.Team.BenchPlayers = []string{}
	}

	return gw
}

// FilterBoosterIDs keeps well-formed reference IDs, drops malformed ones
// silently and deduplicates while preserving order.
func FilterBoosterIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, candidate := range ids {
		if !id.IsWellFormed(candidate) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	return out
}
