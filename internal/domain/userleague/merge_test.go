package userleague

import (
	"errors"
	"testing"
	"time"
)

func baseInfo() Info {
	joined := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rank := 5
	return Info{
		UserID:        "user-1",
		LeagueID:      "league-1",
		TeamName:      "Original XI",
		CurrentPoints: 42,
		CurrentRank:   &rank,
		IsActive:      true,
		JoinedAt:      joined,
		LastUpdated:   joined,
		GameWeeks: []*GameWeek{
			{GameweekNumber: 1, PointsScored: 30, ScoreMultiplier: 1, Team: Team{TransferBudget: 100}},
			nil,
			{GameweekNumber: 3, PointsScored: 12, ScoreMultiplier: 2, Team: Team{TransferBudget: 80}},
		},
	}
}

func TestApplyPatch_ScalarsAndNull(t *testing.T) {
	info := baseInfo()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	patch := Patch{
		TeamName:      Some("Renamed XI"),
		CurrentPoints: Some(77),
		CurrentRank:   Null[int](),
	}
	if err := info.ApplyPatch(patch, now); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}

	if info.TeamName != "Renamed XI" {
		t.Fatalf("expected team name Renamed XI, got %s", info.TeamName)
	}
	if info.CurrentPoints != 77 {
		t.Fatalf("expected current points 77, got %d", info.CurrentPoints)
	}
	if info.CurrentRank != nil {
		t.Fatalf("expected current rank cleared, got %d", *info.CurrentRank)
	}
	if info.UserID != "user-1" || info.LeagueID != "league-1" {
		t.Fatalf("identity fields changed: %s %s", info.UserID, info.LeagueID)
	}
	if !info.LastUpdated.Equal(now) {
		t.Fatalf("expected last updated %v, got %v", now, info.LastUpdated)
	}
}

func TestApplyPatch_AbsentFieldsUntouched(t *testing.T) {
	info := baseInfo()

	if err := info.ApplyPatch(Patch{Activity: Some(9)}, time.Now()); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}

	if info.Activity != 9 {
		t.Fatalf("expected activity 9, got %d", info.Activity)
	}
	if info.TeamName != "Original XI" {
		t.Fatalf("team name should be untouched, got %s", info.TeamName)
	}
	if info.CurrentRank == nil || *info.CurrentRank != 5 {
		t.Fatalf("current rank should be untouched, got %v", info.CurrentRank)
	}
	if len(info.GameWeeks) != 3 {
		t.Fatalf("expected 3 gameweeks, got %d", len(info.GameWeeks))
	}
}

func TestApplyPatch_HeadToHeadStatsMergesKeyByKey(t *testing.T) {
	info := baseInfo()
	info.HeadToHeadStats = HeadToHeadStats{
		WinRate: 0.5,
		Streaks: Streaks{CurrentStreak: 2, BestStreak: 4},
	}

	patch := Patch{
		HeadToHeadStats: &HeadToHeadStatsPatch{
			Streaks: &StreaksPatch{CurrentStreak: Some(3)},
		},
	}
	if err := info.ApplyPatch(patch, time.Now()); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}

	if info.HeadToHeadStats.WinRate != 0.5 {
		t.Fatalf("win rate should be untouched, got %v", info.HeadToHeadStats.WinRate)
	}
	if info.HeadToHeadStats.Streaks.CurrentStreak != 3 {
		t.Fatalf("expected current streak 3, got %d", info.HeadToHeadStats.Streaks.CurrentStreak)
	}
	if info.HeadToHeadStats.Streaks.BestStreak != 4 {
		t.Fatalf("best streak should be untouched, got %d", info.HeadToHeadStats.Streaks.BestStreak)
	}
}

func TestApplyPatch_GameweekUpsertGrowsWithNils(t *testing.T) {
	info := baseInfo()

	patch := Patch{
		GameWeeks: []*GameWeekPatch{
			{GameweekNumber: 6, PointsScored: 55},
		},
	}
	if err := info.ApplyPatch(patch, time.Now()); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}

	if len(info.GameWeeks) != 6 {
		t.Fatalf("expected length 6, got %d", len(info.GameWeeks))
	}
	if info.GameWeeks[3] != nil || info.GameWeeks[4] != nil {
		t.Fatalf("expected nil holes at indexes 3 and 4")
	}
	gw := info.GameWeeks[5]
	if gw == nil || gw.GameweekNumber != 6 || gw.PointsScored != 55 {
		t.Fatalf("unexpected entry at index 5: %+v", gw)
	}
	if gw.ScoreMultiplier != DefaultScoreMultiplier {
		t.Fatalf("expected default multiplier, got %v", gw.ScoreMultiplier)
	}
	if gw.Team.TransferBudget != DefaultTransferBudget {
		t.Fatalf("expected default transfer budget, got %d", gw.Team.TransferBudget)
	}
}

func TestApplyPatch_GameweekWholesaleReplaceKeepsNeighbors(t *testing.T) {
	info := baseInfo()

	budget := int64(65)
	patch := Patch{
		GameWeeks: []*GameWeekPatch{
			{
				GameweekNumber: 1,
				PointsScored:   99,
				Team:           &TeamPatch{Captain: "cap-1", TransferBudget: &budget},
			},
		},
	}
	if err := info.ApplyPatch(patch, time.Now()); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}

	if len(info.GameWeeks) != 3 {
		t.Fatalf("patch with lower max must not shrink, got length %d", len(info.GameWeeks))
	}
	gw1 := info.GameWeeks[0]
	if gw1.PointsScored != 99 {
		t.Fatalf("expected points 99, got %d", gw1.PointsScored)
	}
	if gw1.Team.TransferBudget != 65 || gw1.Team.Captain != "cap-1" {
		t.Fatalf("unexpected team after replace: %+v", gw1.Team)
	}
	gw3 := info.GameWeeks[2]
	if gw3 == nil || gw3.PointsScored != 12 || gw3.ScoreMultiplier != 2 {
		t.Fatalf("untouched gameweek 3 changed: %+v", gw3)
	}
	if info.GameWeeks[1] != nil {
		t.Fatalf("hole at index 1 should remain nil")
	}
}

func TestApplyPatch_InvalidGameweekNumber(t *testing.T) {
	info := baseInfo()

	err := info.ApplyPatch(Patch{
		TeamName:  Some("Should Not Apply"),
		GameWeeks: []*GameWeekPatch{{GameweekNumber: 0}},
	}, time.Now())
	if !errors.Is(err, ErrInvalidGameweekNumber) {
		t.Fatalf("expected ErrInvalidGameweekNumber, got %v", err)
	}
	if info.TeamName != "Original XI" {
		t.Fatalf("failed patch must not apply scalars, got %s", info.TeamName)
	}
}

func TestFilterBoosterIDs(t *testing.T) {
	wellFormed := "0123456789abcdef0123456789abcdef"
	other := "fedcba9876543210fedcba9876543210"

	got := FilterBoosterIDs([]string{
		wellFormed,
		"not-an-id",
		wellFormed,
		"0123456789ABCDEF0123456789ABCDEF",
		other,
		"",
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 ids, got %v", got)
	}
	if got[0] != wellFormed || got[1] != other {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestDecodePatch_TriState(t *testing.T) {
	body := []byte(`{
		"userId": "attacker",
		"teamName": "Patched",
		"currentRank": null,
		"gameWeeks": [null, {"gameweekNumber": 2, "scoreMultiplier": 3}]
	}`)

	patch, err := DecodePatch(body)
	if err != nil {
		t.Fatalf("decode patch failed: %v", err)
	}

	if !patch.TeamName.Set || !patch.TeamName.Valid || patch.TeamName.Value != "Patched" {
		t.Fatalf("unexpected teamName optional: %+v", patch.TeamName)
	}
	if !patch.CurrentRank.Set || patch.CurrentRank.Valid {
		t.Fatalf("expected explicit-null currentRank, got %+v", patch.CurrentRank)
	}
	if patch.TeamLogo.Set {
		t.Fatalf("absent field must not be marked set")
	}
	if len(patch.GameWeeks) != 2 || patch.GameWeeks[0] != nil {
		t.Fatalf("unexpected gameWeeks decode: %+v", patch.GameWeeks)
	}
	if patch.GameWeeks[1].ScoreMultiplier == nil || *patch.GameWeeks[1].ScoreMultiplier != 3 {
		t.Fatalf("unexpected multiplier decode: %+v", patch.GameWeeks[1])
	}
}
