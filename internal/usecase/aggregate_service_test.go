package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

type aggregateFixture struct {
	*membershipFixture
	players *memory.PlayerRepository
	service *AggregateService
}

func newAggregateFixture(t *testing.T) *aggregateFixture {
	t.Helper()

	base := newMembershipFixture(t)
	f := &aggregateFixture{
		membershipFixture: base,
		players:           memory.NewPlayerRepository(memory.SeedPlayers()),
	}
	f.service = NewAggregateService(base.aggs, base.users, base.leagues, f.players, logging.NewNop())
	return f
}

func validTeamInput() CreateTeamInput {
	ids := memory.SeedPlayerIDs()
	return CreateTeamInput{
		UserID:         memory.UserIDAlice,
		LeagueID:       memory.LeagueIDPremier,
		GameweekNumber: 1,
		PlayerIDs:      ids,
		Captain:        ids[0],
		ViceCaptain:    ids[1],
	}
}

func TestAggregateService_CreateTeamForGameweek(t *testing.T) {
	f := newAggregateFixture(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return now }

	info, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), validTeamInput())
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	gw, ok := info.GameweekAt(1)
	if !ok {
		t.Fatalf("gameweek 1 entry missing")
	}
	if len(gw.Team.Players) != 11 {
		t.Fatalf("expected 11 players, got %d", len(gw.Team.Players))
	}
	if gw.ScoreMultiplier != userleague.DefaultScoreMultiplier {
		t.Fatalf("expected default multiplier, got %v", gw.ScoreMultiplier)
	}
	// Seed team costs 86 against the default budget of 100.
	if gw.Team.TransferBudget != 14 {
		t.Fatalf("expected remaining budget 14, got %d", gw.Team.TransferBudget)
	}
	if !info.LastUpdated.Equal(now) || !info.LastActiveAt.Equal(now) {
		t.Fatalf("timestamps not stamped: %v %v", info.LastUpdated, info.LastActiveAt)
	}
}

func TestAggregateService_CreateTeamForGameweek_LaterGameweekPadsNils(t *testing.T) {
	f := newAggregateFixture(t)

	input := validTeamInput()
	input.GameweekNumber = 4
	info, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), input)
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	if len(info.GameWeeks) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(info.GameWeeks))
	}
	for i := 0; i < 3; i++ {
		if info.GameWeeks[i] != nil {
			t.Fatalf("slot %d should be nil", i)
		}
	}
	if info.GameWeeks[3] == nil || info.GameWeeks[3].GameweekNumber != 4 {
		t.Fatalf("slot 3 should hold gameweek 4")
	}
}

func TestAggregateService_CreateTeamForGameweek_Validation(t *testing.T) {
	f := newAggregateFixture(t)
	ids := memory.SeedPlayerIDs()

	tests := []struct {
		name    string
		mutate  func(in *CreateTeamInput)
		wantErr error
	}{
		{
			name:    "too few players",
			mutate:  func(in *CreateTeamInput) { in.PlayerIDs = ids[:10] },
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate player",
			mutate: func(in *CreateTeamInput) {
				dup := append([]string(nil), ids[:10]...)
				in.PlayerIDs = append(dup, ids[0])
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "captain outside team",
			mutate:  func(in *CreateTeamInput) { in.Captain = "player-12" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "vice captain outside team",
			mutate:  func(in *CreateTeamInput) { in.ViceCaptain = "player-12" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "gameweek below one",
			mutate:  func(in *CreateTeamInput) { in.GameweekNumber = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown player",
			mutate: func(in *CreateTeamInput) {
				in.PlayerIDs = append([]string(nil), ids[:10]...)
				in.PlayerIDs = append(in.PlayerIDs, "player-99")
			},
			wantErr: ErrNotFound,
		},
		{
			// Resolution is checked before captain eligibility, so the
			// unknown player wins even when the captain is also wrong.
			name: "unknown player with captain outside team",
			mutate: func(in *CreateTeamInput) {
				in.PlayerIDs = append([]string(nil), ids[:10]...)
				in.PlayerIDs = append(in.PlayerIDs, "player-99")
				in.Captain = "player-12"
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown league",
			mutate:  func(in *CreateTeamInput) { in.LeagueID = "league-missing" },
			wantErr: ErrNotFound,
		},
		{
			name:    "budget too small",
			mutate:  func(in *CreateTeamInput) { in.Budget = 50 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative budget",
			mutate:  func(in *CreateTeamInput) { in.Budget = -1 },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validTeamInput()
			tc.mutate(&input)

			_, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAggregateService_CreateTeamForGameweek_Conflict(t *testing.T) {
	f := newAggregateFixture(t)

	if _, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), validTeamInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), validTeamInput())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAggregateService_CreateTeamForGameweek_Forbidden(t *testing.T) {
	f := newAggregateFixture(t)

	input := validTeamInput()
	input.UserID = memory.UserIDBram
	_, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), input)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAggregateService_DeepUpdate(t *testing.T) {
	f := newAggregateFixture(t)
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return now }

	if _, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), validTeamInput()); err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	patch := userleague.Patch{
		TeamName:      userleague.Some("Renamed XI"),
		CurrentPoints: userleague.Some(42),
	}
	info, err := f.service.DeepUpdate(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier, patch)
	if err != nil {
		t.Fatalf("deep update failed: %v", err)
	}

	if info.TeamName != "Renamed XI" || info.CurrentPoints != 42 {
		t.Fatalf("patch not applied: %+v", info)
	}
	if gw, ok := info.GameweekAt(1); !ok || len(gw.Team.Players) != 11 {
		t.Fatalf("unrelated gameweek data lost")
	}
	if !info.LastUpdated.Equal(now) {
		t.Fatalf("last updated not stamped")
	}
}

func TestAggregateService_DeepUpdate_InvalidGameweek(t *testing.T) {
	f := newAggregateFixture(t)

	if _, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), validTeamInput()); err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	patch := userleague.Patch{
		GameWeeks: []*userleague.GameWeekPatch{{GameweekNumber: 0}},
	}
	_, err := f.service.DeepUpdate(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier, patch)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAggregateService_DeepUpdate_NoAggregate(t *testing.T) {
	f := newAggregateFixture(t)

	_, err := f.service.DeepUpdate(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier, userleague.Patch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAggregateService_GetAggregate(t *testing.T) {
	f := newAggregateFixture(t)

	if _, err := f.service.CreateTeamForGameweek(t.Context(), alicePrincipal(), validTeamInput()); err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	view, err := f.service.GetAggregate(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier)
	if err != nil {
		t.Fatalf("get aggregate failed: %v", err)
	}
	if view.UserName != "Alice Jansen" {
		t.Fatalf("unexpected user name %q", view.UserName)
	}
	if view.LeagueName != "Premier League" {
		t.Fatalf("unexpected league name %q", view.LeagueName)
	}

	_, err = f.service.GetAggregate(t.Context(), alicePrincipal(), memory.UserIDBram, memory.LeagueIDPremier)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
