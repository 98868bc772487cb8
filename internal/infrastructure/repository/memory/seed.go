package memory

import (
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/player"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
)

// Well-known seed IDs shared by the service tests.
const (
	UserIDAlice = "user-alice"
	UserIDBram  = "user-bram"
	UserIDAdmin = "user-admin"

	LeagueIDPremier  = "league-premier"
	LeagueIDEredivie = "league-eredivisie"
)

var seedTime = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func SeedUsers() []user.User {
	return []user.User{
		{
			ID:        UserIDAlice,
			Role:      user.RoleRegistered,
			Status:    user.StatusActive,
			FirstName: "Alice",
			LastName:  "Jansen",
			Email:     "alice@example.com",
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		{
			ID:        UserIDBram,
			Role:      user.RolePremium,
			Status:    user.StatusActive,
			FirstName: "Bram",
			LastName:  "de Vries",
			Email:     "bram@example.com",
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		{
			ID:        UserIDAdmin,
			Role:      user.RoleSuperAdmin,
			Status:    user.StatusActive,
			FirstName: "Admin",
			LastName:  "Root",
			Email:     "admin@example.com",
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
	}
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:       LeagueIDPremier,
			LeagueID: "EPL-2026",
			Name:     "Premier League",
			Type:     league.TypePublic,
			Status:   league.StatusActive,
			Country:  league.Country{Name: "England", Code: "GB"},
			Season:   "2026/2027",
			Timezone: "Europe/London",
		},
		{
			ID:       LeagueIDEredivie,
			LeagueID: "ERE-2026",
			Name:     "Eredivisie",
			Type:     league.TypeHeadToHead,
			Status:   league.StatusActive,
			Country:  league.Country{Name: "Netherlands", Code: "NL"},
			Season:   "2026/2027",
			Timezone: "Europe/Amsterdam",
		},
	}
}

// SeedPlayers returns 12 players so the 11-player team tests have one
// spare. The first eleven cost 86 together, inside the default budget.
func SeedPlayers() []player.Player {
	positions := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender, player.PositionDefender, player.PositionDefender, player.PositionDefender,
		player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
		player.PositionForward, player.PositionForward,
		player.PositionForward,
	}

	out := make([]player.Player, 0, len(positions))
	for i, pos := range positions {
		out = append(out, player.Player{
			ID:       playerSeedID(i + 1),
			LeagueID: LeagueIDPremier,
			ClubID:   "club-1",
			Name:     "Player " + string(rune('A'+i)),
			Position: pos,
			Price:    int64(6 + i%5),
		})
	}
	return out
}

func playerSeedID(n int) string {
	return "player-" + string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// SeedPlayerIDs lists the first eleven seed player IDs in order.
func SeedPlayerIDs() []string {
	players := SeedPlayers()
	out := make([]string, 0, 11)
	for _, p := range players[:11] {
		out = append(out, p.ID)
	}
	return out
}
