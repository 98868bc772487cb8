package league

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type Type string

const (
	TypePublic     Type = "public"
	TypePrivate    Type = "private"
	TypeHeadToHead Type = "H2H"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
)

type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type APIProvider struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
}

// GameweekSnapshot holds one gameweek's raw fixtures/standings payload as
// delivered by the upstream football-data provider.
type GameweekSnapshot struct {
	FixturesStandings json.RawMessage `json:"fixturesStandings"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
}

// League is a competition users join. UserIDs mirrors each member's
// LeagueIDs; the membership coordinator maintains both sides.
type League struct {
	ID            string
	LeagueID      string
	Name          string
	Type          Type
	Status        Status
	Country       Country
	Season        string
	TransferLimit int
	StartDate     time.Time
	EndDate       time.Time
	Timezone      string
	Description   string
	EntryPrice    int64
	EntryDeadline time.Time
	APIProvider   APIProvider
	LastSyncTime  time.Time
	SyncFrequency string
	GameWeeks     []GameweekSnapshot
	PlayerIDs     []string
	ClubIDs       []string
	UserIDs       []string
	WinnerIDs     []string
	BadgeIDs      []string
	PrizeIDs      []string
	BoosterIDs    []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.LeagueID == "" {
		return fmt.Errorf("league code is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	switch l.Type {
	case TypePublic, TypePrivate, TypeHeadToHead:
	default:
		return fmt.Errorf("unknown league type %q", l.Type)
	}

	return nil
}

// SortGameWeeks orders the snapshots by start date ascending. Every save
// path calls this so readers can index by position.
func (l *League) SortGameWeeks() {
	sort.SliceStable(l.GameWeeks, func(i, j int) bool {
		return l.GameWeeks[i].StartDate.Before(l.GameWeeks[j].StartDate)
	})
}
