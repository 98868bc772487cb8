package userleague

import (
	"fmt"
	"time"
)

const (
	// DefaultScoreMultiplier applies when a gameweek entry omits the
	// multiplier.
	DefaultScoreMultiplier = 1.0
	// DefaultTransferBudget applies when a gameweek team omits the budget.
	DefaultTransferBudget = int64(100)
)

type HeadToHeadResult string

const (
	ResultWin  HeadToHeadResult = "Win"
	ResultLoss HeadToHeadResult = "Loss"
	ResultDraw HeadToHeadResult = "Draw"
	ResultNone HeadToHeadResult = ""
)

type Streaks struct {
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

type HeadToHeadStats struct {
	WinRate float64 `json:"winRate"`
	Streaks Streaks `json:"streaks"`
}

type Notification struct {
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type HeadToHead struct {
	OpponentID       string           `json:"opponentId"`
	OpponentPoints   int              `json:"opponentPoints"`
	Result           HeadToHeadResult `json:"result"`
	PointsDifference int              `json:"pointsDifference"`
}

type Team struct {
	Players         []string `json:"players"`
	TransferHistory []string `json:"transferHistory"`
	Captain         string   `json:"captain"`
	ViceCaptain     string   `json:"viceCaptain"`
	BenchPlayers    []string `json:"benchPlayers"`
	TransferBudget  int64    `json:"transferBudget"`
}

// GameWeek is one gameweek's record inside an aggregate. Entries live at
// index GameweekNumber-1 in Info.GameWeeks.
type GameWeek struct {
	GameweekNumber     int        `json:"gameweekNumber"`
	PointsScored       int        `json:"pointsScored"`
	GameweekRank       *int       `json:"gameweekRank"`
	ScoreMultiplier    float64    `json:"scoreMultiplier"`
	BenchPoints        int        `json:"benchPoints"`
	TransfersMade      []int      `json:"transfersMade"`
	TransfersMadeCount int        `json:"transfersMadeCount"`
	BoostersUsed       []string   `json:"boostersUsed"`
	HeadToHead         HeadToHead `json:"headToHead"`
	Team               Team       `json:"team"`
}

// Info is the per-(user, league) aggregate: scoreboard, gameweek history,
// boosters, notifications and head-to-head stats. UserID and LeagueID are
// immutable and unique as a pair.
//
// GameWeeks is a sparse index-addressed slice: gameweek N lives at index
// N-1, holes are explicit nils, and the length equals the highest gameweek
// number ever written. It never shrinks.
type Info struct {
	UserID          string
	LeagueID        string
	TeamName        string
	TeamLogo        string
	CurrentPoints   int
	CurrentRank     *int
	Activity        int
	IsActive        bool
	JoinedAt        time.Time
	LastUpdated     time.Time
	LastActiveAt    time.Time
	HeadToHeadStats HeadToHeadStats
	Notifications   []Notification
	GameWeeks       []*GameWeek
}

func (i Info) Validate() error {
	if i.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if i.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}

	return nil
}

// GameweekAt returns the stored entry for gameweek number, or false when
// the slot is out of range or a hole.
func (i Info) GameweekAt(number int) (*GameWeek, bool) {
	idx := number - 1
	if idx < 0 || idx >= len(i.GameWeeks) {
		return nil, false
	}
	gw := i.GameWeeks[idx]
	return gw, gw != nil
}

// SetGameweek places gw at index GameweekNumber-1, growing the slice with
// explicit nils when the target lies beyond the current length.
func (i *Info) SetGameweek(gw *GameWeek) error {
	if gw == nil {
		return fmt.Errorf("gameweek entry is required")
	}
	if gw.GameweekNumber < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidGameweekNumber, gw.GameweekNumber)
	}

	i.growGameWeeks(gw.GameweekNumber)
	i.GameWeeks[gw.GameweekNumber-1] = gw

	return nil
}

func (i *Info) growGameWeeks(length int) {
	for len(i.GameWeeks) < length {
		i.GameWeeks = append(i.GameWeeks, nil)
	}
}

// AddNotification appends to the notification log. The log is append-only;
// nothing removes entries.
func (i *Info) AddNotification(message string, at time.Time) {
	i.Notifications = append(i.Notifications, Notification{
		Message:   message,
		CreatedAt: at,
	})
}

// NewInfo builds a zeroed aggregate for a fresh membership.
func NewInfo(userID, leagueID, teamName string, now time.Time) Info {
	return Info{
		UserID:       userID,
		LeagueID:     leagueID,
		TeamName:     teamName,
		IsActive:     true,
		JoinedAt:     now,
		LastUpdated:  now,
		LastActiveAt: now,
	}
}
