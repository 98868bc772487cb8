package userleague

import (
	"bytes"
	"time"

	"github.com/bytedance/sonic"
)

var jsonNull = []byte("null")

// Optional is a tri-state JSON field: absent, explicit null, or a value.
// Absent fields never touch the merge target; explicit null clears
// nullable fields.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}

	if err := sonic.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true

	return nil
}

// Some builds a present, non-null Optional. Test helper mostly.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null builds a present, explicit-null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Patch is the deep-merge request shape for an aggregate. Identity and
// denormalized display fields have no counterpart here, so their presence
// in a request body is ignored by decoding.
type Patch struct {
	TeamName        Optional[string]         `json:"teamName"`
	TeamLogo        Optional[string]         `json:"teamLogo"`
	CurrentPoints   Optional[int]            `json:"currentPoints"`
	CurrentRank     Optional[int]            `json:"currentRank"`
	Activity        Optional[int]            `json:"activity"`
	IsActive        Optional[bool]           `json:"isActive"`
	LastActiveAt    Optional[time.Time]      `json:"lastActiveAt"`
	HeadToHeadStats *HeadToHeadStatsPatch    `json:"headToHeadStats"`
	Notifications   Optional[[]Notification] `json:"notifications"`
	GameWeeks       []*GameWeekPatch         `json:"gameWeeks"`
}

// HeadToHeadStatsPatch merges key-by-key into the stored stats.
type HeadToHeadStatsPatch struct {
	WinRate Optional[float64] `json:"winRate"`
	Streaks *StreaksPatch     `json:"streaks"`
}

type StreaksPatch struct {
	CurrentStreak Optional[int] `json:"currentStreak"`
	BestStreak    Optional[int] `json:"bestStreak"`
}

// GameWeekPatch replaces the targeted gameweek entry wholesale. Omitted
// defaulted fields take their schema defaults, not the stored values.
type GameWeekPatch struct {
	GameweekNumber     int         `json:"gameweekNumber"`
	PointsScored       int         `json:"pointsScored"`
	GameweekRank       *int        `json:"gameweekRank"`
	ScoreMultiplier    *float64    `json:"scoreMultiplier"`
	BenchPoints        int         `json:"benchPoints"`
	TransfersMade      []int       `json:"transfersMade"`
	TransfersMadeCount int         `json:"transfersMadeCount"`
	BoostersUsed       []string    `json:"boostersUsed"`
	HeadToHead         *HeadToHead `json:"headToHead"`
	Team               *TeamPatch  `json:"team"`
}

type TeamPatch struct {
	Players         []string `json:"players"`
	TransferHistory []string `json:"transferHistory"`
	Captain         string   `json:"captain"`
	ViceCaptain     string   `json:"viceCaptain"`
	BenchPlayers    []string `json:"benchPlayers"`
	TransferBudget  *int64   `json:"transferBudget"`
}

// DecodePatch parses a deep-merge request body. Unknown keys, including
// attempts at identity fields, are ignored.
func DecodePatch(body []byte) (Patch, error) {
	var p Patch
	if err := sonic.Unmarshal(body, &p); err != nil {
		return Patch{}, err
	}
	return p, nil
}
