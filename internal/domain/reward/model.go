package reward

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRankRange = errors.New("rank range from must not exceed to")

// Badge is an achievement users earn. UserIDs and LeagueIDs are
// back-references kept symmetric with the owning entities.
type Badge struct {
	ID          string
	Name        string
	Description string
	Condition   string
	Tags        []string
	UserIDs     []string
	LeagueIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b Badge) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("badge id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("badge name is required")
	}

	return nil
}

type RankRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Prize rewards a final rank range. PlayerIDs holds user back-references.
type Prize struct {
	ID          string
	Title       string
	Description string
	Reward      string
	Condition   string
	RankRange   RankRange
	PlayerIDs   []string
	LeagueIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Prize) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("prize id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("prize title is required")
	}
	if p.RankRange.From > p.RankRange.To {
		return fmt.Errorf("%w: from=%d to=%d", ErrInvalidRankRange, p.RankRange.From, p.RankRange.To)
	}

	return nil
}

// Booster is a consumable gameweek effect.
type Booster struct {
	ID          string
	Name        string
	Description string
	Effect      string
	Tags        []string
	LeagueIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b Booster) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("booster id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("booster name is required")
	}

	return nil
}
