package player

import "fmt"

type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// AllPositions enumerates the valid squad positions.
var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player is a selectable footballer. Price shares the unit of the
// gameweek transfer budget so cost arithmetic stays integral.
type Player struct {
	ID       string
	LeagueID string
	ClubID   string
	Name     string
	Position Position
	Price    int64
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	switch p.Position {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
	default:
		return fmt.Errorf("unknown player position %q", p.Position)
	}
	if p.Price < 0 {
		return fmt.Errorf("player price must not be negative")
	}

	return nil
}
