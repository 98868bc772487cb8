package postgres

import (
	"database/sql"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
)

type userLeagueTableModel struct {
	ID              int64         `db:"id"`
	UserID          string        `db:"user_id"`
	LeagueID        string        `db:"league_public_id"`
	TeamName        string        `db:"team_name"`
	TeamLogo        string        `db:"team_logo"`
	CurrentPoints   int           `db:"current_points"`
	CurrentRank     sql.NullInt64 `db:"current_rank"`
	Activity        int           `db:"activity"`
	IsActive        bool          `db:"is_active"`
	JoinedAt        time.Time     `db:"joined_at"`
	LastUpdated     time.Time     `db:"last_updated"`
	LastActiveAt    time.Time     `db:"last_active_at"`
	HeadToHeadStats []byte        `db:"head_to_head_stats"`
	Notifications   []byte        `db:"notifications"`
	GameWeeks       []byte        `db:"game_weeks"`
}

type userLeagueInsertModel struct {
	UserID          string        `db:"user_id"`
	LeagueID        string        `db:"league_public_id"`
	TeamName        string        `db:"team_name"`
	TeamLogo        string        `db:"team_logo"`
	CurrentPoints   int           `db:"current_points"`
	CurrentRank     sql.NullInt64 `db:"current_rank"`
	Activity        int           `db:"activity"`
	IsActive        bool          `db:"is_active"`
	JoinedAt        time.Time     `db:"joined_at"`
	LastUpdated     time.Time     `db:"last_updated"`
	LastActiveAt    time.Time     `db:"last_active_at"`
	HeadToHeadStats []byte        `db:"head_to_head_stats"`
	Notifications   []byte        `db:"notifications"`
	GameWeeks       []byte        `db:"game_weeks"`
}

// Updates everything except the immutable identity pair and joined_at.
const userLeagueUpsertSuffix = `ON CONFLICT (user_id, league_public_id) DO UPDATE SET
    team_name = EXCLUDED.team_name,
    team_logo = EXCLUDED.team_logo,
    current_points = EXCLUDED.current_points,
    current_rank = EXCLUDED.current_rank,
    activity = EXCLUDED.activity,
    is_active = EXCLUDED.is_active,
    last_updated = EXCLUDED.last_updated,
    last_active_at = EXCLUDED.last_active_at,
    head_to_head_stats = EXCLUDED.head_to_head_stats,
    notifications = EXCLUDED.notifications,
    game_weeks = EXCLUDED.game_weeks`

func userLeagueInsertFromDomain(info userleague.Info) (userLeagueInsertModel, error) {
	stats, err := toJSONBObject(info.HeadToHeadStats)
	if err != nil {
		return userLeagueInsertModel{}, err
	}
	notifications, err := toJSONB(info.Notifications)
	if err != nil {
		return userLeagueInsertModel{}, err
	}
	gameWeeks, err := toJSONB(info.GameWeeks)
	if err != nil {
		return userLeagueInsertModel{}, err
	}

	return userLeagueInsertModel{
		UserID:          info.UserID,
		LeagueID:        info.LeagueID,
		TeamName:        info.TeamName,
		TeamLogo:        info.TeamLogo,
		CurrentPoints:   info.CurrentPoints,
		CurrentRank:     nullIntPtr(info.CurrentRank),
		Activity:        info.Activity,
		IsActive:        info.IsActive,
		JoinedAt:        info.JoinedAt,
		LastUpdated:     info.LastUpdated,
		LastActiveAt:    info.LastActiveAt,
		HeadToHeadStats: stats,
		Notifications:   notifications,
		GameWeeks:       gameWeeks,
	}, nil
}

func userLeagueFromRow(row userLeagueTableModel) (userleague.Info, error) {
	info := userleague.Info{
		UserID:        row.UserID,
		LeagueID:      row.LeagueID,
		TeamName:      row.TeamName,
		TeamLogo:      row.TeamLogo,
		CurrentPoints: row.CurrentPoints,
		Activity:      row.Activity,
		IsActive:      row.IsActive,
		JoinedAt:      row.JoinedAt,
		LastUpdated:   row.LastUpdated,
		LastActiveAt:  row.LastActiveAt,
	}
	if row.CurrentRank.Valid {
		rank := int(row.CurrentRank.Int64)
		info.CurrentRank = &rank
	}

	if err := fromJSONB(row.HeadToHeadStats, &info.HeadToHeadStats); err != nil {
		return userleague.Info{}, err
	}
	if err := fromJSONB(row.Notifications, &info.Notifications); err != nil {
		return userleague.Info{}, err
	}
	if err := fromJSONB(row.GameWeeks, &info.GameWeeks); err != nil {
		return userleague.Info{}, err
	}

	return info, nil
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
