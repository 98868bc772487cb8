package postgres

import (
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/reward"
)

type badgeTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Condition   string    `db:"condition"`
	Tags        []byte    `db:"tags"`
	UserIDs     []byte    `db:"user_ids"`
	LeagueIDs   []byte    `db:"league_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type badgeInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Condition   string    `db:"condition"`
	Tags        []byte    `db:"tags"`
	UserIDs     []byte    `db:"user_ids"`
	LeagueIDs   []byte    `db:"league_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const badgeUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    condition = EXCLUDED.condition,
    tags = EXCLUDED.tags,
    user_ids = EXCLUDED.user_ids,
    league_ids = EXCLUDED.league_ids,
    updated_at = EXCLUDED.updated_at`

func badgeInsertFromDomain(b reward.Badge) (badgeInsertModel, error) {
	tags, err := toJSONB(b.Tags)
	if err != nil {
		return badgeInsertModel{}, err
	}
	userIDs, err := toJSONB(b.UserIDs)
	if err != nil {
		return badgeInsertModel{}, err
	}
	leagueIDs, err := toJSONB(b.LeagueIDs)
	if err != nil {
		return badgeInsertModel{}, err
	}

	return badgeInsertModel{
		PublicID:    b.ID,
		Name:        b.Name,
		Description: b.Description,
		Condition:   b.Condition,
		Tags:        tags,
		UserIDs:     userIDs,
		LeagueIDs:   leagueIDs,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}, nil
}

func badgeFromRow(row badgeTableModel) (reward.Badge, error) {
	b := reward.Badge{
		ID:          row.PublicID,
		Name:        row.Name,
		Description: row.Description,
		Condition:   row.Condition,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := fromJSONB(row.Tags, &b.Tags); err != nil {
		return reward.Badge{}, err
	}
	if err := fromJSONB(row.UserIDs, &b.UserIDs); err != nil {
		return reward.Badge{}, err
	}
	if err := fromJSONB(row.LeagueIDs, &b.LeagueIDs); err != nil {
		return reward.Badge{}, err
	}
	return b, nil
}

type prizeTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Reward      string    `db:"reward"`
	Condition   string    `db:"condition"`
	RankFrom    int       `db:"rank_from"`
	RankTo      int       `db:"rank_to"`
	PlayerIDs   []byte    `db:"player_ids"`
	LeagueIDs   []byte    `db:"league_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type prizeInsertModel struct {
	PublicID    string    `db:"public_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Reward      string    `db:"reward"`
	Condition   string    `db:"condition"`
	RankFrom    int       `db:"rank_from"`
	RankTo      int       `db:"rank_to"`
	PlayerIDs   []byte    `db:"player_ids"`
	LeagueIDs   []byte    `db:"league_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const prizeUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    reward = EXCLUDED.reward,
    condition = EXCLUDED.condition,
    rank_from = EXCLUDED.rank_from,
    rank_to = EXCLUDED.rank_to,
    player_ids = EXCLUDED.player_ids,
    league_ids = EXCLUDED.league_ids,
    updated_at = EXCLUDED.updated_at`

func prizeInsertFromDomain(p reward.Prize) (prizeInsertModel, error) {
	playerIDs, err := toJSONB(p.PlayerIDs)
	if err != nil {
		return prizeInsertModel{}, err
	}
	leagueIDs, err := toJSONB(p.LeagueIDs)
	if err != nil {
		return prizeInsertModel{}, err
	}

	return prizeInsertModel{
		PublicID:    p.ID,
		Title:       p.Title,
		Description: p.Description,
		Reward:      p.Reward,
		Condition:   p.Condition,
		RankFrom:    p.RankRange.From,
		RankTo:      p.RankRange.To,
		PlayerIDs:   playerIDs,
		LeagueIDs:   leagueIDs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func prizeFromRow(row prizeTableModel) (reward.Prize, error) {
	p := reward.Prize{
		ID:          row.PublicID,
		Title:       row.Title,
		Description: row.Description,
		Reward:      row.Reward,
		Condition:   row.Condition,
		RankRange:   reward.RankRange{From: row.RankFrom, To: row.RankTo},
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := fromJSONB(row.PlayerIDs, &p.PlayerIDs); err != nil {
		return reward.Prize{}, err
	}
	if err := fromJSONB(row.LeagueIDs, &p.LeagueIDs); err != nil {
		return reward.Prize{}, err
	}
	return p, nil
}

type boosterTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Effect      string    `db:"effect"`
	Tags        []byte    `db:"tags"`
	LeagueIDs   []byte    `db:"league_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type boosterInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Effect      string    `db:"effect"`
	Tags        []byte    `db:"tags"`
	LeagueIDs   []byte    `db:"league_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const boosterUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    effect = EXCLUDED.effect,
    tags = EXCLUDED.tags,
    league_ids = EXCLUDED.league_ids,
    updated_at = EXCLUDED.updated_at`

func boosterInsertFromDomain(b reward.Booster) (boosterInsertModel, error) {
	tags, err := toJSONB(b.Tags)
	if err != nil {
		return boosterInsertModel{}, err
	}
	leagueIDs, err := toJSONB(b.LeagueIDs)
	if err != nil {
		return boosterInsertModel{}, err
	}

	return boosterInsertModel{
		PublicID:    b.ID,
		Name:        b.Name,
		Description: b.Description,
		Effect:      b.Effect,
		Tags:        tags,
		LeagueIDs:   leagueIDs,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}, nil
}

func boosterFromRow(row boosterTableModel) (reward.Booster, error) {
	b := reward.Booster{
		ID:          row.PublicID,
		Name:        row.Name,
		Description: row.Description,
		Effect:      row.Effect,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := fromJSONB(row.Tags, &b.Tags); err != nil {
		return reward.Booster{}, err
	}
	if err := fromJSONB(row.LeagueIDs, &b.LeagueIDs); err != nil {
		return reward.Booster{}, err
	}
	return b, nil
}
