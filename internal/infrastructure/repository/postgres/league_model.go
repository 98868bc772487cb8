package postgres

import (
	"database/sql"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
)

type leagueTableModel struct {
	ID            int64        `db:"id"`
	PublicID      string       `db:"public_id"`
	LeagueCode    string       `db:"league_code"`
	Name          string       `db:"name"`
	Type          string       `db:"type"`
	Status        string       `db:"status"`
	Country       []byte       `db:"country"`
	Season        string       `db:"season"`
	TransferLimit int          `db:"transfer_limit"`
	StartDate     sql.NullTime `db:"start_date"`
	EndDate       sql.NullTime `db:"end_date"`
	Timezone      string       `db:"timezone"`
	Description   string       `db:"description"`
	EntryPrice    int64        `db:"entry_price"`
	EntryDeadline sql.NullTime `db:"entry_deadline"`
	APIProvider   []byte       `db:"api_provider"`
	LastSyncTime  sql.NullTime `db:"last_sync_time"`
	SyncFrequency string       `db:"sync_frequency"`
	GameWeeks     []byte       `db:"game_weeks"`
	PlayerIDs     []byte       `db:"player_ids"`
	ClubIDs       []byte       `db:"club_ids"`
	UserIDs       []byte       `db:"user_ids"`
	WinnerIDs     []byte       `db:"winner_ids"`
	BadgeIDs      []byte       `db:"badge_ids"`
	PrizeIDs      []byte       `db:"prize_ids"`
	BoosterIDs    []byte       `db:"booster_ids"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID      string       `db:"public_id"`
	LeagueCode    string       `db:"league_code"`
	Name          string       `db:"name"`
	Type          string       `db:"type"`
	Status        string       `db:"status"`
	Country       []byte       `db:"country"`
	Season        string       `db:"season"`
	TransferLimit int          `db:"transfer_limit"`
	StartDate     sql.NullTime `db:"start_date"`
	EndDate       sql.NullTime `db:"end_date"`
	Timezone      string       `db:"timezone"`
	Description   string       `db:"description"`
	EntryPrice    int64        `db:"entry_price"`
	EntryDeadline sql.NullTime `db:"entry_deadline"`
	APIProvider   []byte       `db:"api_provider"`
	LastSyncTime  sql.NullTime `db:"last_sync_time"`
	SyncFrequency string       `db:"sync_frequency"`
	GameWeeks     []byte       `db:"game_weeks"`
	PlayerIDs     []byte       `db:"player_ids"`
	ClubIDs       []byte       `db:"club_ids"`
	UserIDs       []byte       `db:"user_ids"`
	WinnerIDs     []byte       `db:"winner_ids"`
	BadgeIDs      []byte       `db:"badge_ids"`
	PrizeIDs      []byte       `db:"prize_ids"`
	BoosterIDs    []byte       `db:"booster_ids"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

const leagueUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    league_code = EXCLUDED.league_code,
    name = EXCLUDED.name,
    type = EXCLUDED.type,
    status = EXCLUDED.status,
    country = EXCLUDED.country,
    season = EXCLUDED.season,
    transfer_limit = EXCLUDED.transfer_limit,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    timezone = EXCLUDED.timezone,
    description = EXCLUDED.description,
    entry_price = EXCLUDED.entry_price,
    entry_deadline = EXCLUDED.entry_deadline,
    api_provider = EXCLUDED.api_provider,
    last_sync_time = EXCLUDED.last_sync_time,
    sync_frequency = EXCLUDED.sync_frequency,
    game_weeks = EXCLUDED.game_weeks,
    player_ids = EXCLUDED.player_ids,
    club_ids = EXCLUDED.club_ids,
    user_ids = EXCLUDED.user_ids,
    winner_ids = EXCLUDED.winner_ids,
    badge_ids = EXCLUDED.badge_ids,
    prize_ids = EXCLUDED.prize_ids,
    booster_ids = EXCLUDED.booster_ids,
    updated_at = EXCLUDED.updated_at`

func leagueInsertFromDomain(l league.League) (leagueInsertModel, error) {
	country, err := toJSONBObject(l.Country)
	if err != nil {
		return leagueInsertModel{}, err
	}
	apiProvider, err := toJSONBObject(l.APIProvider)
	if err != nil {
		return leagueInsertModel{}, err
	}

	jsonbCols := make([][]byte, 0, 8)
	for _, src := range []any{l.GameWeeks, l.PlayerIDs, l.ClubIDs, l.UserIDs, l.WinnerIDs, l.BadgeIDs, l.PrizeIDs, l.BoosterIDs} {
		data, err := toJSONB(src)
		if err != nil {
			return leagueInsertModel{}, err
		}
		jsonbCols = append(jsonbCols, data)
	}

	return leagueInsertModel{
		PublicID:      l.ID,
		LeagueCode:    l.LeagueID,
		Name:          l.Name,
		Type:          string(l.Type),
		Status:        string(l.Status),
		Country:       country,
		Season:        l.Season,
		TransferLimit: l.TransferLimit,
		StartDate:     nullTime(l.StartDate),
		EndDate:       nullTime(l.EndDate),
		Timezone:      l.Timezone,
		Description:   l.Description,
		EntryPrice:    l.EntryPrice,
		EntryDeadline: nullTime(l.EntryDeadline),
		APIProvider:   apiProvider,
		LastSyncTime:  nullTime(l.LastSyncTime),
		SyncFrequency: l.SyncFrequency,
		GameWeeks:     jsonbCols[0],
		PlayerIDs:     jsonbCols[1],
		ClubIDs:       jsonbCols[2],
		UserIDs:       jsonbCols[3],
		WinnerIDs:     jsonbCols[4],
		BadgeIDs:      jsonbCols[5],
		PrizeIDs:      jsonbCols[6],
		BoosterIDs:    jsonbCols[7],
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}, nil
}

func leagueFromRow(row leagueTableModel) (league.League, error) {
	l := league.League{
		ID:            row.PublicID,
		LeagueID:      row.LeagueCode,
		Name:          row.Name,
		Type:          league.Type(row.Type),
		Status:        league.Status(row.Status),
		Season:        row.Season,
		TransferLimit: row.TransferLimit,
		StartDate:     row.StartDate.Time,
		EndDate:       row.EndDate.Time,
		Timezone:      row.Timezone,
		Description:   row.Description,
		EntryPrice:    row.EntryPrice,
		EntryDeadline: row.EntryDeadline.Time,
		LastSyncTime:  row.LastSyncTime.Time,
		SyncFrequency: row.SyncFrequency,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}

	if err := fromJSONB(row.Country, &l.Country); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.APIProvider, &l.APIProvider); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.GameWeeks, &l.GameWeeks); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.PlayerIDs, &l.PlayerIDs); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.ClubIDs, &l.ClubIDs); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.UserIDs, &l.UserIDs); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.WinnerIDs, &l.WinnerIDs); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.BadgeIDs, &l.BadgeIDs); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.PrizeIDs, &l.PrizeIDs); err != nil {
		return league.League{}, err
	}
	if err := fromJSONB(row.BoosterIDs, &l.BoosterIDs); err != nil {
		return league.League{}, err
	}

	return l, nil
}
