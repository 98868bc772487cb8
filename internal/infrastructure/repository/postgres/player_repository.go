package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/player"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type playerTableModel struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	ClubID   string `db:"club_public_id"`
	Name     string `db:"name"`
	Position string `db:"position"`
	Price    int64  `db:"price"`
}

type playerInsertModel struct {
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	ClubID   string `db:"club_public_id"`
	Name     string `db:"name"`
	Position string `db:"position"`
	Price    int64  `db:"price"`
}

const playerUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    club_public_id = EXCLUDED.club_public_id,
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    price = EXCLUDED.price`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []string) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("players").Where(qb.In("public_id", values)).OrderBy("public_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) ListByLeague(ctx context.Context, leagueID string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").Where(qb.Eq("league_public_id", leagueID)).OrderBy("public_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) Save(ctx context.Context, p player.Player) error {
	insertModel := playerInsertModel{
		PublicID: p.ID,
		LeagueID: p.LeagueID,
		ClubID:   p.ClubID,
		Name:     p.Name,
		Position: string(p.Position),
		Price:    p.Price,
	}
	query, args, err := qb.InsertModel("players", insertModel, playerUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save player: %w", err)
	}

	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.PublicID,
		LeagueID: row.LeagueID,
		ClubID:   row.ClubID,
		Name:     row.Name,
		Position: player.Position(row.Position),
		Price:    row.Price,
	}
}
