package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/club"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type clubTableModel struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	Name     string `db:"name"`
	Short    string `db:"short_name"`
}

type clubInsertModel struct {
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	Name     string `db:"name"`
	Short    string `db:"short_name"`
}

const clubUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name`

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (club.Club, bool, error) {
	query, args, err := qb.Select("*").From("clubs").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build get club query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}

	return clubFromRow(row), true, nil
}

func (r *ClubRepository) ListByLeague(ctx context.Context, leagueID string) ([]club.Club, error) {
	query, args, err := qb.Select("*").From("clubs").Where(qb.Eq("league_public_id", leagueID)).OrderBy("public_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, clubFromRow(row))
	}
	return out, nil
}

func (r *ClubRepository) Save(ctx context.Context, c club.Club) error {
	insertModel := clubInsertModel{
		PublicID: c.ID,
		LeagueID: c.LeagueID,
		Name:     c.Name,
		Short:    c.Short,
	}
	query, args, err := qb.InsertModel("clubs", insertModel, clubUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save club query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save club: %w", err)
	}

	return nil
}

func clubFromRow(row clubTableModel) club.Club {
	return club.Club{
		ID:       row.PublicID,
		LeagueID: row.LeagueID,
		Name:     row.Name,
		Short:    row.Short,
	}
}
