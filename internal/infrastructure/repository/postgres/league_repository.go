package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	return getLeague(ctx, r.db, id)
}

func getLeague(ctx context.Context, q sqlx.QueryerContext, id string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	l, err := leagueFromRow(row)
	if err != nil {
		return league.League{}, false, fmt.Errorf("decode league row: %w", err)
	}
	return l, true, nil
}

func (r *LeagueRepository) List(ctx context.Context, filter league.ListFilter) ([]league.League, error) {
	builder := qb.Select("*").From("leagues").OrderBy("public_id")
	if filter.Status != "" {
		builder = builder.Where(qb.Eq("status", string(filter.Status)))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		builder = builder.Where(qb.ILike("name", "%"+keyword+"%"))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		l, err := leagueFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode league row: %w", err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *LeagueRepository) Save(ctx context.Context, l league.League) error {
	return saveLeague(ctx, r.db, l)
}

func saveLeague(ctx context.Context, e sqlx.ExecerContext, l league.League) error {
	insertModel, err := leagueInsertFromDomain(l)
	if err != nil {
		return fmt.Errorf("map league row: %w", err)
	}
	query, args, err := qb.InsertModel("leagues", insertModel, leagueUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save league query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save league: %w", err)
	}

	return nil
}
