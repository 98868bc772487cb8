package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type UserLeagueRepository struct {
	db *sqlx.DB
}

func NewUserLeagueRepository(db *sqlx.DB) *UserLeagueRepository {
	return &UserLeagueRepository{db: db}
}

func (r *UserLeagueRepository) GetByPair(ctx context.Context, userID, leagueID string) (userleague.Info, bool, error) {
	return getUserLeague(ctx, r.db, userID, leagueID)
}

func getUserLeague(ctx context.Context, q sqlx.QueryerContext, userID, leagueID string) (userleague.Info, bool, error) {
	query, args, err := qb.Select("*").From("user_league_info").
		Where(qb.Eq("user_id", userID), qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return userleague.Info{}, false, fmt.Errorf("build get aggregate query: %w", err)
	}

	var row userLeagueTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return userleague.Info{}, false, nil
		}
		return userleague.Info{}, false, fmt.Errorf("get aggregate: %w", err)
	}

	info, err := userLeagueFromRow(row)
	if err != nil {
		return userleague.Info{}, false, fmt.Errorf("decode aggregate row: %w", err)
	}
	return info, true, nil
}

func (r *UserLeagueRepository) ListByUser(ctx context.Context, userID string) ([]userleague.Info, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *UserLeagueRepository) ListByLeague(ctx context.Context, leagueID string) ([]userleague.Info, error) {
	return r.list(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *UserLeagueRepository) list(ctx context.Context, cond qb.Condition) ([]userleague.Info, error) {
	query, args, err := qb.Select("*").From("user_league_info").
		Where(cond).
		OrderBy("user_id", "league_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list aggregates query: %w", err)
	}

	var rows []userLeagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}

	out := make([]userleague.Info, 0, len(rows))
	for _, row := range rows {
		info, err := userLeagueFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode aggregate row: %w", err)
		}
		out = append(out, info)
	}
	return out, nil
}

func (r *UserLeagueRepository) Save(ctx context.Context, info userleague.Info) error {
	return saveUserLeague(ctx, r.db, info)
}

func saveUserLeague(ctx context.Context, e sqlx.ExecerContext, info userleague.Info) error {
	insertModel, err := userLeagueInsertFromDomain(info)
	if err != nil {
		return fmt.Errorf("map aggregate row: %w", err)
	}
	query, args, err := qb.InsertModel("user_league_info", insertModel, userLeagueUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save aggregate query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save aggregate: %w", err)
	}

	return nil
}

func (r *UserLeagueRepository) Delete(ctx context.Context, userID, leagueID string) error {
	return deleteUserLeague(ctx, r.db, userID, leagueID)
}

func deleteUserLeague(ctx context.Context, e sqlx.ExecerContext, userID, leagueID string) error {
	query, args, err := qb.DeleteFrom("user_league_info").
		Where(qb.Eq("user_id", userID), qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete aggregate query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete aggregate: %w", err)
	}

	return nil
}
