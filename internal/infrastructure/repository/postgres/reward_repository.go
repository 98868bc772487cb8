package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type BadgeRepository struct {
	db *sqlx.DB
}

func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) GetByID(ctx context.Context, id string) (reward.Badge, bool, error) {
	return getBadge(ctx, r.db, qb.Eq("public_id", id))
}

func (r *BadgeRepository) GetByName(ctx context.Context, name string) (reward.Badge, bool, error) {
	return getBadge(ctx, r.db, qb.Expr("LOWER(name) = LOWER(?)", name))
}

func getBadge(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition) (reward.Badge, bool, error) {
	query, args, err := qb.Select("*").From("badges").Where(cond).ToSQL()
	if err != nil {
		return reward.Badge{}, false, fmt.Errorf("build get badge query: %w", err)
	}

	var row badgeTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return reward.Badge{}, false, nil
		}
		return reward.Badge{}, false, fmt.Errorf("get badge: %w", err)
	}

	b, err := badgeFromRow(row)
	if err != nil {
		return reward.Badge{}, false, fmt.Errorf("decode badge row: %w", err)
	}
	return b, true, nil
}

func (r *BadgeRepository) List(ctx context.Context) ([]reward.Badge, error) {
	query, args, err := qb.Select("*").From("badges").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list badges query: %w", err)
	}

	var rows []badgeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	out := make([]reward.Badge, 0, len(rows))
	for _, row := range rows {
		b, err := badgeFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode badge row: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *BadgeRepository) Save(ctx context.Context, b reward.Badge) error {
	return saveBadge(ctx, r.db, b)
}

func saveBadge(ctx context.Context, e sqlx.ExecerContext, b reward.Badge) error {
	insertModel, err := badgeInsertFromDomain(b)
	if err != nil {
		return fmt.Errorf("map badge row: %w", err)
	}
	query, args, err := qb.InsertModel("badges", insertModel, badgeUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save badge query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save badge: %w", err)
	}

	return nil
}

func (r *BadgeRepository) Delete(ctx context.Context, id string) error {
	return deleteByPublicID(ctx, r.db, "badges", id)
}

type PrizeRepository struct {
	db *sqlx.DB
}

func NewPrizeRepository(db *sqlx.DB) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func (r *PrizeRepository) GetByID(ctx context.Context, id string) (reward.Prize, bool, error) {
	return getPrize(ctx, r.db, qb.Eq("public_id", id))
}

func (r *PrizeRepository) GetByTitle(ctx context.Context, title string) (reward.Prize, bool, error) {
	return getPrize(ctx, r.db, qb.Expr("LOWER(title) = LOWER(?)", title))
}

func getPrize(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition) (reward.Prize, bool, error) {
	query, args, err := qb.Select("*").From("prizes").Where(cond).ToSQL()
	if err != nil {
		return reward.Prize{}, false, fmt.Errorf("build get prize query: %w", err)
	}

	var row prizeTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return reward.Prize{}, false, nil
		}
		return reward.Prize{}, false, fmt.Errorf("get prize: %w", err)
	}

	p, err := prizeFromRow(row)
	if err != nil {
		return reward.Prize{}, false, fmt.Errorf("decode prize row: %w", err)
	}
	return p, true, nil
}

func (r *PrizeRepository) List(ctx context.Context) ([]reward.Prize, error) {
	query, args, err := qb.Select("*").From("prizes").OrderBy("title").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list prizes query: %w", err)
	}

	var rows []prizeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}

	out := make([]reward.Prize, 0, len(rows))
	for _, row := range rows {
		p, err := prizeFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode prize row: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PrizeRepository) Save(ctx context.Context, p reward.Prize) error {
	return savePrize(ctx, r.db, p)
}

func savePrize(ctx context.Context, e sqlx.ExecerContext, p reward.Prize) error {
	insertModel, err := prizeInsertFromDomain(p)
	if err != nil {
		return fmt.Errorf("map prize row: %w", err)
	}
	query, args, err := qb.InsertModel("prizes", insertModel, prizeUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save prize query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save prize: %w", err)
	}

	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id string) error {
	return deleteByPublicID(ctx, r.db, "prizes", id)
}

type BoosterRepository struct {
	db *sqlx.DB
}

func NewBoosterRepository(db *sqlx.DB) *BoosterRepository {
	return &BoosterRepository{db: db}
}

func (r *BoosterRepository) GetByID(ctx context.Context, id string) (reward.Booster, bool, error) {
	return getBooster(ctx, r.db, qb.Eq("public_id", id))
}

func (r *BoosterRepository) GetByName(ctx context.Context, name string) (reward.Booster, bool, error) {
	return getBooster(ctx, r.db, qb.Expr("LOWER(name) = LOWER(?)", name))
}

func getBooster(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition) (reward.Booster, bool, error) {
	query, args, err := qb.Select("*").From("boosters").Where(cond).ToSQL()
	if err != nil {
		return reward.Booster{}, false, fmt.Errorf("build get booster query: %w", err)
	}

	var row boosterTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return reward.Booster{}, false, nil
		}
		return reward.Booster{}, false, fmt.Errorf("get booster: %w", err)
	}

	b, err := boosterFromRow(row)
	if err != nil {
		return reward.Booster{}, false, fmt.Errorf("decode booster row: %w", err)
	}
	return b, true, nil
}

func (r *BoosterRepository) List(ctx context.Context) ([]reward.Booster, error) {
	query, args, err := qb.Select("*").From("boosters").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boosters query: %w", err)
	}

	var rows []boosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boosters: %w", err)
	}

	out := make([]reward.Booster, 0, len(rows))
	for _, row := range rows {
		b, err := boosterFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode booster row: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *BoosterRepository) Save(ctx context.Context, b reward.Booster) error {
	return saveBooster(ctx, r.db, b)
}

func saveBooster(ctx context.Context, e sqlx.ExecerContext, b reward.Booster) error {
	insertModel, err := boosterInsertFromDomain(b)
	if err != nil {
		return fmt.Errorf("map booster row: %w", err)
	}
	query, args, err := qb.InsertModel("boosters", insertModel, boosterUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save booster query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save booster: %w", err)
	}

	return nil
}

func (r *BoosterRepository) Delete(ctx context.Context, id string) error {
	return deleteByPublicID(ctx, r.db, "boosters", id)
}

func deleteByPublicID(ctx context.Context, e sqlx.ExecerContext, table, id string) error {
	query, args, err := qb.DeleteFrom(table).Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete %s query: %w", table, err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	return nil
}
