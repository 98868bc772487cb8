package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	return getUser(ctx, r.db, qb.Eq("public_id", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return getUser(ctx, r.db, qb.Expr("LOWER(email) = LOWER(?)", email))
}

func getUser(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(cond).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	u, err := userFromRow(row)
	if err != nil {
		return user.User{}, false, fmt.Errorf("decode user row: %w", err)
	}
	return u, true, nil
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	builder := qb.Select("*").From("users").OrderBy("public_id")
	if !filter.IncludeDeleted {
		builder = builder.Where(qb.Eq("is_deleted", false))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + keyword + "%"
		builder = builder.Where(qb.Expr("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		u, err := userFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode user row: %w", err)
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *UserRepository) Save(ctx context.Context, u user.User) error {
	return saveUser(ctx, r.db, u)
}

func saveUser(ctx context.Context, e sqlx.ExecerContext, u user.User) error {
	insertModel, err := userInsertFromDomain(u)
	if err != nil {
		return fmt.Errorf("map user row: %w", err)
	}
	query, args, err := qb.InsertModel("users", insertModel, userUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save user query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	return nil
}
