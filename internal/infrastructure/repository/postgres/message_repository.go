package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/internal/domain/message"
	qb "github.com/openfpl/fantasy-platform/internal/platform/querybuilder"
)

type messageTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Sender    string    `db:"sender"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

type messageInsertModel struct {
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Sender    string    `db:"sender"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

const messageUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    is_read = EXCLUDED.is_read`

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (message.Message, bool, error) {
	query, args, err := qb.Select("*").From("messages").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return message.Message{}, false, fmt.Errorf("build get message query: %w", err)
	}

	var row messageTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return message.Message{}, false, nil
		}
		return message.Message{}, false, fmt.Errorf("get message: %w", err)
	}

	return messageFromRow(row), true, nil
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]message.Message, error) {
	query, args, err := qb.Select("*").From("messages").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list messages query: %w", err)
	}

	var rows []messageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]message.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, messageFromRow(row))
	}
	return out, nil
}

func (r *MessageRepository) Save(ctx context.Context, m message.Message) error {
	insertModel := messageInsertModel{
		PublicID:  m.ID,
		UserID:    m.UserID,
		Sender:    string(m.Sender),
		Subject:   m.Subject,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	query, args, err := qb.InsertModel("messages", insertModel, messageUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save message query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save message: %w", err)
	}

	return nil
}

func messageFromRow(row messageTableModel) message.Message {
	return message.Message{
		ID:        row.PublicID,
		UserID:    row.UserID,
		Sender:    message.Sender(row.Sender),
		Subject:   row.Subject,
		Body:      row.Body,
		IsRead:    row.IsRead,
		CreatedAt: row.CreatedAt,
	}
}
