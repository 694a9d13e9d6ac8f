//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=mocks/mock_chat_repository.go -package=mocks

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"messenger/internal/domain"
	"messenger/pkg/logger"
)

// ChatRepository - хранилище личных сообщений.
// Выборки возвращают записи строго по убыванию id.
type ChatRepository interface {
	Insert(ctx context.Context, chat *domain.PersonalChat) error
	QueryByFilter(ctx context.Context, filter domain.Filter, page domain.PageRequest) ([]*domain.PersonalChat, error)
	// FindByID возвращает nil, nil если записи нет
	FindByID(ctx context.Context, id int64) (*domain.PersonalChat, error)
	UpdateReadFlag(ctx context.Context, id int64) (int64, error)
	UpdateDeletedFlag(ctx context.Context, id int64) (int64, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

const chatColumns = `id, sender_id, receiver_id, content, created_at, is_read, is_deleted`

func (r *chatRepository) Insert(ctx context.Context, chat *domain.PersonalChat) error {
	query := `
		INSERT INTO personal_chats (sender_id, receiver_id, group_key, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, is_read, is_deleted
	`

	err := r.db.QueryRow(ctx, query,
		chat.SenderID, chat.ReceiverID, chat.GroupKey().String(), chat.Content, chat.CreatedAt,
	).Scan(&chat.ID, &chat.CreatedAt, &chat.IsRead, &chat.IsDeleted)

	if err != nil {
		err = translatePgError(err)
		r.log.Error("Failed to insert personal chat", "error", err, "sender_id", chat.SenderID, "receiver_id", chat.ReceiverID)
		return err
	}

	return nil
}

func (r *chatRepository) QueryByFilter(ctx context.Context, filter domain.Filter, page domain.PageRequest) ([]*domain.PersonalChat, error) {
	if page.PageSize < 1 || page.Exhausted() {
		return []*domain.PersonalChat{}, nil
	}

	query, args, err := buildChatQuery(filter, page)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query personal chats", "error", err, "filter", filter.Kind.String())
		return nil, err
	}
	defer rows.Close()

	chats := make([]*domain.PersonalChat, 0, page.PageSize)
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			r.log.Error("Failed to scan personal chat", "error", err)
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Failed to iterate personal chats", "error", err)
		return nil, err
	}

	return chats, nil
}

func (r *chatRepository) FindByID(ctx context.Context, id int64) (*domain.PersonalChat, error) {
	query := `SELECT ` + chatColumns + ` FROM personal_chats WHERE id = $1`

	chat, err := scanChat(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get personal chat", "error", err, "chat_id", id)
		return nil, err
	}

	return chat, nil
}

func (r *chatRepository) UpdateReadFlag(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE personal_chats SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark personal chat as read", "error", err, "chat_id", id)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *chatRepository) UpdateDeletedFlag(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE personal_chats SET is_deleted = TRUE WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark personal chat as deleted", "error", err, "chat_id", id)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// buildChatQuery собирает SELECT для фильтра и курсора
func buildChatQuery(filter domain.Filter, page domain.PageRequest) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch filter.Kind {
	case domain.FilterAll:
	case domain.FilterBySender:
		conds = append(conds, "sender_id = "+arg(filter.SenderID), "is_deleted = FALSE")
	case domain.FilterByReceiver:
		conds = append(conds, "receiver_id = "+arg(filter.ReceiverID), "is_deleted = FALSE")
	case domain.FilterByGroup:
		conds = append(conds, "group_key = "+arg(filter.GroupKey.String()), "is_deleted = FALSE")
		if filter.ReceiverID != "" {
			conds = append(conds, "receiver_id = "+arg(filter.ReceiverID))
		}
	default:
		return "", nil, fmt.Errorf("unsupported filter kind %d", filter.Kind)
	}

	if page.LastSeenID != nil {
		conds = append(conds, "id < "+arg(*page.LastSeenID))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + chatColumns + " FROM personal_chats")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY id DESC LIMIT " + arg(page.PageSize))

	return sb.String(), args, nil
}

func scanChat(row pgx.Row) (*domain.PersonalChat, error) {
	chat := &domain.PersonalChat{}
	err := row.Scan(
		&chat.ID, &chat.SenderID, &chat.ReceiverID, &chat.Content,
		&chat.CreatedAt, &chat.IsRead, &chat.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return chat, nil
}
