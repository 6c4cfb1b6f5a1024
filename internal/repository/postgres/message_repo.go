package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lallen30/skype-clone/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const messageColumns = `m.id, m.conversation_id, m.sender_id, m.content, m.content_type,
	m.file_url, m.file_name, m.file_size, m.created_at, m.updated_at,
	COALESCE((SELECT array_agg(mr.user_id) FROM message_reads mr WHERE mr.message_id = m.id), '{}') AS read_by,
	u.id, u.username, u.email, u.display_name, u.password_hash, u.avatar_url, u.status, u.last_seen, u.created_at, u.updated_at`

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query, args, err := psql.
		Insert("messages").
		Columns("id", "conversation_id", "sender_id", "content", "content_type",
			"file_url", "file_name", "file_size", "created_at", "updated_at").
		Values(msg.ID, msg.ConversationID, msg.SenderID, msg.Content, msg.ContentType,
			msg.FileURL, msg.FileName, msg.FileSize, msg.CreatedAt, msg.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return err
	}

	for _, userID := range msg.ReadBy {
		if err := r.addRead(ctx, msg.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query, args, err := psql.
		Select(messageColumns).
		From("messages m").
		Join("users u ON m.sender_id = u.id").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var msg domain.Message
	err = scanMessageRow(r.pool.QueryRow(ctx, query, args...), &msg)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID, offset, limit int) ([]domain.Message, error) {
	query, args, err := psql.
		Select(messageColumns).
		From("messages m").
		Join("users u ON m.sender_id = u.id").
		Where(squirrel.Eq{"m.conversation_id": conversationID}).
		OrderBy("m.created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := scanMessageRow(rows, &msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepo) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (int, error) {
	// INSERT ... SELECT does not compose well with the builder; keep it raw.
	query := `
		INSERT INTO message_reads (message_id, user_id, read_at)
		SELECT m.id, $2, now()
		FROM messages m
		WHERE m.conversation_id = $1
		  AND m.sender_id <> $2
		  AND NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = m.id AND mr.user_id = $2)
		ON CONFLICT (message_id, user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *MessageRepo) CountUnread(ctx context.Context, conversationID, userID uuid.UUID) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("messages m").
		Where(squirrel.And{
			squirrel.Eq{"m.conversation_id": conversationID},
			squirrel.NotEq{"m.sender_id": userID},
			squirrel.Expr("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = m.id AND mr.user_id = ?)", userID),
		}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepo) addRead(ctx context.Context, messageID, userID uuid.UUID) error {
	query, args, err := psql.
		Insert("message_reads").
		Columns("message_id", "user_id", "read_at").
		Values(messageID, userID, time.Now()).
		Suffix("ON CONFLICT (message_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func scanMessageRow(row pgx.Row, msg *domain.Message) error {
	var sender domain.User
	if err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.ContentType,
		&msg.FileURL, &msg.FileName, &msg.FileSize, &msg.CreatedAt, &msg.UpdatedAt,
		&msg.ReadBy,
		&sender.ID, &sender.Username, &sender.Email, &sender.DisplayName,
		&sender.PasswordHash, &sender.AvatarURL, &sender.Status, &sender.LastSeen,
		&sender.CreatedAt, &sender.UpdatedAt,
	); err != nil {
		return err
	}
	msg.Sender = &sender
	return nil
}
