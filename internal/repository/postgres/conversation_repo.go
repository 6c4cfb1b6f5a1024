package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lallen30/skype-clone/internal/domain"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

func (r *ConversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, name, is_group, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		conv.ID, conv.Name, conv.IsGroup, conv.CreatedBy, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, userID := range conv.ParticipantIDs {
		isAdmin := false
		for _, adminID := range conv.AdminIDs {
			if adminID == userID {
				isAdmin = true
				break
			}
		}
		if err := r.AddParticipant(ctx, conv.ID, userID, isAdmin); err != nil {
			return err
		}
	}
	return nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, name, is_group, created_by, last_message_id, created_at, updated_at
		FROM conversations
		WHERE id = $1`

	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&conv.ID, &conv.Name, &conv.IsGroup, &conv.CreatedBy,
		&conv.LastMessageID, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadParticipants(ctx, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepo) GetDirectByParticipants(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Conversation, error) {
	// Exact two-element participant-set match: both users present and
	// nobody else in the conversation.
	query := `
		SELECT c.id
		FROM conversations c
		JOIN conversation_participants p1 ON c.id = p1.conversation_id AND p1.user_id = $1
		JOIN conversation_participants p2 ON c.id = p2.conversation_id AND p2.user_id = $2
		WHERE c.is_group = FALSE
		  AND (SELECT COUNT(*) FROM conversation_participants p WHERE p.conversation_id = c.id) = 2`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, user1ID, user2ID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ConversationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	query := `
		SELECT c.id, c.name, c.is_group, c.created_by, c.last_message_id, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_participants p ON c.id = p.conversation_id
		WHERE p.user_id = $1
		ORDER BY c.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(
			&conv.ID, &conv.Name, &conv.IsGroup, &conv.CreatedBy,
			&conv.LastMessageID, &conv.CreatedAt, &conv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range convs {
		if err := r.loadParticipants(ctx, &convs[i]); err != nil {
			return nil, err
		}
	}
	return convs, nil
}

func (r *ConversationRepo) AddParticipant(ctx context.Context, conversationID, userID uuid.UUID, isAdmin bool) error {
	query := `
		INSERT INTO conversation_participants (conversation_id, user_id, is_admin, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (conversation_id, user_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, conversationID, userID, isAdmin, time.Now())
	return err
}

func (r *ConversationRepo) RemoveParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	query := `DELETE FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, conversationID, userID)
	return err
}

func (r *ConversationRepo) SetLastMessage(ctx context.Context, conversationID, messageID uuid.UUID) error {
	query := `UPDATE conversations SET last_message_id = $1, updated_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, messageID, time.Now(), conversationID)
	return err
}

func (r *ConversationRepo) loadParticipants(ctx context.Context, conv *domain.Conversation) error {
	query := `
		SELECT user_id, is_admin
		FROM conversation_participants
		WHERE conversation_id = $1
		ORDER BY joined_at`

	rows, err := r.pool.Query(ctx, query, conv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	conv.ParticipantIDs = conv.ParticipantIDs[:0]
	conv.AdminIDs = conv.AdminIDs[:0]
	for rows.Next() {
		var userID uuid.UUID
		var isAdmin bool
		if err := rows.Scan(&userID, &isAdmin); err != nil {
			return err
		}
		conv.ParticipantIDs = append(conv.ParticipantIDs, userID)
		if isAdmin {
			conv.AdminIDs = append(conv.AdminIDs, userID)
		}
	}
	return rows.Err()
}
