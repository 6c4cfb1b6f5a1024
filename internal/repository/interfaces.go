package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, excludeID uuid.UUID) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// GetDirectByParticipants finds the non-group conversation whose
	// participant set is exactly {user1ID, user2ID}.
	GetDirectByParticipants(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID uuid.UUID, isAdmin bool) error
	RemoveParticipant(ctx context.Context, conversationID, userID uuid.UUID) error
	SetLastMessage(ctx context.Context, conversationID, messageID uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListByConversation returns messages newest-first.
	ListByConversation(ctx context.Context, conversationID uuid.UUID, offset, limit int) ([]domain.Message, error)
	CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error)
	// MarkRead adds userID to the read set of every message in the
	// conversation not sent by userID and not already read by them.
	// Returns the number of messages newly marked.
	MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (int, error)
	CountUnread(ctx context.Context, conversationID, userID uuid.UUID) (int, error)
}
