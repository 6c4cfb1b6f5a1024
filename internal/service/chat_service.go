package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/domain"
	"github.com/lallen30/skype-clone/internal/repository"
)

var ErrDirectParticipants = errors.New("direct conversations require exactly one other participant")

type ChatService struct {
	convRepo    repository.ConversationRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewChatService(
	convRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
) *ChatService {
	return &ChatService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

type CreateConversationInput struct {
	Participants []uuid.UUID `json:"participants"`
	IsGroup      bool        `json:"is_group"`
	Name         string      `json:"name"`
}

// Create creates a conversation, or returns the existing direct
// conversation between the same two users. The second return value reports
// whether a new conversation was created.
func (s *ChatService) Create(ctx context.Context, creatorID uuid.UUID, input CreateConversationInput) (*domain.Conversation, bool, error) {
	if len(input.Participants) == 0 {
		return nil, false, ErrNoParticipants
	}
	if input.IsGroup && input.Name == "" {
		return nil, false, ErrGroupNameRequired
	}

	// The creator is always a participant.
	participants := make([]uuid.UUID, 0, len(input.Participants)+1)
	participants = append(participants, creatorID)
	for _, id := range input.Participants {
		if !containsID(participants, id) {
			participants = append(participants, id)
		}
	}

	for _, id := range participants {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		if user == nil {
			return nil, false, ErrUserNotFound
		}
	}

	if !input.IsGroup {
		if len(participants) != 2 {
			return nil, false, ErrDirectParticipants
		}

		existing, err := s.convRepo.GetDirectByParticipants(ctx, participants[0], participants[1])
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			if err := s.expand(ctx, existing); err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
	}

	now := time.Now()
	conv := &domain.Conversation{
		ID:             uuid.New(),
		IsGroup:        input.IsGroup,
		ParticipantIDs: participants,
		CreatedBy:      creatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.IsGroup {
		name := input.Name
		conv.Name = &name
		conv.AdminIDs = []uuid.UUID{creatorID}
	}

	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, false, fmt.Errorf("creating conversation: %w", err)
	}

	if err := s.expand(ctx, conv); err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

func (s *ChatService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	if err := s.expand(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// List returns the user's conversations, most recently updated first, with
// participants, last message and unread count filled in.
func (s *ChatService) List(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range convs {
		if err := s.expand(ctx, &convs[i]); err != nil {
			return nil, err
		}
		unread, err := s.messageRepo.CountUnread(ctx, convs[i].ID, userID)
		if err != nil {
			return nil, err
		}
		convs[i].UnreadCount = unread
	}

	if convs == nil {
		convs = []domain.Conversation{}
	}
	return convs, nil
}

func (s *ChatService) AddParticipant(ctx context.Context, actorID, conversationID, newUserID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.IsGroup {
		return nil, ErrNotGroup
	}
	if !conv.HasAdmin(actorID) {
		return nil, ErrNotAdmin
	}

	newUser, err := s.userRepo.GetByID(ctx, newUserID)
	if err != nil {
		return nil, err
	}
	if newUser == nil {
		return nil, ErrUserNotFound
	}
	if conv.HasParticipant(newUserID) {
		return nil, ErrAlreadyParticipant
	}

	if err := s.convRepo.AddParticipant(ctx, conversationID, newUserID, false); err != nil {
		return nil, fmt.Errorf("adding participant: %w", err)
	}
	conv.ParticipantIDs = append(conv.ParticipantIDs, newUserID)

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf("%s added %s to the group", actor.DisplayName, newUser.DisplayName)
	if err := s.appendSystemMessage(ctx, conversationID, actorID, content); err != nil {
		return nil, err
	}

	if err := s.expand(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) RemoveParticipant(ctx context.Context, actorID, conversationID, targetUserID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.IsGroup {
		return nil, ErrNotGroup
	}

	isSelfRemoval := actorID == targetUserID
	if !conv.HasAdmin(actorID) && !isSelfRemoval {
		return nil, ErrNotAdmin
	}
	if !conv.HasParticipant(targetUserID) {
		return nil, ErrUserNotFound
	}

	// Removing the participant row drops admin rights with it.
	if err := s.convRepo.RemoveParticipant(ctx, conversationID, targetUserID); err != nil {
		return nil, fmt.Errorf("removing participant: %w", err)
	}
	conv.ParticipantIDs = removeID(conv.ParticipantIDs, targetUserID)
	conv.AdminIDs = removeID(conv.AdminIDs, targetUserID)

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	var content string
	if isSelfRemoval {
		content = fmt.Sprintf("%s left the group", target.DisplayName)
	} else {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		content = fmt.Sprintf("%s removed %s from the group", actor.DisplayName, target.DisplayName)
	}
	if err := s.appendSystemMessage(ctx, conversationID, actorID, content); err != nil {
		return nil, err
	}

	if err := s.expand(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// appendSystemMessage records a membership-change notice attributed to the
// actor and refreshes the conversation's last-message pointer.
func (s *ChatService) appendSystemMessage(ctx context.Context, conversationID, actorID uuid.UUID, content string) error {
	now := time.Now()
	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       actorID,
		Content:        content,
		ContentType:    domain.ContentTypeText,
		ReadBy:         []uuid.UUID{actorID},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("creating system message: %w", err)
	}
	if err := s.convRepo.SetLastMessage(ctx, conversationID, msg.ID); err != nil {
		return fmt.Errorf("updating last message: %w", err)
	}
	return nil
}

func (s *ChatService) expand(ctx context.Context, conv *domain.Conversation) error {
	conv.Participants = conv.Participants[:0]
	for _, id := range conv.ParticipantIDs {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user != nil {
			conv.Participants = append(conv.Participants, *user)
		}
	}

	if conv.LastMessageID != nil {
		msg, err := s.messageRepo.GetByID(ctx, *conv.LastMessageID)
		if err != nil {
			return err
		}
		conv.LastMessage = msg
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
