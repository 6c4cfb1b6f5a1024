package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/domain"
	"github.com/lallen30/skype-clone/internal/repository"
)

const defaultPageSize = 50

type MessageService struct {
	messageRepo repository.MessageRepository
	convRepo    repository.ConversationRepository
}

func NewMessageService(messageRepo repository.MessageRepository, convRepo repository.ConversationRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		convRepo:    convRepo,
	}
}

type SendMessageInput struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Content        string    `json:"content"`
	ContentType    string    `json:"content_type"`
}

// FileInput describes an already-stored upload.
type FileInput struct {
	URL      string
	Name     string
	Size     int64
	MIMEType string
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type MessageListResponse struct {
	Data       []domain.Message `json:"data"`
	Total      int              `json:"total"`
	Pagination Pagination       `json:"pagination"`
}

type FileMeta struct {
	FileURL     string `json:"file_url"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// Send persists a message. Updating the conversation's last-message pointer
// is a post-condition shared with SendFile.
func (s *MessageService) Send(ctx context.Context, senderID uuid.UUID, input SendMessageInput) (*domain.Message, error) {
	if err := s.checkParticipant(ctx, senderID, input.ConversationID); err != nil {
		return nil, err
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = domain.ContentTypeText
	}

	msg := s.newMessage(senderID, input.ConversationID, input.Content, contentType)
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	if err := s.convRepo.SetLastMessage(ctx, input.ConversationID, msg.ID); err != nil {
		return nil, fmt.Errorf("updating last message: %w", err)
	}

	return s.messageRepo.GetByID(ctx, msg.ID)
}

// SendFile persists a file message. The original filename stands in as the
// content and the content type is derived from the declared MIME type.
func (s *MessageService) SendFile(ctx context.Context, senderID, conversationID uuid.UUID, file FileInput) (*domain.Message, error) {
	if err := s.checkParticipant(ctx, senderID, conversationID); err != nil {
		return nil, err
	}

	msg := s.newMessage(senderID, conversationID, file.Name, domain.ContentTypeFromMIME(file.MIMEType))
	msg.FileURL = &file.URL
	msg.FileName = &file.Name
	msg.FileSize = &file.Size

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating file message: %w", err)
	}
	if err := s.convRepo.SetLastMessage(ctx, conversationID, msg.ID); err != nil {
		return nil, fmt.Errorf("updating last message: %w", err)
	}

	return s.messageRepo.GetByID(ctx, msg.ID)
}

// List returns one page of messages in chronological order. As a side
// effect every message in the conversation not sent by the caller is marked
// read, on every page fetch.
func (s *MessageService) List(ctx context.Context, userID, conversationID uuid.UUID, page, limit int) (*MessageListResponse, error) {
	if err := s.checkParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	// Mark before fetching so the returned page reflects the caller's own
	// read markers.
	if _, err := s.messageRepo.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, fmt.Errorf("marking messages read: %w", err)
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.messageRepo.CountByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// Repo returns newest-first; flip to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	return &MessageListResponse{
		Data:  messages,
		Total: total,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// MarkRead marks every unread message in the conversation as read by the
// caller and returns how many were newly marked.
func (s *MessageService) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int, error) {
	if err := s.checkParticipant(ctx, userID, conversationID); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkRead(ctx, conversationID, userID)
}

// GetFile returns the file metadata attached to a message.
func (s *MessageService) GetFile(ctx context.Context, userID, messageID uuid.UUID) (*FileMeta, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.FileURL == nil {
		return nil, ErrFileNotFound
	}

	if err := s.checkParticipant(ctx, userID, msg.ConversationID); err != nil {
		return nil, err
	}

	meta := &FileMeta{
		FileURL:     *msg.FileURL,
		ContentType: msg.ContentType,
	}
	if msg.FileName != nil {
		meta.FileName = *msg.FileName
	}
	if msg.FileSize != nil {
		meta.FileSize = *msg.FileSize
	}
	return meta, nil
}

func (s *MessageService) newMessage(senderID, conversationID uuid.UUID, content, contentType string) *domain.Message {
	now := time.Now()
	return &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		ContentType:    contentType,
		ReadBy:         []uuid.UUID{senderID},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *MessageService) checkParticipant(ctx context.Context, userID, conversationID uuid.UUID) error {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return ErrNotParticipant
	}
	return nil
}
