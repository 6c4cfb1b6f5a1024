package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message content types.
const (
	ContentTypeText  = "text"
	ContentTypeFile  = "file"
	ContentTypeImage = "image"
	ContentTypeVideo = "video"
	ContentTypeAudio = "audio"
)

// ContentTypeFromMIME classifies an uploaded file by its declared MIME type.
func ContentTypeFromMIME(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return ContentTypeImage
	case strings.HasPrefix(mime, "video/"):
		return ContentTypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return ContentTypeAudio
	default:
		return ContentTypeFile
	}
}

type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id"`
	Content        string      `json:"content"`
	ContentType    string      `json:"content_type"`
	FileURL        *string     `json:"file_url,omitempty"`
	FileName       *string     `json:"file_name,omitempty"`
	FileSize       *int64      `json:"file_size,omitempty"`
	ReadBy         []uuid.UUID `json:"read_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Joined fields
	Sender *User `json:"sender,omitempty"`
}

// ReadByUser reports whether userID is in the read set.
func (m *Message) ReadByUser(userID uuid.UUID) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
