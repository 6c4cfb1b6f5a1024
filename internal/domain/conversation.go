package domain

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID             uuid.UUID   `json:"id"`
	Name           *string     `json:"name,omitempty"`
	IsGroup        bool        `json:"is_group"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	AdminIDs       []uuid.UUID `json:"admin_ids,omitempty"`
	CreatedBy      uuid.UUID   `json:"created_by"`
	LastMessageID  *uuid.UUID  `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Joined fields for list/detail responses
	Participants []User   `json:"participants,omitempty"`
	LastMessage  *Message `json:"last_message,omitempty"`
	UnreadCount  int      `json:"unread_count"`
}

// HasParticipant reports whether userID is in the participant set.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasAdmin reports whether userID is in the admin set.
func (c *Conversation) HasAdmin(userID uuid.UUID) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
