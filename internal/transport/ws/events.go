package ws

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event names - client → server
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventTyping            = "typing"
	EventStatusChange      = "status_change"
)

// Event names - server → client
const (
	EventMessage          = "message"
	EventUserStatusChange = "user_status_change"
	EventError            = "error"
)

// Event is the envelope for all WebSocket traffic.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// --- client → server payloads ---

type ConversationPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
}

type TypingPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	IsTyping       bool      `json:"is_typing"`
}

type StatusChangePayload struct {
	Status string `json:"status"`
}

// --- server → client payloads ---

type TypingBroadcast struct {
	UserID         uuid.UUID `json:"user_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	IsTyping       bool      `json:"is_typing"`
}

type StatusBroadcast struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent wraps a payload in the event envelope.
func NewEvent(name string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{Event: name, Data: data}, nil
}
