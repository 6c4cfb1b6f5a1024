package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/lallen30/skype-clone/internal/domain"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client is a single websocket connection owned by an authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	// rooms holds the conversation IDs this client has joined.
	roomsMu sync.RWMutex
	rooms   map[uuid.UUID]struct{}

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		rooms:  make(map[uuid.UUID]struct{}),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// InRoom reports whether the client has joined the given conversation room.
func (c *Client) InRoom(conversationID uuid.UUID) bool {
	c.roomsMu.RLock()
	defer c.roomsMu.RUnlock()
	_, ok := c.rooms[conversationID]
	return ok
}

func (c *Client) joinRoom(conversationID uuid.UUID) {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()
	c.rooms[conversationID] = struct{}{}
}

func (c *Client) leaveRoom(conversationID uuid.UUID) {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()
	delete(c.rooms, conversationID)
}

// ReadPump reads events from the websocket and dispatches them until the
// connection drops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var evt Event
		if err := wsjson.Read(ctx, c.conn, &evt); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.Printf("ws client %s: read error: %v", c.userID, err)
			}
			return
		}
		c.handleEvent(&evt)
	}
}

// WritePump drains the send channel onto the websocket and pings on an
// interval to keep the connection alive.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-c.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleEvent(evt *Event) {
	switch evt.Event {
	case EventJoinConversation:
		var p ConversationPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || p.ConversationID == uuid.Nil {
			c.sendError("invalid_payload", "join_conversation requires conversation_id")
			return
		}
		c.joinRoom(p.ConversationID)

	case EventLeaveConversation:
		var p ConversationPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || p.ConversationID == uuid.Nil {
			c.sendError("invalid_payload", "leave_conversation requires conversation_id")
			return
		}
		c.leaveRoom(p.ConversationID)

	case EventSendMessage:
		c.handleSendMessage(evt.Data)

	case EventTyping:
		var p TypingPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || p.ConversationID == uuid.Nil {
			c.sendError("invalid_payload", "typing requires conversation_id")
			return
		}
		out, err := NewEvent(EventTyping, TypingBroadcast{
			UserID:         c.userID,
			ConversationID: p.ConversationID,
			IsTyping:       p.IsTyping,
		})
		if err != nil {
			return
		}
		c.hub.BroadcastToRoom(p.ConversationID, out, &c.userID)

	case EventStatusChange:
		var p StatusChangePayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || !domain.ValidStatus(p.Status) {
			c.sendError("invalid_payload", "status_change requires a valid status")
			return
		}
		out, err := NewEvent(EventUserStatusChange, StatusBroadcast{
			UserID: c.userID,
			Status: p.Status,
		})
		if err != nil {
			return
		}
		c.hub.BroadcastGlobal(out, &c.userID)

	default:
		c.sendError("unknown_event", "unknown event: "+evt.Event)
	}
}

// handleSendMessage relays a chat payload to the conversation room. The
// payload is passed through as-is with sender and timestamp attached;
// persistence happens over the REST API, not here.
func (c *Client) handleSendMessage(data json.RawMessage) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("invalid_payload", "send_message requires a JSON object")
		return
	}
	rawID, _ := payload["conversation_id"].(string)
	conversationID, err := uuid.Parse(rawID)
	if err != nil {
		c.sendError("invalid_payload", "send_message requires conversation_id")
		return
	}

	payload["sender_id"] = c.userID
	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	out, err := NewEvent(EventMessage, payload)
	if err != nil {
		return
	}
	// The sender gets the echo too so all room members see the same stream.
	c.hub.BroadcastToRoom(conversationID, out, nil)
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
