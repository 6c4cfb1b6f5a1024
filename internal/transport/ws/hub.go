package ws

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/domain"
)

// Hub tracks connected clients and their conversation rooms. Room
// membership lives in process memory only; clients rejoin after a restart.
type Hub struct {
	// clients maps userID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
}

type broadcastMsg struct {
	// roomID routes to a conversation room; global messages leave it nil.
	roomID    *uuid.UUID
	data      []byte
	excludeID *uuid.UUID // optional: skip this user (e.g. sender)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.userID] = client
			log.Printf("ws hub: user %s connected (%d total)", client.userID, len(h.clients))

			h.broadcastStatus(client.userID, domain.StatusOnline)

		case client := <-h.unregister:
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
				close(client.done)
				log.Printf("ws hub: user %s disconnected (%d total)", client.userID, len(h.clients))

				h.broadcastStatus(client.userID, domain.StatusOffline)
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if msg.excludeID != nil && client.userID == *msg.excludeID {
					continue
				}
				if msg.roomID != nil && !client.InRoom(*msg.roomID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client.userID)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToRoom sends an event to every client joined to a conversation
// room, optionally skipping one user. Delivery is best effort: nothing is
// persisted and nothing is acknowledged.
func (h *Hub) BroadcastToRoom(conversationID uuid.UUID, event *Event, excludeUserID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	roomID := conversationID
	h.broadcast <- &broadcastMsg{
		roomID:    &roomID,
		data:      data,
		excludeID: excludeUserID,
	}
}

// BroadcastGlobal sends an event to every connected client except the
// excluded user.
func (h *Hub) BroadcastGlobal(event *Event, excludeUserID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{
		data:      data,
		excludeID: excludeUserID,
	}
}

// broadcastStatus announces a presence change to all connected clients.
func (h *Hub) broadcastStatus(userID uuid.UUID, status string) {
	evt, err := NewEvent(EventUserStatusChange, StatusBroadcast{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, client := range h.clients {
		if client.userID == userID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}
