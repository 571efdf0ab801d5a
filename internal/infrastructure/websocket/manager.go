package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID     string
	Conn       *websocket.Conn
	Send       chan []byte
	Done       chan struct{}
	ActiveRoom string
	closeOnce  sync.Once
}

// closeSend closes the outbound channel exactly once, no matter how many
// paths (slow-consumer drop, read-pump exit) unregister the same client.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
		if c.Done != nil {
			close(c.Done)
		}
	})
}

// Manager manages all active WebSocket connections and conversation rooms
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]bool // conversationID -> set of userIDs
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				// Only evict if this exact client still owns the slot; a
				// reconnect may already have replaced it.
				if existing, ok := m.clients[client.UserID]; ok && existing == client {
					delete(m.clients, client.UserID)
					for roomID, members := range m.rooms {
						delete(members, client.UserID)
						if len(members) == 0 {
							delete(m.rooms, roomID)
						}
					}
				}
				client.closeSend()
				m.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// IsConnected reports whether the user has an active connection
func (m *Manager) IsConnected(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// SendToUser sends a message to a specific user. Slow consumers are dropped
// rather than blocking the caller.
func (m *Manager) SendToUser(userID string, message []byte) {
	// Send while still holding the read lock: closeSend only runs inside the
	// manager loop under the write lock, so the channel cannot close mid-send.
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("Dropping slow WebSocket client: %s", userID)
		go func() { m.Unregister <- client }()
	}
}

// SendToRoom broadcasts to every member of a conversation room except
// excludeUserID (pass "" to include everyone)
func (m *Manager) SendToRoom(roomID string, message []byte, excludeUserID string) {
	m.mutex.RLock()
	members := make([]string, 0, len(m.rooms[roomID]))
	for userID := range m.rooms[roomID] {
		if userID != excludeUserID {
			members = append(members, userID)
		}
	}
	m.mutex.RUnlock()

	for _, userID := range members {
		m.SendToUser(userID, message)
	}
}

// JoinRoom subscribes the client to a conversation's live feed
func (m *Manager) JoinRoom(roomID, userID string) {
	m.mutex.Lock()
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[string]bool)
	}
	m.rooms[roomID][userID] = true
	m.mutex.Unlock()
}

// LeaveRoom unsubscribes the client from a conversation's live feed
func (m *Manager) LeaveRoom(roomID, userID string) {
	m.mutex.Lock()
	if members, ok := m.rooms[roomID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, roomID)
		}
	}
	m.mutex.Unlock()
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
