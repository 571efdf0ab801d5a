package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// WebSocket message types
const (
	MessageTypePing               = "ping"
	MessageTypePong               = "pong"
	MessageTypeJoinConversation   = "join_conversation"
	MessageTypeLeaveConversation  = "leave_conversation"
	MessageTypeTyping             = "typing"
	MessageTypeNewMessage         = "new_message"
	MessageTypeConversationUpdate = "conversation_update"
	MessageTypeNotification       = "notification"
	MessageTypeError              = "error"
)

// WSMessage is the frame exchanged with clients
type WSMessage struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Data           interface{} `json:"data,omitempty"`
	Timestamp      string      `json:"timestamp"`
}

type TypingData struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Typing         bool   `json:"typing"`
}

// HandleClientMessage processes an incoming frame from a connected client
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage
	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		log.Printf("WebSocket: Invalid message from %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.sendToClient(client, WSMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().Format(time.RFC3339),
		})

	case MessageTypeJoinConversation:
		if wsMessage.ConversationID == "" {
			m.sendErrorToClient(client, "Missing conversation_id")
			return
		}
		m.JoinRoom(wsMessage.ConversationID, client.UserID)
		client.ActiveRoom = wsMessage.ConversationID
		log.Printf("WebSocket: Client %s joined conversation %s", client.UserID, wsMessage.ConversationID)

	case MessageTypeLeaveConversation:
		if wsMessage.ConversationID == "" {
			m.sendErrorToClient(client, "Missing conversation_id")
			return
		}
		m.LeaveRoom(wsMessage.ConversationID, client.UserID)
		if client.ActiveRoom == wsMessage.ConversationID {
			client.ActiveRoom = ""
		}
		log.Printf("WebSocket: Client %s left conversation %s", client.UserID, wsMessage.ConversationID)

	case MessageTypeTyping:
		if wsMessage.ConversationID == "" {
			return
		}
		typing := WSMessage{
			Type:           MessageTypeTyping,
			ConversationID: wsMessage.ConversationID,
			Data: TypingData{
				ConversationID: wsMessage.ConversationID,
				UserID:         client.UserID,
				Typing:         true,
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		payload, _ := json.Marshal(typing)
		m.SendToRoom(wsMessage.ConversationID, payload, client.UserID)

	default:
		log.Printf("WebSocket: Unknown message type %q from %s", wsMessage.Type, client.UserID)
	}
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal message for %s: %v", client.UserID, err)
		return
	}
	m.SendToUser(client.UserID, payload)
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypeError,
		Data:      map[string]string{"message": errorMsg},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
