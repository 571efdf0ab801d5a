package handler

import (
	"context"
	"log"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"playverse/internal/domain/repository"
	"playverse/internal/infrastructure/cache"
	ws "playverse/internal/infrastructure/websocket"
	"playverse/pkg/errors"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	presence  *cache.PresenceCache
	userRepo  repository.UserRepository
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the storefront origin before exposing publicly
	},
}

var webSocketHandler *WebSocketHandler

func NewWebSocketHandler(wsManager *ws.Manager, presence *cache.PresenceCache, userRepo repository.UserRepository) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		presence:  presence,
		userRepo:  userRepo,
	}
}

func SetupWebSocketHandler(wsManager *ws.Manager, presence *cache.PresenceCache, userRepo repository.UserRepository) {
	webSocketHandler = NewWebSocketHandler(wsManager, presence, userRepo)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Done:   make(chan struct{}),
	}

	h.wsManager.Register <- client
	h.markOnline(userID)

	go func() {
		client.ReadPump(h.wsManager)
		// Wait for the manager to finish unregistering so IsConnected
		// reflects this disconnect before the offline check runs
		<-client.Done
		h.markOffline(userID)
	}()
	go client.WritePump()

	return nil
}

func (h *WebSocketHandler) markOnline(userID string) {
	ctx := context.Background()
	if err := h.presence.SetUserOnline(ctx, userID); err != nil {
		log.Printf("WebSocket: Failed to mark %s online in cache: %v", userID, err)
	}
	if err := h.userRepo.UpdateOnlineStatus(ctx, userID, "online"); err != nil {
		log.Printf("WebSocket: Failed to persist online status for %s: %v", userID, err)
	}
}

func (h *WebSocketHandler) markOffline(userID string) {
	ctx := context.Background()

	// Another tab may still be connected
	if h.wsManager.IsConnected(userID) {
		return
	}

	if err := h.presence.SetUserOffline(ctx, userID); err != nil {
		log.Printf("WebSocket: Failed to mark %s offline in cache: %v", userID, err)
	}
	if err := h.userRepo.UpdateOnlineStatus(ctx, userID, "offline"); err != nil {
		log.Printf("WebSocket: Failed to persist offline status for %s: %v", userID, err)
	}
}
