package handler

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/domain/entity"
	"playverse/internal/usecase"
	"playverse/pkg/response"
	"playverse/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createConversationRequest struct {
	RecipientID    string `json:"recipient_id" validate:"required"`
	InitialMessage string `json:"initial_message"`
}

type sendMessageRequest struct {
	Content     string              `json:"content"`
	Attachments []entity.Attachment `json:"attachments"`
}

func (h *ChatHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.CreateConversation(c.Request().Context(), userID, usecase.CreateConversationInput{
		RecipientID:    req.RecipientID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conversation)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	conversations, total, err := h.chatUseCase.ListConversations(c.Request().Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, conversations, total, params.PageSize, params.Offset)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.GetConversation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, conversation, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, c.Param("id"), usecase.SendMessageInput{
		Content:     req.Content,
		Attachments: req.Attachments,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"message":      message,
		"conversation": conversation,
	})
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.ListMessages(c.Request().Context(), userID, c.Param("id"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, messages, total, params.PageSize, params.Offset)
}

func (h *ChatHandler) MarkConversationRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkConversationRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Conversation marked as read"})
}

// UnreadCount backs the chat tab badge
func (h *ChatHandler) UnreadCount(c echo.Context) error {
	userID := c.Get("uid").(string)

	total, err := h.chatUseCase.TotalUnread(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"unread": total})
}
