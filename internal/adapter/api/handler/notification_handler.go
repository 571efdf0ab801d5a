package handler

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/usecase"
	"playverse/pkg/response"
	"playverse/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	notifications, total, unread, err := h.notificationUseCase.ListNotifications(c.Request().Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"items":  notifications,
		"total":  total,
		"unread": unread,
	})
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID := c.Get("uid").(string)

	unread, err := h.notificationUseCase.CountUnread(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{"unread": unread})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.MarkRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	changed, err := h.notificationUseCase.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{"updated": changed})
}
