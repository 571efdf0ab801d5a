package handler

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/usecase"
	"playverse/pkg/response"
	"playverse/pkg/utils"
)

type ForumHandler struct {
	forumUseCase *usecase.ForumUseCase
}

func NewForumHandler(forumUseCase *usecase.ForumUseCase) *ForumHandler {
	return &ForumHandler{
		forumUseCase: forumUseCase,
	}
}

type topicRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	MediaURL    string `json:"media_url" validate:"omitempty,url"`
}

type postRequest struct {
	Content       string `json:"content" validate:"required,min=1"`
	ReplyToPostID string `json:"reply_to_post_id"`
}

func (h *ForumHandler) CreateTopic(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	topic, err := h.forumUseCase.CreateTopic(c.Request().Context(), userID, usecase.CreateTopicInput{
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, topic)
}

func (h *ForumHandler) ListTopics(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	topics, total, err := h.forumUseCase.ListTopics(c.Request().Context(), c.QueryParam("sort"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, topics, total, params.PageSize, params.Offset)
}

func (h *ForumHandler) GetTopic(c echo.Context) error {
	topic, err := h.forumUseCase.GetTopic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, topic)
}

func (h *ForumHandler) UpdateTopic(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	topic, err := h.forumUseCase.UpdateTopic(c.Request().Context(), userID, c.Param("id"), usecase.CreateTopicInput{
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, topic)
}

func (h *ForumHandler) DeleteTopic(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.forumUseCase.DeleteTopic(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Topic deleted"})
}

func (h *ForumHandler) CreatePost(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	post, err := h.forumUseCase.CreatePost(c.Request().Context(), userID, c.Param("id"), usecase.CreatePostInput{
		Content:       req.Content,
		ReplyToPostID: req.ReplyToPostID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *ForumHandler) ListPosts(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	posts, total, err := h.forumUseCase.ListPosts(c.Request().Context(), c.Param("id"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, posts, total, params.PageSize, params.Offset)
}
