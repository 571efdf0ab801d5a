package handler

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/usecase"
	"playverse/pkg/response"
	"playverse/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Username  string `json:"username" validate:"omitempty,min=3"`
	Bio       string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active banned"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// ListUsers is the admin back-office user listing
func (h *UserHandler) ListUsers(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListUsers(
		c.Request().Context(),
		c.QueryParam("role"),
		c.QueryParam("status"),
		params.PageSize,
		params.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, users, total, params.PageSize, params.Offset)
}

// SetUserStatus bans or reinstates a user, admin only
func (h *UserHandler) SetUserStatus(c echo.Context) error {
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.SetUserStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
