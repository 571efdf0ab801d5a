package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"playverse/internal/usecase"
	"playverse/pkg/response"
	"playverse/pkg/utils"
)

type GameHandler struct {
	gameUseCase *usecase.GameUseCase
}

func NewGameHandler(gameUseCase *usecase.GameUseCase) *GameHandler {
	return &GameHandler{
		gameUseCase: gameUseCase,
	}
}

type gameRequest struct {
	Title         string   `json:"title" validate:"required,min=1"`
	Description   string   `json:"description"`
	Genre         string   `json:"genre" validate:"required"`
	Platforms     []string `json:"platforms" validate:"required,min=1"`
	Price         float64  `json:"price" validate:"gte=0"`
	DiscountPrice float64  `json:"discount_price" validate:"gte=0"`
	CoverURL      string   `json:"cover_url" validate:"omitempty,url"`
	Screenshots   []string `json:"screenshots"`
	Status        string   `json:"status" validate:"omitempty,oneof=active hidden"`
}

type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

func (h *GameHandler) ListGames(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	input := usecase.ListGamesInput{
		Genre:    c.QueryParam("genre"),
		Platform: c.QueryParam("platform"),
		Status:   c.QueryParam("status"),
		Limit:    params.PageSize,
		Offset:   params.Offset,
	}
	if featuredStr := c.QueryParam("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err == nil {
			input.Featured = &featured
		}
	}

	games, total, err := h.gameUseCase.ListGames(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, games, total, params.PageSize, params.Offset)
}

func (h *GameHandler) GetGame(c echo.Context) error {
	game, err := h.gameUseCase.GetGameByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, game)
}

func (h *GameHandler) GetGameBySlug(c echo.Context) error {
	game, err := h.gameUseCase.GetGameBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, game)
}

func (h *GameHandler) CreateGame(c echo.Context) error {
	var req gameRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	game, err := h.gameUseCase.CreateGame(c.Request().Context(), usecase.GameInput{
		Title:         req.Title,
		Description:   req.Description,
		Genre:         req.Genre,
		Platforms:     req.Platforms,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CoverURL:      req.CoverURL,
		Screenshots:   req.Screenshots,
		Status:        req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, game)
}

func (h *GameHandler) UpdateGame(c echo.Context) error {
	var req gameRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	game, err := h.gameUseCase.UpdateGame(c.Request().Context(), c.Param("id"), usecase.GameInput{
		Title:         req.Title,
		Description:   req.Description,
		Genre:         req.Genre,
		Platforms:     req.Platforms,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CoverURL:      req.CoverURL,
		Screenshots:   req.Screenshots,
		Status:        req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, game)
}

func (h *GameHandler) SetFeatured(c echo.Context) error {
	var req setFeaturedRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	game, err := h.gameUseCase.SetFeatured(c.Request().Context(), c.Param("id"), req.Featured)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, game)
}

func (h *GameHandler) DeleteGame(c echo.Context) error {
	if err := h.gameUseCase.DeleteGame(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Game deleted"})
}
