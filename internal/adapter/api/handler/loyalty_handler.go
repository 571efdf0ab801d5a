package handler

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/usecase"
	"playverse/pkg/response"
	"playverse/pkg/utils"
)

type LoyaltyHandler struct {
	loyaltyUseCase *usecase.LoyaltyUseCase
}

func NewLoyaltyHandler(loyaltyUseCase *usecase.LoyaltyUseCase) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyUseCase: loyaltyUseCase,
	}
}

type redeemCouponRequest struct {
	Points int `json:"points" validate:"required,gt=0"`
}

type useCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type grantPointsRequest struct {
	Points int `json:"points" validate:"required,gt=0"`
}

func (h *LoyaltyHandler) GetBalance(c echo.Context) error {
	userID := c.Get("uid").(string)

	balance, err := h.loyaltyUseCase.GetBalance(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, balance)
}

func (h *LoyaltyHandler) RedeemCoupon(c echo.Context) error {
	var req redeemCouponRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	coupon, err := h.loyaltyUseCase.RedeemCoupon(c.Request().Context(), userID, req.Points)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, coupon)
}

func (h *LoyaltyHandler) ListCoupons(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	coupons, total, err := h.loyaltyUseCase.ListCoupons(c.Request().Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, coupons, total, params.PageSize, params.Offset)
}

func (h *LoyaltyHandler) UseCoupon(c echo.Context) error {
	var req useCouponRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	coupon, err := h.loyaltyUseCase.UseCoupon(c.Request().Context(), userID, req.Code)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, coupon)
}

// GrantPoints credits a user's balance, admin only
func (h *LoyaltyHandler) GrantPoints(c echo.Context) error {
	var req grantPointsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.loyaltyUseCase.GrantPoints(c.Request().Context(), c.Param("id"), req.Points)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
