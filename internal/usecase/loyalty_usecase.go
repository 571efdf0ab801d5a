package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

// couponTiers maps a redeemable point cost to the discount it buys
var couponTiers = map[int]int{
	100: 5,
	250: 15,
	500: 30,
}

const couponValidity = 30 * 24 * time.Hour

type LoyaltyUseCase struct {
	couponRepo repository.CouponRepository
	userRepo   repository.UserRepository
}

func NewLoyaltyUseCase(couponRepo repository.CouponRepository, userRepo repository.UserRepository) *LoyaltyUseCase {
	return &LoyaltyUseCase{
		couponRepo: couponRepo,
		userRepo:   userRepo,
	}
}

type LoyaltyBalance struct {
	Points int         `json:"points"`
	Tiers  map[int]int `json:"tiers"` // points cost -> discount percent
}

func (uc *LoyaltyUseCase) GetBalance(ctx context.Context, userID string) (*LoyaltyBalance, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &LoyaltyBalance{
		Points: user.FidelityPoints,
		Tiers:  couponTiers,
	}, nil
}

// RedeemCoupon burns points for a discount coupon. The deduction and the
// coupon row commit atomically; an insufficient balance changes nothing.
func (uc *LoyaltyUseCase) RedeemCoupon(ctx context.Context, userID string, pointsCost int) (*entity.Coupon, error) {
	discount, ok := couponTiers[pointsCost]
	if !ok {
		return nil, errors.BadRequest("No coupon tier for that point amount", nil)
	}

	code, err := generateCouponCode()
	if err != nil {
		return nil, errors.Internal("Failed to generate coupon code", err)
	}

	now := time.Now()
	coupon := &entity.Coupon{
		UserID:          userID,
		Code:            code,
		DiscountPercent: discount,
		PointsSpent:     pointsCost,
		Status:          "active",
		CreatedAt:       now,
		ExpiresAt:       now.Add(couponValidity),
	}

	if err := uc.couponRepo.Redeem(ctx, userID, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (uc *LoyaltyUseCase) ListCoupons(ctx context.Context, userID string, limit, offset int) ([]*entity.Coupon, int64, error) {
	coupons, total, err := uc.couponRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// Expiry is lazily materialized on read
	now := time.Now()
	for _, coupon := range coupons {
		if coupon.Status == "active" && now.After(coupon.ExpiresAt) {
			coupon.Status = "expired"
			if err := uc.couponRepo.Update(ctx, coupon); err != nil {
				return nil, 0, err
			}
		}
	}

	return coupons, total, nil
}

// UseCoupon marks an active coupon as spent, e.g. at checkout.
func (uc *LoyaltyUseCase) UseCoupon(ctx context.Context, userID, code string) (*entity.Coupon, error) {
	coupon, err := uc.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon.UserID != userID {
		return nil, errors.Forbidden("This coupon belongs to another user", nil)
	}
	if coupon.Status != "active" {
		return nil, errors.BadRequest("Coupon is not active", nil)
	}
	if time.Now().After(coupon.ExpiresAt) {
		coupon.Status = "expired"
		if err := uc.couponRepo.Update(ctx, coupon); err != nil {
			return nil, err
		}
		return nil, errors.BadRequest("Coupon has expired", nil)
	}

	now := time.Now()
	coupon.Status = "used"
	coupon.UsedAt = &now
	if err := uc.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

// GrantPoints credits a user's balance, admin only at the handler level.
func (uc *LoyaltyUseCase) GrantPoints(ctx context.Context, userID string, points int) (*entity.User, error) {
	if points <= 0 {
		return nil, errors.BadRequest("Points must be positive", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := uc.userRepo.AddFidelityPoints(ctx, userID, points); err != nil {
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, userID)
}

const couponCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCouponCode() (string, error) {
	buf := make([]byte, 10)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(couponCodeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = couponCodeAlphabet[n.Int64()]
	}
	return fmt.Sprintf("PV-%s", string(buf)), nil
}
