package repository

import (
	"context"
	"playverse/internal/domain/entity"
)

type CouponRepository interface {
	// Redeem deducts pointsSpent from the user's fidelity balance and creates
	// the coupon in one atomic write. Fails without side effects when the
	// balance is insufficient.
	Redeem(ctx context.Context, userID string, coupon *entity.Coupon) error

	GetByID(ctx context.Context, id string) (*entity.Coupon, error)
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Coupon, int64, error)
	Update(ctx context.Context, coupon *entity.Coupon) error
}
