package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type firestoreCouponRepository struct {
	client *firestore.Client
}

func NewFirestoreCouponRepository(client *firestore.Client) repository.CouponRepository {
	return &firestoreCouponRepository{
		client: client,
	}
}

// Redeem deducts the points and writes the coupon in one transaction; an
// insufficient balance aborts before any write.
func (r *firestoreCouponRepository) Redeem(ctx context.Context, userID string, coupon *entity.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}

	userRef := r.client.Collection("users").Doc(userID)
	couponRef := r.client.Collection("coupons").Doc(coupon.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return err
		}

		if user.FidelityPoints < coupon.PointsSpent {
			return errors.BadRequest("Insufficient fidelity points", nil)
		}

		now := time.Now()
		coupon.UserID = userID
		coupon.CreatedAt = now

		if err := tx.Update(userRef, []firestore.Update{
			{Path: "fidelityPoints", Value: firestore.Increment(-coupon.PointsSpent)},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		return tx.Set(couponRef, coupon)
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "BAD_REQUEST") {
			return err
		}
		log.Printf("Firestore transaction failed redeeming coupon for user %s: %v", userID, err)
		return errors.Internal("Failed to redeem coupon", err)
	}

	return nil
}

func (r *firestoreCouponRepository) GetByID(ctx context.Context, id string) (*entity.Coupon, error) {
	doc, err := r.client.Collection("coupons").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Coupon", err)
		}
		return nil, errors.Internal("Failed to get coupon", err)
	}

	var coupon entity.Coupon
	if err := doc.DataTo(&coupon); err != nil {
		return nil, errors.Internal("Failed to parse coupon data", err)
	}

	return &coupon, nil
}

func (r *firestoreCouponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := r.client.Collection("coupons").Where("code", "==", code).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Coupon", nil)
		}
		return nil, errors.Internal("Failed to query coupon by code", err)
	}

	var coupon entity.Coupon
	if err := doc.DataTo(&coupon); err != nil {
		return nil, errors.Internal("Failed to parse coupon data", err)
	}

	return &coupon, nil
}

func (r *firestoreCouponRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Coupon, int64, error) {
	query := r.client.Collection("coupons").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count coupons", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var coupons []*entity.Coupon

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate coupons", err)
		}

		var coupon entity.Coupon
		if err := doc.DataTo(&coupon); err != nil {
			return nil, 0, errors.Internal("Failed to parse coupon data", err)
		}
		coupons = append(coupons, &coupon)
	}

	return coupons, total, nil
}

func (r *firestoreCouponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	_, err := r.client.Collection("coupons").Doc(coupon.ID).Set(ctx, coupon)
	if err != nil {
		return errors.Internal("Failed to update coupon", err)
	}

	return nil
}
