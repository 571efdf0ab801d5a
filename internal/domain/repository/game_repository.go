package repository

import (
	"context"
	"playverse/internal/domain/entity"
)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Game, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Game, int64, error)
	Update(ctx context.Context, game *entity.Game) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
