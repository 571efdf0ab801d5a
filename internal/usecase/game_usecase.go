package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type GameUseCase struct {
	gameRepo repository.GameRepository
}

func NewGameUseCase(gameRepo repository.GameRepository) *GameUseCase {
	return &GameUseCase{
		gameRepo: gameRepo,
	}
}

type GameInput struct {
	Title         string
	Description   string
	Genre         string
	Platforms     []string
	Price         float64
	DiscountPrice float64
	CoverURL      string
	Screenshots   []string
	Status        string
}

type ListGamesInput struct {
	Genre    string
	Platform string
	Featured *bool
	Status   string
	Limit    int
	Offset   int
}

func (uc *GameUseCase) CreateGame(ctx context.Context, input GameInput) (*entity.Game, error) {
	slug := strings.ToLower(strings.ReplaceAll(input.Title, " ", "-"))

	existing, err := uc.gameRepo.GetBySlug(ctx, slug)
	if err == nil && existing != nil {
		return nil, errors.BadRequest("A game with this title already exists", nil)
	}

	if input.Status == "" {
		input.Status = "active"
	}

	game := &entity.Game{
		Title:         input.Title,
		Slug:          slug,
		Description:   input.Description,
		Genre:         input.Genre,
		Platforms:     input.Platforms,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		CoverURL:      input.CoverURL,
		Screenshots:   input.Screenshots,
		Status:        input.Status,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := uc.gameRepo.Create(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (uc *GameUseCase) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := uc.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// View counter is a lone increment; losing one is fine
	if err := uc.gameRepo.IncrementViews(ctx, id); err != nil {
		log.Printf("GetGameByID: Failed to increment views for game %s: %v", id, err)
	}

	return game, nil
}

func (uc *GameUseCase) GetGameBySlug(ctx context.Context, slug string) (*entity.Game, error) {
	game, err := uc.gameRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := uc.gameRepo.IncrementViews(ctx, game.ID); err != nil {
		log.Printf("GetGameBySlug: Failed to increment views for game %s: %v", game.ID, err)
	}

	return game, nil
}

func (uc *GameUseCase) ListGames(ctx context.Context, input ListGamesInput) ([]*entity.Game, int64, error) {
	filter := make(map[string]interface{})

	if input.Status == "" {
		input.Status = "active"
	}
	filter["status"] = input.Status

	if input.Genre != "" {
		filter["genre"] = input.Genre
	}
	if input.Platform != "" {
		filter["platform"] = input.Platform
	}
	if input.Featured != nil {
		filter["featured"] = *input.Featured
	}

	return uc.gameRepo.List(ctx, filter, input.Limit, input.Offset)
}

func (uc *GameUseCase) UpdateGame(ctx context.Context, id string, input GameInput) (*entity.Game, error) {
	game, err := uc.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	game.Title = input.Title
	game.Description = input.Description
	game.Genre = input.Genre
	game.Platforms = input.Platforms
	game.Price = input.Price
	game.DiscountPrice = input.DiscountPrice
	if input.CoverURL != "" {
		game.CoverURL = input.CoverURL
	}
	if input.Screenshots != nil {
		game.Screenshots = input.Screenshots
	}
	if input.Status != "" {
		game.Status = input.Status
	}
	game.UpdatedAt = time.Now()

	if err := uc.gameRepo.Update(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (uc *GameUseCase) SetFeatured(ctx context.Context, id string, featured bool) (*entity.Game, error) {
	game, err := uc.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	game.Featured = featured
	if err := uc.gameRepo.Update(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (uc *GameUseCase) DeleteGame(ctx context.Context, id string) error {
	if _, err := uc.gameRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.gameRepo.Delete(ctx, id)
}
