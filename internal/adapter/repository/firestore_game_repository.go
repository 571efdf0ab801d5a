package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type firestoreGameRepository struct {
	client *firestore.Client
}

func NewFirestoreGameRepository(client *firestore.Client) repository.GameRepository {
	return &firestoreGameRepository{
		client: client,
	}
}

func (r *firestoreGameRepository) Create(ctx context.Context, game *entity.Game) error {
	if game.ID == "" {
		doc := r.client.Collection("games").NewDoc()
		game.ID = doc.ID
	}

	now := time.Now()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = now
	}
	game.UpdatedAt = now

	_, err := r.client.Collection("games").Doc(game.ID).Set(ctx, game)
	if err != nil {
		return errors.Internal("Failed to create game", err)
	}

	return nil
}

func (r *firestoreGameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	doc, err := r.client.Collection("games").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Game", err)
		}
		return nil, errors.Internal("Failed to get game", err)
	}

	var game entity.Game
	if err := doc.DataTo(&game); err != nil {
		return nil, errors.Internal("Failed to parse game data", err)
	}

	return &game, nil
}

func (r *firestoreGameRepository) GetBySlug(ctx context.Context, slug string) (*entity.Game, error) {
	query := r.client.Collection("games").Where("slug", "==", slug).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Game", nil)
		}
		return nil, errors.Internal("Failed to query game by slug", err)
	}

	var game entity.Game
	if err := doc.DataTo(&game); err != nil {
		return nil, errors.Internal("Failed to parse game data", err)
	}

	return &game, nil
}

func (r *firestoreGameRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Game, int64, error) {
	query := r.client.Collection("games").OrderBy("createdAt", firestore.Desc)

	for key, value := range filter {
		if key == "platform" {
			query = query.Where("platforms", "array-contains", value)
			continue
		}
		query = query.Where(key, "==", value)
	}

	// Total count needs a full read; acceptable at catalog scale
	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count games", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var games []*entity.Game

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate games", err)
		}

		var game entity.Game
		if err := doc.DataTo(&game); err != nil {
			return nil, 0, errors.Internal("Failed to parse game data", err)
		}
		games = append(games, &game)
	}

	return games, total, nil
}

func (r *firestoreGameRepository) Update(ctx context.Context, game *entity.Game) error {
	game.UpdatedAt = time.Now()

	_, err := r.client.Collection("games").Doc(game.ID).Set(ctx, game)
	if err != nil {
		return errors.Internal("Failed to update game", err)
	}

	return nil
}

func (r *firestoreGameRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("games").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete game", err)
	}

	return nil
}

func (r *firestoreGameRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("games").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment game views", err)
	}

	return nil
}
