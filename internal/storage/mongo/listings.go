package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LiteBots/zacharska/internal/models"
	"github.com/LiteBots/zacharska/internal/normalize"
	"github.com/LiteBots/zacharska/internal/storage"
)

// ListListings возвращает все объявления: created_at DESC, _id DESC.
func (m *Mongo) ListListings(ctx context.Context) ([]models.Listing, error) {
	const op = "storage/mongo/ListListings"

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.listings.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Listing, 0)
	for cur.Next(ctx) {
		var listing models.Listing
		if err := cur.Decode(&listing); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, listing)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// ListingByID возвращает объявление по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (m *Mongo) ListingByID(ctx context.Context, id string) (*models.Listing, error) {
	const op = "storage/mongo/ListingByID"

	var out models.Listing
	if err := m.listings.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// InsertListing вставляет уже нормализованную запись.
// Дубликат _id — storage.ErrConflict (при UUID практически недостижимо).
func (m *Mongo) InsertListing(ctx context.Context, listing models.Listing) (*models.Listing, error) {
	const op = "storage/mongo/InsertListing"

	if _, err := m.listings.InsertOne(ctx, listing); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	return &listing, nil
}

// UpdateListing читает текущую запись, накладывает patch и сохраняет
// результат повторной нормализации. Идентификатор и created_at закрепляются
// слиянием. Если запись не найдена (в том числе удалена между чтением и
// записью) — storage.ErrNotFound.
func (m *Mongo) UpdateListing(ctx context.Context, id string, patch map[string]any) (*models.Listing, error) {
	const op = "storage/mongo/UpdateListing"

	var current models.Listing
	if err := m.listings.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&current); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: find: %w", op, err)
	}

	merged := normalize.Merge(current, patch)
	updated, err := normalize.Listing(merged, true, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := m.listings.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, updated)
	if err != nil {
		return nil, fmt.Errorf("%s: replace: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &updated, nil
}

// DeleteListing удаляет запись окончательно.
// Если запись не найдена — storage.ErrNotFound.
func (m *Mongo) DeleteListing(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteListing"

	res, err := m.listings.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
