package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProgressNotFound = fmt.Errorf("progress %w", i.ErrNotFound)
)

// ProgressRepo handles the persistence of campaign progress.
type ProgressRepo struct {
	collection *mongo.Collection
}

var _ i.ProgressRepo = &ProgressRepo{}

// NewProgressRepo creates a new ProgressRepo with the given MongoDB client, database name, and collection name.
func NewProgressRepo(client *mongo.Client, dbName, collectionName string) *ProgressRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &ProgressRepo{
		collection: collection,
	}
}

// Save inserts or updates the progress of a player.
func (r *ProgressRepo) Save(ctx context.Context, progress *dmn.Progress) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": progress.PlayerID}
	update := bson.M{
		"$set": bson.M{
			"level":        progress.Level,
			"seed":         progress.Seed,
			"highestLevel": progress.HighestLevel,
			"maxLevel":     progress.MaxLevel,
			"completed":    progress.Completed,
			"updatedAt":    time.Now().UTC(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("saving progress of %s: %w", progress.PlayerID, err)
	}
	return nil
}

// ByPlayer retrieves the progress of a player.
// Returns ErrProgressNotFound when the player never started a campaign.
func (r *ProgressRepo) ByPlayer(ctx context.Context, playerID uuid.UUID) (*dmn.Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": playerID}
	var progress dmn.Progress
	if err := r.collection.FindOne(ctx, filter).Decode(&progress); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("loading progress of %s: %w", playerID, err)
	}
	return &progress, nil
}

// Delete removes the progress of a player. Deleting a missing record is not
// an error.
func (r *ProgressRepo) Delete(ctx context.Context, playerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": playerID}); err != nil {
		return fmt.Errorf("deleting progress of %s: %w", playerID, err)
	}
	return nil
}
