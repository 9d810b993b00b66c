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
	ErrUserNotFound = fmt.Errorf("user %w", i.ErrNotFound)
)

// UserRepo handles the persistence of registered players.
type UserRepo struct {
	collection *mongo.Collection
}

var _ i.UserRepo = &UserRepo{}

// NewUserRepo creates a new UserRepo with the given MongoDB client, database name, and collection name.
func NewUserRepo(client *mongo.Client, dbName, collectionName string) *UserRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &UserRepo{
		collection: collection,
	}
}

// EnsureIndexes makes usernames unique, so a second registration of the
// same name fails on Save.
func (u *UserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := u.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating username index: %w", err)
	}
	return nil
}

// Save inserts or updates a user in the repository.
// Returns i.ErrUsernameTaken when another user holds the username.
func (u *UserRepo) Save(ctx context.Context, user *dmn.User) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": user.ID}
	update := bson.M{
		"$set": bson.M{
			"username":     user.Username,
			"passwordHash": user.PasswordHash,
			"updatedAt":    time.Now().UTC(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := u.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return i.ErrUsernameTaken
		}
		return fmt.Errorf("saving user %s: %w", user.ID, err)
	}
	return nil
}

// ByID retrieves a user by their ID.
func (u *UserRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

// ByUsername retrieves a user by their username.
func (u *UserRepo) ByUsername(ctx context.Context, username string) (*dmn.User, error) {
	return u.findOne(ctx, bson.M{"username": username})
}

func (u *UserRepo) findOne(ctx context.Context, filter bson.M) (*dmn.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var user dmn.User
	if err := u.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &user, nil
}
