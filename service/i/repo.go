package i

import (
	"context"
	"errors"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/google/uuid"
)

// ErrNotFound is wrapped by storage errors for records that do not exist.
var ErrNotFound = errors.New("not found")

// ProgressRepo defines the interface for campaign progress persistence.
type ProgressRepo interface {
	// Save inserts or updates the progress of a player.
	Save(ctx context.Context, progress *dmn.Progress) error

	// ByPlayer retrieves the progress of a player.
	// Returns an error wrapping ErrNotFound when the player has none.
	ByPlayer(ctx context.Context, playerID uuid.UUID) (*dmn.Progress, error)

	// Delete removes the progress of a player.
	Delete(ctx context.Context, playerID uuid.UUID) error
}
