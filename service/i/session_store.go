package i

import (
	"context"

	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/google/uuid"
)

// SessionStore keeps campaign snapshots so a session survives a restart of
// the process holding it.
type SessionStore interface {
	// Save writes the snapshot, refreshing its expiry.
	Save(ctx context.Context, state game.State) error

	// Load reads a snapshot. Returns an error wrapping ErrNotFound when the
	// session is unknown or expired.
	Load(ctx context.Context, id uuid.UUID) (game.State, error)

	// Delete forgets a session.
	Delete(ctx context.Context, id uuid.UUID) error
}
