package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/maze"
	"github.com/google/uuid"
)

// CampaignService runs campaign sessions on behalf of the API.
type CampaignService interface {
	// Start opens a session and returns its state with a bearer token for it.
	// A nil seed picks one from the clock. In campaign mode level zero
	// continues the player's saved progress and locked levels are refused;
	// quick mode plays any level without touching progress.
	Start(ctx context.Context, playerID uuid.UUID, mode game.Mode, level int, seed *int64) (game.State, string, error)

	// State returns the current snapshot of a session.
	State(ctx context.Context, id uuid.UUID) (game.State, error)

	// Tick reports the player position.
	Tick(ctx context.Context, id uuid.UUID, x, y float64) (game.State, error)

	// Move walks the player by (dx, dy), sliding along walls.
	Move(ctx context.Context, id uuid.UUID, dx, dy, radius float64) (game.State, error)

	// Focus returns what the camera should frame.
	Focus(ctx context.Context, id uuid.UUID) (maze.Focus, error)

	// Cells returns the cells visible through the viewport.
	Cells(ctx context.Context, id uuid.UUID, v maze.Viewport) ([]maze.VisibleCell, error)

	// Reset restarts the current maze from the start cell with fresh fog.
	Reset(ctx context.Context, id uuid.UUID) (game.State, error)

	// Advance moves a won session on to the next level.
	Advance(ctx context.Context, id uuid.UUID, seed *int64) (game.State, error)

	// Reseed replaces the maze with another one of the same level.
	Reseed(ctx context.Context, id uuid.UUID, seed *int64) (game.State, error)

	// End closes a session.
	End(ctx context.Context, id uuid.UUID) error

	// Leaderboard lists the best players.
	Leaderboard(ctx context.Context, amount int64) ([]dmn.Standing, error)
}
