package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/google/uuid"
)

// Leaderboard ranks players by the number of levels they completed.
type Leaderboard interface {
	Record(ctx context.Context, playerID uuid.UUID, completed int) error
	Top(ctx context.Context, amount int64) ([]dmn.Standing, error)
}
