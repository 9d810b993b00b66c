package i

import (
	"context"
	"errors"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/google/uuid"
)

// ErrUsernameTaken is returned when saving a user whose name is already used.
var ErrUsernameTaken = errors.New("username conflict")

// UserRepo defines the interface for registered player persistence.
type UserRepo interface {
	Save(ctx context.Context, user *dmn.User) error
	// ByID and ByUsername return an error wrapping ErrNotFound for unknown users.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.User, error)
	ByUsername(ctx context.Context, username string) (*dmn.User, error)
}

// Authenticator registers players and signs them in.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	// SignIn returns the user with a player token carrying its id.
	SignIn(ctx context.Context, username, password string) (*dmn.User, string, error)
}
