package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/service/i"
)

const playerTokenTTL = 24 * time.Hour

var ErrBadCredentials = errors.New("invalid username or password")

// Auth registers players and hands out the player tokens that open
// campaign sessions.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
	logger    i.Logger
}

var _ i.Authenticator = &Auth{}

// NewAuth creates an Auth on the given user repository and tokenizer.
func NewAuth(userRepo i.UserRepo, tokenizer i.Tokenizer, logger i.Logger) (*Auth, error) {
	if userRepo == nil || tokenizer == nil || logger == nil {
		return nil, ErrMissingDependency
	}
	return &Auth{
		userRepo:  userRepo,
		tokenizer: tokenizer,
		logger:    logger,
	}, nil
}

// Register creates a user with a fresh id.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	user, err := dmn.NewUser(dmn.UserConfig{
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return err
	}

	if _, err := a.userRepo.ByUsername(ctx, username); err == nil {
		return i.ErrUsernameTaken
	} else if !errors.Is(err, i.ErrNotFound) {
		return fmt.Errorf("registering %s: %w", username, err)
	}

	if err := a.userRepo.Save(ctx, user); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("registered player %s", user.ID))
	return nil
}

// SignIn checks the password and issues a token with the player_id claim.
func (a *Auth) SignIn(ctx context.Context, username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, i.ErrNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", fmt.Errorf("signing in %s: %w", username, err)
	}

	if !user.VerifyPassword(password) {
		return nil, "", ErrBadCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"player_id": user.ID.String(),
		"username":  user.Username,
	}, playerTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return user, token, nil
}
