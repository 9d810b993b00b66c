package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "c0rridor-Lantern-Fog!"

func TestNewUser(t *testing.T) {
	t.Run("Hashes the password", func(t *testing.T) {
		id := uuid.New()
		user, err := NewUser(UserConfig{ID: id, Username: "maze_runner", PlainPassword: strongPassword})
		require.NoError(t, err)

		assert.Equal(t, id, user.ID)
		assert.Equal(t, "maze_runner", user.Username)
		assert.NotEqual(t, strongPassword, user.PasswordHash)
		assert.True(t, user.VerifyPassword(strongPassword))
		assert.False(t, user.VerifyPassword("c0rridor-Lantern-Fog?"))
	})

	t.Run("Generates a missing id", func(t *testing.T) {
		user, err := NewUser(UserConfig{Username: "runner", PlainPassword: strongPassword})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
	})

	t.Run("Username rules", func(t *testing.T) {
		cases := map[string]error{
			"ab":                    ErrUsernameTooShort,
			strings.Repeat("a", 21): ErrUsernameTooLong,
			"maze runner":           ErrInvalidUsername,
			"runner!":               ErrInvalidUsername,
		}
		for username, want := range cases {
			_, err := NewUser(UserConfig{Username: username, PlainPassword: strongPassword})
			assert.ErrorIs(t, err, want, username)
		}
	})

	t.Run("Weak passwords are refused", func(t *testing.T) {
		for _, password := range []string{"", "password", "123456", "maze"} {
			_, err := NewUser(UserConfig{Username: "runner", PlainPassword: password})
			assert.ErrorIs(t, err, ErrWeakPassword, password)
		}
	})
}
