package domain

import "github.com/google/uuid"

// Standing is a player's place on the leaderboard.
type Standing struct {
	Rank      int       `json:"rank"`      // 1 for the best player
	PlayerID  uuid.UUID `json:"player_id"` // Ranked player
	Completed int       `json:"completed"` // Levels won
}
