// Package campaignapi provides the request and response shapes of the campaign API.
package campaignapi

import (
	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/maze"
)

// StartRequest opens a session. Level zero continues saved progress; quick
// play practices any level without touching it.
type StartRequest struct {
	Mode  string `json:"mode" binding:"omitempty,oneof=campaign quick"`
	Level int    `json:"level" binding:"min=0"`
	Seed  *int64 `json:"seed"`
}

// StartResponse carries the new session and the token that unlocks it.
type StartResponse struct {
	Session game.State `json:"session"`
	Token   string     `json:"token"`
}

// TickRequest reports the player position in pixels.
type TickRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// MoveRequest slides the player by a pixel delta.
type MoveRequest struct {
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Radius float64 `json:"radius" binding:"required,gt=0"`
}

// SeedRequest picks the seed of the next maze. A missing seed is drawn from the clock.
type SeedRequest struct {
	Seed *int64 `json:"seed"`
}

// ViewportQuery is the pixel rectangle a client is drawing.
type ViewportQuery struct {
	X      float64 `form:"x"`
	Y      float64 `form:"y"`
	Width  float64 `form:"w" binding:"required,gt=0"`
	Height float64 `form:"h" binding:"required,gt=0"`
}

// CellsResponse lists the cells inside a viewport.
type CellsResponse struct {
	Cells []maze.VisibleCell `json:"cells"`
}

// LeaderboardQuery limits the leaderboard size.
type LeaderboardQuery struct {
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LeaderboardResponse lists the best players.
type LeaderboardResponse struct {
	Standings []dmn.Standing `json:"standings"`
}

// Frame is a message a client sends over the session stream.
type Frame struct {
	Type   string  `json:"type"` // tick, move, focus or state
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Radius float64 `json:"radius"`
}

// FrameReply answers a Frame.
type FrameReply struct {
	Type  string      `json:"type"`
	State *game.State `json:"state,omitempty"`
	Focus *maze.Focus `json:"focus,omitempty"`
	Error string      `json:"error,omitempty"`
}
