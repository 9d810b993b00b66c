package game

import (
	"errors"
	"math"
	"sync"

	"github.com/beka-birhanu/vinom-campaign/maze"
	"github.com/google/uuid"
)

// Campaign-related errors.
var (
	ErrNilMaze               = errors.New("maze is required")
	ErrCampaignWon           = errors.New("campaign level is already won")
	ErrInvalidPlayerPosition = errors.New("player is out of the maze")
	ErrMoveTooFar            = errors.New("move is longer than one step")
	ErrInvalidRadius         = errors.New("radius is out of range")
	ErrBlockedMove           = errors.New("move is blocked by a wall")
)

// positionTolerance absorbs float drift between a reported position and the
// walked one.
const positionTolerance = 1e-6

// Mode tells whether a session counts towards campaign progress.
type Mode string

// Session modes.
const (
	ModeCampaign Mode = "campaign" // Wins advance the player's progress.
	ModeQuick    Mode = "quick"    // Practice on any level, progress untouched.
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCampaign || m == ModeQuick
}

// State is a serializable snapshot of a campaign session.
type State struct {
	ID        uuid.UUID      `json:"id"`        // Session id.
	PlayerID  uuid.UUID      `json:"player_id"` // Owner of the session.
	Mode      Mode           `json:"mode"`      // Campaign or quick play.
	Level     int            `json:"level"`     // Maze level.
	Seed      int64          `json:"seed"`      // Maze seed.
	Position  maze.Point     `json:"position"`  // Player position in pixels.
	Won       bool           `json:"won"`       // Whether the exit was reached.
	Version   int64          `json:"version"`   // Bumped on every accepted update.
	Discovery maze.Discovery `json:"discovery"` // Fog state.
}

// Campaign is one player's live run through a single maze level. It owns
// the maze, the player position and the win flag.
type Campaign struct {
	id           uuid.UUID  // Session id.
	playerID     uuid.UUID  // Owner of the session.
	mode         Mode       // Campaign or quick play.
	level        int        // Maze level.
	seed         int64      // Maze seed.
	maze         Maze       // The maze being played.
	position     maze.Point // Player position in pixels.
	won          bool       // Whether the exit was reached.
	version      int64      // State version for synchronization.
	sync.RWMutex            // Read-Write lock for synchronizing access.
}

// Config identifies a campaign session.
type Config struct {
	ID       uuid.UUID // Session id, generated when zero.
	PlayerID uuid.UUID // Owner of the session.
	Mode     Mode      // Defaults to ModeCampaign.
	Level    int       // Level the maze was generated for.
	Seed     int64     // Seed the maze was generated from.
}

// New creates a campaign on m, placing the player on the start cell.
func New(m Maze, c Config) (*Campaign, error) {
	if m == nil {
		return nil, ErrNilMaze
	}

	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	mode := c.Mode
	if mode == "" {
		mode = ModeCampaign
	}

	campaign := &Campaign{
		id:       id,
		playerID: c.PlayerID,
		mode:     mode,
		level:    c.Level,
		seed:     c.Seed,
		maze:     m,
		position: m.StartPosition(),
	}
	campaign.maze.UpdateDiscovery(campaign.position.X, campaign.position.Y)
	return campaign, nil
}

// ID returns the session id.
func (c *Campaign) ID() uuid.UUID {
	return c.id
}

// PlayerID returns the owner of the session.
func (c *Campaign) PlayerID() uuid.UUID {
	return c.playerID
}

// Mode returns the session mode.
func (c *Campaign) Mode() Mode {
	return c.mode
}

// Maze returns the maze being played. Callers must not mutate it without
// holding the campaign lock.
func (c *Campaign) Maze() Maze {
	return c.maze
}

// Tick records the player at (x, y), updates discovery and evaluates the
// win condition. The new position must be reachable from the current one by
// a single Walk with PlayerRadius; otherwise nothing changes.
func (c *Campaign) Tick(x, y float64) (State, error) {
	c.Lock()
	defer c.Unlock()

	if c.won {
		return c.snapshot(), ErrCampaignWon
	}
	if !c.inside(x, y) {
		return c.snapshot(), ErrInvalidPlayerPosition
	}

	dx, dy := x-c.position.X, y-c.position.Y
	if math.Abs(dx) > maze.MaxStep || math.Abs(dy) > maze.MaxStep {
		return c.snapshot(), ErrMoveTooFar
	}
	walked := c.maze.Walk(c.position.X, c.position.Y, dx, dy, maze.PlayerRadius)
	if math.Abs(walked.X-x) > positionTolerance || math.Abs(walked.Y-y) > positionTolerance {
		return c.snapshot(), ErrBlockedMove
	}

	c.advance(maze.Point{X: x, Y: y})
	return c.snapshot(), nil
}

// Move walks the player by (dx, dy) with the given collision radius, sliding
// along walls, then behaves like Tick at the resulting position. Each axis
// is limited to maze.MaxStep per call.
func (c *Campaign) Move(dx, dy, radius float64) (State, error) {
	c.Lock()
	defer c.Unlock()

	if c.won {
		return c.snapshot(), ErrCampaignWon
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < maze.MinRadius || radius >= maze.CellSize/2 {
		return c.snapshot(), ErrInvalidRadius
	}
	if math.IsNaN(dx) || math.IsNaN(dy) || math.Abs(dx) > maze.MaxStep || math.Abs(dy) > maze.MaxStep {
		return c.snapshot(), ErrMoveTooFar
	}

	c.advance(c.maze.Walk(c.position.X, c.position.Y, dx, dy, radius))
	return c.snapshot(), nil
}

// Focus returns the camera focus for the current location.
func (c *Campaign) Focus() maze.Focus {
	c.RLock()
	defer c.RUnlock()

	return c.maze.CameraFocus()
}

// Cells collects the cells visible through v.
func (c *Campaign) Cells(v maze.Viewport) []maze.VisibleCell {
	c.RLock()
	defer c.RUnlock()

	cells := make([]maze.VisibleCell, 0)
	for cell := range c.maze.VisibleCells(v) {
		cells = append(cells, cell)
	}
	return cells
}

// Snapshot creates a snapshot of the current campaign state.
func (c *Campaign) Snapshot() State {
	c.RLock()
	defer c.RUnlock()

	return c.snapshot()
}

// Restore reapplies s. The maze must have been built from the same level and
// seed.
func (c *Campaign) Restore(s State) {
	c.Lock()
	defer c.Unlock()

	c.id = s.ID
	c.playerID = s.PlayerID
	c.position = s.Position
	c.won = s.Won
	c.version = s.Version
	c.maze.RestoreDiscovery(s.Discovery)
}

func (c *Campaign) advance(p maze.Point) {
	c.position = p
	c.maze.UpdateDiscovery(p.X, p.Y)
	c.won = c.maze.CheckWin(p.X, p.Y)
	c.version++
}

func (c *Campaign) inside(x, y float64) bool {
	rows, cols := c.maze.Size()
	return x >= 0 && y >= 0 && x < float64(cols)*maze.CellSize && y < float64(rows)*maze.CellSize
}

func (c *Campaign) snapshot() State {
	return State{
		ID:        c.id,
		PlayerID:  c.playerID,
		Mode:      c.mode,
		Level:     c.level,
		Seed:      c.seed,
		Position:  c.position,
		Won:       c.won,
		Version:   c.version,
		Discovery: c.maze.Discovery(),
	}
}
