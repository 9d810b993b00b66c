package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxLevel is the last campaign level unless configured otherwise.
	DefaultMaxLevel = 8
	firstLevel      = 1
)

var (
	ErrInvalidLevel    = errors.New("level out of range")
	ErrInvalidMaxLevel = errors.New("max level must be at least 1")
	ErrMissingPlayer   = errors.New("player id is required")
	ErrLevelLocked     = errors.New("level is not unlocked yet")
)

// Progress represents the BSON version of a player's campaign progress.
type Progress struct {
	PlayerID     uuid.UUID `bson:"_id"`
	Level        int       `bson:"level"`
	Seed         int64     `bson:"seed"`
	HighestLevel int       `bson:"highestLevel"`
	MaxLevel     int       `bson:"maxLevel"`
	Completed    int       `bson:"completed"` // levels won so far
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// ProgressConfig holds parameters for creating a Progress.
type ProgressConfig struct {
	PlayerID uuid.UUID
	Level    int
	Seed     int64
	MaxLevel int // zero means DefaultMaxLevel
}

// NewProgress creates a new Progress with the provided configuration.
func NewProgress(config ProgressConfig) (*Progress, error) {
	if config.PlayerID == uuid.Nil {
		return nil, ErrMissingPlayer
	}

	maxLevel := config.MaxLevel
	if maxLevel == 0 {
		maxLevel = DefaultMaxLevel
	}
	if maxLevel < firstLevel {
		return nil, ErrInvalidMaxLevel
	}

	if err := validateLevel(config.Level, maxLevel); err != nil {
		return nil, err
	}

	return &Progress{
		PlayerID:     config.PlayerID,
		Level:        config.Level,
		Seed:         config.Seed,
		HighestLevel: config.Level,
		MaxLevel:     maxLevel,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// ClampLevel forces level into [1, maxLevel].
func ClampLevel(level, maxLevel int) int {
	return max(firstLevel, min(maxLevel, level))
}

// Unlocked reports whether level may be played: it must lie within the
// campaign and not beyond the highest level reached so far.
func (p *Progress) Unlocked(level int) error {
	if err := validateLevel(level, p.MaxLevel); err != nil {
		return err
	}
	if level > p.HighestLevel {
		return ErrLevelLocked
	}
	return nil
}

// Begin moves the campaign back to an unlocked level, played with seed.
func (p *Progress) Begin(level int, seed int64) error {
	if err := p.Unlocked(level); err != nil {
		return err
	}
	p.Level = level
	p.Seed = seed
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Advance records a won level and moves on to the next one with a new seed.
// Finishing the last level starts the campaign over from level one.
func (p *Progress) Advance(seed int64) {
	p.Completed++
	if p.Level >= p.MaxLevel {
		p.Level = firstLevel
	} else {
		p.Level++
	}
	p.HighestLevel = max(p.HighestLevel, p.Level)
	p.Seed = seed
	p.UpdatedAt = time.Now().UTC()
}

// Reseed keeps the level and swaps the maze for a new one.
func (p *Progress) Reseed(seed int64) {
	p.Seed = seed
	p.UpdatedAt = time.Now().UTC()
}

// validateLevel checks the level against the campaign bounds.
func validateLevel(level, maxLevel int) error {
	if level < firstLevel || level > maxLevel {
		return ErrInvalidLevel
	}
	return nil
}
