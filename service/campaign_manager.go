package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/maze"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL = time.Hour
	lockKeyFmt      = "campaign:session:%s"
	mazeAttempts    = 8 // seeds tried before a disconnected maze is an error
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotWon            = errors.New("level is not won yet")
	ErrMissingDependency = errors.New("missing dependency")
	ErrInvalidMode       = errors.New("unknown session mode")
)

// MazeFactory builds the maze for a level and seed.
type MazeFactory func(level int, seed int64) (game.Maze, error)

// Config holds the dependencies of a CampaignManager.
type Config struct {
	MazeFactory MazeFactory
	Store       i.SessionStore
	Progress    i.ProgressRepo
	Leaderboard i.Leaderboard
	Locker      i.Locker
	Tokenizer   i.Tokenizer
	Logger      i.Logger
	TokenTTL    time.Duration    // zero means one hour
	MaxLevel    int              // zero means dmn.DefaultMaxLevel
	Clock       func() time.Time // seeds come from it when none is given; nil means time.Now
}

// CampaignManager owns the live campaign sessions of this process. Sessions
// are snapshotted to the store after every change, so any process sharing
// the store can pick a session up again.
type CampaignManager struct {
	mazeFactory MazeFactory
	store       i.SessionStore
	progress    i.ProgressRepo
	leaderboard i.Leaderboard
	locker      i.Locker
	tokenizer   i.Tokenizer
	logger      i.Logger
	tokenTTL    time.Duration
	maxLevel    int
	clock       func() time.Time
	sessions    map[uuid.UUID]*game.Campaign
	sync.RWMutex
}

var _ i.CampaignService = &CampaignManager{}

// NewCampaignManager creates a CampaignManager from c.
func NewCampaignManager(c *Config) (*CampaignManager, error) {
	if c.MazeFactory == nil || c.Store == nil || c.Progress == nil || c.Leaderboard == nil ||
		c.Locker == nil || c.Tokenizer == nil || c.Logger == nil {
		return nil, ErrMissingDependency
	}

	cm := &CampaignManager{
		mazeFactory: c.MazeFactory,
		store:       c.Store,
		progress:    c.Progress,
		leaderboard: c.Leaderboard,
		locker:      c.Locker,
		tokenizer:   c.Tokenizer,
		logger:      c.Logger,
		tokenTTL:    c.TokenTTL,
		maxLevel:    c.MaxLevel,
		clock:       c.Clock,
		sessions:    make(map[uuid.UUID]*game.Campaign),
	}
	if cm.tokenTTL <= 0 {
		cm.tokenTTL = defaultTokenTTL
	}
	if cm.maxLevel <= 0 {
		cm.maxLevel = dmn.DefaultMaxLevel
	}
	if cm.clock == nil {
		cm.clock = time.Now
	}
	return cm, nil
}

// Start opens a new session for playerID. Campaign sessions continue the
// player's progress when level is zero and may otherwise replay any level
// already unlocked. Quick sessions play any level, clamped to the campaign,
// and never touch progress or the leaderboard.
func (cm *CampaignManager) Start(ctx context.Context, playerID uuid.UUID, mode game.Mode, level int, seed *int64) (game.State, string, error) {
	if playerID == uuid.Nil {
		return game.State{}, "", dmn.ErrMissingPlayer
	}
	if mode == "" {
		mode = game.ModeCampaign
	}
	if !mode.Valid() {
		return game.State{}, "", ErrInvalidMode
	}

	var (
		c   *game.Campaign
		err error
	)
	if mode == game.ModeQuick {
		level = dmn.ClampLevel(level, cm.maxLevel)
		c, err = cm.newCampaign(game.Config{PlayerID: playerID, Mode: mode, Level: level, Seed: cm.pickSeed(seed)})
		if err != nil {
			return game.State{}, "", err
		}
	} else {
		c, err = cm.startCampaign(ctx, playerID, level, seed)
		if err != nil {
			return game.State{}, "", err
		}
	}
	state := c.Snapshot()

	if err := cm.store.Save(ctx, state); err != nil {
		return game.State{}, "", fmt.Errorf("starting campaign: %w", err)
	}

	token, err := cm.tokenizer.Generate(map[string]interface{}{
		"session_id": state.ID.String(),
		"player_id":  playerID.String(),
	}, cm.tokenTTL)
	if err != nil {
		return game.State{}, "", fmt.Errorf("issuing session token: %w", err)
	}

	cm.put(c)
	cm.logger.Info(fmt.Sprintf("started %s session %s for player %s at level %d seed %d", mode, state.ID, playerID, state.Level, state.Seed))
	return state, token, nil
}

// startCampaign builds the campaign session of playerID and records the
// level it starts on.
func (cm *CampaignManager) startCampaign(ctx context.Context, playerID uuid.UUID, level int, seed *int64) (*game.Campaign, error) {
	progress, err := cm.progress.ByPlayer(ctx, playerID)
	if err != nil && !errors.Is(err, i.ErrNotFound) {
		return nil, fmt.Errorf("starting campaign: %w", err)
	}
	if progress == nil {
		progress, err = dmn.NewProgress(dmn.ProgressConfig{PlayerID: playerID, Level: 1, Seed: cm.pickSeed(seed), MaxLevel: cm.maxLevel})
		if err != nil {
			return nil, fmt.Errorf("starting campaign: %w", err)
		}
	}

	if level == 0 {
		level = progress.Level
		if seed == nil {
			seed = &progress.Seed
		}
	}
	if err := progress.Unlocked(level); err != nil {
		return nil, err
	}

	c, err := cm.newCampaign(game.Config{PlayerID: playerID, Mode: game.ModeCampaign, Level: level, Seed: cm.pickSeed(seed)})
	if err != nil {
		return nil, err
	}
	if err := progress.Begin(level, c.Snapshot().Seed); err != nil {
		return nil, err
	}
	if err := cm.progress.Save(ctx, progress); err != nil {
		return nil, fmt.Errorf("starting campaign: %w", err)
	}
	return c, nil
}

// State returns the current snapshot of session id.
func (cm *CampaignManager) State(ctx context.Context, id uuid.UUID) (game.State, error) {
	c, err := cm.session(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	return c.Snapshot(), nil
}

// Tick reports the player at (x, y).
func (cm *CampaignManager) Tick(ctx context.Context, id uuid.UUID, x, y float64) (game.State, error) {
	return cm.mutate(ctx, id, func(c *game.Campaign) (change, error) {
		_, err := c.Tick(x, y)
		return change{}, err
	})
}

// Move walks the player by (dx, dy).
func (cm *CampaignManager) Move(ctx context.Context, id uuid.UUID, dx, dy, radius float64) (game.State, error) {
	return cm.mutate(ctx, id, func(c *game.Campaign) (change, error) {
		_, err := c.Move(dx, dy, radius)
		return change{}, err
	})
}

// Focus returns the camera focus of session id.
func (cm *CampaignManager) Focus(ctx context.Context, id uuid.UUID) (maze.Focus, error) {
	c, err := cm.session(ctx, id)
	if err != nil {
		return maze.Focus{}, err
	}
	return c.Focus(), nil
}

// Cells returns the cells of session id visible through v.
func (cm *CampaignManager) Cells(ctx context.Context, id uuid.UUID, v maze.Viewport) ([]maze.VisibleCell, error) {
	c, err := cm.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Cells(v), nil
}

// Reset rebuilds the current maze and puts the player back on the start.
func (cm *CampaignManager) Reset(ctx context.Context, id uuid.UUID) (game.State, error) {
	return cm.mutate(ctx, id, func(c *game.Campaign) (change, error) {
		state := c.Snapshot()
		next, err := cm.rebuild(state, state.Level, state.Seed)
		return change{campaign: next}, err
	})
}

// Advance moves a won session on. Campaign sessions go to the next level and
// finishing the last level starts over from level one; the win is credited
// once the new session is stored. Quick sessions replay their level on a new
// seed.
func (cm *CampaignManager) Advance(ctx context.Context, id uuid.UUID, seed *int64) (game.State, error) {
	return cm.mutate(ctx, id, func(c *game.Campaign) (change, error) {
		state := c.Snapshot()
		if !state.Won {
			return change{}, ErrNotWon
		}

		if state.Mode == game.ModeQuick {
			next, err := cm.rebuild(state, state.Level, cm.pickSeed(seed))
			return change{campaign: next}, err
		}

		progress, err := cm.progressOf(ctx, state)
		if err != nil {
			return change{}, err
		}
		progress.Advance(cm.pickSeed(seed))

		next, err := cm.rebuild(state, progress.Level, progress.Seed)
		if err != nil {
			return change{}, err
		}
		progress.Reseed(next.Snapshot().Seed)

		return change{campaign: next, commit: func(ctx context.Context) error {
			if err := cm.progress.Save(ctx, progress); err != nil {
				return fmt.Errorf("advancing campaign: %w", err)
			}
			if err := cm.leaderboard.Record(ctx, state.PlayerID, progress.Completed); err != nil {
				cm.logger.Warning(fmt.Sprintf("recording leaderboard score of %s: %v", state.PlayerID, err))
			}
			cm.logger.Info(fmt.Sprintf("session %s advanced to level %d", id, progress.Level))
			return nil
		}}, nil
	})
}

// Reseed replaces the maze of session id with another one of the same level.
func (cm *CampaignManager) Reseed(ctx context.Context, id uuid.UUID, seed *int64) (game.State, error) {
	return cm.mutate(ctx, id, func(c *game.Campaign) (change, error) {
		state := c.Snapshot()
		next, err := cm.rebuild(state, state.Level, cm.pickSeed(seed))
		if err != nil || state.Mode == game.ModeQuick {
			return change{campaign: next}, err
		}

		progress, err := cm.progressOf(ctx, state)
		if err != nil {
			return change{}, err
		}
		progress.Reseed(next.Snapshot().Seed)

		return change{campaign: next, commit: func(ctx context.Context) error {
			if err := cm.progress.Save(ctx, progress); err != nil {
				return fmt.Errorf("reseeding campaign: %w", err)
			}
			return nil
		}}, nil
	})
}

// End closes session id. The player's progress is kept.
func (cm *CampaignManager) End(ctx context.Context, id uuid.UUID) error {
	unlock, err := cm.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := cm.session(ctx, id); err != nil {
		return err
	}

	cm.evict(id)

	if err := cm.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	cm.logger.Info(fmt.Sprintf("ended session %s", id))
	return nil
}

// Leaderboard lists up to amount players, best first.
func (cm *CampaignManager) Leaderboard(ctx context.Context, amount int64) ([]dmn.Standing, error) {
	standings, err := cm.leaderboard.Top(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return standings, nil
}

// Flush writes every live session to the store.
func (cm *CampaignManager) Flush(ctx context.Context) error {
	cm.RLock()
	campaigns := make([]*game.Campaign, 0, len(cm.sessions))
	for _, c := range cm.sessions {
		campaigns = append(campaigns, c)
	}
	cm.RUnlock()

	var errs []error
	for _, c := range campaigns {
		if err := cm.store.Save(ctx, c.Snapshot()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// change is what a mutation leaves behind.
type change struct {
	campaign *game.Campaign                  // replaces the session; nil keeps it
	commit   func(ctx context.Context) error // runs once the new state is stored
}

// mutate runs fn on session id while holding the session lock and stores
// the resulting snapshot. Nothing becomes visible in memory before the store
// accepted it: a replacement campaign is only published after the save, and
// a campaign fn changed in place is dropped when the save fails so the next
// call resumes it from the store.
func (cm *CampaignManager) mutate(ctx context.Context, id uuid.UUID, fn func(*game.Campaign) (change, error)) (game.State, error) {
	unlock, err := cm.lock(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	defer unlock()

	c, err := cm.session(ctx, id)
	if err != nil {
		return game.State{}, err
	}

	ch, err := fn(c)
	if err != nil {
		return c.Snapshot(), err
	}

	next := c
	if ch.campaign != nil {
		next = ch.campaign
	}
	state := next.Snapshot()

	if err := cm.store.Save(ctx, state); err != nil {
		if next == c {
			cm.evict(id)
		}
		return c.Snapshot(), fmt.Errorf("saving session: %w", err)
	}
	if next != c {
		cm.put(next)
	}
	if ch.commit != nil {
		if err := ch.commit(ctx); err != nil {
			return state, err
		}
	}

	if state.Won {
		cm.logger.Info(fmt.Sprintf("session %s won level %d", id, state.Level))
	}
	return state, nil
}

func (cm *CampaignManager) lock(ctx context.Context, id uuid.UUID) (func(), error) {
	unlock, err := cm.locker.Lock(ctx, fmt.Sprintf(lockKeyFmt, id))
	if err != nil {
		return nil, fmt.Errorf("locking session %s: %w", id, err)
	}
	return unlock, nil
}

// session finds a live session, resuming it from the store when this
// process does not hold it.
func (cm *CampaignManager) session(ctx context.Context, id uuid.UUID) (*game.Campaign, error) {
	cm.RLock()
	c, ok := cm.sessions[id]
	cm.RUnlock()
	if ok {
		return c, nil
	}

	state, err := cm.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, i.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("resuming session: %w", err)
	}

	c, err = cm.rebuild(state, state.Level, state.Seed)
	if err != nil {
		return nil, err
	}
	c.Restore(state)

	cm.Lock()
	defer cm.Unlock()
	if existing, ok := cm.sessions[id]; ok {
		return existing, nil
	}
	cm.sessions[id] = c
	cm.logger.Info(fmt.Sprintf("resumed session %s at level %d", id, state.Level))
	return c, nil
}

// rebuild creates a fresh campaign on (level, seed) for the session behind
// state, keeping its session id, player and mode. It is not published.
func (cm *CampaignManager) rebuild(state game.State, level int, seed int64) (*game.Campaign, error) {
	return cm.newCampaign(game.Config{ID: state.ID, PlayerID: state.PlayerID, Mode: state.Mode, Level: level, Seed: seed})
}

// newCampaign builds a campaign on a fresh maze. A seed whose maze comes out
// disconnected is replaced by the next one, a bounded number of times.
func (cm *CampaignManager) newCampaign(config game.Config) (*game.Campaign, error) {
	var (
		m   game.Maze
		err error
	)
	for attempt := 0; attempt < mazeAttempts; attempt++ {
		m, err = cm.mazeFactory(config.Level, config.Seed)
		var warning *maze.ConnectivityWarning
		if !errors.As(err, &warning) {
			break
		}
		cm.logger.Warning(fmt.Sprintf("maze for level %d seed %d is disconnected, trying seed %d", config.Level, config.Seed, config.Seed+1))
		config.Seed++
	}
	if err != nil {
		cm.logger.Error(fmt.Sprintf("creating maze for level %d seed %d: %v", config.Level, config.Seed, err))
		return nil, fmt.Errorf("creating maze: %w", err)
	}

	c, err := game.New(m, config)
	if err != nil {
		return nil, fmt.Errorf("creating campaign: %w", err)
	}
	return c, nil
}

func (cm *CampaignManager) put(c *game.Campaign) {
	cm.Lock()
	defer cm.Unlock()
	cm.sessions[c.ID()] = c
}

func (cm *CampaignManager) evict(id uuid.UUID) {
	cm.Lock()
	defer cm.Unlock()
	delete(cm.sessions, id)
}

// progressOf loads the progress of the session's player and lines it up
// with the session, recreating it when it was lost.
func (cm *CampaignManager) progressOf(ctx context.Context, state game.State) (*dmn.Progress, error) {
	progress, err := cm.progress.ByPlayer(ctx, state.PlayerID)
	if err != nil && !errors.Is(err, i.ErrNotFound) {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	if progress == nil {
		progress, err = dmn.NewProgress(dmn.ProgressConfig{
			PlayerID: state.PlayerID,
			Level:    dmn.ClampLevel(state.Level, cm.maxLevel),
			Seed:     state.Seed,
			MaxLevel: cm.maxLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("recreating progress: %w", err)
		}
		return progress, nil
	}

	if err := progress.Begin(dmn.ClampLevel(state.Level, progress.MaxLevel), state.Seed); err != nil {
		return nil, fmt.Errorf("aligning progress: %w", err)
	}
	return progress, nil
}

func (cm *CampaignManager) pickSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return cm.clock().UnixMilli()
}
