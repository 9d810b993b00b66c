package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/maze"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	manager     *CampaignManager
	store       *fakeStore
	progress    *fakeProgressRepo
	leaderboard *fakeLeaderboard
	locker      *fakeLocker
	mu          sync.Mutex
	built       [][2]int64     // (level, seed) of every maze built
	refused     map[int64]bool // seeds whose maze comes out disconnected
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:       newFakeStore(),
		progress:    newFakeProgressRepo(),
		leaderboard: newFakeLeaderboard(),
		locker:      newFakeLocker(),
		refused:     make(map[int64]bool),
	}
	h.manager = h.newManager(t)
	return h
}

// newManager builds another manager sharing the harness storage, like a
// second process would.
func (h *harness) newManager(t *testing.T) *CampaignManager {
	t.Helper()
	cm, err := NewCampaignManager(&Config{
		MazeFactory: func(level int, seed int64) (game.Maze, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.built = append(h.built, [2]int64{int64(level), seed})
			if h.refused[seed] {
				return nil, &maze.ConnectivityWarning{Unreached: []int{1}}
			}
			return maze.NewFixture(), nil
		},
		Store:       h.store,
		Progress:    h.progress,
		Leaderboard: h.leaderboard,
		Locker:      h.locker,
		Tokenizer:   fakeTokenizer{},
		Logger:      fakeLogger{},
		MaxLevel:    3,
		Clock:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return cm
}

// unlock gives playerID saved progress up to level highest.
func (h *harness) unlock(t *testing.T, playerID uuid.UUID, highest int) {
	t.Helper()
	require.NoError(t, h.progress.Save(context.Background(), &dmn.Progress{
		PlayerID:     playerID,
		Level:        highest,
		Seed:         77,
		HighestLevel: highest,
		MaxLevel:     3,
	}))
}

func seedOf(v int64) *int64 {
	return &v
}

func center(pos maze.CellPosition) (float64, float64) {
	p := maze.CellCenter(pos)
	return p.X, p.Y
}

// Exit cell of the fixture maze and its pixel center.
var (
	fixtureExit                = maze.CellPosition{Row: 63, Col: 29}
	fixtureExitX, fixtureExitY = center(fixtureExit)
)

// walkTo ticks session id from cell center to cell center along the
// shortest open path of the fixture maze to goal.
func walkTo(t *testing.T, cm *CampaignManager, id uuid.UUID, goal maze.CellPosition) game.State {
	t.Helper()
	ctx := context.Background()
	state, err := cm.State(ctx, id)
	require.NoError(t, err)

	from := maze.CellPosition{Row: int(state.Position.Y) / maze.CellSize, Col: int(state.Position.X) / maze.CellSize}
	path := maze.NewFixture().Path(from, goal)
	require.NotEmpty(t, path)
	for _, next := range path[1:] {
		x, y := center(next)
		state, err = cm.Tick(ctx, id, x, y)
		require.NoError(t, err, "tick into %v", next)
	}
	return state
}

func TestNewCampaignManager(t *testing.T) {
	_, err := NewCampaignManager(&Config{})
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestCampaignManagerStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores the session and progress", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()

		state, token, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 1, seedOf(42))
		require.NoError(t, err)

		assert.Equal(t, playerID, state.PlayerID)
		assert.Equal(t, game.ModeCampaign, state.Mode)
		assert.Equal(t, 1, state.Level)
		assert.Equal(t, int64(42), state.Seed)
		assert.Equal(t, "token:"+state.ID.String(), token)
		assert.Equal(t, [][2]int64{{1, 42}}, h.built)

		stored, err := h.store.Load(ctx, state.ID)
		require.NoError(t, err)
		assert.Equal(t, state, stored)

		progress, err := h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.Level)
		assert.Equal(t, 1, progress.HighestLevel)
		assert.Equal(t, int64(42), progress.Seed)
		assert.Equal(t, 3, progress.MaxLevel)
	})

	t.Run("Player is required", func(t *testing.T) {
		h := newHarness(t)
		_, _, err := h.manager.Start(ctx, uuid.Nil, game.ModeCampaign, 1, seedOf(1))
		assert.ErrorIs(t, err, dmn.ErrMissingPlayer)
		assert.Empty(t, h.built)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		h := newHarness(t)
		_, _, err := h.manager.Start(ctx, uuid.New(), game.Mode("ranked"), 1, seedOf(1))
		assert.ErrorIs(t, err, ErrInvalidMode)
	})

	t.Run("Empty mode plays the campaign", func(t *testing.T) {
		h := newHarness(t)
		state, _, err := h.manager.Start(ctx, uuid.New(), "", 1, seedOf(1))
		require.NoError(t, err)
		assert.Equal(t, game.ModeCampaign, state.Mode)
	})

	t.Run("Campaign levels must be unlocked", func(t *testing.T) {
		h := newHarness(t)
		newcomer := uuid.New()

		_, _, err := h.manager.Start(ctx, newcomer, game.ModeCampaign, 2, seedOf(1))
		assert.ErrorIs(t, err, dmn.ErrLevelLocked)
		_, err = h.progress.ByPlayer(ctx, newcomer)
		assert.ErrorIs(t, err, i.ErrNotFound)
		assert.Empty(t, h.built)

		veteran := uuid.New()
		h.unlock(t, veteran, 2)
		state, _, err := h.manager.Start(ctx, veteran, game.ModeCampaign, 1, seedOf(3))
		require.NoError(t, err)
		assert.Equal(t, 1, state.Level)

		progress, err := h.progress.ByPlayer(ctx, veteran)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.Level)
		assert.Equal(t, 2, progress.HighestLevel)

		_, _, err = h.manager.Start(ctx, veteran, game.ModeCampaign, 3, seedOf(3))
		assert.ErrorIs(t, err, dmn.ErrLevelLocked)
		_, _, err = h.manager.Start(ctx, veteran, game.ModeCampaign, -1, seedOf(3))
		assert.ErrorIs(t, err, dmn.ErrInvalidLevel)
	})

	t.Run("Quick play clamps the level and skips progress", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()

		state, _, err := h.manager.Start(ctx, playerID, game.ModeQuick, 20, seedOf(1))
		require.NoError(t, err)
		assert.Equal(t, 3, state.Level)
		assert.Equal(t, game.ModeQuick, state.Mode)

		state, _, err = h.manager.Start(ctx, playerID, game.ModeQuick, -2, seedOf(1))
		require.NoError(t, err)
		assert.Equal(t, 1, state.Level)

		_, err = h.progress.ByPlayer(ctx, playerID)
		assert.ErrorIs(t, err, i.ErrNotFound)
	})

	t.Run("Missing seed comes from the clock", func(t *testing.T) {
		h := newHarness(t)
		state, _, err := h.manager.Start(ctx, uuid.New(), game.ModeCampaign, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, fixedNow.UnixMilli(), state.Seed)
	})

	t.Run("Level zero continues saved progress", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		h.unlock(t, playerID, 2)

		state, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 0, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, state.Level)
		assert.Equal(t, int64(77), state.Seed)
	})

	t.Run("Disconnected mazes are drawn again", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		h.refused[5] = true
		h.refused[6] = true

		state, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)
		assert.Equal(t, int64(7), state.Seed)
		assert.Equal(t, [][2]int64{{1, 5}, {1, 6}, {1, 7}}, h.built)

		progress, err := h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), progress.Seed)

		resumed, err := h.newManager(t).State(ctx, state.ID)
		require.NoError(t, err)
		assert.Equal(t, state, resumed)
		assert.Equal(t, [2]int64{1, 7}, h.built[len(h.built)-1])
	})

	t.Run("Gives up on a run of disconnected mazes", func(t *testing.T) {
		h := newHarness(t)
		for seed := int64(5); seed < 5+mazeAttempts; seed++ {
			h.refused[seed] = true
		}

		_, _, err := h.manager.Start(ctx, uuid.New(), game.ModeQuick, 1, seedOf(5))
		var warning *maze.ConnectivityWarning
		assert.ErrorAs(t, err, &warning)
		assert.Len(t, h.built, mazeAttempts)
	})
}

func TestCampaignManagerPlay(t *testing.T) {
	ctx := context.Background()

	t.Run("Win and advance", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		started, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)

		_, err = h.manager.Advance(ctx, started.ID, nil)
		assert.ErrorIs(t, err, ErrNotWon)

		won := walkTo(t, h.manager, started.ID, fixtureExit)
		assert.True(t, won.Won)

		_, err = h.manager.Move(ctx, started.ID, 1, 0, 6)
		assert.ErrorIs(t, err, game.ErrCampaignWon)

		next, err := h.manager.Advance(ctx, started.ID, seedOf(6))
		require.NoError(t, err)
		assert.Equal(t, started.ID, next.ID)
		assert.Equal(t, 2, next.Level)
		assert.Equal(t, int64(6), next.Seed)
		assert.False(t, next.Won)
		assert.Equal(t, maze.Point{X: 70, Y: 70}, next.Position)

		progress, err := h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 2, progress.Level)
		assert.Equal(t, 2, progress.HighestLevel)
		assert.Equal(t, 1, progress.Completed)

		standings, err := h.manager.Leaderboard(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []dmn.Standing{{Rank: 1, PlayerID: playerID, Completed: 1}}, standings)

		stored, err := h.store.Load(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, next, stored)
	})

	t.Run("Teleporting to the exit does not win", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)

		state, err := h.manager.Tick(ctx, started.ID, fixtureExitX, fixtureExitY)
		assert.ErrorIs(t, err, game.ErrMoveTooFar)
		assert.False(t, state.Won)

		state, err = h.manager.Move(ctx, started.ID, fixtureExitX-started.Position.X, fixtureExitY-started.Position.Y, 5)
		assert.ErrorIs(t, err, game.ErrMoveTooFar)
		assert.False(t, state.Won)

		_, err = h.manager.Advance(ctx, started.ID, nil)
		assert.ErrorIs(t, err, ErrNotWon)

		stored, err := h.store.Load(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, started, stored)
	})

	t.Run("Last level wraps around", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		h.unlock(t, playerID, 3)
		started, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 3, seedOf(5))
		require.NoError(t, err)

		walkTo(t, h.manager, started.ID, fixtureExit)
		next, err := h.manager.Advance(ctx, started.ID, seedOf(9))
		require.NoError(t, err)
		assert.Equal(t, 1, next.Level)

		progress, err := h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 3, progress.HighestLevel)
	})

	t.Run("Quick play never touches progress", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		started, _, err := h.manager.Start(ctx, playerID, game.ModeQuick, 3, seedOf(5))
		require.NoError(t, err)

		walkTo(t, h.manager, started.ID, fixtureExit)
		next, err := h.manager.Advance(ctx, started.ID, seedOf(9))
		require.NoError(t, err)
		assert.Equal(t, 3, next.Level)
		assert.Equal(t, int64(9), next.Seed)
		assert.Equal(t, game.ModeQuick, next.Mode)
		assert.False(t, next.Won)

		reseeded, err := h.manager.Reseed(ctx, started.ID, seedOf(10))
		require.NoError(t, err)
		assert.Equal(t, int64(10), reseeded.Seed)

		_, err = h.progress.ByPlayer(ctx, playerID)
		assert.ErrorIs(t, err, i.ErrNotFound)
		standings, err := h.manager.Leaderboard(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, standings)
	})

	t.Run("Failed save does not credit a win twice", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		started, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)
		walkTo(t, h.manager, started.ID, fixtureExit)

		down := errors.New("redis down")
		h.store.saveErr = down
		_, err = h.manager.Advance(ctx, started.ID, seedOf(6))
		assert.ErrorIs(t, err, down)

		current, err := h.manager.State(ctx, started.ID)
		require.NoError(t, err)
		assert.True(t, current.Won)
		assert.Equal(t, 1, current.Level)
		progress, err := h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 0, progress.Completed)
		assert.Equal(t, 1, progress.HighestLevel)

		h.store.saveErr = nil
		next, err := h.manager.Advance(ctx, started.ID, seedOf(6))
		require.NoError(t, err)
		assert.Equal(t, 2, next.Level)

		_, err = h.newManager(t).Advance(ctx, started.ID, seedOf(7))
		assert.ErrorIs(t, err, ErrNotWon)

		progress, err = h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.Completed)
		assert.Equal(t, 2, progress.Level)
		standings, err := h.manager.Leaderboard(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []dmn.Standing{{Rank: 1, PlayerID: playerID, Completed: 1}}, standings)
	})

	t.Run("Moves are locked per session", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for n := 0; n < 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = h.manager.Move(ctx, started.ID, 0.5, 0.5, 6)
			}()
		}
		wg.Wait()

		state, err := h.manager.State(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), state.Version)
		assert.Contains(t, h.locker.keys, fmt.Sprintf("campaign:session:%s", started.ID))
	})

	t.Run("Reset puts the player back", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeQuick, 2, seedOf(5))
		require.NoError(t, err)

		moved := walkTo(t, h.manager, started.ID, maze.CellPosition{Row: 5, Col: 15})
		assert.Equal(t, 0, moved.Discovery.CurrentCorridor)

		reset, err := h.manager.Reset(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, started.ID, reset.ID)
		assert.Equal(t, 2, reset.Level)
		assert.Equal(t, int64(5), reset.Seed)
		assert.Equal(t, game.ModeQuick, reset.Mode)
		assert.Equal(t, started.Position, reset.Position)
		assert.Equal(t, started.Discovery, reset.Discovery)
		assert.Equal(t, int64(0), reset.Version)
	})

	t.Run("Reseed keeps the level", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		h.unlock(t, playerID, 2)
		started, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 2, seedOf(5))
		require.NoError(t, err)

		reseeded, err := h.manager.Reseed(ctx, started.ID, seedOf(11))
		require.NoError(t, err)
		assert.Equal(t, 2, reseeded.Level)
		assert.Equal(t, int64(11), reseeded.Seed)

		progress, err := h.progress.ByPlayer(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, int64(11), progress.Seed)
	})

	t.Run("Focus and cells", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)

		focus, err := h.manager.Focus(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, maze.FocusRegion, focus.Kind)

		cells, err := h.manager.Cells(ctx, started.ID, maze.Viewport{Width: 100, Height: 60})
		require.NoError(t, err)
		assert.Len(t, cells, 24)
	})

	t.Run("Store failures surface and keep the stored state", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)

		down := errors.New("redis down")
		h.store.saveErr = down
		_, err = h.manager.Move(ctx, started.ID, 1, 1, 6)
		assert.ErrorIs(t, err, down)

		h.store.saveErr = nil
		current, err := h.manager.State(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, started, current)
	})
}

func TestCampaignManagerSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown session", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.manager.State(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = h.manager.Tick(ctx, uuid.New(), 1, 1)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.ErrorIs(t, h.manager.End(ctx, uuid.New()), ErrSessionNotFound)
	})

	t.Run("Resumed by another manager", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeQuick, 2, seedOf(8))
		require.NoError(t, err)
		moved := walkTo(t, h.manager, started.ID, maze.CellPosition{Row: 5, Col: 15})

		other := h.newManager(t)
		resumed, err := other.State(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, moved, resumed)
		assert.Equal(t, [2]int64{2, 8}, h.built[len(h.built)-1])

		focus, err := other.Focus(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, maze.FocusCorridor, focus.Kind)
	})

	t.Run("End forgets the session", func(t *testing.T) {
		h := newHarness(t)
		playerID := uuid.New()
		started, _, err := h.manager.Start(ctx, playerID, game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)

		require.NoError(t, h.manager.End(ctx, started.ID))
		_, err = h.manager.State(ctx, started.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		_, err = h.progress.ByPlayer(ctx, playerID)
		assert.NoError(t, err)
	})

	t.Run("Flush writes live sessions", func(t *testing.T) {
		h := newHarness(t)
		started, _, err := h.manager.Start(ctx, uuid.New(), game.ModeCampaign, 1, seedOf(5))
		require.NoError(t, err)
		require.NoError(t, h.store.Delete(ctx, started.ID))

		require.NoError(t, h.manager.Flush(ctx))
		_, err = h.store.Load(ctx, started.ID)
		assert.NoError(t, err)
	})
}
