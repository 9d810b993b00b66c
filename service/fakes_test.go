package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/google/uuid"
)

type fakeStore struct {
	mu      sync.Mutex
	states  map[uuid.UUID]game.State
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[uuid.UUID]game.State)}
}

func (s *fakeStore) Save(_ context.Context, state game.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.states[state.ID] = state
	return nil
}

func (s *fakeStore) Load(_ context.Context, id uuid.UUID) (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[id]
	if !ok {
		return game.State{}, fmt.Errorf("session %w", i.ErrNotFound)
	}
	return state, nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

type fakeProgressRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]dmn.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[uuid.UUID]dmn.Progress)}
}

func (r *fakeProgressRepo) Save(_ context.Context, progress *dmn.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[progress.PlayerID] = *progress
	return nil
}

func (r *fakeProgressRepo) ByPlayer(_ context.Context, playerID uuid.UUID) (*dmn.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.records[playerID]
	if !ok {
		return nil, fmt.Errorf("progress %w", i.ErrNotFound)
	}
	return &progress, nil
}

func (r *fakeProgressRepo) Delete(_ context.Context, playerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, playerID)
	return nil
}

type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[uuid.UUID]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[uuid.UUID]int)}
}

func (l *fakeLeaderboard) Record(_ context.Context, playerID uuid.UUID, completed int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores[playerID] = max(l.scores[playerID], completed)
	return nil
}

func (l *fakeLeaderboard) Top(_ context.Context, amount int64) ([]dmn.Standing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	standings := []dmn.Standing{}
	for id, score := range l.scores {
		if int64(len(standings)) == amount {
			break
		}
		standings = append(standings, dmn.Standing{Rank: len(standings) + 1, PlayerID: id, Completed: score})
	}
	return standings, nil
}

type fakeLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	keys  []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.keys = append(l.keys, key)
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

type fakeTokenizer struct{}

func (fakeTokenizer) Generate(claims map[string]interface{}, _ time.Duration) (string, error) {
	return fmt.Sprintf("token:%v", claims["session_id"]), nil
}

func (fakeTokenizer) Decode(string) (map[string]interface{}, error) {
	return nil, nil
}

type fakeLogger struct{}

func (fakeLogger) Info(string)    {}
func (fakeLogger) Warning(string) {}
func (fakeLogger) Error(string)   {}
