package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "campaign:state:"

var (
	ErrSessionNotFound = fmt.Errorf("session %w", i.ErrNotFound)
)

// RedisSessionStore keeps campaign snapshots in Redis with TTL support.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ i.SessionStore = &RedisSessionStore{}

// NewRedisSessionStore initializes a RedisSessionStore with the provided Redis client and TTL.
func NewRedisSessionStore(client *redis.Client, ttlSeconds int) (*RedisSessionStore, error) {
	if ttlSeconds <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &RedisSessionStore{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// Save stores the snapshot and restarts its expiry.
func (s *RedisSessionStore) Save(ctx context.Context, state game.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", state.ID, err)
	}

	if err := s.client.Set(ctx, key(state.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session %s: %w", state.ID, err)
	}
	return nil
}

// Load reads the snapshot of session id.
func (s *RedisSessionStore) Load(ctx context.Context, id uuid.UUID) (game.State, error) {
	payload, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return game.State{}, ErrSessionNotFound
		}
		return game.State{}, fmt.Errorf("loading session %s: %w", id, err)
	}

	var state game.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return game.State{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return state, nil
}

// Delete removes the snapshot of session id.
func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}
