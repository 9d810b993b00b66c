package leaderboard

import (
	"context"
	"fmt"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLeaderboard ranks players in a Redis sorted set scored by completed
// levels.
type RedisLeaderboard struct {
	client *redis.Client
	key    string
}

var _ i.Leaderboard = &RedisLeaderboard{}

// NewRedisLeaderboard initializes a RedisLeaderboard stored under key.
func NewRedisLeaderboard(client *redis.Client, key string) *RedisLeaderboard {
	return &RedisLeaderboard{
		client: client,
		key:    key,
	}
}

// Record raises the score of a player to completed. Lower scores never
// replace higher ones.
func (l *RedisLeaderboard) Record(ctx context.Context, playerID uuid.UUID, completed int) error {
	err := l.client.ZAddGT(ctx, l.key, redis.Z{Score: float64(completed), Member: playerID.String()}).Err()
	if err != nil {
		return fmt.Errorf("recording score of %s: %w", playerID, err)
	}
	return nil
}

// Top retrieves up to amount players with the highest scores, best first.
func (l *RedisLeaderboard) Top(ctx context.Context, amount int64) ([]dmn.Standing, error) {
	if amount <= 0 {
		return []dmn.Standing{}, nil
	}

	entries, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, amount-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	standings := make([]dmn.Standing, 0, len(entries))
	for _, e := range entries {
		member, ok := e.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		standings = append(standings, dmn.Standing{
			Rank:      len(standings) + 1,
			PlayerID:  id,
			Completed: int(e.Score),
		})
	}
	return standings, nil
}
