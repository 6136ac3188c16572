package common

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
)

const guardKeyPrefix = "wl:decision:"

// RedisDecisionGuard stores decisions in Redis via SETNX, so the guard
// survives process restarts and is shared across replicas
type RedisDecisionGuard struct {
	redis *redis.Client
}

var _ DecisionGuard = (*RedisDecisionGuard)(nil)

func NewRedisDecisionGuard(client *redis.Client) *RedisDecisionGuard {
	return &RedisDecisionGuard{redis: client}
}

// TryAcquire uses SETNX as the single atomic check-and-set. No TTL:
// decisions are permanent.
func (g *RedisDecisionGuard) TryAcquire(ctx context.Context, subjectID string, action constants.ReviewAction) (bool, constants.ReviewAction, error) {
	ok, err := g.redis.SetNX(ctx, guardKeyPrefix+subjectID, string(action), 0).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to acquire decision guard: %w", err)
	}
	if ok {
		return true, action, nil
	}

	existing, err := g.redis.Get(ctx, guardKeyPrefix+subjectID).Result()
	if err != nil {
		if err == redis.Nil {
			return false, "", nil
		}
		return false, "", fmt.Errorf("failed to read decision guard: %w", err)
	}
	return false, constants.ReviewAction(existing), nil
}

func (g *RedisDecisionGuard) Get(ctx context.Context, subjectID string) (constants.ReviewAction, bool, error) {
	val, err := g.redis.Get(ctx, guardKeyPrefix+subjectID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read decision guard: %w", err)
	}
	return constants.ReviewAction(val), true, nil
}
