package common

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
)

// DecisionGuard serializes review resolutions per subject. TryAcquire is
// the commit point of the review workflow: exactly one caller per
// subject ever gets true, no matter how events race or replay.
type DecisionGuard interface {
	// TryAcquire records action for subjectID if and only if no decision
	// exists yet, as one atomic step. When the subject is already
	// decided the stored action is returned alongside false.
	TryAcquire(ctx context.Context, subjectID string, action constants.ReviewAction) (bool, constants.ReviewAction, error)

	// Get reports the recorded decision for a subject, if any
	Get(ctx context.Context, subjectID string) (constants.ReviewAction, bool, error)
}

// MemoryDecisionGuard is the in-process guard. Entries never expire, so
// a decided subject stays blocked for the process lifetime; a restart
// forgets in-flight locks (the Redis guard removes that limitation).
type MemoryDecisionGuard struct {
	cache *cache.Cache
}

var _ DecisionGuard = (*MemoryDecisionGuard)(nil)

func NewMemoryDecisionGuard() *MemoryDecisionGuard {
	return &MemoryDecisionGuard{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// TryAcquire relies on cache.Add, which inserts only when the key is
// absent under the cache's internal lock
func (g *MemoryDecisionGuard) TryAcquire(_ context.Context, subjectID string, action constants.ReviewAction) (bool, constants.ReviewAction, error) {
	if err := g.cache.Add(subjectID, action, cache.NoExpiration); err != nil {
		if existing, found := g.cache.Get(subjectID); found {
			return false, existing.(constants.ReviewAction), nil
		}
		// Entry vanished between Add and Get; treat as lost race with
		// an unknown winner
		return false, "", nil
	}
	return true, action, nil
}

func (g *MemoryDecisionGuard) Get(_ context.Context, subjectID string) (constants.ReviewAction, bool, error) {
	if val, found := g.cache.Get(subjectID); found {
		return val.(constants.ReviewAction), true, nil
	}
	return "", false, nil
}
