package matchmaking

import (
	"context"
	"fmt"
)

// PairLocker serializes game creation for one unordered pair of players.
type PairLocker interface {
	// WithLock runs fn while holding the lock for key.
	WithLock(ctx context.Context, key string, fn func() error) error
}

// pairLockKey derives the canonical lock key for a pair. The two ids are
// sorted before composing, so the key is the same no matter which player's
// call derives it.
func pairLockKey(leagueID, playerA, playerB string) string {
	lo, hi := playerA, playerB
	if hi < lo {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("mm:pair:%s:%s:%s", leagueID, lo, hi)
}

// NoopLocker is the documented single-process default: callers running one
// instance get their exclusion from the repo's atomic create; deployments
// with multiple instances must supply RedisLocker instead.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	return fn()
}
