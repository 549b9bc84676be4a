// Package state tracks per-user daily lookup quotas on top of a counter
// store.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/utils"
)

var ErrLimitReached = errors.New("daily limit reached")

// Store persists usage counters and the limit. *redis.DBManager satisfies it.
type Store interface {
	IncrementUsage(ctx context.Context, day, username string) (int, error)
	ReleaseUsage(ctx context.Context, day, username string) error
	GetUsage(ctx context.Context, day, username string) (int, error)
	IncrementTotal(ctx context.Context, username string) error
	GetTotals(ctx context.Context) (map[string]int, error)
	GetLimit(ctx context.Context) (int, bool, error)
	SetLimit(ctx context.Context, limit int) error
}

// Usage is a user's lookup count for the current day. A Limit of zero
// means unlimited.
type Usage struct {
	Used  int
	Limit int
}

func (u Usage) Exhausted() bool {
	return u.Limit > 0 && u.Used >= u.Limit
}

type StateManager struct {
	mu    sync.RWMutex
	store Store
	limit int
	now   func() time.Time
}

func NewStateManager(store Store, defaultLimit int) *StateManager {
	return &StateManager{
		store: store,
		limit: defaultLimit,
		now:   time.Now,
	}
}

// Init picks up a limit stored by an earlier /limit call.
func (sm *StateManager) Init(ctx context.Context) error {
	limit, ok, err := sm.store.GetLimit(ctx)
	if err != nil {
		return fmt.Errorf("failed to load limit: %w", err)
	}
	if ok {
		sm.mu.Lock()
		sm.limit = limit
		sm.mu.Unlock()
	}
	return nil
}

func (sm *StateManager) today() string {
	return utils.MoscowDay(sm.now())
}

// Check returns the caller's usage and ErrLimitReached when the quota is
// used up.
func (sm *StateManager) Check(ctx context.Context, username string) (Usage, error) {
	used, err := sm.store.GetUsage(ctx, sm.today(), username)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read usage: %w", err)
	}
	u := Usage{Used: used, Limit: sm.GetLimit()}
	if u.Exhausted() {
		return u, ErrLimitReached
	}
	return u, nil
}

// Reserve takes one lookup from the quota of username. The counter is
// incremented first and the returned value compared, so concurrent runs of
// one user cannot overshoot the limit. A rejected reservation is rolled back
// and reported as ErrLimitReached.
func (sm *StateManager) Reserve(ctx context.Context, username string) (Usage, error) {
	day := sm.today()
	used, err := sm.store.IncrementUsage(ctx, day, username)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to reserve lookup: %w", err)
	}
	u := Usage{Used: used, Limit: sm.GetLimit()}
	if u.Limit > 0 && used > u.Limit {
		if err := sm.store.ReleaseUsage(ctx, day, username); err != nil {
			logger.Error(fmt.Sprintf("error happened while rolling back usage of %s: %v", username, err))
		}
		u.Used = used - 1
		return u, ErrLimitReached
	}
	return u, nil
}

// Release returns a reservation whose lookup never ran.
func (sm *StateManager) Release(ctx context.Context, username string) error {
	return sm.store.ReleaseUsage(ctx, sm.today(), username)
}

// Commit adds a reserved lookup that ran to the all-time totals.
func (sm *StateManager) Commit(ctx context.Context, username string) error {
	return sm.store.IncrementTotal(ctx, username)
}

func (sm *StateManager) Totals(ctx context.Context) (map[string]int, error) {
	return sm.store.GetTotals(ctx)
}

func (sm *StateManager) GetLimit() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.limit
}

func (sm *StateManager) SetLimit(ctx context.Context, limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if err := sm.store.SetLimit(ctx, limit); err != nil {
		return fmt.Errorf("error happened while updating the redis limit: %w", err)
	}
	sm.limit = limit
	return nil
}
