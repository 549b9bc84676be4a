package users

import (
	"sync"
	"time"
)

// RunState is an in-flight lookup for one chat.
type RunState struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"started_at"`
}

const (
	StageDownloading = "downloading"
)

// Tracker allows one lookup per chat at a time.
type Tracker struct {
	mu   sync.RWMutex
	runs map[int64]RunState
}

func NewTracker() *Tracker {
	return &Tracker{runs: make(map[int64]RunState)}
}

// Begin registers a run for chatID. It returns false when one is already
// in flight.
func (t *Tracker) Begin(chatID int64, username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.runs[chatID]; busy {
		return false
	}
	t.runs[chatID] = RunState{
		ChatID:    chatID,
		Username:  username,
		Stage:     StageDownloading,
		StartedAt: time.Now(),
	}
	return true
}

// SetStage records the current stage of the run for chatID, if any.
func (t *Tracker) SetStage(chatID int64, stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if run, ok := t.runs[chatID]; ok {
		run.Stage = stage
		t.runs[chatID] = run
	}
}

func (t *Tracker) Get(chatID int64) (RunState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	run, ok := t.runs[chatID]
	return run, ok
}

// End releases chatID.
func (t *Tracker) End(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.runs, chatID)
}

// GetAll returns a snapshot of all runs.
func (t *Tracker) GetAll() []RunState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := make([]RunState, 0, len(t.runs))
	for _, run := range t.runs {
		all = append(all, run)
	}
	return all
}
