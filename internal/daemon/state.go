package daemon

import (
	"sync"
	"time"

	"github.com/keepgenius/jira-notify/internal/booking"
)

// Phase is the position of the polling loop in its state machine.
type Phase int

const (
	// Idle waits for the next tick or the end of the post-reminder pause.
	Idle Phase = iota
	// Checking is running a booking check.
	Checking
	// ReminderActive is showing the reminder and waiting for it to be dismissed.
	ReminderActive
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case ReminderActive:
		return "reminder-active"
	default:
		return "unknown"
	}
}

// State is the loop's in-memory memory. Nothing here survives a restart.
// The loop is the only writer; readers (tray, CLI) take snapshots.
type State struct {
	mu sync.RWMutex

	phase Phase

	// lastCheckedDay is the YYYY-MM-DD of the last positive result.
	// Empty until the first positive result, so the first check always runs.
	lastCheckedDay string

	lastResult    *booking.Result
	lastCheck     time.Time
	nextCheck     time.Time
	checkCount    int
	reminderCount int
}

// NewState creates a fresh state.
func NewState() *State {
	return &State{phase: Idle}
}

// LastCheckedDay returns the date of the last positive result, or "".
func (s *State) LastCheckedDay() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCheckedDay
}

// NeedsCheck reports whether day (YYYY-MM-DD) has not been confirmed yet.
func (s *State) NeedsCheck(day string) bool {
	return s.LastCheckedDay() != day
}

func (s *State) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

func (s *State) recordResult(res booking.Result, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = &res
	s.lastCheck = at
	s.checkCount++
}

func (s *State) markChecked(day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheckedDay = day
}

func (s *State) recordReminder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminderCount++
}

func (s *State) setNextCheck(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCheck = at
}

// Snapshot returns a copy of the current state as a Status.
func (s *State) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Phase:          s.phase,
		LastCheckedDay: s.lastCheckedDay,
		LastCheck:      s.lastCheck,
		NextCheck:      s.nextCheck,
		CheckCount:     s.checkCount,
		ReminderCount:  s.reminderCount,
	}
	if s.lastResult != nil {
		res := *s.lastResult
		st.LastResult = &res
	}
	return st
}
