// Package budget tracks the process-wide daily budget of upstream news
// API calls. The counter resets lazily at the UTC day boundary; there is
// no background timer.
package budget

import (
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// Stats is a read-only snapshot of the tracker state.
type Stats struct {
	Date       string `json:"date"`
	DailyCount int    `json:"dailyCount"`
	Remaining  int    `json:"remaining"`
}

// Tracker counts upstream calls made in the current UTC day against a
// fixed ceiling. One instance guards the whole process; it is injected
// into the gateway rather than held as a package global so tests can run
// isolated instances.
type Tracker struct {
	mu      sync.Mutex
	ceiling int
	date    string
	count   int
	now     func() time.Time
}

// New creates a tracker with the given daily ceiling.
func New(ceiling int) *Tracker {
	return &Tracker{ceiling: ceiling, now: time.Now}
}

// TryConsume attempts to charge one unit of budget. It returns whether
// the call is permitted and how many units remain. The increment and the
// ceiling comparison happen under one lock so concurrent bursts can never
// jointly overshoot the ceiling.
func (t *Tracker) TryConsume() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollDayLocked()

	if t.count+1 > t.ceiling {
		return false, t.remainingLocked()
	}
	t.count++
	return true, t.remainingLocked()
}

// Stats returns the current day, count and remaining budget.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollDayLocked()

	return Stats{
		Date:       t.date,
		DailyCount: t.count,
		Remaining:  t.remainingLocked(),
	}
}

// Ceiling returns the configured daily limit.
func (t *Tracker) Ceiling() int {
	return t.ceiling
}

// rollDayLocked resets the counter when the UTC calendar date has
// advanced past the stored one. Callers must hold t.mu.
func (t *Tracker) rollDayLocked() {
	today := t.now().UTC().Format(dateLayout)
	if t.date != today {
		t.date = today
		t.count = 0
	}
}

func (t *Tracker) remainingLocked() int {
	r := t.ceiling - t.count
	if r < 0 {
		return 0
	}
	return r
}
