// Path: internal/search/debounce.go
package search

import (
	"sync"
	"time"
)

// Debounce delays by input class. Short queries are usually mid-typing or
// typos and deserve a longer wait; longer queries are more likely
// deliberate and should feel responsive. Non-text filter toggles are
// discrete actions and recompute near-instantly. URL sync is debounced
// separately, and longer, to avoid flooding navigation history.
const (
	DelayCleared     = 100 * time.Millisecond
	DelayShortQuery  = 600 * time.Millisecond // 1-2 chars
	DelayMediumQuery = 500 * time.Millisecond // 3-5 chars
	DelayLongQuery   = 400 * time.Millisecond // 6+ chars
	DelayFilter      = 200 * time.Millisecond
	URLSyncDelay     = 800 * time.Millisecond
)

// Delay picks the debounce delay for a spec change. A changed search text
// is classified by its new length; any other change (tracks, countries,
// ranges, sort) gets the flat filter delay.
func Delay(prev, next FilterSpec) time.Duration {
	if next.Search == prev.Search {
		return DelayFilter
	}
	switch n := len([]rune(next.Search)); {
	case n == 0:
		return DelayCleared
	case n <= 2:
		return DelayShortQuery
	case n <= 5:
		return DelayMediumQuery
	default:
		return DelayLongQuery
	}
}

// Scheduler holds at most one outstanding timer. Scheduling cancels any
// pending callback and replaces it: no stacking, no cumulative delay,
// last write wins. Use one Scheduler per concern (result recompute and
// URL sync each get their own).
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewScheduler returns a scheduler with nothing pending.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule cancels any pending callback and arms fn to run after d.
// fn runs on its own goroutine when the timer fires.
func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, fn)
}

// Stop cancels the pending callback, if any, and reports whether one was
// cancelled before firing.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return false
	}
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}
