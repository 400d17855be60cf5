package golf

import (
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Scheduler runs deferred jobs; RunAt must not invoke fn synchronously
type Scheduler interface {
	RunAt(at time.Time, fn func())
	Stop()
}

// TimerScheduler runs jobs on time.AfterFunc timers
// Panics inside jobs are recovered and reported to sentry
type TimerScheduler struct {
	mu      sync.Mutex
	clock   Clock
	timers  map[*time.Timer]struct{}
	stopped bool
}

// NewTimerScheduler creates a scheduler measuring delays against clock
func NewTimerScheduler(clock Clock) *TimerScheduler {
	return &TimerScheduler{
		clock:  clock,
		timers: make(map[*time.Timer]struct{}),
	}
}

// RunAt schedules fn for at; times in the past fire immediately
func (s *TimerScheduler) RunAt(at time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(at.Sub(s.clock.Now()), func() {
		s.mu.Lock()
		delete(s.timers, t)
		stopped := s.stopped
		s.mu.Unlock()

		if stopped {
			return
		}

		defer sentry.Recover()
		fn()
	})
	s.timers[t] = struct{}{}
}

// Pending returns the number of jobs not yet fired
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending job; later RunAt calls are dropped
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for t := range s.timers {
		t.Stop()
	}
	clear(s.timers)
}
