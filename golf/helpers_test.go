package golf

import (
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var testEpoch = time.UnixMilli(1_700_000_000_000)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

type job struct {
	at time.Time
	fn func()
}

// manualScheduler queues jobs until the test runs them
type manualScheduler struct {
	mu      sync.Mutex
	jobs    []job
	stopped bool
}

func (m *manualScheduler) RunAt(at time.Time, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.jobs = append(m.jobs, job{at: at, fn: fn})
}

func (m *manualScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.jobs = nil
}

func (m *manualScheduler) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// RunDue runs every job due at or before now in time order, including jobs queued meanwhile
func (m *manualScheduler) RunDue(now time.Time) int {
	ran := 0
	for {
		m.mu.Lock()
		sort.SliceStable(m.jobs, func(i, j int) bool { return m.jobs[i].at.Before(m.jobs[j].at) })
		if len(m.jobs) == 0 || m.jobs[0].at.After(now) {
			m.mu.Unlock()
			return ran
		}
		next := m.jobs[0]
		m.jobs = m.jobs[1:]
		m.mu.Unlock()

		next.fn()
		ran++
	}
}

type fixture struct {
	svc   *Service
	clock *fakeClock
	sched *manualScheduler
	hook  *test.Hook
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	clock := &fakeClock{now: testEpoch}
	sched := &manualScheduler{}
	opts := DefaultOptions()
	opts.Clock = clock
	opts.Scheduler = sched
	opts.Rand = rand.New(rand.NewSource(1))
	opts.Log = logger
	for _, m := range mutate {
		m(&opts)
	}

	svc := NewService(opts)
	t.Cleanup(svc.Close)
	return &fixture{svc: svc, clock: clock, sched: sched, hook: hook}
}

// settleAll advances far enough for any flight to end and runs the due jobs
func (f *fixture) settleAll() {
	f.sched.RunDue(f.clock.Advance(15 * time.Second))
}

// owned exposes the stored ball for white-box setup
func (f *fixture) owned(t *testing.T, identifier string) *Ball {
	t.Helper()
	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	b, ok := f.svc.reg.owned(identifier)
	if !ok {
		t.Fatalf("no ball for %s", identifier)
	}
	return b
}

func (f *fixture) setHole(h Hole) {
	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	last := len(f.svc.reg.levels) - 1
	f.svc.reg.levels[last].Hole = h
}
