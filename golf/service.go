package golf

import (
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/bouncegolf/physics"
)

// Stroke limits
const (
	MaxAngle      = 180.0
	MaxMightiness = 20.0
)

// Drop zone for new balls
const (
	dropMinX  = 10.0
	dropRange = 200.0
)

// Options configures a Service; zero fields fall back to DefaultOptions
type Options struct {
	RoundLength  time.Duration
	MaxBalls     int
	CPUFirstMove time.Duration
	HoleWidth    float64

	Clock     Clock
	Scheduler Scheduler
	Rand      *rand.Rand
	Log       logrus.FieldLogger
}

// DefaultOptions returns the standard round settings on the system clock
func DefaultOptions() Options {
	return Options{
		RoundLength:  20 * time.Second,
		MaxBalls:     4,
		CPUFirstMove: 7 * time.Second,
		HoleWidth:    30,
	}
}

// Service owns all balls and levels; methods are safe for concurrent use
type Service struct {
	mu    sync.Mutex
	reg   *registry
	opts  Options
	clock Clock
	sched Scheduler
	rng   *rand.Rand
	log   logrus.FieldLogger
}

// NewService creates an empty service
func NewService(opts Options) *Service {
	def := DefaultOptions()
	if opts.RoundLength <= 0 {
		opts.RoundLength = def.RoundLength
	}
	if opts.MaxBalls <= 0 {
		opts.MaxBalls = def.MaxBalls
	}
	if opts.CPUFirstMove <= 0 {
		opts.CPUFirstMove = def.CPUFirstMove
	}
	if opts.HoleWidth <= 0 {
		opts.HoleWidth = def.HoleWidth
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler(opts.Clock)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}

	return &Service{
		reg:   newRegistry(),
		opts:  opts,
		clock: opts.Clock,
		sched: opts.Scheduler,
		rng:   opts.Rand,
		log:   opts.Log,
	}
}

// Close cancels pending settle and CPU jobs
func (s *Service) Close() {
	s.sched.Stop()
}

// CurrentLevel returns the most recently started level
func (s *Service) CurrentLevel() (Level, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.current()
}

// CreateLevel starts a new round, refusing while the current one is still in progress
func (s *Service) CreateLevel() (Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLevelLocked()
}

func (s *Service) createLevelLocked() (Level, error) {
	now := s.clock.Now()
	if cur, ok := s.reg.current(); ok {
		if !CanAdvance(now, s.ballValues(cur.ID), cur, s.opts.RoundLength) {
			return Level{}, ErrRoundInProgress
		}
	}

	l := s.reg.addLevel(GenerateLevel(s.rng, now, s.opts.HoleWidth))
	s.log.WithFields(logrus.Fields{
		"level":  l.ID,
		"hole_x": l.Hole.X1,
	}).Info("level created")
	return l, nil
}

// CreateBall drops a fresh ball for identifier into the current level,
// replacing any ball the identifier owned before
func (s *Service) CreateBall(identifier, color, name string) (BallID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBallLocked(identifier, color, name, false)
}

func (s *Service) createBallLocked(identifier, color, name string, cpu bool) (BallID, error) {
	if identifier == "" {
		return 0, ErrEmptyIdentifier
	}

	lvl, ok := s.reg.current()
	if !ok {
		var err error
		if lvl, err = s.createLevelLocked(); err != nil {
			return 0, errors.Wrap(err, "can't find level but can't create new level")
		}
	}

	if old, ok := s.reg.removeOwned(identifier); ok {
		s.log.WithField("ball", old).Debug("replaced previous ball")
	}

	b := &Ball{
		Level: lvl.ID,
		Name:  name,
		Color: color,
		X:     dropMinX + s.rng.Float64()*dropRange,
		Y:     physics.XMin + ((physics.XMax-physics.XMin)*(1+s.rng.Float64()))/2,
		Ts:    Millis(s.clock.Now()),
		CPU:   cpu,
	}
	id := s.reg.addBall(identifier, b)

	s.log.WithFields(logrus.Fields{
		"ball":  id,
		"level": lvl.ID,
		"x":     b.X,
		"y":     b.Y,
	}).Info("ball created")

	s.scheduleSettleLocked(b)
	return id, nil
}

// SetName renames the ball owned by identifier
func (s *Service) SetName(identifier, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.reg.owned(identifier)
	if !ok {
		return ErrBallNotFound
	}
	b.Name = name
	return nil
}

// PublishStroke hits the ball owned by identifier from its current position
func (s *Service) PublishStroke(identifier string, angleDegrees, mightiness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishStrokeLocked(identifier, angleDegrees, mightiness)
}

func (s *Service) publishStrokeLocked(identifier string, angleDegrees, mightiness float64) error {
	b, ok := s.reg.owned(identifier)
	if !ok {
		return ErrBallNotFound
	}
	// Negated comparisons also reject NaN
	if !(angleDegrees >= -MaxAngle && angleDegrees <= MaxAngle) {
		return errors.Wrapf(ErrInvalidAngle, "got %v", angleDegrees)
	}
	if !(mightiness >= 0 && mightiness <= MaxMightiness) {
		return errors.Wrapf(ErrTooMighty, "got %v", mightiness)
	}
	if _, ok := s.reg.current(); !ok {
		return ErrNoLevel
	}

	now := Millis(s.clock.Now())
	at := physics.Project(b.Physics(), now).Ball
	launched := physics.Launch(physics.NewBall(at.X, at.Y, 0, 0, now), angleDegrees, mightiness)

	b.place(launched)
	b.Strokes++
	b.Updates++
	b.Finished = false
	b.Grounded = false

	s.log.WithFields(logrus.Fields{
		"ball":       b.ID,
		"angle":      angleDegrees,
		"mightiness": mightiness,
		"strokes":    b.Strokes,
	}).Info("stroke")

	s.scheduleSettleLocked(b)
	return nil
}

// scheduleSettleLocked arranges for SettleBall to run when b's current flight ends
func (s *Service) scheduleSettleLocked(b *Ball) {
	eventual := physics.Eventual(b.Physics())
	id, update := b.ID, b.Updates

	s.sched.RunAt(FromMillis(eventual.Ball.Ts), func() {
		if err := s.SettleBall(id, update); err != nil {
			s.log.WithError(err).WithField("ball", id).Warn("settle failed")
		}
	})
}

// SettleBall stores the rest position of a ball once its flight is over
// lastUpdate is the update counter the job was scheduled for; a newer stroke makes it stale
func (s *Service) SettleBall(id BallID, lastUpdate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.reg.ball(id)
	if !ok {
		return errors.Wrapf(ErrBallNotFound, "ball %d", id)
	}
	if b.Updates != lastUpdate {
		s.log.WithFields(logrus.Fields{
			"ball":        id,
			"last_update": lastUpdate,
			"updates":     b.Updates,
		}).Debug("skipping stale settle")
		return nil
	}
	lvl, ok := s.reg.level(b.Level)
	if !ok {
		return errors.Wrapf(ErrLevelNotFound, "level %d", b.Level)
	}

	p := physics.Eventual(b.Physics())
	if p.Outcome == physics.OutcomeOutOfBounds {
		// Back to where the stroke started, then let it drop
		p = physics.Eventual(physics.NewBall(b.X, b.Y, 0, 0, b.Ts))
	}
	if p.Outcome == physics.OutcomeExhausted {
		s.log.WithField("ball", id).Warn("simulation ran out of steps, dropping ball in place")
	}

	b.place(p.Ball.WithVelocity(0, 0))
	b.Updates++
	b.Grounded = true
	b.Finished = p.Resting() && lvl.Hole.Contains(b.X)

	s.log.WithFields(logrus.Fields{
		"ball":     id,
		"x":        b.X,
		"outcome":  p.Outcome.String(),
		"finished": b.Finished,
	}).Info("ball settled")
	return nil
}

// Ball returns a copy of a ball
func (s *Service) Ball(id BallID) (Ball, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.reg.ball(id)
	if !ok {
		return Ball{}, ErrBallNotFound
	}
	return *b, nil
}

// Position projects a ball to the current time
func (s *Service) Position(id BallID) (physics.Projection, error) {
	b, err := s.Ball(id)
	if err != nil {
		return physics.Projection{}, err
	}
	return physics.Project(b.Physics(), Millis(s.clock.Now())), nil
}

// Balls returns the current level's balls in join order
func (s *Service) Balls() []Ball {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.reg.current()
	if !ok {
		return nil
	}
	return s.ballValues(cur.ID)
}

func (s *Service) ballValues(level LevelID) []Ball {
	ptrs := s.reg.ballsIn(level)
	out := make([]Ball, len(ptrs))
	for i, b := range ptrs {
		out[i] = *b
	}
	return out
}

// Standings ranks the current level: finished balls first, then fewest strokes, then join order
func (s *Service) Standings() []Ball {
	balls := s.Balls()
	sort.SliceStable(balls, func(i, j int) bool {
		if balls[i].Finished != balls[j].Finished {
			return balls[i].Finished
		}
		return balls[i].Strokes < balls[j].Strokes
	})
	return balls
}
