package golf

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// CPU identifiers are secretCPU-1 .. secretCPU-cpuNumbers
const cpuNumbers = 100

// CPU move pacing
const (
	cpuMoveMin    = 5 * time.Second
	cpuMoveJitter = 5 * time.Second
)

var cpuColors = []string{
	"crimson", "deeppink", "hotpink", "lightcoral", "lightpink", "magenta",
	"mediumvioletred", "orchid", "pink", "plum", "salmon", "tomato",
}

// SpawnCPU adds a computer player to the current level unless it already has MaxBalls balls
// It returns false when the level is full or every CPU identifier is in use
func (s *Service) SpawnCPU() (BallID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, hasLevel := s.reg.current()
	if hasLevel && len(s.reg.ballsIn(cur.ID)) >= s.opts.MaxBalls {
		return 0, false, nil
	}

	num, ok := s.freeCPUNumberLocked(s.rng.Intn(cpuNumbers)+1, cur.ID)
	if !ok {
		return 0, false, nil
	}
	identifier := cpuIdentifier(num)
	color := cpuColors[s.rng.Intn(len(cpuColors))]

	id, err := s.createBallLocked(identifier, color, fmt.Sprintf("CPU %d", num), true)
	if err != nil {
		return 0, false, err
	}

	s.sched.RunAt(s.clock.Now().Add(s.opts.CPUFirstMove), func() {
		s.cpuMove(identifier, id)
	})
	return id, true, nil
}

func cpuIdentifier(num int) string {
	return fmt.Sprintf("secretCPU-%d", num)
}

// freeCPUNumberLocked returns the first CPU number from start on whose identifier
// owns no ball on level; balls left on older levels may be replaced
func (s *Service) freeCPUNumberLocked(start int, level LevelID) (int, bool) {
	for i := 0; i < cpuNumbers; i++ {
		num := (start-1+i)%cpuNumbers + 1
		if b, taken := s.reg.owned(cpuIdentifier(num)); !taken || b.Level != level {
			return num, true
		}
	}
	return 0, false
}

// cpuMove strokes a CPU ball at random and schedules the next move until the ball is finished
// The chain belongs to ball id; it retires once the identifier owns another ball or the level moved on
func (s *Service) cpuMove(identifier string, id BallID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.reg.owned(identifier)
	if !ok || b.ID != id || b.Finished {
		return
	}
	if cur, ok := s.reg.current(); !ok || cur.ID != b.Level {
		s.log.WithField("ball", b.ID).Debug("cpu retired with its level")
		return
	}

	angle := s.rng.Float64() * MaxAngle
	mightiness := s.rng.Float64() * MaxMightiness
	if err := s.publishStrokeLocked(identifier, angle, mightiness); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"ball": b.ID}).Warn("cpu stroke failed")
		return
	}

	delay := cpuMoveMin + time.Duration(s.rng.Int63n(int64(cpuMoveJitter)))
	s.sched.RunAt(s.clock.Now().Add(delay), func() {
		s.cpuMove(identifier, id)
	})
}
