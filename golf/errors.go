package golf

import "github.com/pkg/errors"

var (
	ErrEmptyIdentifier = errors.New("identifier is required")
	ErrBallNotFound    = errors.New("ball not found")
	ErrLevelNotFound   = errors.New("level not found")
	ErrNoLevel         = errors.New("no current level")
	ErrInvalidAngle    = errors.New("angle must be in degrees, -180 to 180")
	ErrTooMighty       = errors.New("mightiness must be between 0 and 20")
	ErrRoundInProgress = errors.New("current round is still in progress")
)
