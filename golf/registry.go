package golf

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/zeebo/xxh3"
)

// registry keeps balls in join order and levels in creation order
// Identifiers are never stored; only their xxh3 hash is indexed
// Not safe for concurrent use; Service serializes access
type registry struct {
	balls   *orderedmap.OrderedMap[BallID, *Ball]
	owners  map[uint64]BallID
	ownerOf map[BallID]uint64

	levels []Level

	nextBall  BallID
	nextLevel LevelID
}

func newRegistry() *registry {
	return &registry{
		balls:   orderedmap.NewOrderedMap[BallID, *Ball](),
		owners:  make(map[uint64]BallID),
		ownerOf: make(map[BallID]uint64),
	}
}

func hashIdentifier(identifier string) uint64 {
	return xxh3.HashString(identifier)
}

// addBall assigns an ID to b and binds it to identifier
func (r *registry) addBall(identifier string, b *Ball) BallID {
	r.nextBall++
	b.ID = r.nextBall

	key := hashIdentifier(identifier)
	r.balls.Set(b.ID, b)
	r.owners[key] = b.ID
	r.ownerOf[b.ID] = key
	return b.ID
}

// removeOwned deletes the ball bound to identifier, if any
func (r *registry) removeOwned(identifier string) (BallID, bool) {
	key := hashIdentifier(identifier)
	id, ok := r.owners[key]
	if !ok {
		return 0, false
	}
	r.balls.Delete(id)
	delete(r.owners, key)
	delete(r.ownerOf, id)
	return id, true
}

func (r *registry) ball(id BallID) (*Ball, bool) {
	return r.balls.Get(id)
}

func (r *registry) owned(identifier string) (*Ball, bool) {
	id, ok := r.owners[hashIdentifier(identifier)]
	if !ok {
		return nil, false
	}
	return r.balls.Get(id)
}

// ballsIn returns the balls of level in join order
func (r *registry) ballsIn(level LevelID) []*Ball {
	var out []*Ball
	for el := r.balls.Front(); el != nil; el = el.Next() {
		if el.Value.Level == level {
			out = append(out, el.Value)
		}
	}
	return out
}

func (r *registry) addLevel(l Level) Level {
	r.nextLevel++
	l.ID = r.nextLevel
	r.levels = append(r.levels, l)
	return l
}

// current returns the most recently started level
func (r *registry) current() (Level, bool) {
	if len(r.levels) == 0 {
		return Level{}, false
	}
	latest := r.levels[0]
	for _, l := range r.levels[1:] {
		if !l.Started.Before(latest.Started) {
			latest = l
		}
	}
	return latest, true
}

func (r *registry) level(id LevelID) (Level, bool) {
	for _, l := range r.levels {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}
