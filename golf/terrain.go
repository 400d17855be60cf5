package golf

import (
	"math/rand"
	"sort"

	"github.com/lixenwraith/bouncegolf/physics"
)

// Terrain shape
const (
	terrainStep      = 100.0
	terrainMaxHeight = 40.0
	// Ground under the drop zone stays flat
	teeFlatX = 250.0
)

// Segment is one straight piece of ground
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// generateTerrain samples ground heights every terrainStep plus both hole edges
// The tee and the hole are kept at floor level
func generateTerrain(rng *rand.Rand, hole Hole) (domain, elevation []float64) {
	for x := physics.XMin; x < physics.XMax; x += terrainStep {
		if x < hole.X1 || x > hole.X2 {
			domain = append(domain, x)
		}
	}
	domain = append(domain, hole.X1, hole.X2)
	sort.Float64s(domain)

	elevation = make([]float64, len(domain))
	for i, x := range domain {
		if x <= teeFlatX || hole.Contains(x) {
			elevation[i] = physics.YMin
			continue
		}
		elevation[i] = physics.YMin + rng.Float64()*terrainMaxHeight
	}
	return domain, elevation
}

// GroundLines returns the ground as connected segments from the first domain point to XMax
// The last height is held flat up to XMax
func (l Level) GroundLines() []Segment {
	n := min(len(l.Domain), len(l.Elevation))
	if n == 0 {
		return nil
	}

	lines := make([]Segment, 0, n)
	for i := 0; i+1 < n; i++ {
		lines = append(lines, Segment{
			X1: l.Domain[i], Y1: l.Elevation[i],
			X2: l.Domain[i+1], Y2: l.Elevation[i+1],
		})
	}
	if last := l.Domain[n-1]; last < physics.XMax {
		lines = append(lines, Segment{
			X1: last, Y1: l.Elevation[n-1],
			X2: physics.XMax, Y2: l.Elevation[n-1],
		})
	}
	return lines
}

// RelevantLand returns the ground segments overlapping [x1, x2]
func (l Level) RelevantLand(x1, x2 float64) []Segment {
	var out []Segment
	for _, seg := range l.GroundLines() {
		if seg.X2 >= x1 && seg.X1 <= x2 {
			out = append(out, seg)
		}
	}
	return out
}

// ElevationAt interpolates the ground height at x; a level without terrain is flat at YMin
func (l Level) ElevationAt(x float64) float64 {
	for _, seg := range l.RelevantLand(x, x) {
		if seg.X2 == seg.X1 {
			return seg.Y1
		}
		t := (x - seg.X1) / (seg.X2 - seg.X1)
		return seg.Y1 + t*(seg.Y2-seg.Y1)
	}
	return physics.YMin
}
