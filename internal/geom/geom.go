package geom

import "math"

// Direction is one of the four cardinal facings used by NPC sprites
// and movement. The zero value is Down, the default facing for
// top-down sprite sheets.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

// Cardinals lists all four directions in a fixed order, for iteration.
var Cardinals = [4]Direction{Down, Up, Left, Right}

var directionNames = [4]string{"down", "up", "left", "right"}

func (d Direction) String() string {
	if d < Down || d > Right {
		return "down"
	}
	return directionNames[d]
}

// ParseDirection maps a content-authored direction name to a Direction.
// Unknown names fall back to Down.
func ParseDirection(s string) Direction {
	switch s {
	case "up":
		return Up
	case "left":
		return Left
	case "right":
		return Right
	default:
		return Down
	}
}

// Delta returns the unit displacement for one tile of travel in d.
// Y grows downward, matching tile-file row order.
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Position is a continuous 2D coordinate in tile units.
type Position struct {
	X float64
	Y float64
}

// Add returns p displaced by dist tiles in direction d.
func (p Position) Add(d Direction, dist float64) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx*dist, Y: p.Y + dy*dist}
}

// Dist returns the straight-line distance between two positions.
func Dist(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DominantAxis returns the facing for a displacement vector: the axis
// with the larger magnitude wins, ties go to the horizontal axis.
func DominantAxis(dx, dy float64) Direction {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx < 0 {
			return Left
		}
		return Right
	}
	if dy < 0 {
		return Up
	}
	return Down
}

// Size is an entity footprint in tile units.
type Size struct {
	W float64
	H float64
}

// DefaultFootprint is the footprint used when content does not
// specify one: a single tile.
var DefaultFootprint = Size{W: 1, H: 1}
