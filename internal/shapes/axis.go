package shapes

// Epsilon is the single tolerance used by every geometric comparison in this
// package: degenerate box rejection, power-of-two alignment, coordinate
// deduplication while merging and the overlap/gap tests of collision.
const Epsilon = 1e-7

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) Choose(x, y, z int) int {
	switch a {
	case AxisX:
		return x
	case AxisY:
		return y
	default:
		return z
	}
}

func (a Axis) ChooseFloat(x, y, z float64) float64 {
	switch a {
	case AxisX:
		return x
	case AxisY:
		return y
	default:
		return z
	}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// next and prev walk the X -> Y -> Z -> X cycle. For a sweep along a, the two
// cross axes are a.next() and a.prev().
func (a Axis) next() Axis { return (a + 1) % 3 }
func (a Axis) prev() Axis { return (a + 2) % 3 }

type Direction uint8

const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

var Directions = [6]Direction{Down, Up, North, South, West, East}

func (d Direction) Axis() Axis {
	switch d {
	case Down, Up:
		return AxisY
	case North, South:
		return AxisZ
	default:
		return AxisX
	}
}

// Positive reports whether d points along the positive half of its axis.
func (d Direction) Positive() bool {
	return d == Up || d == South || d == East
}

func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Offset is the unit step to the neighbouring cell in direction d.
func (d Direction) Offset() (dx, dy, dz int) {
	switch d {
	case Down:
		return 0, -1, 0
	case Up:
		return 0, 1, 0
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case West:
		return -1, 0, 0
	default:
		return 1, 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	default:
		return "unknown"
	}
}
