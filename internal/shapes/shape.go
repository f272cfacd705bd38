package shapes

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync/atomic"
)

// Kind is the representation behind a Shape.
type Kind uint8

const (
	// KindCube is a uniform power-of-two subdivision of the unit cube.
	KindCube Kind = iota
	// KindArray carries explicit coordinates per axis.
	KindArray
	// KindBox is a single box.
	KindBox
	// KindSlice is a one cell thick cross-section of another shape.
	KindSlice
)

func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindArray:
		return "array"
	case KindBox:
		return "box"
	case KindSlice:
		return "slice"
	default:
		return "unknown"
	}
}

// Shape is an immutable region made of axis-aligned cells. The grid decides
// which cells are full and coords map grid boundaries to positions: cell i on
// an axis spans [coords[i], coords[i+1]).
//
// Face shapes, the box list and the optimized form are cached on first use.
// Concurrent first use may compute a value twice; the first stored wins.
type Shape struct {
	kind   Kind
	grid   Grid
	coords [3]Coords
	box    Box

	faces     [6]atomic.Pointer[Shape]
	boxes     atomic.Pointer[[]Box]
	optimized atomic.Pointer[Shape]
}

var (
	unitBox       = Box{MaxX: 1, MaxY: 1, MaxZ: 1}
	unitGrid      = filledGrid(1, 1, 1, 0, 0, 0, 1, 1, 1)
	blockShape    = newCubeShape(unitGrid)
	emptyShape    = newArrayShape(newBitGrid(0, 0, 0), pointList{0}, pointList{0}, pointList{0})
	infinityShape = Create(math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(1), math.Inf(1), math.Inf(1))
)

// Empty returns the shared shape with no cells.
func Empty() *Shape { return emptyShape }

// Block returns the shared full unit cube.
func Block() *Shape { return blockShape }

// Infinity returns the shared shape covering all of space.
func Infinity() *Shape { return infinityShape }

func newCubeShape(g Grid) *Shape {
	return &Shape{
		kind: KindCube,
		grid: g,
		coords: [3]Coords{
			cubePoints(g.Size(AxisX)),
			cubePoints(g.Size(AxisY)),
			cubePoints(g.Size(AxisZ)),
		},
	}
}

func newArrayShape(g Grid, xs, ys, zs Coords) *Shape {
	s := &Shape{kind: KindArray, grid: g, coords: [3]Coords{xs, ys, zs}}
	for _, axis := range Axes {
		if s.coords[axis].Len() != g.Size(axis)+1 {
			panic(fmt.Sprintf("shapes: %d %s coordinates for a grid of %d cells", s.coords[axis].Len(), axis, g.Size(axis)))
		}
	}
	return s
}

// FromBox wraps a single box. Boxes thinner than Epsilon on any axis give the
// empty shape.
func FromBox(b Box) *Shape {
	if b.IsEmpty() {
		return Empty()
	}
	return &Shape{
		kind: KindBox,
		grid: unitGrid,
		coords: [3]Coords{
			pointList{b.MinX, b.MaxX},
			pointList{b.MinY, b.MaxY},
			pointList{b.MinZ, b.MaxZ},
		},
		box: b,
	}
}

// NewBox validates min <= max on every axis and builds the most compact shape
// for the box.
func NewBox(minX, minY, minZ, maxX, maxY, maxZ float64) (*Shape, error) {
	if !(minX <= maxX) || !(minY <= maxY) || !(minZ <= maxZ) {
		return nil, fmt.Errorf("%w: min (%g, %g, %g) max (%g, %g, %g)", ErrInvalidBounds, minX, minY, minZ, maxX, maxY, maxZ)
	}
	return Create(minX, minY, minZ, maxX, maxY, maxZ), nil
}

// MustBox is NewBox for literal shapes; it panics on invalid bounds.
func MustBox(minX, minY, minZ, maxX, maxY, maxZ float64) *Shape {
	s, err := NewBox(minX, minY, minZ, maxX, maxY, maxZ)
	if err != nil {
		panic(err)
	}
	return s
}

// Create builds a box shape without validating the bounds. Boxes aligned to
// a power-of-two subdivision of the unit cube (up to eighths) on all axes
// become cube shapes; the unit cube itself is Block.
func Create(minX, minY, minZ, maxX, maxY, maxZ float64) *Shape {
	if !(maxX-minX >= Epsilon) || !(maxY-minY >= Epsilon) || !(maxZ-minZ >= Epsilon) {
		return Empty()
	}
	bx := findBits(minX, maxX)
	by := findBits(minY, maxY)
	bz := findBits(minZ, maxZ)
	if bx < 0 || by < 0 || bz < 0 {
		return newArrayShape(unitGrid, pointList{minX, maxX}, pointList{minY, maxY}, pointList{minZ, maxZ})
	}
	if bx == 0 && by == 0 && bz == 0 {
		return Block()
	}
	nx, ny, nz := 1<<bx, 1<<by, 1<<bz
	g := filledGrid(nx, ny, nz,
		int(math.Round(minX*float64(nx))), int(math.Round(minY*float64(ny))), int(math.Round(minZ*float64(nz))),
		int(math.Round(maxX*float64(nx))), int(math.Round(maxY*float64(ny))), int(math.Round(maxZ*float64(nz))))
	return newCubeShape(g)
}

// findBits returns the smallest exponent i in [0, 3] such that both bounds
// are multiples of 2^-i within Epsilon, or -1.
func findBits(lo, hi float64) int {
	if lo < -Epsilon || hi > 1+Epsilon {
		return -1
	}
	for i := 0; i <= 3; i++ {
		n := float64(int(1) << i)
		a, b := lo*n, hi*n
		tolerance := Epsilon * n
		if math.Abs(a-math.Round(a)) < tolerance && math.Abs(b-math.Round(b)) < tolerance {
			return i
		}
	}
	return -1
}

func (s *Shape) Kind() Kind { return s.kind }

func (s *Shape) Grid() Grid { return s.grid }

func (s *Shape) Coordinates(axis Axis) Coords { return s.coords[axis] }

func (s *Shape) coord(axis Axis, i int) float64 { return s.coords[axis].At(i) }

func (s *Shape) IsEmpty() bool {
	if s.kind == KindBox {
		return s.box.IsEmpty()
	}
	return s.grid.IsEmpty()
}

// Min is the lowest position of any full cell along axis, +Inf when empty.
func (s *Shape) Min(axis Axis) float64 {
	if s.kind == KindBox {
		return s.box.Min(axis)
	}
	first := s.grid.FirstFull(axis)
	if first >= s.grid.Size(axis) {
		return math.Inf(1)
	}
	return s.coord(axis, first)
}

// Max is the highest position of any full cell along axis, -Inf when empty.
func (s *Shape) Max(axis Axis) float64 {
	if s.kind == KindBox {
		return s.box.Max(axis)
	}
	last := s.grid.LastFull(axis)
	if last <= 0 {
		return math.Inf(-1)
	}
	return s.coord(axis, last)
}

// MinAlong is Min restricted to the line along axis through primary on
// axis.next() and secondary on axis.prev().
func (s *Shape) MinAlong(axis Axis, primary, secondary float64) float64 {
	i := s.findIndex(axis.next(), primary)
	j := s.findIndex(axis.prev(), secondary)
	first := FirstFullAlong(s.grid, axis, i, j)
	if first >= s.grid.Size(axis) {
		return math.Inf(1)
	}
	return s.coord(axis, first)
}

func (s *Shape) MaxAlong(axis Axis, primary, secondary float64) float64 {
	i := s.findIndex(axis.next(), primary)
	j := s.findIndex(axis.prev(), secondary)
	last := LastFullAlong(s.grid, axis, i, j)
	if last <= 0 {
		return math.Inf(-1)
	}
	return s.coord(axis, last)
}

func (s *Shape) Bounds() (Box, error) {
	if s.IsEmpty() {
		return Box{}, ErrEmptyShape
	}
	if s.kind == KindBox {
		return s.box, nil
	}
	return Box{
		MinX: s.Min(AxisX), MinY: s.Min(AxisY), MinZ: s.Min(AxisZ),
		MaxX: s.Max(AxisX), MaxY: s.Max(AxisY), MaxZ: s.Max(AxisZ),
	}, nil
}

// findIndex returns the cell containing position along axis: -1 below the
// first coordinate, Size(axis) at or above the last.
func (s *Shape) findIndex(axis Axis, position float64) int {
	c := s.coords[axis]
	return sort.Search(s.grid.Size(axis)+1, func(i int) bool {
		return position < c.At(i)
	}) - 1
}

func (s *Shape) Move(dx, dy, dz float64) *Shape {
	if s.IsEmpty() {
		return Empty()
	}
	if s.kind == KindBox {
		return FromBox(s.box.Move(dx, dy, dz))
	}
	return newArrayShape(s.grid,
		offsetCoords(s.coords[AxisX], dx),
		offsetCoords(s.coords[AxisY], dy),
		offsetCoords(s.coords[AxisZ], dz))
}

func (s *Shape) Intersects(b Box) bool {
	return JoinIsNotEmpty(s, FromBox(b), And)
}

// ForAllBoxes visits a non-overlapping set of boxes that covers the shape
// exactly.
func (s *Shape) ForAllBoxes(fn func(b Box)) {
	if s.kind == KindBox {
		fn(s.box)
		return
	}
	ForAllBoxes(s.grid, true, func(x1, y1, z1, x2, y2, z2 int) {
		fn(Box{
			MinX: s.coord(AxisX, x1), MinY: s.coord(AxisY, y1), MinZ: s.coord(AxisZ, z1),
			MaxX: s.coord(AxisX, x2), MaxY: s.coord(AxisY, y2), MaxZ: s.coord(AxisZ, z2),
		})
	})
}

// Boxes returns the ForAllBoxes decomposition as a fresh slice.
func (s *Shape) Boxes() []Box {
	if cached := s.boxes.Load(); cached != nil {
		return slices.Clone(*cached)
	}
	var out []Box
	s.ForAllBoxes(func(b Box) {
		out = append(out, b)
	})
	s.boxes.CompareAndSwap(nil, &out)
	return slices.Clone(*s.boxes.Load())
}

// Optimize rebuilds the shape as the union of its decomposed boxes. The
// result is cached and optimizing it again returns it unchanged.
func (s *Shape) Optimize() *Shape {
	if o := s.optimized.Load(); o != nil {
		return o
	}
	var out *Shape
	switch {
	case s.IsEmpty():
		out = Empty()
	case s.kind == KindBox:
		out = s
		if s.box == unitBox {
			out = Block()
		}
	default:
		out = Empty()
		s.ForAllBoxes(func(b Box) {
			out = JoinUnoptimized(out, Create(b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ), Or)
		})
	}
	out.optimized.CompareAndSwap(nil, out)
	s.optimized.CompareAndSwap(nil, out)
	observe().ShapeOptimized()
	return s.optimized.Load()
}

// FaceShape returns the part of the shape that touches the face of the unit
// cube in direction d, flattened to a one cell slice. Shapes that already
// span exactly [0, 1] on d's axis are returned as is.
func (s *Shape) FaceShape(d Direction) *Shape {
	if s.IsEmpty() || s == blockShape {
		return s
	}
	if f := s.faces[d].Load(); f != nil {
		return f
	}
	s.faces[d].CompareAndSwap(nil, s.computeFace(d))
	return s.faces[d].Load()
}

func (s *Shape) computeFace(d Direction) *Shape {
	axis := d.Axis()
	from := Epsilon
	if d.Positive() {
		from = 1 - Epsilon
	}
	if s.kind == KindBox {
		if from >= s.box.Max(axis) || s.box.Min(axis) > from {
			return Empty()
		}
		return FromBox(s.box.withRange(axis, 0, 1)).Optimize()
	}
	c := s.coords[axis]
	if c.Len() == 2 && fuzzyEquals(c.At(0), 0) && fuzzyEquals(c.At(1), 1) {
		return s
	}
	return newSliceShape(s, axis, s.findIndex(axis, from))
}

// newSliceShape cuts the cell layer at index along axis out of parent. The
// sliced axis is mapped to [0, 1].
func newSliceShape(parent *Shape, axis Axis, index int) *Shape {
	if index < 0 || index >= parent.grid.Size(axis) {
		return Empty()
	}
	var start, end [3]int
	for _, a := range Axes {
		end[a] = parent.grid.Size(a)
	}
	start[axis], end[axis] = index, index+1
	s := &Shape{
		kind:   KindSlice,
		grid:   newSubGrid(parent.grid, start, end),
		coords: parent.coords,
	}
	s.coords[axis] = cubePoints(1)
	return s
}

// Collide returns how far box may travel along axis, up to distance, before
// it enters one of the shape's full cells. Cells the box already overlaps by
// more than Epsilon are ignored.
func (s *Shape) Collide(axis Axis, box Box, distance float64) float64 {
	if math.Abs(distance) < Epsilon {
		return 0
	}
	if s.IsEmpty() {
		return distance
	}
	if s.kind == KindBox {
		return Collide(axis, box, s.box, distance)
	}
	b, c := axis.next(), axis.prev()
	minB := max(0, s.findIndex(b, box.Min(b)+Epsilon))
	maxB := min(s.grid.Size(b), s.findIndex(b, box.Max(b)-Epsilon)+1)
	minC := max(0, s.findIndex(c, box.Min(c)+Epsilon))
	maxC := min(s.grid.Size(c), s.findIndex(c, box.Max(c)-Epsilon)+1)
	size := s.grid.Size(axis)

	if distance > 0 {
		edge := box.Max(axis)
		for a := s.findIndex(axis, edge-Epsilon) + 1; a < size; a++ {
			for j := minB; j < maxB; j++ {
				for k := minC; k < maxC; k++ {
					if !cycledFull(s.grid, axis, a, j, k) {
						continue
					}
					if gap := s.coord(axis, a) - edge; gap >= -Epsilon {
						distance = math.Min(distance, gap)
					}
					return distance
				}
			}
		}
		return distance
	}
	edge := box.Min(axis)
	for a := s.findIndex(axis, edge+Epsilon) - 1; a >= 0; a-- {
		for j := minB; j < maxB; j++ {
			for k := minC; k < maxC; k++ {
				if !cycledFull(s.grid, axis, a, j, k) {
					continue
				}
				if gap := s.coord(axis, a+1) - edge; gap <= Epsilon {
					distance = math.Max(distance, gap)
				}
				return distance
			}
		}
	}
	return distance
}

func (s *Shape) String() string {
	if s.kind == KindBox {
		return fmt.Sprintf("Shape(box %s)", s.box)
	}
	if s.IsEmpty() {
		return "Shape(empty)"
	}
	return fmt.Sprintf("Shape(%s x=%s y=%s z=%s)", s.kind,
		formatCoords(s.coords[AxisX]), formatCoords(s.coords[AxisY]), formatCoords(s.coords[AxisZ]))
}

func fuzzyEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
