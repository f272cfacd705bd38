package shapes

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Grid is a fixed-size 3D occupancy grid. FirstFull and LastFull give the
// half-open range [first, last) of full cells along an axis; a grid is empty
// iff first >= last on some axis.
type Grid interface {
	Size(axis Axis) int
	IsFull(x, y, z int) bool
	// IsFullWide is IsFull that answers false outside the grid.
	IsFullWide(x, y, z int) bool
	FirstFull(axis Axis) int
	LastFull(axis Axis) int
	IsEmpty() bool
}

// BitGrid stores occupancy one bit per cell at ((x*sizeY)+y)*sizeZ+z.
// Values are only produced by GridBuilder or the package's join and box
// constructors and never change afterwards.
type BitGrid struct {
	size [3]int
	bits *bitset.BitSet
	min  [3]int
	max  [3]int
}

func newBitGrid(sizeX, sizeY, sizeZ int) *BitGrid {
	return &BitGrid{
		size: [3]int{sizeX, sizeY, sizeZ},
		bits: bitset.New(uint(sizeX * sizeY * sizeZ)),
		min:  [3]int{sizeX, sizeY, sizeZ},
	}
}

// filledGrid returns a grid with every cell of [min, max) set. The bounds are
// known up front so they are written directly.
func filledGrid(sizeX, sizeY, sizeZ, minX, minY, minZ, maxX, maxY, maxZ int) *BitGrid {
	g := newBitGrid(sizeX, sizeY, sizeZ)
	for x := minX; x < maxX; x++ {
		for y := minY; y < maxY; y++ {
			for z := minZ; z < maxZ; z++ {
				g.bits.Set(g.index(x, y, z))
			}
		}
	}
	if minX < maxX && minY < maxY && minZ < maxZ {
		g.min = [3]int{minX, minY, minZ}
		g.max = [3]int{maxX, maxY, maxZ}
	}
	return g
}

func (g *BitGrid) index(x, y, z int) uint {
	return uint((x*g.size[1]+y)*g.size[2] + z)
}

func (g *BitGrid) inRange(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.size[0] && y < g.size[1] && z < g.size[2]
}

func (g *BitGrid) Size(axis Axis) int { return g.size[axis] }

func (g *BitGrid) IsFull(x, y, z int) bool {
	return g.bits.Test(g.index(x, y, z))
}

func (g *BitGrid) IsFullWide(x, y, z int) bool {
	return g.inRange(x, y, z) && g.IsFull(x, y, z)
}

func (g *BitGrid) FirstFull(axis Axis) int { return g.min[axis] }

func (g *BitGrid) LastFull(axis Axis) int { return g.max[axis] }

func (g *BitGrid) IsEmpty() bool { return g.bits.None() }

func (g *BitGrid) String() string {
	return fmt.Sprintf("BitGrid(%dx%dx%d, full=%d)", g.size[0], g.size[1], g.size[2], g.bits.Count())
}

func (g *BitGrid) fill(x, y, z int) {
	if !g.inRange(x, y, z) {
		panic(fmt.Sprintf("shapes: fill (%d, %d, %d) outside %dx%dx%d grid", x, y, z, g.size[0], g.size[1], g.size[2]))
	}
	g.bits.Set(g.index(x, y, z))
	p := [3]int{x, y, z}
	for i := 0; i < 3; i++ {
		g.min[i] = min(g.min[i], p[i])
		g.max[i] = max(g.max[i], p[i]+1)
	}
}

func (g *BitGrid) clone() *BitGrid {
	return &BitGrid{size: g.size, bits: g.bits.Clone(), min: g.min, max: g.max}
}

func (g *BitGrid) zStripFull(minZ, maxZ, x, y int) bool {
	if x >= g.size[0] || y >= g.size[1] {
		return false
	}
	i, ok := g.bits.NextClear(g.index(x, y, minZ))
	return !ok || i >= g.index(x, y, maxZ)
}

func (g *BitGrid) xzRectangleFull(minX, maxX, minZ, maxZ, y int) bool {
	for x := minX; x < maxX; x++ {
		if !g.zStripFull(minZ, maxZ, x, y) {
			return false
		}
	}
	return true
}

func (g *BitGrid) clearZStrip(minZ, maxZ, x, y int) {
	for i := g.index(x, y, minZ); i < g.index(x, y, maxZ); i++ {
		g.bits.Clear(i)
	}
}

// GridBuilder fills a grid cell by cell and hands out the finished grid once.
type GridBuilder struct {
	grid *BitGrid
}

func NewGridBuilder(sizeX, sizeY, sizeZ int) *GridBuilder {
	if sizeX < 0 || sizeY < 0 || sizeZ < 0 {
		panic(fmt.Sprintf("shapes: negative grid size %dx%dx%d", sizeX, sizeY, sizeZ))
	}
	return &GridBuilder{grid: newBitGrid(sizeX, sizeY, sizeZ)}
}

// Fill marks a cell full. Out of range cells panic.
func (b *GridBuilder) Fill(x, y, z int) *GridBuilder {
	if b.grid == nil {
		panic("shapes: GridBuilder used after Freeze")
	}
	b.grid.fill(x, y, z)
	return b
}

func (b *GridBuilder) Freeze() *BitGrid {
	g := b.grid
	b.grid = nil
	return g
}

// toBitGrid copies any grid into a fresh BitGrid that the caller may mutate.
func toBitGrid(g Grid) *BitGrid {
	if bg, ok := g.(*BitGrid); ok {
		return bg.clone()
	}
	out := newBitGrid(g.Size(AxisX), g.Size(AxisY), g.Size(AxisZ))
	for x := 0; x < out.size[0]; x++ {
		for y := 0; y < out.size[1]; y++ {
			for z := 0; z < out.size[2]; z++ {
				if g.IsFull(x, y, z) {
					out.fill(x, y, z)
				}
			}
		}
	}
	return out
}

// joinGrids materializes op over the merged cells of two grids. Cells are
// written out of order, so the bounds are collected on the side and stored
// at the end.
func joinGrids(first, second Grid, mx, my, mz IndexMerger, op Op) *BitGrid {
	g := newBitGrid(mx.Size()-1, my.Size()-1, mz.Size()-1)
	lo := [3]int{math.MaxInt, math.MaxInt, math.MaxInt}
	hi := [3]int{math.MinInt, math.MinInt, math.MinInt}
	mx.ForMergedIndices(func(x1, x2, x3 int) bool {
		hasX := false
		my.ForMergedIndices(func(y1, y2, y3 int) bool {
			hasY := false
			mz.ForMergedIndices(func(z1, z2, z3 int) bool {
				if op.Apply(first.IsFullWide(x1, y1, z1), second.IsFullWide(x2, y2, z2)) {
					g.bits.Set(g.index(x3, y3, z3))
					lo[2] = min(lo[2], z3)
					hi[2] = max(hi[2], z3)
					hasY = true
				}
				return true
			})
			if hasY {
				lo[1] = min(lo[1], y3)
				hi[1] = max(hi[1], y3)
				hasX = true
			}
			return true
		})
		if hasX {
			lo[0] = min(lo[0], x3)
			hi[0] = max(hi[0], x3)
		}
		return true
	})
	if lo[0] <= hi[0] {
		g.min = lo
		g.max = [3]int{hi[0] + 1, hi[1] + 1, hi[2] + 1}
	}
	return g
}

// subGrid is a window [start, end) onto a parent grid. Its bounds are exact:
// they are measured over the window when it is created.
type subGrid struct {
	parent Grid
	start  [3]int
	end    [3]int
	min    [3]int
	max    [3]int
	empty  bool
}

func newSubGrid(parent Grid, start, end [3]int) *subGrid {
	s := &subGrid{parent: parent, start: start, end: end}
	for i := 0; i < 3; i++ {
		s.min[i] = s.Size(Axis(i))
	}
	s.empty = true
	for x := 0; x < s.Size(AxisX); x++ {
		for y := 0; y < s.Size(AxisY); y++ {
			for z := 0; z < s.Size(AxisZ); z++ {
				if !s.IsFull(x, y, z) {
					continue
				}
				s.empty = false
				p := [3]int{x, y, z}
				for i := 0; i < 3; i++ {
					s.min[i] = min(s.min[i], p[i])
					s.max[i] = max(s.max[i], p[i]+1)
				}
			}
		}
	}
	return s
}

func (s *subGrid) Size(axis Axis) int { return s.end[axis] - s.start[axis] }

func (s *subGrid) IsFull(x, y, z int) bool {
	return s.parent.IsFullWide(s.start[0]+x, s.start[1]+y, s.start[2]+z)
}

func (s *subGrid) IsFullWide(x, y, z int) bool {
	if x < 0 || y < 0 || z < 0 || x >= s.Size(AxisX) || y >= s.Size(AxisY) || z >= s.Size(AxisZ) {
		return false
	}
	return s.IsFull(x, y, z)
}

func (s *subGrid) FirstFull(axis Axis) int { return s.min[axis] }

func (s *subGrid) LastFull(axis Axis) int { return s.max[axis] }

func (s *subGrid) IsEmpty() bool { return s.empty }

// cycledFull reads g with coordinates relative to axis: a runs along axis,
// b along axis.next() and c along axis.prev().
func cycledFull(g Grid, axis Axis, a, b, c int) bool {
	switch axis {
	case AxisX:
		return g.IsFullWide(a, b, c)
	case AxisY:
		return g.IsFullWide(c, a, b)
	default:
		return g.IsFullWide(b, c, a)
	}
}

// FirstFullAlong scans the line along axis at (i, j) on the two cross axes and
// returns the first full index, or Size(axis) when the line is empty.
func FirstFullAlong(g Grid, axis Axis, i, j int) int {
	n := g.Size(axis)
	if i < 0 || j < 0 || i >= g.Size(axis.next()) || j >= g.Size(axis.prev()) {
		return n
	}
	for l := 0; l < n; l++ {
		if cycledFull(g, axis, l, i, j) {
			return l
		}
	}
	return n
}

// LastFullAlong is the exclusive counterpart of FirstFullAlong; 0 means empty.
func LastFullAlong(g Grid, axis Axis, i, j int) int {
	n := g.Size(axis)
	if i < 0 || j < 0 || i >= g.Size(axis.next()) || j >= g.Size(axis.prev()) {
		return 0
	}
	for l := n - 1; l >= 0; l-- {
		if cycledFull(g, axis, l, i, j) {
			return l + 1
		}
	}
	return 0
}

// ForAllBoxes decomposes g into boxes of cell indices [x1, x2) x [y1, y2) x
// [z1, z2). With combine set, maximal z runs are grown greedily along +x and
// then +y; visited cells are cleared from a working copy so no cell is
// emitted twice. Without combine every full cell is its own box.
func ForAllBoxes(g Grid, combine bool, fn func(x1, y1, z1, x2, y2, z2 int)) {
	work := toBitGrid(g)
	sx, sy, sz := work.size[0], work.size[1], work.size[2]
	for y := 0; y < sy; y++ {
		for x := 0; x < sx; x++ {
			runStart := -1
			for z := 0; z <= sz; z++ {
				if work.IsFullWide(x, y, z) {
					if !combine {
						fn(x, y, z, x+1, y+1, z+1)
					} else if runStart == -1 {
						runStart = z
					}
					continue
				}
				if runStart == -1 {
					continue
				}
				maxX, maxY := x, y
				work.clearZStrip(runStart, z, x, y)
				for work.zStripFull(runStart, z, maxX+1, y) {
					work.clearZStrip(runStart, z, maxX+1, y)
					maxX++
				}
				for work.xzRectangleFull(x, maxX+1, runStart, z, maxY+1) {
					for i := x; i <= maxX; i++ {
						work.clearZStrip(runStart, z, i, maxY+1)
					}
					maxY++
				}
				fn(x, y, runStart, maxX+1, maxY+1, z)
				runStart = -1
			}
		}
	}
}
