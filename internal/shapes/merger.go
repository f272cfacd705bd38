package shapes

import (
	"math"
	"sync/atomic"
)

// IndexMerger merges the coordinates of two shapes along one axis. For every
// merged cell it reports the governing cell index in the first and second
// source (or an index outside the source grid when the source does not cover
// the cell) together with the merged index.
type IndexMerger interface {
	Coords() Coords
	Size() int
	// ForMergedIndices visits merged cells in ascending order and stops early
	// when fn returns false. It reports whether every visit returned true.
	ForMergedIndices(fn func(first, second, merged int) bool) bool
}

type MergerKind string

const (
	MergerIdentical      MergerKind = "identical"
	MergerNonOverlapping MergerKind = "non_overlapping"
	MergerCube           MergerKind = "cube"
	MergerIndirect       MergerKind = "indirect"
)

const DefaultCubeMergeLimit = 256

var cubeMergeLimit atomic.Int64

func init() {
	cubeMergeLimit.Store(DefaultCubeMergeLimit)
}

// SetCubeMergeLimit sets the largest size*lcm product for which two uniform
// grids are merged by subdivision instead of a sorted merge. Values below 1
// restore the default.
func SetCubeMergeLimit(n int) {
	if n < 1 {
		n = DefaultCubeMergeLimit
	}
	cubeMergeLimit.Store(int64(n))
}

func CubeMergeLimit() int {
	return int(cubeMergeLimit.Load())
}

// newIndexMerger picks the cheapest merger for lower and upper. size is the
// number of cells already produced on the previous axes; it bounds the cost
// of the cube subdivision.
func newIndexMerger(size int, lower, upper Coords, firstOnly, secondOnly bool) IndexMerger {
	lowerMax := lower.Len() - 1
	upperMax := upper.Len() - 1
	if math.IsInf(lower.At(0), -1) && math.IsInf(lower.At(lowerMax), 1) {
		observe().MergerSelected(MergerIndirect)
		return newIndirectMerger(lower, upper, firstOnly, secondOnly)
	}
	if lc, ok := lower.(cubePoints); ok {
		if uc, ok := upper.(cubePoints); ok {
			if int64(size)*lcm(int64(lc), int64(uc)) <= cubeMergeLimit.Load() {
				observe().MergerSelected(MergerCube)
				return newCubeMerger(int(lc), int(uc))
			}
		}
	}
	if lowerMax == upperMax && coordsEqual(lower, upper) {
		observe().MergerSelected(MergerIdentical)
		return identicalMerger{coords: lower}
	}
	if lower.At(lowerMax) < upper.At(0)-Epsilon {
		observe().MergerSelected(MergerNonOverlapping)
		return nonOverlappingMerger{lower: lower, upper: upper}
	}
	if upper.At(upperMax) < lower.At(0)-Epsilon {
		observe().MergerSelected(MergerNonOverlapping)
		return nonOverlappingMerger{lower: upper, upper: lower, swap: true}
	}
	observe().MergerSelected(MergerIndirect)
	return newIndirectMerger(lower, upper, firstOnly, secondOnly)
}

type identicalMerger struct {
	coords Coords
}

func (m identicalMerger) Coords() Coords { return m.coords }

func (m identicalMerger) Size() int { return m.coords.Len() }

func (m identicalMerger) ForMergedIndices(fn func(first, second, merged int) bool) bool {
	n := m.coords.Len() - 1
	for i := 0; i < n; i++ {
		if !fn(i, i, i) {
			return false
		}
	}
	return true
}

// nonOverlappingMerger concatenates two sequences where lower ends before
// upper starts. The cell spanning the gap belongs to neither side.
type nonOverlappingMerger struct {
	lower Coords
	upper Coords
	swap  bool
}

func (m nonOverlappingMerger) Coords() Coords { return m }

func (m nonOverlappingMerger) Len() int { return m.lower.Len() + m.upper.Len() }

func (m nonOverlappingMerger) At(i int) float64 {
	if i < m.lower.Len() {
		return m.lower.At(i)
	}
	return m.upper.At(i - m.lower.Len())
}

func (m nonOverlappingMerger) Size() int { return m.Len() }

func (m nonOverlappingMerger) ForMergedIndices(fn func(first, second, merged int) bool) bool {
	if m.swap {
		return m.forOrdered(func(first, second, merged int) bool {
			return fn(second, first, merged)
		})
	}
	return m.forOrdered(fn)
}

func (m nonOverlappingMerger) forOrdered(fn func(first, second, merged int) bool) bool {
	n := m.lower.Len()
	for i := 0; i < n; i++ {
		if !fn(i, -1, i) {
			return false
		}
	}
	u := m.upper.Len() - 1
	for i := 0; i < u; i++ {
		if !fn(n-1, i, n+i) {
			return false
		}
	}
	return true
}

// cubeMerger merges two uniform subdivisions of [0, 1] into the subdivision
// by their least common multiple; source indices follow by division.
type cubeMerger struct {
	result    cubePoints
	firstDiv  int
	secondDiv int
}

func newCubeMerger(first, second int) cubeMerger {
	g := int(gcd(int64(first), int64(second)))
	return cubeMerger{
		result:    cubePoints(lcm(int64(first), int64(second))),
		firstDiv:  first / g,
		secondDiv: second / g,
	}
}

func (m cubeMerger) Coords() Coords { return m.result }

func (m cubeMerger) Size() int { return m.result.Len() }

func (m cubeMerger) ForMergedIndices(fn func(first, second, merged int) bool) bool {
	n := int(m.result)
	for i := 0; i < n; i++ {
		if !fn(i/m.secondDiv, i/m.firstDiv, i) {
			return false
		}
	}
	return true
}

// indirectMerger is the general sorted merge. Values within Epsilon of the
// previous boundary collapse into it. Boundaries of one side that lie outside
// the other side are dropped when the operator ignores cells covered by that
// side alone.
type indirectMerger struct {
	result        pointList
	firstIndices  []int
	secondIndices []int
}

func newIndirectMerger(lower, upper Coords, firstOnly, secondOnly bool) *indirectMerger {
	nl, nu := lower.Len(), upper.Len()
	total := nl + nu
	m := &indirectMerger{
		result:        make(pointList, total),
		firstIndices:  make([]int, total),
		secondIndices: make([]int, total),
	}
	skipFirst := !firstOnly
	skipSecond := !secondOnly
	last := math.NaN()
	n, li, ui := 0, 0, 0
	for {
		lowerDone := li >= nl
		upperDone := ui >= nu
		if lowerDone && upperDone {
			break
		}
		takeLower := !lowerDone && (upperDone || lower.At(li) < upper.At(ui)+Epsilon)
		if takeLower {
			li++
			if skipFirst && (ui == 0 || upperDone) {
				continue
			}
		} else {
			ui++
			if skipSecond && (li == 0 || lowerDone) {
				continue
			}
		}
		fi, si := li-1, ui-1
		var v float64
		if takeLower {
			v = lower.At(fi)
		} else {
			v = upper.At(si)
		}
		if !(last >= v-Epsilon) {
			m.result[n] = v
			m.firstIndices[n] = fi
			m.secondIndices[n] = si
			n++
			last = v
		} else {
			m.firstIndices[n-1] = fi
			m.secondIndices[n-1] = si
		}
	}
	n = max(n, 1)
	m.result = m.result[:n]
	m.firstIndices = m.firstIndices[:n]
	m.secondIndices = m.secondIndices[:n]
	return m
}

func (m *indirectMerger) Coords() Coords { return m.result }

func (m *indirectMerger) Size() int { return len(m.result) }

func (m *indirectMerger) ForMergedIndices(fn func(first, second, merged int) bool) bool {
	n := len(m.result) - 1
	for i := 0; i < n; i++ {
		if !fn(m.firstIndices[i], m.secondIndices[i], i) {
			return false
		}
	}
	return true
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}
