package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridBuilderTracksBounds(t *testing.T) {
	g := NewGridBuilder(4, 4, 4).
		Fill(1, 2, 3).
		Fill(2, 0, 1).
		Freeze()

	assert.False(t, g.IsEmpty())
	assert.True(t, g.IsFull(1, 2, 3))
	assert.False(t, g.IsFull(1, 2, 2))
	assert.False(t, g.IsFullWide(-1, 0, 0))
	assert.False(t, g.IsFullWide(4, 0, 0))

	assert.Equal(t, 1, g.FirstFull(AxisX))
	assert.Equal(t, 3, g.LastFull(AxisX))
	assert.Equal(t, 0, g.FirstFull(AxisY))
	assert.Equal(t, 3, g.LastFull(AxisY))
	assert.Equal(t, 1, g.FirstFull(AxisZ))
	assert.Equal(t, 4, g.LastFull(AxisZ))
}

func TestGridBuilderContractViolations(t *testing.T) {
	b := NewGridBuilder(2, 2, 2)
	assert.Panics(t, func() { b.Fill(2, 0, 0) })

	b.Freeze()
	assert.Panics(t, func() { b.Fill(0, 0, 0) })
	assert.Panics(t, func() { NewGridBuilder(-1, 1, 1) })
}

func TestEmptyGrid(t *testing.T) {
	g := NewGridBuilder(3, 3, 3).Freeze()
	assert.True(t, g.IsEmpty())
	for _, axis := range Axes {
		assert.GreaterOrEqual(t, g.FirstFull(axis), g.LastFull(axis))
	}
}

func TestFirstAndLastFullAlong(t *testing.T) {
	g := NewGridBuilder(2, 4, 2).
		Fill(0, 1, 0).
		Fill(0, 2, 0).
		Fill(1, 3, 1).
		Freeze()

	// Along Y the cross axes are Z (next) then X (prev).
	assert.Equal(t, 1, FirstFullAlong(g, AxisY, 0, 0))
	assert.Equal(t, 3, LastFullAlong(g, AxisY, 0, 0))
	assert.Equal(t, 3, FirstFullAlong(g, AxisY, 1, 1))
	assert.Equal(t, 4, LastFullAlong(g, AxisY, 1, 1))

	assert.Equal(t, 4, FirstFullAlong(g, AxisY, 1, 0))
	assert.Equal(t, 0, LastFullAlong(g, AxisY, 1, 0))
	assert.Equal(t, 4, FirstFullAlong(g, AxisY, 5, 0))
	assert.Equal(t, 0, LastFullAlong(g, AxisY, -1, 0))
}

func TestForAllBoxesMergesSolidBlock(t *testing.T) {
	g := filledGrid(2, 2, 2, 0, 0, 0, 2, 2, 2)

	var boxes [][6]int
	ForAllBoxes(g, true, func(x1, y1, z1, x2, y2, z2 int) {
		boxes = append(boxes, [6]int{x1, y1, z1, x2, y2, z2})
	})
	assert.Equal(t, [][6]int{{0, 0, 0, 2, 2, 2}}, boxes)

	// The source grid is left untouched.
	assert.True(t, g.IsFull(0, 0, 0))
}

func TestForAllBoxesCoversExactly(t *testing.T) {
	b := NewGridBuilder(4, 3, 3)
	full := map[[3]int]bool{}
	for _, c := range [][3]int{
		{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}, {2, 0, 1},
		{0, 1, 0}, {0, 1, 1}, {3, 2, 2}, {1, 2, 0}, {2, 2, 0},
	} {
		b.Fill(c[0], c[1], c[2])
		full[c] = true
	}
	g := b.Freeze()

	for _, combine := range []bool{true, false} {
		covered := map[[3]int]int{}
		boxes := 0
		ForAllBoxes(g, combine, func(x1, y1, z1, x2, y2, z2 int) {
			boxes++
			for x := x1; x < x2; x++ {
				for y := y1; y < y2; y++ {
					for z := z1; z < z2; z++ {
						covered[[3]int{x, y, z}]++
					}
				}
			}
		})
		require.Len(t, covered, len(full), "combine=%v", combine)
		for cell, n := range covered {
			assert.True(t, full[cell], "combine=%v covers empty cell %v", combine, cell)
			assert.Equal(t, 1, n, "combine=%v covers %v more than once", combine, cell)
		}
		if combine {
			assert.Less(t, boxes, len(full))
		} else {
			assert.Equal(t, len(full), boxes)
		}
	}
}

func TestSubGridBounds(t *testing.T) {
	g := NewGridBuilder(3, 3, 3).
		Fill(0, 0, 0).
		Fill(2, 1, 2).
		Fill(1, 1, 1).
		Freeze()

	s := newSubGrid(g, [3]int{0, 1, 0}, [3]int{3, 2, 3})
	assert.Equal(t, 1, s.Size(AxisY))
	assert.False(t, s.IsEmpty())
	assert.True(t, s.IsFull(1, 0, 1))
	assert.False(t, s.IsFull(0, 0, 0))
	assert.Equal(t, 1, s.FirstFull(AxisX))
	assert.Equal(t, 3, s.LastFull(AxisX))
	assert.Equal(t, 0, s.FirstFull(AxisY))
	assert.Equal(t, 1, s.LastFull(AxisY))

	empty := newSubGrid(g, [3]int{0, 2, 0}, [3]int{3, 3, 3})
	assert.True(t, empty.IsEmpty())
}
