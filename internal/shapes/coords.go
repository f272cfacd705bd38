package shapes

import (
	"fmt"
	"strings"
)

// Coords is the ascending sequence of boundary positions along one axis of a
// shape. A grid of n cells has n+1 coordinates.
type Coords interface {
	Len() int
	At(i int) float64
}

// cubePoints is the uniform subdivision of [0, 1] into parts cells. The cube
// merger recognizes it by type.
type cubePoints int

func (c cubePoints) Len() int { return int(c) + 1 }

func (c cubePoints) At(i int) float64 { return float64(i) / float64(c) }

type pointList []float64

func (p pointList) Len() int { return len(p) }

func (p pointList) At(i int) float64 { return p[i] }

// offsetPoints shifts a point list without copying it.
type offsetPoints struct {
	base   pointList
	offset float64
}

func (o offsetPoints) Len() int { return len(o.base) }

func (o offsetPoints) At(i int) float64 { return o.base[i] + o.offset }

func offsetCoords(c Coords, offset float64) Coords {
	switch v := c.(type) {
	case offsetPoints:
		return offsetPoints{base: v.base, offset: v.offset + offset}
	case pointList:
		return offsetPoints{base: v, offset: offset}
	default:
		return offsetPoints{base: pointList(CoordSlice(c)), offset: offset}
	}
}

// CoordSlice copies c into a new slice.
func CoordSlice(c Coords) []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func coordsEqual(a, b Coords) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

func formatCoords(c Coords) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", c.At(i))
	}
	sb.WriteByte(']')
	return sb.String()
}
