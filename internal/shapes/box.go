package shapes

import (
	"fmt"
	"math"
)

// Box is an axis-aligned box in world coordinates.
type Box struct {
	MinX float64
	MinY float64
	MinZ float64
	MaxX float64
	MaxY float64
	MaxZ float64
}

func NewBoxBounds(minX, minY, minZ, maxX, maxY, maxZ float64) Box {
	return Box{MinX: minX, MinY: minY, MinZ: minZ, MaxX: maxX, MaxY: maxY, MaxZ: maxZ}
}

func (b Box) Min(axis Axis) float64 {
	return axis.ChooseFloat(b.MinX, b.MinY, b.MinZ)
}

func (b Box) Max(axis Axis) float64 {
	return axis.ChooseFloat(b.MaxX, b.MaxY, b.MaxZ)
}

func (b Box) Size(axis Axis) float64 {
	return b.Max(axis) - b.Min(axis)
}

// IsEmpty reports whether the box is thinner than Epsilon on some axis.
// NaN extents count as empty.
func (b Box) IsEmpty() bool {
	return !(b.MaxX-b.MinX >= Epsilon) || !(b.MaxY-b.MinY >= Epsilon) || !(b.MaxZ-b.MinZ >= Epsilon)
}

func (b Box) Move(dx, dy, dz float64) Box {
	return Box{
		MinX: b.MinX + dx, MinY: b.MinY + dy, MinZ: b.MinZ + dz,
		MaxX: b.MaxX + dx, MaxY: b.MaxY + dy, MaxZ: b.MaxZ + dz,
	}
}

func (b Box) Inflate(x, y, z float64) Box {
	return Box{
		MinX: b.MinX - x, MinY: b.MinY - y, MinZ: b.MinZ - z,
		MaxX: b.MaxX + x, MaxY: b.MaxY + y, MaxZ: b.MaxZ + z,
	}
}

// ExpandTowards grows the box in the direction of movement: negative
// components extend the minimum, positive ones the maximum.
func (b Box) ExpandTowards(dx, dy, dz float64) Box {
	out := b
	if dx < 0 {
		out.MinX += dx
	} else {
		out.MaxX += dx
	}
	if dy < 0 {
		out.MinY += dy
	} else {
		out.MaxY += dy
	}
	if dz < 0 {
		out.MinZ += dz
	} else {
		out.MaxZ += dz
	}
	return out
}

// Intersects reports whether the two boxes overlap by more than Epsilon on
// every axis. Boxes that only touch do not intersect.
func (b Box) Intersects(o Box) bool {
	return overlapsOn(b, o, AxisX) && overlapsOn(b, o, AxisY) && overlapsOn(b, o, AxisZ)
}

func overlapsOn(a, b Box, axis Axis) bool {
	return a.Max(axis)-Epsilon > b.Min(axis) && a.Min(axis)+Epsilon < b.Max(axis)
}

// Collide returns how far moving may travel along axis, up to distance,
// before it enters obstacle. A mover that already penetrates obstacle deeper
// than Epsilon keeps its full distance so that it can move out again.
func Collide(axis Axis, moving, obstacle Box, distance float64) float64 {
	if math.Abs(distance) < Epsilon {
		return 0
	}
	if !overlapsOn(moving, obstacle, axis.next()) || !overlapsOn(moving, obstacle, axis.prev()) {
		return distance
	}
	if distance > 0 {
		gap := obstacle.Min(axis) - moving.Max(axis)
		if gap >= -Epsilon {
			distance = math.Min(distance, gap)
		}
	} else {
		gap := obstacle.Max(axis) - moving.Min(axis)
		if gap <= Epsilon {
			distance = math.Max(distance, gap)
		}
	}
	return distance
}

// withRange replaces the extent of b along axis.
func (b Box) withRange(axis Axis, lo, hi float64) Box {
	switch axis {
	case AxisX:
		b.MinX, b.MaxX = lo, hi
	case AxisY:
		b.MinY, b.MaxY = lo, hi
	default:
		b.MinZ, b.MaxZ = lo, hi
	}
	return b
}

func (b Box) String() string {
	return fmt.Sprintf("[%g, %g, %g] -> [%g, %g, %g]", b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ)
}
