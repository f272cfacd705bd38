package shapes

import "math"

// JoinUnoptimized combines two shapes cell by cell with op. The result keeps
// the merged coordinates of both operands; use Join for a compact shape.
// It panics if op is true where both operands are empty.
func JoinUnoptimized(first, second *Shape, op Op) *Shape {
	op.mustBeBounded()
	observe().JoinPerformed(op)
	if first == second {
		if op.Apply(true, true) {
			return first
		}
		return Empty()
	}
	firstOnly, secondOnly := op.firstOnly(), op.secondOnly()
	if first.IsEmpty() {
		if secondOnly {
			return second
		}
		return Empty()
	}
	if second.IsEmpty() {
		if firstOnly {
			return first
		}
		return Empty()
	}
	mx := newIndexMerger(1, first.coords[AxisX], second.coords[AxisX], firstOnly, secondOnly)
	my := newIndexMerger(mx.Size()-1, first.coords[AxisY], second.coords[AxisY], firstOnly, secondOnly)
	mz := newIndexMerger((mx.Size()-1)*(my.Size()-1), first.coords[AxisZ], second.coords[AxisZ], firstOnly, secondOnly)
	g := joinGrids(first.grid, second.grid, mx, my, mz, op)
	if isCube(mx) && isCube(my) && isCube(mz) {
		return newCubeShape(g)
	}
	return newArrayShape(g, mx.Coords(), my.Coords(), mz.Coords())
}

func isCube(m IndexMerger) bool {
	_, ok := m.(cubeMerger)
	return ok
}

// Join is JoinUnoptimized followed by Optimize.
func Join(first, second *Shape, op Op) *Shape {
	return JoinUnoptimized(first, second, op).Optimize()
}

// Union is the optimized union of all the given shapes.
func Union(first *Shape, others ...*Shape) *Shape {
	out := first
	for _, o := range others {
		out = JoinUnoptimized(out, o, Or)
	}
	return out.Optimize()
}

// JoinIsNotEmpty reports whether Join(first, second, op) would have any full
// cell without building it. It panics under the same condition as
// JoinUnoptimized.
func JoinIsNotEmpty(first, second *Shape, op Op) bool {
	if op == And && first.kind == KindBox && second.kind == KindBox {
		return first.box.Intersects(second.box)
	}
	op.mustBeBounded()
	fe, se := first.IsEmpty(), second.IsEmpty()
	if fe || se {
		return op.Apply(!fe, !se)
	}
	if first == second {
		return op.Apply(true, true)
	}
	firstOnly, secondOnly := op.firstOnly(), op.secondOnly()
	for _, axis := range Axes {
		if first.Max(axis) < second.Min(axis)-Epsilon || second.Max(axis) < first.Min(axis)-Epsilon {
			return firstOnly || secondOnly
		}
	}
	mx := newIndexMerger(1, first.coords[AxisX], second.coords[AxisX], firstOnly, secondOnly)
	my := newIndexMerger(mx.Size()-1, first.coords[AxisY], second.coords[AxisY], firstOnly, secondOnly)
	mz := newIndexMerger((mx.Size()-1)*(my.Size()-1), first.coords[AxisZ], second.coords[AxisZ], firstOnly, secondOnly)
	return !mx.ForMergedIndices(func(x1, x2, _ int) bool {
		return my.ForMergedIndices(func(y1, y2, _ int) bool {
			return mz.ForMergedIndices(func(z1, z2, _ int) bool {
				return !op.Apply(first.grid.IsFullWide(x1, y1, z1), second.grid.IsFullWide(x2, y2, z2))
			})
		})
	})
}

// FaceOcclusionShape is the layer of s that lies on the face of the unit cube
// in direction d, or Empty when s does not reach that face.
func FaceOcclusionShape(s *Shape, d Direction) *Shape {
	if s == blockShape {
		return Block()
	}
	if s.IsEmpty() {
		return Empty()
	}
	axis := d.Axis()
	if s.kind == KindBox {
		if d.Positive() && !fuzzyEquals(s.box.Max(axis), 1) || !d.Positive() && !fuzzyEquals(s.box.Min(axis), 0) {
			return Empty()
		}
		return FromBox(s.box.withRange(axis, 0, 1)).Optimize()
	}
	index := 0
	if d.Positive() {
		if !fuzzyEquals(s.Max(axis), 1) {
			return Empty()
		}
		index = s.grid.Size(axis) - 1
	} else if !fuzzyEquals(s.Min(axis), 0) {
		return Empty()
	}
	return newSliceShape(s, axis, index).Optimize()
}

// IsFullBlock reports whether s covers the unit cube exactly.
func IsFullBlock(s *Shape) bool {
	return !JoinIsNotEmpty(Block(), s, NotSame)
}

// IsFaceFull reports whether the face of s in direction d covers the whole
// face of the unit cube.
func IsFaceFull(s *Shape, d Direction) bool {
	return IsFullBlock(s.FaceShape(d))
}

// FaceShapeOccludes reports whether two face shapes together cover the whole
// face of the unit cube.
func FaceShapeOccludes(a, b *Shape) bool {
	if a == blockShape || b == blockShape {
		return true
	}
	if a.IsEmpty() && b.IsEmpty() {
		return false
	}
	return !JoinIsNotEmpty(Block(), JoinUnoptimized(a, b, Or), OnlyFirst)
}

// CollideShapes folds Shape.Collide over shapes. It returns 0 as soon as the
// remaining distance drops below Epsilon.
func CollideShapes(axis Axis, moving Box, shapes []*Shape, distance float64) float64 {
	if math.Abs(distance) < Epsilon {
		return 0
	}
	start := distance
	for _, s := range shapes {
		distance = s.Collide(axis, moving, distance)
		if math.Abs(distance) < Epsilon {
			distance = 0
			break
		}
	}
	if distance != start {
		observe().CollisionClamped(axis)
	}
	return distance
}

// CollideBoxes is CollideShapes for plain boxes.
func CollideBoxes(axis Axis, moving Box, obstacles []Box, distance float64) float64 {
	if math.Abs(distance) < Epsilon {
		return 0
	}
	start := distance
	for _, o := range obstacles {
		distance = Collide(axis, moving, o, distance)
		if math.Abs(distance) < Epsilon {
			distance = 0
			break
		}
	}
	if distance != start {
		observe().CollisionClamped(axis)
	}
	return distance
}
