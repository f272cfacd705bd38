package physics

import (
	"math"

	"github.com/Versifine/voxel/internal/shapes"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeSource returns the world-space collision shapes that intersect area
// for the mover described by ctx.
type ShapeSource interface {
	CollisionShapes(area shapes.Box, ctx shapes.CollisionContext) []*shapes.Shape
}

func PlayerBox(pos mgl64.Vec3) shapes.Box {
	return shapes.NewBoxBounds(
		pos.X()-PlayerHalfWidth,
		pos.Y(),
		pos.Z()-PlayerHalfDepth,
		pos.X()+PlayerHalfWidth,
		pos.Y()+PlayerHeight,
		pos.Z()+PlayerHalfDepth,
	)
}

// Collides reports whether box overlaps any collision shape of source.
func Collides(box shapes.Box, source ShapeSource, ctx shapes.CollisionContext) bool {
	if source == nil {
		return false
	}
	return len(source.CollisionShapes(box, ctx)) > 0
}

// ResolveMovement moves the player box at pos by velocity, clamping each axis
// against the shapes in the swept area. Y goes first, then the horizontal
// axis with the larger displacement. Clamped axes have their velocity zeroed.
func ResolveMovement(pos, velocity mgl64.Vec3, source ShapeSource, ctx shapes.CollisionContext) (mgl64.Vec3, mgl64.Vec3) {
	if source == nil {
		return pos.Add(velocity), velocity
	}

	box := PlayerBox(pos)
	obstacles := source.CollisionShapes(box.ExpandTowards(velocity.X(), velocity.Y(), velocity.Z()), ctx)

	order := [3]shapes.Axis{shapes.AxisY, shapes.AxisX, shapes.AxisZ}
	if math.Abs(velocity.X()) < math.Abs(velocity.Z()) {
		order = [3]shapes.Axis{shapes.AxisY, shapes.AxisZ, shapes.AxisX}
	}

	var moved mgl64.Vec3
	for _, axis := range order {
		delta := velocity[axis]
		if nearlyZero(delta) {
			moved[axis] = delta
			continue
		}
		allowed := shapes.CollideShapes(axis, box, obstacles, delta)
		moved[axis] = allowed

		var step mgl64.Vec3
		step[axis] = allowed
		box = box.Move(step.X(), step.Y(), step.Z())
	}

	newVel := velocity
	for _, axis := range shapes.Axes {
		if !nearlyEqual(moved[axis], velocity[axis]) {
			newVel[axis] = 0
		}
	}
	return pos.Add(moved), newVel
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}
