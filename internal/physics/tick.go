package physics

import (
	"math"

	"github.com/Versifine/voxel/internal/shapes"
	"github.com/go-gl/mathgl/mgl64"
)

type PhysicsState struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	OnGround bool
	// HeldItem and FluidWalker feed the collision context of the tick.
	HeldItem    string
	FluidWalker func(fluid string) bool
}

type InputState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	Sneak    bool
	Sprint   bool
	Yaw      float32
}

type EntityCollider struct {
	Position mgl64.Vec3
	Width    float64
	Height   float64
}

func PhysicsTick(state *PhysicsState, input InputState, source ShapeSource) {
	PhysicsTickWithEntities(state, input, source, nil)
}

func PhysicsTickWithEntities(state *PhysicsState, input InputState, source ShapeSource, entities []EntityCollider) {
	if state == nil {
		return
	}

	state.OnGround = isOnGround(state.Position, source, collisionContext(state, input))

	moveX, moveZ := desiredMoveVector(input)
	friction := HorizontalDragBase
	if state.OnGround {
		friction *= DefaultGroundSlippery
	}

	accel := AirAcceleration
	if state.OnGround {
		accel = groundAcceleration(moveSpeedMultiplier(input), friction)
	}

	state.Velocity[0] += moveX * accel
	state.Velocity[2] += moveZ * accel

	if state.OnGround && input.Jump {
		state.Velocity[1] = JumpInitialVelocity
	}

	ctx := collisionContext(state, input)
	if state.OnGround && input.Sneak {
		state.Velocity[0], state.Velocity[2] = clampSneakEdgeVelocity(
			state.Position,
			state.Velocity.X(),
			state.Velocity.Z(),
			source,
			ctx,
		)
	}

	state.Position, state.Velocity = ResolveMovement(state.Position, state.Velocity, source, ctx)
	state.Position = ApplyEntityPush(state.Position, source, collisionContext(state, input), entities)
	state.OnGround = isOnGround(state.Position, source, collisionContext(state, input))

	state.Velocity[1] = (state.Velocity.Y() - GravityAcceleration) * VerticalDrag
	state.Velocity[0] *= friction
	state.Velocity[2] *= friction
	zeroResidualVelocity(&state.Velocity)
}

// collisionContext describes the player at its current position. Sneaking
// descends through scaffolding-like blocks.
func collisionContext(state *PhysicsState, input InputState) shapes.CollisionContext {
	return shapes.NewEntityContext(shapes.EntityState{
		Descending:  input.Sneak,
		Bottom:      state.Position.Y(),
		HeldItem:    state.HeldItem,
		FluidWalker: state.FluidWalker,
	})
}

func desiredMoveVector(input InputState) (float64, float64) {
	var forward float64
	if input.Forward {
		forward += 1
	}
	if input.Backward {
		forward -= 1
	}

	var strafe float64
	if input.Right {
		strafe -= 1
	}
	if input.Left {
		strafe += 1
	}

	length := math.Sqrt(forward*forward + strafe*strafe)
	if length > 1 {
		forward /= length
		strafe /= length
	}

	yawRad := float64(input.Yaw) * math.Pi / 180.0
	worldX := forward*(-math.Sin(yawRad)) + strafe*math.Cos(yawRad)
	worldZ := forward*math.Cos(yawRad) + strafe*math.Sin(yawRad)

	return worldX, worldZ
}

func moveSpeedMultiplier(input InputState) float64 {
	speed := WalkBaseSpeed
	if input.Sprint {
		speed *= SprintSpeedMultiplier
	}
	if input.Sneak {
		speed *= SneakSpeedMultiplier
	}
	return max(speed, 0)
}

func groundAcceleration(speed, friction float64) float64 {
	if friction < CollisionAxisTolerance {
		return speed
	}
	return speed * (GroundAccelerationFactor / (friction * friction * friction))
}

func clampSneakEdgeVelocity(pos mgl64.Vec3, velX, velZ float64, source ShapeSource, ctx shapes.CollisionContext) (float64, float64) {
	if source == nil {
		return velX, velZ
	}
	adjustAxis := func(target float64, support func(delta float64) bool) float64 {
		v := target
		for !nearlyZero(v) && !support(v) {
			if math.Abs(v) <= SneakEdgeAdjustStep {
				v = 0
				break
			}
			if v > 0 {
				v -= SneakEdgeAdjustStep
			} else {
				v += SneakEdgeAdjustStep
			}
		}
		return v
	}

	velX = adjustAxis(velX, func(delta float64) bool {
		return hasGroundSupportAt(pos.Add(mgl64.Vec3{delta, 0, 0}), source, ctx)
	})
	velZ = adjustAxis(velZ, func(delta float64) bool {
		return hasGroundSupportAt(pos.Add(mgl64.Vec3{velX, 0, delta}), source, ctx)
	})
	return velX, velZ
}

func hasGroundSupportAt(pos mgl64.Vec3, source ShapeSource, ctx shapes.CollisionContext) bool {
	return Collides(PlayerBox(pos).Move(0, -SneakEdgeProbeDistance, 0), source, ctx)
}

func zeroResidualVelocity(v *mgl64.Vec3) {
	if v == nil {
		return
	}
	if math.Abs(v[0]) < MinimumResidualHorizontalSpeed {
		v[0] = 0
	}
	if math.Abs(v[2]) < MinimumResidualHorizontalSpeed {
		v[2] = 0
	}
	if math.Abs(v[1]) < MinimumResidualVerticalSpeed {
		v[1] = 0
	}
}

func isOnGround(pos mgl64.Vec3, source ShapeSource, ctx shapes.CollisionContext) bool {
	return Collides(PlayerBox(pos).Move(0, -GroundProbeDistance, 0), source, ctx)
}
