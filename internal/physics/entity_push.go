package physics

import (
	"github.com/Versifine/voxel/internal/shapes"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	entityPushMaxPerEntity = 0.08
	entityPushMaxPerTick   = 0.12
	entityPushStrength     = 0.7
)

// ApplyEntityPush separates the player from overlapping entities on the
// horizontal plane. The push itself is clamped against the world.
func ApplyEntityPush(pos mgl64.Vec3, source ShapeSource, ctx shapes.CollisionContext, entities []EntityCollider) mgl64.Vec3 {
	if len(entities) == 0 {
		return pos
	}

	var push mgl64.Vec3
	player := PlayerBox(pos)

	for _, entity := range entities {
		w := entity.Width
		h := entity.Height
		if w <= 0 {
			w = PlayerWidth
		}
		if h <= 0 {
			h = PlayerHeight
		}

		if player.MaxY <= entity.Position.Y() || player.MinY >= entity.Position.Y()+h {
			continue
		}

		offset := mgl64.Vec3{pos.X() - entity.Position.X(), 0, pos.Z() - entity.Position.Z()}
		minDist := PlayerHalfWidth + w*0.5
		if offset.LenSqr() >= minDist*minDist {
			continue
		}

		dist := offset.Len()
		if dist < CollisionAxisTolerance {
			offset = mgl64.Vec3{1, 0, 0}
			dist = 1
		}

		overlap := minDist - dist
		if overlap <= 0 {
			continue
		}

		mag := min(overlap*entityPushStrength, entityPushMaxPerEntity)
		push = push.Add(offset.Mul(mag / dist))
	}

	length := push.Len()
	if length <= CollisionAxisTolerance {
		return pos
	}
	if length > entityPushMaxPerTick {
		push = push.Mul(entityPushMaxPerTick / length)
	}

	newPos, _ := ResolveMovement(pos, push, source, ctx)
	return newPos
}
