package physics

import (
	"math"
	"testing"

	"github.com/Versifine/voxel/internal/shapes"
	"github.com/Versifine/voxel/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

type mockShapeSource struct {
	cells map[[3]int]*shapes.Shape
}

func newMockShapeSource() *mockShapeSource {
	return &mockShapeSource{cells: make(map[[3]int]*shapes.Shape)}
}

func (m *mockShapeSource) CollisionShapes(area shapes.Box, _ shapes.CollisionContext) []*shapes.Shape {
	query := shapes.FromBox(area)
	var out []*shapes.Shape
	for pos, s := range m.cells {
		moved := s.Move(float64(pos[0]), float64(pos[1]), float64(pos[2]))
		if shapes.JoinIsNotEmpty(moved, query, shapes.And) {
			out = append(out, moved)
		}
	}
	return out
}

func (m *mockShapeSource) setSolid(x, y, z int) {
	m.cells[[3]int{x, y, z}] = shapes.Block()
}

func addFloor(source *mockShapeSource, minX, maxX, minZ, maxZ, y int) {
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			source.setSolid(x, y, z)
		}
	}
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func TestPhysicsTick_FreeFallOneTick(t *testing.T) {
	source := newMockShapeSource()
	state := &PhysicsState{
		Position: mgl64.Vec3{0.0, 10.0, 0.0},
	}

	PhysicsTick(state, InputState{}, source)

	approxEqual(t, state.Position.Y(), 10.0, 1e-9, "position.y")
	approxEqual(t, state.Velocity.Y(), -0.0784, 1e-9, "velocity.y")
	if state.OnGround {
		t.Fatalf("onGround = true, want false")
	}
}

func TestPhysicsTick_NilSourceFallsFreely(t *testing.T) {
	state := &PhysicsState{
		Position: mgl64.Vec3{0.0, 10.0, 0.0},
		Velocity: mgl64.Vec3{0, -0.5, 0},
	}

	PhysicsTick(state, InputState{}, nil)

	approxEqual(t, state.Position.Y(), 9.5, 1e-9, "position.y")
}

func TestPhysicsTick_CollisionAgainstWallStopsHorizontalMovement(t *testing.T) {
	source := newMockShapeSource()
	addFloor(source, -2, 2, -2, 2, -1)
	source.setSolid(1, 0, 0)
	source.setSolid(1, 1, 0)

	state := &PhysicsState{
		Position: mgl64.Vec3{0.7, 0.0, 0.5},
		OnGround: true,
	}

	// Left strafes towards +X at yaw 0.
	PhysicsTick(state, InputState{Left: true, Yaw: 0}, source)

	approxEqual(t, state.Position.X(), 0.7, 1e-9, "position.x")
	approxEqual(t, state.Position.Y(), 0.0, 1e-9, "position.y")
	approxEqual(t, state.Velocity.X(), 0.0, 1e-9, "velocity.x")
	if !state.OnGround {
		t.Fatalf("onGround = false, want true")
	}
}

func TestPhysicsTick_JumpReachesExpectedApex(t *testing.T) {
	source := newMockShapeSource()
	addFloor(source, -4, 4, -4, 4, -1)

	state := &PhysicsState{
		Position: mgl64.Vec3{0.5, 0.0, 0.5},
		OnGround: true,
	}

	maxY := state.Position.Y()
	for i := 0; i < 40; i++ {
		input := InputState{}
		if i == 0 {
			input.Jump = true
		}
		PhysicsTick(state, input, source)
		maxY = max(maxY, state.Position.Y())
	}

	if maxY < 1.15 || maxY > 1.35 {
		t.Fatalf("jump apex = %.4f, want around 1.25", maxY)
	}
	approxEqual(t, state.Position.Y(), 0.0, 1e-9, "landed position.y")
	if !state.OnGround {
		t.Fatalf("onGround = false after landing, want true")
	}
}

func TestPhysicsTick_CannotStepUpOneBlockWithoutJump(t *testing.T) {
	source := newMockShapeSource()
	addFloor(source, -2, 4, -2, 2, -1)
	source.setSolid(1, 0, 0)

	state := &PhysicsState{
		Position: mgl64.Vec3{0.5, 0.0, 0.5},
		OnGround: true,
	}

	for i := 0; i < 20; i++ {
		PhysicsTick(state, InputState{Left: true, Yaw: 0}, source)
	}

	approxEqual(t, state.Position.Y(), 0.0, 1e-9, "position.y")
	approxEqual(t, state.Position.X(), 0.7, 1e-9, "position.x")
}

func TestPhysicsTick_EntityPushMovesPlayerSideways(t *testing.T) {
	source := newMockShapeSource()
	addFloor(source, -2, 2, -2, 2, -1)

	state := &PhysicsState{
		Position: mgl64.Vec3{0.50, 0.0, 0.50},
		OnGround: true,
	}

	entities := []EntityCollider{
		{Position: mgl64.Vec3{0.62, 0.0, 0.50}, Width: 0.6, Height: 1.8},
	}
	PhysicsTickWithEntities(state, InputState{}, source, entities)

	approxEqual(t, state.Position.X(), 0.42, 1e-9, "position.x")
	approxEqual(t, state.Position.Z(), 0.50, 1e-9, "position.z")
}

func TestResolveMovementAxisOrder(t *testing.T) {
	source := newMockShapeSource()
	source.setSolid(1, 0, 0)
	pos := mgl64.Vec3{0.5, 0, -0.5}

	tests := []struct {
		name     string
		velocity mgl64.Vec3
		wantPos  mgl64.Vec3
		wantVel  mgl64.Vec3
	}{
		// Z is larger: Z slides past the block, then X hits its side.
		{"z first", mgl64.Vec3{0.25, 0, 0.5}, mgl64.Vec3{0.7, 0, 0}, mgl64.Vec3{0, 0, 0.5}},
		// X is larger: X slides past the block, then Z hits its face.
		{"x first", mgl64.Vec3{0.5, 0, 0.25}, mgl64.Vec3{1.0, 0, -0.3}, mgl64.Vec3{0.5, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPos, gotVel := ResolveMovement(pos, tt.velocity, source, shapes.EmptyContext())
			approxEqual(t, gotPos.X(), tt.wantPos.X(), 1e-9, "position.x")
			approxEqual(t, gotPos.Z(), tt.wantPos.Z(), 1e-9, "position.z")
			approxEqual(t, gotVel.X(), tt.wantVel.X(), 1e-9, "velocity.x")
			approxEqual(t, gotVel.Z(), tt.wantVel.Z(), 1e-9, "velocity.z")
		})
	}
}

const physicsCatalogueYAML = `
blocks:
  - name: air
    min_state: 0
    max_state: 0
    shape: empty
  - name: slab
    min_state: 1
    max_state: 1
    boxes:
      - [0, 0, 0, 16, 8, 16]
  - name: scaffolding
    min_state: 2
    max_state: 2
    descend_through: true
    boxes:
      - [0, 14, 0, 16, 16, 16]
`

func newWorldStore(t *testing.T) *world.BlockStore {
	t.Helper()
	catalogue, err := world.ParseCatalogue([]byte(physicsCatalogueYAML))
	if err != nil {
		t.Fatalf("ParseCatalogue failed: %v", err)
	}
	bounds, _ := world.VanillaDimensionBounds(world.DimensionOverworld)
	store, err := world.NewBlockStore(catalogue, bounds)
	if err != nil {
		t.Fatalf("NewBlockStore failed: %v", err)
	}
	sections := make([]world.ChunkSection, bounds.SectionCount())
	for i := range sections {
		sections[i] = world.ChunkSection{BlockStates: make([]int32, world.BlocksPerSection)}
	}
	if err := store.StoreChunk(0, 0, sections); err != nil {
		t.Fatalf("StoreChunk failed: %v", err)
	}
	return store
}

func TestPhysicsTick_LandsOnSlab(t *testing.T) {
	store := newWorldStore(t)
	store.SetBlockState(0, 64, 0, 1)

	state := &PhysicsState{Position: mgl64.Vec3{0.5, 65.0, 0.5}}
	for i := 0; i < 20; i++ {
		PhysicsTick(state, InputState{}, store)
	}

	approxEqual(t, state.Position.Y(), 64.5, 1e-9, "position.y")
	if !state.OnGround {
		t.Fatalf("onGround = false, want true")
	}
}

func TestPhysicsTick_SneakDescendsThroughScaffolding(t *testing.T) {
	store := newWorldStore(t)
	store.SetBlockState(0, 64, 0, 2)

	state := &PhysicsState{Position: mgl64.Vec3{0.5, 65.0, 0.5}}
	for i := 0; i < 5; i++ {
		PhysicsTick(state, InputState{}, store)
	}
	approxEqual(t, state.Position.Y(), 65.0, 1e-9, "standing position.y")
	if !state.OnGround {
		t.Fatalf("onGround = false on scaffolding, want true")
	}

	for i := 0; i < 3; i++ {
		PhysicsTick(state, InputState{Sneak: true}, store)
	}
	if state.Position.Y() >= 65.0 {
		t.Fatalf("position.y = %.6f, want below 65 while sneaking", state.Position.Y())
	}
}
