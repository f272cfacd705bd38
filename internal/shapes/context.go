package shapes

// CollisionContext carries the mover-specific exceptions to plain collision.
// World code consults it to decide which shapes take part in a sweep.
type CollisionContext interface {
	// IsDescending reports whether the mover wants to pass down through
	// surfaces that support it otherwise.
	IsDescending() bool
	// IsAbove reports whether the mover's feet are above the top of shape
	// placed at cell (x, y, z). Contexts without a mover answer
	// canAscendIfNoData.
	IsAbove(shape *Shape, x, y, z int, canAscendIfNoData bool) bool
	IsHoldingItem(item string) bool
	// CanStandOnFluid reports whether the mover can walk on fluid when
	// above is the fluid in the cell on top of it.
	CanStandOnFluid(above, fluid string) bool
}

type emptyContext struct{}

func (emptyContext) IsDescending() bool { return false }

func (emptyContext) IsAbove(_ *Shape, _, _, _ int, canAscendIfNoData bool) bool {
	return canAscendIfNoData
}

func (emptyContext) IsHoldingItem(string) bool { return false }

func (emptyContext) CanStandOnFluid(string, string) bool { return false }

// EmptyContext is the context used when no entity is moving, for example
// when querying shapes for block placement.
func EmptyContext() CollisionContext { return emptyContext{} }

// EntityState is the per-step snapshot an entity context is built from.
type EntityState struct {
	Descending bool
	// Bottom is the world Y of the mover's feet.
	Bottom   float64
	HeldItem string
	// FluidWalker reports whether the mover can stand on the named fluid.
	// nil means it cannot stand on any.
	FluidWalker func(fluid string) bool
}

type entityContext struct {
	state EntityState
}

// NewEntityContext returns a context for one mover and one physics step.
func NewEntityContext(state EntityState) CollisionContext {
	return entityContext{state: state}
}

func (c entityContext) IsDescending() bool { return c.state.Descending }

func (c entityContext) IsAbove(shape *Shape, _, y, _ int, _ bool) bool {
	return c.state.Bottom > float64(y)+shape.Max(AxisY)-Epsilon
}

func (c entityContext) IsHoldingItem(item string) bool {
	return item != "" && c.state.HeldItem == item
}

func (c entityContext) CanStandOnFluid(above, fluid string) bool {
	return c.state.FluidWalker != nil && c.state.FluidWalker(fluid) && above != fluid
}
