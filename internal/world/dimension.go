package world

const (
	DimensionOverworld = "overworld"
	DimensionNether    = "the_nether"
	DimensionEnd       = "the_end"
)

// DimensionBounds is the vertical extent of a dimension: blocks exist for
// MinY <= y < MinY+Height.
type DimensionBounds struct {
	MinY   int
	Height int
}

func (b DimensionBounds) MaxY() int {
	return b.MinY + b.Height - 1
}

func (b DimensionBounds) SectionCount() int {
	return b.Height / ChunkSectionHeight
}

func VanillaDimensionBounds(name string) (DimensionBounds, bool) {
	switch name {
	case DimensionOverworld:
		return DimensionBounds{MinY: -64, Height: 384}, true
	case DimensionNether, DimensionEnd:
		return DimensionBounds{MinY: 0, Height: 256}, true
	default:
		return DimensionBounds{}, false
	}
}
