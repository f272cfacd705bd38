package world

import (
	"fmt"
	"math"
	"sync"

	"github.com/Versifine/voxel/internal/shapes"
)

const (
	ChunkSectionHeight = 16
	BlocksPerSection   = 16 * 16 * 16
)

// fluidStableShape is what a fluid cell collides as for movers that can
// stand on it.
var fluidStableShape = shapes.MustBox(0, 0, 0, 1, 0.5, 1)

type ChunkPos struct {
	X int32
	Z int32
}

type ChunkSection struct {
	BlockStates []int32
}

type Chunk struct {
	Sections []ChunkSection
}

// BlockStore holds loaded chunks of one dimension and answers collision
// queries against the catalogue.
type BlockStore struct {
	mu        sync.RWMutex
	chunks    map[ChunkPos]*Chunk
	catalogue *Catalogue
	bounds    DimensionBounds
}

func NewBlockStore(catalogue *Catalogue, bounds DimensionBounds) (*BlockStore, error) {
	if catalogue == nil {
		return nil, fmt.Errorf("block store needs a catalogue")
	}
	if bounds.Height <= 0 || bounds.Height%ChunkSectionHeight != 0 {
		return nil, fmt.Errorf("invalid dimension height %d", bounds.Height)
	}
	return &BlockStore{
		chunks:    make(map[ChunkPos]*Chunk),
		catalogue: catalogue,
		bounds:    bounds,
	}, nil
}

func (bs *BlockStore) Catalogue() *Catalogue {
	return bs.catalogue
}

func (bs *BlockStore) Bounds() DimensionBounds {
	return bs.bounds
}

func (bs *BlockStore) StoreChunk(chunkX, chunkZ int32, sections []ChunkSection) error {
	sectionCount := bs.bounds.SectionCount()
	if len(sections) != sectionCount {
		return fmt.Errorf("invalid section count: got %d, want %d", len(sections), sectionCount)
	}

	chunk := &Chunk{
		Sections: make([]ChunkSection, sectionCount),
	}

	for i := range sections {
		if len(sections[i].BlockStates) != BlocksPerSection {
			return fmt.Errorf(
				"invalid section %d block state count: got %d, want %d",
				i,
				len(sections[i].BlockStates),
				BlocksPerSection,
			)
		}

		copied := make([]int32, BlocksPerSection)
		copy(copied, sections[i].BlockStates)
		chunk.Sections[i] = ChunkSection{BlockStates: copied}
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.chunks[ChunkPos{X: chunkX, Z: chunkZ}] = chunk
	return nil
}

func (bs *BlockStore) UnloadChunk(chunkX, chunkZ int32) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.chunks, ChunkPos{X: chunkX, Z: chunkZ})
}

func (bs *BlockStore) Clear() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	clear(bs.chunks)
}

func (bs *BlockStore) IsLoaded(chunkX, chunkZ int32) bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	_, ok := bs.chunks[ChunkPos{X: chunkX, Z: chunkZ}]
	return ok
}

func (bs *BlockStore) LoadedChunkCount() int {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return len(bs.chunks)
}

func (bs *BlockStore) SetBlockState(x, y, z int, stateID int32) bool {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	section, index, ok := bs.locateLocked(x, y, z)
	if !ok {
		return false
	}
	section.BlockStates[index] = stateID
	return true
}

func (bs *BlockStore) GetBlockState(x, y, z int) (int32, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.stateLocked(x, y, z)
}

// Entry returns the catalogue entry of the block at (x, y, z).
func (bs *BlockStore) Entry(x, y, z int) (*Entry, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.entryLocked(x, y, z)
}

// IsSolid reports whether the block at (x, y, z) is a full cube.
func (bs *BlockStore) IsSolid(x, y, z int) bool {
	e, ok := bs.Entry(x, y, z)
	return ok && e.FullBlock
}

// FaceOccluded reports whether the boundary between (x, y, z) and its
// neighbour in direction d is fully covered by the two cells' faces. Unloaded
// cells have no faces.
func (bs *BlockStore) FaceOccluded(x, y, z int, d shapes.Direction) bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	e, _ := bs.entryLocked(x, y, z)
	dx, dy, dz := d.Offset()
	neighbour, _ := bs.entryLocked(x+dx, y+dy, z+dz)
	return e.Occludes(neighbour, d)
}

// CollisionShape returns the block-local collision shape at (x, y, z) for
// the mover described by ctx. Unloaded cells have no shape.
func (bs *BlockStore) CollisionShape(x, y, z int, ctx shapes.CollisionContext) *shapes.Shape {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	e, ok := bs.entryLocked(x, y, z)
	if !ok {
		return shapes.Empty()
	}
	return bs.collisionShapeLocked(e, x, y, z, ctx)
}

// CollisionShapes returns the world-space shapes of every block whose
// collision shape intersects area.
func (bs *BlockStore) CollisionShapes(area shapes.Box, ctx shapes.CollisionContext) []*shapes.Shape {
	minX := int(math.Floor(area.MinX-shapes.Epsilon)) - 1
	maxX := int(math.Floor(area.MaxX+shapes.Epsilon)) + 1
	minY := int(math.Floor(area.MinY-shapes.Epsilon)) - 1
	maxY := int(math.Floor(area.MaxY+shapes.Epsilon)) + 1
	minZ := int(math.Floor(area.MinZ-shapes.Epsilon)) - 1
	maxZ := int(math.Floor(area.MaxZ+shapes.Epsilon)) + 1
	query := shapes.FromBox(area)

	bs.mu.RLock()
	defer bs.mu.RUnlock()

	var out []*shapes.Shape
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				edges := boolToInt(x == minX || x == maxX) + boolToInt(y == minY || y == maxY) + boolToInt(z == minZ || z == maxZ)
				if edges >= 2 {
					continue
				}
				e, ok := bs.entryLocked(x, y, z)
				if !ok || (edges == 1 && !e.LargeShape) {
					continue
				}
				s := bs.collisionShapeLocked(e, x, y, z, ctx)
				if s.IsEmpty() {
					continue
				}
				if s == shapes.Block() {
					box := shapes.NewBoxBounds(float64(x), float64(y), float64(z), float64(x+1), float64(y+1), float64(z+1))
					if area.Intersects(box) {
						out = append(out, shapes.FromBox(box))
					}
					continue
				}
				moved := s.Move(float64(x), float64(y), float64(z))
				if shapes.JoinIsNotEmpty(moved, query, shapes.And) {
					out = append(out, moved)
				}
			}
		}
	}
	return out
}

func (bs *BlockStore) collisionShapeLocked(e *Entry, x, y, z int, ctx shapes.CollisionContext) *shapes.Shape {
	switch {
	case e.Fluid != "":
		above := ""
		if up, ok := bs.entryLocked(x, y+1, z); ok {
			above = up.Fluid
		}
		if ctx.IsAbove(fluidStableShape, x, y, z, true) && ctx.CanStandOnFluid(above, e.Fluid) {
			return fluidStableShape
		}
		return e.Shape
	case e.DescendThrough:
		if ctx.IsAbove(e.Shape, x, y, z, true) && !ctx.IsDescending() {
			return e.Shape
		}
		return shapes.Empty()
	case e.RequiresItem != "":
		if ctx.IsHoldingItem(e.RequiresItem) {
			return e.Shape
		}
		return shapes.Empty()
	default:
		return e.Shape
	}
}

func (bs *BlockStore) entryLocked(x, y, z int) (*Entry, bool) {
	state, ok := bs.stateLocked(x, y, z)
	if !ok {
		return nil, false
	}
	return bs.catalogue.Entry(state)
}

func (bs *BlockStore) stateLocked(x, y, z int) (int32, bool) {
	section, index, ok := bs.locateLocked(x, y, z)
	if !ok {
		return 0, false
	}
	return section.BlockStates[index], true
}

func (bs *BlockStore) locateLocked(x, y, z int) (*ChunkSection, int, bool) {
	if y < bs.bounds.MinY || y > bs.bounds.MaxY() {
		return nil, 0, false
	}

	chunkX := floorDiv16(x)
	chunkZ := floorDiv16(z)
	localX := floorMod16(x)
	localZ := floorMod16(z)
	sectionIndex := (y - bs.bounds.MinY) / ChunkSectionHeight
	localY := (y - bs.bounds.MinY) % ChunkSectionHeight
	blockIndex := localY*16*16 + localZ*16 + localX

	chunk, ok := bs.chunks[ChunkPos{X: int32(chunkX), Z: int32(chunkZ)}]
	if !ok {
		return nil, 0, false
	}
	if sectionIndex < 0 || sectionIndex >= len(chunk.Sections) {
		return nil, 0, false
	}
	section := &chunk.Sections[sectionIndex]
	if blockIndex < 0 || blockIndex >= len(section.BlockStates) {
		return nil, 0, false
	}
	return section, blockIndex, true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func floorDiv16(v int) int {
	q := v / 16
	if v < 0 && v%16 != 0 {
		q--
	}
	return q
}

func floorMod16(v int) int {
	m := v % 16
	if m < 0 {
		m += 16
	}
	return m
}
