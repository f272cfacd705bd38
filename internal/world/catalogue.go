package world

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/Versifine/voxel/internal/shapes"
	"gopkg.in/yaml.v3"
)

// PixelsPerBlock is the unit of catalogue box coordinates.
const PixelsPerBlock = 16

// maxCatalogueStates bounds the state id table built from a catalogue file.
const maxCatalogueStates = 1 << 20

var ErrInvalidCatalogue = errors.New("invalid block catalogue")

// Entry is the precomputed collision data of one block state.
type Entry struct {
	Name  string
	State int32
	// Shape is the optimized collision shape in block-local coordinates.
	Shape *shapes.Shape
	// FullBlock is set when Shape covers the unit cube exactly.
	FullBlock bool
	FaceFull  [6]bool
	// OcclusionFaces holds, per direction, the layer of Shape lying on that
	// face of the unit cube, or the empty shape when Shape does not reach it.
	OcclusionFaces [6]*shapes.Shape
	// LargeShape is set when Shape reaches outside the unit cube, so the
	// cell must be considered for boxes that do not overlap it.
	LargeShape     bool
	Fluid          string
	DescendThrough bool
	RequiresItem   string
}

// Catalogue maps block state ids to their collision entries.
type Catalogue struct {
	byState []*Entry
	byName  map[string][]*Entry
}

type blockSpec struct {
	Name           string      `yaml:"name"`
	MinState       int32       `yaml:"min_state"`
	MaxState       int32       `yaml:"max_state"`
	Shape          string      `yaml:"shape"`
	Boxes          [][]float64 `yaml:"boxes"`
	Fluid          string      `yaml:"fluid"`
	DescendThrough bool        `yaml:"descend_through"`
	RequiresItem   string      `yaml:"requires_item"`
}

type catalogueFile struct {
	Blocks []blockSpec `yaml:"blocks"`
}

func LoadCatalogue(path string) (*Catalogue, error) {
	if path == "" {
		return nil, fmt.Errorf("catalogue path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return ParseCatalogue(data)
}

func ParseCatalogue(data []byte) (*Catalogue, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	if len(file.Blocks) == 0 {
		return nil, fmt.Errorf("%w: no block definitions", ErrInvalidCatalogue)
	}

	maxState := int32(-1)
	for _, block := range file.Blocks {
		if block.Name == "" {
			return nil, fmt.Errorf("%w: block without name", ErrInvalidCatalogue)
		}
		if block.MinState < 0 || block.MaxState < block.MinState {
			return nil, fmt.Errorf(
				"%w: %s has invalid state range min=%d max=%d",
				ErrInvalidCatalogue,
				block.Name,
				block.MinState,
				block.MaxState,
			)
		}
		if block.MaxState >= maxCatalogueStates {
			return nil, fmt.Errorf(
				"%w: %s state %d exceeds the limit of %d states",
				ErrInvalidCatalogue,
				block.Name,
				block.MaxState,
				maxCatalogueStates,
			)
		}
		maxState = max(maxState, block.MaxState)
	}

	c := &Catalogue{
		byState: make([]*Entry, int(maxState)+1),
		byName:  make(map[string][]*Entry, len(file.Blocks)),
	}
	for _, block := range file.Blocks {
		shape, err := block.collisionShape()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalogue, block.Name, err)
		}
		for id := block.MinState; id <= block.MaxState; id++ {
			if c.byState[id] != nil {
				return nil, fmt.Errorf("%w: state %d defined by %s and %s", ErrInvalidCatalogue, id, c.byState[id].Name, block.Name)
			}
			entry := newEntry(block, id, shape)
			c.byState[id] = entry
			c.byName[block.Name] = append(c.byName[block.Name], entry)
		}
	}
	return c, nil
}

func (b blockSpec) collisionShape() (*shapes.Shape, error) {
	switch b.Shape {
	case "full":
		if len(b.Boxes) > 0 {
			return nil, fmt.Errorf("shape %q cannot be combined with boxes", b.Shape)
		}
		return shapes.Block(), nil
	case "empty":
		if len(b.Boxes) > 0 {
			return nil, fmt.Errorf("shape %q cannot be combined with boxes", b.Shape)
		}
		return shapes.Empty(), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown shape %q", b.Shape)
	}
	if len(b.Boxes) == 0 {
		if b.Fluid != "" {
			return shapes.Empty(), nil
		}
		return nil, fmt.Errorf("no shape or boxes")
	}
	parts := make([]*shapes.Shape, 0, len(b.Boxes))
	for i, px := range b.Boxes {
		if len(px) != 6 {
			return nil, fmt.Errorf("box %d has %d values, want 6", i, len(px))
		}
		part, err := shapes.NewBox(
			px[0]/PixelsPerBlock, px[1]/PixelsPerBlock, px[2]/PixelsPerBlock,
			px[3]/PixelsPerBlock, px[4]/PixelsPerBlock, px[5]/PixelsPerBlock,
		)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
		parts = append(parts, part)
	}
	return shapes.Union(parts[0], parts[1:]...), nil
}

func newEntry(block blockSpec, state int32, shape *shapes.Shape) *Entry {
	e := &Entry{
		Name:           block.Name,
		State:          state,
		Shape:          shape,
		FullBlock:      shapes.IsFullBlock(shape),
		Fluid:          block.Fluid,
		DescendThrough: block.DescendThrough,
		RequiresItem:   block.RequiresItem,
	}
	for _, d := range shapes.Directions {
		e.FaceFull[d] = shapes.IsFaceFull(shape, d)
		e.OcclusionFaces[d] = shapes.FaceOcclusionShape(shape, d)
	}
	for _, axis := range shapes.Axes {
		if shape.Min(axis) < 0 || shape.Max(axis) > 1 {
			e.LargeShape = true
		}
	}
	return e
}

// Occludes reports whether the face of e in direction d and the opposite face
// of neighbour together cover the whole boundary between the two cells. A nil
// entry contributes no face.
func (e *Entry) Occludes(neighbour *Entry, d shapes.Direction) bool {
	return shapes.FaceShapeOccludes(e.occlusionFace(d), neighbour.occlusionFace(d.Opposite()))
}

func (e *Entry) occlusionFace(d shapes.Direction) *shapes.Shape {
	if e == nil {
		return shapes.Empty()
	}
	return e.OcclusionFaces[d]
}

// Entry returns the entry of a block state.
func (c *Catalogue) Entry(state int32) (*Entry, bool) {
	if state < 0 || int(state) >= len(c.byState) {
		return nil, false
	}
	e := c.byState[state]
	return e, e != nil
}

// Lookup returns the entry of the first state of the named block.
func (c *Catalogue) Lookup(name string) (*Entry, bool) {
	entries := c.byName[name]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0], true
}

// States returns the entries of every state of the named block.
func (c *Catalogue) States(name string) []*Entry {
	return slices.Clone(c.byName[name])
}

// StateCount is one past the highest defined state id.
func (c *Catalogue) StateCount() int {
	return len(c.byState)
}

// Names lists the defined block names in sorted order.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
