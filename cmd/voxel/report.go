package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Versifine/voxel/internal/physics"
	"github.com/Versifine/voxel/internal/shapes"
	"github.com/Versifine/voxel/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

const maxDropTicks = 100

var faceLetters = [6]byte{'D', 'U', 'N', 'S', 'W', 'E'}

// writeReport prints one row per block with the collision data of its first
// state.
func writeReport(w io.Writer, c *world.Catalogue) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCK\tSTATES\tKIND\tFULL\tFACES\tSEALS\tLARGE\tBOXES\tBOUNDS")
	for _, name := range c.Names() {
		states := c.States(name)
		e := states[0]
		kind := e.Shape.Kind().String()
		if e.Shape.IsEmpty() {
			kind = "empty"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%s\t%s\t%t\t%d\t%s\n",
			name,
			len(states),
			kind,
			e.FullBlock,
			faceFlags(e.FaceFull),
			faceFlags(selfSeals(e)),
			e.LargeShape,
			len(e.Shape.Boxes()),
			formatBounds(e.Shape),
		)
	}
	return tw.Flush()
}

func faceFlags(full [6]bool) string {
	var b strings.Builder
	for _, d := range shapes.Directions {
		if full[d] {
			b.WriteByte(faceLetters[d])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// selfSeals marks the faces whose boundary is closed when the same state sits
// on the other side.
func selfSeals(e *world.Entry) [6]bool {
	var sealed [6]bool
	for _, d := range shapes.Directions {
		sealed[d] = e.Occludes(e, d)
	}
	return sealed
}

func formatBounds(s *shapes.Shape) string {
	bounds, err := s.Bounds()
	if err != nil {
		return "-"
	}
	return bounds.String()
}

type dropResult struct {
	Y        float64
	Ticks    int
	OnGround bool
	// TopSealed reports whether the block's top face closes it off from the
	// empty cell above.
	TopSealed bool
}

// dropPlayer places the named block in an otherwise empty chunk and lets a
// player fall onto it from three blocks above.
func dropPlayer(c *world.Catalogue, bounds world.DimensionBounds, name string) (dropResult, error) {
	entry, ok := c.Lookup(name)
	if !ok {
		return dropResult{}, fmt.Errorf("unknown block %q", name)
	}
	store, err := world.NewBlockStore(c, bounds)
	if err != nil {
		return dropResult{}, err
	}

	// One past the highest catalogue state is never defined, so it has no shape.
	void := int32(c.StateCount())
	sections := make([]world.ChunkSection, bounds.SectionCount())
	for i := range sections {
		blocks := make([]int32, world.BlocksPerSection)
		for j := range blocks {
			blocks[j] = void
		}
		sections[i] = world.ChunkSection{BlockStates: blocks}
	}
	if err := store.StoreChunk(0, 0, sections); err != nil {
		return dropResult{}, err
	}

	y := bounds.MinY + bounds.Height/2
	store.SetBlockState(0, y, 0, entry.State)

	state := &physics.PhysicsState{Position: mgl64.Vec3{0.5, float64(y + 3), 0.5}}
	ticks := 0
	for ticks < maxDropTicks {
		physics.PhysicsTick(state, physics.InputState{}, store)
		ticks++
		if state.OnGround {
			break
		}
	}
	return dropResult{
		Y:         state.Position.Y(),
		Ticks:     ticks,
		OnGround:  state.OnGround,
		TopSealed: store.FaceOccluded(0, y, 0, shapes.Up),
	}, nil
}
