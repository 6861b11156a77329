package hierarchy

import (
	"log"
	"sort"
	"time"

	"github.com/lintang-b-s/hierarchybuilder/pkg/elevation"
	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tilehierarchy"
)

// Builder orchestrates the whole hierarchy build: one level transition
// at a time, finest level first, managing the reader cache and the
// level-to-level promotion map along the way.
type Builder struct {
	Reader   tile.Reader
	Writer   tile.Builder
	Sampler  elevation.Sampler
	Metrics  *Metrics
	Hierarchy tile.Hierarchy
}

// NewBuilder wires a Builder out of its external collaborators. Passing
// a nil Sampler is valid: every shortcut is then graded flat.
func NewBuilder(reader tile.Reader, writer tile.Builder, sampler elevation.Sampler, metrics *Metrics) *Builder {
	h := reader.TileHierarchy()
	return &Builder{Reader: reader, Writer: writer, Sampler: sampler, Metrics: metrics, Hierarchy: h}
}

// Build runs every level transition from the base level upward. A
// hierarchy with fewer than two levels is a precondition failure: there
// is nothing to build.
func (b *Builder) Build(baseTileKeys []tile.TileKey) error {
	if len(b.Hierarchy.Levels) < 2 {
		return server.WrapErrorf(nil, server.ErrBadParamInput, "hierarchy has %d levels, need at least 2", len(b.Hierarchy.Levels))
	}

	grids := tilehierarchy.BuildGrids(b.Hierarchy)
	currentKeys := baseTileKeys

	for i := 0; i+1 < len(b.Hierarchy.Levels); i++ {
		from := b.Hierarchy.Levels[i]
		to := b.Hierarchy.Levels[i+1]
		log.Printf("hierarchy: building level %d (%s) from level %d (%s)", to.Level, to.Name, from.Level, from.Name)

		start := time.Now()
		nextKeys, err := b.buildLevelTransition(from, to, currentKeys, grids[to.Level])
		if b.Metrics != nil {
			b.Metrics.buildDuration.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			return err
		}
		currentKeys = nextKeys
	}
	return nil
}

func (b *Builder) buildLevelTransition(from, to tile.LevelDescriptor, baseKeys []tile.TileKey, grid *tilehierarchy.Grid) ([]tile.TileKey, error) {
	ctx := newBuildContext(from, to)

	for _, key := range baseKeys {
		baseTile, ok, err := b.Reader.GetTile(tile.NewGraphId(key.Level, key.Tile, 0))
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "load base tile %+v", key)
		}
		if !ok {
			continue
		}
		promoteTile(ctx, b.Reader, baseTile, key, grid, to.ClassificationCutoff)
		if b.Reader.OverCommitted() {
			b.Reader.Clear()
		}
	}

	newKeys := make([]tile.TileKey, 0, len(ctx.newNodes))
	for key := range ctx.newNodes {
		newKeys = append(newKeys, key)
	}
	sort.Slice(newKeys, func(i, j int) bool { return newKeys[i].Tile < newKeys[j].Tile })

	for _, key := range newKeys {
		if err := assembleTile(ctx, b.Reader, b.Writer, b.Sampler, key, b.Metrics); err != nil {
			return nil, err
		}
		if b.Reader.OverCommitted() {
			b.Reader.Clear()
		}
	}

	connectionsByBaseTile := make(map[tile.TileKey][]tile.NodeConnection)
	for baseID, newID := range ctx.promotion {
		k := baseID.TileKey()
		connectionsByBaseTile[k] = append(connectionsByBaseTile[k], tile.NodeConnection{BaseNode: baseID, NewNode: newID})
	}
	for _, key := range baseKeys {
		if err := patchBaseTile(b.Reader, b.Writer, key, connectionsByBaseTile[key]); err != nil {
			return nil, err
		}
	}

	return newKeys, nil
}
