// Package tilehierarchy turns a level descriptor's H3 resolution into a
// concrete tiling grid: given a node's lat/lng, which tile id does it
// belong to at that level. This is the same H3 indexing idiom the
// teacher codebase uses to bucket street segments for the key-value
// store (pkg/kv.KVDB.BuildH3IndexedEdges), reused here to bucket
// promoted nodes into new-level tiles instead.
package tilehierarchy

import (
	"github.com/uber/h3-go/v4"

	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// Grid computes tile ids for one level of the hierarchy.
type Grid struct {
	resolution int
	cellToTile map[h3.Cell]int
	nextTile   int
}

func NewGrid(resolution int) *Grid {
	return &Grid{
		resolution: resolution,
		cellToTile: make(map[h3.Cell]int),
	}
}

// TileFor returns the tile id a lat/lng belongs to under this grid,
// allocating a fresh (small, dense) tile id the first time a given H3
// cell is seen. Tile ids are allocated in first-seen order rather than
// derived directly from the H3 cell index so they stay small enough
// to fit tile.GraphId's tile field across any resolution.
func (g *Grid) TileFor(lat, lon float64) int {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lon), g.resolution)
	if id, ok := g.cellToTile[cell]; ok {
		return id
	}
	id := g.nextTile
	g.nextTile++
	g.cellToTile[cell] = id
	return id
}

// BuildGrids constructs one Grid per level descriptor, in level order.
func BuildGrids(h tile.Hierarchy) map[int]*Grid {
	grids := make(map[int]*Grid, len(h.Levels))
	for _, lvl := range h.Levels {
		grids[lvl.Level] = NewGrid(lvl.TilingResolution)
	}
	return grids
}

// DefaultHierarchy mirrors the three-level setup (local, arterial,
// highway) this builder is exercised against in tests and in the
// reference CLI: resolution decreases (tiles get coarser) as the
// classification cutoff relaxes toward more important roads only.
func DefaultHierarchy() tile.Hierarchy {
	return tile.Hierarchy{Levels: []tile.LevelDescriptor{
		{Level: 2, Name: "local", ClassificationCutoff: tile.RoadClassServiceOther, TilingResolution: 8},
		{Level: 1, Name: "arterial", ClassificationCutoff: tile.RoadClassTertiary, TilingResolution: 6},
		{Level: 0, Name: "highway", ClassificationCutoff: tile.RoadClassTrunk, TilingResolution: 4},
	}}
}
