package hierarchy

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tilehierarchy"
)

// promoteTile scans one base tile and, for every node whose best road
// class clears toLevel's cutoff, promotes it into the new tile the
// tiling grid assigns it to. Promotion and contractibility are fused
// into one pass, since both need the same base tile loaded.
func promoteTile(ctx *buildContext, reader tile.Reader, baseTile *tile.Tile, baseKey tile.TileKey, grid *tilehierarchy.Grid, cutoff tile.RoadClass) {
	for i := range baseTile.Nodes {
		ni := &baseTile.Nodes[i]
		if ni.BestRoadClass > cutoff {
			continue
		}
		baseID := tile.NewGraphId(baseKey.Level, baseKey.Tile, i)
		newTileID := grid.TileFor(ni.Lat, ni.Lon)
		newKey := tile.TileKey{Level: ctx.toLevel.Level, Tile: newTileID}

		pairs, contractible := canContract(reader, baseTile, baseID, ni, cutoff)
		newID := ctx.promote(baseID, newKey, contractible)
		if contractible {
			ctx.edgePairs[newID] = pairs
		}
	}
}
