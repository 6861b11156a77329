// Package hierarchy builds a multi-level routing graph hierarchy out of
// a single base level of tiles: it decides which base nodes survive at
// each coarser level, collapses long chains of degree-two nodes into
// shortcut edges, assembles the coarser tiles, and patches the finer
// level's tiles with trans_up edges to the level built from them.
package hierarchy

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// buildContext carries everything shared across the components of a
// single level transition: the promotion map, the EdgePairs table, and
// the new-level tile node vectors. It is passed explicitly by reference
// everywhere instead of living behind a package-level singleton.
type buildContext struct {
	fromLevel, toLevel tile.LevelDescriptor

	// promotion maps a base GraphId to the GraphId it was promoted to
	// at toLevel. Total over every promoted node, never re-keyed.
	promotion map[tile.GraphId]tile.GraphId

	// edgePairs is keyed by the *new* GraphId of a contracted node.
	edgePairs map[tile.GraphId]tile.EdgePairs

	// newNodes accumulates, per new tile key, the NewNode records
	// assigned so far. Index into a tile's slice is the node's new
	// intra-tile index.
	newNodes map[tile.TileKey][]tile.NewNode

	// shortcutIndex records, for a base node's starting local edge
	// index, which 1-based shortcut index it was assigned in step 2 of
	// the assembler, so the survivor pass can mark the base edge
	// superseded. Keyed by (new node graph id, base local edge index).
	shortcutIndex map[shortcutKey]int
}

type shortcutKey struct {
	node     tile.GraphId
	localIdx int
}

func newBuildContext(from, to tile.LevelDescriptor) *buildContext {
	return &buildContext{
		fromLevel:     from,
		toLevel:       to,
		promotion:     make(map[tile.GraphId]tile.GraphId),
		edgePairs:     make(map[tile.GraphId]tile.EdgePairs),
		newNodes:      make(map[tile.TileKey][]tile.NewNode),
		shortcutIndex: make(map[shortcutKey]int),
	}
}

// promote allocates a new GraphId for baseID in tile key, appending a
// NewNode to that tile's vector, and records the mapping. It is a
// no-op (returning the existing id) if baseID was already promoted.
func (c *buildContext) promote(baseID tile.GraphId, key tile.TileKey, contract bool) tile.GraphId {
	if existing, ok := c.promotion[baseID]; ok {
		return existing
	}
	nodes := c.newNodes[key]
	newID := tile.NewGraphId(c.toLevel.Level, key.Tile, len(nodes))
	c.newNodes[key] = append(nodes, tile.NewNode{BaseNode: baseID, Contract: contract})
	c.promotion[baseID] = newID
	return newID
}

func (c *buildContext) newNodeFor(id tile.GraphId) (tile.NewNode, bool) {
	nodes := c.newNodes[id.TileKey()]
	idx := id.Index()
	if idx < 0 || idx >= len(nodes) {
		return tile.NewNode{}, false
	}
	return nodes[idx], true
}

func (c *buildContext) setShortcutIndex(node tile.GraphId, baseLocalIdx, idx int) {
	c.shortcutIndex[shortcutKey{node, baseLocalIdx}] = idx
}

func (c *buildContext) shortcutIndexFor(node tile.GraphId, baseLocalIdx int) (int, bool) {
	idx, ok := c.shortcutIndex[shortcutKey{node, baseLocalIdx}]
	return idx, ok
}
