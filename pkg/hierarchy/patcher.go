package hierarchy

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/util"
)

// patchBaseTile reopens a base tile and appends one trans_up edge per
// NodeConnection whose BaseNode falls inside it. The tile's node count
// never changes; its edge count grows by exactly len(connections). Any
// sign or access-restriction record that pointed at an edge which has
// since shifted position is re-keyed to its new edge index.
func patchBaseTile(reader tile.Reader, builder tile.Builder, key tile.TileKey, connections []tile.NodeConnection) error {
	if len(connections) == 0 {
		return nil
	}
	before, ok, err := reader.GetTile(tile.NewGraphId(key.Level, key.Tile, 0))
	if err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "read base tile %+v before patching", key)
	}
	if !ok {
		return server.WrapErrorf(nil, server.ErrNotFound, "base tile %+v not found for patching", key)
	}

	sorted := make([]tile.NodeConnection, len(connections))
	copy(sorted, connections)
	sorted = util.QuickSortG(sorted, func(a, b tile.NodeConnection) int {
		switch {
		case a.BaseNode.Index() < b.BaseNode.Index():
			return -1
		case a.BaseNode.Index() > b.BaseNode.Index():
			return 1
		default:
			return 0
		}
	})

	newNodes := make([]tile.NodeInfo, len(before.Nodes))
	newEdges := make([]tile.DirectedEdge, 0, len(before.Edges)+len(sorted))
	shift := make([]int, len(before.Edges)+1) // shift[oldEdgeIdx] = transition edges inserted strictly before oldEdgeIdx

	connIdx := 0
	appended := 0
	insertedSoFar := 0

	for ni := range before.Nodes {
		n := before.Nodes[ni]
		newEdgeStart := len(newEdges)
		for e := n.EdgeIndex; e < n.EdgeIndex+n.EdgeCount; e++ {
			shift[e] = insertedSoFar
			newEdges = append(newEdges, before.Edges[e])
		}
		n.EdgeIndex = newEdgeStart

		for connIdx < len(sorted) && sorted[connIdx].BaseNode.Index() == ni {
			newEdges = append(newEdges, tile.DirectedEdge{
				EndNode:       sorted[connIdx].NewNode,
				Flags:         tile.EdgeFlags(0).With(tile.FlagTransUp, true),
				Use:           tile.UseConnector,
				ForwardAccess: ^tile.Access(0),
				ReverseAccess: ^tile.Access(0),
			})
			n.EdgeCount++
			connIdx++
			appended++
			insertedSoFar++
		}
		newNodes[ni] = n
	}
	shift[len(before.Edges)] = insertedSoFar

	if appended != len(sorted) {
		return server.WrapErrorf(nil, server.ErrInvariantViolation,
			"base tile %+v: appended %d transition edges, expected %d", key, appended, len(sorted))
	}

	signs := make([]tile.SignRecord, len(before.Signs))
	for i, s := range before.Signs {
		s.EdgeIndex += shift[s.EdgeIndex]
		signs[i] = s
	}
	restrictions := make([]tile.AccessRestrictionRecord, len(before.AccessRestrictions))
	for i, r := range before.AccessRestrictions {
		r.EdgeIndex += shift[r.EdgeIndex]
		restrictions[i] = r
	}

	if len(signs) != len(before.Signs) || len(restrictions) != len(before.AccessRestrictions) {
		return server.WrapErrorf(nil, server.ErrInvariantViolation, "base tile %+v: side table count mismatch after patching", key)
	}

	w, err := builder.OpenTile(key)
	if err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "open base tile %+v for patching", key)
	}
	if err := w.Update(newNodes, newEdges, signs, restrictions); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "patch base tile %+v", key)
	}
	return nil
}
