package hierarchy

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/util"
)

// walkState accumulates the running state of a shortcut as the walker
// follows a chain of contracted base nodes.
type walkState struct {
	shape        []tile.Point
	cursor       tile.GraphId // new GraphId of the node the shortcut currently ends at
	length       float64
	restrictions uint32
	oppLocalIdx  int
	wayID        int64
}

// connectEdge appends one base edge to a walkState: it decodes the
// edge's shape (reversing it first if the edge is not marked forward,
// so the accumulated shape always reads forward), drops the duplicate
// seam point, advances the cursor to the edge's new-level end node,
// and overwrites restrictions/opp_local_idx/wayID with this edge's
// values, since a shortcut's restrictions describe only how you can
// continue *past its last base edge*. The accumulated shape is the
// exact concatenation of base shapes, less the duplicated shared
// endpoint -- no reprojection or thinning.
func connectEdge(ctx *buildContext, baseTile *tile.Tile, e *tile.DirectedEdge, st *walkState) float64 {
	shape := namesTileShape(baseTile, e)
	if !e.Flags.Has(tile.FlagForward) {
		shape = util.ReverseG(shape)
	}
	if len(st.shape) > 0 && len(shape) > 0 {
		shape = shape[1:]
	}
	st.shape = append(st.shape, shape...)

	if newID, ok := ctx.promotion[e.EndNode]; ok {
		st.cursor = newID
	} else {
		st.cursor = tile.InvalidGraphId
	}
	st.restrictions = e.Restrictions
	st.oppLocalIdx = e.OppLocalIdx
	st.wayID = e.WayID

	st.length += e.Length
	return e.Length
}

func namesTileShape(t *tile.Tile, e *tile.DirectedEdge) []tile.Point {
	if e.EdgeInfoOffset < 0 || e.EdgeInfoOffset >= len(t.EdgeInfo) {
		return nil
	}
	src := t.EdgeInfo[e.EdgeInfoOffset].Shape
	out := make([]tile.Point, len(src))
	copy(out, src)
	return out
}

// connectEdges walks a full shortcut chain starting at the first base
// edge seen by the assembler. It follows the EdgePairs table for as
// long as the node at the cursor is itself marked contract, and stops
// cleanly (without error) when the chain enters a node whose EdgePairs
// entry doesn't continue through the edge just arrived on -- this
// happens when a shortcut chain runs into another already-built
// shortcut.
func connectEdges(ctx *buildContext, reader tile.Reader, startTile *tile.Tile, startEdgeID tile.GraphId, start *tile.DirectedEdge) (walkState, error) {
	st := walkState{}
	connectEdge(ctx, startTile, start, &st)

	for {
		if !st.cursor.Valid() {
			return st, nil
		}
		nn, ok := ctx.newNodeFor(st.cursor)
		if !ok || !nn.Contract {
			return st, nil
		}
		pairs, ok := ctx.edgePairs[st.cursor]
		if !ok {
			return st, nil
		}

		var next tile.GraphId
		switch startEdgeID {
		case pairs.Edge1.First:
			next = pairs.Edge1.Second
		case pairs.Edge2.First:
			next = pairs.Edge2.Second
		default:
			return st, nil
		}

		t, ok, err := reader.GetTile(next)
		if err != nil {
			return st, err
		}
		if !ok || next.Index() >= len(t.Edges) {
			return st, nil
		}
		nextEdge := &t.Edges[next.Index()]
		connectEdge(ctx, t, nextEdge, &st)
		startTile, startEdgeID, start = t, next, nextEdge
	}
}
