package hierarchy

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

const forkHeadingToleranceDeg = 60.0

// canContract decides whether node (at baseID, with info ni, inside
// baseTile) can be replaced by a single pair of through-shortcuts at
// the level described by cutoff. On success it also returns the
// EdgePairs entry to store for the node's eventual new GraphId.
//
// The "any other driveable outbound" heading check at the end is
// intentionally included for every node with more than two local
// edges; the source this predicate is modeled on disables this check
// for one specific real-world turnpike interchange but carries no
// generic opt-out, so it stays enabled here (see DESIGN.md).
func canContract(reader tile.Reader, baseTile *tile.Tile, baseID tile.GraphId, ni *tile.NodeInfo, cutoff tile.RoadClass) (tile.EdgePairs, bool) {
	edges := baseTile.EdgesOf(ni)
	if len(edges) < 2 {
		return tile.EdgePairs{}, false
	}
	if ni.Type == tile.NodeTypeGate || ni.Type == tile.NodeTypeTollBooth {
		return tile.EdgePairs{}, false
	}
	if ni.IntersectionType == tile.IntersectionFork {
		return tile.EdgePairs{}, false
	}

	type candidate struct {
		localIdx int // absolute index into baseTile.Edges, for GraphId construction
		rel      int // index relative to this node's own local edges, for heading/restriction lookups
		edge     *tile.DirectedEdge
	}
	var survivors []candidate
	for i := range edges {
		e := &edges[i]
		if e.Classification > cutoff {
			continue
		}
		if e.Flags.Has(tile.FlagTransDown) || e.Flags.Has(tile.FlagShortcut) {
			continue
		}
		survivors = append(survivors, candidate{localIdx: ni.EdgeIndex + i, rel: i, edge: e})
	}
	if len(survivors) != 2 {
		return tile.EdgePairs{}, false
	}

	e1, e2 := survivors[0].edge, survivors[1].edge
	names1 := namesOf(baseTile, e1)
	names2 := namesOf(baseTile, e2)
	if !edgesMatch(e1, e2, names1, names2) {
		return tile.EdgePairs{}, false
	}

	opp1, opp1Tile, ok := findOpposingEdge(reader, baseID, e1)
	if !ok || opp1.Flags.Has(tile.FlagExitSign) {
		return tile.EdgePairs{}, false
	}
	opp2, opp2Tile, ok := findOpposingEdge(reader, baseID, e2)
	if !ok || opp2.Flags.Has(tile.FlagExitSign) {
		return tile.EdgePairs{}, false
	}

	if restrictionForbids(opp1, survivors[1].rel) || restrictionForbids(opp2, survivors[0].rel) {
		return tile.EdgePairs{}, false
	}

	if ni.CountryISO != "" {
		if countryAt(e1.EndNode, opp1Tile) != ni.CountryISO || countryAt(e2.EndNode, opp2Tile) != ni.CountryISO {
			return tile.EdgePairs{}, false
		}
	}

	if ni.LocalEdgeCount > 2 {
		driveable := 0
		for _, d := range ni.LocalDriveable {
			if d {
				driveable++
			}
		}
		if driveable > 2 {
			// the first edge's heading is the direction leaving this
			// node; flipping it 180 degrees turns it into the heading
			// the node would see the edge arrive *from*, which is what
			// has to line up with the second edge's own outbound
			// heading for the pair to read as one straight through-road.
			h1 := normalizeDeg(headingOf(ni, survivors[0].rel) + 180)
			h2 := headingOf(ni, survivors[1].rel)
			turn := turnDegree(h1, h2)
			if turn > forkHeadingToleranceDeg && turn < 360-forkHeadingToleranceDeg {
				return tile.EdgePairs{}, false
			}
		}
	}

	opp1ID := findOpposingGraphID(baseID, e1, opp1Tile)
	opp2ID := findOpposingGraphID(baseID, e2, opp2Tile)

	return tile.EdgePairs{
		Edge1: tile.EdgePair{First: opp1ID, Second: edgeGraphID(baseID, survivors[1].localIdx)},
		Edge2: tile.EdgePair{First: opp2ID, Second: edgeGraphID(baseID, survivors[0].localIdx)},
	}, true
}

// edgeGraphID names a directed edge by (the node's tile/level, local
// index) the same way GraphId names a node: edges and nodes share the
// intra-tile index space convention used throughout this package.
func edgeGraphID(nodeID tile.GraphId, localIdx int) tile.GraphId {
	return tile.NewGraphId(nodeID.Level(), nodeID.Tile(), localIdx)
}

// findOpposingEdge resolves the directed edge that represents the
// reverse traversal of e (which starts at fromNode). It loads the
// tile containing e.EndNode and scans its outgoing edges for the one
// whose EndNode is fromNode with a matching classification, length
// and link/use signature.
func findOpposingEdge(reader tile.Reader, fromNode tile.GraphId, e *tile.DirectedEdge) (*tile.DirectedEdge, *tile.Tile, bool) {
	t, ok, err := reader.GetTile(e.EndNode)
	if err != nil || !ok {
		return nil, nil, false
	}
	if e.EndNode.Index() >= len(t.Nodes) {
		return nil, nil, false
	}
	ni := &t.Nodes[e.EndNode.Index()]
	for i := range t.EdgesOf(ni) {
		cand := &t.Edges[ni.EdgeIndex+i]
		if cand.EndNode != fromNode {
			continue
		}
		if !opposingCandidateMatches(e, cand) {
			continue
		}
		return cand, t, true
	}
	return nil, nil, false
}

// opposingCandidateMatches is GetOpposingEdge's acceptance test: a
// candidate on the far end qualifies as e's reverse traversal if its
// classification and length match and either both edges are links or
// their Use values agree outright.
func opposingCandidateMatches(e, cand *tile.DirectedEdge) bool {
	if cand.Classification != e.Classification || cand.Length != e.Length {
		return false
	}
	bothLink := e.Flags.Has(tile.FlagLink) && cand.Flags.Has(tile.FlagLink)
	return bothLink || cand.Use == e.Use
}

func findOpposingGraphID(fromNode tile.GraphId, e *tile.DirectedEdge, endTile *tile.Tile) tile.GraphId {
	if endTile == nil {
		return tile.InvalidGraphId
	}
	ni := &endTile.Nodes[e.EndNode.Index()]
	for i := range endTile.EdgesOf(ni) {
		cand := &endTile.Edges[ni.EdgeIndex+i]
		if cand.EndNode == fromNode && opposingCandidateMatches(e, cand) {
			return edgeGraphID(e.EndNode, ni.EdgeIndex+i)
		}
	}
	return tile.InvalidGraphId
}

func restrictionForbids(opp *tile.DirectedEdge, localIdx int) bool {
	return opp.Restrictions&(1<<uint(localIdx)) != 0
}

func countryAt(node tile.GraphId, t *tile.Tile) string {
	if t == nil || node.Index() >= len(t.Nodes) {
		return ""
	}
	return t.Nodes[node.Index()].CountryISO
}

func namesOf(t *tile.Tile, e *tile.DirectedEdge) []string {
	if e.EdgeInfoOffset < 0 || e.EdgeInfoOffset >= len(t.EdgeInfo) {
		return nil
	}
	return t.EdgeInfo[e.EdgeInfoOffset].Names
}

// edgesMatch implements the pairwise compatibility predicate from
// CanContract's step 4: e1 and e2 are two outbound edges at the same
// node, and must look like opposite halves of one through road.
func edgesMatch(e1, e2 *tile.DirectedEdge, names1, names2 []string) bool {
	if e1.EndNode == e2.EndNode {
		return false
	}
	if e1.ForwardAccess != e2.ReverseAccess || e2.ForwardAccess != e1.ReverseAccess {
		return false
	}
	if e1.Flags.Has(tile.FlagExitSign) || e2.Flags.Has(tile.FlagExitSign) {
		return false
	}
	if e1.Flags.Has(tile.FlagRoundabout) || e2.Flags.Has(tile.FlagRoundabout) {
		return false
	}
	if e1.Classification != e2.Classification {
		return false
	}
	if e1.Flags.Has(tile.FlagLink) != e2.Flags.Has(tile.FlagLink) {
		return false
	}
	if e1.Use != e2.Use {
		return false
	}
	if e1.Speed != e2.Speed {
		return false
	}
	if e1.Flags.Has(tile.FlagToll) != e2.Flags.Has(tile.FlagToll) {
		return false
	}
	if e1.Flags.Has(tile.FlagDestOnly) != e2.Flags.Has(tile.FlagDestOnly) {
		return false
	}
	if e1.Flags.Has(tile.FlagUnpaved) != e2.Flags.Has(tile.FlagUnpaved) {
		return false
	}
	if e1.Surface != e2.Surface {
		return false
	}
	return nameSetsEqual(names1, names2)
}

// nameSetsEqual compares two name lists as multisets: order does not
// matter, but cardinality does (two "Main St" on one side must be
// matched by two "Main St" on the other).
func nameSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, n := range a {
		counts[n]++
	}
	for _, n := range b {
		counts[n]--
		if counts[n] < 0 {
			return false
		}
	}
	return true
}

func headingOf(ni *tile.NodeInfo, localIdx int) float64 {
	if localIdx < len(ni.LocalHeadings) {
		return ni.LocalHeadings[localIdx]
	}
	return 0
}

func turnDegree(h1, h2 float64) float64 {
	return normalizeDeg(h2 - h1)
}

func normalizeDeg(d float64) float64 {
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}
