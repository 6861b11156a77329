package hierarchy

import (
	"log"

	"github.com/lintang-b-s/hierarchybuilder/pkg/elevation"
	"github.com/lintang-b-s/hierarchybuilder/pkg/geo"
	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// assembleTile builds one complete new-level tile out of the NewNode
// vector already assigned to it, writing it through builder.
func assembleTile(ctx *buildContext, reader tile.Reader, builder tile.Builder, sampler elevation.Sampler, key tile.TileKey, metrics *Metrics) error {
	nodes := ctx.newNodes[key]
	if len(nodes) == 0 {
		return nil
	}

	w := builder.NewTile(key)
	newNodes := w.Nodes()
	newEdges := w.Edges()

	for newIdx, nn := range nodes {
		baseTile, ok, err := reader.GetTile(nn.BaseNode)
		if err != nil {
			return server.WrapErrorf(err, server.ErrInternalServerError, "assemble tile %+v: load base tile for node %s", key, nn.BaseNode)
		}
		if !ok {
			log.Printf("hierarchy: base tile for promoted node %s missing, skipping", nn.BaseNode)
			continue
		}
		baseNI := &baseTile.Nodes[nn.BaseNode.Index()]

		signByEdge := make(map[int]tile.SignRecord, len(baseTile.Signs))
		for _, s := range baseTile.Signs {
			signByEdge[s.EdgeIndex] = s
		}
		restrictionByEdge := make(map[int]tile.AccessRestrictionRecord, len(baseTile.AccessRestrictions))
		for _, r := range baseTile.AccessRestrictions {
			restrictionByEdge[r.EdgeIndex] = r
		}

		newNI := *baseNI
		newNI.EdgeIndex = len(*newEdges)
		adminIdx := w.AddAdmin(adminRecordFor(baseTile, baseNI))
		newNI.AdminIndex = adminIdx

		newID := tile.NewGraphId(key.Level, key.Tile, newIdx)
		var pairs tile.EdgePairs
		if nn.Contract {
			pairs = ctx.edgePairs[newID]
		}

		emitted := 0
		for i := range baseTile.EdgesOf(baseNI) {
			localIdx := baseNI.EdgeIndex + i
			e := &baseTile.Edges[localIdx]
			if e.Classification > ctx.toLevel.ClassificationCutoff {
				continue
			}
			if e.Flags.Has(tile.FlagTransDown) || e.Flags.Has(tile.FlagShortcut) {
				continue
			}
			if nn.Contract && isEdgePairMember(pairs, nn.BaseNode, localIdx) {
				continue
			}

			neighborNew, promoted := ctx.promotion[e.EndNode]
			if !promoted {
				continue
			}
			neighborNN, _ := ctx.newNodeFor(neighborNew)
			startsShortcut := neighborNN.Contract && edgePairEntersHere(ctx.edgePairs[neighborNew], nn.BaseNode, localIdx)

			if startsShortcut {
				startEdgeID := edgeGraphID(nn.BaseNode, localIdx)
				st, err := connectEdges(ctx, reader, baseTile, startEdgeID, e)
				if err != nil {
					return server.WrapErrorf(err, server.ErrInternalServerError, "walk shortcut from %s", startEdgeID)
				}
				if !st.cursor.Valid() {
					log.Printf("hierarchy: shortcut from %s terminated without a valid end node, dropping", startEdgeID)
					continue
				}
				shortcut := *e
				shortcut.EndNode = st.cursor
				shortcut.Length = st.length
				shortcut.OppLocalIdx = st.oppLocalIdx
				shortcut.Restrictions = st.restrictions
				shortcut.Superseded = 0
				shortcut.Flags = shortcut.Flags.With(tile.FlagInternal, false).With(tile.FlagShortcut, true)
				shortcut.WayID = -1 // see DESIGN.md open question

				if shortcut.Flags.Has(tile.FlagExitSign) {
					log.Printf("hierarchy: invariant violation: shortcut from %s carries an exit sign", startEdgeID)
				}

				shortcut.Grade = elevation.GradeForShortcut(sampler, st.shape, st.length, false)

				syntheticID := shortcutEdgeInfoKey(st.length, len(st.shape))
				offset, _ := w.AddEdgeInfo(syntheticID, newID, st.cursor, tile.EdgeInfo{
					WayID: -1,
					Shape: st.shape,
					Names: namesOf(baseTile, e),
				})
				shortcut.EdgeInfoOffset = offset

				emitted++
				shortcut.ShortcutIndex = emitted
				*newEdges = append(*newEdges, shortcut)
				ctx.setShortcutIndex(newID, localIdx, emitted)
				metrics.shortcutsCreated.Inc()
				log.Printf("hierarchy: shortcut %s -> %s len=%.1fm shape=%s", newID, st.cursor, st.length, geo.EncodePolyline(st.shape))
				continue
			}
		}

		for i := range baseTile.EdgesOf(baseNI) {
			localIdx := baseNI.EdgeIndex + i
			e := &baseTile.Edges[localIdx]
			if e.Classification > ctx.toLevel.ClassificationCutoff {
				continue
			}
			if e.Flags.Has(tile.FlagTransDown) || e.Flags.Has(tile.FlagShortcut) {
				continue
			}
			if nn.Contract && isEdgePairMember(pairs, nn.BaseNode, localIdx) {
				// this edge is one half of the node's own contraction pair
				// and was consumed as the *start* of a shortcut elsewhere,
				// or is the outgoing half that a shortcut walk ends on; it
				// never survives standalone at this level.
				continue
			}
			neighborNew, promoted := ctx.promotion[e.EndNode]
			if !promoted {
				continue
			}

			survivor := *e
			survivor.EndNode = neighborNew
			info := tile.EdgeInfo{WayID: e.WayID, Shape: namesTileShape(baseTile, e), Names: namesOf(baseTile, e)}
			offset, _ := w.AddEdgeInfo(shortcutEdgeInfoKey(e.Length, len(info.Shape))^uint64(localIdx), newID, neighborNew, info)
			survivor.EdgeInfoOffset = offset
			if superseded, ok := ctx.shortcutIndexFor(newID, localIdx); ok {
				survivor.Superseded = superseded
			} else {
				survivor.Superseded = 0
			}
			if e.Flags.Has(tile.FlagExitSign) {
				if rec, ok := signByEdge[localIdx]; ok {
					w.AddSign(tile.SignRecord{EdgeIndex: len(*newEdges), ExitText: rec.ExitText})
				}
			}
			if e.Flags.Has(tile.FlagAccessRestriction) {
				if rec, ok := restrictionByEdge[localIdx]; ok {
					w.AddAccessRestriction(tile.AccessRestrictionRecord{EdgeIndex: len(*newEdges), Modes: rec.Modes, Value: rec.Value})
				}
			}
			*newEdges = append(*newEdges, survivor)
		}

		*newEdges = append(*newEdges, tile.DirectedEdge{
			EndNode:       nn.BaseNode,
			Flags:         tile.EdgeFlags(0).With(tile.FlagTransDown, true),
			Use:           tile.UseConnector,
			ForwardAccess: ^tile.Access(0),
			ReverseAccess: ^tile.Access(0),
		})

		newNI.EdgeCount = len(*newEdges) - newNI.EdgeIndex
		*newNodes = append(*newNodes, newNI)
	}

	metrics.nodesContracted.Add(float64(countContracted(nodes)))
	if err := w.StoreTileData(); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "store assembled tile %+v", key)
	}
	return nil
}

func countContracted(nodes []tile.NewNode) int {
	n := 0
	for _, nn := range nodes {
		if nn.Contract {
			n++
		}
	}
	return n
}

func isEdgePairMember(pairs tile.EdgePairs, node tile.GraphId, localIdx int) bool {
	id := edgeGraphID(node, localIdx)
	return pairs.Edge1.Second == id || pairs.Edge2.Second == id
}

func edgePairEntersHere(pairs tile.EdgePairs, node tile.GraphId, localIdx int) bool {
	id := edgeGraphID(node, localIdx)
	return pairs.Edge1.First == id || pairs.Edge2.First == id
}

// shortcutEdgeInfoKey synthesizes an edge-info dedup key for a
// shortcut from its length and point count, so that two distinct
// shortcuts sharing both endpoints (a rare but real possibility, e.g.
// parallel carriageways collapsing independently) don't collide in the
// tile's edge-info side table.
func shortcutEdgeInfoKey(length float64, pointCount int) uint64 {
	return uint64(length*1000) ^ (uint64(pointCount) << 40)
}

func adminRecordFor(t *tile.Tile, ni *tile.NodeInfo) tile.AdminRecord {
	if ni.AdminIndex >= 0 && ni.AdminIndex < len(t.Admins) {
		return t.Admins[ni.AdminIndex]
	}
	return tile.AdminRecord{ISO: ni.CountryISO}
}
