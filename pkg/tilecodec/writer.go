package tilecodec

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// writer is the Store's tile.TileWriter implementation. It stays
// entirely in memory until StoreTileData/Update commits it, the same
// pinned-until-flush lifecycle the teacher's buffer.Buffer gives a page.
type writer struct {
	store *Store
	key   tile.TileKey

	nodes []tile.NodeInfo
	edges []tile.DirectedEdge

	edgeInfo     []tile.EdgeInfo
	edgeInfoKeys map[edgeInfoKey]int
	signs        []tile.SignRecord
	restrictions []tile.AccessRestrictionRecord
	admins       []tile.AdminRecord
}

type edgeInfoKey struct {
	synthetic uint64
	a, b      tile.GraphId
}

func (s *Store) NewTile(key tile.TileKey) tile.TileWriter {
	return &writer{store: s, key: key, edgeInfoKeys: make(map[edgeInfoKey]int)}
}

func (s *Store) OpenTile(key tile.TileKey) (tile.TileWriter, error) {
	existing, ok, err := s.Load(key)
	if err != nil {
		return nil, err
	}
	w := &writer{store: s, key: key, edgeInfoKeys: make(map[edgeInfoKey]int)}
	if ok {
		w.nodes = append([]tile.NodeInfo{}, existing.Nodes...)
		w.edges = append([]tile.DirectedEdge{}, existing.Edges...)
		w.edgeInfo = append([]tile.EdgeInfo{}, existing.EdgeInfo...)
		w.signs = append([]tile.SignRecord{}, existing.Signs...)
		w.restrictions = append([]tile.AccessRestrictionRecord{}, existing.AccessRestrictions...)
		w.admins = append([]tile.AdminRecord{}, existing.Admins...)
	}
	return w, nil
}

func (w *writer) Nodes() *[]tile.NodeInfo         { return &w.nodes }
func (w *writer) Edges() *[]tile.DirectedEdge     { return &w.edges }

func (w *writer) AddEdgeInfo(syntheticID uint64, a, b tile.GraphId, info tile.EdgeInfo) (int, bool) {
	k := edgeInfoKey{syntheticID, a, b}
	if off, ok := w.edgeInfoKeys[k]; ok {
		return off, false
	}
	off := len(w.edgeInfo)
	w.edgeInfo = append(w.edgeInfo, info)
	w.edgeInfoKeys[k] = off
	return off, true
}

func (w *writer) AddAdmin(rec tile.AdminRecord) int {
	w.admins = append(w.admins, rec)
	return len(w.admins) - 1
}

func (w *writer) AddSign(rec tile.SignRecord) {
	w.signs = append(w.signs, rec)
}

func (w *writer) AddAccessRestriction(rec tile.AccessRestrictionRecord) {
	w.restrictions = append(w.restrictions, rec)
}

func (w *writer) StoreTileData() error {
	if err := w.store.Save(w.asTile()); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "store tile %+v", w.key)
	}
	return nil
}

func (w *writer) Update(nodes []tile.NodeInfo, edges []tile.DirectedEdge, signs []tile.SignRecord, restrictions []tile.AccessRestrictionRecord) error {
	w.nodes, w.edges, w.signs, w.restrictions = nodes, edges, signs, restrictions
	return w.StoreTileData()
}

func (w *writer) asTile() *tile.Tile {
	return &tile.Tile{
		Key:                w.key,
		Nodes:              w.nodes,
		Edges:              w.edges,
		EdgeInfo:           w.edgeInfo,
		Signs:              w.signs,
		AccessRestrictions: w.restrictions,
		Admins:             w.admins,
	}
}
