package hierarchy

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// memReader/memBuilder are tiny in-memory stand-ins for the tile
// reader/builder external collaborators, good enough to drive the
// orchestrator end to end in tests without any real codec or storage
// engine underneath.
type memStore struct {
	tiles map[tile.TileKey]*tile.Tile
	h     tile.Hierarchy
}

func newMemStore(h tile.Hierarchy) *memStore {
	return &memStore{tiles: make(map[tile.TileKey]*tile.Tile), h: h}
}

func (s *memStore) put(t *tile.Tile) {
	cp := *t
	s.tiles[t.Key] = &cp
}

type memReader struct{ s *memStore }

func (r *memReader) GetTile(id tile.GraphId) (*tile.Tile, bool, error) {
	t, ok := r.s.tiles[id.TileKey()]
	return t, ok, nil
}
func (r *memReader) OverCommitted() bool       { return false }
func (r *memReader) Clear()                    {}
func (r *memReader) TileHierarchy() tile.Hierarchy { return r.s.h }

type memBuilder struct{ s *memStore }

type memWriter struct {
	s     *memStore
	key   tile.TileKey
	nodes []tile.NodeInfo
	edges []tile.DirectedEdge

	edgeInfo      []tile.EdgeInfo
	edgeInfoKeys  map[[3]uint64]int
	signs         []tile.SignRecord
	restrictions  []tile.AccessRestrictionRecord
	admins        []tile.AdminRecord
}

func (b *memBuilder) NewTile(key tile.TileKey) tile.TileWriter {
	return &memWriter{s: b.s, key: key, edgeInfoKeys: make(map[[3]uint64]int)}
}

func (b *memBuilder) OpenTile(key tile.TileKey) (tile.TileWriter, error) {
	existing, ok := b.s.tiles[key]
	w := &memWriter{s: b.s, key: key, edgeInfoKeys: make(map[[3]uint64]int)}
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

func (w *memWriter) Nodes() *[]tile.NodeInfo { return &w.nodes }
func (w *memWriter) Edges() *[]tile.DirectedEdge { return &w.edges }

func (w *memWriter) AddEdgeInfo(syntheticID uint64, a, b tile.GraphId, info tile.EdgeInfo) (int, bool) {
	k := [3]uint64{syntheticID, uint64(a), uint64(b)}
	if off, ok := w.edgeInfoKeys[k]; ok {
		return off, false
	}
	off := len(w.edgeInfo)
	w.edgeInfo = append(w.edgeInfo, info)
	w.edgeInfoKeys[k] = off
	return off, true
}

func (w *memWriter) AddAdmin(rec tile.AdminRecord) int {
	w.admins = append(w.admins, rec)
	return len(w.admins) - 1
}
func (w *memWriter) AddSign(rec tile.SignRecord) { w.signs = append(w.signs, rec) }
func (w *memWriter) AddAccessRestriction(rec tile.AccessRestrictionRecord) {
	w.restrictions = append(w.restrictions, rec)
}

func (w *memWriter) StoreTileData() error {
	w.s.put(&tile.Tile{
		Key: w.key, Nodes: w.nodes, Edges: w.edges, EdgeInfo: w.edgeInfo,
		Signs: w.signs, AccessRestrictions: w.restrictions, Admins: w.admins,
	})
	return nil
}

func (w *memWriter) Update(nodes []tile.NodeInfo, edges []tile.DirectedEdge, signs []tile.SignRecord, restrictions []tile.AccessRestrictionRecord) error {
	w.nodes, w.edges, w.signs, w.restrictions = nodes, edges, signs, restrictions
	return w.StoreTileData()
}
