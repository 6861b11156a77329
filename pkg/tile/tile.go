package tile

// Tile is the read-only in-memory view of one (level, tile) binary
// container: every node and directed edge record plus the side tables
// an edge can point into. Components never construct a Tile directly;
// they get one from a Reader.
type Tile struct {
	Key TileKey

	Nodes []NodeInfo
	Edges []DirectedEdge // contiguous by owning node, NodeInfo.EdgeIndex/EdgeCount address into this slice

	EdgeInfo            []EdgeInfo // keyed by DirectedEdge.EdgeInfoOffset
	Signs               []SignRecord
	AccessRestrictions  []AccessRestrictionRecord
	Admins              []AdminRecord
}

// EdgesOf returns the slice of directed edges owned by node n.
func (t *Tile) EdgesOf(n *NodeInfo) []DirectedEdge {
	if n.EdgeCount == 0 {
		return nil
	}
	return t.Edges[n.EdgeIndex : n.EdgeIndex+n.EdgeCount]
}

// Reader is the external "tile reader" collaborator from the external
// interfaces: a cache-backed source of Tiles that the orchestrator
// polls for an over-commit signal between tile boundaries.
type Reader interface {
	GetTile(id GraphId) (*Tile, bool, error)
	OverCommitted() bool
	Clear()
	TileHierarchy() Hierarchy
}

// Builder is the external "tile builder" collaborator: scoped,
// writable access to one tile being assembled or patched.
type Builder interface {
	// NewTile starts a brand-new tile at key, discarding any prior
	// content (used by the assembler).
	NewTile(key TileKey) TileWriter
	// OpenTile loads an existing tile at key for in-place rewriting
	// (used by the patcher).
	OpenTile(key TileKey) (TileWriter, error)
}

// TileWriter is the mutable handle a Builder hands out. Nodes and
// Edges are exposed directly because the assembler and patcher both
// need to append in very specific, order-sensitive ways that a narrow
// method set would only get in the way of.
type TileWriter interface {
	Nodes() *[]NodeInfo
	Edges() *[]DirectedEdge

	// AddEdgeInfo is idempotent keyed by (syntheticID, nodeA, nodeB):
	// a repeat call with the same key returns the existing offset and
	// reports added=false.
	AddEdgeInfo(syntheticID uint64, nodeA, nodeB GraphId, info EdgeInfo) (offset int, added bool)
	AddAdmin(rec AdminRecord) int
	AddSign(rec SignRecord)
	AddAccessRestriction(rec AccessRestrictionRecord)

	// StoreTileData finalizes and persists the tile built via NewTile.
	StoreTileData() error
	// Update finalizes and persists a tile opened via OpenTile, taking
	// the explicitly rewritten node/edge/sign/restriction sets so the
	// patcher's index bookkeeping can't be bypassed by a stray append.
	Update(nodes []NodeInfo, edges []DirectedEdge, signs []SignRecord, restrictions []AccessRestrictionRecord) error
}

// LevelDescriptor names one level of the hierarchy: its classification
// cutoff and its tiling grid resolution.
type LevelDescriptor struct {
	Level              int
	Name               string
	ClassificationCutoff RoadClass
	TilingResolution   int // H3 resolution backing this level's tiling grid
}

// Hierarchy is the ordered set of levels, finest first.
type Hierarchy struct {
	Levels []LevelDescriptor
}

func (h Hierarchy) Base() LevelDescriptor {
	return h.Levels[0]
}

// Next returns the level directly coarser than level, and false if
// level is already the coarsest.
func (h Hierarchy) Next(level int) (LevelDescriptor, bool) {
	for i, l := range h.Levels {
		if l.Level == level && i+1 < len(h.Levels) {
			return h.Levels[i+1], true
		}
	}
	return LevelDescriptor{}, false
}
