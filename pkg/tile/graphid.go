package tile

import "fmt"

const (
	indexBits = 21
	tileBits  = 22
	levelBits = 3

	maxIndex = 1<<indexBits - 1
	maxTile  = 1<<tileBits - 1
	maxLevel = 1<<levelBits - 1
)

// GraphId names a node or a directed edge inside a specific tile on a
// specific level. It packs into 46 bits the same way the rest of this
// codebase bitpacks small integer fields, so a GraphId is cheap to
// carry around by value and to use as a map key.
type GraphId uint64

// InvalidGraphId is the all-ones sentinel. It equals
// NewGraphId(maxLevel, maxTile, maxIndex), so that one triple is
// reserved and never addresses a real record.
const InvalidGraphId GraphId = GraphId(1<<(indexBits+tileBits+levelBits)) - 1

// NewGraphId packs a (level, tile, index) triple. Callers are expected
// to stay within the field widths; out-of-range values are truncated,
// which mirrors the packing helpers in pkg/util.
func NewGraphId(level, tileID, index int) GraphId {
	v := uint64(index&maxIndex) |
		uint64(tileID&maxTile)<<indexBits |
		uint64(level&maxLevel)<<(indexBits+tileBits)
	return GraphId(v)
}

func (g GraphId) Level() int {
	return int((uint64(g) >> (indexBits + tileBits)) & maxLevel)
}

func (g GraphId) Tile() int {
	return int((uint64(g) >> indexBits) & maxTile)
}

func (g GraphId) Index() int {
	return int(uint64(g) & maxIndex)
}

// WithIndex returns a copy of g addressing a different intra-tile index,
// keeping the same (level, tile) pair.
func (g GraphId) WithIndex(index int) GraphId {
	return NewGraphId(g.Level(), g.Tile(), index)
}

func (g GraphId) Valid() bool {
	return g != InvalidGraphId
}

// TileKey identifies just the (level, tile) pair, dropping the index.
// Used as the key into per-tile maps and as the tile store's address.
type TileKey struct {
	Level int
	Tile  int
}

func (g GraphId) TileKey() TileKey {
	return TileKey{Level: g.Level(), Tile: g.Tile()}
}

func (g GraphId) String() string {
	if !g.Valid() {
		return "GraphId(invalid)"
	}
	return fmt.Sprintf("GraphId(level=%d,tile=%d,index=%d)", g.Level(), g.Tile(), g.Index())
}

// Less orders GraphIds by (level, tile, index).
func Less(a, b GraphId) bool {
	if a.Level() != b.Level() {
		return a.Level() < b.Level()
	}
	if a.Tile() != b.Tile() {
		return a.Tile() < b.Tile()
	}
	return a.Index() < b.Index()
}
