// Package reader is the concrete tile.Reader the orchestrator runs
// against: an LRU-bounded view over a pkg/tilecodec.Store, the same
// shape as a connection-pool-backed repository cache in the rest of
// the pack (an lru.Cache guarding a slower backing store).
package reader

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tilecodec"
)

// defaultCapacity caps the number of tiles held in memory at once. A
// hierarchy build only ever needs the current level's working set
// resident, so this is deliberately small relative to a full dataset.
const defaultCapacity = 512

// Reader wraps a tilecodec.Store with a bounded LRU cache and the
// OverCommitted/Clear signal the builder polls between tiles.
type Reader struct {
	store    *tilecodec.Store
	cache    *lru.Cache[tile.TileKey, *tile.Tile]
	hierarchy tile.Hierarchy
	capacity int
}

// New wraps store with an LRU cache of the given capacity (defaultCapacity
// if capacity <= 0) advertising h as the build's level hierarchy.
func New(store *tilecodec.Store, h tile.Hierarchy, capacity int) (*Reader, error) {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	cache, err := lru.New[tile.TileKey, *tile.Tile](capacity)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "create tile LRU cache of size %d", capacity)
	}
	return &Reader{store: store, cache: cache, hierarchy: h, capacity: capacity}, nil
}

func (r *Reader) GetTile(id tile.GraphId) (*tile.Tile, bool, error) {
	key := id.TileKey()
	if t, ok := r.cache.Get(key); ok {
		return t, true, nil
	}
	t, ok, err := r.store.Load(key)
	if err != nil {
		return nil, false, server.WrapErrorf(err, server.ErrInternalServerError, "load tile %+v", key)
	}
	if !ok {
		return nil, false, nil
	}
	r.cache.Add(key, t)
	return t, true, nil
}

// OverCommitted reports whether the cache has filled up, mirroring the
// disk manager's buffer-pool-full signal the teacher polls between
// page fetches.
func (r *Reader) OverCommitted() bool {
	return r.cache.Len() >= r.capacity
}

// Clear evicts everything, forcing the next GetTile to reload from the
// backing store. Called at tile boundaries once OverCommitted trips.
func (r *Reader) Clear() {
	r.cache.Purge()
}

func (r *Reader) TileHierarchy() tile.Hierarchy { return r.hierarchy }
