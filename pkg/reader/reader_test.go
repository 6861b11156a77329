package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tilecodec"
)

func testHierarchy() tile.Hierarchy {
	return tile.Hierarchy{Levels: []tile.LevelDescriptor{
		{Level: 0, Name: "base"},
		{Level: 1, Name: "arterial"},
	}}
}

func TestGetTilePopulatesCacheFromStore(t *testing.T) {
	store, err := tilecodec.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	key := tile.TileKey{Level: 0, Tile: 7}
	want := &tile.Tile{Key: key, Nodes: []tile.NodeInfo{{Lat: 1, Lon: 2}}}
	require.NoError(t, store.Save(want))

	r, err := New(store, testHierarchy(), 4)
	require.NoError(t, err)

	got, ok, err := r.GetTile(tile.NewGraphId(0, 7, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Nodes, 1)

	// second fetch must be served from cache, not the store, but the
	// data returned should still match.
	got2, ok, err := r.GetTile(tile.NewGraphId(0, 7, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got.Nodes, got2.Nodes)
}

func TestGetTileMissingReturnsFalse(t *testing.T) {
	store, err := tilecodec.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	r, err := New(store, testHierarchy(), 4)
	require.NoError(t, err)

	_, ok, err := r.GetTile(tile.NewGraphId(0, 99, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverCommittedAndClear(t *testing.T) {
	store, err := tilecodec.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	r, err := New(store, testHierarchy(), 2)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		key := tile.TileKey{Level: 0, Tile: i}
		require.NoError(t, store.Save(&tile.Tile{Key: key}))
		_, _, err := r.GetTile(tile.NewGraphId(0, i, 0))
		require.NoError(t, err)
	}
	assert.True(t, r.OverCommitted())

	r.Clear()
	assert.False(t, r.OverCommitted())
}
