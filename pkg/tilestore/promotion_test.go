package tilestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

func TestPutAndGetPromotion(t *testing.T) {
	s, err := OpenPromotionStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	base := tile.NewGraphId(0, 3, 5)
	newID := tile.NewGraphId(1, 0, 2)

	_, ok, err := s.GetPromotion(1, base)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutPromotion(1, base, newID))

	got, ok, err := s.GetPromotion(1, base)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, newID, got)
}

func TestPutBatch(t *testing.T) {
	s, err := OpenPromotionStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	promotions := map[tile.GraphId]tile.GraphId{
		tile.NewGraphId(0, 1, 0): tile.NewGraphId(1, 0, 0),
		tile.NewGraphId(0, 1, 1): tile.NewGraphId(1, 0, 1),
	}
	require.NoError(t, s.PutBatch(1, promotions))

	for base, want := range promotions {
		got, ok, err := s.GetPromotion(1, base)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
