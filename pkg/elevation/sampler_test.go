package elevation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/hierarchybuilder/pkg/geo"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

func TestGradeCode(t *testing.T) {
	tests := []struct {
		name string
		mean float64
		want int8
	}{
		{"flat", 0, 6},
		{"exact half boundary truncates down", -10, 0},
		{"large positive clamps to 15", 100, 15},
		{"large negative clamps to 0", -100, 0},
		{"mild uphill", 5, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeCode(tt.mean))
		})
	}
}

func TestResampleDistances(t *testing.T) {
	t.Run("short edge samples only endpoints", func(t *testing.T) {
		d := ResampleDistances(50)
		assert.Equal(t, []float64{0, 50}, d)
	})

	t.Run("long edge samples every interval plus the endpoint", func(t *testing.T) {
		d := ResampleDistances(200)
		require.NotEmpty(t, d)
		assert.Equal(t, 0.0, d[0])
		assert.Equal(t, 200.0, d[len(d)-1])
		assert.Less(t, len(d), 6)
	})
}

func TestWeightedGrade(t *testing.T) {
	t.Run("flat heights give zero grade", func(t *testing.T) {
		mean, up, down := WeightedGrade([]float64{10, 10, 10}, []float64{0, 60, 120})
		assert.Equal(t, 0.0, mean)
		assert.Equal(t, 0.0, up)
		assert.Equal(t, 0.0, down)
	})

	t.Run("uniform climb reports matching mean and maxUp", func(t *testing.T) {
		mean, up, down := WeightedGrade([]float64{0, 6, 12}, []float64{0, 60, 120})
		assert.InDelta(t, 10.0, mean, 1e-9)
		assert.InDelta(t, 10.0, up, 1e-9)
		assert.Equal(t, 0.0, down)
	})

	t.Run("a short steep interval still shows up as the max grade", func(t *testing.T) {
		// three segments of width 60, 30, 10 -- the kind of uneven
		// spacing ResampleDistances' shorter trailing interval produces
		// -- with the middle one steeper than the other two.
		mean, up, _ := WeightedGrade([]float64{0, 6, 12, 13}, []float64{0, 60, 90, 100})
		assert.InDelta(t, 13.0, mean, 1e-9, "mean only depends on total rise over total distance")
		assert.InDelta(t, 20.0, up, 1e-9, "the short 30m middle segment is the steepest despite being the shortest-but-one")
	})

	t.Run("too few samples returns zero", func(t *testing.T) {
		mean, up, down := WeightedGrade([]float64{5}, []float64{0})
		assert.Equal(t, 0.0, mean)
		assert.Equal(t, 0.0, up)
		assert.Equal(t, 0.0, down)
	})

	t.Run("mismatched lengths return zero", func(t *testing.T) {
		mean, _, _ := WeightedGrade([]float64{0, 10}, []float64{0, 30, 60})
		assert.Equal(t, 0.0, mean)
	})
}

func TestResamplePoints(t *testing.T) {
	shape := []tile.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}

	t.Run("endpoints map onto the shape's own endpoints", func(t *testing.T) {
		pts := ResamplePoints(shape, []float64{0, 1_000_000})
		require.Len(t, pts, 2)
		assert.Equal(t, shape[0], pts[0])
		assert.Equal(t, shape[1], pts[1])
	})

	t.Run("a midpoint distance lands between the two vertices", func(t *testing.T) {
		total := geo.CalculateHaversineDistance(shape[0].Lat, shape[0].Lon, shape[1].Lat, shape[1].Lon) * 1000
		pts := ResamplePoints(shape, []float64{total / 2})
		require.Len(t, pts, 1)
		assert.Greater(t, pts[0].Lon, shape[0].Lon)
		assert.Less(t, pts[0].Lon, shape[1].Lon)
	})

	t.Run("single-vertex shape repeats that vertex", func(t *testing.T) {
		pts := ResamplePoints([]tile.Point{{Lat: 1, Lon: 2}}, []float64{0, 30, 60})
		require.Len(t, pts, 3)
		for _, p := range pts {
			assert.Equal(t, tile.Point{Lat: 1, Lon: 2}, p)
		}
	})
}

// stubSampler interpolates across a small configured height profile to
// produce one height per requested point, mirroring how a real
// sampler (GridSampler included) returns a reading per point rather
// than a fixed-size profile -- so tests can drive GradeForShortcut's
// resampling path (which controls how many points it asks for)
// without caring about the stub's exact point count.
type stubSampler struct {
	heights []float64 // control points spread evenly across whatever count GetAll is asked for
	err     error
}

func (s stubSampler) GetAll(shape []tile.Point) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	n := len(shape)
	out := make([]float64, n)
	if n == 0 || len(s.heights) == 0 {
		return out, nil
	}
	if len(s.heights) == 1 || n == 1 {
		for i := range out {
			out[i] = s.heights[0]
		}
		return out, nil
	}
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1) * float64(len(s.heights)-1)
		lo := int(frac)
		hi := lo + 1
		if hi >= len(s.heights) {
			hi, lo = len(s.heights)-1, len(s.heights)-1
		}
		t := frac - float64(lo)
		out[i] = s.heights[lo] + (s.heights[hi]-s.heights[lo])*t
	}
	return out, nil
}

func TestGradeForShortcut(t *testing.T) {
	shape := []tile.Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}

	t.Run("nil sampler is flat", func(t *testing.T) {
		assert.Equal(t, GradeCode(0), GradeForShortcut(nil, shape, 500, false))
	})

	t.Run("short edge is flat regardless of sampler", func(t *testing.T) {
		s := stubSampler{heights: []float64{0, 100}}
		assert.Equal(t, GradeCode(0), GradeForShortcut(s, shape, minGradeLength/2, false))
	})

	t.Run("sampler error is flat", func(t *testing.T) {
		s := stubSampler{err: errors.New("boom")}
		assert.Equal(t, GradeCode(0), GradeForShortcut(s, shape, 500, false))
	})

	t.Run("uphill run produces a positive grade code", func(t *testing.T) {
		s := stubSampler{heights: []float64{0, 30, 60}}
		got := GradeForShortcut(s, shape, 600, false)
		assert.Greater(t, got, GradeCode(0))
	})

	t.Run("reversed flips uphill to downhill", func(t *testing.T) {
		s := stubSampler{heights: []float64{0, 30, 60}}
		forward := GradeForShortcut(s, shape, 600, false)
		reversed := GradeForShortcut(s, shape, 600, true)
		assert.Less(t, reversed, forward)
	})
}

func TestGridSamplerBilinearInterpolation(t *testing.T) {
	heights := [][]float64{
		{0, 10},
		{20, 30},
	}
	s := NewGridSampler(0, 0, 1, heights)

	got, err := s.GetAll([]tile.Point{{Lat: 0, Lon: 0}, {Lat: 0.5, Lon: 0.5}, {Lat: 1, Lon: 1}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.0, got[0], 1e-9)
	assert.InDelta(t, 15.0, got[1], 1e-9)
	assert.InDelta(t, 30.0, got[2], 1e-9)
}

func TestGridSamplerEmptyGridIsFlat(t *testing.T) {
	s := NewGridSampler(0, 0, 1, nil)
	got, err := s.GetAll([]tile.Point{{Lat: 1, Lon: 1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, got)
}

func TestLoadGridSamplerMissingFile(t *testing.T) {
	_, err := LoadGridSampler("/nonexistent/grid.yaml")
	assert.Error(t, err)
}
