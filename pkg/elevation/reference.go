package elevation

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// GridSampler is a coarse grid of heights interpolated bilinearly.
type GridSampler struct {
	originLat, originLon float64
	cellSize             float64 // degrees per grid cell
	heights              [][]float64
}

// NewGridSampler builds a sampler over a rectangular height grid.
// heights[i][j] is the height at (originLat + i*cellSize, originLon +
// j*cellSize).
func NewGridSampler(originLat, originLon, cellSize float64, heights [][]float64) *GridSampler {
	return &GridSampler{originLat: originLat, originLon: originLon, cellSize: cellSize, heights: heights}
}

// gridFile is the on-disk shape of a heights dataset named by
// additional_data.elevation in the build config.
type gridFile struct {
	OriginLat float64     `yaml:"origin_lat"`
	OriginLon float64     `yaml:"origin_lon"`
	CellSize  float64     `yaml:"cell_size"`
	Heights   [][]float64 `yaml:"heights"`
}

// LoadGridSampler reads a heights dataset from path and builds a
// GridSampler over it.
func LoadGridSampler(path string) (*GridSampler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "read elevation dataset %s", path)
	}
	var g gridFile
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, server.WrapErrorf(err, server.ErrBadParamInput, "parse elevation dataset %s", path)
	}
	if len(g.Heights) == 0 || g.CellSize <= 0 {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "elevation dataset %s has no usable height grid", path)
	}
	return NewGridSampler(g.OriginLat, g.OriginLon, g.CellSize, g.Heights), nil
}

func (s *GridSampler) GetAll(shape []tile.Point) ([]float64, error) {
	out := make([]float64, len(shape))
	for i, p := range shape {
		out[i] = s.heightAt(p.Lat, p.Lon)
	}
	return out, nil
}

func (s *GridSampler) heightAt(lat, lon float64) float64 {
	if len(s.heights) == 0 {
		return 0
	}
	fi := (lat - s.originLat) / s.cellSize
	fj := (lon - s.originLon) / s.cellSize

	i0 := clampInt(int(fi), 0, len(s.heights)-1)
	j0 := clampInt(int(fj), 0, len(s.heights[0])-1)
	i1 := clampInt(i0+1, 0, len(s.heights)-1)
	j1 := clampInt(j0+1, 0, len(s.heights[0])-1)

	ti := fi - float64(i0)
	tj := fj - float64(j0)

	h00 := s.heights[i0][j0]
	h01 := s.heights[i0][j1]
	h10 := s.heights[i1][j0]
	h11 := s.heights[i1][j1]

	h0 := h00 + (h01-h00)*tj
	h1 := h10 + (h11-h10)*tj
	return h0 + (h1-h0)*ti
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
