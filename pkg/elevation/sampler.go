// Package elevation samples terrain height along a polyline and
// reduces a run of samples to the compact weighted-grade code stored
// on a shortcut edge.
package elevation

import (
	"github.com/lintang-b-s/hierarchybuilder/pkg/geo"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// Sampler is the external elevation collaborator. A build with no
// elevation dataset configured simply never constructs one; every
// caller treats a nil Sampler as "no grade information available".
type Sampler interface {
	GetAll(shape []tile.Point) ([]float64, error)
}

const (
	minGradeLength  = 10.0  // meters; below this, grade is not sampled at all
	sampleInterval  = 60.0  // meters
	shortEdgeLength = 180.0 // meters; below this, sample only the two endpoints
)

// ResampleDistances returns the cumulative distances, in meters, at
// which a polyline of total length should be sampled for grade. It
// always includes 0 and length.
func ResampleDistances(length float64) []float64 {
	if length < shortEdgeLength {
		return []float64{0, length}
	}
	n := int(length/sampleInterval) + 1
	out := make([]float64, 0, n+1)
	for d := 0.0; d < length; d += sampleInterval {
		out = append(out, d)
	}
	out = append(out, length)
	return out
}

// ResamplePoints maps each cumulative distance in distances (as
// returned by ResampleDistances) onto a point along shape, linearly
// interpolating between the two shape vertices the distance falls
// between. shape's own arc length (measured with CalculateHaversineDistance)
// defines the mapping, independent of whatever nominal edge length the
// caller is resampling over.
func ResamplePoints(shape []tile.Point, distances []float64) []tile.Point {
	if len(shape) == 0 {
		return nil
	}
	if len(shape) == 1 {
		out := make([]tile.Point, len(distances))
		for i := range out {
			out[i] = shape[0]
		}
		return out
	}

	cum := make([]float64, len(shape))
	for i := 1; i < len(shape); i++ {
		cum[i] = cum[i-1] + geo.CalculateHaversineDistance(shape[i-1].Lat, shape[i-1].Lon, shape[i].Lat, shape[i].Lon)*1000
	}
	total := cum[len(cum)-1]

	out := make([]tile.Point, len(distances))
	seg := 0
	for i, d := range distances {
		switch {
		case d <= 0:
			out[i] = shape[0]
		case d >= total:
			out[i] = shape[len(shape)-1]
		default:
			for seg < len(cum)-2 && cum[seg+1] < d {
				seg++
			}
			segLen := cum[seg+1] - cum[seg]
			var t float64
			if segLen > 0 {
				t = (d - cum[seg]) / segLen
			}
			a, b := shape[seg], shape[seg+1]
			out[i] = tile.Point{Lat: a.Lat + (b.Lat-a.Lat)*t, Lon: a.Lon + (b.Lon-a.Lon)*t}
		}
	}
	return out
}

// WeightedGrade reduces a run of heights, sampled at the matching
// cumulative distances, to a (mean, maxUp, maxDown) grade in percent.
// Each step's grade is weighted by its own interval width, so callers
// can pass unevenly spaced distances (as ResampleDistances produces
// for its trailing, usually-shorter, final interval).
func WeightedGrade(heights, distances []float64) (mean, maxUp, maxDown float64) {
	if len(heights) < 2 || len(heights) != len(distances) {
		return 0, 0, 0
	}
	var weightedSum, totalWeight float64
	for i := 1; i < len(heights); i++ {
		interval := distances[i] - distances[i-1]
		if interval <= 0 {
			continue
		}
		rise := heights[i] - heights[i-1]
		grade := (rise / interval) * 100.0
		weightedSum += grade * interval
		totalWeight += interval
		if grade > maxUp {
			maxUp = grade
		}
		if -grade > maxDown {
			maxDown = -grade
		}
	}
	if totalWeight == 0 {
		return 0, maxUp, maxDown
	}
	return weightedSum / totalWeight, maxUp, maxDown
}

// GradeCode compresses a mean grade percentage into the 4-bit code
// stored on a DirectedEdge: a truncating cast of mean*0.6 + 6.5,
// clamped to [0,15]. Code 6 denotes flat (mean == 0).
func GradeCode(mean float64) int8 {
	code := int(mean*0.6 + 6.5)
	if code < 0 {
		code = 0
	}
	if code > 15 {
		code = 15
	}
	return int8(code)
}

// GradeForShortcut is the entry point the shortcut walker/assembler
// call once a shortcut's full shape and length are known. It returns
// the flat code GradeCode(0), i.e. 6, immediately for very short edges
// or when sampler is nil.
// The shape is resampled at ResampleDistances' 60 m intervals before
// sampling heights, so an unevenly spliced shortcut shape (its
// vertices come straight from the base edges' surveyed geometry, not
// from any even spacing) doesn't skew the weighted mean.
func GradeForShortcut(sampler Sampler, shape []tile.Point, length float64, reversed bool) int8 {
	if sampler == nil || length < minGradeLength {
		return GradeCode(0)
	}
	distances := ResampleDistances(length)
	points := ResamplePoints(shape, distances)
	heights, err := sampler.GetAll(points)
	if err != nil || len(heights) != len(distances) {
		return GradeCode(0)
	}
	if reversed {
		heights = reverseFloats(heights)
		distances = reverseFloats(distances)
		for i, d := range distances {
			distances[i] = length - d
		}
	}
	mean, _, _ := WeightedGrade(heights, distances)
	return GradeCode(mean)
}

func reverseFloats(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
