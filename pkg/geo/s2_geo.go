package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"

	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

func NewPoint(lat, lon float64) tile.Point {
	return tile.Point{Lat: lat, Lon: lon}
}

// EncodePolyline renders shape as a Google polyline string, used only
// for compact debug logging of shortcut geometry.
func EncodePolyline(shape []tile.Point) string {
	coords := make([][]float64, len(shape))
	for i, p := range shape {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

const tolerancePointInLine = 1e-3

// PointPositionBetweenLinePoints returns i+1 for the segment
// [i, i+1] of linePoints on which (lat, lon) lies most closely, using
// the "sum of distances to neighbors equals distance between
// neighbors" collinearity test; it returns 0 when no segment is within
// tolerance.
func PointPositionBetweenLinePoints(lat, lon float64, linePoints []tile.Point) int {
	minDiff := math.MaxFloat64
	var pos int
	for i := 0; i < len(linePoints)-1; i++ {
		currQueryDist := s2.LatLngFromDegrees(lat, lon).Distance(s2.LatLngFromDegrees(linePoints[i].Lat, linePoints[i].Lon)).Radians()
		nextQueryDist := s2.LatLngFromDegrees(lat, lon).Distance(s2.LatLngFromDegrees(linePoints[i+1].Lat, linePoints[i+1].Lon)).Radians()
		currNextDist := s2.LatLngFromDegrees(linePoints[i].Lat, linePoints[i].Lon).Distance(s2.LatLngFromDegrees(linePoints[i+1].Lat, linePoints[i+1].Lon)).Radians()

		diff := math.Abs(currQueryDist + nextQueryDist - currNextDist)
		if diff < tolerancePointInLine && diff < minDiff {
			minDiff = diff
			pos = i + 1
		}
	}
	return pos
}
