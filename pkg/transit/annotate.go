package transit

import (
	"context"

	"github.com/lintang-b-s/hierarchybuilder/pkg/geo"
	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// stopMatchRadiusMeters is how close a stop must be to a node for that
// node to be marked NodeTypeTransitStop. Matching is deliberately crude
// (haversine distance to each node, no spatial index): this pre-pass
// only needs to be right often
// enough to keep the contractibility oracle from collapsing real stops.
const stopMatchRadiusMeters = 15.0

// AnnotateBaseTile marks every node in t that sits within
// stopMatchRadiusMeters of a fetched stop as NodeTypeTransitStop,
// returning the count of nodes changed. It mutates t.Nodes in place.
func AnnotateBaseTile(ctx context.Context, fetcher FeedFetcher, t *tile.Tile) (int, error) {
	stops, err := fetcher.FetchStops(ctx)
	if err != nil {
		return 0, server.WrapErrorf(err, server.ErrInternalServerError, "fetch stops for tile %+v", t.Key)
	}
	if len(stops) == 0 {
		return 0, nil
	}

	changed := 0
	for i := range t.Nodes {
		n := &t.Nodes[i]
		for _, s := range stops {
			if geo.CalculateHaversineDistance(n.Lat, n.Lon, s.Lat, s.Lon)*1000 <= stopMatchRadiusMeters {
				if n.Type != tile.NodeTypeTransitStop {
					n.Type = tile.NodeTypeTransitStop
					changed++
				}
				break
			}
		}
	}
	return changed, nil
}
