// Package transit is the pre-pass that can annotate base tiles with
// transit-stop node types before the hierarchy build runs over them.
// It is wired only into cmd/hierarchybuild's build command, never
// called by pkg/hierarchy directly.
package transit

import "context"

// Stop is one transit stop, located by the same lat/lon convention the
// rest of this codebase uses for node coordinates.
type Stop struct {
	ID  string
	Lat float64
	Lon float64
}

// Route is a named sequence of stop ids a vehicle follows.
type Route struct {
	ID      string
	Name    string
	StopIDs []string
}

// FeedFetcher is the external collaborator a transit data provider
// implements. It never touches tile storage directly: a pre-pass
// consumes its output and decides how (or whether) to fold it into the
// base level.
type FeedFetcher interface {
	FetchStops(ctx context.Context) ([]Stop, error)
	FetchRoutes(ctx context.Context) ([]Route, error)
}

// NoopFetcher is a FeedFetcher that returns nothing, the default when
// no transit feed is configured.
type NoopFetcher struct{}

func (NoopFetcher) FetchStops(ctx context.Context) ([]Stop, error)   { return nil, nil }
func (NoopFetcher) FetchRoutes(ctx context.Context) ([]Route, error) { return nil, nil }
