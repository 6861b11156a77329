package transit

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelindar/binary"

	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
)

// BadgerFetcher is a reference FeedFetcher backed by a badger.DB: a
// feed ingested once (by some out-of-band tool) and replayed from a
// local checkpoint on every build, rather than hit over the network
// each time.
type BadgerFetcher struct {
	db *badger.DB
}

func NewBadgerFetcher(db *badger.DB) *BadgerFetcher {
	return &BadgerFetcher{db: db}
}

var (
	stopsKey  = []byte("transit/stops")
	routesKey = []byte("transit/routes")
)

func (f *BadgerFetcher) FetchStops(ctx context.Context) ([]Stop, error) {
	var stops []Stop
	err := f.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stopsKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return binary.Unmarshal(val, &stops)
	})
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "fetch transit stops")
	}
	return stops, nil
}

func (f *BadgerFetcher) FetchRoutes(ctx context.Context) ([]Route, error) {
	var routes []Route
	err := f.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(routesKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return binary.Unmarshal(val, &routes)
	})
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "fetch transit routes")
	}
	return routes, nil
}

// PutStops and PutRoutes let an ingestion tool seed the checkpoint this
// fetcher replays from.
func (f *BadgerFetcher) PutStops(stops []Stop) error {
	val, err := binary.Marshal(stops)
	if err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "encode transit stops")
	}
	return f.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stopsKey, val)
	})
}

func (f *BadgerFetcher) PutRoutes(routes []Route) error {
	val, err := binary.Marshal(routes)
	if err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "encode transit routes")
	}
	return f.db.Update(func(txn *badger.Txn) error {
		return txn.Set(routesKey, val)
	})
}
