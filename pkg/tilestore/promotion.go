// Package tilestore is a badger-backed checkpoint for the level-to-level
// promotion map, grounded in the teacher's pkg/kv.KVDB: a badger.DB
// holding kelindar/binary-encoded records under namespaced keys. The
// hierarchy builder and the CLI neither write to nor read from it, so a
// build that stops mid-level starts that level again from scratch.
package tilestore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelindar/binary"

	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

type PromotionStore struct {
	db *badger.DB
}

func OpenPromotionStore(dir string) (*PromotionStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "open badger promotion store at %s", dir)
	}
	return &PromotionStore{db: db}, nil
}

func (s *PromotionStore) Close() error {
	return s.db.Close()
}

func promotionKey(toLevel int, base tile.GraphId) []byte {
	return []byte(fmt.Sprintf("promotion/%d/%d", toLevel, uint64(base)))
}

// PutPromotion records that base was promoted to newID while building
// toLevel.
func (s *PromotionStore) PutPromotion(toLevel int, base, newID tile.GraphId) error {
	val, err := binary.Marshal(uint64(newID))
	if err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "encode promotion record for %s", base)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(promotionKey(toLevel, base), val)
	})
}

// GetPromotion returns the new-level GraphId base was previously
// promoted to, if any checkpoint exists for it.
func (s *PromotionStore) GetPromotion(toLevel int, base tile.GraphId) (tile.GraphId, bool, error) {
	var newID uint64
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(promotionKey(toLevel, base))
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
		if err := binary.Unmarshal(val, &newID); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return tile.InvalidGraphId, false, server.WrapErrorf(err, server.ErrInternalServerError, "read promotion record for %s", base)
	}
	return tile.GraphId(newID), found, nil
}

// PutBatch writes a whole level's promotion map in one badger write
// batch, the same shape as the teacher's saveBatchEdges.
func (s *PromotionStore) PutBatch(toLevel int, promotions map[tile.GraphId]tile.GraphId) error {
	batch := s.db.NewWriteBatch()
	defer batch.Cancel()

	for base, newID := range promotions {
		val, err := binary.Marshal(uint64(newID))
		if err != nil {
			return server.WrapErrorf(err, server.ErrInternalServerError, "encode promotion record for %s", base)
		}
		if err := batch.Set(promotionKey(toLevel, base), val); err != nil {
			return server.WrapErrorf(err, server.ErrInternalServerError, "batch promotion record for %s", base)
		}
	}
	if err := batch.Flush(); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "flush promotion batch for level %d", toLevel)
	}
	return nil
}
