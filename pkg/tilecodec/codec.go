// Package tilecodec is the reference, concrete implementation of the
// tile.Builder external interface (pkg/reader layers tile.Reader on top
// of its Store): tiles are gob-encoded,
// zstd-compressed, and persisted as blobs in a pebble store keyed by
// (level, tile). This mirrors the teacher's own Page.Compress/
// Page.Decompress pair over zstd, with pebble standing in for the
// hand-rolled disk.DiskManager + buffer.Buffer page cache.
package tilecodec

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/pebble"
	"github.com/klauspost/compress/zstd"

	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
)

// Store is a pebble-backed tile blob store. It implements tile.Builder
// directly and is wrapped by pkg/reader for the tile.Reader side (the
// LRU eviction policy lives there, not here).
type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "open pebble tile store at %s", dir)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func tileKeyBytes(k tile.TileKey) []byte {
	return []byte(fmt.Sprintf("tile/%d/%d", k.Level, k.Tile))
}

// Load decompresses and decodes the tile stored at key, if any.
func (s *Store) Load(key tile.TileKey) (*tile.Tile, bool, error) {
	v, closer, err := s.db.Get(tileKeyBytes(key))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, server.WrapErrorf(err, server.ErrInternalServerError, "load tile %+v", key)
	}
	defer closer.Close()

	raw, err := decompress(v)
	if err != nil {
		return nil, false, server.WrapErrorf(err, server.ErrInternalServerError, "decompress tile %+v", key)
	}
	var t tile.Tile
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&t); err != nil {
		return nil, false, server.WrapErrorf(err, server.ErrInternalServerError, "decode tile %+v", key)
	}
	return &t, true, nil
}

// ListTileKeys returns every tile key stored at level, in ascending
// tile order, by scanning the store's key prefix for that level.
func (s *Store) ListTileKeys(level int) ([]tile.TileKey, error) {
	prefix := []byte(fmt.Sprintf("tile/%d/", level))
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "scan tile keys for level %d", level)
	}
	defer iter.Close()

	var keys []tile.TileKey
	for iter.First(); iter.Valid(); iter.Next() {
		var lvl, t int
		if _, err := fmt.Sscanf(string(iter.Key()), "tile/%d/%d", &lvl, &t); err != nil {
			continue
		}
		keys = append(keys, tile.TileKey{Level: lvl, Tile: t})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Tile < keys[j].Tile })
	return keys, iter.Error()
}

func upperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Save encodes and compresses t, writing it under t.Key.
func (s *Store) Save(t *tile.Tile) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "encode tile %+v", t.Key)
	}
	compressed, err := compress(buf.Bytes())
	if err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "compress tile %+v", t.Key)
	}
	if err := s.db.Set(tileKeyBytes(t.Key), compressed, pebble.Sync); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "write tile %+v", t.Key)
	}
	return nil
}

func compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(enc, bytes.NewReader(raw)); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(compressed []byte) ([]byte, error) {
	d, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, d); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
