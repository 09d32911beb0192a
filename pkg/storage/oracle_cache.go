// Package storage provides persistent caching for the recall harness.
//
// OracleCache stores brute-force ground-truth results in BadgerDB so that
// repeated recall runs over the same dataset skip the oracle scan, which is
// by far the most expensive part of an evaluation. Only evaluation state is
// persisted; the index itself is in-memory only.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for cache entry organization.
// Using single-byte prefixes for efficiency.
const (
	prefixOracle = byte(0x01) // oracle:dataset:pow:queries -> packed uint64 distances
)

// OracleCache persists ground-truth nearest-neighbor distances keyed by the
// dataset identity and evaluation window.
//
// Example:
//
//	cache, err := storage.NewOracleCache("./oracle-cache")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cache.Close()
//
//	if distances, ok, _ := cache.Get("akaze", 12, 1024); ok {
//		// reuse cached ground truth
//	}
type OracleCache struct {
	db *badger.DB
}

// NewOracleCache opens (or creates) a cache at the given directory.
func NewOracleCache(dir string) (*OracleCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // quiet; harness progress goes to the stdlib logger
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open oracle cache: %w", err)
	}
	return &OracleCache{db: db}, nil
}

// Close releases the underlying database. The cache must not be used after
// Close returns.
func (c *OracleCache) Close() error {
	return c.db.Close()
}

// Get returns the cached ground-truth distances for one evaluation window.
// ok is false when the window has not been cached yet.
func (c *OracleCache) Get(dataset string, pow uint, numQueries int) ([]uint64, bool, error) {
	var distances []uint64
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(dataset, pow, numQueries))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			distances = decodeDistances(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read oracle cache: %w", err)
	}
	return distances, true, nil
}

// Put stores the ground-truth distances for one evaluation window.
func (c *OracleCache) Put(dataset string, pow uint, numQueries int, distances []uint64) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(dataset, pow, numQueries), encodeDistances(distances))
	})
	if err != nil {
		return fmt.Errorf("write oracle cache: %w", err)
	}
	return nil
}

func cacheKey(dataset string, pow uint, numQueries int) []byte {
	return append([]byte{prefixOracle}, fmt.Sprintf("%s:%d:%d", dataset, pow, numQueries)...)
}

func encodeDistances(distances []uint64) []byte {
	buf := make([]byte, 8*len(distances))
	for i, d := range distances {
		binary.LittleEndian.PutUint64(buf[8*i:], d)
	}
	return buf
}

func decodeDistances(buf []byte) []uint64 {
	distances := make([]uint64, len(buf)/8)
	for i := range distances {
		distances[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	return distances
}
