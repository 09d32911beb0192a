// Package eval provides the recall evaluation harness for HRG indexes.
//
// The harness measures approximate-search quality the way the index is
// actually used: keys are inserted online in progressively doubling windows,
// each insert is trained against random pairs and freshens the stalest
// nodes, and after every window recall@k is measured for a range of k
// against a brute-force nearest-neighbor oracle over everything inserted so
// far.
//
// Metrics emitted per (window, k) pair:
//   - Recall@k: fraction of queries whose best hit ties the oracle distance
//   - Queries per second and seconds per query
//
// Example usage:
//
//	harness := &eval.Harness{
//		Keys:          keys,
//		HighestPower:  12,
//		NumQueries:    1024,
//		HighestKnn:    32,
//		Freshens:      2,
//		TrainingPairs: 64,
//		Rng:           rand.New(rand.NewPCG(42, 0)),
//	}
//	if err := harness.Run(eval.NewReporter(os.Stdout)); err != nil {
//		log.Fatal(err)
//	}
package eval

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/orneryd/hrg/pkg/hrg"
	"github.com/orneryd/hrg/pkg/math/hamming"
	"github.com/orneryd/hrg/pkg/storage"
)

// Harness runs the progressive-window recall evaluation.
//
// Keys must hold at least 2^HighestPower + NumQueries entries: the leading
// 2^HighestPower keys form the search space. The window ending at 2^p is
// queried with the NumQueries keys Keys[2^p, 2^p+NumQueries), none of which
// have been inserted yet; only the final window uses the keys past the
// search space.
type Harness struct {
	// Keys is the search space followed by the query tail.
	Keys []hamming.Bits256

	// HighestPower is the largest window exponent; the final window inserts
	// keys [2^(HighestPower-1), 2^HighestPower).
	HighestPower uint

	// NumQueries is the size of the held-out query set.
	NumQueries int

	// HighestKnn measures recall for every k in 1..=HighestKnn.
	HighestKnn int

	// Freshens is passed through to every Insert.
	Freshens int

	// TrainingPairs is the number of random optimize-connection pairs run
	// after each insert.
	TrainingPairs int

	// Rng drives training-pair selection.
	Rng *rand.Rand

	// Cache, when non-nil, persists oracle results under Dataset.
	Cache   *storage.OracleCache
	Dataset string

	index *hrg.HRG[hamming.Bits256, struct{}, uint64]
}

// Run executes the evaluation, emitting one record per (window, k) pair.
func (h *Harness) Run(reporter *Reporter) error {
	if need := (1 << h.HighestPower) + h.NumQueries; len(h.Keys) < need {
		return fmt.Errorf("harness needs %d keys, have %d", need, len(h.Keys))
	}
	h.index = hrg.New[hamming.Bits256, struct{}]()

	for pow := uint(0); pow <= h.HighestPower; pow++ {
		window := h.Keys[0:1]
		if pow > 0 {
			// Take the range from the previous to the current power.
			window = h.Keys[1<<(pow-1) : 1<<pow]
		}
		queries := h.Keys[1<<pow : (1<<pow)+h.NumQueries]

		h.insertWindow(window, 1<<pow)

		oracle, err := h.oracleDistances(pow, queries)
		if err != nil {
			return err
		}

		for knn := 1; knn <= h.HighestKnn; knn++ {
			record := h.measure(pow, knn, queries, oracle)
			if err := reporter.Write(record); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}
	return nil
}

// insertWindow inserts one window of keys with per-insert training.
func (h *Harness) insertWindow(window []hamming.Bits256, size int) {
	log.Printf("inserting keys into index, size %d", size)
	start := time.Now()
	for _, key := range window {
		node := h.index.Insert(0, key, struct{}{}, h.Freshens)
		// Train connections to the new key.
		for t := 0; t < h.TrainingPairs; t++ {
			h.index.OptimizeConnection(0, node, h.Rng.IntN(h.index.Len()))
		}
	}
	elapsed := time.Since(start)
	log.Printf("finished inserting; speed was %f keys per second",
		float64(len(window))/elapsed.Seconds())
}

// oracleDistances returns ground-truth nearest distances for the window,
// from the cache when possible.
func (h *Harness) oracleDistances(pow uint, queries []hamming.Bits256) ([]uint64, error) {
	if h.Cache != nil {
		distances, ok, err := h.Cache.Get(h.Dataset, pow, len(queries))
		if err != nil {
			return nil, err
		}
		if ok {
			log.Printf("using cached nearest neighbors for size %d", 1<<pow)
			return distances, nil
		}
	}

	log.Printf("computing correct nearest neighbors for recall calculation")
	distances := NearestDistances(h.Keys[:1<<pow], queries)
	log.Printf("finished computing the correct nearest neighbors")

	if h.Cache != nil {
		if err := h.Cache.Put(h.Dataset, pow, len(queries), distances); err != nil {
			return nil, err
		}
	}
	return distances, nil
}

// measure runs every query at one k and computes recall against the oracle.
func (h *Harness) measure(pow uint, knn int, queries []hamming.Bits256, oracle []uint64) Record {
	log.Printf("doing size %d with knn %d", 1<<pow, knn)

	bests := make([]int, len(queries))
	start := time.Now()
	for i, query := range queries {
		bests[i] = h.index.SearchKnnFrom(0, 0, query, knn)[0].Node
	}
	elapsed := time.Since(start)

	correct := 0
	for i, query := range queries {
		key, _ := h.index.GetKey(bests[i])
		if key.Distance(query) == oracle[i] {
			correct++
		}
	}

	secondsPerQuery := elapsed.Seconds() / float64(len(queries))
	return Record{
		Recall:           float64(correct) / float64(len(queries)),
		SearchSize:       1 << pow,
		Knn:              knn,
		NumQueries:       len(queries),
		SecondsPerQuery:  secondsPerQuery,
		QueriesPerSecond: 1 / secondsPerQuery,
	}
}
