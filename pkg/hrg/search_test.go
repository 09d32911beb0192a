package hrg

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/hrg/pkg/math/hamming"
)

func TestSearchKnnZero(t *testing.T) {
	idx := New[lineKey, int]()
	idx.Insert(0, lineKey(1), 0, 0)
	assert.Empty(t, idx.SearchKnnFrom(0, 0, lineKey(1), 0))
}

func TestSearchKnnOrdering(t *testing.T) {
	idx := New[lineKey, int]()
	rng := rand.New(rand.NewPCG(7, 0))
	for i := 0; i < 64; i++ {
		idx.Insert(0, lineKey(rng.Uint64N(10_000)), i, 1)
	}

	results := idx.SearchKnnFrom(0, 0, lineKey(5_000), 10)
	require.NotEmpty(t, results)
	require.LessOrEqual(t, len(results), 10)

	seen := make(map[int]bool)
	for i, result := range results {
		assert.False(t, seen[result.Node], "duplicate node %d in results", result.Node)
		seen[result.Node] = true
		if i > 0 {
			assert.GreaterOrEqual(t, result.Distance, results[i-1].Distance,
				"distances must be non-decreasing")
		}
	}
}

func TestSearchKnnOfIncludesSelf(t *testing.T) {
	idx := New[lineKey, int]()
	for i := 0; i < 16; i++ {
		idx.Insert(0, lineKey(i*100), i, 0)
	}

	results := idx.SearchKnnOf(0, 5, 4)
	require.NotEmpty(t, results)
	assert.Equal(t, 5, results[0].Node)
	assert.Equal(t, uint64(0), results[0].Distance)
}

func TestSearchFromGreedyDescent(t *testing.T) {
	// A chain 0 - 10 - 20 - ... always descends toward the query.
	idx := New[lineKey, int]()
	for i := 0; i < 12; i++ {
		idx.Insert(0, lineKey(i*10), i, 0)
	}
	for i := 0; i < 12; i++ {
		idx.OptimizeConnection(0, 0, i)
		found, distance := idx.SearchFrom(0, 0, lineKey(i*10))
		assert.Equal(t, i, found)
		assert.Equal(t, uint64(0), distance)
	}
	checkInvariants(t, idx)
}

func TestSearchKnnMoreThanLen(t *testing.T) {
	idx := New[lineKey, int]()
	for i := 0; i < 4; i++ {
		idx.Insert(0, lineKey(i), i, 0)
	}
	results := idx.SearchKnnFrom(0, 0, lineKey(0), 100)
	assert.LessOrEqual(t, len(results), 4)
}

func TestSearchKnnTiesKeepDiscoveryOrder(t *testing.T) {
	// Two keys equidistant from the query; the one discovered first stays
	// first.
	idx := New[lineKey, int]()
	idx.Insert(0, lineKey(50), 0, 0)
	idx.Insert(0, lineKey(40), 1, 0)
	idx.Insert(0, lineKey(60), 2, 0)
	for i := 0; i < 3; i++ {
		idx.OptimizeConnection(0, 0, i)
	}

	results := idx.SearchKnnFrom(0, 0, lineKey(50), 3)
	require.Len(t, results, 3)
	assert.Equal(t, 0, results[0].Node)
	assert.Equal(t, uint64(0), results[0].Distance)
	assert.Equal(t, 1, results[1].Node)
	assert.Equal(t, uint64(10), results[1].Distance)
	assert.Equal(t, 2, results[2].Node)
	assert.Equal(t, uint64(10), results[2].Distance)
}

func TestRandomInsertionSelfRecall(t *testing.T) {
	// Insert random 256-bit keys with per-insert training and freshening,
	// then verify every inserted key is found at distance zero.
	idx := New[hamming.Bits256, struct{}]()
	rng := rand.New(rand.NewPCG(0, 0))

	keys := make([]hamming.Bits256, 1<<8)
	for i := range keys {
		keys[i] = hamming.Random(rng)
	}

	for _, key := range keys {
		node := idx.Insert(0, key, struct{}{}, 2)
		for p := 0; p < 64; p++ {
			idx.OptimizeConnection(0, node, rng.IntN(idx.Len()))
		}
	}

	for i, key := range keys {
		results := idx.SearchKnnFrom(0, 0, key, 1)
		require.Len(t, results, 1)
		assert.Equal(t, uint64(0), results[0].Distance, "key %d not recalled", i)
	}

	checkInvariants(t, idx)
}

func TestRandomInsertionSelfRecallLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large random-insertion test in short mode")
	}

	idx := New[hamming.Bits256, struct{}]()
	rng := rand.New(rand.NewPCG(0, 0))

	keys := make([]hamming.Bits256, 1<<12)
	for i := range keys {
		keys[i] = hamming.Random(rng)
	}

	for _, key := range keys {
		node := idx.Insert(0, key, struct{}{}, 2)
		for p := 0; p < 64; p++ {
			idx.OptimizeConnection(0, node, rng.IntN(idx.Len()))
		}
	}

	for i, key := range keys {
		results := idx.SearchKnnFrom(0, 0, key, 1)
		require.Len(t, results, 1)
		assert.Equal(t, uint64(0), results[0].Distance, "key %d not recalled", i)
	}

	checkInvariants(t, idx)
}

func TestHeldOutRecall(t *testing.T) {
	// Recall@1 on held-out queries must clearly beat coin-flip quality.
	idx := New[hamming.Bits256, struct{}]()
	rng := rand.New(rand.NewPCG(0, 0))

	keys := make([]hamming.Bits256, 1<<8)
	for i := range keys {
		keys[i] = hamming.Random(rng)
	}
	queries := make([]hamming.Bits256, 1<<7)
	for i := range queries {
		queries[i] = hamming.Random(rng)
	}

	for _, key := range keys {
		node := idx.Insert(0, key, struct{}{}, 2)
		for p := 0; p < 64; p++ {
			idx.OptimizeConnection(0, node, rng.IntN(idx.Len()))
		}
	}

	correct := 0
	for _, query := range queries {
		best := keys[0].Distance(query)
		for _, key := range keys[1:] {
			if d := key.Distance(query); d < best {
				best = d
			}
		}
		found, _ := idx.SearchFrom(0, 0, query)
		key, ok := idx.GetKey(found)
		require.True(t, ok)
		if key.Distance(query) == best {
			correct++
		}
	}
	recall := float64(correct) / float64(len(queries))
	assert.Greater(t, recall, 0.5, "held-out recall@1 = %f", recall)
}
