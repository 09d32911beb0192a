package eval

import (
	"bytes"
	"encoding/csv"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/hrg/pkg/math/hamming"
	"github.com/orneryd/hrg/pkg/storage"
)

func randomKeys(seed uint64, n int) []hamming.Bits256 {
	rng := rand.New(rand.NewPCG(seed, 0))
	keys := make([]hamming.Bits256, n)
	for i := range keys {
		keys[i] = hamming.Random(rng)
	}
	return keys
}

func TestNearestDistances(t *testing.T) {
	space := randomKeys(1, 32)
	queries := randomKeys(2, 8)

	distances := NearestDistances(space, queries)
	require.Len(t, distances, len(queries))
	for i, query := range queries {
		for _, key := range space {
			assert.LessOrEqual(t, distances[i], key.Distance(query))
		}
	}

	// A query drawn from the space has oracle distance zero.
	distances = NearestDistances(space, space[:4])
	for _, d := range distances {
		assert.Equal(t, uint64(0), d)
	}
}

func TestHarnessRun(t *testing.T) {
	const (
		highestPower = 5
		numQueries   = 32
		highestKnn   = 4
	)
	harness := &Harness{
		Keys:          randomKeys(3, (1<<highestPower)+numQueries),
		HighestPower:  highestPower,
		NumQueries:    numQueries,
		HighestKnn:    highestKnn,
		Freshens:      1,
		TrainingPairs: 8,
		Rng:           rand.New(rand.NewPCG(42, 0)),
	}

	var out bytes.Buffer
	require.NoError(t, harness.Run(NewReporter(&out)))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)

	// Header plus one row per (window, k) pair.
	require.Len(t, rows, 1+(highestPower+1)*highestKnn)
	assert.Equal(t, []string{
		"recall", "search_size", "knn",
		"num_queries", "seconds_per_query", "queries_per_second",
	}, rows[0])

	for _, row := range rows[1:] {
		recall, err := strconv.ParseFloat(row[0], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, recall, 0.0)
		assert.LessOrEqual(t, recall, 1.0)
	}

	// The size-1 window is exact by construction.
	assert.Equal(t, "1", rows[1][1])
	firstRecall, err := strconv.ParseFloat(rows[1][0], 64)
	require.NoError(t, err)
	assert.Equal(t, 1.0, firstRecall)
}

func TestHarnessRunWithCache(t *testing.T) {
	cache, err := storage.NewOracleCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	const (
		highestPower = 3
		numQueries   = 16
	)
	keys := randomKeys(4, (1<<highestPower)+numQueries)
	run := func() string {
		harness := &Harness{
			Keys:          keys,
			HighestPower:  highestPower,
			NumQueries:    numQueries,
			HighestKnn:    2,
			TrainingPairs: 4,
			Rng:           rand.New(rand.NewPCG(42, 0)),
			Cache:         cache,
			Dataset:       "test",
		}
		var out bytes.Buffer
		require.NoError(t, harness.Run(NewReporter(&out)))
		return out.String()
	}

	// The second run reads the oracle from the cache and must produce the
	// same recall columns.
	first := run()
	second := run()

	firstRows, err := csv.NewReader(bytes.NewReader([]byte(first))).ReadAll()
	require.NoError(t, err)
	secondRows, err := csv.NewReader(bytes.NewReader([]byte(second))).ReadAll()
	require.NoError(t, err)
	require.Len(t, secondRows, len(firstRows))
	for i := range firstRows {
		assert.Equal(t, firstRows[i][0], secondRows[i][0], "recall differs at row %d", i)
	}
}

func TestHarnessTooFewKeys(t *testing.T) {
	harness := &Harness{
		Keys:         randomKeys(5, 8),
		HighestPower: 5,
		NumQueries:   32,
		HighestKnn:   1,
		Rng:          rand.New(rand.NewPCG(0, 0)),
	}
	var out bytes.Buffer
	assert.Error(t, harness.Run(NewReporter(&out)))
}
