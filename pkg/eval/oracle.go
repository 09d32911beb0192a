package eval

import "github.com/orneryd/hrg/pkg/math/hamming"

// NearestDistances computes, for every query, the exact distance to its
// nearest neighbor in the search space by brute force. The result is the
// ground truth a recall measurement compares against: an index hit counts as
// correct when its distance to the query equals the oracle distance, so
// colocated descriptors are not penalized.
//
// This is O(len(space) * len(queries)) and dominates evaluation time for
// large windows; see storage.OracleCache.
func NearestDistances(space, queries []hamming.Bits256) []uint64 {
	distances := make([]uint64, len(queries))
	for i, query := range queries {
		best := space[0].Distance(query)
		for _, key := range space[1:] {
			if d := key.Distance(query); d < best {
				best = d
			}
		}
		distances[i] = best
	}
	return distances
}
