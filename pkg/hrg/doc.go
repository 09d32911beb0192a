// Package hrg provides an in-memory approximate nearest neighbor index for
// points in an arbitrary metric space.
//
// The index is a hierarchical relative-neighborhood graph: every entry is a
// node in a layered proximity graph, and queries navigate the graph greedily
// from a start node toward the query key. Recall is tunable after the fact:
// the optimization family adds shortcut edges that guarantee a monotone
// greedy descent toward chosen targets, and the freshening cycle re-inserts
// and re-optimizes the stalest nodes to amortize graph quality over time.
//
// Key properties:
//   - Works with any key type that provides a symmetric, non-negative
//     distance function (the Key constraint)
//   - Online insertion; no build/finalize phase
//   - Greedy 1-NN and best-first k-NN search from any start node
//   - Tunable insert cost vs. query recall via training and freshening
//   - Narrowable distance storage (uint8/uint16/uint32/uint64) for cache
//     efficiency when the metric cannot overflow the narrower type
//
// Example Usage:
//
//	idx := hrg.New[hamming.Bits256, string]()
//
//	// Insert keys, freshening two stale nodes per insert.
//	for i, key := range keys {
//		node := idx.Insert(0, key, names[i], 2)
//
//		// Train connectivity against a few random nodes.
//		for t := 0; t < 64; t++ {
//			idx.OptimizeConnection(0, node, rng.IntN(idx.Len()))
//		}
//	}
//
//	// Query the five nearest neighbors of a key.
//	for _, result := range idx.SearchKnnFrom(0, 0, query, 5) {
//		fmt.Printf("node %d at distance %d\n", result.Node, result.Distance)
//	}
//
// The index assumes exclusive access: no operation is safe to call
// concurrently with a mutating operation. Deletion is not supported; nodes
// are only ever disconnected and reconnected internally by Reinsert and the
// freshening cycle.
//
// Invariant violations (a disconnected graph, or a metric that is not truly
// a metric) are programming errors and panic rather than returning an error.
package hrg
