package hrg

import "slices"

// FreshenNodes advances the freshness cycle by k hops from the freshest
// node, returning the visited nodes stalest-first and marking the last one
// visited as the new freshest. The visited nodes keep their relative order
// in the cycle, so consecutive calls pick up where the previous one ended,
// and freshest.next always points at the stalest node.
//
// k may exceed the number of nodes; the walk simply wraps around the cycle.
// Returns nil on an empty index.
func (h *HRG[K, V, D]) FreshenNodes(k int) []int {
	if h.IsEmpty() {
		return nil
	}
	visited := make([]int, 0, k)
	current := h.freshest
	for i := 0; i < k; i++ {
		current = h.nodes[current].next
		visited = append(visited, current)
	}
	h.freshest = current
	return visited
}

// FreshenNeighborhood freshens the k stalest nodes: each one is reinserted
// with a minimal edge set, then locally optimized against its approximate
// nearest neighbors so that stale local minima around it are broken up.
func (h *HRG[K, V, D]) FreshenNeighborhood(layer, k int) {
	for _, n := range h.FreshenNodes(k) {
		h.Reinsert(layer, n)
		knn := h.knnTargets(h.nodeWeak(layer, n), h.optimalK())
		h.Reinsert(layer, n)
		list := h.nodeWeak(layer, n)
		h.optimizeLocalTargetNeighborhood(layer, list, knn, neighborKeys(list))
	}
}

// Reinsert disconnects a node and reconnects it with the minimum number of
// edges: each former neighbor gets back a greedy path to the node, nearest
// former neighbor first, which keeps every one of them able to reach it.
func (h *HRG[K, V, D]) Reinsert(layer, n int) {
	// This cannot work with a single node.
	if h.Len() == 1 {
		return
	}

	list := h.nodeWeak(layer, n)
	key := list.key

	neighbors := h.disconnect(list)
	slices.SortStableFunc(neighbors, func(a, b neighborDistance[D]) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})

	// Make sure each neighbor can connect greedily to prevent disconnected
	// graphs.
	for _, neighbor := range neighbors {
		found, _ := h.searchFromWeak(h.nodeWeak(layer, neighbor.node), neighbor.distance, key)
		if found != list {
			h.addEdgeDedupWeak(found, list)
		}
	}
}
