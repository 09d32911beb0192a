package hrg

// Insert adds a (key, value) pair and returns the new node's id.
//
// The new node is spliced into the freshness cycle as the freshest node,
// wired to its greedy nearest neighbor, then locally optimized so a greedy
// path exists from the new node toward each of its approximate nearest
// neighbors. Afterwards the freshening cycle runs freshens times, re-
// optimizing the stalest nodes (see FreshenNeighborhood).
//
// Only layer 0 is populated today; pass layer 0 until a promotion policy
// exists.
func (h *HRG[K, V, D]) Insert(layer int, key K, value V, freshens int) int {
	// The node is added this way regardless of what follows.
	n := len(h.nodes)
	list := &edgeList[K]{key: key, node: n}
	// The current freshest node's next is the stalest node, which this node
	// now precedes in the freshening order. If this is the only node it
	// follows itself.
	next := 0
	if n != 0 {
		next = h.nodes[h.freshest].next
	}
	h.nodes = append(h.nodes, node[K, V]{
		key:    key,
		value:  value,
		layers: []*edgeList[K]{list},
		next:   next,
	})
	h.nodes[h.freshest].next = n
	h.freshest = n

	if n == 0 {
		return 0
	}

	// Approximate nearest neighbors of the key; the new node is not yet
	// reachable, so it cannot appear in its own result set.
	knn := h.searchKnnFromWeak(
		h.nodeWeak(layer, 0),
		D(key.Distance(h.nodes[0].key)),
		key,
		h.optimalK(),
	)

	// Attach to the greedy nearest neighbor.
	h.addEdgeWeak(knn[0].list, list)

	targets := make([]knnTarget[K], len(knn))
	for i, c := range knn {
		targets[i] = knnTarget[K]{node: c.list.node, key: c.list.key}
	}
	neighbors := []K{knn[0].list.key}
	h.optimizeLocalTargetNeighborhood(layer, list, targets, neighbors)

	if freshens > 0 {
		h.FreshenNeighborhood(layer, freshens)
	}

	return n
}
