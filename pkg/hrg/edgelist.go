package hrg

// edge is one outgoing edge of an edge list. It carries a copy of the
// neighbor's key so distance computations during traversal never indirect
// through the node store, plus a reference to the neighbor's edge list.
type edge[K any] struct {
	key      K
	neighbor *edgeList[K]
}

// edgeList is the adjacency of one node on one layer: a header identifying
// the owning node followed by its outgoing edges.
//
// Each edge list is a single stable heap allocation; the pointer to it is
// the identity other edge lists refer to. Appending to edges may grow the
// backing array, but never moves the edgeList itself, so references held by
// neighbors stay valid across every mutation.
type edgeList[K any] struct {
	// key of the owning node, duplicated here so any holder of a reference
	// can recover it without the node store.
	key K
	// node is the owning node's position in the store.
	node int
	// edges going out of the owning node on this layer.
	edges []edge[K]
}

// retain keeps only the edges satisfying keep, preserving order.
func (l *edgeList[K]) retain(keep func(*edge[K]) bool) {
	kept := l.edges[:0]
	for i := range l.edges {
		if keep(&l.edges[i]) {
			kept = append(kept, l.edges[i])
		}
	}
	// Zero the tail so dropped edges do not pin neighbor lists.
	for i := len(kept); i < len(l.edges); i++ {
		l.edges[i] = edge[K]{}
	}
	l.edges = kept
}

// contains reports whether the list already has an edge to target.
func (l *edgeList[K]) contains(target *edgeList[K]) bool {
	for i := range l.edges {
		if l.edges[i].neighbor == target {
			return true
		}
	}
	return false
}

// nodeWeak returns the edge list of a node on the given layer. References
// obtained this way stay valid for the life of the node.
func (h *HRG[K, V, D]) nodeWeak(layer, n int) *edgeList[K] {
	return h.nodes[n].layers[layer]
}
