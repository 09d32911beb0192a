package hrg

// addEdgeWeak appends the symmetric edge pair a<->b and maintains the edge
// counters. Callers must guarantee a != b.
func (h *HRG[K, V, D]) addEdgeWeak(a, b *edgeList[K]) {
	a.edges = append(a.edges, edge[K]{key: b.key, neighbor: b})
	b.edges = append(b.edges, edge[K]{key: a.key, neighbor: a})
	h.edges++
	if degree := max(len(a.edges), len(b.edges)); degree > h.mostEdges {
		h.mostEdges = degree
	}
}

// addEdge connects two nodes symmetrically on a layer.
func (h *HRG[K, V, D]) addEdge(layer, a, b int) {
	h.addEdgeWeak(h.nodeWeak(layer, a), h.nodeWeak(layer, b))
}

// addEdgeDedupWeak connects a and b unless a already has an edge to b.
// Returns whether an edge was added. Symmetric adjacency makes checking one
// side sufficient.
func (h *HRG[K, V, D]) addEdgeDedupWeak(a, b *edgeList[K]) bool {
	if a.contains(b) {
		return false
	}
	h.addEdgeWeak(a, b)
	return true
}

// addEdgeDedup connects two nodes symmetrically on a layer unless they are
// already connected.
func (h *HRG[K, V, D]) addEdgeDedup(layer, a, b int) {
	h.addEdgeDedupWeak(h.nodeWeak(layer, a), h.nodeWeak(layer, b))
}

// neighborDistance is a disconnected node's former neighbor, identified by
// node id because the neighborhood mutates as edges are re-added.
type neighborDistance[D Distance] struct {
	node     int
	distance D
}

// disconnect removes every edge between l's owner and its neighbors,
// clearing l entirely. Returns the former neighbors paired with their
// distance to the owner's key.
func (h *HRG[K, V, D]) disconnect(l *edgeList[K]) []neighborDistance[D] {
	neighbors := make([]neighborDistance[D], 0, len(l.edges))
	for i := range l.edges {
		nb := l.edges[i].neighbor
		distance := D(l.key.Distance(l.edges[i].key))
		nb.retain(func(e *edge[K]) bool { return e.neighbor != l })
		neighbors = append(neighbors, neighborDistance[D]{node: nb.node, distance: distance})
	}
	h.edges -= len(l.edges)
	l.retain(func(*edge[K]) bool { return false })
	return neighbors
}
