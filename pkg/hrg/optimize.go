package hrg

import "fmt"

// knnTarget identifies an optimization candidate by node id plus a copy of
// its key. Node ids stay valid across every mutation, unlike positions in a
// search result, so candidate sets survive the edge additions made while
// optimizing.
type knnTarget[K any] struct {
	node int
	key  K
}

// knnTargets runs a k-NN search around n and returns the results as targets,
// dropping n itself (always the first entry).
func (h *HRG[K, V, D]) knnTargets(n *edgeList[K], k int) []knnTarget[K] {
	candidates := h.searchKnnOfWeak(n, k)
	if len(candidates) == 0 {
		return nil
	}
	targets := make([]knnTarget[K], 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		targets = append(targets, knnTarget[K]{node: c.list.node, key: c.list.key})
	}
	return targets
}

// neighborKeys copies the keys of n's current neighbors.
func neighborKeys[K any](n *edgeList[K]) []K {
	keys := make([]K, len(n.edges))
	for i := range n.edges {
		keys[i] = n.edges[i].key
	}
	return keys
}

// anyCloser reports whether any of the keys is strictly closer to target
// than distance.
func anyCloser[K Key[K], D Distance](keys []K, target K, distance D) bool {
	for _, key := range keys {
		if D(key.Distance(target)) < distance {
			return true
		}
	}
	return false
}

// OptimizeTargetDirected ensures a greedy path exists from the given node
// toward the target key, terminating early once a distance of minDistance or
// better is reached.
//
// When greedy descent stalls at a local minimum, exponentially larger
// nearest-neighbor sweeps around the minimum look for a node closer to the
// target; a shortcut edge to the first such node breaks through the minimum
// and the descent resumes from there. Returns the termination node and its
// distance to the target.
func (h *HRG[K, V, D]) OptimizeTargetDirected(layer, from int, minDistance D, target K) (int, D) {
	found, distance := h.optimizeTargetDirectedWeak(
		h.nodeWeak(layer, from),
		D(h.nodes[from].key.Distance(target)),
		minDistance,
		target,
	)
	return found.node, distance
}

func (h *HRG[K, V, D]) optimizeTargetDirectedWeak(from *edgeList[K], fromDistance, minDistance D, target K) (*edgeList[K], D) {
	// Search towards the target greedily.
	from, fromDistance = h.searchFromWeak(from, fromDistance, target)

	// Gradually break through local minima using the nearest neighbor
	// possible, repeatedly, until a greedy search path is established.
outer:
	for {
		// Check if we matched or exceeded expectations.
		if fromDistance <= minDistance || len(from.edges) == 0 {
			return from, fromDistance
		}

		// We hit a local (but not global) minimum. Sweep exponentially more
		// nearest neighbors of the minimum until one can break through.
		for quality := len(from.edges) * 2; ; quality *= 2 {
			candidates := h.searchKnnOfWeak(from, quality)
			for _, candidate := range candidates[1:] {
				nn := candidate.list
				nnDistance := D(nn.key.Distance(target))
				if nnDistance < fromDistance {
					// A greedy search through this node gets closer to the
					// target, so connect it to the minimum and resume the
					// descent from it.
					h.addEdgeWeak(nn, from)
					from, fromDistance = h.searchFromWeak(nn, nnDistance, target)
					continue outer
				}
			}
			if quality >= len(h.nodes) {
				break
			}
		}
		// The entire graph was searched and there was no path.
		return from, fromDistance
	}
}

// OptimizeConnection ensures the optimal greedy search path is available
// between two nodes in both directions.
//
// Panics if the two nodes lie in disconnected subgraphs (see
// OptimizeConnectionDirected).
func (h *HRG[K, V, D]) OptimizeConnection(layer, a, b int) {
	h.OptimizeConnectionDirected(layer, a, b)
	h.OptimizeConnectionDirected(layer, b, a)
}

// OptimizeConnectionDirected ensures a greedy descent starting at from
// reaches to, or a node colocated with it. Panics if the graph turns out to
// be disconnected, which indicates index corruption or a broken metric.
func (h *HRG[K, V, D]) OptimizeConnectionDirected(layer, from, to int) {
	if from == to {
		return
	}
	key := h.nodes[to].key
	found, distance := h.OptimizeTargetDirected(layer, from, 0, key)
	if found == to {
		return
	}
	if distance == 0 {
		// Just a colocated node; make sure the two are connected.
		h.addEdgeDedup(layer, found, to)
		return
	}
	panic(fmt.Sprintf("hrg: fatal; graph is disconnected: %v", h.SimpleRepresentation()))
}

// optimizeLocalTargetNeighborhood adds shortcut edges from n toward each
// target that is not already reachable by greedy descent through one of n's
// neighbors. The target set doubles as the shortcut candidate set: when no
// candidate beats a target, the set is expanded with a larger k-NN sweep and
// the whole target walk restarts.
//
// neighbors carries the keys of n's current neighbors and accumulates every
// key connected along the way.
func (h *HRG[K, V, D]) optimizeLocalTargetNeighborhood(layer int, n *edgeList[K], knn []knnTarget[K], neighbors []K) {
	i := 0
	for i < len(knn) {
		target := knn[i]
		toBeat := D(n.key.Distance(target.key))

		if toBeat == 0 {
			// Colocated with the target; just connect them.
			if h.addEdgeDedupWeak(n, h.nodeWeak(layer, target.node)) {
				neighbors = append(neighbors, target.key)
			}
			i++
			continue
		}
		if anyCloser(neighbors, target.key, toBeat) {
			// A greedy path already exists through a current neighbor.
			i++
			continue
		}

		// Connect candidates in rank order until one of them is closer to
		// the target than n is.
		advanced := false
		for _, candidate := range knn {
			if h.addEdgeDedupWeak(h.nodeWeak(layer, candidate.node), n) {
				neighbors = append(neighbors, candidate.key)
			}
			if D(candidate.key.Distance(target.key)) < toBeat {
				advanced = true
				break
			}
		}
		if advanced {
			i++
			continue
		}

		// No candidate could beat the target. If the candidate set already
		// covers the graph, even the target itself was not closer, which
		// cannot happen on a well-formed metric.
		before := len(knn)
		if before+1 == len(h.nodes) {
			panic(fmt.Sprintf("hrg: fatal; searched entire graph: %v", h.SimpleRepresentation()))
		}
		knn = h.knnTargets(n, (before+1)*2)
		if len(knn) == before {
			panic(fmt.Sprintf("hrg: fatal; graph is disconnected: %v", h.SimpleRepresentation()))
		}
		i = 0
	}
}

// optimizeLocalTarget is the single-target form of
// optimizeLocalTargetNeighborhood, sharing a candidate set and neighbor keys
// across calls through the pointers.
func (h *HRG[K, V, D]) optimizeLocalTarget(layer int, n *edgeList[K], target knnTarget[K], knn *[]knnTarget[K], neighbors *[]K) {
	toBeat := D(n.key.Distance(target.key))
	if toBeat == 0 {
		if h.addEdgeDedupWeak(n, h.nodeWeak(layer, target.node)) {
			*neighbors = append(*neighbors, target.key)
		}
		return
	}
	if anyCloser(*neighbors, target.key, toBeat) {
		return
	}

	for {
		for _, candidate := range *knn {
			if h.addEdgeDedupWeak(h.nodeWeak(layer, candidate.node), n) {
				*neighbors = append(*neighbors, candidate.key)
			}
			if D(candidate.key.Distance(target.key)) < toBeat {
				return
			}
		}

		before := len(*knn)
		if before+1 == len(h.nodes) {
			panic(fmt.Sprintf("hrg: fatal; searched entire graph: %v", h.SimpleRepresentation()))
		}
		*knn = h.knnTargets(n, (before+1)*2)
		if len(*knn) == before {
			panic(fmt.Sprintf("hrg: fatal; graph is disconnected: %v", h.SimpleRepresentation()))
		}
	}
}

// OptimizeLocalTargetNode guarantees a greedy path from n toward a single
// target node, adding shortcut edges as needed.
func (h *HRG[K, V, D]) OptimizeLocalTargetNode(layer, n, target int) {
	if h.Len() == 1 || n == target {
		return
	}
	list := h.nodeWeak(layer, n)
	knn := h.knnTargets(list, len(list.edges)*2)
	neighbors := neighborKeys(list)
	h.optimizeLocalTarget(layer, list, knnTarget[K]{node: target, key: h.nodes[target].key}, &knn, &neighbors)
}

// OptimizeLocalTargetKeys adds, for each target key that no current neighbor
// of n is closer to, an edge from the first candidate in k-NN rank order
// that is closer. The candidate set is computed once and never expanded, so
// some targets may stay unoptimized; use Train for a full pass.
func (h *HRG[K, V, D]) OptimizeLocalTargetKeys(layer, n int, targets []K) {
	if h.Len() == 1 {
		return
	}
	list := h.nodeWeak(layer, n)
	knn := h.knnTargets(list, (len(list.edges)+1)*2)
	neighbors := neighborKeys(list)

	for _, target := range targets {
		toBeat := D(list.key.Distance(target))
		if toBeat == 0 {
			// n is itself colocated with the target key.
			continue
		}
		if anyCloser(neighbors, target, toBeat) {
			continue
		}
		for _, candidate := range knn {
			if D(candidate.key.Distance(target)) < toBeat {
				if h.addEdgeDedupWeak(h.nodeWeak(layer, candidate.node), list) {
					neighbors = append(neighbors, candidate.key)
				}
				break
			}
		}
	}
}

// OptimizeAgainstEverything optimizes n against every node in the index.
func (h *HRG[K, V, D]) OptimizeAgainstEverything(layer, n int) {
	if h.Len() == 1 {
		return
	}
	list := h.nodeWeak(layer, n)
	knn := h.knnTargets(list, len(list.edges)*2)
	neighbors := neighborKeys(list)
	for target := 0; target < len(h.nodes); target++ {
		if target == n {
			continue
		}
		h.optimizeLocalTarget(layer, list, knnTarget[K]{node: target, key: h.nodes[target].key}, &knn, &neighbors)
	}
}

// OptimizeAgainstNeighborhood optimizes n against its current neighbors.
func (h *HRG[K, V, D]) OptimizeAgainstNeighborhood(layer, n int) {
	if h.Len() == 1 {
		return
	}
	list := h.nodeWeak(layer, n)
	targets := make([]knnTarget[K], len(list.edges))
	for i := range list.edges {
		targets[i] = knnTarget[K]{node: list.edges[i].neighbor.node, key: list.edges[i].key}
	}
	knn := h.knnTargets(list, len(list.edges)*2)
	neighbors := neighborKeys(list)
	for _, target := range targets {
		h.optimizeLocalTarget(layer, list, target, &knn, &neighbors)
	}
}

// OptimizeRecents optimizes the connection between n and each of the last q
// inserted nodes.
func (h *HRG[K, V, D]) OptimizeRecents(layer, n, q int) {
	for other := h.Len() - min(q, h.Len()); other < h.Len(); other++ {
		h.OptimizeConnection(layer, n, other)
	}
}

// Train runs OptimizeLocalTargetKeys for every node against the dataset,
// carving greedy search paths toward each data key into the whole graph.
func (h *HRG[K, V, D]) Train(layer int, data []K) {
	for n := 0; n < h.Len(); n++ {
		h.OptimizeLocalTargetKeys(layer, n, data)
	}
}
