package hrg

import (
	"slices"
	"sort"
)

// SearchResult is one entry of a k-NN result: a node id and its distance to
// the query.
type SearchResult[D Distance] struct {
	Node     int
	Distance D
}

// Search finds the nearest neighbor to the query greedily, starting from
// node 0. ok is false if the index is empty.
func (h *HRG[K, V, D]) Search(layer int, query K) (node int, distance D, ok bool) {
	if h.IsEmpty() {
		return 0, 0, false
	}
	node, distance = h.SearchFrom(layer, 0, query)
	return node, distance, true
}

// SearchFrom finds the nearest neighbor to the query key starting from the
// given node using greedy search.
func (h *HRG[K, V, D]) SearchFrom(layer, from int, query K) (int, D) {
	found, distance := h.searchFromWeak(
		h.nodeWeak(layer, from),
		D(query.Distance(h.nodes[from].key)),
		query,
	)
	return found.node, distance
}

// searchFromWeak performs greedy descent: repeatedly move to the neighbor
// strictly closest to the query until no neighbor improves on the current
// best. Ties stop the descent.
func (h *HRG[K, V, D]) searchFromWeak(from *edgeList[K], fromDistance D, query K) (*edgeList[K], D) {
	best := from
	bestDistance := fromDistance

	for {
		var nearest *edgeList[K]
		var nearestDistance D
		for i := range best.edges {
			distance := D(query.Distance(best.edges[i].key))
			if nearest == nil || distance < nearestDistance {
				nearest = best.edges[i].neighbor
				nearestDistance = distance
			}
		}
		if nearest == nil || nearestDistance >= bestDistance {
			return best, bestDistance
		}
		best = nearest
		bestDistance = nearestDistance
	}
}

// knnCandidate is one entry of the best-first expansion working set.
type knnCandidate[K any, D Distance] struct {
	list     *edgeList[K]
	distance D
	searched bool
}

// SearchKnnFrom finds the k nearest neighbors to the query greedily,
// starting from the given node. Results are ordered by non-decreasing
// distance and hold at most k entries. k == 0 returns an empty slice.
func (h *HRG[K, V, D]) SearchKnnFrom(layer, from int, query K, k int) []SearchResult[D] {
	candidates := h.searchKnnFromWeak(
		h.nodeWeak(layer, from),
		D(query.Distance(h.nodes[from].key)),
		query,
		k,
	)
	results := make([]SearchResult[D], len(candidates))
	for i, c := range candidates {
		results[i] = SearchResult[D]{Node: c.list.node, Distance: c.distance}
	}
	return results
}

// SearchKnnOf finds the k nearest neighbors of a node's own key. The node
// itself is always the first result.
func (h *HRG[K, V, D]) SearchKnnOf(layer, n, k int) []SearchResult[D] {
	candidates := h.searchKnnOfWeak(h.nodeWeak(layer, n), k)
	results := make([]SearchResult[D], len(candidates))
	for i, c := range candidates {
		results[i] = SearchResult[D]{Node: c.list.node, Distance: c.distance}
	}
	return results
}

// searchKnnOfWeak finds the k nearest neighbors of a node starting at the
// node itself.
func (h *HRG[K, V, D]) searchKnnOfWeak(n *edgeList[K], k int) []knnCandidate[K, D] {
	return h.searchKnnFromWeak(n, 0, n.key, k)
}

// searchKnnFromWeak is the best-first k-NN expansion. It seeds the working
// set with the greedy 1-NN result, then repeatedly expands any unsearched
// entry, inserting strictly better candidates in distance order until every
// retained entry has been searched.
//
// Insertion uses the upper bound on ties: a new entry with a distance equal
// to existing entries goes after them, so ties keep discovery order.
func (h *HRG[K, V, D]) searchKnnFromWeak(from *edgeList[K], fromDistance D, query K, k int) []knnCandidate[K, D] {
	if k == 0 {
		return nil
	}
	// A greedy descent first saves the expansion a lot of work.
	from, fromDistance = h.searchFromWeak(from, fromDistance, query)
	bests := make([]knnCandidate[K, D], 0, k)
	bests = append(bests, knnCandidate[K, D]{list: from, distance: fromDistance})

	for {
		expand := -1
		for i := range bests {
			if !bests[i].searched {
				expand = i
				break
			}
		}
		if expand < 0 {
			return bests
		}
		bests[expand].searched = true
		current := bests[expand].list

	edges:
		for i := range current.edges {
			neighbor := current.edges[i].neighbor
			// Skip neighbors already retained, or we would duplicate them.
			for j := range bests {
				if bests[j].list == neighbor {
					continue edges
				}
			}

			distance := D(query.Distance(current.edges[i].key))
			if len(bests) == k {
				if distance >= bests[len(bests)-1].distance {
					continue
				}
				bests = bests[:len(bests)-1]
			}
			pos := sort.Search(len(bests), func(j int) bool {
				return bests[j].distance > distance
			})
			bests = slices.Insert(bests, pos, knnCandidate[K, D]{list: neighbor, distance: distance})
		}
	}
}
