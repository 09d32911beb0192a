package hrg

import (
	"slices"
	"sort"
)

// Key is the constraint for metric-space keys. Distance must be symmetric,
// non-negative and zero for identical keys. Keys are copied into edge lists,
// so they should be value types that are cheap to copy and compare against.
type Key[K any] interface {
	Distance(K) uint64
}

// Distance is the constraint for the stored distance representation.
//
// Narrower types (uint8, uint16, uint32) may only be used when the metric
// cannot overflow them; the index truncates raw uint64 distances on storage.
// A metric derived from the low 32 bits of a float32 comparison is safe with
// uint32, but a full 64-bit metric requires uint64.
type Distance interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// node is one (key, value) entry of the index. The layers slice holds the
// node's edge list on each layer it participates in; layer 0 contains every
// node. next threads the node into the freshness cycle.
type node[K, V any] struct {
	key    K
	value  V
	layers []*edgeList[K]
	next   int
}

// HRG is a collection for retrieving entries based on key proximity in a
// metric space.
//
// The zero value is not usable; construct with New or NewD. HRG is not safe
// for concurrent use.
type HRG[K Key[K], V any, D Distance] struct {
	// nodes of the graph. Nodes own their per-layer edge lists, which form
	// subgraphs of decreasing size called layers. The lowest layer contains
	// every node.
	nodes []node[K, V]
	// freshest is the node that was inserted or freshened most recently.
	// Its next pointer leads to the stalest node.
	freshest int
	// edges counts undirected edges on layer 0; each symmetric pair of
	// directed edges contributes one.
	edges int
	// mostEdges is the largest edge-list length observed on any node.
	mostEdges int
	// maxClusterLen is the split threshold. Stored for a future split step;
	// the insert and search paths do not consult it yet.
	maxClusterLen int
}

// New creates an empty index with the default uint64 distance storage.
func New[K Key[K], V any]() *HRG[K, V, uint64] {
	return NewD[K, V, uint64]()
}

// NewD creates an empty index with a caller-chosen distance storage type.
// See the Distance constraint for when narrowing is safe.
func NewD[K Key[K], V any, D Distance]() *HRG[K, V, D] {
	return &HRG[K, V, D]{maxClusterLen: 1024}
}

// MaxClusterLen sets the split threshold and returns the index for chaining.
// The value is only stored: no insert or search operation reads it, and no
// cluster is ever split.
func (h *HRG[K, V, D]) MaxClusterLen(n int) *HRG[K, V, D] {
	h.maxClusterLen = n
	return h
}

// Len returns the number of nodes in the index.
func (h *HRG[K, V, D]) Len() int {
	return len(h.nodes)
}

// IsEmpty reports whether the index contains no nodes.
func (h *HRG[K, V, D]) IsEmpty() bool {
	return len(h.nodes) == 0
}

// Edges returns the number of undirected edges on layer 0.
func (h *HRG[K, V, D]) Edges() int {
	return h.edges
}

// MostEdges returns the largest edge-list length observed on any node since
// the index was created.
func (h *HRG[K, V, D]) MostEdges() int {
	return h.mostEdges
}

// Get returns the (key, value) pair of a node. ok is false if the node id is
// out of range.
func (h *HRG[K, V, D]) Get(n int) (key K, value V, ok bool) {
	if n < 0 || n >= len(h.nodes) {
		return key, value, false
	}
	return h.nodes[n].key, h.nodes[n].value, true
}

// GetKey returns the key of a node. ok is false if the node id is out of range.
func (h *HRG[K, V, D]) GetKey(n int) (key K, ok bool) {
	if n < 0 || n >= len(h.nodes) {
		return key, false
	}
	return h.nodes[n].key, true
}

// GetValue returns the value of a node. ok is false if the node id is out of
// range.
func (h *HRG[K, V, D]) GetValue(n int) (value V, ok bool) {
	if n < 0 || n >= len(h.nodes) {
		return value, false
	}
	return h.nodes[n].value, true
}

// Distance computes the distance between the keys of two nodes.
func (h *HRG[K, V, D]) Distance(a, b int) D {
	return D(h.nodes[a].key.Distance(h.nodes[b].key))
}

// DegreeCount is one histogram bucket: the number of nodes whose edge list
// holds exactly Degree edges.
type DegreeCount struct {
	Degree int
	Count  int
}

// Histogram returns per-layer degree histograms sorted by degree ascending.
// The outer slice has one entry per layer, stopping at the first layer with
// no nodes.
func (h *HRG[K, V, D]) Histogram() [][]DegreeCount {
	var histograms [][]DegreeCount
	for layer := 0; ; layer++ {
		var histogram []DegreeCount
		for i := range h.nodes {
			if len(h.nodes[i].layers) <= layer {
				continue
			}
			degree := len(h.nodes[i].layers[layer].edges)
			pos := sort.Search(len(histogram), func(j int) bool {
				return histogram[j].Degree >= degree
			})
			if pos < len(histogram) && histogram[pos].Degree == degree {
				histogram[pos].Count++
			} else {
				histogram = slices.Insert(histogram, pos, DegreeCount{Degree: degree, Count: 1})
			}
		}
		if len(histogram) == 0 {
			break
		}
		histograms = append(histograms, histogram)
	}
	return histograms
}

// SimpleRepresentation returns the layer-0 adjacency as neighbor node ids,
// indexed by node id. Useful for debugging and failure reports.
func (h *HRG[K, V, D]) SimpleRepresentation() [][]int {
	representation := make([][]int, len(h.nodes))
	for i := range h.nodes {
		edges := h.nodes[i].layers[0].edges
		neighbors := make([]int, len(edges))
		for j := range edges {
			neighbors[j] = edges[j].neighbor.node
		}
		representation[i] = neighbors
	}
	return representation
}

// optimalK estimates a default neighborhood size as three times the average
// node degree, clamped to at least one by the +1.
func (h *HRG[K, V, D]) optimalK() int {
	return ((h.edges + 1) * 3) / max(len(h.nodes), 1)
}
