package subgraph

import "github.com/mobinasri/gbwtgraph/pkg/graph"

// item is one entry of the node-query frontier: a handle reached at a given
// cumulative basepair cost.
type item struct {
	handle graph.Handle
	cost   int
}

// minHeap is a concrete-typed min-heap over (handle, cost), grounded on
// map_router/pkg/routing/dijkstra.go's MinHeap (there over (node, dist)
// uint32 pairs; here handles and int costs, same sift-up/down shape).
type minHeap struct {
	items []item
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(handle graph.Handle, cost int) {
	h.items = append(h.items, item{handle: handle, cost: cost})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() item {
	n := len(h.items)
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].cost >= h.items[parent].cost {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].cost < h.items[smallest].cost {
			smallest = left
		}
		if right < n && h.items[right].cost < h.items[smallest].cost {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
