package sat

// IndexedHeap is a binary max-heap augmented with an id-to-position table so
// that the priority of an element already in the heap can be updated (sift
// up or down as appropriate) in O(log n), instead of only supporting lazy
// removal. This is the eager structure VSIDS needs: every activity bump
// repositions the bumped variable immediately.
type IndexedHeap struct {
	heap       []int
	idToHeapIdx []int
}

const unsetHeapIdx = -1

// NewIndexedHeap returns an empty heap with backing storage sized for ids in
// [0, capacity).
func NewIndexedHeap(capacity int) *IndexedHeap {
	idToHeapIdx := make([]int, capacity)
	for i := range idToHeapIdx {
		idToHeapIdx[i] = unsetHeapIdx
	}
	return &IndexedHeap{
		heap:        make([]int, 0, capacity),
		idToHeapIdx: idToHeapIdx,
	}
}

// Len returns the number of elements currently in the heap.
func (h *IndexedHeap) Len() int {
	return len(h.heap)
}

// Contains reports whether id is currently in the heap.
func (h *IndexedHeap) Contains(id int) bool {
	return h.idToHeapIdx[id] != unsetHeapIdx
}

// Less compares the priority of two ids: it must return true iff a has
// strictly higher priority than b (higher activity, or equal activity and
// smaller id as tie-break).
type Less func(a, b int) bool

// Insert adds a new element id to the heap. id must not already be present.
func (h *IndexedHeap) Insert(id int, less Less) {
	idx := len(h.heap)
	h.heap = append(h.heap, id)
	h.idToHeapIdx[id] = idx
	h.siftUp(idx, less)
}

// Update repositions id after its priority changed.
func (h *IndexedHeap) Update(id int, less Less) {
	idx := h.idToHeapIdx[id]
	if idx > 0 {
		parent := h.heap[parentOf(idx)]
		if less(id, parent) {
			h.siftUp(idx, less)
			return
		}
	}
	h.siftDown(idx, less)
}

// Pop removes and returns the highest-priority element. The second return
// value is false if the heap was empty.
func (h *IndexedHeap) Pop(less Less) (int, bool) {
	if len(h.heap) == 0 {
		return 0, false
	}

	first := h.heap[0]
	last := h.heap[len(h.heap)-1]
	h.heap = h.heap[:len(h.heap)-1]

	if len(h.heap) > 0 {
		h.setHeapAt(0, last)
		h.siftDown(0, less)
	}

	h.idToHeapIdx[first] = unsetHeapIdx
	return first, true
}

func (h *IndexedHeap) siftUp(childIdx int, less Less) {
	child := h.heap[childIdx]
	for childIdx > 0 {
		parentIdx := parentOf(childIdx)
		parent := h.heap[parentIdx]
		if !less(child, parent) {
			break
		}
		h.setHeapAt(childIdx, parent)
		childIdx = parentIdx
	}
	h.setHeapAt(childIdx, child)
}

func (h *IndexedHeap) siftDown(idx int, less Less) {
	id := h.heap[idx]
	for {
		left := leftChildOf(idx)
		if left >= len(h.heap) {
			break
		}
		right := left + 1

		bestChildIdx := left
		if right < len(h.heap) && less(h.heap[right], h.heap[left]) {
			bestChildIdx = right
		}

		bestChild := h.heap[bestChildIdx]
		if !less(bestChild, id) {
			break
		}
		h.setHeapAt(idx, bestChild)
		idx = bestChildIdx
	}
	h.setHeapAt(idx, id)
}

func (h *IndexedHeap) setHeapAt(idx, id int) {
	h.heap[idx] = id
	h.idToHeapIdx[id] = idx
}

func parentOf(idx int) int {
	return (idx - 1) >> 1
}

func leftChildOf(idx int) int {
	return (idx << 1) + 1
}
