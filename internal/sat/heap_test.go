package sat

import "testing"

func byID(activity []float64) Less {
	return func(a, b int) bool {
		if activity[a] != activity[b] {
			return activity[a] > activity[b]
		}
		return a < b
	}
}

func TestIndexedHeap_PopReturnsHighestPriorityFirst(t *testing.T) {
	activity := []float64{1, 5, 3, 4, 2}
	h := NewIndexedHeap(5)
	less := byID(activity)
	for i := range activity {
		h.Insert(i, less)
	}

	var order []int
	for h.Len() > 0 {
		id, ok := h.Pop(less)
		if !ok {
			t.Fatalf("Pop() ok = false while Len() = %d", h.Len())
		}
		order = append(order, id)
	}

	want := []int{1, 3, 2, 4, 0}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("pop order = %v, want %v", order, want)
		}
	}
}

func TestIndexedHeap_Update(t *testing.T) {
	activity := []float64{1, 1, 1}
	h := NewIndexedHeap(3)
	less := byID(activity)
	for i := range activity {
		h.Insert(i, less)
	}

	activity[2] = 100
	h.Update(2, less)

	id, ok := h.Pop(less)
	if !ok || id != 2 {
		t.Fatalf("Pop() after Update = (%d, %v), want (2, true)", id, ok)
	}
}

func TestIndexedHeap_Contains(t *testing.T) {
	h := NewIndexedHeap(2)
	less := byID([]float64{1, 1})

	if h.Contains(0) {
		t.Fatalf("Contains(0) = true before Insert")
	}
	h.Insert(0, less)
	if !h.Contains(0) {
		t.Fatalf("Contains(0) = false after Insert")
	}
	h.Pop(less)
	if h.Contains(0) {
		t.Fatalf("Contains(0) = true after Pop")
	}
}

func TestIndexedHeap_PopEmpty(t *testing.T) {
	h := NewIndexedHeap(0)
	if _, ok := h.Pop(byID(nil)); ok {
		t.Fatalf("Pop() on empty heap: ok = true, want false")
	}
}
