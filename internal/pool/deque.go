package pool

import (
	"sync"

	"github.com/hartog/cubesat/internal/sat"
)

// Deque is a mutex-protected double-ended queue of SubProblems: the owning
// worker pushes and pops from the back (LIFO, best cache locality on its own
// recent work), while any other worker may steal from the front (FIFO,
// taking the oldest, typically largest, remaining cube). It backs onto the
// teacher's ring-buffer Queue rather than a lock-free Chase-Lev protocol —
// see DESIGN.md for why no such library exists anywhere in the pack.
type Deque struct {
	mu    sync.Mutex
	items *sat.Queue[SubProblem]
}

// NewDeque returns an empty deque with the given initial capacity hint.
func NewDeque(capacity int) *Deque {
	if capacity < 1 {
		capacity = 1
	}
	return &Deque{items: sat.NewQueue[SubProblem](capacity)}
}

// PushBack adds sp as the owner's next piece of work.
func (d *Deque) PushBack(sp SubProblem) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items.Push(sp)
}

// PopBack removes and returns the owner's most recently pushed SubProblem.
func (d *Deque) PopBack() (SubProblem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.PopBack()
}

// Steal removes and returns the oldest SubProblem in the deque, for use by
// any worker other than the owner.
func (d *Deque) Steal() (SubProblem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.TryPop()
}

// Len reports the number of SubProblems currently queued.
func (d *Deque) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.Size()
}
