package pool

import (
	"sync/atomic"

	"github.com/hartog/cubesat/internal/metrics"
	"github.com/hartog/cubesat/internal/sat"
)

const (
	// maxOfferDepth bounds how deep into the search tree a worker will still
	// donate the untried sibling of a decision. Past this depth the
	// remaining subtree is small enough that splitting it off produces more
	// coordination overhead than parallelism.
	maxOfferDepth = 20

	// queueCapacity bounds how many un-stolen donations a worker keeps on
	// its own deque before it stops offering more.
	queueCapacity = 8
)

// stealingWorker donates the untried sibling of every fresh branching
// decision (up to maxOfferDepth, while its deque has room) to its own
// deque so idle peers can pick it up, and hunts across its peers' deques
// once its own subtree is exhausted.
type stealingWorker struct {
	id     int
	deques []*Deque // deques[id] is this worker's own; all others are peers
	stride int      // coprime with len(deques); visits every peer exactly once per sweep

	// deepestOfferedLevel is the decision level of the deepest donation
	// still believed outstanding on this worker's own deque. It is only a
	// heuristic bound (donations below it may already be gone), used to
	// skip ShouldStopBacktrackingEarly's deque check once backtracking has
	// clearly passed every level this worker ever offered.
	deepestOfferedLevel int
}

// newStealingWorker returns a WorkerStrategy for worker id that shares the
// given set of per-worker deques (one per worker, indexed by id).
func newStealingWorker(id int, deques []*Deque) *stealingWorker {
	return &stealingWorker{
		id:     id,
		deques: deques,
		stride: coprimeStride(len(deques)),
	}
}

// coprimeStride returns a stride in [1, n) that is coprime with n, so that
// repeatedly advancing by it from any starting point visits every residue
// mod n exactly once before repeating. n <= 1 has no peers to stride over.
func coprimeStride(n int) int {
	if n <= 2 {
		return 1
	}
	for s := n - 1; s >= 1; s-- {
		if gcd(s, n) == 1 {
			return s
		}
	}
	return 1
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (s *stealingWorker) OnNewProblem(*sat.Problem) {}

// OnNewSubproblem resyncs this worker's donation bookkeeping onto a freshly
// spun-up solver: anything still sitting on its own deque belonged to the
// subtree it just finished (or abandoned), not this one, so it's dropped
// rather than carried forward.
func (s *stealingWorker) OnNewSubproblem(solver *sat.DPLLSolver) {
	s.deepestOfferedLevel = solver.Assignment.DecisionLevel()
	own := s.deques[s.id]
	for {
		if _, ok := own.PopBack(); !ok {
			break
		}
	}
}

// AfterDecision donates the sibling of the decision just taken (the branch
// this worker will only explore later, via backtracking, if it ever gets
// that far) onto this worker's own deque, where an idle peer can steal it.
// Only fresh decisions are eligible: a backtrack re-entry has already
// flipped to the untried branch itself, so donating it again would re-offer
// a branch about to be explored in place, not a genuinely untried sibling.
func (s *stealingWorker) AfterDecision(solver *sat.DPLLSolver, wasFreshDecision bool) {
	if !wasFreshDecision {
		return
	}

	own := s.deques[s.id]
	metrics.RecordQueueLength(s.id, own.Len())

	level := solver.Assignment.DecisionLevel()
	if level > maxOfferDepth {
		metrics.RecordRejectedDepth(s.id)
		return
	}
	if own.Len() >= queueCapacity {
		metrics.RecordRejectedFull(s.id)
		return
	}

	decisions := solver.Assignment.ExtractDecisions()
	if len(decisions) == 0 {
		return
	}
	sibling := make(sat.DecisionPath, len(decisions))
	metrics.RecordAllocatedPath()
	copy(sibling, decisions)
	last := len(sibling) - 1
	sibling[last] = sibling[last].Inverted()
	own.PushBack(SubProblem{Cube: sibling})
	s.deepestOfferedLevel = level
	metrics.RecordPush(s.id)
}

// ShouldStopBacktrackingEarly checks whether the decision level a backtrack
// is about to re-enter still owns an un-popped donation on this worker's own
// deque. If the deque no longer holds it, a peer already stole that branch
// and is responsible for it (and everything below it), so this worker
// abandons the rest of this subtree instead of redundantly re-exploring it.
func (s *stealingWorker) ShouldStopBacktrackingEarly(solver *sat.DPLLSolver) bool {
	level := solver.Assignment.DecisionLevel()
	if level > maxOfferDepth || level > s.deepestOfferedLevel {
		return false
	}

	own := s.deques[s.id]
	if sub, ok := own.PopBack(); ok {
		metrics.RecordPop(s.id)
		s.deepestOfferedLevel = len(sub.Cube) - 1
		return false
	}

	metrics.RecordEarlyBacktrack(s.id)
	return true
}

// FindNewWork checks this worker's own deque first (a donation it made but
// no peer claimed before it could backtrack there itself), then repeatedly
// sweeps the other workers' deques at a coprime stride, ticking a Backoff
// between failed sweeps, until it steals something, a solution is found
// elsewhere, or every worker in the pool is simultaneously out of work.
func (s *stealingWorker) FindNewWork(problem *sat.Problem, solutionFound *atomic.Bool, activeWorkers *atomic.Int64) (SubProblem, bool) {
	if sub, ok := s.deques[s.id].PopBack(); ok {
		metrics.RecordPop(s.id)
		return sub, true
	}

	n := len(s.deques)
	backoff := DefaultBackoff()
	for {
		for i := 1; i < n; i++ {
			if solutionFound.Load() {
				return SubProblem{}, false
			}
			peer := (s.id + i*s.stride) % n
			if sub, ok := s.deques[peer].Steal(); ok {
				metrics.RecordStoleFrom(s.id, peer)
				return sub, true
			}
		}
		metrics.RecordFailedSteal(s.id)
		if solutionFound.Load() || activeWorkers.Load() == 0 {
			return SubProblem{}, false
		}
		backoff.Wait()
	}
}
