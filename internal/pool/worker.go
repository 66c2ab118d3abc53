package pool

import (
	"sync/atomic"

	"github.com/hartog/cubesat/internal/sat"
)

// WorkerStrategy customizes how a worker behaves once it has exhausted the
// SubProblem it was handed: OnNewProblem resets any strategy-local state
// when a worker is resynced onto a new submission; OnNewSubproblem resets
// per-solve state whenever a fresh DPLLSolver is spun up (whether from the
// shared job channel or from FindNewWork); AfterDecision is a hook called
// after every branching decision (used by stealingWorker to donate the
// untried sibling of a fresh decision); ShouldStopBacktrackingEarly is
// consulted whenever a backtrack flips a decision back to a branch that may
// have already been donated and claimed by a peer; and FindNewWork is
// consulted once a worker's current subtree is fully explored with no
// solution.
type WorkerStrategy interface {
	OnNewProblem(problem *sat.Problem)
	OnNewSubproblem(solver *sat.DPLLSolver)
	AfterDecision(solver *sat.DPLLSolver, wasFreshDecision bool)
	ShouldStopBacktrackingEarly(solver *sat.DPLLSolver) bool
	FindNewWork(problem *sat.Problem, solutionFound *atomic.Bool, activeWorkers *atomic.Int64) (SubProblem, bool)
}

// BasicWorker only ever solves the SubProblems it is handed directly from
// the shared job channel; it never hunts for additional work of its own.
type BasicWorker struct{}

func (*BasicWorker) OnNewProblem(*sat.Problem)      {}
func (*BasicWorker) OnNewSubproblem(*sat.DPLLSolver) {}
func (*BasicWorker) AfterDecision(*sat.DPLLSolver, bool) {}
func (*BasicWorker) ShouldStopBacktrackingEarly(*sat.DPLLSolver) bool {
	return false
}
func (*BasicWorker) FindNewWork(*sat.Problem, *atomic.Bool, *atomic.Int64) (SubProblem, bool) {
	return SubProblem{}, false
}

// workerCore runs the solve loop shared by every strategy: receive a
// SubProblem, drive its DPLLSolver one step at a time (so the shared
// solution-found flag can be observed between steps), and on exhaustion
// defer to the strategy for more work before giving up.
type workerCore struct {
	id  int
	pid uint64

	numActiveWorkers *atomic.Int64
	jobCh            <-chan SubProblem
	shared           *SharedContext

	cachedPID uint64
	localCtx  *ProblemContext

	strat WorkerStrategy
}

func newWorkerCore(id int, active *atomic.Int64, jobCh <-chan SubProblem, shared *SharedContext, strat WorkerStrategy) *workerCore {
	return &workerCore{
		id:               id,
		numActiveWorkers: active,
		jobCh:            jobCh,
		shared:           shared,
		strat:            strat,
	}
}

func (w *workerCore) run() {
	for sub := range w.jobCh {
		if sub.PID != w.cachedPID {
			w.syncProblemContext(sub.PID)
		}
		if w.localCtx == nil || w.cachedPID != sub.PID {
			// Stale submission, superseded before we could sync. The
			// dispatcher already counted this cube as active before
			// sending it; undo that since it will never be solved.
			w.numActiveWorkers.Add(-1)
			continue
		}
		w.solveSubproblem(sub)
	}
}

// syncProblemContext resyncs the worker's cached view of the shared context
// to pid. If the shared context has already moved on to a newer submission,
// the caller's subproblem is stale and gets dropped.
func (w *workerCore) syncProblemContext(pid uint64) {
	currentPID, ctx := w.shared.snapshot()
	if currentPID != pid {
		return
	}
	w.localCtx = ctx
	w.cachedPID = currentPID
	w.strat.OnNewProblem(ctx.Problem)
}

// solveSubproblem works sub to completion: either a model is found, or its
// whole subtree (plus whatever it can find via FindNewWork once that subtree
// is exhausted) turns up nothing. The dispatcher already credited
// numActiveWorkers for sub before sending it; active tracks whether that
// credit is still outstanding, since nextSubproblem borrows it away while
// hunting for more work and gives it back only if it finds any.
func (w *workerCore) solveSubproblem(sub SubProblem) {
	ctx := w.localCtx
	active := true
	defer func() {
		if active {
			w.numActiveWorkers.Add(-1)
		}
	}()

	solver, action := w.startSubproblem(ctx, sub)

	for {
		if ctx.SolutionFound.Load() {
			return
		}

		switch action.Kind {
		case sat.ActionSAT:
			if ctx.SolutionFound.CompareAndSwap(false, true) {
				ctx.SolutionCh <- solver.Assignment.ToSolution()
			}
			return
		case sat.ActionUNSAT:
			var ok bool
			solver, action, ok = w.nextSubproblem(ctx, &active)
			if !ok {
				return
			}
		default: // ActionContinue
			if !action.WasFreshDecision && w.strat.ShouldStopBacktrackingEarly(solver) {
				var ok bool
				solver, action, ok = w.nextSubproblem(ctx, &active)
				if !ok {
					return
				}
				continue
			}
			action = solver.Step(action.Continue)
			w.strat.AfterDecision(solver, action.WasFreshDecision)
		}
	}
}

// startSubproblem spins up a fresh DPLLSolver over sub and drives it to its
// first SolverAction, notifying the strategy along the way.
func (w *workerCore) startSubproblem(ctx *ProblemContext, sub SubProblem) (*sat.DPLLSolver, sat.SolverAction) {
	solver := sat.NewDPLLSolver(ctx.Problem, sub.Cube)
	w.strat.OnNewSubproblem(solver)
	action := solver.FirstStep()
	w.strat.AfterDecision(solver, action.WasFreshDecision)
	return solver, action
}

// nextSubproblem asks the strategy for more work once the current subtree
// is exhausted (or abandoned early via ShouldStopBacktrackingEarly). It
// marks the worker inactive for the duration of the hunt, so the pool-wide
// active count can reach zero when every worker is simultaneously idle, and
// restores it the moment a new subproblem is found.
func (w *workerCore) nextSubproblem(ctx *ProblemContext, active *bool) (*sat.DPLLSolver, sat.SolverAction, bool) {
	w.numActiveWorkers.Add(-1)
	*active = false

	newSub, ok := w.strat.FindNewWork(ctx.Problem, &ctx.SolutionFound, w.numActiveWorkers)
	if !ok {
		return nil, sat.SolverAction{}, false
	}

	w.numActiveWorkers.Add(1)
	*active = true
	solver, action := w.startSubproblem(ctx, newSub)
	return solver, action, true
}
