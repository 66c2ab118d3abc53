// Package pool implements the cube-and-conquer controller: it splits a
// Problem into bounded-depth cubes via sat.CubeGenerator and hands them to a
// fleet of worker goroutines, racing them to either a satisfying model or a
// joint proof of unsatisfiability.
package pool

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/hartog/cubesat/internal/metrics"
	"github.com/hartog/cubesat/internal/sat"
)

// SubProblem is one unit of dispatchable work: solve problem starting from
// the fixed prefix of decisions in Cube.
type SubProblem struct {
	PID  uint64
	Cube sat.DecisionPath
}

// ProblemContext is the read-only state shared by every worker solving the
// same submitted Problem: the formula itself, the flag any worker sets on
// finding a model, and the channel the first finder reports it on.
type ProblemContext struct {
	Problem       *sat.Problem
	SolutionFound atomic.Bool
	SolutionCh    chan []bool
}

func newProblemContext(problem *sat.Problem) *ProblemContext {
	return &ProblemContext{
		Problem:    problem,
		SolutionCh: make(chan []bool, 1),
	}
}

// SharedContext is the single mutable handle workers resync against: each
// Submit call installs a fresh ProblemContext and bumps the PID so that
// workers still holding SubProblems from a previous run can detect and
// discard them.
type SharedContext struct {
	mu         sync.RWMutex
	currentPID uint64
	problemCtx *ProblemContext
}

func (sc *SharedContext) snapshot() (uint64, *ProblemContext) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.currentPID, sc.problemCtx
}

func (sc *SharedContext) install(ctx *ProblemContext) uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.currentPID++
	sc.problemCtx = ctx
	return sc.currentPID
}

// Strategy is the strategy a Pool dispatches work under: Basic workers only
// ever drain the shared job channel; Stealing workers additionally steal
// cubes from their peers' deques once the shared channel runs dry.
type Strategy int

const (
	StrategyBasic Strategy = iota
	StrategyStealing
)

// Pool runs a fleet of worker goroutines that race to solve whatever
// Problem is handed to Submit. A Pool is reusable across many Submit calls.
type Pool struct {
	log *logrus.Logger

	numWorkers int
	strategy   Strategy

	shared        *SharedContext
	jobCh         chan SubProblem
	activeWorkers atomic.Int64
	deques        []*Deque

	metricsLog *metrics.Logger
}

// WithMetricsLogger attaches a binary metrics logger that gets ticked once
// per awaitResult poll.
func (p *Pool) WithMetricsLogger(l *metrics.Logger) *Pool {
	p.metricsLog = l
	return p
}

// New returns a Pool sized to numWorkers (clamped to at least 1 and at most
// runtime.GOMAXPROCS(0)) running the given Strategy. A numWorkers of 0 means
// "use every available processor".
func New(numWorkers int, strategy Strategy, log *logrus.Logger) *Pool {
	maxProcs := runtime.GOMAXPROCS(0)
	if numWorkers <= 0 || numWorkers > maxProcs {
		numWorkers = maxProcs
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := &Pool{
		log:        log,
		numWorkers: numWorkers,
		strategy:   strategy,
		shared:     &SharedContext{},
		jobCh:      make(chan SubProblem),
	}

	if numWorkers > 1 && strategy == StrategyStealing {
		p.deques = make([]*Deque, numWorkers)
		for i := range p.deques {
			p.deques[i] = NewDeque(queueCapacity)
		}
	}
	metrics.Init(numWorkers)

	for id := 0; id < numWorkers; id++ {
		var strat WorkerStrategy
		if p.deques != nil {
			strat = newStealingWorker(id, p.deques)
		} else {
			strat = &BasicWorker{}
		}
		core := newWorkerCore(id, &p.activeWorkers, p.jobCh, p.shared, strat)
		go core.run()
	}

	return p
}

// Solve runs problem on numWorkers workers using strategy, logging with log
// (or the standard logrus logger if nil), and returns a satisfying model and
// true, or (nil, false) if the formula is unsatisfiable. It is the
// one-shot convenience entry point; construct a Pool directly to reuse
// worker goroutines across many problems.
func Solve(problem *sat.Problem, numWorkers int, strategy Strategy, log *logrus.Logger) ([]bool, bool) {
	maxProcs := runtime.GOMAXPROCS(0)
	if numWorkers <= 0 || numWorkers > maxProcs {
		numWorkers = maxProcs
	}
	if numWorkers <= 1 {
		return sat.NewDPLLSolver(problem, nil).Solve()
	}
	return New(numWorkers, strategy, log).Submit(problem)
}

// calculateOptimalSplits returns the cube-generation depth that yields
// roughly one cube per worker (ceil(log2(numWorkers))), or false if the
// problem has too few variables to be split that deeply — in which case the
// caller should solve it directly on a single worker instead.
func calculateOptimalSplits(numWorkers, numVars int) (int, bool) {
	if numWorkers <= 1 {
		return 0, false
	}
	splits := int(math.Ceil(math.Log2(float64(numWorkers))))
	if splits > numVars {
		return 0, false
	}
	return splits, true
}

// Submit solves problem, blocking until a result is available. It installs a
// fresh ProblemContext (invalidating any in-flight SubProblems from a prior
// Submit), generates cubes on a background goroutine, and waits for either a
// model or a joint proof of exhaustion.
func (p *Pool) Submit(problem *sat.Problem) ([]bool, bool) {
	splits, ok := calculateOptimalSplits(p.numWorkers, problem.NumVars)
	if !ok {
		return sat.NewDPLLSolver(problem, nil).Solve()
	}

	ctx := newProblemContext(problem)
	pid := p.shared.install(ctx)

	var generatorDone atomic.Bool
	var dispatched atomic.Int64
	go p.generate(pid, ctx, splits, &generatorDone, &dispatched)

	return p.awaitResult(ctx, &generatorDone, &dispatched)
}

// generate drives a CubeGenerator, forwarding every cube it yields onto the
// shared job channel. A SAT or UNSAT verdict reached by the generator itself
// (before any cube ever reaches a worker) is resolved immediately rather
// than dispatched.
func (p *Pool) generate(pid uint64, ctx *ProblemContext, splits int, done *atomic.Bool, dispatched *atomic.Int64) {
	defer done.Store(true)

	gen := sat.NewCubeGenerator(ctx.Problem, splits)
	for {
		result, more := gen.Next()
		if !more || ctx.SolutionFound.Load() {
			return
		}
		switch result.Kind {
		case sat.CubeSAT:
			if ctx.SolutionFound.CompareAndSwap(false, true) {
				ctx.SolutionCh <- result.Model
			}
			return
		case sat.CubeUNSAT:
			return
		case sat.CubeCube:
			dispatched.Add(1)
			// Counted as active before the send, not after the receive:
			// the send blocks until a worker takes it, so by the time any
			// worker could possibly observe activeWorkers, the increment
			// has already happened. Counting from the receive side instead
			// would leave a race window where a finished generator and an
			// idle jobCh could be mistaken for global exhaustion.
			p.activeWorkers.Add(1)
			p.jobCh <- SubProblem{PID: pid, Cube: result.Cube}
		}
	}
}

// awaitResult polls, with a tiered Backoff, for either a solution or a proof
// that every dispatched cube has been exhausted with no solution found.
func (p *Pool) awaitResult(ctx *ProblemContext, generatorDone *atomic.Bool, dispatched *atomic.Int64) ([]bool, bool) {
	backoff := DefaultBackoff()
	for {
		select {
		case model := <-ctx.SolutionCh:
			return model, true
		default:
		}

		if ctx.SolutionFound.Load() {
			backoff.Wait()
			continue
		}

		if generatorDone.Load() && p.activeWorkers.Load() == 0 && len(p.jobCh) == 0 && p.dequesEmpty() {
			select {
			case model := <-ctx.SolutionCh:
				return model, true
			default:
				return nil, false
			}
		}

		if p.metricsLog != nil {
			if err := p.metricsLog.Tick(); err != nil {
				p.log.WithError(err).Warn("metrics log tick failed")
			}
		}

		backoff.Wait()
	}
}

func (p *Pool) dequesEmpty() bool {
	for _, d := range p.deques {
		if d.Len() > 0 {
			return false
		}
	}
	return true
}
