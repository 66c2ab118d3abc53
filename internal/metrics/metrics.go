// Package metrics is a facade over the worker pool's activity counters:
// stealing, queueing, idling. Two build variants exist (metrics.go has the
// shared types; metrics_on.go and metrics_off.go gate the actual bookkeeping
// behind the "metrics" build tag) so that a release binary built without
// -tags metrics pays nothing for counters it was never asked to collect.
package metrics

// WorkerCounters is one worker's activity snapshot.
type WorkerCounters struct {
	Push             uint64
	Pop              uint64
	Steal            uint64
	IdleMicros       uint64
	MaxQueueLen      uint64
	AvgQueueLen      float64
	EarlyBacktracks  uint64
	SelfConsumed     uint64
	FailedSteals     uint64
	RejectedDepth    uint64
	RejectedFull     uint64
	StolenFrom       uint64
}

// Counters is a point-in-time snapshot of every counter the pool tracks.
type Counters struct {
	AllocatedPaths uint64
	Workers        []WorkerCounters
}

// Init allocates per-worker state for numWorkers workers. It must be called
// before any Record* function if the "metrics" build tag is set; it is a
// no-op in the metrics-off build. Safe to call more than once (e.g. across
// tests); each call resets previously recorded counters.
func Init(numWorkers int) {
	initImpl(numWorkers)
}

// RecordStoleFrom records that thief successfully stole a cube from victim.
func RecordStoleFrom(thief, victim int) { recordStoleFromImpl(thief, victim) }

// RecordFailedSteal records that worker attempted to steal but found no work.
func RecordFailedSteal(worker int) { recordFailedStealImpl(worker) }

// RecordEarlyBacktrack records that worker's work was stolen out from under
// it, cutting short its own descent into that branch.
func RecordEarlyBacktrack(worker int) { recordEarlyBacktrackImpl(worker) }

// RecordAllocatedPath records that a DecisionPath was allocated for a
// donated branch. Donated paths are always allocated fresh; no free list is
// kept for reuse.
func RecordAllocatedPath() { recordAllocatedPathImpl() }

// RecordQueueLength records the current length of worker's deque, updating
// both its running max and its exponential moving average over non-empty
// observations.
func RecordQueueLength(worker, length int) { recordQueueLengthImpl(worker, length) }

// RecordPush records that worker pushed a cube onto its own deque.
func RecordPush(worker int) { recordPushImpl(worker) }

// RecordPop records that worker popped a cube off its own deque.
func RecordPop(worker int) { recordPopImpl(worker) }

// RecordRejectedDepth records that worker declined to donate a branch
// because it was deeper than maxOfferDepth into the search tree.
func RecordRejectedDepth(worker int) { recordRejectedDepthImpl(worker) }

// RecordRejectedFull records that worker declined to donate a branch
// because its own deque already held queueCapacity un-stolen donations.
func RecordRejectedFull(worker int) { recordRejectedFullImpl(worker) }

// RecordIdle records that worker spent micros microseconds without work.
func RecordIdle(worker int, micros uint64) { recordIdleImpl(worker, micros) }

// Snapshot returns the current value of every counter. In the metrics-off
// build every field reads zero.
func Snapshot() Counters { return snapshotImpl() }
