//go:build metrics

package metrics

import (
	"math"
	"sync/atomic"
)

// state holds the live atomic counters. Guarded against concurrent Init by
// simply replacing the slice wholesale; Record* calls racing a concurrent
// Init are not a supported usage pattern (Init is a startup-time call).
var state struct {
	allocatedPaths atomic.Uint64
	workers        []*workerState
}

type workerState struct {
	push            atomic.Uint64
	pop             atomic.Uint64
	steal           atomic.Uint64
	idleMicros      atomic.Uint64
	maxQueueLen     atomic.Uint64
	avgQueueLenBits atomic.Uint64 // float64 bits, exponential moving average
	earlyBacktracks atomic.Uint64
	selfConsumed    atomic.Uint64
	failedSteals    atomic.Uint64
	rejectedDepth   atomic.Uint64
	rejectedFull    atomic.Uint64
	stolenFrom      atomic.Uint64
}

const queueLenAvgAlpha = 0.01

func initImpl(numWorkers int) {
	workers := make([]*workerState, numWorkers)
	for i := range workers {
		workers[i] = &workerState{}
	}
	state.allocatedPaths.Store(0)
	state.workers = workers
}

func worker(id int) *workerState {
	if id < 0 || id >= len(state.workers) {
		return nil
	}
	return state.workers[id]
}

func recordStoleFromImpl(thief, victim int) {
	if w := worker(thief); w != nil {
		w.steal.Add(1)
	}
	if w := worker(victim); w != nil {
		w.stolenFrom.Add(1)
	}
}

func recordFailedStealImpl(id int) {
	if w := worker(id); w != nil {
		w.failedSteals.Add(1)
	}
}

func recordEarlyBacktrackImpl(id int) {
	if w := worker(id); w != nil {
		w.earlyBacktracks.Add(1)
	}
}

func recordAllocatedPathImpl() {
	state.allocatedPaths.Add(1)
}

func recordQueueLengthImpl(id, length int) {
	w := worker(id)
	if w == nil {
		return
	}
	l := uint64(length)
	for {
		cur := w.maxQueueLen.Load()
		if l <= cur || w.maxQueueLen.CompareAndSwap(cur, l) {
			break
		}
	}
	if length <= 0 {
		return
	}
	lf := float64(length)
	for {
		oldBits := w.avgQueueLenBits.Load()
		var newAvg float64
		if oldBits == 0 {
			newAvg = lf
		} else {
			old := math.Float64frombits(oldBits)
			newAvg = old + queueLenAvgAlpha*(lf-old)
		}
		if w.avgQueueLenBits.CompareAndSwap(oldBits, math.Float64bits(newAvg)) {
			return
		}
	}
}

func recordPushImpl(id int) {
	if w := worker(id); w != nil {
		w.push.Add(1)
	}
}

func recordPopImpl(id int) {
	if w := worker(id); w != nil {
		w.pop.Add(1)
		w.selfConsumed.Add(1)
	}
}

func recordRejectedDepthImpl(id int) {
	if w := worker(id); w != nil {
		w.rejectedDepth.Add(1)
	}
}

func recordRejectedFullImpl(id int) {
	if w := worker(id); w != nil {
		w.rejectedFull.Add(1)
	}
}

func recordIdleImpl(id int, micros uint64) {
	if w := worker(id); w != nil {
		w.idleMicros.Add(micros)
	}
}

func snapshotImpl() Counters {
	out := Counters{
		AllocatedPaths: state.allocatedPaths.Load(),
		Workers:        make([]WorkerCounters, len(state.workers)),
	}
	for i, w := range state.workers {
		out.Workers[i] = WorkerCounters{
			Push:            w.push.Load(),
			Pop:             w.pop.Load(),
			Steal:           w.steal.Load(),
			IdleMicros:      w.idleMicros.Load(),
			MaxQueueLen:     w.maxQueueLen.Load(),
			AvgQueueLen:     math.Float64frombits(w.avgQueueLenBits.Load()),
			EarlyBacktracks: w.earlyBacktracks.Load(),
			SelfConsumed:    w.selfConsumed.Load(),
			FailedSteals:    w.failedSteals.Load(),
			RejectedDepth:   w.rejectedDepth.Load(),
			RejectedFull:    w.rejectedFull.Load(),
			StolenFrom:      w.stolenFrom.Load(),
		}
	}
	return out
}
