//go:build !metrics

package metrics

func initImpl(numWorkers int) {}

func recordStoleFromImpl(thief, victim int) {}

func recordFailedStealImpl(id int) {}

func recordEarlyBacktrackImpl(id int) {}

func recordAllocatedPathImpl() {}

func recordQueueLengthImpl(id, length int) {}

func recordPushImpl(id int) {}

func recordPopImpl(id int) {}

func recordRejectedDepthImpl(id int) {}

func recordRejectedFullImpl(id int) {}

func recordIdleImpl(id int, micros uint64) {}

func snapshotImpl() Counters { return Counters{} }
