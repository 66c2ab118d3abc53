package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts the package's counter Snapshot into a Prometheus
// collector, for operators who would rather scrape a /metrics endpoint than
// tail a binary log file (see Logger). It works regardless of the "metrics"
// build tag; without that tag, Snapshot returns zeroed counters and the
// gauges simply read zero. Neither the pool nor the CLI registers it. It
// exports every WorkerCounters field except SelfConsumed, RejectedDepth and
// RejectedFull.
type Collector struct {
	allocatedPaths *prometheus.Desc
	push           *prometheus.Desc
	pop            *prometheus.Desc
	steal          *prometheus.Desc
	idleMicros     *prometheus.Desc
	maxQueueLen    *prometheus.Desc
	avgQueueLen    *prometheus.Desc
	earlyBacktrack *prometheus.Desc
	failedSteals   *prometheus.Desc
	stolenFrom     *prometheus.Desc
}

// NewCollector returns a Collector ready to be passed to
// prometheus.MustRegister.
func NewCollector() *Collector {
	workerLabels := []string{"worker"}
	return &Collector{
		allocatedPaths: prometheus.NewDesc("cubesat_allocated_paths_total", "Decision paths allocated for donated branches.", nil, nil),
		push:           prometheus.NewDesc("cubesat_worker_deque_push_total", "Cubes pushed onto a worker's own deque.", workerLabels, nil),
		pop:            prometheus.NewDesc("cubesat_worker_deque_pop_total", "Cubes popped off a worker's own deque.", workerLabels, nil),
		steal:          prometheus.NewDesc("cubesat_worker_steal_total", "Cubes a worker stole from a peer.", workerLabels, nil),
		idleMicros:     prometheus.NewDesc("cubesat_worker_idle_microseconds_total", "Microseconds a worker spent with no work.", workerLabels, nil),
		maxQueueLen:    prometheus.NewDesc("cubesat_worker_deque_max_length", "High-water mark of a worker's own deque length.", workerLabels, nil),
		avgQueueLen:    prometheus.NewDesc("cubesat_worker_deque_avg_length", "Exponential moving average of a worker's non-empty deque length.", workerLabels, nil),
		earlyBacktrack: prometheus.NewDesc("cubesat_worker_early_backtrack_total", "Times a worker's branch was stolen out from under it.", workerLabels, nil),
		failedSteals:   prometheus.NewDesc("cubesat_worker_failed_steal_total", "Steal attempts that found no work.", workerLabels, nil),
		stolenFrom:     prometheus.NewDesc("cubesat_worker_stolen_from_total", "Times a worker's donated cube was claimed by a peer.", workerLabels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocatedPaths
	ch <- c.push
	ch <- c.pop
	ch <- c.steal
	ch <- c.idleMicros
	ch <- c.maxQueueLen
	ch <- c.avgQueueLen
	ch <- c.earlyBacktrack
	ch <- c.failedSteals
	ch <- c.stolenFrom
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := Snapshot()
	ch <- prometheus.MustNewConstMetric(c.allocatedPaths, prometheus.CounterValue, float64(snap.AllocatedPaths))
	for i, wc := range snap.Workers {
		id := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(c.push, prometheus.CounterValue, float64(wc.Push), id)
		ch <- prometheus.MustNewConstMetric(c.pop, prometheus.CounterValue, float64(wc.Pop), id)
		ch <- prometheus.MustNewConstMetric(c.steal, prometheus.CounterValue, float64(wc.Steal), id)
		ch <- prometheus.MustNewConstMetric(c.idleMicros, prometheus.CounterValue, float64(wc.IdleMicros), id)
		ch <- prometheus.MustNewConstMetric(c.maxQueueLen, prometheus.GaugeValue, float64(wc.MaxQueueLen), id)
		ch <- prometheus.MustNewConstMetric(c.avgQueueLen, prometheus.GaugeValue, wc.AvgQueueLen, id)
		ch <- prometheus.MustNewConstMetric(c.earlyBacktrack, prometheus.CounterValue, float64(wc.EarlyBacktracks), id)
		ch <- prometheus.MustNewConstMetric(c.failedSteals, prometheus.CounterValue, float64(wc.FailedSteals), id)
		ch <- prometheus.MustNewConstMetric(c.stolenFrom, prometheus.CounterValue, float64(wc.StolenFrom), id)
	}
}
