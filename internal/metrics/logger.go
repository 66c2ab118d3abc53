package metrics

import (
	"bufio"
	"encoding/binary"
	"os"
	"time"
)

// maxWorkers caps how many workers' data fit in a single fixed-width row,
// padding with zeroed WorkerCounters for any unused slots so that rows stay
// a constant size regardless of how many workers a given run actually used.
const maxWorkers = 64

// Logger periodically appends a fixed-width binary row of every counter to
// a file, for offline inspection with a small companion script. It is
// opt-in (enabled only via the CLI's --metrics-log flag) and writes nothing
// on its own; the caller drives it by calling Tick from the pool's wait
// loop.
type Logger struct {
	start    time.Time
	prevTick time.Time
	tickRate time.Duration
	filename string
	w        *bufio.Writer
	f        *os.File
}

// NewLogger opens (truncating) filename for writing fixed-width rows no more
// often than tickRate.
func NewLogger(filename string, tickRate time.Duration) (*Logger, error) {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Logger{
		start:    now,
		prevTick: now,
		tickRate: tickRate,
		filename: filename,
		w:        bufio.NewWriter(f),
		f:        f,
	}, nil
}

// Tick captures and appends a row if tickRate has elapsed since the last
// capture; otherwise it is a cheap no-op.
func (l *Logger) Tick() error {
	now := time.Now()
	if now.Sub(l.prevTick) <= l.tickRate {
		return nil
	}
	l.prevTick = now
	return l.capture()
}

func (l *Logger) capture() error {
	snap := Snapshot()

	if err := binary.Write(l.w, binary.LittleEndian, uint64(time.Since(l.start).Milliseconds())); err != nil {
		return err
	}
	if err := binary.Write(l.w, binary.LittleEndian, snap.AllocatedPaths); err != nil {
		return err
	}

	row := make([]WorkerCounters, maxWorkers)
	copy(row, snap.Workers)
	for _, wc := range row {
		fields := []uint64{
			wc.Push, wc.Pop, wc.Steal, wc.IdleMicros, wc.MaxQueueLen,
		}
		for _, f := range fields {
			if err := binary.Write(l.w, binary.LittleEndian, f); err != nil {
				return err
			}
		}
		if err := binary.Write(l.w, binary.LittleEndian, wc.AvgQueueLen); err != nil {
			return err
		}
		rest := []uint64{
			wc.EarlyBacktracks, wc.SelfConsumed, wc.FailedSteals,
			wc.RejectedDepth, wc.RejectedFull, wc.StolenFrom,
		}
		for _, f := range rest {
			if err := binary.Write(l.w, binary.LittleEndian, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close captures one final row, flushes, and closes the underlying file.
func (l *Logger) Close() error {
	if err := l.capture(); err != nil {
		l.f.Close()
		return err
	}
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
