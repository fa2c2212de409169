package trace

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/tileflow/logger"
)

// the default queue length for a Tap
const TapQueue = 256

// Tap queues records for a Recorder. Push() never blocks.
type Tap struct {
	rec Recorder
	ch  chan Record
	wg  sync.WaitGroup

	once    sync.Once
	pushed  atomic.Int64
	dropped atomic.Int64
}

// NewTap starts the writer goroutine for the recorder. The queue length is
// TapQueue if size is less than one.
func NewTap(rec Recorder, size int) *Tap {
	if size < 1 {
		size = TapQueue
	}
	t := &Tap{
		rec: rec,
		ch:  make(chan Record, size),
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for r := range t.ch {
			if err := t.rec.Write(r); err != nil {
				logger.Log(logger.Allow, "trace", err)
			}
		}
	}()
	return t
}

// Push queues the record. Returns false if the queue is full and the record
// has been dropped.
func (t *Tap) Push(r Record) bool {
	select {
	case t.ch <- r:
		t.pushed.Add(1)
		return true
	default:
		t.dropped.Add(1)
		return false
	}
}

// Stats returns the number of records pushed and dropped
func (t *Tap) Stats() (int64, int64) {
	return t.pushed.Load(), t.dropped.Load()
}

// Close waits for the queue to empty and closes the recorder. Push() must
// not be called after Close().
func (t *Tap) Close() error {
	var err error
	t.once.Do(func() {
		close(t.ch)
		t.wg.Wait()
		err = t.rec.Close()
	})
	return err
}
