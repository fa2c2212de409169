// Package trace records a summary of every simulation frame. Records are
// written by a Recorder; the JSONL recorder is the complete record and the
// SQLite recorder is an index that can be queried.
//
// The main loop must never wait for a recorder. Records are handed to a Tap
// which queues them for a writer goroutine and drops them if the queue is
// full.
package trace

import (
	"errors"
	"fmt"
)

// Record is the summary of a single frame of the simulation
type Record struct {
	// the number of frames the simulation has run since bootstrap. the first
	// frame is frame one
	Frame uint64 `json:"frame"`

	// the interrupt frame counter when the frame began and the number of
	// interrupt frames that elapsed before the screen was ready
	Counter uint8 `json:"counter"`
	Elapsed uint8 `json:"elapsed"`

	Entities int `json:"entities"`
	Spawners int `json:"spawners"`

	Moved   int `json:"moved"`
	Blocked int `json:"blocked"`
	Resting int `json:"resting"`

	Spawned         int `json:"spawned"`
	SkippedFull     int `json:"skipped_full"`
	SkippedOccupied int `json:"skipped_occupied"`
}

func (r Record) String() string {
	return fmt.Sprintf("frame %d: counter=%d elapsed=%d entities=%d spawners=%d moved=%d blocked=%d resting=%d spawned=%d skipped=%d/%d",
		r.Frame, r.Counter, r.Elapsed, r.Entities, r.Spawners,
		r.Moved, r.Blocked, r.Resting,
		r.Spawned, r.SkippedFull, r.SkippedOccupied)
}

// Recorder is implemented by types that can store records
type Recorder interface {
	Write(Record) error
	Close() error
}

// Multi sends records to more than one recorder
type Multi []Recorder

// Write implements the Recorder interface. Every recorder is written to even
// if an earlier one fails.
func (m Multi) Write(r Record) error {
	var errs []error
	for _, rec := range m {
		if err := rec.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements the Recorder interface
func (m Multi) Close() error {
	var errs []error
	for _, rec := range m {
		if err := rec.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
