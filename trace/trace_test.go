package trace_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jetsetilly/tileflow/test"
	"github.com/jetsetilly/tileflow/trace"
)

func TestJSONLZstd(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "trace", "frames.jsonl.zst")

	j, err := trace.NewJSONLZstd(pth)
	test.DemandSuccess(t, err)

	for i := range 10 {
		test.ExpectSuccess(t, j.Write(trace.Record{Frame: uint64(i + 1), Entities: i, Elapsed: 3}))
	}
	test.ExpectSuccess(t, j.Close())

	// writing after close is an error
	test.ExpectFailure(t, j.Write(trace.Record{}))

	recs, err := trace.ReadJSONLZstd(pth)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(recs), 10)
	for i, r := range recs {
		test.ExpectEquality(t, r.Frame, uint64(i+1))
		test.ExpectEquality(t, r.Entities, i)
		test.ExpectEquality(t, r.Elapsed, 3)
	}
}

func TestSQLite(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "frames.db")

	s, err := trace.OpenSQLite(pth)
	test.DemandSuccess(t, err)

	for i := range 20 {
		r := trace.Record{
			Frame:    uint64(i + 1),
			Elapsed:  uint8(i % 5),
			Entities: i,
			Spawned:  1,
			Blocked:  2,
		}
		test.ExpectSuccess(t, s.Write(r))
	}

	sum, err := s.Summarise()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, sum.Frames, 20)
	test.ExpectEquality(t, sum.MaxElapsed, 4)
	test.ExpectEquality(t, sum.MaxEntities, 19)
	test.ExpectEquality(t, sum.Spawned, 20)
	test.ExpectEquality(t, sum.Blocked, 40)

	over, err := s.Overruns(4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(over), 4)
	test.ExpectEquality(t, over[0], 5)

	test.ExpectEquality(t, s.Dropped(), 0)
	test.ExpectSuccess(t, s.Close())

	// closing twice is allowed
	test.ExpectSuccess(t, s.Close())
}

func TestSQLiteIncompatible(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "frames.db")

	// a frames table from something else entirely
	db, err := sql.Open("sqlite", pth)
	test.DemandSuccess(t, err)
	_, err = db.Exec(`CREATE TABLE frames (name TEXT)`)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, db.Close())

	// the index must not open and then skip every record
	s, err := trace.OpenSQLite(pth)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, s == nil)
}

type memory struct {
	crit   sync.Mutex
	recs   []trace.Record
	closed bool
	fail   bool
}

func (m *memory) Write(r trace.Record) error {
	m.crit.Lock()
	defer m.crit.Unlock()
	if m.fail {
		return errors.New("write failed")
	}
	m.recs = append(m.recs, r)
	return nil
}

func (m *memory) Close() error {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	a := &memory{}
	b := &memory{fail: true}
	c := &memory{}

	m := trace.Multi{a, b, c}
	test.ExpectFailure(t, m.Write(trace.Record{Frame: 1}))
	test.ExpectEquality(t, len(a.recs), 1)
	test.ExpectEquality(t, len(c.recs), 1)

	test.ExpectSuccess(t, m.Close())
	test.ExpectSuccess(t, a.closed && b.closed && c.closed)
}

func TestTap(t *testing.T) {
	mem := &memory{}
	tap := trace.NewTap(mem, 1000)

	for i := range 100 {
		test.ExpectSuccess(t, tap.Push(trace.Record{Frame: uint64(i)}))
	}
	test.ExpectSuccess(t, tap.Close())

	pushed, dropped := tap.Stats()
	test.ExpectEquality(t, pushed, 100)
	test.ExpectEquality(t, dropped, 0)
	test.ExpectEquality(t, len(mem.recs), 100)
	test.ExpectSuccess(t, mem.closed)

	// order is preserved
	for i, r := range mem.recs {
		test.ExpectEquality(t, r.Frame, uint64(i))
	}
}

// blocking is a recorder that does not return from Write() until released
type blocking struct {
	release chan bool
}

func (b *blocking) Write(trace.Record) error {
	<-b.release
	return nil
}

func (b *blocking) Close() error {
	return nil
}

func TestTapDrops(t *testing.T) {
	b := &blocking{release: make(chan bool)}
	tap := trace.NewTap(b, 1)

	// the first record is taken by the writer goroutine or sits in the
	// queue. either way the queue fills quickly and later records are
	// dropped rather than blocking the caller
	var dropped bool
	for range 10 {
		if !tap.Push(trace.Record{}) {
			dropped = true
		}
	}
	test.ExpectSuccess(t, dropped)

	close(b.release)
	test.ExpectSuccess(t, tap.Close())
}
