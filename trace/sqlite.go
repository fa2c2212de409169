package trace

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/tileflow/logger"
	_ "modernc.org/sqlite"
)

// SQLite is an index of records. Writes are queued for a writer goroutine
// and are dropped if the writer falls behind.
type SQLite struct {
	db     *sql.DB
	insert *sql.Stmt

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Int64
}

type req struct {
	rec Record

	// if flush is not nil the writer commits any open transaction and closes
	// the channel
	flush chan struct{}
}

// the capacity of the writer queue
const sqliteQueue = 4096

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("trace: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS frames (
			frame INTEGER PRIMARY KEY,
			counter INTEGER NOT NULL,
			elapsed INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			spawners INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			blocked INTEGER NOT NULL,
			resting INTEGER NOT NULL,
			spawned INTEGER NOT NULL,
			skipped_full INTEGER NOT NULL,
			skipped_occupied INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("trace: %w", err)
		}
	}

	insert, err := db.Prepare(`INSERT OR REPLACE INTO frames(frame,counter,elapsed,entities,spawners,moved,blocked,resting,spawned,skipped_full,skipped_occupied) VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("trace: %w", err)
	}

	s := &SQLite{
		db:     db,
		insert: insert,
		ch:     make(chan req, sqliteQueue),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

// Write implements the Recorder interface
func (s *SQLite) Write(r Record) error {
	if s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{rec: r}:
	default:
		s.dropped.Add(1)
	}
	return nil
}

// Dropped returns the number of records dropped because the writer fell
// behind
func (s *SQLite) Dropped() int64 {
	return s.dropped.Load()
}

// Flush waits for all queued records to be committed
func (s *SQLite) Flush() {
	if s.closed.Load() {
		return
	}
	done := make(chan struct{})
	s.ch <- req{flush: done}
	<-done
}

// Close implements the Recorder interface. Queued records are committed
// before the database is closed.
func (s *SQLite) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

func (s *SQLite) loop() {
	ctx := context.Background()

	defer s.insert.Close()

	// only the first failure is logged
	var failed bool
	fail := func(err error) {
		if !failed {
			logger.Logf(logger.Allow, "trace", "sqlite: %v", err)
			failed = true
		}
	}

	var (
		tx          *sql.Tx
		opCount     int
		lastCommit  = time.Now()
		commitEvery = 500
		commitWait  = time.Second
	)

	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		if r.flush != nil {
			commit()
			close(r.flush)
			continue // for loop
		}

		if tx == nil {
			var err error
			tx, err = s.db.BeginTx(ctx, nil)
			if err != nil {
				fail(err)
				tx = nil
				continue // for loop
			}
		}

		rec := r.rec
		_, err := tx.Stmt(s.insert).Exec(
			int64(rec.Frame), rec.Counter, rec.Elapsed,
			rec.Entities, rec.Spawners,
			rec.Moved, rec.Blocked, rec.Resting,
			rec.Spawned, rec.SkippedFull, rec.SkippedOccupied,
		)
		if err != nil {
			fail(err)
			_ = tx.Rollback()
			tx = nil
			opCount = 0
			continue // for loop
		}
		opCount++

		if opCount >= commitEvery || time.Since(lastCommit) >= commitWait {
			commit()
		}
	}

	commit()
}

// Summary of the records in the index
type Summary struct {
	Frames      int
	MaxElapsed  int
	MaxEntities int
	Spawned     int
	Blocked     int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d frames: max elapsed=%d max entities=%d spawned=%d blocked=%d",
		s.Frames, s.MaxElapsed, s.MaxEntities, s.Spawned, s.Blocked)
}

// Summarise queries the index. Queued records are flushed first.
func (s *SQLite) Summarise() (Summary, error) {
	s.Flush()

	var sum Summary
	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(elapsed),0), COALESCE(MAX(entities),0), COALESCE(SUM(spawned),0), COALESCE(SUM(blocked),0) FROM frames`)
	if err := row.Scan(&sum.Frames, &sum.MaxElapsed, &sum.MaxEntities, &sum.Spawned, &sum.Blocked); err != nil {
		return sum, fmt.Errorf("trace: %w", err)
	}
	return sum, nil
}

// Overruns returns the frames in which the elapsed count reached the limit
func (s *SQLite) Overruns(limit int) ([]uint64, error) {
	s.Flush()

	rows, err := s.db.Query(`SELECT frame FROM frames WHERE elapsed >= ? ORDER BY frame`, limit)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer rows.Close()

	var frames []uint64
	for rows.Next() {
		var f int64
		if err := rows.Scan(&f); err != nil {
			return frames, fmt.Errorf("trace: %w", err)
		}
		frames = append(frames, uint64(f))
	}
	return frames, rows.Err()
}
