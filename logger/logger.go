// Package logger is the central log for the application. Entries are tagged
// and kept in a bounded list, older entries dropping off the front as new
// entries are added.
//
// Logging is permissioned. A call to Log() is only recorded if the
// Permission argument allows it. The Allow value should be used when there
// is no other context to consult.
//
// Consecutive identical entries are collapsed into one entry with a repeat
// count.
package logger

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Permission implementations indicate whether the environment making a
// logging request is allowed to create new log entries.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow indicates that the logging request should be allowed.
var Allow Permission = allow{}

// the maximum number of entries kept by the central logger
const maxEntries = 256

// Entry is a single entry in the log.
type Entry struct {
	Tag      string
	Detail   string
	Repeated int
	Time     time.Time
}

func (e Entry) String() string {
	if e.Repeated > 0 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Repeated+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

type logger struct {
	crit    sync.Mutex
	entries []Entry

	// entries are echoed to this writer as they are added. can be nil
	echo io.Writer
}

var central = &logger{
	entries: make([]Entry, 0, maxEntries),
}

func detailString(detail any) string {
	switch d := detail.(type) {
	case nil:
		return ""
	case error:
		// the innermost error is not interesting in the log. the whole chain
		// is printed by Error()
		return d.Error()
	case string:
		return d
	case fmt.Stringer:
		return d.String()
	default:
		return fmt.Sprintf("%v", d)
	}
}

func (l *logger) log(tag string, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// tags and detail should not have a trailing newline
	tag = strings.TrimSpace(tag)
	detail = strings.TrimSpace(detail)

	if n := len(l.entries); n > 0 {
		last := &l.entries[n-1]
		if last.Tag == tag && last.Detail == detail {
			last.Repeated++
			last.Time = time.Now()
			return
		}
	}

	e := Entry{
		Tag:    tag,
		Detail: detail,
		Time:   time.Now(),
	}

	if len(l.entries) >= maxEntries {
		l.entries = append(l.entries[:0], l.entries[1:]...)
	}
	l.entries = append(l.entries, e)

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
		io.WriteString(l.echo, "\n")
	}
}

// Log adds an entry to the central logger. The detail argument can be a
// string, an error, a fmt.Stringer or any other value, which will be
// formatted with the %v verb.
func Log(perm Permission, tag string, detail any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.log(tag, detailString(detail))
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag string, format string, args ...any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.log(tag, fmt.Sprintf(format, args...))
}

// Clear all entries from central logger.
func Clear() {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.entries = central.entries[:0]
}

// Tail writes the last N entries to io.Writer. A value of less than zero
// writes every entry.
func Tail(w io.Writer, n int) {
	central.crit.Lock()
	defer central.crit.Unlock()

	if w == nil {
		return
	}

	s := 0
	if n >= 0 {
		s = max(len(central.entries)-n, 0)
	}

	for _, e := range central.entries[s:] {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}

// SetEcho prints new entries to io.Writer as they are added. If writeRecent
// is true then the existing entries are written to the io.Writer first.
//
// A nil io.Writer stops the echo.
func SetEcho(w io.Writer, writeRecent bool) {
	if writeRecent {
		Tail(w, -1)
	}

	central.crit.Lock()
	defer central.crit.Unlock()
	central.echo = w
}

// Entries returns a copy of the current log entries.
func Entries() []Entry {
	central.crit.Lock()
	defer central.crit.Unlock()
	c := make([]Entry, len(central.entries))
	copy(c, central.entries)
	return c
}

// ErrNoEntries is returned by Last() when the log is empty.
var ErrNoEntries = errors.New("logger: no entries")

// Last returns the most recent entry.
func Last() (Entry, error) {
	central.crit.Lock()
	defer central.crit.Unlock()
	if len(central.entries) == 0 {
		return Entry{}, ErrNoEntries
	}
	return central.entries[len(central.entries)-1], nil
}
