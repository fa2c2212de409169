package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstd writes one JSON line per record to a zstd compressed file
type JSONLZstd struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLZstd creates the file at path, truncating any existing file. The
// directory is created if necessary.
func NewJSONLZstd(path string) (*JSONLZstd, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("trace: %w", err)
	}
	return &JSONLZstd{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Write implements the Recorder interface. Records are buffered and are not
// guaranteed to be in the file until Close() is called.
func (j *JSONLZstd) Write(r Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.w == nil {
		return fmt.Errorf("trace: %s is closed", j.path)
	}

	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	if _, err := j.w.Write(b); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

// Close implements the Recorder interface
func (j *JSONLZstd) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var err error
	if j.w != nil {
		err = j.w.Flush()
		j.w = nil
	}
	if j.enc != nil {
		if e := j.enc.Close(); err == nil {
			err = e
		}
		j.enc = nil
	}
	if j.f != nil {
		if e := j.f.Close(); err == nil {
			err = e
		}
		j.f = nil
	}
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

// ReadJSONLZstd reads every record in the file
func ReadJSONLZstd(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer dec.Close()

	var recs []Record
	scn := bufio.NewScanner(dec)
	for scn.Scan() {
		var r Record
		if err := json.Unmarshal(scn.Bytes(), &r); err != nil {
			return recs, fmt.Errorf("trace: %w", err)
		}
		recs = append(recs, r)
	}
	if err := scn.Err(); err != nil {
		return recs, fmt.Errorf("trace: %w", err)
	}
	return recs, nil
}
