package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spyglass-io/spyglass"
)

// JSONL writes newline-delimited JSON events into a directory of rotated
// files. The current file is rotated once cumulative bytes written exceed
// RotateBytes or its age exceeds RotateAge, whichever comes first. Rotation
// closes and finalizes the current file before the next write targets a new
// one, so no event is lost or duplicated across the boundary.
//
// No cross-file index is maintained; enumerating rotated files is the
// host's responsibility.
type JSONL struct {
	dir         string
	rotateBytes int64
	rotateAge   time.Duration

	mu       sync.Mutex
	f        *os.File
	written  int64
	openedAt time.Time
	seq      int
}

// NewJSONL creates the output directory if needed and returns a sink that
// opens its first file lazily on the first write.
func NewJSONL(cfg *spyglass.JSONLConfig) (*JSONL, error) {
	if cfg.GetRotateBytes() <= 0 || cfg.GetRotateAge() <= 0 {
		return nil, fmt.Errorf("%w: rotation thresholds must be positive", spyglass.ErrInvalidConfig)
	}
	if err := os.MkdirAll(cfg.GetDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create sink dir: %w", err)
	}

	return &JSONL{
		dir:         cfg.GetDir(),
		rotateBytes: cfg.GetRotateBytes(),
		rotateAge:   cfg.GetRotateAge(),
	}, nil
}

// Write appends the batch as JSON lines, rotating between events when a
// threshold is crossed.
func (j *JSONL) Write(batch []*spyglass.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, ev := range batch {
		line, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		line = append(line, '\n')

		if err := j.ensureFile(); err != nil {
			return err
		}

		n, err := j.f.Write(line)
		j.written += int64(n)
		if err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}

	return nil
}

// ensureFile opens the first file or rotates when a threshold is crossed.
func (j *JSONL) ensureFile() error {
	if j.f != nil {
		overBytes := j.written > j.rotateBytes
		overAge := time.Since(j.openedAt) >= j.rotateAge
		if !overBytes && !overAge {
			return nil
		}
		if err := j.f.Close(); err != nil {
			return fmt.Errorf("finalize rotated file: %w", err)
		}
		j.f = nil
	}

	j.seq++
	name := fmt.Sprintf("events-%s-%04d.jsonl", time.Now().UTC().Format("20060102T150405"), j.seq)
	f, err := os.OpenFile(filepath.Join(j.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("open sink file: %w", err)
	}

	j.f = f
	j.written = 0
	j.openedAt = time.Now()

	return nil
}

// Close finalizes the current file. Subsequent writes would reopen a new
// file, so callers must stop writing first.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil

	return err
}

var _ Sink = (*JSONL)(nil)
