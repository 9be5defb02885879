package ledger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HaukurPall/ruv-dl/internal/logging"
	"github.com/HaukurPall/ruv-dl/internal/textutil"
)

// Key is the dedup identity of a completed download. The catalog assigns
// different episode identifiers to the same aired content across re-syncs,
// so identity is the program title plus the first-air timestamp and never
// the catalog id.
type Key struct {
	ProgramTitle string
	FirstRun     string
}

// NewKey builds a normalized dedup key.
func NewKey(programTitle, firstRun string) Key {
	return Key{
		ProgramTitle: textutil.NormalizeTitle(programTitle),
		FirstRun:     firstRun,
	}
}

// Entry is one committed download. Entries are never mutated or deleted by
// the program; removing a line from the store is the operator's way to force
// a re-download.
type Entry struct {
	ProgramTitle string    `json:"program_title"`
	EpisodeTitle string    `json:"title"`
	ForeignTitle string    `json:"foreign_title,omitempty"`
	FirstRun     string    `json:"firstrun"`
	ProgramID    string    `json:"program_id,omitempty"`
	EpisodeID    string    `json:"episode_id,omitempty"`
	Path         string    `json:"path"`
	Quality      string    `json:"quality"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Key returns the entry's dedup key.
func (e Entry) Key() Key {
	return NewKey(e.ProgramTitle, e.FirstRun)
}

// Ledger is the durable append-only record of completed downloads. Loads
// pull the whole store into memory so membership checks are O(1); appends
// write one self-contained JSON line and sync before the in-memory set is
// updated.
type Ledger struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	file    *os.File
	entries map[Key]Entry
	skipped int
}

// Open loads the ledger at path, creating it (and parent directories) when
// absent. Malformed lines are skipped with a warning; they never abort the
// load.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	led := &Ledger{
		path:    path,
		logger:  logger,
		entries: make(map[Key]Entry),
	}
	if err := led.load(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	led.file = file
	return led, nil
}

func (l *Ledger) load() error {
	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open ledger %s: %w", l.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			l.skipped++
			l.logger.Warn("skipping malformed ledger record",
				"path", l.path, "line", lineNum, "error", err)
			continue
		}
		if entry.ProgramTitle == "" && entry.FirstRun == "" {
			l.skipped++
			l.logger.Warn("skipping ledger record without dedup key",
				"path", l.path, "line", lineNum)
			continue
		}
		l.entries[entry.Key()] = entry
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ledger %s: %w", l.path, err)
	}
	return nil
}

// Contains reports whether a download with this dedup key was previously
// committed.
func (l *Ledger) Contains(key Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[key]
	return ok
}

// Append durably persists one completed download. Appending a key that is
// already present is a no-op, so re-running never double-records. The write
// is a single line followed by a sync: a crash mid-append can truncate only
// the record being written, never previously committed ones.
func (l *Ledger) Append(entry Entry) error {
	key := entry.Key()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[key]; ok {
		return nil
	}

	record, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode ledger record: %w", err)
	}
	record = append(record, '\n')
	if _, err := l.file.Write(record); err != nil {
		return fmt.Errorf("append ledger record: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync ledger: %w", err)
	}
	l.entries[key] = entry
	return nil
}

// Len returns the number of committed entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// SkippedRecords returns how many malformed lines the load pass ignored.
func (l *Ledger) SkippedRecords() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skipped
}

// Path returns the on-disk location backing the ledger.
func (l *Ledger) Path() string {
	return l.path
}

// Close releases the append file handle.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
