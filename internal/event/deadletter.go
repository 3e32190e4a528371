package event

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// DeadLetterSchemaVersion versions the line format below
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one line of the dead-letter file
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends undeliverable events as JSON lines. Lines are
// written whole under a mutex so concurrent writers never interleave.
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewDeadLetterWriter opens path for appending, creating it when absent
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("opening dead letter file: %w", err)
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write records evt after attempts failed deliveries
func (w *DeadLetterWriter) Write(evt Event, attempts int, lastErr error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         evt,
		Attempts:      attempts,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding dead letter for %s: %w", evt.Type, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return os.ErrClosed
	}
	_, err = w.file.Write(line)
	return err
}

// Close flushes and closes the file. Later calls are no-ops.
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Sync()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file = nil
	return err
}
