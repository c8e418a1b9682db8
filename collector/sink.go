package collector

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Sink receives entries for durable storage.
type Sink interface {
	Append(entry Entry) error
}

// FileSink appends entries to a JSON-Lines file, one record per line. The
// file is created on first use and never truncated, so successive runs
// grow the same store. The receive loop is the only writer; the mutex
// keeps lines atomic should a second writer ever be added.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewFileSink opens (or creates) the output file in append mode.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}
	return &FileSink{file: file, path: path}, nil
}

// Append serializes the entry and writes it as a single line.
func (s *FileSink) Append(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return nil
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
