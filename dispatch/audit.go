package dispatch

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// auditDropped reports an audit line that could not be written. Dispatch
// keeps going; losing an audit line must never block the queue.
func auditDropped(err error) {
	logrus.Warnf("audit line dropped: %v", err)
}

// AuditSink receives one line per queue event (ENQUEUE / POP). The line
// format is a stable contract for downstream tooling; sinks append lines
// verbatim and never rewrite history.
type AuditSink interface {
	Append(line string) error
	Close() error
}

// NopSink discards audit lines. Used by the simulator, which must not
// perform I/O inside its event loop.
type NopSink struct{}

func (NopSink) Append(string) error { return nil }
func (NopSink) Close() error        { return nil }

// FileSink appends audit lines to a file, buffered. Opened once at startup
// and closed (flushing the buffer) at shutdown.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// NewFileSink opens (or creates) the audit log at path in append mode.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	return &FileSink{file: f, w: bufio.NewWriter(f)}, nil
}

func (s *FileSink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append audit line: %w", err)
	}
	return nil
}

// Close flushes buffered lines and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

// MemorySink collects audit lines in memory. Test helper.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

func (s *MemorySink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Lines returns a copy of the collected lines.
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}
