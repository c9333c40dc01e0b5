package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one audit-log record for a generation.
type Event struct {
	Timestamp string `json:"ts"`
	RequestID string `json:"request_id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Genre     string `json:"genre"`
	Provider  string `json:"provider,omitempty"`
	Status    string `json:"status"`
	Names     int    `json:"names"`
	Error     string `json:"error,omitempty"`
}

// Logger writes JSONL audit records. A Logger with an empty path is disabled.
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

func (l *Logger) Enabled() bool {
	return l != nil && l.path != ""
}

// Write appends ev, stamping the time when it is empty.
func (l *Logger) Write(ev Event) error {
	if !l.Enabled() {
		return nil
	}
	if ev.Timestamp == "" {
		ev.Timestamp = l.now().UTC().Format(time.RFC3339Nano)
	}
	b, mErr := json.Marshal(ev)
	if mErr != nil {
		return fmt.Errorf("audit marshal: %w", mErr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if mkErr := os.MkdirAll(filepath.Dir(l.path), 0o755); mkErr != nil {
		return fmt.Errorf("audit mkdir: %w", mkErr)
	}
	f, openErr := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return fmt.Errorf("audit open: %w", openErr)
	}
	defer func() { _ = f.Close() }()

	if _, wErr := f.Write(append(b, '\n')); wErr != nil {
		return fmt.Errorf("audit write: %w", wErr)
	}
	return nil
}
