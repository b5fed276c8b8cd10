package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Entry is one answered query. Message and reply text are never recorded.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
	Source     string    `json:"source,omitempty"` // "cli", "api" or "openai"
	Kind       string    `json:"kind"`
	Handler    string    `json:"handler,omitempty"`
	MatchType  string    `json:"match_type,omitempty"`
	MatchTitle string    `json:"match_title,omitempty"`
	Score      float64   `json:"score,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Candidates int       `json:"candidates"`
	Intents    []string  `json:"intents,omitempty"`
	TokenCount int       `json:"token_count"`
	DurationUS int64     `json:"duration_us"`
}

// Logger writes JSON-line audit log entries.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	enc    *json.Encoder
}

// NewLogger creates a new audit logger writing to the given writer.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		writer: w,
		enc:    json.NewEncoder(w),
	}
}

// NewFileLogger creates a logger that writes to a file at the given path.
// Creates the file if it doesn't exist, appends if it does.
func NewFileLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return NewLogger(f), nil
}

// NewStderrLogger creates a logger that writes to stderr.
func NewStderrLogger() *Logger {
	return NewLogger(os.Stderr)
}

// Log writes a single audit entry as a JSON line.
func (l *Logger) Log(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying writer when it is a file. Stderr and
// caller-supplied writers are left open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.writer.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		return f.Close()
	}
	return nil
}

// NopLogger returns a logger that discards all entries.
func NopLogger() *Logger {
	return NewLogger(io.Discard)
}
