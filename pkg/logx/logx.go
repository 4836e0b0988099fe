// Package logx provides structured, agent-scoped logging for the pipeline.
package logx

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Level identifies the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger writes leveled, agent-prefixed log lines.
type Logger struct {
	agentID string
	logger  *log.Logger
}

// Entry is a single structured log record kept in the in-memory tail.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	AgentID   string    `json:"agent_id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// tailBuffer keeps the most recent log entries so the CLI can show what
// happened last when a run aborts.
type tailBuffer struct {
	entries []Entry
	mu      sync.Mutex
	maxSize int
}

//nolint:gochecknoglobals // process-wide log tail, mirrors stderr output
var (
	tail = &tailBuffer{maxSize: 500}

	debugEnabled = os.Getenv("DEVCREW_DEBUG") != ""
)

func (b *tailBuffer) add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
	if len(b.entries) > b.maxSize {
		b.entries = b.entries[len(b.entries)-b.maxSize:]
	}
}

func (b *tailBuffer) recent(n int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]Entry, n)
	copy(out, b.entries[len(b.entries)-n:])
	return out
}

// RecentEntries returns up to n of the most recent log entries, oldest first.
func RecentEntries(n int) []Entry {
	return tail.recent(n)
}

// NewLogger creates a logger scoped to the given agent ID.
func NewLogger(agentID string) *Logger {
	return &Logger{
		agentID: agentID,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
	}
}

// AgentID returns the agent ID this logger is scoped to.
func (l *Logger) AgentID() string {
	return l.agentID
}

// WithAgentID returns a new logger with a different agent ID.
func (l *Logger) WithAgentID(agentID string) *Logger {
	return NewLogger(agentID)
}

func (l *Logger) log(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s: %s", l.agentID, level, msg)
	tail.add(Entry{
		Timestamp: time.Now().UTC(),
		AgentID:   l.agentID,
		Level:     string(level),
		Message:   msg,
	})
}

// Debug logs a debug message. Suppressed unless DEVCREW_DEBUG is set.
func (l *Logger) Debug(format string, args ...any) {
	if !debugEnabled {
		return
	}
	l.log(LevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Errorf logs an error message and returns it as an error value.
func (l *Logger) Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	l.log(LevelError, "%s", err.Error())
	return err
}
