package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// SpyLogRecord is one recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged for key, if any.
func (r SpyLogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

type logRecorder struct {
	mu          sync.Mutex
	records     []SpyLogRecord
	recordCalls bool
}

func (l *logRecorder) add(ctx context.Context, level, msg string, args []any) {
	if !l.recordCalls {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, SpyLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

// Records returns a copy of all log records.
func (l *logRecorder) Records() []SpyLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]SpyLogRecord(nil), l.records...)
}

// FindLog returns the first record at level with message.
func (l *logRecorder) FindLog(level, message string) (SpyLogRecord, bool) {
	for _, r := range l.Records() {
		if r.Level == level && r.Message == message {
			return r, true
		}
	}

	return SpyLogRecord{}, false
}

// HasInfoLog reports whether an info record with message exists.
func (l *logRecorder) HasInfoLog(message string) bool {
	_, ok := l.FindLog("info", message)
	return ok
}

// HasErrorLog reports whether an error record with message exists.
func (l *logRecorder) HasErrorLog(message string) bool {
	_, ok := l.FindLog("error", message)
	return ok
}

// GetTotalRecordCount returns the number of records across all levels.
func (l *logRecorder) GetTotalRecordCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.records)
}

// ContextualLoggerSpy captures context-aware log calls. It implements shell.ContextualLogger.
type ContextualLoggerSpy struct {
	logRecorder
}

// NewContextualLoggerSpy creates a spy. With recordCalls false every call is dropped.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{logRecorder{recordCalls: recordCalls}}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "error", msg, args)
}

// LoggerSpy captures plain log calls. It implements shell.Logger.
type LoggerSpy struct {
	logRecorder
}

// NewLoggerSpy creates a spy. With recordCalls false every call is dropped.
func NewLoggerSpy(recordCalls bool) *LoggerSpy {
	return &LoggerSpy{logRecorder{recordCalls: recordCalls}}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.add(context.Background(), "debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.add(context.Background(), "info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.add(context.Background(), "warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.add(context.Background(), "error", msg, args) }

var (
	_ shell.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ shell.Logger           = (*LoggerSpy)(nil)
)
