// Package logging writes one JSON object per line, the format every component
// of the relay logs in.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type ctxKey struct{}

// WithRequestID returns a context carrying the inbound request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request ID stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New creates a logger writing to w with timestamps in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Stdout logs to standard output.
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// Nop discards everything.
func Nop() *Logger {
	return New(io.Discard, time.UTC)
}

// Info logs msg at info level, adding the request ID carried by ctx.
func (l *Logger) Info(ctx context.Context, msg string, fields map[string]any) {
	l.write(ctx, "info", msg, nil, fields)
}

// Error logs msg at error level with err in the "error" field.
func (l *Logger) Error(ctx context.Context, msg string, err error, fields map[string]any) {
	l.write(ctx, "error", msg, err, fields)
}

// Write emits an entry without context enrichment. Keys in fields win over
// the defaults except ts.
func (l *Logger) Write(fields map[string]any) {
	entry := make(map[string]any, len(fields)+2)
	entry["level"] = "info"
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	l.encode(entry)
}

func (l *Logger) write(ctx context.Context, level, msg string, err error, fields map[string]any) {
	entry := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}
	if rid := RequestID(ctx); rid != "" {
		entry["request_id"] = rid
	}
	l.encode(entry)
}

func (l *Logger) encode(entry map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
