package reqtrace

import (
	"context"
	"sync"
)

// Log keeps the most recent request events for the in-app overlay and
// forwards each one to the OTLP exporter when that is configured.
type Log struct {
	mu        sync.RWMutex
	events    []Event // Ring buffer, oldest first
	maxEvents int
	onChange  func()
	exporter  *Exporter
}

// NewLog creates a request log holding up to maxEvents entries.
func NewLog(maxEvents int) *Log {
	if maxEvents <= 0 {
		maxEvents = 50
	}
	exporter, _ := NewExporter(context.Background())
	return &Log{
		events:    make([]Event, 0, maxEvents),
		maxEvents: maxEvents,
		exporter:  exporter,
	}
}

// Record appends a completed request event, evicting the oldest entry
// when the buffer is full.
func (l *Log) Record(event Event) {
	l.mu.Lock()
	l.events = append(l.events, event)
	if len(l.events) > l.maxEvents {
		l.events = l.events[1:]
	}
	onChange := l.onChange
	exporter := l.exporter
	l.mu.Unlock()

	if exporter != nil {
		// Batched by the SDK; errors are not actionable mid-session.
		_ = exporter.Export(context.Background(), event)
	}
	if onChange != nil {
		onChange()
	}
}

// Recent returns recorded events, newest first.
func (l *Log) Recent() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Event, 0, len(l.events))
	for i := len(l.events) - 1; i >= 0; i-- {
		result = append(result, l.events[i])
	}
	return result
}

// Len returns the number of buffered events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// SetOnChange sets the callback invoked after each Record.
func (l *Log) SetOnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Shutdown flushes pending exports. Must be called before process exit
// so batched spans reach the collector.
func (l *Log) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	exporter := l.exporter
	l.mu.Unlock()

	if exporter != nil {
		return exporter.Shutdown(ctx)
	}
	return nil
}
