// Package trace provides engine.Tracer implementations for observing
// evaluation without the engine itself doing any logging I/O.
package trace

import (
	"fmt"
	"log"
	"strings"

	"github.com/dustin/go-humanize"
)

// Logger writes each trace event to an *log.Logger, one line per event.
type Logger struct {
	L *log.Logger
}

// NewLogger wraps l, or the standard logger if l is nil.
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{L: l}
}

// Trace implements engine.Tracer.
func (t *Logger) Trace(event string, fields map[string]any) {
	var b strings.Builder
	b.WriteString(event)
	for k, v := range fields {
		if n, ok := v.(int); ok {
			fmt.Fprintf(&b, " %s=%s", k, humanize.Comma(int64(n)))
			continue
		}
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	t.L.Print(b.String())
}

// Collector accumulates events in order, for tests that want to assert on
// what was traced without parsing log output.
type Collector struct {
	Events []Event
}

// Event is one recorded Trace call.
type Event struct {
	Name   string
	Fields map[string]any
}

// Trace implements engine.Tracer.
func (c *Collector) Trace(event string, fields map[string]any) {
	c.Events = append(c.Events, Event{Name: event, Fields: fields})
}
