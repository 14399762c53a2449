// Package diag carries verifier diagnostics from the point of discovery to
// whoever is listening.
//
// Diagnostics are a write-only side channel: emitters never read them back
// to make control decisions. Every Sink must be safe for concurrent use,
// since isolated regions are verified in parallel.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/irverify/internal/ir"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
	SeverityRemark
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	case SeverityRemark:
		return "remark"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "note":
		return SeverityNote, nil
	case "remark":
		return SeverityRemark, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// Note is secondary information attached to a diagnostic.
type Note struct {
	Loc     ir.Location
	Message string
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Loc      ir.Location
	Severity Severity
	Code     string
	Message  string
	Notes    []Note
}

// Errorf builds an error diagnostic.
func Errorf(loc ir.Location, code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Loc:      loc,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}

// AttachNote returns a copy of d with one more note.
func (d Diagnostic) AttachNote(loc ir.Location, message string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Loc: loc, Message: message})
	return d
}

// String renders the diagnostic the way compilers print them:
//
//	file:1:2: error: message
//	  file:3:4: note: detail
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", d.Loc, d.Severity, d.Message)
	for _, n := range d.Notes {
		fmt.Fprintf(&sb, "\n  %s: note: %s", n.Loc, n.Message)
	}
	return sb.String()
}

// Sink receives diagnostics.
type Sink interface {
	Emit(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

// Emit calls f(d).
func (f SinkFunc) Emit(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Collector keeps every diagnostic in emission order.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Emit records d.
func (c *Collector) Emit(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a snapshot of everything collected so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diags...)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// ErrorCount returns the number of error-severity diagnostics.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Reset drops everything collected.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = nil
}

// Tee forwards every diagnostic to each sink in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			s.Emit(d)
		}
	})
}

// SlogSink logs diagnostics as structured records.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a sink writing to logger, or slog.Default() if nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

// Emit logs d at the level matching its severity.
func (s *SlogSink) Emit(d Diagnostic) {
	attrs := []slog.Attr{
		slog.String("loc", d.Loc.String()),
		slog.String("code", d.Code),
	}
	for i, n := range d.Notes {
		attrs = append(attrs, slog.Group(fmt.Sprintf("note%d", i),
			slog.String("loc", n.Loc.String()),
			slog.String("message", n.Message),
		))
	}
	s.Logger.LogAttrs(context.Background(), levelFor(d.Severity), d.Message, attrs...)
}

func levelFor(s Severity) slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityRemark:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
