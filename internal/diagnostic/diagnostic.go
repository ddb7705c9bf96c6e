// Diagnostic collection for LeekScript compiles.
// Provides leveled, coded messages plus the diagnostic cap and the
// wall-clock budget shared by every unit of one compile session.

package diagnostic

import (
	"fmt"
	"strings"
	"time"

	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/position"
)

// DefaultMaxErrors is the diagnostic cap of a session
const DefaultMaxErrors = 10000

// Level represents the severity level of a diagnostic message.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Level  Level
	Code   cerrors.Code
	Params []string
	Span   position.Span
}

// String formats the diagnostic as "file:line:col: level CODE params"
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Span.Start.IsValid() {
		b.WriteString(d.Span.Start.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Level.String())
	b.WriteString(" ")
	b.WriteString(string(d.Code))
	if len(d.Params) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(d.Params, ", "))
	}
	return b.String()
}

// Collector accumulates diagnostics for a compile session and enforces the
// diagnostic cap and deadline. It is not safe for concurrent use.
type Collector struct {
	items    []Diagnostic
	errors   int
	max      int
	deadline time.Time
	now      func() time.Time
	aborted  bool
}

// Option configures a Collector
type Option func(*Collector)

// WithMaxErrors overrides the diagnostic cap
func WithMaxErrors(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.max = n
		}
	}
}

// WithDeadline sets the wall-clock instant after which the compile aborts
func WithDeadline(t time.Time) Option {
	return func(c *Collector) { c.deadline = t }
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// NewCollector creates a collector
func NewCollector(opts ...Option) *Collector {
	c := &Collector{max: DefaultMaxErrors, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a diagnostic. Once more than the cap have been collected a
// fatal TOO_MUCH_ERRORS error is returned.
func (c *Collector) Add(d Diagnostic) error {
	c.items = append(c.items, d)
	if d.Level == LevelError {
		c.errors++
	}
	if len(c.items) > c.max {
		return cerrors.Fatal(cerrors.TooMuchErrors, d.Span)
	}
	return nil
}

// Error appends an error-level diagnostic
func (c *Collector) Error(code cerrors.Code, span position.Span, params ...string) error {
	return c.Add(Diagnostic{Level: LevelError, Code: code, Params: params, Span: span})
}

// Warning appends a warning-level diagnostic
func (c *Collector) Warning(code cerrors.Code, span position.Span, params ...string) error {
	return c.Add(Diagnostic{Level: LevelWarning, Code: code, Params: params, Span: span})
}

// Report downgrades a recoverable CompileError to an error diagnostic.
// Fatal errors are returned unchanged.
func (c *Collector) Report(err error) error {
	if err == nil {
		return nil
	}
	if !cerrors.IsRecoverable(err) {
		return err
	}
	ce, _ := cerrors.AsCompileError(err)
	return c.Error(ce.Code, ce.Span, ce.Params...)
}

// Abort records the fatal error that ended the compile
func (c *Collector) Abort(err error) {
	c.aborted = true
	if ce, ok := cerrors.AsCompileError(err); ok {
		c.items = append(c.items, Diagnostic{Level: LevelError, Code: ce.Code, Params: ce.Params, Span: ce.Span})
		c.errors++
	}
}

// CheckDeadline returns a fatal AI_TIMEOUT error once the deadline has passed
func (c *Collector) CheckDeadline(span position.Span) error {
	if c.deadline.IsZero() {
		return nil
	}
	if c.now().After(c.deadline) {
		return cerrors.Fatal(cerrors.AITimeout, span)
	}
	return nil
}

// Diagnostics returns the collected diagnostics in emission order
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// HasErrors returns true if any error-level diagnostic was collected
func (c *Collector) HasErrors() bool {
	return c.errors > 0
}

// Success reports whether the compile neither aborted nor produced errors
func (c *Collector) Success() bool {
	return !c.aborted && !c.HasErrors()
}
