package diagnostic

import (
	"strings"
	"testing"
	"time"

	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/position"
)

func span(line, col int) position.Span {
	p := position.Position{Filename: "ai", Line: line, Column: col, Offset: col - 1}
	return position.Span{Start: p, End: p}
}

func TestCollectorLevels(t *testing.T) {
	c := NewCollector()
	if err := c.Warning(cerrors.ReferenceDeprecated, span(1, 5), "@"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Success() {
		t.Fatalf("warnings must not fail the compile")
	}
	if err := c.Error(cerrors.BreakOutOfLoop, span(2, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Success() || !c.HasErrors() {
		t.Fatalf("expected failure after an error diagnostic")
	}
	d := c.Diagnostics()
	if len(d) != 2 || d[0].Level != LevelWarning || d[1].Level != LevelError {
		t.Fatalf("unexpected diagnostics %#v", d)
	}
	if got := d[0].String(); got != "ai:1:5: warning REFERENCE_DEPRECATED (@)" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := d[1].String(); !strings.HasPrefix(got, "ai:2:1: error BREAK_OUT_OF_LOOP") {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestCollectorCap(t *testing.T) {
	c := NewCollector(WithMaxErrors(3))
	for i := 0; i < 3; i++ {
		if err := c.Error(cerrors.ValueExpected, span(1, i+1)); err != nil {
			t.Fatalf("cap reached too early at %d", i)
		}
	}
	err := c.Error(cerrors.ValueExpected, span(1, 9))
	if !cerrors.HasCode(err, cerrors.TooMuchErrors) || !cerrors.IsFatal(err) {
		t.Fatalf("expected fatal TOO_MUCH_ERRORS, got %v", err)
	}
}

func TestCollectorDeadline(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCollector(WithDeadline(now.Add(time.Second)), WithClock(func() time.Time { return now }))
	if err := c.CheckDeadline(span(1, 1)); err != nil {
		t.Fatalf("deadline not reached yet: %v", err)
	}
	now = now.Add(2 * time.Second)
	if err := c.CheckDeadline(span(1, 1)); !cerrors.HasCode(err, cerrors.AITimeout) {
		t.Fatalf("expected AI_TIMEOUT, got %v", err)
	}
	if err := NewCollector().CheckDeadline(span(1, 1)); err != nil {
		t.Fatalf("no deadline means no timeout, got %v", err)
	}
}

func TestReportAndAbort(t *testing.T) {
	c := NewCollector()
	if err := c.Report(cerrors.Recoverable(cerrors.InvalidNumber, span(1, 1), "1x")); err != nil {
		t.Fatalf("recoverable errors are reported, got %v", err)
	}
	if !c.HasErrors() {
		t.Fatalf("a reported error is an error diagnostic")
	}
	fatal := cerrors.Fatal(cerrors.NoIfBlock, span(2, 1))
	if err := c.Report(fatal); err != fatal {
		t.Fatalf("fatal errors must pass through")
	}
	c.Abort(fatal)
	d := c.Diagnostics()
	if len(d) != 2 || d[1].Code != cerrors.NoIfBlock || c.Success() {
		t.Fatalf("unexpected diagnostics %#v", d)
	}
}
