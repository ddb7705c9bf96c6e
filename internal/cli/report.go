package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/leekwars/leekc/internal/diagnostic"
)

// ErrCheckFailed is returned by commands whose input did not compile
var ErrCheckFailed = errors.New("check failed")

// Reporter prints diagnostics, colored when writing to a terminal. It is
// safe for concurrent use; each Report call is written as one chunk.
type Reporter struct {
	mu       sync.Mutex
	w        io.Writer
	strict   bool
	errors   int
	warnings int

	errorC   *color.Color
	warningC *color.Color
	pathC    *color.Color
}

// NewReporter writes to stdout. In strict mode warnings count as failures.
func NewReporter(strict bool) *Reporter {
	useColor := isatty.IsTerminal(os.Stdout.Fd())
	return NewReporterTo(colorable.NewColorableStdout(), strict, useColor)
}

// NewReporterTo writes to w, coloring only when useColor is set
func NewReporterTo(w io.Writer, strict, useColor bool) *Reporter {
	r := &Reporter{
		w:        w,
		strict:   strict,
		errorC:   color.New(color.FgRed, color.Bold),
		warningC: color.New(color.FgYellow),
		pathC:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.errorC, r.warningC, r.pathC} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Report prints the diagnostics of one file and returns whether the file
// passes
func (r *Reporter) Report(file string, diags []diagnostic.Diagnostic) bool {
	var b strings.Builder
	ok := true
	errs, warns := 0, 0
	for _, d := range diags {
		level := r.warningC
		if d.Level == diagnostic.LevelError {
			level = r.errorC
			errs++
			ok = false
		} else {
			warns++
			if r.strict {
				ok = false
			}
		}
		loc := file
		if d.Span.Start.IsValid() {
			loc = fmt.Sprintf("%s:%d:%d", file, d.Span.Start.Line, d.Span.Start.Column)
		}
		fmt.Fprintf(&b, "%s: %s %s", r.pathC.Sprint(loc), level.Sprint(d.Level.String()), d.Code)
		if len(d.Params) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(d.Params, ", "))
		}
		b.WriteString("\n")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors += errs
	r.warnings += warns
	io.WriteString(r.w, b.String())
	return ok
}

// Summary prints the totals and returns ErrCheckFailed when anything failed
func (r *Reporter) Summary(files int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%d file(s), %s, %s\n", files,
		r.errorC.Sprintf("%d error(s)", r.errors), r.warningC.Sprintf("%d warning(s)", r.warnings))
	if r.errors > 0 || (r.strict && r.warnings > 0) {
		return ErrCheckFailed
	}
	return nil
}
