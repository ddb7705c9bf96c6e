// Package parser implements the LeekScript two-pass parser and binder.
// The first pass registers top-level includes, globals, functions and
// classes; the second pass drives the block stack and builds the
// instruction tree, reporting declarations and scopes to an optional Sink.
package parser

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/leekwars/leekc/internal/ast"
	"github.com/leekwars/leekc/internal/diagnostic"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/source"
	"github.com/leekwars/leekc/internal/version"
)

// Options configures a compile session
type Options struct {
	// Version is the language version, zero for the unit's own version
	Version int
	// Deadline bounds the whole session including included units. When
	// zero, Timeout and then the context deadline are used.
	Deadline time.Time
	Timeout  time.Duration
	// MaxErrors caps collected diagnostics, zero for the default
	MaxErrors int
	Resolver  source.Resolver
	Sink      Sink
	Logger    *slog.Logger
	// Clock replaces time.Now, for tests
	Clock func() time.Time
}

// Result is the outcome of a compile. Program is nil when a fatal error
// aborted the session.
type Result struct {
	Program     *ast.Program
	Diagnostics []diagnostic.Diagnostic
	// Success is set when no fatal error and no error diagnostic occurred
	Success bool
	// Err is the fatal error that aborted the session
	Err     error
	Elapsed time.Duration
}

// Errors returns the error-level diagnostics
func (r *Result) Errors() []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Level == diagnostic.LevelError {
			out = append(out, d)
		}
	}
	return out
}

// Compile parses unit and every unit it includes. The returned error is
// only set for invalid options; compile failures are reported in Result.
func Compile(ctx context.Context, unit *source.Unit, opts Options) (*Result, error) {
	number := opts.Version
	if number == 0 {
		number = unit.Version
	}
	if number == 0 {
		number = version.Latest
	}
	lang, err := version.New(number)
	if err != nil {
		return nil, err
	}
	if unit.Version != number {
		unit = source.NewUnit(unit.Name, unit.Path, unit.File.Content, number)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	deadline := opts.Deadline
	if deadline.IsZero() && opts.Timeout > 0 {
		deadline = now().Add(opts.Timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	s := &session{
		ctx:       ctx,
		lang:      lang,
		diag:      diagnostic.NewCollector(diagnostic.WithMaxErrors(opts.MaxErrors), diagnostic.WithDeadline(deadline), diagnostic.WithClock(now)),
		resolver:  opts.Resolver,
		sink:      sink,
		logger:    logger,
		program:   ast.NewProgram(unit.Path),
		globals:   make(map[string]bool),
		functions: make(map[string]int),
		classes:   make(map[string]*ast.ClassDecl),
		scanned:   make(map[string]bool),
		parsed:    make(map[string]bool),
		skipped:   make(map[position.Position]bool),
		units:     make(map[string]*source.Unit),
		decls:     make(map[ast.Block][]*Declaration),
	}

	start := now()
	err = s.compile(unit)
	res := &Result{Elapsed: now().Sub(start)}
	if err != nil {
		s.diag.Abort(err)
		res.Err = err
		res.Diagnostics = s.diag.Diagnostics()
		logger.Debug("compile aborted", "unit", unit.Path, "version", lang, "err", err)
		return res, nil
	}
	res.Program = s.program
	res.Diagnostics = s.diag.Diagnostics()
	res.Success = s.diag.Success()
	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("compile done", "unit", unit.Path, "version", lang,
			"instructions", s.program.Stats.Instructions, "diagnostics", len(res.Diagnostics),
			"elapsed", res.Elapsed)
	}
	return res, nil
}

// session is the state shared by every unit of one compile
type session struct {
	ctx      context.Context
	lang     *version.Language
	diag     *diagnostic.Collector
	resolver source.Resolver
	sink     Sink
	logger   *slog.Logger
	program  *ast.Program

	// fatal is sticky once the diagnostic cap has been exceeded
	fatal error

	globals   map[string]bool
	functions map[string]int
	classes   map[string]*ast.ClassDecl
	scanned   map[string]bool
	parsed    map[string]bool
	// skipped marks function declarations rejected by the first pass
	skipped map[position.Position]bool
	units   map[string]*source.Unit
	// decls holds the variable-like declarations of each open block
	decls map[ast.Block][]*Declaration
}

func (s *session) compile(unit *source.Unit) error {
	p := s.newParser(unit)
	if err := p.scan(); err != nil {
		return err
	}

	main := s.program.Main
	s.sink.BlockOpened(main.Scope, main.Kind(), main.Span)
	s.parsed[unit.Path] = true
	if err := p.secondPass(); err != nil {
		return err
	}
	s.closeBlock(main, p.cur().Span)
	return s.fatal
}

func (s *session) newParser(unit *source.Unit) *Parser {
	return &Parser{s: s, unit: unit, tokens: unit.Stream(), current: s.program.Main}
}

// add records a diagnostic. Exceeding the cap makes the session fatal.
func (s *session) add(d diagnostic.Diagnostic) {
	if s.fatal != nil {
		return
	}
	if err := s.diag.Add(d); err != nil {
		s.fatal = err
	}
}

// report downgrades a recoverable error through the collector. A fatal
// error, or the cap it overflows, makes the session fatal.
func (s *session) report(err error) {
	if s.fatal != nil {
		return
	}
	if err := s.diag.Report(err); err != nil {
		s.fatal = err
	}
}

func (s *session) warn(code cerrors.Code, span position.Span, params ...string) {
	if s.fatal != nil {
		return
	}
	if err := s.diag.Warning(code, span, params...); err != nil {
		s.fatal = err
	}
}

// resolve finds an included unit, once per including unit and name
func (s *session) resolve(from *source.Unit, name string) (*source.Unit, error) {
	key := from.Path + "\x00" + name
	if u, ok := s.units[key]; ok {
		return u, nil
	}
	if s.resolver == nil {
		return nil, source.ErrNotFound
	}
	u, err := s.resolver.Resolve(s.ctx, from, name)
	if err != nil {
		s.logger.Debug("include not resolved", "from", from.Path, "name", name, "err", err)
		return nil, err
	}
	if u.Version != s.lang.Number() {
		u = source.NewUnit(u.Name, u.Path, u.File.Content, s.lang.Number())
	}
	s.units[key] = u
	return u, nil
}

// closeBlock withdraws the block's declarations and reports its end
func (s *session) closeBlock(b ast.Block, at position.Span) {
	base := b.Base()
	if at.End.IsValid() {
		base.Span.End = at.End
	}
	decls := s.decls[b]
	for i := len(decls) - 1; i >= 0; i-- {
		s.sink.RemoveDeclaration(decls[i], at)
	}
	delete(s.decls, b)
	s.sink.BlockClosed(base.Scope, b.Kind(), base.Span)
}

// Parser walks the tokens of one unit. Included units get their own
// Parser sharing the session.
type Parser struct {
	s       *session
	unit    *source.Unit
	tokens  *lexer.Stream
	current ast.Block
	class   *ast.ClassDecl

	// quiet counts nested speculative reads; their diagnostics are
	// buffered until the outermost one commits
	quiet    int
	buffered []diagnostic.Diagnostic
}

// mark is a backtracking point
type mark struct {
	pos   int
	diags int
}

func (p *Parser) speculate() mark {
	p.quiet++
	return mark{pos: p.tokens.Position(), diags: len(p.buffered)}
}

// rollback restores the position and drops diagnostics raised since m
func (p *Parser) rollback(m mark) {
	p.tokens.SetPosition(m.pos)
	p.buffered = p.buffered[:m.diags]
	p.release()
}

// discard keeps the position but drops diagnostics raised since m
func (p *Parser) discard(m mark) {
	p.buffered = p.buffered[:m.diags]
	p.release()
}

func (p *Parser) commit(mark) {
	p.release()
}

func (p *Parser) release() {
	p.quiet--
	if p.quiet > 0 {
		return
	}
	for _, d := range p.buffered {
		p.s.add(d)
	}
	p.buffered = p.buffered[:0]
}

// downgrade turns a recoverable error into an error diagnostic and lets
// the parse go on. Any other error is returned to unwind the compile.
func (p *Parser) downgrade(err error) error {
	if cerrors.IsFatal(err) {
		return err
	}
	if p.quiet > 0 {
		ce, _ := cerrors.AsCompileError(err)
		p.buffered = append(p.buffered, diagnostic.Diagnostic{Level: diagnostic.LevelError, Code: ce.Code, Params: ce.Params, Span: ce.Span})
		return nil
	}
	p.s.report(err)
	return nil
}

func (p *Parser) errorAt(code cerrors.Code, tok lexer.Token, params ...string) {
	p.downgrade(cerrors.Recoverable(code, tok.Span, params...))
}

func (p *Parser) warnAt(code cerrors.Code, tok lexer.Token, params ...string) {
	if p.quiet > 0 {
		p.buffered = append(p.buffered, diagnostic.Diagnostic{Level: diagnostic.LevelWarning, Code: code, Params: params, Span: tok.Span})
		return
	}
	p.s.warn(code, tok.Span, params...)
}

func fatalAt(code cerrors.Code, tok lexer.Token, params ...string) error {
	return cerrors.Fatal(code, tok.Span, params...)
}

// interrupted returns the error that must unwind the compile: the
// diagnostic cap, the deadline or a cancelled context
func (p *Parser) interrupted() error {
	if p.s.fatal != nil {
		return p.s.fatal
	}
	if err := p.s.diag.CheckDeadline(p.cur().Span); err != nil {
		return err
	}
	if p.s.ctx.Err() != nil {
		return fatalAt(cerrors.AITimeout, p.cur())
	}
	return nil
}

func (p *Parser) cur() lexer.Token { return p.tokens.Current() }

func (p *Parser) peekToken(n int) lexer.Token { return p.tokens.Peek(n) }

func (p *Parser) nextToken() { p.tokens.Skip() }

func (p *Parser) eat() lexer.Token { return p.tokens.Eat() }

func (p *Parser) more() bool { return p.tokens.HasMore() }

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

// peekTokenIs checks the token n positions ahead
func (p *Parser) peekTokenIs(n int, tt lexer.TokenType) bool {
	return p.peekToken(n).Type == tt
}

// currentIs checks for an operator token with the given literal
func (p *Parser) currentIs(op string) bool {
	return p.cur().Is(op)
}

// skipSemicolon consumes an optional statement terminator
func (p *Parser) skipSemicolon() {
	if p.currentTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
	}
}

// atCloser reports whether the cursor is on a closing delimiter or EOF.
// List loops stop there so a missing separator cannot stall them.
func (p *Parser) atCloser() bool {
	switch p.cur().Type {
	case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace, lexer.TokenEOF:
		return true
	}
	return false
}

// spanFrom joins the span of start with the last consumed token
func (p *Parser) spanFrom(start lexer.Token) position.Span {
	end := p.tokens.Previous()
	if end.Span.End.Offset < start.Span.End.Offset {
		return start.Span
	}
	return position.Span{Start: start.Span.Start, End: end.Span.End}
}

// spanTo joins start with the token under the cursor
func spanTo(start, end lexer.Token) position.Span {
	return position.Span{Start: start.Span.Start, End: end.Span.End}
}
