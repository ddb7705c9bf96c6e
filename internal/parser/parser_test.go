package parser

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leekwars/leekc/internal/ast"
	"github.com/leekwars/leekc/internal/diagnostic"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/source"
	"github.com/leekwars/leekc/internal/types"
)

func compile(t *testing.T, input string, version int, opts ...func(*Options)) *Result {
	t.Helper()
	o := Options{Version: version}
	for _, opt := range opts {
		opt(&o)
	}
	res, err := Compile(context.Background(), source.NewUnit("ai", "ai.leek", input, version), o)
	require.NoError(t, err)
	return res
}

func compileOK(t *testing.T, input string, version int) *ast.Program {
	t.Helper()
	res := compile(t, input, version)
	require.NoError(t, res.Err)
	require.Empty(t, res.Diagnostics, "unexpected diagnostics for %q", input)
	require.True(t, res.Success)
	return res.Program
}

func codes(ds []diagnostic.Diagnostic) []cerrors.Code {
	var out []cerrors.Code
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

// recordingSink checks the block and declaration protocol while recording it
type recordingSink struct {
	t      *testing.T
	stack  []ast.ScopeID
	opened int
	live   map[*Declaration]bool
	added  []*Declaration
}

func newRecordingSink(t *testing.T) *recordingSink {
	return &recordingSink{t: t, live: make(map[*Declaration]bool)}
}

func (r *recordingSink) AddDeclaration(d *Declaration) {
	r.added = append(r.added, d)
	r.live[d] = true
}

func (r *recordingSink) RemoveDeclaration(d *Declaration, _ position.Span) {
	assert.True(r.t, r.live[d], "%s %s removed twice or never added", d.Kind, d.Name)
	delete(r.live, d)
}

func (r *recordingSink) BlockOpened(scope ast.ScopeID, _ ast.BlockKind, _ position.Span) {
	r.opened++
	r.stack = append(r.stack, scope)
}

func (r *recordingSink) BlockClosed(scope ast.ScopeID, kind ast.BlockKind, _ position.Span) {
	if !assert.NotEmpty(r.t, r.stack, "%s closed with no open block", kind) {
		return
	}
	top := r.stack[len(r.stack)-1]
	assert.Equal(r.t, top, scope, "%s closed out of order", kind)
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *recordingSink) find(kind DeclKind, name string) *Declaration {
	for _, d := range r.added {
		if d.Kind == kind && d.Name == name {
			return d
		}
	}
	return nil
}

func TestEndToEnd(t *testing.T) {
	prog := compileOK(t, `var a = 1 + 2 * 3; a++; if (a > 5) { a = 0 } else a = 1;`, 4)

	require.Len(t, prog.Main.Body, 3)
	decl, ok := prog.Main.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name)
	assert.Equal(t, "(1 + (2 * 3))", decl.Value.String())

	stmt, ok := prog.Main.Body[1].(*ast.ExprStmt)
	require.True(t, ok)
	assert.Equal(t, "a++", stmt.X.String())

	cond, ok := prog.Main.Body[2].(*ast.ConditionalBlock)
	require.True(t, ok)
	assert.True(t, cond.Braced)
	assert.Equal(t, "(a > 5)", cond.Cond.String())
	require.NotNil(t, cond.Else)
	assert.Nil(t, cond.Else.Cond)
	assert.Len(t, cond.Else.Body, 1)
	assert.Equal(t, ast.ScopeID(1), prog.Main.Scope)
	assert.Equal(t, 2, int(cond.Scope))
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a = b ? c : d", "(a = (b ? c : d))"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"a - b - c", "((a - b) - c)"},
		{"a ** b ** c", "(a ** (b ** c))"},
		{"a && b || c", "((a && b) || c)"},
		{"a = b = c", "(a = (b = c))"},
		{"-a.b(1)[2]", "-a.b(1)[2]"},
		{"a >> 2", "(a >> 2)"},
		{"a >>>= 1", "(a >>>= 1)"},
		{"a > b", "(a > b)"},
		{"x is not null", "(x != null)"},
		{"x is y", "(x == y)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"!a && b", "(!a && b)"},
	}
	for _, tt := range tests {
		prog := compileOK(t, tt.input+";", 4)
		require.Len(t, prog.Main.Body, 1, tt.input)
		stmt, ok := prog.Main.Body[0].(*ast.ExprStmt)
		require.True(t, ok, tt.input)
		assert.Equal(t, tt.expected, stmt.X.String(), tt.input)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		literal string
		check   func(t *testing.T, x ast.Expression)
	}{
		{"12", intLit(12)},
		{"0x1F", intLit(31)},
		{"0b101", intLit(5)},
		{"1_000", intLit(1000)},
		{"1.5", func(t *testing.T, x ast.Expression) {
			r, ok := x.(*ast.RealLit)
			require.True(t, ok)
			assert.Equal(t, 1.5, r.Value)
		}},
		{"12L", func(t *testing.T, x ast.Expression) {
			b, ok := x.(*ast.BigIntegerLit)
			require.True(t, ok)
			assert.Equal(t, "12", b.Value.String())
		}},
		{"99999999999999999999", func(t *testing.T, x ast.Expression) {
			b, ok := x.(*ast.BigIntegerLit)
			require.True(t, ok)
			assert.Equal(t, "99999999999999999999", b.Value.String())
		}},
		{"9999999999999999999L", func(t *testing.T, x ast.Expression) {
			b, ok := x.(*ast.BigIntegerLit)
			require.True(t, ok)
			assert.Equal(t, "9999999999999999999", b.Value.String())
		}},
	}
	for _, tt := range tests {
		prog := compileOK(t, "var x = "+tt.literal+";", 4)
		decl := prog.Main.Body[0].(*ast.VarDecl)
		tt.check(t, decl.Value)
	}

	res := compile(t, "var x = 1__0; var y = 12abc;", 4)
	assert.Equal(t, []cerrors.Code{cerrors.MultipleNumericSeparators, cerrors.InvalidNumber}, codes(res.Diagnostics))
	require.NotNil(t, res.Program)
	x := res.Program.Main.Body[0].(*ast.VarDecl).Value.(*ast.IntegerLit)
	assert.Equal(t, int64(10), x.Value)
	y := res.Program.Main.Body[1].(*ast.VarDecl).Value.(*ast.IntegerLit)
	assert.Equal(t, int64(0), y.Value)
}

func intLit(v int64) func(*testing.T, ast.Expression) {
	return func(t *testing.T, x ast.Expression) {
		lit, ok := x.(*ast.IntegerLit)
		require.True(t, ok, "got %T", x)
		assert.Equal(t, v, lit.Value)
	}
}

func TestConstants(t *testing.T) {
	prog := compileOK(t, "var a = ∞; var b = π;", 4)
	a := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.RealLit)
	assert.True(t, math.IsInf(a.Value, 1))
	b := prog.Main.Body[1].(*ast.VarDecl).Value.(*ast.RealLit)
	assert.Equal(t, math.Pi, b.Value)
}

func TestLambdas(t *testing.T) {
	prog := compileOK(t, `var f = x => x * 2; var g = (a, b) => a + b; var h = () => 1; var k = integer n => { return n };`, 4)

	require.Len(t, prog.AnonymousFunctions, 4)
	assert.Equal(t, 4, prog.Stats.Lambdas)

	names := func(b *ast.AnonymousFunctionBlock) []string {
		var out []string
		for _, p := range b.Params {
			out = append(out, p.Name)
		}
		return out
	}
	f := prog.AnonymousFunctions[0]
	assert.True(t, f.Arrow)
	assert.Equal(t, []string{"x"}, names(f))
	require.NotNil(t, f.Expr)
	assert.Equal(t, "(x * 2)", f.Expr.String())
	require.Len(t, f.Body, 1)
	assert.IsType(t, &ast.Return{}, f.Body[0])

	assert.Equal(t, []string{"a", "b"}, names(prog.AnonymousFunctions[1]))
	assert.Empty(t, prog.AnonymousFunctions[2].Params)

	k := prog.AnonymousFunctions[3]
	assert.True(t, k.Braced)
	require.Len(t, k.Params, 1)
	assert.True(t, types.Equal(types.Integer, k.Params[0].Type))

	for i, fn := range prog.AnonymousFunctions {
		assert.Equal(t, i, fn.ID)
	}
	lit, ok := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.FunctionLit)
	require.True(t, ok)
	assert.Same(t, f, lit.Block)
}

func TestParenthesizedIsNotLambda(t *testing.T) {
	prog := compileOK(t, `var f = (x + 1);`, 4)
	assert.Empty(t, prog.AnonymousFunctions)
	assert.Zero(t, prog.Stats.Lambdas)
	paren, ok := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.Paren)
	require.True(t, ok)
	assert.Equal(t, "(x + 1)", paren.Inner.String())
}

func TestAnonymousFunction(t *testing.T) {
	prog := compileOK(t, `var f = function(a, b) { return a + b };`, 4)
	require.Len(t, prog.AnonymousFunctions, 1)
	fn := prog.AnonymousFunctions[0]
	assert.False(t, fn.Arrow)
	assert.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
	ret := fn.Body[0].(*ast.Return)
	assert.Equal(t, "(a + b)", ret.Value.String())
}

func TestDeclaredTypes(t *testing.T) {
	prog := compileOK(t, `integer a = 1; Array<integer> b = []; Map<string, real> m = [:]; integer? c = null; integer | string d = 1;`, 4)
	expected := []*types.Type{
		types.Integer,
		types.ArrayOf(types.Integer),
		types.MapOf(types.String, types.Real),
		types.Optional(types.Integer),
		types.Union(types.Integer, types.String),
	}
	require.Len(t, prog.Main.Body, len(expected))
	for i, want := range expected {
		decl := prog.Main.Body[i].(*ast.VarDecl)
		assert.True(t, types.Equal(want, decl.Type), "%s: got %s, want %s", decl.Name, decl.Type, want)
	}
	assert.IsType(t, &ast.ArrayLit{}, prog.Main.Body[1].(*ast.VarDecl).Value)
	assert.IsType(t, &ast.MapLit{}, prog.Main.Body[2].(*ast.VarDecl).Value)
}

func TestContainers(t *testing.T) {
	prog := compileOK(t, `var a = [1, 2, 3]; var m = [1: "a", 2: "b"]; var s = <1, 2>; var i = [1..10]; var o = {x: 1, y: 2}; var j = ]1..5[;`, 4)

	arr := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.ArrayLit)
	assert.Len(t, arr.Values, 3)
	assert.False(t, arr.Legacy)

	m := prog.Main.Body[1].(*ast.VarDecl).Value.(*ast.MapLit)
	assert.Len(t, m.Keys, 2)
	assert.Len(t, m.Values, 2)

	set := prog.Main.Body[2].(*ast.VarDecl).Value.(*ast.SetLit)
	assert.Len(t, set.Values, 2)

	in := prog.Main.Body[3].(*ast.VarDecl).Value.(*ast.IntervalLit)
	assert.Equal(t, "1", in.From.String())
	assert.Equal(t, "10", in.To.String())
	assert.False(t, in.OpenStart)
	assert.False(t, in.OpenEnd)

	obj := prog.Main.Body[4].(*ast.VarDecl).Value.(*ast.ObjectLit)
	assert.Equal(t, []string{"x", "y"}, obj.Keys)

	open := prog.Main.Body[5].(*ast.VarDecl).Value.(*ast.IntervalLit)
	assert.True(t, open.OpenStart)
	assert.True(t, open.OpenEnd)
}

func TestVersionGating(t *testing.T) {
	legacy := compileOK(t, `var m = [1: 2];`, 3)
	arr, ok := legacy.Main.Body[0].(*ast.VarDecl).Value.(*ast.ArrayLit)
	require.True(t, ok)
	assert.True(t, arr.Legacy)
	assert.Len(t, arr.Keys, 1)

	prog := compileOK(t, `var b = a!;`, 4)
	u := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.Unary)
	assert.Equal(t, ast.OpNonNull, u.Op)

	res := compile(t, `var b = a!;`, 3)
	assert.Contains(t, codes(res.Diagnostics), cerrors.UncompleteExpression)

	prog = compileOK(t, `var s = a[1:2:3];`, 4)
	ix := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.Index)
	assert.True(t, ix.Slice)
	assert.Equal(t, "3", ix.Stride.String())

	res = compile(t, `var s = a[1:2];`, 3)
	assert.Nil(t, res.Program)
	assert.True(t, cerrors.HasCode(res.Err, cerrors.ClosingSquareBracketExpected))
}

func TestDanglingElse(t *testing.T) {
	prog := compileOK(t, `if (a) if (b) x = 1; else x = 2;`, 4)
	require.Len(t, prog.Main.Body, 1)
	outer := prog.Main.Body[0].(*ast.ConditionalBlock)
	assert.Nil(t, outer.Else, "else must bind to the inner if")
	require.Len(t, outer.Body, 1)
	inner := outer.Body[0].(*ast.ConditionalBlock)
	require.NotNil(t, inner.Else)
	assert.Len(t, inner.Else.Body, 1)
}

func TestBlockBalance(t *testing.T) {
	input := `
global g = 0;
function f(a, b) {
	for (var i = 0; i < a; i++) { g += i }
	for (var k : var v in [1, 2]) { b = k }
	for (x in [3]) g++;
	while (a > 0) a--;
	do { a++ } while (a < 3);
	var h = x => x * 2;
	return h(b);
}
class C { m() { if (true) return 1; else return 2; } }
`
	sink := newRecordingSink(t)
	res := compile(t, input, 4, func(o *Options) { o.Sink = sink })
	require.NoError(t, res.Err)
	assert.Empty(t, res.Diagnostics)

	assert.Empty(t, sink.stack, "every opened block must be closed")
	assert.Greater(t, sink.opened, 8)
	for d := range sink.live {
		switch d.Kind {
		case DeclVariable, DeclParameter:
			t.Errorf("%s %s still declared after its block closed", d.Kind, d.Name)
		}
	}

	assert.NotNil(t, sink.find(DeclGlobal, "g"))
	fn := sink.find(DeclFunction, "f")
	require.NotNil(t, fn)
	assert.Len(t, fn.Params, 2)
	assert.NotNil(t, sink.find(DeclMethod, "m"))
	this := sink.find(DeclThis, "this")
	require.NotNil(t, this)
	assert.Equal(t, "C", this.Class)

	require.NotNil(t, res.Program.Function("f"))
	assert.Equal(t, 1, res.Program.Stats.Functions)
	assert.Equal(t, 1, res.Program.Stats.Classes)
}

func TestClasses(t *testing.T) {
	input := `
class A {
	x = 1
	constructor(a) { this.x = a }
	m() { return 1 }
}
class B extends A {
	private static integer y
	constructor() { super() }
}
`
	prog := compileOK(t, input, 4)
	a := prog.Class("A")
	require.NotNil(t, a)
	assert.True(t, a.HasField("x"))
	assert.True(t, a.HasMethod("m", 0, false))
	assert.True(t, a.HasMethod("constructor", 1, true))

	b := prog.Class("B")
	require.NotNil(t, b)
	assert.Equal(t, "A", b.Parent)
	assert.True(t, b.HasField("y"))
}

func TestClassErrors(t *testing.T) {
	res := compile(t, `class A { m() { return super } }`, 4)
	assert.Equal(t, []cerrors.Code{cerrors.SuperNotAvailableParent}, codes(res.Diagnostics))

	res = compile(t, `var s = super;`, 4)
	assert.Equal(t, []cerrors.Code{cerrors.KeywordMustBeInClass}, codes(res.Diagnostics))

	res = compile(t, `class A { constructor() {} constructor() {} }`, 4)
	assert.Nil(t, res.Program)
	assert.True(t, cerrors.HasCode(res.Err, cerrors.ConstructorAlreadyExists))
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		input string
		codes []cerrors.Code
	}{
		{"break;", []cerrors.Code{cerrors.BreakOutOfLoop}},
		{"continue;", []cerrors.Code{cerrors.ContinueOutOfLoop}},
		{"}", []cerrors.Code{cerrors.NoBlocToClose}},
		{"1 = 2;", []cerrors.Code{cerrors.CantAssignValue}},
		{"var a = 1 +;", []cerrors.Code{cerrors.UncompleteExpression}},
		{"while (true) { break; continue; }", nil},
	}
	for _, tt := range tests {
		res := compile(t, tt.input, 4)
		require.NoError(t, res.Err, tt.input)
		assert.Equal(t, tt.codes, codes(res.Diagnostics), tt.input)
		assert.Equal(t, len(tt.codes) == 0, res.Success, tt.input)
	}
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		input string
		code  cerrors.Code
	}{
		{"if (a) {", cerrors.OpenBlocRemaining},
		{"else a = 1;", cerrors.NoIfBlock},
		{"do a++; a = 1;", cerrors.WhileExpectedAfterDo},
		{"var 1 = 2;", cerrors.VarNameExpected},
		{"function f() { global x; }", cerrors.GlobalOnlyInMainBlock},
		{"var a = (1 + 2;", cerrors.ClosingParenthesisExpected},
		{"var a = (1 + 2", cerrors.ClosingParenthesisExpected},
	}
	for _, tt := range tests {
		res := compile(t, tt.input, 4)
		assert.Nil(t, res.Program, tt.input)
		assert.False(t, res.Success, tt.input)
		assert.True(t, cerrors.HasCode(res.Err, tt.code), "%s: got %v", tt.input, res.Err)
		require.NotEmpty(t, res.Diagnostics, tt.input)
		assert.Equal(t, tt.code, res.Diagnostics[len(res.Diagnostics)-1].Code, tt.input)
	}
}

func TestIncludes(t *testing.T) {
	lib := source.NewUnit("lib", "lib.leek", "global g = 1; function helper(x) { return x }", 4)
	resolver := source.MapResolver{"lib": lib}
	res := compile(t, `include("lib"); var y = helper(g);`, 4, func(o *Options) { o.Resolver = resolver })
	require.NoError(t, res.Err)
	require.Empty(t, res.Diagnostics)

	prog := res.Program
	assert.Equal(t, []string{"lib.leek"}, prog.Includes)
	assert.NotNil(t, prog.Function("helper"))
	require.Len(t, prog.Globals, 1)

	inc := prog.Main.Body[0].(*ast.Include)
	assert.Equal(t, "lib.leek", inc.Resolved)

	var decl *ast.VarDecl
	for _, in := range prog.Main.Body {
		if d, ok := in.(*ast.VarDecl); ok {
			decl = d
		}
	}
	require.NotNil(t, decl)
	call := decl.Value.(*ast.Call)
	assert.Equal(t, ast.VarFunction, call.Callee.(*ast.Variable).Kind)
	assert.Equal(t, ast.VarGlobal, call.Args[0].(*ast.Variable).Kind)

	res = compile(t, `include("missing");`, 4, func(o *Options) { o.Resolver = resolver })
	assert.Equal(t, []cerrors.Code{cerrors.AINotExisting}, codes(res.Diagnostics))
}

func TestForwardReferences(t *testing.T) {
	prog := compileOK(t, `var r = later(1); function later(a) { return a }`, 4)
	call := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.Call)
	assert.Equal(t, ast.VarFunction, call.Callee.(*ast.Variable).Kind)

	prog = compileOK(t, `var c = new Later(); class Later {}`, 4)
	u := prog.Main.Body[0].(*ast.VarDecl).Value.(*ast.Unary)
	assert.Equal(t, ast.OpNew, u.Op)
	call = u.Operand.(*ast.Call)
	assert.Equal(t, ast.VarClass, call.Callee.(*ast.Variable).Kind)
}

func TestInvalidExpressionContinues(t *testing.T) {
	res := compile(t, `var a = 1 +; var b = 2;`, 4)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Program)
	assert.False(t, res.Success)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diagnostic.LevelError, res.Diagnostics[0].Level)
	assert.Equal(t, cerrors.UncompleteExpression, res.Diagnostics[0].Code)

	body := res.Program.Main.Body
	require.Len(t, body, 2)
	assert.IsType(t, &ast.NullLit{}, body[0].(*ast.VarDecl).Value)
	assert.Equal(t, "b", body[1].(*ast.VarDecl).Name)
}

func TestErrorCap(t *testing.T) {
	res := compile(t, "break; break; break; break; break;", 4, func(o *Options) { o.MaxErrors = 2 })
	assert.Nil(t, res.Program)
	assert.True(t, cerrors.HasCode(res.Err, cerrors.TooMuchErrors))
	assert.Equal(t, []cerrors.Code{
		cerrors.BreakOutOfLoop, cerrors.BreakOutOfLoop, cerrors.BreakOutOfLoop, cerrors.TooMuchErrors,
	}, codes(res.Diagnostics))
}

func TestTimeout(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := compile(t, "var a = 1;", 4, func(o *Options) {
		o.Clock = func() time.Time { return now }
		o.Deadline = now.Add(-time.Second)
	})
	assert.Nil(t, res.Program)
	assert.True(t, cerrors.HasCode(res.Err, cerrors.AITimeout))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := Compile(ctx, source.NewUnit("ai", "ai.leek", "var a = 1;", 4), Options{})
	require.NoError(t, err)
	assert.True(t, cerrors.HasCode(r.Err, cerrors.AITimeout))
}

// cancelSink cancels the compile once the declaration named at is seen
type cancelSink struct {
	NopSink
	at     string
	cancel context.CancelFunc
	names  []string
}

func (s *cancelSink) AddDeclaration(d *Declaration) {
	s.names = append(s.names, d.Name)
	if d.Name == s.at {
		s.cancel()
	}
}

func TestDeclaratorListInterrupted(t *testing.T) {
	for _, input := range []string{"var a = 1, b = 2, c = 3, d = 4;", "global a = 1, b = 2, c = 3, d = 4;"} {
		ctx, cancel := context.WithCancel(context.Background())
		sink := &cancelSink{at: "b", cancel: cancel}
		res, err := Compile(ctx, source.NewUnit("ai", "ai.leek", input, 4), Options{Sink: sink})
		require.NoError(t, err)
		assert.True(t, cerrors.HasCode(res.Err, cerrors.AITimeout), input)
		assert.Equal(t, []string{"a", "b"}, sink.names, input)
	}
}

func TestDeterminism(t *testing.T) {
	input := `global g = [1, 2]; function f(x) { return x ?? g } var l = a => f(a) + 1; class K { k = 2 }`
	first := compile(t, input, 4)
	second := compile(t, input, 4)
	require.NoError(t, first.Err)
	if diff := cmp.Diff(ast.Sprint(first.Program), ast.Sprint(second.Program)); diff != "" {
		t.Errorf("outline differs between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(codes(first.Diagnostics), codes(second.Diagnostics)); diff != "" {
		t.Errorf("diagnostics differ between runs (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Program.Stats, second.Program.Stats)
}

func TestInvalidVersion(t *testing.T) {
	_, err := Compile(context.Background(), source.NewUnit("ai", "ai.leek", "", 4), Options{Version: 99})
	assert.Error(t, err)
}
