// Package definitions collects the user definitions visible at an editor
// cursor. Context is a parser.Sink: the parser reports every declaration
// and block boundary, and Context keeps what autocompletion at the cursor
// should offer.
package definitions

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/leekwars/leekc/internal/ast"
	"github.com/leekwars/leekc/internal/parser"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/source"
	"github.com/leekwars/leekc/internal/types"
)

// Cursor is an editor position. Line and Column are 1-based, Column in runes.
type Cursor struct {
	File   string
	Line   int
	Column int
}

// CursorFromUTF16 converts a 0-based editor line and UTF-16 character
func CursorFromUTF16(file *position.SourceFile, line, char int) Cursor {
	pos := file.PositionFromUTF16(line, char)
	return Cursor{File: file.Filename, Line: pos.Line, Column: pos.Column}
}

func (c Cursor) before(pos position.Position) bool {
	return c.Line < pos.Line || (c.Line == pos.Line && c.Column < pos.Column)
}

// Location is where a definition was written
type Location struct {
	Line       int    `json:"line"`
	Col        int    `json:"col"`
	FileName   string `json:"fileName"`
	FolderName string `json:"folderName"`
}

func locate(span position.Span) Location {
	name := span.Start.Filename
	return Location{
		Line:       span.Start.Line,
		Col:        span.Start.Column,
		FileName:   filepath.Base(name),
		FolderName: filepath.Base(filepath.Dir(name)),
	}
}

type Argument struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Function struct {
	Location
	Name       string     `json:"name"`
	ReturnType string     `json:"returnType"`
	Arguments  []Argument `json:"arguments"`
}

type Method struct {
	Location
	Name       string     `json:"name"`
	ReturnType string     `json:"returnType"`
	Arguments  []Argument `json:"arguments"`
	Static     bool       `json:"isStatic"`
	Level      string     `json:"level"`
}

type Field struct {
	Location
	Name   string `json:"name"`
	Type   string `json:"type"`
	Level  string `json:"level"`
	Static bool   `json:"isStatic"`
	Final  bool   `json:"isFinal"`
}

type Class struct {
	Location
	Name         string    `json:"name"`
	Parent       string    `json:"parentName,omitempty"`
	Fields       []*Field  `json:"fields"`
	Methods      []*Method `json:"methods"`
	Constructors []*Method `json:"constructors"`
}

// Method returns the first method named name
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Field returns the field named name
func (c *Class) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

type Variable struct {
	Location
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result is the definitions feed sent back to the editor
type Result struct {
	Classes   []*Class    `json:"classes"`
	Functions []*Function `json:"functions"`
	Globals   []*Variable `json:"globals"`
	Variables []*Variable `json:"variables"`
	// Error is the fatal compile error, if any
	Error string `json:"error,omitempty"`
}

// Variable returns the last visible variable named name
func (r *Result) Variable(name string) *Variable {
	for i := len(r.Variables) - 1; i >= 0; i-- {
		if r.Variables[i].Name == name {
			return r.Variables[i]
		}
	}
	return nil
}

// Class returns the class named name
func (r *Result) Class(name string) *Class {
	for _, c := range r.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Function returns the function named name
func (r *Result) Function(name string) *Function {
	for _, f := range r.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Context accumulates definitions for one cursor. Variables are kept only
// when declared in the cursor's file before the cursor and withdrawn when
// their block closes before the cursor.
type Context struct {
	cursor  Cursor
	result  Result
	classes map[string]*Class
	live    map[*parser.Declaration]*Variable
	depth   int
	main    ast.ScopeID
	logger  *slog.Logger
}

var _ parser.Sink = (*Context)(nil)

// New returns a Context for cursor. A nil logger discards.
func New(cursor Cursor, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{
		cursor:  cursor,
		classes: make(map[string]*Class),
		live:    make(map[*parser.Declaration]*Variable),
		logger:  logger,
	}
}

// Result returns the definitions collected so far
func (c *Context) Result() *Result {
	return &c.result
}

func (c *Context) inFile(span position.Span) bool {
	return span.Start.Filename == c.cursor.File
}

func typeName(t *types.Type) string {
	if t == nil {
		return types.Any.String()
	}
	return t.String()
}

func arguments(params []*ast.Param) []Argument {
	args := make([]Argument, 0, len(params))
	for _, p := range params {
		args = append(args, Argument{Name: p.Name, Type: typeName(p.Type)})
	}
	return args
}

// AddDeclaration implements parser.Sink
func (c *Context) AddDeclaration(d *parser.Declaration) {
	switch d.Kind {
	case parser.DeclClass:
		cl := &Class{Location: locate(d.Span), Name: d.Name, Parent: d.Parent}
		c.result.Classes = append(c.result.Classes, cl)
		c.classes[d.Name] = cl
	case parser.DeclFunction:
		c.result.Functions = append(c.result.Functions, &Function{
			Location: locate(d.Span), Name: d.Name, ReturnType: typeName(d.Return), Arguments: arguments(d.Params),
		})
	case parser.DeclGlobal:
		c.result.Globals = append(c.result.Globals, &Variable{Location: locate(d.Span), Name: d.Name, Type: typeName(d.Type)})
	case parser.DeclField:
		if cl := c.classes[d.Class]; cl != nil {
			cl.Fields = append(cl.Fields, &Field{
				Location: locate(d.Span), Name: d.Name, Type: typeName(d.Type),
				Level: d.Access.String(), Static: d.Static, Final: d.Final,
			})
		}
	case parser.DeclMethod, parser.DeclConstructor:
		cl := c.classes[d.Class]
		if cl == nil {
			return
		}
		m := &Method{
			Location: locate(d.Span), Name: d.Name, ReturnType: typeName(d.Return),
			Arguments: arguments(d.Params), Static: d.Static, Level: d.Access.String(),
		}
		if d.Kind == parser.DeclConstructor {
			cl.Constructors = append(cl.Constructors, m)
		} else {
			cl.Methods = append(cl.Methods, m)
		}
	case parser.DeclThis:
		// this is offered only while the cursor sits in the class body
		if c.inFile(d.Span) && !c.cursor.before(d.Span.Start) && c.cursor.before(d.Span.End) {
			c.result.Variables = append(c.result.Variables, &Variable{Location: locate(d.Span), Name: "this", Type: typeName(d.Type)})
		}
	case parser.DeclVariable, parser.DeclParameter:
		if !c.inFile(d.Span) || c.cursor.before(d.Span.End) {
			return
		}
		v := &Variable{Location: locate(d.Span), Name: d.Name, Type: typeName(d.Type)}
		c.result.Variables = append(c.result.Variables, v)
		c.live[d] = v
	}
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		c.logger.Debug("definition added", "kind", d.Kind.String(), "name", d.Name, "at", d.Span.String())
	}
}

// RemoveDeclaration implements parser.Sink. The variable stays when the
// cursor is still inside the closing block.
func (c *Context) RemoveDeclaration(d *parser.Declaration, closing position.Span) {
	v, ok := c.live[d]
	if !ok {
		return
	}
	delete(c.live, d)
	if d.Scope == c.main || c.cursor.before(closing.End) {
		return
	}
	for i := len(c.result.Variables) - 1; i >= 0; i-- {
		if c.result.Variables[i] == v {
			c.result.Variables = append(c.result.Variables[:i], c.result.Variables[i+1:]...)
			break
		}
	}
	c.logger.Debug("definition out of scope", "name", d.Name, "closing", closing.String())
}

// BlockOpened implements parser.Sink
func (c *Context) BlockOpened(scope ast.ScopeID, kind ast.BlockKind, _ position.Span) {
	if c.depth == 0 {
		c.main = scope
	}
	c.depth++
	c.logger.Debug("block opened", "scope", int(scope), "kind", kind.String(), "depth", c.depth)
}

// BlockClosed implements parser.Sink
func (c *Context) BlockClosed(scope ast.ScopeID, kind ast.BlockKind, _ position.Span) {
	c.depth--
	c.logger.Debug("block closed", "scope", int(scope), "kind", kind.String(), "depth", c.depth)
}

// Collect compiles unit with a Context attached and returns the definitions
// visible at cursor. A fatal compile error is reported in Result.Error.
func Collect(ctx context.Context, unit *source.Unit, cursor Cursor, opts parser.Options) (*Result, *parser.Result, error) {
	if cursor.File == "" {
		cursor.File = unit.Path
	}
	dc := New(cursor, opts.Logger)
	opts.Sink = dc
	res, err := parser.Compile(ctx, unit, opts)
	if err != nil {
		return nil, nil, err
	}
	if res.Err != nil {
		dc.result.Error = res.Err.Error()
	}
	return dc.Result(), res, nil
}
