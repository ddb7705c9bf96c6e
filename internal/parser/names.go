package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/types"
	"github.com/leekwars/leekc/internal/version"
)

// reservedWords cannot name variables, functions or members once keywords
// are strict
var reservedWords = map[string]bool{
	"abstract": true, "await": true, "byte": true, "case": true, "catch": true,
	"char": true, "const": true, "default": true, "delete": true, "double": true,
	"enum": true, "eval": true, "export": true, "final": true, "finally": true,
	"float": true, "goto": true, "implements": true, "import": true, "interface": true,
	"let": true, "long": true, "native": true, "package": true, "private": true,
	"protected": true, "public": true, "short": true, "static": true, "switch": true,
	"synchronized": true, "throw": true, "throws": true, "transient": true, "try": true,
	"typeof": true, "void": true, "volatile": true, "with": true, "yield": true,
}

// reserved reports whether name is unusable as an identifier
func (s *session) reserved(name string) bool {
	return s.lang.Has(version.StrictKeywords) && reservedWords[name]
}

// globalAvailable reports whether a new global may take name
func (s *session) globalAvailable(name string) bool {
	return !s.reserved(name) && !s.globals[name]
}

// functionAvailable reports whether a new user function may take name
func (s *session) functionAvailable(name string) bool {
	if s.reserved(name) || s.globals[name] {
		return false
	}
	_, taken := s.functions[name]
	return !taken
}

// lookup resolves an identifier: locals of the enclosing function first,
// then globals, user functions and classes
func (p *Parser) lookup(name string) ast.VarKind {
	for b := p.current; b != nil; b = b.Base().Parent {
		if b.Base().Declares(name) {
			return ast.VarLocal
		}
		if ast.IsFunctionBoundary(b) {
			break
		}
	}
	switch {
	case p.s.globals[name]:
		return ast.VarGlobal
	case p.hasFunction(name):
		return ast.VarFunction
	case p.s.classes[name] != nil:
		return ast.VarClass
	}
	return ast.VarLocal
}

func (p *Parser) hasFunction(name string) bool {
	_, ok := p.s.functions[name]
	return ok
}

// declare records a variable-like binding in b and reports it. The sink
// sees it withdrawn when b closes.
func (p *Parser) declare(b ast.Block, d *Declaration) {
	base := b.Base()
	base.Variables = append(base.Variables, d.Name)
	d.Scope = base.Scope
	p.s.decls[b] = append(p.s.decls[b], d)
	p.s.sink.AddDeclaration(d)
}

func (p *Parser) declareLocal(b ast.Block, kind DeclKind, name string, t *types.Type, span position.Span) {
	p.declare(b, &Declaration{Kind: kind, Name: name, Type: t, Span: span})
}
