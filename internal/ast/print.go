package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of the program: classes, functions,
// then the main block. A class is printed once, with the classes, not
// where it appears in the main block.
func Fprint(w io.Writer, p *Program) error {
	pr := &printer{w: w}
	for _, c := range p.Classes {
		pr.class(c)
	}
	for _, f := range p.Functions {
		pr.block(f, 0)
	}
	for _, in := range p.Main.Body {
		pr.instruction(in, 0)
	}
	return pr.err
}

// Sprint renders the outline as a string
func Sprint(p *Program) string {
	var b strings.Builder
	_ = Fprint(&b, p)
	return b.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *printer) class(c *ClassDecl) {
	p.line(0, "%s", c)
	for _, f := range c.StaticFields {
		p.line(1, "%s", f)
	}
	for _, f := range c.Fields {
		p.line(1, "%s", f)
	}
	for _, list := range [][]*ClassMethodBlock{c.Constructors, c.StaticMethods, c.Methods} {
		for _, m := range list {
			p.block(m, 1)
		}
	}
}

func (p *printer) instruction(in Instruction, depth int) {
	switch n := in.(type) {
	case *ClassDecl:
	case *ConditionalBlock:
		for c := n; c != nil; c = c.Else {
			p.block(c, depth)
		}
	case Block:
		p.block(n, depth)
	default:
		p.line(depth, "%s", in)
	}
}

func (p *printer) block(b Block, depth int) {
	base := b.Base()
	if base.Braced {
		p.line(depth, "%s {", b)
	} else {
		p.line(depth, "%s", b)
	}
	for _, in := range base.Body {
		p.instruction(in, depth+1)
	}
	if base.Braced {
		p.line(depth, "}")
	}
}
