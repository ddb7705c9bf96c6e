package ast

import (
	"fmt"

	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/types"
)

// Access is the visibility of a class member
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "public"
	}
}

// ParseAccess maps a modifier keyword to an access level
func ParseAccess(word string) (Access, bool) {
	switch word {
	case "public":
		return AccessPublic, true
	case "protected":
		return AccessProtected, true
	case "private":
		return AccessPrivate, true
	}
	return AccessPublic, false
}

// FieldDecl is an instance or static field
type FieldDecl struct {
	Span   position.Span
	Name   string
	Type   *types.Type
	Value  Expression
	Access Access
	Static bool
	Final  bool
}

func (f *FieldDecl) String() string {
	s := f.Access.String() + " "
	if f.Static {
		s += "static "
	}
	if f.Final {
		s += "final "
	}
	if f.Type != nil {
		s += f.Type.String() + " "
	}
	s += f.Name
	if f.Value != nil {
		s += " = " + f.Value.String()
	}
	return s
}

// ClassDecl is a class and its members. It is also an instruction of the
// main block, placed where the class was written.
type ClassDecl struct {
	Span          position.Span
	Name          string
	Parent        string
	Fields        []*FieldDecl
	StaticFields  []*FieldDecl
	Methods       []*ClassMethodBlock
	StaticMethods []*ClassMethodBlock
	Constructors  []*ClassMethodBlock
	// Body spans the braces
	Body position.Span
}

func (c *ClassDecl) GetSpan() position.Span { return c.Span }
func (c *ClassDecl) instructionNode()       {}
func (c *ClassDecl) String() string {
	if c.Parent != "" {
		return fmt.Sprintf("class %s extends %s", c.Name, c.Parent)
	}
	return "class " + c.Name
}

// HasMethod reports whether a method or constructor with this name and
// arity is already declared
func (c *ClassDecl) HasMethod(name string, arity int, constructor bool) bool {
	lists := [][]*ClassMethodBlock{c.Methods, c.StaticMethods}
	if constructor {
		lists = [][]*ClassMethodBlock{c.Constructors}
	}
	for _, list := range lists {
		for _, m := range list {
			if m.Name == name && len(m.Params) == arity {
				return true
			}
		}
	}
	return false
}

// HasField reports whether an instance or static field is declared
func (c *ClassDecl) HasField(name string) bool {
	for _, list := range [][]*FieldDecl{c.Fields, c.StaticFields} {
		for _, f := range list {
			if f.Name == name {
				return true
			}
		}
	}
	return false
}

// AddMethod files a method block by kind
func (c *ClassDecl) AddMethod(m *ClassMethodBlock) {
	switch {
	case m.Constructor:
		c.Constructors = append(c.Constructors, m)
	case m.Static:
		c.StaticMethods = append(c.StaticMethods, m)
	default:
		c.Methods = append(c.Methods, m)
	}
}

// AddField files a field by kind
func (c *ClassDecl) AddField(f *FieldDecl) {
	if f.Static {
		c.StaticFields = append(c.StaticFields, f)
	} else {
		c.Fields = append(c.Fields, f)
	}
}
