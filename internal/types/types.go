// Package types models LeekScript type expressions as written in source:
// primitives, parametric containers, function types, user classes and
// unions. Optional sugar and explicit unions share one normalized union
// representation, so equality does not depend on the syntax used.
package types

import (
	"sort"
	"strings"
)

// Kind identifies the variant of a Type
type Kind int

const (
	KindAny Kind = iota
	KindVoid
	KindNull
	KindBoolean
	KindInteger
	KindBigInteger
	KindReal
	KindString
	KindClass  // the Class type
	KindObject // the Object type
	KindArray
	KindSet
	KindMap
	KindFunction
	KindUserClass
	KindUnion
)

var kindNames = [...]string{
	KindAny:        "any",
	KindVoid:       "void",
	KindNull:       "null",
	KindBoolean:    "boolean",
	KindInteger:    "integer",
	KindBigInteger: "big_integer",
	KindReal:       "real",
	KindString:     "string",
	KindClass:      "Class",
	KindObject:     "Object",
	KindArray:      "Array",
	KindSet:        "Set",
	KindMap:        "Map",
	KindFunction:   "Function",
	KindUserClass:  "class",
	KindUnion:      "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type is an immutable type expression. Build values with the constructors
// below; a zero Type is any.
type Type struct {
	Kind Kind

	// Elem is the element type of arrays and sets and the value type of maps.
	// Nil means unconstrained.
	Elem *Type
	// Key is the key type of maps
	Key *Type
	// Params and Return describe function types. A Function with nil
	// Return is the unconstrained Function.
	Params []*Type
	Return *Type
	// Name of a user class
	Name string
	// Members of a union, normalized
	Members []*Type
}

// Primitive singletons
var (
	Any        = &Type{Kind: KindAny}
	Void       = &Type{Kind: KindVoid}
	Null       = &Type{Kind: KindNull}
	Boolean    = &Type{Kind: KindBoolean}
	Integer    = &Type{Kind: KindInteger}
	BigInteger = &Type{Kind: KindBigInteger}
	Real       = &Type{Kind: KindReal}
	String     = &Type{Kind: KindString}
	Class      = &Type{Kind: KindClass}
	Object     = &Type{Kind: KindObject}
	// Function is the unconstrained function type
	Function = &Type{Kind: KindFunction}
	// Array, Set and Map without type arguments
	Array = &Type{Kind: KindArray}
	Set   = &Type{Kind: KindSet}
	Map   = &Type{Kind: KindMap}
)

// Primitives maps the type keywords to their types
var Primitives = map[string]*Type{
	"void":        Void,
	"null":        Null,
	"boolean":     Boolean,
	"any":         Any,
	"integer":     Integer,
	"big_integer": BigInteger,
	"real":        Real,
	"string":      String,
	"Class":       Class,
	"Object":      Object,
	"Function":    Function,
	"Array":       Array,
	"Set":         Set,
	"Map":         Map,
}

// ArrayOf returns Array<elem>
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// SetOf returns Set<elem>
func SetOf(elem *Type) *Type {
	return &Type{Kind: KindSet, Elem: elem}
}

// MapOf returns Map<key, value>
func MapOf(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Elem: value}
}

// FunctionOf returns Function<params... => ret>
func FunctionOf(params []*Type, ret *Type) *Type {
	if ret == nil {
		ret = Any
	}
	return &Type{Kind: KindFunction, Params: params, Return: ret}
}

// UserClass returns a reference to a class declared in script code
func UserClass(name string) *Type {
	return &Type{Kind: KindUserClass, Name: name}
}

// Optional returns t | null
func Optional(t *Type) *Type {
	return Union(t, Null)
}

// Union builds the normalized union of the given types: nested unions are
// flattened, duplicates dropped and members sorted canonically. A union of
// one distinct member is that member.
func Union(members ...*Type) *Type {
	seen := make(map[string]bool)
	var flat []*Type
	var add func(t *Type)
	add = func(t *Type) {
		if t == nil {
			return
		}
		if t.Kind == KindUnion {
			for _, m := range t.Members {
				add(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, m := range members {
		add(m)
	}
	switch len(flat) {
	case 0:
		return Any
	case 1:
		return flat[0]
	}
	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].Kind != flat[j].Kind {
			return flat[i].Kind < flat[j].Kind
		}
		return flat[i].String() < flat[j].String()
	})
	return &Type{Kind: KindUnion, Members: flat}
}

// Equal compares two types structurally
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// IsOptional reports whether null is one of the members of a union
func (t *Type) IsOptional() bool {
	if t.Kind == KindNull {
		return true
	}
	if t.Kind != KindUnion {
		return false
	}
	for _, m := range t.Members {
		if m.Kind == KindNull {
			return true
		}
	}
	return false
}

// IsUnconstrainedFunction reports whether t is the bare Function type
func (t *Type) IsUnconstrainedFunction() bool {
	return t.Kind == KindFunction && t.Return == nil
}

// String renders the canonical form of the type
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind {
	case KindArray, KindSet:
		b.WriteString(t.Kind.String())
		if t.Elem != nil {
			b.WriteString("<")
			t.Elem.write(b)
			b.WriteString(">")
		}
	case KindMap:
		b.WriteString("Map")
		if t.Key != nil || t.Elem != nil {
			b.WriteString("<")
			orAny(t.Key).write(b)
			b.WriteString(", ")
			orAny(t.Elem).write(b)
			b.WriteString(">")
		}
	case KindFunction:
		b.WriteString("Function")
		if t.Return == nil {
			return
		}
		b.WriteString("<")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			p.write(b)
		}
		if len(t.Params) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("=> ")
		t.Return.write(b)
		b.WriteString(">")
	case KindUserClass:
		b.WriteString(t.Name)
	case KindUnion:
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(" | ")
			}
			m.write(b)
		}
	default:
		b.WriteString(t.Kind.String())
	}
}

func orAny(t *Type) *Type {
	if t == nil {
		return Any
	}
	return t
}
