package semantic

import "strings"

// Tag discriminates the variants of Type.
type Tag int

const (
	TagByte Tag = iota
	TagChar
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagBoolean
	TagVoid
	TagClass
	TagArray
	TagMethod
	TagBot
	TagUnknown
	TagTypeVar
	TagWildcard
)

// Type is a semantic type. Values are compared by identity except for
// arrays and wildcards, which SameType compares structurally.
type Type interface {
	Tag() Tag
	// Symbol is the class symbol used for member lookup. Type variables
	// and wildcards answer with the symbol of their upper bound.
	Symbol() *TypeSymbol
	Erasure() Type
	String() string
}

func IsPrimitive(t Type) bool {
	_, ok := t.(*PrimitiveType)
	return ok && t.Tag() != TagVoid
}

func IsNumeric(t Type) bool {
	return t != nil && t.Tag() <= TagDouble
}

// IsReference reports whether t denotes an object or the null type.
func IsReference(t Type) bool {
	switch t.Tag() {
	case TagClass, TagArray, TagTypeVar, TagWildcard, TagBot:
		return true
	}
	return false
}

func IsUnknown(t Type) bool { return t == nil || t.Tag() == TagUnknown }

type PrimitiveType struct {
	tag Tag
	sym *TypeSymbol
}

func (p *PrimitiveType) Tag() Tag            { return p.tag }
func (p *PrimitiveType) Symbol() *TypeSymbol { return p.sym }
func (p *PrimitiveType) Erasure() Type       { return p }
func (p *PrimitiveType) String() string      { return p.sym.name }

// ClassType is the type of a non-generic class, or the raw type of a
// generic one.
type ClassType struct {
	sym *TypeSymbol
}

func (c *ClassType) Tag() Tag            { return TagClass }
func (c *ClassType) Symbol() *TypeSymbol { return c.sym }
func (c *ClassType) Erasure() Type       { return c }
func (c *ClassType) String() string      { return c.sym.FullName() }

type ArrayType struct {
	Elem    Type
	sym     *TypeSymbol
	erasure *ArrayType
}

func (a *ArrayType) Tag() Tag            { return TagArray }
func (a *ArrayType) Symbol() *TypeSymbol { return a.sym }
func (a *ArrayType) String() string      { return a.Elem.String() + "[]" }

func (a *ArrayType) Erasure() Type {
	e := a.Elem.Erasure()
	if e == a.Elem {
		return a
	}
	if a.erasure == nil {
		a.erasure = &ArrayType{Elem: e, sym: a.sym}
	}
	return a.erasure
}

// MethodType is the signature of a method. Result is nil for
// constructors.
type MethodType struct {
	Params     []Type
	Result     Type
	Thrown     []Type
	TypeParams []*TypeVar
}

func (m *MethodType) Tag() Tag            { return TagMethod }
func (m *MethodType) Symbol() *TypeSymbol { return nil }
func (m *MethodType) Erasure() Type       { return m }

func (m *MethodType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if m.Result != nil {
		b.WriteString(m.Result.String())
	}
	return b.String()
}

// TypeVar is a reference to a declared type parameter. Bounds holds at
// least one type once the declaring symbol is completed.
type TypeVar struct {
	sym    *TypeVariableSymbol
	Bounds []Type
	object func() Type
}

func (v *TypeVar) Tag() Tag            { return TagTypeVar }
func (v *TypeVar) String() string      { return v.sym.name }
func (v *TypeVar) Symbol() *TypeSymbol { return v.Erasure().Symbol() }

func (v *TypeVar) Var() *TypeVariableSymbol { return v.sym }

// UpperBound is the first bound, or Object.
func (v *TypeVar) UpperBound() Type {
	if len(v.Bounds) > 0 {
		return v.Bounds[0]
	}
	return v.object()
}

func (v *TypeVar) Erasure() Type {
	b := v.UpperBound()
	if b == Type(v) {
		return v.object()
	}
	return b.Erasure()
}

// ParameterizedType applies type arguments to a generic class. Instances
// are interned by the session's type cache so identical applications
// share one value.
type ParameterizedType struct {
	sym   *TypeSymbol
	Args  []Type
	subst *Substitution
}

func (p *ParameterizedType) Tag() Tag            { return TagClass }
func (p *ParameterizedType) Symbol() *TypeSymbol { return p.sym }
func (p *ParameterizedType) Erasure() Type       { return p.sym.typ }

func (p *ParameterizedType) String() string {
	var b strings.Builder
	b.WriteString(p.sym.FullName())
	b.WriteByte('<')
	for i, a := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Substitution maps the class's type parameters to Args. Extra or
// missing arguments are ignored.
func (p *ParameterizedType) Substitution() *Substitution {
	if p.subst == nil {
		s := &Substitution{}
		params := p.sym.TypeParameters()
		for i, v := range params {
			if i >= len(p.Args) {
				break
			}
			s.vars = append(s.vars, v.TypeVar())
			s.args = append(s.args, p.Args[i])
		}
		p.subst = s
	}
	return p.subst
}

// WildcardKind is the bound direction of a wildcard.
type WildcardKind int

const (
	Unbounded WildcardKind = iota
	Extends
	Super
)

type WildcardType struct {
	Bound WildcardKind
	Type  Type
	upper Type
}

func (w *WildcardType) Tag() Tag            { return TagWildcard }
func (w *WildcardType) Symbol() *TypeSymbol { return w.upper.Symbol() }
func (w *WildcardType) Erasure() Type       { return w.upper.Erasure() }

// UpperBound is the extends bound, or Object.
func (w *WildcardType) UpperBound() Type { return w.upper }

func (w *WildcardType) String() string {
	switch w.Bound {
	case Extends:
		return "? extends " + w.Type.String()
	case Super:
		return "? super " + w.Type.String()
	}
	return "?"
}

// specialType backs the unknown and null types.
type specialType struct {
	tag  Tag
	name string
	sym  *TypeSymbol
}

func (s *specialType) Tag() Tag            { return s.tag }
func (s *specialType) Symbol() *TypeSymbol { return s.sym }
func (s *specialType) Erasure() Type       { return s }
func (s *specialType) String() string      { return s.name }

// Substitution maps type variables to types.
type Substitution struct {
	vars []*TypeVar
	args []Type
}

func (s *Substitution) Len() int { return len(s.vars) }

func (s *Substitution) Get(v *TypeVar) (Type, bool) {
	for i, sv := range s.vars {
		if sv == v {
			return s.args[i], true
		}
	}
	return nil, false
}

func (s *Substitution) add(v *TypeVar, t Type) {
	s.vars = append(s.vars, v)
	s.args = append(s.args, t)
}

// SameType compares by identity, descending into arrays and wildcards.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *ArrayType:
		if b, ok := b.(*ArrayType); ok {
			return SameType(a.Elem, b.Elem)
		}
	case *WildcardType:
		if b, ok := b.(*WildcardType); ok {
			if a.Bound != b.Bound {
				return false
			}
			return a.Bound == Unbounded || SameType(a.Type, b.Type)
		}
	case *ParameterizedType:
		if b, ok := b.(*ParameterizedType); ok && a.sym == b.sym && len(a.Args) == len(b.Args) {
			for i := range a.Args {
				if !SameType(a.Args[i], b.Args[i]) {
					return false
				}
			}
			return true
		}
	}
	return false
}
