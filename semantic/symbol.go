package semantic

import (
	"strings"

	"github.com/dhamidi/javasem/tree"
)

// Kind classifies a symbol.
type Kind int

const (
	KindPackage Kind = iota
	KindType
	KindVariable
	KindMethod
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindType:
		return "type"
	case KindVariable:
		return "variable"
	case KindMethod:
		return "method"
	case KindLabel:
		return "label"
	}
	return "unknown"
}

// KindMask selects the namespaces an identifier lookup searches.
type KindMask uint8

const (
	MaskVariable KindMask = 1 << iota
	MaskType
	MaskPackage
	MaskMethod
)

// A Symbol is a named program entity. Flags and Type may trigger the
// symbol's completer on first access.
type Symbol interface {
	Kind() Kind
	Name() string
	Owner() Symbol
	Flags() Flags
	Type() Type
	// Usages are the identifiers resolved to this symbol.
	Usages() []*tree.Identifier
	// Annotations are the fully qualified names of the annotation types
	// applied to this symbol.
	Annotations() []string
	base() *symbol
}

// Completer fills in the lazily computed parts of a symbol.
type Completer interface {
	Complete(sym Symbol)
}

type completerFunc func(Symbol)

func (f completerFunc) Complete(sym Symbol) { f(sym) }

type completionState uint8

const (
	completed completionState = iota
	pending
	completing
)

type symbol struct {
	name        string
	owner       Symbol
	flags       Flags
	typ         Type
	usages      []*tree.Identifier
	annotations []string
	state       completionState
	completer   Completer
}

func (s *symbol) base() *symbol { return s }

func (s *symbol) Name() string { return s.name }

func (s *symbol) Owner() Symbol { return s.owner }

func (s *symbol) Usages() []*tree.Identifier { return s.usages }

func (s *symbol) Annotations() []string { return s.annotations }

func (s *symbol) setCompleter(c Completer) {
	s.completer = c
	s.state = pending
}

// complete runs the symbol's completer at most once. The completer is
// detached first so re-entrant calls see the partially completed symbol.
func complete(sym Symbol) {
	b := sym.base()
	if b.state != pending {
		return
	}
	c := b.completer
	b.completer = nil
	b.state = completing
	c.Complete(sym)
	b.state = completed
}

// Complete forces completion of sym.
func Complete(sym Symbol) { complete(sym) }

// IsCompleted reports whether sym's completer has run.
func IsCompleted(sym Symbol) bool { return sym.base().state == completed }

type PackageSymbol struct {
	symbol
	fullName string
	members  *Scope
}

func (p *PackageSymbol) Kind() Kind      { return KindPackage }
func (p *PackageSymbol) Flags() Flags    { return p.flags }
func (p *PackageSymbol) Type() Type      { return p.typ }
func (p *PackageSymbol) Members() *Scope { return p.members }

// FullName is the dotted package name; the unnamed package is "".
func (p *PackageSymbol) FullName() string { return p.fullName }

// TypeSymbol is a class, interface, enum, record or annotation type, or
// one of the predefined primitive and array symbols.
type TypeSymbol struct {
	symbol
	members    *Scope
	typeScope  *Scope
	superclass Type
	interfaces []Type
	typeParams []*TypeVariableSymbol
	decl       *tree.ClassDecl
	// anonymous bodies record what they extend or implement.
	anonBase     tree.Expression
	anonBaseType Type
}

func (t *TypeSymbol) Kind() Kind { return KindType }

func (t *TypeSymbol) Flags() Flags {
	complete(t)
	return t.flags
}

func (t *TypeSymbol) Type() Type { return t.typ }

func (t *TypeSymbol) Members() *Scope {
	complete(t)
	return t.members
}

// Superclass is nil for Object, interfaces and predefined symbols.
func (t *TypeSymbol) Superclass() Type {
	complete(t)
	return t.superclass
}

func (t *TypeSymbol) Interfaces() []Type {
	complete(t)
	return t.interfaces
}

func (t *TypeSymbol) TypeParameters() []*TypeVariableSymbol {
	complete(t)
	return t.typeParams
}

// Decl is the declaring tree of a source class.
func (t *TypeSymbol) Decl() *tree.ClassDecl { return t.decl }

func (t *TypeSymbol) IsInterface() bool  { return t.Flags().Has(Interface) }
func (t *TypeSymbol) IsEnum() bool       { return t.Flags().Has(Enum) }
func (t *TypeSymbol) IsAnnotation() bool { return t.Flags().Has(Annotation) }

func (t *TypeSymbol) IsAnonymous() bool {
	return t.name == "" && t.owner != nil && t.owner.Kind() != KindPackage
}

// IsGeneric reports whether the class declares type parameters.
func (t *TypeSymbol) IsGeneric() bool { return len(t.TypeParameters()) > 0 }

// FullName is the canonical dotted name, for example java.util.Map.Entry.
func (t *TypeSymbol) FullName() string {
	switch o := t.owner.(type) {
	case *PackageSymbol:
		if o.fullName == "" {
			return t.name
		}
		return o.fullName + "." + t.name
	case *TypeSymbol:
		return o.FullName() + "." + t.name
	}
	return t.name
}

// FlatName is the binary name with nested classes joined by '$'.
func (t *TypeSymbol) FlatName() string {
	switch o := t.owner.(type) {
	case *PackageSymbol:
		if o.fullName == "" {
			return t.name
		}
		return o.fullName + "." + t.name
	case *TypeSymbol:
		return o.FlatName() + "$" + t.name
	}
	return t.name
}

// TypeVariableSymbol declares a class or method type parameter.
type TypeVariableSymbol struct {
	symbol
	decl *tree.TypeParameter
}

func (v *TypeVariableSymbol) Kind() Kind   { return KindType }
func (v *TypeVariableSymbol) Flags() Flags { return v.flags }
func (v *TypeVariableSymbol) Type() Type   { return v.typ }

func (v *TypeVariableSymbol) TypeVar() *TypeVar { return v.typ.(*TypeVar) }

type MethodSymbol struct {
	symbol
	params     []*VariableSymbol
	paramScope *Scope
	typeScope  *Scope
	typeParams []*TypeVariableSymbol
	decl       *tree.MethodDecl
	// trees the second pass resolves; synthesized members share them with
	// the declarations they derive from.
	returnTree tree.Expression
	paramTrees []*tree.VariableDecl
	throwTrees []tree.Expression
}

func (m *MethodSymbol) Kind() Kind { return KindMethod }

func (m *MethodSymbol) Flags() Flags {
	complete(m)
	return m.flags
}

func (m *MethodSymbol) Type() Type {
	complete(m)
	return m.typ
}

func (m *MethodSymbol) MethodType() *MethodType {
	if mt, ok := m.Type().(*MethodType); ok {
		return mt
	}
	return &MethodType{}
}

func (m *MethodSymbol) Parameters() []*VariableSymbol {
	complete(m)
	return m.params
}

func (m *MethodSymbol) TypeParameters() []*TypeVariableSymbol {
	complete(m)
	return m.typeParams
}

// ReturnType is nil for constructors.
func (m *MethodSymbol) ReturnType() Type { return m.MethodType().Result }

func (m *MethodSymbol) ThrownTypes() []Type { return m.MethodType().Thrown }

func (m *MethodSymbol) Decl() *tree.MethodDecl { return m.decl }

func (m *MethodSymbol) IsConstructor() bool { return m.name == "<init>" }

func (m *MethodSymbol) IsVarargs() bool { return m.Flags().Has(Varargs) }

// Signature renders name(T1, T2) using the declared parameter types.
func (m *MethodSymbol) Signature() string {
	var b strings.Builder
	if m.IsConstructor() {
		b.WriteString(m.owner.Name())
	} else {
		b.WriteString(m.name)
	}
	b.WriteByte('(')
	for i, p := range m.MethodType().Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// VariableSymbol is a field, local variable, parameter or enum constant.
type VariableSymbol struct {
	symbol
	constant any
	decl     *tree.VariableDecl
	enumDecl *tree.EnumConstant
}

func (v *VariableSymbol) Kind() Kind { return KindVariable }

func (v *VariableSymbol) Flags() Flags {
	complete(v)
	return v.flags
}

func (v *VariableSymbol) Type() Type {
	complete(v)
	return v.typ
}

// Constant is the compile-time constant value of a bytecode field.
func (v *VariableSymbol) Constant() any { return v.constant }

func (v *VariableSymbol) Decl() *tree.VariableDecl { return v.decl }

func (v *VariableSymbol) IsEnumConstant() bool { return v.flags.Has(Enum) }

type LabelSymbol struct {
	symbol
	stmt *tree.Labeled
}

func (l *LabelSymbol) Kind() Kind   { return KindLabel }
func (l *LabelSymbol) Flags() Flags { return 0 }
func (l *LabelSymbol) Type() Type   { return nil }

// EnclosingClass returns sym if it is a class, else the nearest class
// among its owners. It is nil for packages.
func EnclosingClass(sym Symbol) *TypeSymbol {
	for s := sym; s != nil; s = s.Owner() {
		if t, ok := s.(*TypeSymbol); ok {
			return t
		}
	}
	return nil
}

// PackageOf returns the package sym is declared in.
func PackageOf(sym Symbol) *PackageSymbol {
	for s := sym; s != nil; s = s.Owner() {
		if p, ok := s.(*PackageSymbol); ok {
			return p
		}
	}
	return nil
}

// OutermostClass returns the top-level class enclosing sym.
func OutermostClass(sym Symbol) *TypeSymbol {
	var out *TypeSymbol
	for s := sym; s != nil; s = s.Owner() {
		if t, ok := s.(*TypeSymbol); ok {
			out = t
		}
	}
	return out
}

func isStatic(sym Symbol) bool { return sym.Flags().Has(Static) }

// isInner reports whether instances of c carry an enclosing instance.
func isInner(c *TypeSymbol) bool {
	owner, ok := c.owner.(*TypeSymbol)
	if !ok || c.IsInterface() || c.IsEnum() || c.Flags().Has(Static) {
		return false
	}
	if c.decl != nil && c.decl.DeclKind == tree.KindRecord {
		return false
	}
	return !owner.IsInterface()
}
