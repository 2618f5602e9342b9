package semantic

import (
	"strings"

	"github.com/dhamidi/javasem/tree"
)

// secondPass completes source symbols on demand: class headers and
// implicit members, method signatures and variable types. It is the
// completer of every symbol the first pass enters.
type secondPass struct {
	ss *Session
}

func (sp *secondPass) Complete(sym Symbol) {
	switch s := sym.(type) {
	case *TypeSymbol:
		sp.completeType(s)
	case *MethodSymbol:
		sp.completeMethod(s)
	case *VariableSymbol:
		sp.completeVariable(s)
	}
}

func (sp *secondPass) completeType(c *TypeSymbol) {
	env := sp.ss.model.symbolEnvs[c]
	for _, tv := range c.typeParams {
		sp.bounds(tv)
	}
	c.superclass, c.interfaces = sp.supertypes(env, c)
	sp.checkCycle(c)
	if c.decl != nil {
		c.annotations = sp.annotations(env, c.decl.Modifiers)
	}

	if c.flags.Has(Annotation) {
		return
	}
	c.members.Enter(&VariableSymbol{symbol: symbol{name: "this", owner: c, flags: Final | Synthetic,
		typ: sp.ss.resolve.ThisType(c)}})
	sup := c.superclass
	if sup == nil {
		sup = sp.ss.symbols.ObjectType()
	}
	c.members.Enter(&VariableSymbol{symbol: symbol{name: "super", owner: c, flags: Final | Synthetic, typ: sup}})

	if !c.flags.Has(Interface) && !c.IsAnonymous() && !hasConstructor(c) {
		sp.defaultConstructor(c)
	}
}

func hasConstructor(c *TypeSymbol) bool {
	for _, s := range c.members.LookupLocal("<init>") {
		if _, ok := s.(*MethodSymbol); ok {
			return true
		}
	}
	return false
}

// defaultConstructor adds the implicit no-argument constructor. Enum
// constructors are private; others take the class's access.
func (sp *secondPass) defaultConstructor(c *TypeSymbol) {
	flags := c.flags & AccessFlags
	if c.flags.Has(Enum) {
		flags = Private
	}
	mt := &MethodType{}
	if isInner(c) {
		mt.Params = []Type{sp.ss.resolve.ThisType(EnclosingClass(c.owner))}
	}
	c.members.Enter(&MethodSymbol{symbol: symbol{name: "<init>", owner: c, flags: flags | Synthetic, typ: mt}})
}

// supertypes resolves the extends and implements clauses, supplying the
// implicit superclass of enums, records, anonymous classes and Object.
func (sp *secondPass) supertypes(env *Env, c *TypeSymbol) (Type, []Type) {
	ss, sy := sp.ss, sp.ss.symbols
	decl := c.decl

	if c.anonBase != nil || c.anonBaseType != nil {
		base := c.anonBaseType
		if base == nil {
			base = ss.resolveType(env, c.anonBase)
		}
		switch {
		case IsUnknown(base):
			return sy.ObjectType(), nil
		case base.Symbol() != nil && base.Symbol().IsInterface():
			return sy.ObjectType(), []Type{base}
		}
		return base, nil
	}

	var ifaces []Type
	for _, i := range decl.Implements {
		if t := ss.resolveType(env, i); !IsUnknown(t) {
			ifaces = append(ifaces, t)
		}
	}
	switch decl.DeclKind {
	case tree.KindAnnotationType:
		return nil, append(ifaces, sy.ClassType("java.lang.annotation.Annotation"))
	case tree.KindInterface:
		return nil, ifaces
	case tree.KindEnum:
		return ss.Parameterized(sy.completer.ClassSymbol("java.lang.Enum"), c.typ), ifaces
	case tree.KindRecord:
		return sy.ClassType("java.lang.Record"), ifaces
	}
	if decl.Extends != nil {
		if sup := ss.resolveType(env, decl.Extends); !IsUnknown(sup) {
			return sup, ifaces
		}
	}
	if c.FullName() == "java.lang.Object" {
		return nil, ifaces
	}
	return sy.ObjectType(), ifaces
}

// checkCycle panics with a *CycleError when c reaches itself through its
// supertypes.
func (sp *secondPass) checkCycle(c *TypeSymbol) {
	var path []string
	seen := map[*TypeSymbol]bool{}
	var visit func(s *TypeSymbol) bool
	visit = func(s *TypeSymbol) bool {
		if s == nil {
			return false
		}
		path = append(path, s.FullName())
		if s == c && len(path) > 1 {
			return true
		}
		if !seen[s] {
			seen[s] = true
			if sup := s.Superclass(); sup != nil && visit(sup.Symbol()) {
				return true
			}
			for _, i := range s.Interfaces() {
				if visit(i.Symbol()) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if visit(c) {
		panic(&CycleError{Class: c.FullName(), Path: path})
	}
}

func (sp *secondPass) bounds(tv *TypeVariableSymbol) {
	env := sp.ss.model.symbolEnvs[tv]
	v := tv.TypeVar()
	v.Bounds = nil
	for _, b := range tv.decl.Bounds {
		v.Bounds = append(v.Bounds, sp.ss.resolveType(env, b))
	}
	if len(v.Bounds) == 0 {
		v.Bounds = []Type{sp.ss.symbols.ObjectType()}
	}
}

func (sp *secondPass) completeMethod(m *MethodSymbol) {
	ss := sp.ss
	env := ss.model.symbolEnvs[m]
	mt := &MethodType{}
	for _, tv := range m.typeParams {
		sp.bounds(tv)
		mt.TypeParams = append(mt.TypeParams, tv.TypeVar())
	}
	if !m.IsConstructor() {
		if m.returnTree == nil {
			mt.Result = ss.symbols.Void
		} else {
			mt.Result = ss.resolveType(env, m.returnTree)
		}
	}
	for _, t := range m.throwTrees {
		mt.Thrown = append(mt.Thrown, ss.resolveType(env, t))
	}
	if c, ok := m.owner.(*TypeSymbol); ok && m.IsConstructor() && isInner(c) {
		mt.Params = append(mt.Params, ss.resolve.ThisType(EnclosingClass(c.owner)))
	}
	for _, p := range m.params {
		mt.Params = append(mt.Params, p.Type())
	}
	if m.decl != nil {
		m.annotations = sp.annotations(env, m.decl.Modifiers)
	}
	m.typ = mt
}

func (sp *secondPass) completeVariable(v *VariableSymbol) {
	ss := sp.ss
	env := ss.model.symbolEnvs[v]
	if v.decl == nil || v.decl.Type == nil {
		if v.typ == nil {
			v.typ = ss.symbols.Unknown
		}
		return
	}
	t := ss.resolveType(env, v.decl.Type)
	if v.flags.Has(Varargs) {
		t = ss.symbols.ArrayOf(t)
	}
	v.typ = t
	v.annotations = sp.annotations(env, v.decl.Modifiers)
}

// annotations resolves the annotation types applied by mods to their
// qualified names.
func (sp *secondPass) annotations(env *Env, mods *tree.Modifiers) []string {
	if mods == nil {
		return nil
	}
	var out []string
	for _, a := range mods.Annotations {
		if t := sp.ss.resolveType(env, a.Type); !IsUnknown(t) && t.Symbol() != nil {
			out = append(out, t.Symbol().FullName())
		}
	}
	return out
}

// resolveType attributes a type tree in env. Results are memoized per
// tree, so trees shared between declarations resolve once.
func (ss *Session) resolveType(env *Env, e tree.Expression) Type {
	if e == nil {
		return ss.symbols.Unknown
	}
	if t, ok := ss.model.types[e]; ok {
		return t
	}
	t := ss.attribType(env, e)
	ss.model.setType(e, t)
	return t
}

func (ss *Session) attribType(env *Env, e tree.Expression) Type {
	sy := ss.symbols
	switch n := e.(type) {
	case *tree.PrimitiveType:
		if p := sy.Primitive(n.Name); p != nil {
			return p
		}
	case *tree.Identifier, *tree.MemberSelect:
		if ss.resolveTypeName(env, n, MaskType) == nil {
			return sy.Unknown
		}
		return ss.model.types[n]
	case *tree.ArrayType:
		return sy.ArrayOf(ss.resolveType(env, n.Elem))
	case *tree.ParameterizedType:
		base := ss.resolveType(env, n.Type)
		c, ok := base.(*ClassType)
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = ss.resolveType(env, a)
		}
		if !ok || len(args) == 0 || len(args) != len(c.sym.TypeParameters()) {
			return base
		}
		return ss.Parameterized(c.sym, args...)
	case *tree.Wildcard:
		switch n.BoundKind {
		case "extends":
			return sy.Wildcard(Extends, ss.resolveType(env, n.Bound))
		case "super":
			return sy.Wildcard(Super, ss.resolveType(env, n.Bound))
		}
		return sy.Wildcard(Unbounded, nil)
	case *tree.UnionType:
		alts := make([]Type, len(n.Alternatives))
		for i, a := range n.Alternatives {
			alts[i] = ss.resolveType(env, a)
		}
		return ss.types.LUB(alts)
	}
	ss.model.unresolvedRef(e, describe(e), NotFound)
	return sy.Unknown
}

// resolveTypeName resolves a simple or qualified name in the namespaces
// of mask, binding every segment. Qualifiers may be packages or types.
func (ss *Session) resolveTypeName(env *Env, e tree.Expression, mask KindMask) Symbol {
	r := ss.resolve
	var (
		res  Resolution
		name string
	)
	switch n := e.(type) {
	case *tree.Identifier:
		name = n.Name
		res = r.FindIdent(env, name, mask)
	case *tree.MemberSelect:
		name = n.Name.Name
		switch q := ss.resolveTypeName(env, n.Expr, MaskType|MaskPackage).(type) {
		case nil:
			return nil
		case *PackageSymbol:
			res = r.FindIdentInPackage(env, q, name, mask)
		case *TypeSymbol:
			res = r.findMemberType(env, q, name, q)
		default:
			res = r.notFound()
		}
	default:
		return nil
	}
	return ss.record(e, name, res)
}

// record binds e to a resolution and sets its type; failed lookups are
// reported as unresolved. Inaccessible symbols are still bound.
func (ss *Session) record(e tree.Tree, name string, res Resolution) Symbol {
	if res.Outcome != Found {
		ss.model.unresolvedRef(e, name, res.Outcome)
	}
	if res.Symbol == nil || res.Outcome == NotFound {
		ss.model.setType(e, ss.symbols.Unknown)
		return nil
	}
	ss.model.bind(e, res.Symbol)
	ss.model.setType(e, res.Type)
	return res.Symbol
}

// describe renders a tree for diagnostics.
func describe(t tree.Tree) string {
	if e, ok := t.(tree.Expression); ok {
		if q := tree.QualifiedName(e); q != "" {
			return q
		}
	}
	return strings.ToLower(t.Kind().String())
}
