package semantic

import (
	"strings"

	"github.com/dhamidi/javasem/tree"
)

// solver walks the bodies of a unit after the first pass, binding every
// reference and typing every expression.
type solver struct {
	ss    *Session
	model *Model
	r     *Resolve
	types *Types
	sy    *Symbols

	// result is the declared return type of the enclosing method, used as
	// the expected type of return expressions.
	result Type
	labels []*LabelSymbol
	yields []*[]Type
}

func (s *solver) run(unit *tree.CompilationUnit) {
	s.r, s.types, s.sy = s.ss.resolve, s.ss.types, s.ss.symbols
	for _, c := range unit.Types {
		s.classDecl(c)
	}
	tree.Inspect(unit, func(t tree.Tree) bool {
		if e, ok := t.(tree.Expression); ok && !s.model.HasType(e) {
			s.model.setType(e, s.sy.Unknown)
		}
		return true
	})
	log.Debugf("%s: %d unresolved references", unit.File, len(s.model.unresolved))
}

func (s *solver) envOf(t tree.Tree, fallback *Env) *Env {
	if e := s.model.envs[t]; e != nil {
		return e
	}
	return fallback
}

// declName attaches a declaration's name identifier to its symbol.
func (s *solver) declName(id *tree.Identifier, sym Symbol) {
	if id == nil || sym == nil {
		return
	}
	s.model.refs[id] = sym
	s.model.setType(id, sym.Type())
}

func (s *solver) classDecl(decl *tree.ClassDecl) {
	sym, ok := s.model.declared[decl].(*TypeSymbol)
	if !ok {
		return
	}
	headerEnv := s.model.symbolEnvs[sym]
	classEnv := s.model.envs[decl]
	s.modifiers(headerEnv, decl.Modifiers)
	s.declName(decl.Name, sym)
	for _, tp := range decl.TypeParams {
		s.declName(tp.Name, s.model.declared[tp])
		for _, b := range tp.Bounds {
			s.ss.resolveType(headerEnv, b)
		}
	}
	if decl.Extends != nil {
		s.ss.resolveType(headerEnv, decl.Extends)
	}
	for _, i := range decl.Implements {
		s.ss.resolveType(headerEnv, i)
	}
	for _, rc := range decl.RecordComponents {
		s.variableDecl(classEnv, rc)
	}

	saved := s.result
	s.result = nil
	for _, m := range decl.Members {
		switch m := m.(type) {
		case *tree.VariableDecl:
			s.variableDecl(classEnv, m)
		case *tree.MethodDecl:
			s.method(m)
		case *tree.ClassDecl:
			s.classDecl(m)
		case *tree.Block:
			s.stmt(classEnv, m)
		case *tree.EnumConstant:
			s.enumConstant(classEnv, sym, m)
		}
	}
	s.result = saved
}

func (s *solver) method(decl *tree.MethodDecl) {
	m, ok := s.model.declared[decl].(*MethodSymbol)
	if !ok {
		return
	}
	env := s.model.envs[decl]
	s.modifiers(env, decl.Modifiers)
	s.declName(decl.Name, m)
	for _, tp := range decl.TypeParams {
		s.declName(tp.Name, s.model.declared[tp])
		for _, b := range tp.Bounds {
			s.ss.resolveType(env, b)
		}
	}
	if decl.ReturnType != nil {
		s.ss.resolveType(env, decl.ReturnType)
	}
	for _, p := range decl.Params {
		s.variableDecl(env, p)
	}
	for _, t := range decl.Throws {
		s.ss.resolveType(env, t)
	}

	saved := s.result
	s.result = m.ReturnType()
	if decl.Body != nil {
		s.stmt(env, decl.Body)
	}
	s.result = saved
	if decl.DefaultValue != nil {
		s.expr(env, decl.DefaultValue, m.ReturnType())
	}
}

func (s *solver) variableDecl(env *Env, decl *tree.VariableDecl) {
	v, _ := s.model.declared[decl].(*VariableSymbol)
	s.modifiers(env, decl.Modifiers)
	if decl.Type != nil {
		s.ss.resolveType(env, decl.Type)
	}
	if v == nil {
		s.expr(env, decl.Init, nil)
		return
	}
	if decl.Init != nil {
		t := s.expr(env, decl.Init, v.Type())
		if decl.Type == nil && IsUnknown(v.Type()) {
			v.typ = t
		}
	}
	s.declName(decl.Name, v)
}

func (s *solver) enumConstant(env *Env, enum *TypeSymbol, ec *tree.EnumConstant) {
	v := s.model.declared[ec]
	s.modifiers(env, ec.Modifiers)
	s.declName(ec.Name, v)
	args := s.args(env, ec.Args)
	res := s.r.FindMethodIn(env, enum.typ, "<init>", args, nil)
	if res.Outcome != Found {
		s.model.unresolvedRef(ec, nameOf(ec.Name), res.Outcome)
	}
	if res.Symbol != nil {
		s.model.refs[ec] = res.Symbol
	}
	if ec.Body != nil {
		s.classDecl(ec.Body)
	}
}

// modifiers binds the annotations of a declaration.
func (s *solver) modifiers(env *Env, mods *tree.Modifiers) {
	if mods == nil {
		return
	}
	for _, a := range mods.Annotations {
		s.expr(env, a, nil)
	}
}

// annotation binds the annotation type and each element name to the
// annotation's element method.
func (s *solver) annotation(env *Env, a *tree.Annotation) Type {
	t := s.ss.resolveType(env, a.Type)
	element := func(name string) Type {
		if IsUnknown(t) {
			return nil
		}
		res := s.r.FindMethodIn(env, t, name, nil, nil)
		if res.Outcome != Found {
			return nil
		}
		return res.Type
	}
	for _, arg := range a.Args {
		if as, ok := arg.(*tree.Assignment); ok {
			if id, ok := as.Var.(*tree.Identifier); ok {
				var et Type
				if !IsUnknown(t) {
					res := s.r.FindMethodIn(env, t, id.Name, nil, nil)
					s.ss.record(id, id.Name, res)
					if res.Outcome == Found {
						et = res.Type
					}
				}
				s.model.setType(as, s.expr(env, as.Expr, et))
				continue
			}
		}
		s.expr(env, arg, element("value"))
	}
	return t
}

func (s *solver) stmt(env *Env, st tree.Statement) {
	switch n := st.(type) {
	case nil:
	case *tree.Block:
		if n == nil {
			return
		}
		benv := s.envOf(n, env)
		for _, c := range n.Statements {
			s.stmt(benv, c)
		}
	case *tree.VariableDecl:
		s.variableDecl(env, n)
	case *tree.ClassDecl:
		s.classDecl(n)
	case *tree.ExpressionStatement:
		s.expr(env, n.Expr, nil)
	case *tree.If:
		s.expr(env, n.Cond, s.sy.Boolean)
		s.stmt(env, n.Then)
		s.stmt(env, n.Else)
	case *tree.While:
		s.expr(env, n.Cond, s.sy.Boolean)
		s.stmt(env, n.Body)
	case *tree.DoWhile:
		s.stmt(env, n.Body)
		s.expr(env, n.Cond, s.sy.Boolean)
	case *tree.For:
		fenv := s.envOf(n, env)
		for _, c := range n.Init {
			s.stmt(fenv, c)
		}
		if n.Cond != nil {
			s.expr(fenv, n.Cond, s.sy.Boolean)
		}
		for _, c := range n.Update {
			s.stmt(fenv, c)
		}
		s.stmt(fenv, n.Body)
	case *tree.ForEach:
		s.forEach(env, n)
	case *tree.Return:
		if n.Expr != nil {
			s.expr(env, n.Expr, s.result)
		}
	case *tree.Throw:
		s.expr(env, n.Expr, nil)
	case *tree.Yield:
		t := s.expr(env, n.Expr, nil)
		if len(s.yields) > 0 {
			top := s.yields[len(s.yields)-1]
			*top = append(*top, t)
		}
	case *tree.Break:
		s.label(n.Label)
	case *tree.Continue:
		s.label(n.Label)
	case *tree.Try:
		tenv := s.envOf(n, env)
		for _, r := range n.Resources {
			switch r := r.(type) {
			case *tree.VariableDecl:
				s.variableDecl(tenv, r)
			case tree.Expression:
				s.expr(tenv, r, nil)
			}
		}
		s.stmt(tenv, n.Body)
		for _, c := range n.Catches {
			cenv := s.envOf(c, env)
			if c.Param != nil {
				s.variableDecl(cenv, c.Param)
			}
			s.stmt(cenv, c.Body)
		}
		if n.Finally != nil {
			s.stmt(env, n.Finally)
		}
	case *tree.Switch:
		s.switchExpr(env, n)
	case *tree.Labeled:
		l, _ := s.model.declared[n].(*LabelSymbol)
		if l != nil {
			s.declName(n.Label, l)
			s.labels = append(s.labels, l)
		}
		s.stmt(env, n.Body)
		if l != nil {
			s.labels = s.labels[:len(s.labels)-1]
		}
	case *tree.Synchronized:
		s.expr(env, n.Lock, nil)
		if n.Body != nil {
			s.stmt(env, n.Body)
		}
	case *tree.Assert:
		s.expr(env, n.Cond, s.sy.Boolean)
		if n.Detail != nil {
			s.expr(env, n.Detail, nil)
		}
	}
}

// label binds the target of break or continue to the innermost enclosing
// statement with that label.
func (s *solver) label(id *tree.Identifier) {
	if id == nil {
		return
	}
	for i := len(s.labels) - 1; i >= 0; i-- {
		if s.labels[i].name == id.Name {
			s.model.bind(id, s.labels[i])
			s.model.setType(id, s.sy.Unknown)
			return
		}
	}
	s.model.unresolvedRef(id, id.Name, NotFound)
}

func (s *solver) forEach(env *Env, n *tree.ForEach) {
	it := s.expr(env, n.Iterable, nil)
	fenv := s.envOf(n, env)
	if n.Var != nil {
		if v, ok := s.model.declared[n.Var].(*VariableSymbol); ok && n.Var.Type == nil {
			v.Type()
			v.typ = s.elementType(it)
		}
		s.variableDecl(fenv, n.Var)
	}
	s.stmt(fenv, n.Body)
}

// elementType is the type produced by iterating over t: the element of
// an array or the argument of its Iterable supertype.
func (s *solver) elementType(t Type) Type {
	if a, ok := t.(*ArrayType); ok {
		return a.Elem
	}
	iterable := s.sy.completer.ClassSymbol("java.lang.Iterable")
	if p, ok := s.types.asSuper(s.r.memberSite(t), iterable).(*ParameterizedType); ok && len(p.Args) == 1 {
		if w, ok := p.Args[0].(*WildcardType); ok {
			return w.UpperBound()
		}
		return p.Args[0]
	}
	if t != nil && !IsUnknown(t) {
		return s.sy.ObjectType()
	}
	return s.sy.Unknown
}

// expr attributes e against the expected type pt, which may be nil, and
// records the result.
func (s *solver) expr(env *Env, e tree.Expression, pt Type) Type {
	if e == nil {
		return s.sy.Unknown
	}
	t := s.attrib(env, e, pt)
	if t == nil {
		t = s.sy.Unknown
	}
	s.model.setType(e, t)
	return t
}

func (s *solver) args(env *Env, list []tree.Expression) []Type {
	out := make([]Type, len(list))
	for i, a := range list {
		out[i] = s.expr(env, a, nil)
	}
	return out
}

func (s *solver) attrib(env *Env, e tree.Expression, pt Type) Type {
	switch n := e.(type) {
	case *tree.Identifier:
		return s.ident(env, n, MaskVariable)
	case *tree.MemberSelect:
		return s.selectExpr(env, n, MaskVariable)
	case *tree.MethodInvocation:
		return s.invocation(env, n)
	case *tree.NewClass:
		return s.newClass(env, n, pt)
	case *tree.NewArray:
		return s.newArray(env, n, pt)
	case *tree.Literal:
		return s.literal(n)
	case *tree.Binary:
		return s.binary(env, n)
	case *tree.Unary:
		t := s.expr(env, n.Operand, nil)
		switch n.Op {
		case "!":
			return s.sy.Boolean
		case "++", "--":
			return t
		}
		return s.types.UnaryPromotion(t)
	case *tree.Assignment:
		vt := s.expr(env, n.Var, nil)
		if n.Op == "=" || n.Op == "" {
			s.expr(env, n.Expr, vt)
			return vt
		}
		return s.compoundAssignment(vt, strings.TrimSuffix(n.Op, "="), s.expr(env, n.Expr, nil))
	case *tree.Conditional:
		s.expr(env, n.Cond, s.sy.Boolean)
		a := s.expr(env, n.True, pt)
		b := s.expr(env, n.False, pt)
		return s.conditional(a, b, pt)
	case *tree.InstanceOf:
		s.expr(env, n.Expr, nil)
		s.ss.resolveType(env, n.Type)
		if n.Binding != nil {
			s.variableDecl(env, n.Binding)
		}
		return s.sy.Boolean
	case *tree.Cast:
		t := s.ss.resolveType(env, n.Type)
		s.expr(env, n.Expr, t)
		return t
	case *tree.ArrayAccess:
		at := s.expr(env, n.Array, nil)
		s.expr(env, n.Index, s.sy.Int)
		if a, ok := at.(*ArrayType); ok {
			return a.Elem
		}
		return s.sy.Unknown
	case *tree.Parenthesized:
		return s.expr(env, n.Expr, pt)
	case *tree.Lambda:
		return s.lambda(env, n, pt)
	case *tree.MethodReference:
		s.methodReference(env, n)
		return s.functional(pt)
	case *tree.Switch:
		return s.switchExpr(env, n)
	case *tree.Annotation:
		return s.annotation(env, n)
	case *tree.PrimitiveType, *tree.ArrayType, *tree.ParameterizedType, *tree.Wildcard, *tree.UnionType:
		return s.ss.resolveType(env, n)
	}
	return s.sy.Unknown
}

// ident resolves a simple name in the namespaces of mask.
func (s *solver) ident(env *Env, id *tree.Identifier, mask KindMask) Type {
	res := s.r.FindIdent(env, id.Name, mask)
	s.ss.record(id, id.Name, res)
	return s.model.TypeOf(id)
}

// qualifier attributes the left side of a member select, which may name
// a package, a type or a value. sym is the package or type it names.
func (s *solver) qualifier(env *Env, e tree.Expression) (Symbol, Type) {
	var t Type
	switch q := e.(type) {
	case *tree.Identifier:
		t = s.ident(env, q, MaskVariable|MaskType|MaskPackage)
	case *tree.MemberSelect:
		switch q.Name.Name {
		case "this", "super", "class":
			return nil, s.expr(env, q, nil)
		}
		t = s.selectExpr(env, q, MaskVariable|MaskType|MaskPackage)
	default:
		return nil, s.expr(env, e, nil)
	}
	s.model.setType(e, t)
	switch sym := s.model.refs[e].(type) {
	case *PackageSymbol, *TypeSymbol:
		return sym, t
	}
	return nil, t
}

func (s *solver) selectExpr(env *Env, n *tree.MemberSelect, mask KindMask) Type {
	name := n.Name.Name
	switch name {
	case "class":
		return s.classLiteral(env, n)
	case "this", "super":
		return s.qualifiedThis(env, n)
	}

	qs, qt := s.qualifier(env, n.Expr)
	var res Resolution
	switch q := qs.(type) {
	case *PackageSymbol:
		res = s.r.FindIdentInPackage(env, q, name, mask&(MaskType|MaskPackage))
	case *TypeSymbol:
		res = s.r.FindIdentInType(env, q.typ, name, mask&(MaskVariable|MaskType))
	default:
		if IsUnknown(qt) {
			s.model.setType(n.Name, s.sy.Unknown)
			return s.sy.Unknown
		}
		res = s.r.FindIdentInType(env, qt, name, mask&(MaskVariable|MaskType))
	}
	s.ss.record(n, name, res)
	return s.model.TypeOf(n)
}

// classLiteral types T.class as Class<T>, boxing primitives.
func (s *solver) classLiteral(env *Env, n *tree.MemberSelect) Type {
	t := s.ss.resolveType(env, n.Expr)
	s.model.setType(n.Name, s.sy.Unknown)
	switch {
	case IsUnknown(t):
		return s.sy.Unknown
	case t.Tag() == TagVoid || IsPrimitive(t):
		t = s.sy.Boxed(t)
	}
	return s.ss.Parameterized(s.sy.completer.ClassSymbol("java.lang.Class"), t)
}

// qualifiedThis types Outer.this and Outer.super, and Iface.super used as
// the target of an interface method call.
func (s *solver) qualifiedThis(env *Env, n *tree.MemberSelect) Type {
	c, ok := s.ss.resolveTypeName(env, n.Expr, MaskType).(*TypeSymbol)
	if !ok {
		s.model.setType(n.Name, s.sy.Unknown)
		return s.sy.Unknown
	}
	var t Type
	switch {
	case n.Name.Name == "this":
		t = s.r.ThisType(c)
	case c.IsInterface():
		t = c.typ
	default:
		t = s.types.Superclass(s.r.ThisType(c))
	}
	if v := lookup(c.Members(), n.Name.Name, isVariable); v != nil {
		s.model.bind(n, v)
	}
	s.model.setType(n.Name, t)
	return t
}

func (s *solver) invocation(env *Env, n *tree.MethodInvocation) Type {
	args := s.args(env, n.Args)
	typeArgs := make([]Type, len(n.TypeArgs))
	for i, ta := range n.TypeArgs {
		typeArgs[i] = s.ss.resolveType(env, ta)
	}

	var (
		res  Resolution
		site Type
		name string
		id   tree.Tree
	)
	switch t := n.Target.(type) {
	case *tree.Identifier:
		name, id = t.Name, t
		c := env.enclosingClass
		switch {
		case name == "this" && c != nil:
			res = s.r.FindMethodIn(env, s.r.ThisType(c), "<init>", args, typeArgs)
		case name == "super" && c != nil:
			sup := s.types.Superclass(s.r.ThisType(c))
			if sup == nil {
				sup = s.sy.ObjectType()
			}
			res = s.r.FindMethodIn(env, sup, "<init>", args, typeArgs)
		default:
			res = s.r.FindMethod(env, name, args, typeArgs)
		}
	case *tree.MemberSelect:
		name, id = t.Name.Name, t
		qs, qt := s.qualifier(env, t.Expr)
		switch q := qs.(type) {
		case *TypeSymbol:
			site = q.typ
		case *PackageSymbol:
			site = s.sy.Unknown
		default:
			site = qt
		}
		if IsUnknown(site) {
			if qs != nil {
				s.model.unresolvedRef(t, name, NotFound)
			}
			s.model.setType(t.Name, s.sy.Unknown)
			s.model.setType(t, s.sy.Unknown)
			return s.sy.Unknown
		}
		res = s.r.FindMethodIn(env, site, name, args, typeArgs)
	default:
		s.expr(env, n.Target, nil)
		return s.sy.Unknown
	}

	s.ss.record(id, name, res)
	if res.Symbol != nil {
		s.model.refs[n] = res.Symbol
	}
	if res.Outcome != Found && res.Outcome != Ambiguous {
		return s.sy.Unknown
	}
	return s.specialResult(site, name, args, res)
}

// specialResult applies the typing rules the declared signatures do not
// express: array clone and getClass.
func (s *solver) specialResult(site Type, name string, args []Type, res Resolution) Type {
	if len(args) != 0 || site == nil {
		return res.Type
	}
	switch name {
	case "clone":
		if site.Tag() == TagArray {
			return site
		}
	case "getClass":
		class := s.sy.completer.ClassSymbol("java.lang.Class")
		return s.ss.Parameterized(class, s.sy.Wildcard(Extends, site.Erasure()))
	}
	return res.Type
}

func (s *solver) newClass(env *Env, n *tree.NewClass, pt Type) Type {
	var t Type
	if n.Outer != nil {
		t = s.innerClassType(env, s.expr(env, n.Outer, nil), n.Type)
	} else {
		t = s.ss.resolveType(env, n.Type)
	}
	if d, ok := n.Type.(*tree.ParameterizedType); ok && len(d.Args) == 0 {
		t = s.inferDiamond(t, pt)
		s.model.setType(n.Type, t)
	}
	typeArgs := make([]Type, len(n.TypeArgs))
	for i, ta := range n.TypeArgs {
		typeArgs[i] = s.ss.resolveType(env, ta)
	}
	args := s.args(env, n.Args)

	var anon *TypeSymbol
	if n.Body != nil {
		anon, _ = s.model.declared[n.Body].(*TypeSymbol)
	}
	if IsUnknown(t) {
		if n.Body != nil {
			s.classDecl(n.Body)
		}
		if anon != nil {
			return anon.typ
		}
		return s.sy.Unknown
	}
	if c := t.Symbol(); anon == nil || !c.IsInterface() {
		res := s.r.FindMethodIn(env, t, "<init>", args, typeArgs)
		if res.Outcome != Found {
			s.model.unresolvedRef(n, c.Name(), res.Outcome)
		}
		if res.Symbol != nil {
			s.model.bind(n, res.Symbol)
		}
	}
	if n.Body != nil {
		s.classDecl(n.Body)
	}
	if anon != nil {
		return anon.typ
	}
	return t
}

// innerClassType resolves the class of outer.new Inner() as a member of
// the outer instance's class.
func (s *solver) innerClassType(env *Env, outer Type, typeTree tree.Expression) Type {
	base, targs := typeTree, []tree.Expression(nil)
	if p, ok := typeTree.(*tree.ParameterizedType); ok {
		base, targs = p.Type, p.Args
	}
	id, ok := base.(*tree.Identifier)
	if !ok || IsUnknown(outer) || s.r.memberSite(outer).Symbol() == nil {
		return s.ss.resolveType(env, typeTree)
	}
	c := s.r.memberSite(outer).Symbol()
	inner, _ := s.ss.record(id, id.Name, s.r.findMemberType(env, c, id.Name, c)).(*TypeSymbol)
	if inner == nil {
		s.model.setType(typeTree, s.sy.Unknown)
		return s.sy.Unknown
	}
	t := inner.typ
	if len(targs) > 0 && len(targs) == len(inner.TypeParameters()) {
		args := make([]Type, len(targs))
		for i, a := range targs {
			args[i] = s.ss.resolveType(env, a)
		}
		t = s.ss.Parameterized(inner, args...)
	}
	s.model.setType(typeTree, t)
	return t
}

// inferDiamond instantiates a raw class type from the expected type:
// new ArrayList<>() assigned to List<String> is ArrayList<String>.
// Classes whose parameters cannot all be inferred stay raw.
func (s *solver) inferDiamond(t, pt Type) Type {
	c, ok := t.(*ClassType)
	target, ok2 := pt.(*ParameterizedType)
	if !ok || !ok2 || !c.sym.IsGeneric() {
		return t
	}
	sup, ok := s.types.asSuper(s.r.ThisType(c.sym), target.sym).(*ParameterizedType)
	if !ok || len(sup.Args) != len(target.Args) {
		return t
	}
	subst := &Substitution{}
	for i, a := range sup.Args {
		v, ok := a.(*TypeVar)
		if !ok {
			continue
		}
		arg := target.Args[i]
		if w, ok := arg.(*WildcardType); ok {
			arg = w.UpperBound()
		}
		subst.add(v, arg)
	}
	args := make([]Type, 0, len(c.sym.typeParams))
	for _, p := range c.sym.TypeParameters() {
		a, ok := subst.Get(p.TypeVar())
		if !ok {
			return t
		}
		args = append(args, a)
	}
	return s.ss.Parameterized(c.sym, args...)
}

func (s *solver) newArray(env *Env, n *tree.NewArray, pt Type) Type {
	var t Type
	if n.ElemType != nil {
		t = s.ss.resolveType(env, n.ElemType)
		for i := 0; i < len(n.Dims)+n.ExtraDims; i++ {
			t = s.sy.ArrayOf(t)
		}
	} else if a, ok := pt.(*ArrayType); ok {
		t = a
	} else {
		t = s.sy.Unknown
	}
	for _, d := range n.Dims {
		s.expr(env, d, s.sy.Int)
	}
	var elem Type
	if a, ok := t.(*ArrayType); ok {
		elem = a.Elem
	}
	for _, i := range n.Init {
		s.expr(env, i, elem)
	}
	return t
}

func (s *solver) literal(n *tree.Literal) Type {
	switch n.LitKind {
	case tree.KindIntLiteral:
		return s.sy.Int
	case tree.KindLongLiteral:
		return s.sy.Long
	case tree.KindFloatLiteral:
		return s.sy.Float
	case tree.KindDoubleLiteral:
		return s.sy.Double
	case tree.KindCharLiteral:
		return s.sy.Char
	case tree.KindStringLiteral:
		return s.sy.StringType()
	case tree.KindBooleanLiteral:
		return s.sy.Boolean
	case tree.KindNullLiteral:
		return s.sy.Null
	}
	return s.sy.Unknown
}

// binary types an operator application by resolving the operator among
// the predefined operator methods.
func (s *solver) binary(env *Env, n *tree.Binary) Type {
	l := s.expr(env, n.Left, nil)
	r := s.expr(env, n.Right, nil)
	return s.operator(n.Op, l, r)
}

func (s *solver) operator(op string, l, r Type) Type {
	if IsUnknown(l) || IsUnknown(r) {
		return s.sy.Unknown
	}
	res := s.r.FindMethodIn(nil, s.sy.predefClass.typ, op, []Type{l, r}, nil)
	if res.Outcome == Found || res.Outcome == Ambiguous {
		return res.Type
	}
	log.Debugf("no operator %s for %s and %s", op, l, r)
	return s.sy.Unknown
}

// compoundAssignment types v op= e. The operator must apply to the
// operands; the result is narrowed back to the variable's type.
func (s *solver) compoundAssignment(v Type, op string, e Type) Type {
	if IsUnknown(v) || IsUnknown(e) {
		return v
	}
	if IsUnknown(s.operator(op, v, e)) {
		return s.sy.Unknown
	}
	return v
}

// conditional types c ? a : b: numeric operands promote, a null operand
// boxes the other, and reference operands meet at their least upper
// bound.
func (s *solver) conditional(a, b, pt Type) Type {
	if IsUnknown(a) || IsUnknown(b) {
		if pt != nil && !IsUnknown(pt) {
			return pt
		}
		return s.sy.Unknown
	}
	if SameType(a, b) {
		return a
	}
	ua, ub := s.types.Unboxed(a), s.types.Unboxed(b)
	if ua != nil && ub != nil {
		if IsNumeric(ua) && IsNumeric(ub) {
			if small(ua) && small(ub) && ua.Tag() != TagChar && ub.Tag() != TagChar {
				return s.sy.Short
			}
			if ua.Tag() == ub.Tag() {
				return ua
			}
			return s.types.BinaryPromotion(ua, ub)
		}
		if ua.Tag() == TagBoolean && ub.Tag() == TagBoolean {
			return s.sy.Boolean
		}
	}
	return s.types.LUB([]Type{a, b})
}

func small(t Type) bool {
	switch t.Tag() {
	case TagByte, TagShort, TagChar:
		return true
	}
	return false
}

func (s *solver) lambda(env *Env, n *tree.Lambda, pt Type) Type {
	lenv := s.envOf(n, env)
	params, ok := s.functionalParams(pt)
	for i, p := range n.Params {
		v, _ := s.model.declared[p].(*VariableSymbol)
		if ok && len(params) == len(n.Params) && p.Type == nil && v != nil && IsUnknown(v.Type()) {
			v.typ = params[i]
		}
		s.variableDecl(lenv, p)
	}
	saved := s.result
	s.result = nil
	switch b := n.Body.(type) {
	case *tree.Block:
		s.stmt(lenv, b)
	case tree.Expression:
		s.expr(lenv, b, nil)
	}
	s.result = saved
	return s.functional(pt)
}

// functionalParams returns the parameter types of the single abstract
// method of the interface t, as seen from t.
func (s *solver) functionalParams(t Type) ([]Type, bool) {
	if t == nil || !IsReference(t) {
		return nil, false
	}
	site := s.r.memberSite(t)
	if c := site.Symbol(); c == nil || !c.IsInterface() {
		return nil, false
	}
	var sam *MethodSymbol
	for _, st := range s.types.Supertypes(site) {
		if !st.Symbol().IsInterface() {
			continue
		}
		for _, m := range st.Symbol().Members().Members() {
			ms, ok := m.(*MethodSymbol)
			if !ok || !ms.Flags().Has(Abstract) || ms.Flags().Has(Static) || objectMethods[ms.Name()] {
				continue
			}
			if sam != nil && (sam.Name() != ms.Name() || len(sam.MethodType().Params) != len(ms.MethodType().Params)) {
				return nil, false
			}
			if sam == nil {
				sam = ms
			}
		}
	}
	if sam == nil {
		return nil, false
	}
	mt, ok := s.types.MemberType(sam, site).(*MethodType)
	if !ok {
		return nil, false
	}
	params := make([]Type, len(mt.Params))
	for i, p := range mt.Params {
		params[i] = p
		if w, ok := p.(*WildcardType); ok {
			params[i] = w.upper
			if w.Bound == Super {
				params[i] = w.Type
			}
		}
	}
	return params, true
}

// objectMethods are the public methods of Object an interface may
// redeclare without making them abstract for lambdas.
var objectMethods = map[string]bool{"equals": true, "hashCode": true, "toString": true}

// functional is the type of a lambda or method reference: its target
// type when one is known.
func (s *solver) functional(pt Type) Type {
	if pt == nil || !IsReference(pt) {
		return s.sy.Unknown
	}
	return pt
}

// methodReference binds the name of Type::method to the method when the
// qualifier's class declares exactly one method of that name.
func (s *solver) methodReference(env *Env, n *tree.MethodReference) {
	qs, qt := s.qualifier(env, n.Expr)
	if c, ok := qs.(*TypeSymbol); ok {
		qt = c.typ
	}
	if n.Name == nil || IsUnknown(qt) {
		return
	}
	name := n.Name.Name
	if name == "new" {
		name = "<init>"
	}
	c := s.r.memberSite(qt).Symbol()
	if c == nil {
		return
	}
	var found []Symbol
	for _, m := range c.Members().LookupLocal(name) {
		if _, ok := m.(*MethodSymbol); ok {
			found = append(found, m)
		}
	}
	if len(found) == 0 && name != "<init>" {
		if res := s.r.FindMethodIn(env, qt, name, nil, nil); res.Symbol != nil {
			found = append(found, res.Symbol)
		}
	}
	if len(found) == 1 {
		s.model.bind(n.Name, found[0])
		s.model.refs[n] = found[0]
	}
	s.model.setType(n.Name, s.sy.Unknown)
}

// switchExpr attributes the selector, the case labels and the bodies. Its
// type, when used as an expression, combines the values produced by
// arrow cases and yield statements.
func (s *solver) switchExpr(env *Env, n *tree.Switch) Type {
	sel := s.expr(env, n.Selector, nil)
	senv := s.envOf(n, env)
	var enum *TypeSymbol
	if c := sel.Symbol(); c != nil && sel.Tag() == TagClass && c.IsEnum() {
		enum = c
	}

	var values []Type
	s.yields = append(s.yields, &values)
	for _, c := range n.Cases {
		for _, l := range c.Labels {
			if id, ok := l.(*tree.Identifier); ok && enum != nil {
				s.ss.record(id, id.Name, s.r.FindIdentInType(senv, enum.typ, id.Name, MaskVariable))
				continue
			}
			s.expr(senv, l, sel)
		}
		if c.Arrow && len(c.Body) == 1 {
			if es, ok := c.Body[0].(*tree.ExpressionStatement); ok {
				values = append(values, s.expr(senv, es.Expr, nil))
				continue
			}
		}
		for _, st := range c.Body {
			s.stmt(senv, st)
		}
	}
	s.yields = s.yields[:len(s.yields)-1]
	return s.switchType(values)
}

func (s *solver) switchType(values []Type) Type {
	if len(values) == 0 {
		return s.sy.Void
	}
	t := values[0]
	for _, v := range values[1:] {
		t = s.conditional(t, v, nil)
	}
	return t
}
