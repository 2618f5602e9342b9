package semantic

import (
	"github.com/dhamidi/javasem/tree"
)

// firstPass enters a symbol for every declaration of the unit and records
// the environment of every scope-introducing tree. Nothing is resolved
// here except imports; symbols carry the second pass as completer.
type firstPass struct {
	ss       *Session
	model    *Model
	worklist []Symbol
}

// importSites collects the packages and classes of star imports; the
// on-demand scopes consult them lazily.
type importSites struct {
	sites []Symbol
}

func (fp *firstPass) run(unit *tree.CompilationUnit) {
	pkg := fp.ss.symbols.Root
	if name := tree.QualifiedName(unit.Package); name != "" {
		pkg = fp.ss.completer.EnterPackage(name)
		fp.bindPackageName(unit.Package, pkg)
	}

	// The unit scope binds only the unit's own top-level classes; other
	// classes of the package are found after named imports.
	stars, staticStars := &importSites{}, &importSites{}
	env := &Env{
		pkg:                pkg,
		scope:              NewScope(pkg),
		namedImports:       NewScope(pkg),
		staticNamedImports: NewScope(pkg),
		starImports:        newOnDemandScope(pkg, fp.starLookup(stars)),
		staticStarImports:  newOnDemandScope(pkg, fp.staticStarLookup(staticStars)),
	}
	fp.model.envs[unit] = env

	for _, c := range unit.Types {
		fp.classDecl(env, c, nil, nil)
	}
	for _, imp := range unit.Imports {
		fp.importDecl(env, imp, stars, staticStars)
	}

	for i := 0; i < len(fp.worklist); i++ {
		complete(fp.worklist[i])
	}
	log.Debugf("%s: entered %d symbols", unit.File, len(fp.worklist))
}

// bindPackageName binds every segment of a package name to its package.
func (fp *firstPass) bindPackageName(e tree.Expression, pkg *PackageSymbol) {
	for pkg != nil && e != nil {
		fp.model.bind(e, pkg)
		fp.model.setType(e, fp.ss.symbols.Unknown)
		sel, ok := e.(*tree.MemberSelect)
		if !ok {
			return
		}
		e = sel.Expr
		pkg, _ = pkg.owner.(*PackageSymbol)
	}
}

func (fp *firstPass) starLookup(stars *importSites) func(string) []Symbol {
	return func(name string) []Symbol {
		var out []Symbol
		for _, site := range stars.sites {
			switch s := site.(type) {
			case *PackageSymbol:
				if c, ok := fp.ss.completer.LoadClass(fp.ss.completer.FormFullName(name, s)); ok {
					out = append(out, c)
				}
			case *TypeSymbol:
				for _, m := range s.Members().LookupLocal(name) {
					if _, ok := m.(*TypeSymbol); ok {
						out = append(out, m)
					}
				}
			}
		}
		return out
	}
}

func (fp *firstPass) staticStarLookup(stars *importSites) func(string) []Symbol {
	return func(name string) []Symbol {
		var out []Symbol
		for _, site := range stars.sites {
			if c, ok := site.(*TypeSymbol); ok {
				out = append(out, staticMembers(c, name)...)
			}
		}
		return out
	}
}

// staticMembers lists the static members of c called name, including
// those inherited from its supertypes.
func staticMembers(c *TypeSymbol, name string) []Symbol {
	var out []Symbol
	seen := map[*TypeSymbol]bool{}
	var walk func(c *TypeSymbol)
	walk = func(c *TypeSymbol) {
		if c == nil || seen[c] {
			return
		}
		seen[c] = true
		for _, m := range c.Members().LookupLocal(name) {
			if m.Flags().Has(Static) {
				out = append(out, m)
			}
		}
		if sup := c.Superclass(); sup != nil {
			walk(sup.Symbol())
		}
		for _, i := range c.Interfaces() {
			walk(i.Symbol())
		}
	}
	walk(c)
	return out
}

func (fp *firstPass) importDecl(env *Env, imp *tree.Import, stars, staticStars *importSites) {
	switch {
	case imp.Star && !imp.Static:
		if sym := fp.resolveQualified(env, imp.Name, MaskType|MaskPackage); sym != nil {
			stars.sites = append(stars.sites, sym)
		}
	case imp.Star:
		if sym, ok := fp.resolveQualified(env, imp.Name, MaskType).(*TypeSymbol); ok {
			staticStars.sites = append(staticStars.sites, sym)
		}
	case imp.Static:
		sel, ok := imp.Name.(*tree.MemberSelect)
		if !ok {
			return
		}
		owner, ok := fp.resolveQualified(env, sel.Expr, MaskType).(*TypeSymbol)
		if !ok {
			return
		}
		members := staticMembers(owner, sel.Name.Name)
		if len(members) == 0 {
			fp.model.unresolvedRef(sel, sel.Name.Name, NotFound)
			fp.model.setType(sel, fp.ss.symbols.Unknown)
			return
		}
		for _, m := range members {
			if !env.staticNamedImports.contains(m) {
				env.staticNamedImports.Enter(m)
			}
		}
		fp.model.bind(sel, members[0])
		fp.model.setType(sel, fp.ss.symbols.Unknown)
	default:
		sym, ok := fp.resolveQualified(env, imp.Name, MaskType).(*TypeSymbol)
		if ok && !env.namedImports.contains(sym) {
			env.namedImports.Enter(sym)
		}
	}
}

// resolveQualified resolves a fully qualified package or type name,
// binding each segment. It returns nil and records the failing segment
// when the name does not resolve.
func (fp *firstPass) resolveQualified(env *Env, e tree.Expression, mask KindMask) Symbol {
	r := fp.ss.resolve
	var (
		res  Resolution
		name string
	)
	switch n := e.(type) {
	case *tree.Identifier:
		name = n.Name
		res = r.FindIdentInPackage(env, r.symbols.Root, name, mask)
	case *tree.MemberSelect:
		q := fp.resolveQualified(env, n.Expr, MaskType|MaskPackage)
		if q == nil {
			return nil
		}
		name = n.Name.Name
		switch q := q.(type) {
		case *PackageSymbol:
			res = r.FindIdentInPackage(env, q, name, mask)
		case *TypeSymbol:
			res = r.findMemberType(env, q, name, q)
		}
	default:
		return nil
	}
	if res.Symbol == nil || res.Outcome != Found && res.Outcome != AccessError {
		fp.model.unresolvedRef(e, name, res.Outcome)
		fp.model.setType(e, fp.ss.symbols.Unknown)
		return nil
	}
	if res.Outcome == AccessError {
		fp.model.unresolvedRef(e, name, res.Outcome)
	}
	fp.model.bind(e, res.Symbol)
	fp.model.setType(e, res.Type)
	return res.Symbol
}

// classDecl enters a class, its type parameters and its members. base is
// the instantiated type of an anonymous class body; baseType is set
// instead for enum constant bodies.
func (fp *firstPass) classDecl(env *Env, decl *tree.ClassDecl, base tree.Expression, baseType Type) *TypeSymbol {
	owner := env.scope.owner
	flags := FlagsFromModifiers(decl.Modifiers)
	switch decl.DeclKind {
	case tree.KindInterface:
		flags |= Interface | Abstract
	case tree.KindAnnotationType:
		flags |= Interface | Annotation | Abstract
	case tree.KindEnum:
		flags |= Enum | Final
	case tree.KindRecord:
		flags |= Final
	}
	if oc, ok := owner.(*TypeSymbol); ok {
		if decl.DeclKind != tree.KindClass {
			flags |= Static
		}
		if oc.flags.Has(Interface) {
			flags |= Public | Static
		}
	}

	sym := &TypeSymbol{
		symbol:       symbol{name: nameOf(decl.Name), owner: owner, flags: flags},
		decl:         decl,
		anonBase:     base,
		anonBaseType: baseType,
	}
	sym.members = NewScope(sym)
	sym.typ = &ClassType{sym: sym}
	sym.setCompleter(fp.ss.second)
	if decl.Name != nil {
		env.scope.Enter(sym)
		if pkg, ok := owner.(*PackageSymbol); ok && !pkg.members.contains(sym) {
			pkg.members.Enter(sym)
		}
		if isMemberChain(sym) {
			fp.ss.completer.RegisterClass(sym)
		}
	}

	sym.typeScope = env.scope.childOwnedBy(sym)
	headerEnv := env.dup()
	headerEnv.scope = sym.typeScope
	for _, tp := range decl.TypeParams {
		tv := fp.ss.symbols.newTypeVariable(nameOf(tp.Name), sym)
		tv.decl = tp
		sym.typeScope.Enter(tv)
		sym.typeParams = append(sym.typeParams, tv)
		fp.model.declare(tp, tv, headerEnv)
	}
	fp.model.declare(decl, sym, headerEnv)

	classEnv := headerEnv.dup()
	classEnv.outer = headerEnv
	classEnv.enclosingClass = sym
	classEnv.scope = sym.members
	fp.model.envs[decl] = classEnv

	fp.worklist = append(fp.worklist, sym)
	fp.members(classEnv, sym, decl)
	return sym
}

// isMemberChain reports whether sym is a top-level or member class, one
// reachable by a binary name.
func isMemberChain(sym *TypeSymbol) bool {
	for s := sym.owner; s != nil; s = s.Owner() {
		switch s.(type) {
		case *PackageSymbol:
			return true
		case *TypeSymbol:
			continue
		}
		return false
	}
	return false
}

func nameOf(id *tree.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func (fp *firstPass) members(env *Env, sym *TypeSymbol, decl *tree.ClassDecl) {
	iface := sym.flags.Has(Interface)
	for _, rc := range decl.RecordComponents {
		fp.variable(env, rc, Private|Final)
	}
	for _, m := range decl.Members {
		switch m := m.(type) {
		case *tree.VariableDecl:
			var extra Flags
			if iface {
				extra = Public | Static | Final
			}
			fp.variable(env, m, extra)
		case *tree.MethodDecl:
			fp.method(env, sym, m)
		case *tree.ClassDecl:
			fp.classDecl(env, m, nil, nil)
		case *tree.Block:
			fp.statement(env, m)
		case *tree.EnumConstant:
			fp.enumConstant(env, sym, m)
		}
	}
	switch decl.DeclKind {
	case tree.KindEnum:
		fp.enumMembers(sym)
	case tree.KindRecord:
		fp.recordMembers(env, sym, decl)
	}
}

func (fp *firstPass) method(env *Env, owner *TypeSymbol, decl *tree.MethodDecl) {
	flags := FlagsFromModifiers(decl.Modifiers)
	name := "<init>"
	if !decl.IsConstructor() {
		name = nameOf(decl.Name)
	}
	if owner.flags.Has(Interface) {
		if !flags.Has(Private) {
			flags |= Public
		}
		switch {
		case decl.Body == nil && !flags.Has(Static):
			flags |= Abstract
		case decl.Body != nil && !flags.Has(Static|Private):
			flags |= Default
		}
	}
	if owner.flags.Has(Enum) && decl.IsConstructor() {
		flags = flags&^AccessFlags | Private
	}
	if n := len(decl.Params); n > 0 && decl.Params[n-1].Varargs {
		flags |= Varargs
	}
	_, methodEnv := fp.newMethod(env, owner, name, flags, decl.TypeParams, decl.ReturnType, decl.Params, decl.Throws, decl)
	if decl.Body != nil {
		fp.statement(methodEnv, decl.Body)
	}
	fp.expr(methodEnv, decl.DefaultValue)
}

// newMethod enters a method symbol with its type parameter and parameter
// scopes. Synthesized members pass a nil decl.
func (fp *firstPass) newMethod(env *Env, owner *TypeSymbol, name string, flags Flags, typeParams []*tree.TypeParameter,
	ret tree.Expression, params []*tree.VariableDecl, throws []tree.Expression, decl *tree.MethodDecl) (*MethodSymbol, *Env) {
	m := &MethodSymbol{
		symbol:     symbol{name: name, owner: owner, flags: flags},
		decl:       decl,
		returnTree: ret,
		paramTrees: params,
		throwTrees: throws,
	}
	m.setCompleter(fp.ss.second)
	env.scope.Enter(m)

	m.typeScope = env.scope.childOwnedBy(m)
	m.paramScope = m.typeScope.Child()
	methodEnv := env.dup()
	methodEnv.scope = m.paramScope
	for _, tp := range typeParams {
		tv := fp.ss.symbols.newTypeVariable(nameOf(tp.Name), m)
		tv.decl = tp
		m.typeScope.Enter(tv)
		m.typeParams = append(m.typeParams, tv)
		fp.model.declare(tp, tv, methodEnv)
	}
	for _, p := range params {
		v := &VariableSymbol{symbol: symbol{name: nameOf(p.Name), owner: m, flags: FlagsFromModifiers(p.Modifiers)}, decl: p}
		if p.Varargs {
			v.flags |= Varargs
		}
		v.setCompleter(fp.ss.second)
		m.paramScope.Enter(v)
		m.params = append(m.params, v)
		if _, dup := fp.model.declared[p]; dup || decl == nil {
			fp.model.symbolEnvs[v] = methodEnv
		} else {
			fp.model.declare(p, v, methodEnv)
		}
		fp.worklist = append(fp.worklist, v)
	}
	if decl != nil {
		fp.model.declare(decl, m, methodEnv)
		fp.model.envs[decl] = methodEnv
	} else {
		fp.model.symbolEnvs[m] = methodEnv
	}
	fp.worklist = append(fp.worklist, m)
	return m, methodEnv
}

// enumMembers adds the implicit values and valueOf methods.
func (fp *firstPass) enumMembers(sym *TypeSymbol) {
	s := fp.ss.symbols
	if !hasMethod(sym, "values", 0) {
		values := &MethodSymbol{symbol: symbol{name: "values", owner: sym, flags: Public | Static,
			typ: &MethodType{Result: s.ArrayOf(sym.typ)}}}
		sym.members.Enter(values)
	}
	if !hasMethod(sym, "valueOf", 1) {
		valueOf := &MethodSymbol{symbol: symbol{name: "valueOf", owner: sym, flags: Public | Static,
			typ: &MethodType{Params: []Type{s.StringType()}, Result: sym.typ}}}
		name := &VariableSymbol{symbol: symbol{name: "name", owner: valueOf, typ: s.StringType()}}
		valueOf.params = []*VariableSymbol{name}
		sym.members.Enter(valueOf)
	}
}

// recordMembers adds an accessor per component and the canonical
// constructor unless the record declares them.
func (fp *firstPass) recordMembers(env *Env, sym *TypeSymbol, decl *tree.ClassDecl) {
	for _, rc := range decl.RecordComponents {
		if hasMethod(sym, nameOf(rc.Name), 0) {
			continue
		}
		fp.newMethod(env, sym, nameOf(rc.Name), Public, nil, rc.Type, nil, nil, nil)
	}
	if !hasMethod(sym, "<init>", len(decl.RecordComponents)) {
		flags := sym.flags&AccessFlags | varargsOf(decl.RecordComponents)
		fp.newMethod(env, sym, "<init>", flags, nil, nil, decl.RecordComponents, nil, nil)
	}
}

func varargsOf(params []*tree.VariableDecl) Flags {
	if n := len(params); n > 0 && params[n-1].Varargs {
		return Varargs
	}
	return 0
}

// hasMethod reports whether the source class declares a method with the
// given name and arity.
func hasMethod(sym *TypeSymbol, name string, arity int) bool {
	for _, s := range sym.members.LookupLocal(name) {
		if m, ok := s.(*MethodSymbol); ok && len(m.params) == arity {
			return true
		}
	}
	return false
}

func (fp *firstPass) enumConstant(env *Env, enum *TypeSymbol, ec *tree.EnumConstant) {
	flags := FlagsFromModifiers(ec.Modifiers) | Public | Static | Final | Enum
	v := &VariableSymbol{symbol: symbol{name: nameOf(ec.Name), owner: enum, flags: flags, typ: enum.typ}, enumDecl: ec}
	env.scope.Enter(v)
	fp.model.declare(ec, v, env)
	for _, a := range ec.Args {
		fp.expr(env, a)
	}
	if ec.Body != nil {
		fp.classDecl(env, ec.Body, nil, enum.typ)
	}
}

func (fp *firstPass) variable(env *Env, decl *tree.VariableDecl, extra Flags) *VariableSymbol {
	flags := FlagsFromModifiers(decl.Modifiers) | extra
	if decl.Varargs {
		flags |= Varargs
	}
	v := &VariableSymbol{symbol: symbol{name: nameOf(decl.Name), owner: env.scope.owner, flags: flags}, decl: decl}
	v.setCompleter(fp.ss.second)
	env.scope.Enter(v)
	fp.model.declare(decl, v, env)
	fp.worklist = append(fp.worklist, v)
	fp.expr(env, decl.Init)
	return v
}

// scoped opens a child scope for t.
func (fp *firstPass) scoped(env *Env, t tree.Tree) *Env {
	e := env.dup()
	e.scope = env.scope.Child()
	fp.model.envs[t] = e
	return e
}

func (fp *firstPass) block(env *Env, b *tree.Block) {
	if b != nil {
		fp.statement(env, b)
	}
}

func (fp *firstPass) statement(env *Env, s tree.Statement) {
	switch s := s.(type) {
	case nil:
	case *tree.Block:
		benv := fp.scoped(env, s)
		for _, st := range s.Statements {
			fp.statement(benv, st)
		}
	case *tree.VariableDecl:
		fp.variable(env, s, 0)
	case *tree.ClassDecl:
		fp.classDecl(env, s, nil, nil)
	case *tree.ExpressionStatement:
		fp.expr(env, s.Expr)
	case *tree.If:
		fp.expr(env, s.Cond)
		fp.statement(env, s.Then)
		fp.statement(env, s.Else)
	case *tree.While:
		fp.expr(env, s.Cond)
		fp.statement(env, s.Body)
	case *tree.DoWhile:
		fp.statement(env, s.Body)
		fp.expr(env, s.Cond)
	case *tree.For:
		fenv := fp.scoped(env, s)
		for _, st := range s.Init {
			fp.statement(fenv, st)
		}
		fp.expr(fenv, s.Cond)
		for _, st := range s.Update {
			fp.statement(fenv, st)
		}
		fp.statement(fenv, s.Body)
	case *tree.ForEach:
		fp.expr(env, s.Iterable)
		fenv := fp.scoped(env, s)
		if s.Var != nil {
			fp.variable(fenv, s.Var, 0)
		}
		fp.statement(fenv, s.Body)
	case *tree.Return:
		fp.expr(env, s.Expr)
	case *tree.Throw:
		fp.expr(env, s.Expr)
	case *tree.Yield:
		fp.expr(env, s.Expr)
	case *tree.Try:
		tenv := fp.scoped(env, s)
		for _, r := range s.Resources {
			switch r := r.(type) {
			case *tree.VariableDecl:
				fp.variable(tenv, r, Final)
			case tree.Expression:
				fp.expr(tenv, r)
			}
		}
		fp.block(tenv, s.Body)
		for _, c := range s.Catches {
			cenv := fp.scoped(env, c)
			if c.Param != nil {
				fp.variable(cenv, c.Param, 0)
			}
			fp.block(cenv, c.Body)
		}
		fp.block(env, s.Finally)
	case *tree.Switch:
		fp.switchBody(env, s)
	case *tree.Labeled:
		l := &LabelSymbol{symbol: symbol{name: nameOf(s.Label), owner: env.scope.owner}, stmt: s}
		fp.model.declare(s, l, env)
		fp.statement(env, s.Body)
	case *tree.Synchronized:
		fp.expr(env, s.Lock)
		fp.block(env, s.Body)
	case *tree.Assert:
		fp.expr(env, s.Cond)
		fp.expr(env, s.Detail)
	}
}

func (fp *firstPass) switchBody(env *Env, s *tree.Switch) {
	fp.expr(env, s.Selector)
	senv := fp.scoped(env, s)
	for _, c := range s.Cases {
		for _, l := range c.Labels {
			fp.expr(senv, l)
		}
		for _, st := range c.Body {
			fp.statement(senv, st)
		}
	}
}

// expr finds the declarations nested in an expression: lambda
// parameters, anonymous classes, pattern bindings and switch bodies.
func (fp *firstPass) expr(env *Env, e tree.Expression) {
	if e == nil {
		return
	}
	tree.Inspect(e, func(t tree.Tree) bool {
		switch n := t.(type) {
		case *tree.Lambda:
			lenv := fp.scoped(env, n)
			for _, p := range n.Params {
				fp.variable(lenv, p, 0)
			}
			switch b := n.Body.(type) {
			case *tree.Block:
				fp.statement(lenv, b)
			case tree.Expression:
				fp.expr(lenv, b)
			}
			return false
		case *tree.NewClass:
			if n.Body == nil {
				return true
			}
			fp.expr(env, n.Outer)
			for _, a := range n.Args {
				fp.expr(env, a)
			}
			fp.classDecl(env, n.Body, n.Type, nil)
			return false
		case *tree.InstanceOf:
			if n.Binding == nil {
				return true
			}
			fp.expr(env, n.Expr)
			fp.variable(env, n.Binding, 0)
			return false
		case *tree.Switch:
			fp.switchBody(env, n)
			return false
		}
		return true
	})
}
