package semantic

// Outcome ranks resolution results; lower is better.
type Outcome int

const (
	Found Outcome = iota
	AccessError
	Ambiguous
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case AccessError:
		return "inaccessible"
	case Ambiguous:
		return "ambiguous"
	}
	return "not found"
}

// Resolution is the result of a lookup. Type is the type of the symbol as
// seen from the lookup site; for methods it is the return type.
type Resolution struct {
	Symbol     Symbol
	Type       Type
	Outcome    Outcome
	Candidates []Symbol

	method *MethodType
	alts   []Resolution
}

func (r Resolution) Resolved() bool { return r.Outcome == Found }

// MethodType is the selected method's signature after substitution.
func (r Resolution) MethodType() *MethodType { return r.method }

func better(a, b Resolution) Resolution {
	if a.Outcome < b.Outcome {
		return a
	}
	return b
}

// Resolve implements name lookup and overload resolution.
type Resolve struct {
	ss      *Session
	symbols *Symbols
	types   *Types
}

func (r *Resolve) notFound() Resolution {
	return Resolution{Outcome: NotFound, Type: r.symbols.Unknown}
}

func (r *Resolve) found(sym Symbol, t Type) Resolution {
	if t == nil {
		t = r.symbols.Unknown
	}
	return Resolution{Symbol: sym, Type: t, Outcome: Found}
}

func (r *Resolve) accessError(sym Symbol) Resolution {
	return Resolution{Symbol: sym, Type: r.symbols.Unknown, Outcome: AccessError}
}

func isVariable(s Symbol) bool {
	_, ok := s.(*VariableSymbol)
	return ok
}

func isType(s Symbol) bool {
	switch s.(type) {
	case *TypeSymbol, *TypeVariableSymbol:
		return true
	}
	return false
}

// lookup walks the scope chain for the innermost symbol matching kind.
func lookup(s *Scope, name string, match func(Symbol) bool) Symbol {
	for sc := s; sc != nil; sc = sc.next {
		for _, sym := range sc.LookupLocal(name) {
			if match(sym) {
				return sym
			}
		}
	}
	return nil
}

// ThisType is the type of this inside c: generic classes are
// parameterized by their own type variables.
func (r *Resolve) ThisType(c *TypeSymbol) Type {
	params := c.TypeParameters()
	if len(params) == 0 {
		return c.typ
	}
	args := make([]Type, len(params))
	for i, p := range params {
		args[i] = p.typ
	}
	return r.ss.cache.parameterized(c, args)
}

// memberSite maps type variables and wildcards to the class whose
// members they expose.
func (r *Resolve) memberSite(t Type) Type {
	return r.memberSites(t)[0]
}

// memberSites is memberSite for type variables with several bounds: the
// greatest lower bound of the bounds comes first, then the others.
func (r *Resolve) memberSites(t Type) []Type {
	for i := 0; i < 8; i++ {
		switch s := t.(type) {
		case *TypeVar:
			if len(s.Bounds) < 2 {
				t = s.UpperBound()
				continue
			}
			glb := r.types.GLB(s.Bounds)
			sites := []Type{r.memberSite(glb)}
			for _, b := range s.Bounds {
				if b != glb {
					sites = append(sites, r.memberSite(b))
				}
			}
			return sites
		case *WildcardType:
			t = s.upper
		default:
			return []Type{t}
		}
	}
	return []Type{r.symbols.ObjectType()}
}

// FindIdent resolves a simple name as a variable, type or package, in
// that order, as permitted by mask.
func (r *Resolve) FindIdent(env *Env, name string, mask KindMask) Resolution {
	best := r.notFound()
	if mask&MaskVariable != 0 {
		res := r.findVar(env, name)
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	if mask&MaskType != 0 {
		res := r.findType(env, name)
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	if mask&MaskPackage != 0 {
		res := r.FindIdentInPackage(env, r.symbols.Root, name, MaskPackage)
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	return best
}

func (r *Resolve) findVar(env *Env, name string) Resolution {
	best := r.notFound()
	for e := env; e.outer != nil; e = e.outer {
		res := r.notFound()
		if sym := lookup(e.scope, name, isVariable); sym != nil {
			res = r.found(sym, sym.Type())
		} else if e.enclosingClass != nil {
			res = r.findField(e, e.enclosingClass, name, r.ThisType(e.enclosingClass))
		}
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	for _, scope := range []*Scope{env.staticNamedImports, env.staticStarImports} {
		if sym := lookup(scope, name, isVariable); sym != nil {
			if !r.IsAccessibleMember(env, EnclosingClass(sym.Owner()), sym) {
				best = better(r.accessError(sym), best)
				continue
			}
			return r.found(sym, sym.Type())
		}
	}
	return best
}

// findField searches c, its superclasses and its interfaces for a field.
// site is the class the access happens through.
func (r *Resolve) findField(env *Env, site *TypeSymbol, name string, c Type) Resolution {
	best := r.notFound()
	sym := c.Symbol()
	if sym == nil {
		return best
	}
	for _, m := range sym.Members().LookupLocal(name) {
		v, ok := m.(*VariableSymbol)
		if !ok {
			continue
		}
		if r.IsAccessibleMember(env, site, v) {
			return r.found(v, r.types.MemberType(v, c))
		}
		return r.accessError(v)
	}
	if sup := r.types.Superclass(c); sup != nil {
		best = better(r.findField(env, site, name, sup), best)
	}
	for _, i := range r.types.Interfaces(c) {
		best = better(r.findField(env, site, name, i), best)
	}
	return best
}

// findMemberType searches c and its supertypes for a nested class.
func (r *Resolve) findMemberType(env *Env, site *TypeSymbol, name string, c *TypeSymbol) Resolution {
	best := r.notFound()
	for _, m := range c.Members().LookupLocal(name) {
		t, ok := m.(*TypeSymbol)
		if !ok {
			continue
		}
		if r.IsAccessibleMember(env, site, t) {
			return r.found(t, t.typ)
		}
		return r.accessError(t)
	}
	if sup := c.Superclass(); sup != nil && sup.Symbol() != nil {
		best = better(r.findMemberType(env, site, name, sup.Symbol()), best)
	}
	for _, i := range c.Interfaces() {
		if i.Symbol() != nil {
			best = better(r.findMemberType(env, site, name, i.Symbol()), best)
		}
	}
	return best
}

func (r *Resolve) findType(env *Env, name string) Resolution {
	best := r.notFound()
	for e := env; e != nil; e = e.outer {
		if sym := lookup(e.scope, name, isType); sym != nil {
			return r.found(sym, sym.Type())
		}
		if e.outer != nil && e.enclosingClass != nil {
			res := r.findMemberType(e, e.enclosingClass, name, e.enclosingClass)
			if res.Outcome == Found {
				return res
			}
			best = better(res, best)
		}
	}

	predef := r.symbols.predefClass
	if res := r.findMemberType(env, predef, name, predef); res.Outcome < best.Outcome {
		return res
	}
	for _, scope := range []*Scope{env.namedImports, env.staticNamedImports} {
		if sym := lookup(scope, name, isType); sym != nil {
			return r.found(sym, sym.Type())
		}
	}
	if env.pkg != nil {
		if res := r.FindIdentInPackage(env, env.pkg, name, MaskType); res.Outcome < best.Outcome {
			return res
		}
	}
	for _, scope := range []*Scope{env.starImports, env.staticStarImports} {
		if sym := lookup(scope, name, isType); sym != nil {
			return r.found(sym, sym.Type())
		}
	}
	lang := r.ss.completer.EnterPackage("java.lang")
	if res := r.FindIdentInPackage(env, lang, name, MaskType); res.Outcome == Found {
		return res
	}
	return best
}

// FindIdentInPackage resolves name as a class or subpackage of site, a
// package or a class.
func (r *Resolve) FindIdentInPackage(env *Env, site Symbol, name string, mask KindMask) Resolution {
	full := r.ss.completer.FormFullName(name, site)
	if mask&MaskType != 0 {
		if sym, ok := r.ss.completer.LoadClass(full); ok {
			if env != nil && !r.IsAccessibleClass(env, sym) {
				return r.accessError(sym)
			}
			return r.found(sym, sym.typ)
		}
	}
	if mask&MaskPackage != 0 {
		if _, ok := site.(*PackageSymbol); ok {
			pkg := r.ss.completer.EnterPackage(full)
			return r.found(pkg, r.symbols.Unknown)
		}
	}
	return r.notFound()
}

// FindIdentInType resolves name as a field or member class of site.
func (r *Resolve) FindIdentInType(env *Env, site Type, name string, mask KindMask) Resolution {
	best := r.notFound()
	for _, s := range r.memberSites(site) {
		res := r.findIdentInSite(env, s, name, mask)
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	return best
}

func (r *Resolve) findIdentInSite(env *Env, site Type, name string, mask KindMask) Resolution {
	best := r.notFound()
	if site == nil || site.Symbol() == nil {
		return best
	}
	c := site.Symbol()
	if mask&MaskVariable != 0 {
		res := r.findField(env, c, name, site)
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	if mask&MaskType != 0 {
		res := r.findMemberType(env, c, name, c)
		if res.Outcome == Found {
			return res
		}
		best = better(res, best)
	}
	return best
}

// FindMethod resolves an unqualified method call: the enclosing classes
// from the innermost out, then static imports.
func (r *Resolve) FindMethod(env *Env, name string, args, typeArgs []Type) Resolution {
	best := r.notFound()
	for e := env; e.outer != nil; e = e.outer {
		if e.enclosingClass == nil {
			continue
		}
		res := r.FindMethodIn(e, r.ThisType(e.enclosingClass), name, args, typeArgs)
		if res.Outcome == Found || res.Outcome == Ambiguous {
			return res
		}
		best = better(res, best)
	}
	for _, boxing := range []bool{false, true} {
		for _, scope := range []*Scope{env.staticNamedImports, env.staticStarImports} {
			res := r.selectImported(env, scope, name, args, boxing)
			res = r.instantiate(res, typeArgs, args)
			if res.Outcome == Found {
				return res
			}
			best = better(res, best)
		}
	}
	return best
}

func (r *Resolve) selectImported(env *Env, scope *Scope, name string, args []Type, boxing bool) Resolution {
	best := r.notFound()
	if scope == nil {
		return best
	}
	for _, s := range scope.LookupLocal(name) {
		m, ok := s.(*MethodSymbol)
		if !ok {
			continue
		}
		owner := EnclosingClass(m.Owner())
		best = r.selectBest(env, owner, owner.typ, args, m, best, boxing)
	}
	return best
}

// FindMethodIn resolves a method of site applicable to args, first
// without and then with boxing conversions. Constructors are looked up
// by the name <init>.
func (r *Resolve) FindMethodIn(env *Env, site Type, name string, args, typeArgs []Type) Resolution {
	if site == nil {
		return r.notFound()
	}
	best := r.notFound()
	for _, s := range r.memberSites(site) {
		res := r.findMethodInSite(env, s, name, args, typeArgs)
		if res.Outcome == Found || res.Outcome == Ambiguous {
			return res
		}
		best = better(res, best)
	}
	return best
}

func (r *Resolve) findMethodInSite(env *Env, site Type, name string, args, typeArgs []Type) Resolution {
	if site == nil || site.Symbol() == nil {
		return r.notFound()
	}
	if name == "<init>" {
		if c := site.Symbol(); isInner(c) {
			outer := EnclosingClass(c.owner)
			args = append([]Type{r.ThisType(outer)}, args...)
		}
	}
	res := r.lookupMethod(env, site, name, args, false)
	if res.Outcome != Found {
		if loose := r.lookupMethod(env, site, name, args, true); loose.Outcome <= res.Outcome {
			res = loose
		}
	}
	return r.instantiate(res, typeArgs, args)
}

func (r *Resolve) lookupMethod(env *Env, site Type, name string, args []Type, boxing bool) Resolution {
	best := r.notFound()
	c := site.Symbol()
	for _, s := range c.Members().LookupLocal(name) {
		if m, ok := s.(*MethodSymbol); ok {
			best = r.selectBest(env, c, site, args, m, best, boxing)
		}
	}
	if name == "<init>" {
		return best
	}
	if sup := r.types.Superclass(site); sup != nil {
		best = r.mergeInherited(env, c, site, args, r.lookupMethod(env, sup, name, args, boxing), best, boxing)
	} else if c.IsInterface() {
		obj := r.symbols.ObjectType()
		best = r.mergeInherited(env, c, site, args, r.lookupMethod(env, obj, name, args, boxing), best, boxing)
	}
	for _, i := range r.types.Interfaces(site) {
		best = r.mergeInherited(env, c, site, args, r.lookupMethod(env, i, name, args, boxing), best, boxing)
	}
	return best
}

// mergeInherited re-runs selection for candidates found in a supertype
// so they compete with the ones found so far.
func (r *Resolve) mergeInherited(env *Env, c *TypeSymbol, site Type, args []Type, res, best Resolution, boxing bool) Resolution {
	switch res.Outcome {
	case Found:
		return r.selectBest(env, c, site, args, res.Symbol.(*MethodSymbol), best, boxing)
	case Ambiguous:
		for _, alt := range res.alts {
			best = r.selectBest(env, c, site, args, alt.Symbol.(*MethodSymbol), best, boxing)
		}
		return best
	}
	return better(best, res)
}

func (r *Resolve) resultOf(mt *MethodType) Type {
	if mt.Result == nil {
		return r.symbols.Void
	}
	return mt.Result
}

// selectBest keeps the most specific of best and m when m is inherited
// into c, applicable to args and accessible.
func (r *Resolve) selectBest(env *Env, c *TypeSymbol, site Type, args []Type, m *MethodSymbol, best Resolution, boxing bool) Resolution {
	if !r.IsInheritedIn(m, c) {
		return best
	}
	mt, ok := r.types.MemberType(m, site).(*MethodType)
	if !ok {
		return best
	}
	if !r.isArgumentsAcceptable(args, mt.Params, m.IsVarargs(), boxing) {
		return best
	}
	if !r.IsAccessibleMember(env, c, m) {
		if best.Outcome == Found || best.Outcome == Ambiguous {
			return best
		}
		return r.accessError(m)
	}
	cand := Resolution{Symbol: m, Type: r.resultOf(mt), Outcome: Found, method: mt}
	return r.mostSpecific(args, cand, best)
}

func (r *Resolve) mostSpecific(args []Type, cand, best Resolution) Resolution {
	switch best.Outcome {
	case Found:
		if best.Symbol == cand.Symbol {
			return best
		}
		m1 := r.isSignatureMoreSpecific(args, cand, best)
		m2 := r.isSignatureMoreSpecific(args, best, cand)
		switch {
		case m1 && m2:
			// Same signature, typically an override: keep the first found.
			return best
		case m1:
			return cand
		case m2:
			return best
		}
		return r.ambiguous([]Resolution{best, cand})
	case Ambiguous:
		dominatesAll := true
		for _, alt := range best.alts {
			if alt.Symbol == cand.Symbol {
				return best
			}
			m1 := r.isSignatureMoreSpecific(args, cand, alt)
			m2 := r.isSignatureMoreSpecific(args, alt, cand)
			if m2 && !m1 {
				return best
			}
			dominatesAll = dominatesAll && m1
		}
		if dominatesAll {
			return cand
		}
		return r.ambiguous(append(append([]Resolution{}, best.alts...), cand))
	}
	return cand
}

// ambiguous keeps the common return type when all candidates agree.
func (r *Resolve) ambiguous(alts []Resolution) Resolution {
	res := Resolution{Outcome: Ambiguous, alts: alts, Symbol: alts[0].Symbol, Type: alts[0].Type, method: alts[0].method}
	for _, a := range alts {
		res.Candidates = append(res.Candidates, a.Symbol)
		if !SameType(a.Type, res.Type) {
			res.Type = r.symbols.Unknown
		}
	}
	return res
}

func isVarargs(res Resolution) bool {
	m, ok := res.Symbol.(*MethodSymbol)
	return ok && m.IsVarargs()
}

// isSignatureMoreSpecific reports whether m1's parameters are acceptable
// to m2. A fixed arity method beats a variable arity one unless the last
// argument is already an array.
func (r *Resolve) isSignatureMoreSpecific(args []Type, m1, m2 Resolution) bool {
	v1, v2 := isVarargs(m1), isVarargs(m2)
	if v1 != v2 {
		lastIsArray := len(args) > 0 && args[len(args)-1].Tag() == TagArray
		return lastIsArray != v2
	}
	return r.isArgumentsAcceptable(m1.method.Params, m2.method.Params, v2, false)
}

func (r *Resolve) isArgumentsAcceptable(args, formals []Type, varargs, boxing bool) bool {
	if varargs {
		if len(formals) == 0 {
			varargs = false
		} else if _, ok := formals[len(formals)-1].(*ArrayType); !ok {
			varargs = false
		}
	}
	nb := len(args) - len(formals)
	if varargs {
		nb++
		if nb < 0 {
			return false
		}
		elem := formals[len(formals)-1].(*ArrayType)
		for i := 1; i <= nb; i++ {
			arg := args[len(args)-i]
			if !r.isAcceptableType(arg, elem.Elem, boxing) && !(nb == 1 && r.types.IsSubtype(arg, elem)) {
				return false
			}
		}
	} else if nb != 0 {
		return false
	}
	for i := 0; i < len(args)-nb; i++ {
		if !r.isAcceptableType(args[i], formals[i], boxing) {
			return false
		}
	}
	return true
}

func (r *Resolve) isAcceptableType(arg, formal Type, boxing bool) bool {
	if IsUnknown(arg) || IsUnknown(formal) {
		return true
	}
	switch f := formal.(type) {
	case *TypeVar:
		if arg.Tag() == TagBot {
			return true
		}
		if IsPrimitive(arg) {
			if !boxing {
				return false
			}
			arg = r.symbols.Boxed(arg)
		}
		sub := arg.Erasure()
		if v, ok := arg.(*TypeVar); ok {
			if v.sym == f.sym {
				return true
			}
			sub = v
		}
		for _, b := range f.Bounds {
			if !r.types.IsSubtype(sub, b.Erasure()) {
				return false
			}
		}
		return true
	case *ArrayType:
		a, ok := arg.(*ArrayType)
		if !ok {
			return arg.Tag() == TagBot
		}
		if IsPrimitive(a.Elem) || IsPrimitive(f.Elem) {
			return IsPrimitive(a.Elem) && IsPrimitive(f.Elem) && a.Elem.Tag() == f.Elem.Tag()
		}
		return r.isAcceptableType(a.Elem, f.Elem, false)
	}
	if r.types.IsSubtype(arg.Erasure(), formal.Erasure()) {
		return true
	}
	return boxing && r.acceptableByBoxing(arg, formal)
}

func (r *Resolve) acceptableByBoxing(arg, formal Type) bool {
	if IsPrimitive(arg) {
		b := r.symbols.Boxed(arg)
		return b != nil && r.types.IsSubtype(b, formal.Erasure())
	}
	if u := r.symbols.Unboxed(arg); u != nil {
		return r.types.IsSubtype(u, formal)
	}
	return false
}

// instantiate applies explicit type arguments to a generic method, or
// infers them from the arguments. Unbound variables are erased.
func (r *Resolve) instantiate(res Resolution, typeArgs, args []Type) Resolution {
	if res.Outcome != Found || res.method == nil || len(res.method.TypeParams) == 0 {
		return res
	}
	mt := res.method
	s := &Substitution{}
	if len(typeArgs) == len(mt.TypeParams) {
		for i, v := range mt.TypeParams {
			s.add(v, typeArgs[i])
		}
	} else {
		r.infer(s, mt, args, isVarargs(res))
		for _, v := range mt.TypeParams {
			if _, ok := s.Get(v); !ok {
				s.add(v, v.Erasure())
			}
		}
	}
	inst := r.ss.Substitute(mt, s).(*MethodType)
	res.method = inst
	res.Type = r.resultOf(inst)
	return res
}

func (r *Resolve) infer(s *Substitution, mt *MethodType, args []Type, varargs bool) {
	own := func(v *TypeVar) bool {
		for _, p := range mt.TypeParams {
			if p == v {
				return true
			}
		}
		return false
	}
	var bind func(formal, arg Type, depth int)
	bind = func(formal, arg Type, depth int) {
		if arg == nil || IsUnknown(arg) || arg.Tag() == TagBot || depth > 4 {
			return
		}
		switch f := formal.(type) {
		case *TypeVar:
			if !own(f) {
				return
			}
			if _, bound := s.Get(f); bound {
				return
			}
			if IsPrimitive(arg) {
				arg = r.symbols.Boxed(arg)
			}
			if w, ok := arg.(*WildcardType); ok {
				arg = w.upper
			}
			s.add(f, arg)
		case *ArrayType:
			if a, ok := arg.(*ArrayType); ok {
				bind(f.Elem, a.Elem, depth+1)
			}
		case *ParameterizedType:
			if p, ok := r.types.asSuper(arg, f.sym).(*ParameterizedType); ok {
				for i := range f.Args {
					if i < len(p.Args) {
						bind(f.Args[i], p.Args[i], depth+1)
					}
				}
			}
		case *WildcardType:
			if f.Bound != Unbounded {
				bind(f.Type, arg, depth+1)
			}
		}
	}
	n := len(mt.Params)
	for i, arg := range args {
		if n == 0 {
			break
		}
		formal := mt.Params[min(i, n-1)]
		if varargs && i >= n-1 {
			if a, ok := formal.(*ArrayType); ok && !(len(args) == n && arg.Tag() == TagArray) {
				formal = a.Elem
			}
		}
		if i >= n && !varargs {
			break
		}
		bind(formal, arg, 0)
	}
}
