package semantic

// IsAccessibleClass reports whether class c can be named from env.
func (r *Resolve) IsAccessibleClass(env *Env, c *TypeSymbol) bool {
	if env == nil {
		return true
	}
	switch c.Flags().Access() {
	case Public:
		return true
	case Private:
		return env.enclosingClass != nil && OutermostClass(env.enclosingClass) == OutermostClass(c.owner)
	case Protected:
		return env.pkg == PackageOf(c) || r.isInnerSubClass(env.enclosingClass, c.owner)
	}
	return env.pkg == PackageOf(c)
}

// IsAccessibleMember reports whether sym, a member accessed through class
// site, is accessible from env.
func (r *Resolve) IsAccessibleMember(env *Env, site *TypeSymbol, sym Symbol) bool {
	if env == nil || site == nil {
		return true
	}
	switch sym.Flags().Access() {
	case Public:
		return r.IsAccessibleClass(env, site) && r.IsInheritedIn(sym, site)
	case Private:
		owner := EnclosingClass(sym.Owner())
		return env.enclosingClass != nil &&
			OutermostClass(env.enclosingClass) == OutermostClass(owner) &&
			r.IsInheritedIn(sym, site)
	case Protected:
		return (env.pkg == PackageOf(sym) || r.isProtectedAccessible(sym, env.enclosingClass, site)) &&
			r.IsAccessibleClass(env, site) &&
			r.IsInheritedIn(sym, site)
	}
	return env.pkg == PackageOf(sym) && r.IsAccessibleClass(env, site) && r.IsInheritedIn(sym, site)
}

// isProtectedAccessible walks c and its enclosing classes looking for a
// subclass of sym's owner through which the access is legal.
func (r *Resolve) isProtectedAccessible(sym Symbol, c, site *TypeSymbol) bool {
	owner := EnclosingClass(sym.Owner())
	for ; c != nil; c = EnclosingClass(c.owner) {
		if !r.types.IsSubclass(c, owner) {
			continue
		}
		if sym.Flags().Has(Static) || sym.Kind() == KindType || isConstructor(sym) || r.types.IsSubclass(site, c) {
			return true
		}
	}
	return false
}

func isConstructor(sym Symbol) bool {
	m, ok := sym.(*MethodSymbol)
	return ok && m.IsConstructor()
}

// isInnerSubClass reports whether c or one of its enclosing classes is a
// subclass of base.
func (r *Resolve) isInnerSubClass(c *TypeSymbol, base Symbol) bool {
	b, ok := base.(*TypeSymbol)
	if !ok {
		return false
	}
	for ; c != nil; c = EnclosingClass(c.owner) {
		if r.types.IsSubclass(c, b) {
			return true
		}
	}
	return false
}

// IsInheritedIn reports whether member sym is a member of clazz.
// Package-private members are inherited only while every class on the
// superclass chain stays in the member's package.
func (r *Resolve) IsInheritedIn(sym Symbol, clazz *TypeSymbol) bool {
	owner := EnclosingClass(sym.Owner())
	switch sym.Flags().Access() {
	case Public:
		return true
	case Private:
		return owner == clazz
	case Protected:
		return !clazz.IsInterface()
	}
	pkg := PackageOf(sym)
	for c := clazz; c != nil && c != owner; {
		if PackageOf(c) != pkg {
			return false
		}
		sup := c.Superclass()
		if sup == nil {
			break
		}
		c = sup.Symbol()
	}
	return !clazz.IsInterface()
}
