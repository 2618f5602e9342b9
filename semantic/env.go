package semantic

// Env is the lexical context of a tree: the scope chain, the enclosing
// class and package, and the import scopes of the compilation unit.
// outer links the environment of the enclosing class level.
type Env struct {
	next           *Env
	outer          *Env
	pkg            *PackageSymbol
	enclosingClass *TypeSymbol
	scope          *Scope

	namedImports       *Scope
	staticNamedImports *Scope
	starImports        *Scope
	staticStarImports  *Scope
}

func (e *Env) dup() *Env {
	c := *e
	c.next = e
	return &c
}

func (e *Env) Package() *PackageSymbol { return e.pkg }

// EnclosingClass is nil at compilation unit level.
func (e *Env) EnclosingClass() *TypeSymbol { return e.enclosingClass }

func (e *Env) Scope() *Scope { return e.scope }

func (e *Env) Outer() *Env { return e.outer }

// Visible lists the symbols bound in the scope chains of e and its
// enclosing class levels, innermost first; shadowed names are reported
// once and constructors are left out.
func (e *Env) Visible() []Symbol {
	seen := map[string]bool{}
	var out []Symbol
	for env := e; env != nil; env = env.outer {
		for s := env.scope; s != nil; s = s.next {
			for _, sym := range s.order {
				if sym.Name() == "" || sym.Name() == "<init>" {
					continue
				}
				key := sym.Kind().String() + ":" + sym.Name()
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, sym)
			}
		}
	}
	return out
}
