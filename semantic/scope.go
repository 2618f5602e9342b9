package semantic

// Scope is a symbol table chained to an enclosing scope. Lookup searches
// outward and stops at the first scope that binds the name.
type Scope struct {
	owner Symbol
	next  *Scope
	table map[string][]Symbol
	order []Symbol

	// onDemand resolves names through star imports; results are memoized
	// in resolved.
	onDemand func(name string) []Symbol
	resolved map[string][]Symbol
}

func NewScope(owner Symbol) *Scope {
	return &Scope{owner: owner, table: map[string][]Symbol{}}
}

// Child creates a scope nested in s with the same owner.
func (s *Scope) Child() *Scope {
	c := NewScope(s.owner)
	c.next = s
	return c
}

func (s *Scope) childOwnedBy(owner Symbol) *Scope {
	c := NewScope(owner)
	c.next = s
	return c
}

func newOnDemandScope(owner Symbol, resolve func(name string) []Symbol) *Scope {
	s := NewScope(owner)
	s.onDemand = resolve
	s.resolved = map[string][]Symbol{}
	return s
}

func (s *Scope) Owner() Symbol { return s.owner }

func (s *Scope) Next() *Scope { return s.next }

func (s *Scope) Enter(sym Symbol) {
	s.table[sym.Name()] = append(s.table[sym.Name()], sym)
	s.order = append(s.order, sym)
}

// contains reports whether sym is already bound in this scope.
func (s *Scope) contains(sym Symbol) bool {
	for _, o := range s.table[sym.Name()] {
		if o == sym {
			return true
		}
	}
	return false
}

// LookupLocal returns the symbols bound to name in s itself.
func (s *Scope) LookupLocal(name string) []Symbol {
	if syms := s.table[name]; len(syms) > 0 {
		return syms
	}
	if s.onDemand == nil {
		return nil
	}
	syms, ok := s.resolved[name]
	if !ok {
		syms = s.onDemand(name)
		s.resolved[name] = syms
	}
	return syms
}

// Lookup returns the symbols bound to name in the innermost scope of the
// chain that binds it.
func (s *Scope) Lookup(name string) []Symbol {
	for sc := s; sc != nil; sc = sc.next {
		if syms := sc.LookupLocal(name); len(syms) > 0 {
			return syms
		}
	}
	return nil
}

// Members lists the symbols entered into s in declaration order.
func (s *Scope) Members() []Symbol { return s.order }
