package semantic

import (
	"github.com/dhamidi/javasem/tree"
)

// Unresolved is a reference the solver could not bind.
type Unresolved struct {
	Node    tree.Tree
	Name    string
	Outcome Outcome
}

// Model is the result of analysing one compilation unit: declared and
// referenced symbols per tree, the type of every expression and the
// lexical environment of scope-introducing trees.
type Model struct {
	unit       *tree.CompilationUnit
	symbols    *Symbols
	declared   map[tree.Tree]Symbol
	refs       map[tree.Tree]Symbol
	types      map[tree.Tree]Type
	envs       map[tree.Tree]*Env
	symbolEnvs map[Symbol]*Env
	unresolved []Unresolved
}

func newModel(unit *tree.CompilationUnit, symbols *Symbols) *Model {
	return &Model{
		unit:       unit,
		symbols:    symbols,
		declared:   map[tree.Tree]Symbol{},
		refs:       map[tree.Tree]Symbol{},
		types:      map[tree.Tree]Type{},
		envs:       map[tree.Tree]*Env{},
		symbolEnvs: map[Symbol]*Env{},
	}
}

func (m *Model) Unit() *tree.CompilationUnit { return m.unit }

func (m *Model) Symbols() *Symbols { return m.symbols }

// DeclaredSymbol returns the symbol declared by a declaration tree.
func (m *Model) DeclaredSymbol(t tree.Tree) Symbol { return m.declared[t] }

// Reference returns the symbol an identifier, member select, method
// invocation or instance creation refers to.
func (m *Model) Reference(t tree.Tree) Symbol { return m.refs[t] }

// SymbolOf returns the declared symbol of t, else its referenced symbol.
func (m *Model) SymbolOf(t tree.Tree) Symbol {
	if s, ok := m.declared[t]; ok {
		return s
	}
	return m.refs[t]
}

// TypeOf returns the type of an expression or type tree. Expressions the
// solver could not type report the unknown type.
func (m *Model) TypeOf(t tree.Tree) Type {
	if typ, ok := m.types[t]; ok {
		return typ
	}
	return m.symbols.Unknown
}

// HasType reports whether the solver recorded a type for t.
func (m *Model) HasType(t tree.Tree) bool {
	_, ok := m.types[t]
	return ok
}

// EnvOf returns the environment opened by a scope-introducing tree: the
// compilation unit, class and method declarations, blocks, loops,
// catches, try resources, switches and lambdas.
func (m *Model) EnvOf(t tree.Tree) *Env { return m.envs[t] }

// EnvAt returns the environment of the innermost scope-introducing tree
// enclosing offset.
func (m *Model) EnvAt(offset int) *Env {
	path := tree.Path(m.unit, offset)
	for i := len(path) - 1; i >= 0; i-- {
		if env, ok := m.envs[path[i]]; ok {
			return env
		}
	}
	return m.envs[m.unit]
}

// Declaration returns the tree in this unit declaring sym, or nil for
// symbols from class files and implicit members.
func (m *Model) Declaration(sym Symbol) tree.Tree {
	for t, s := range m.declared {
		if s == sym {
			return t
		}
	}
	return nil
}

// SymbolEnv returns the environment a symbol was declared in.
func (m *Model) SymbolEnv(sym Symbol) *Env { return m.symbolEnvs[sym] }

// Unresolved lists the references that could not be bound, in source
// order of discovery.
func (m *Model) Unresolved() []Unresolved { return m.unresolved }

// Classes returns the top-level and nested classes declared in the unit
// in declaration order.
func (m *Model) Classes() []*TypeSymbol {
	var out []*TypeSymbol
	tree.Inspect(m.unit, func(t tree.Tree) bool {
		if c, ok := t.(*tree.ClassDecl); ok {
			if sym, ok := m.declared[c].(*TypeSymbol); ok {
				out = append(out, sym)
			}
		}
		return true
	})
	return out
}

// At returns the innermost tree at offset that carries a symbol or a
// type, together with them.
func (m *Model) At(offset int) (tree.Tree, Symbol, Type) {
	path := tree.Path(m.unit, offset)
	for i := len(path) - 1; i >= 0; i-- {
		t := path[i]
		sym := m.SymbolOf(t)
		typ, typed := m.types[t]
		if sym != nil || typed {
			if !typed {
				typ = sym.Type()
			}
			return t, sym, typ
		}
	}
	return nil, nil, nil
}

func (m *Model) declare(t tree.Tree, sym Symbol, env *Env) {
	m.declared[t] = sym
	if env != nil {
		m.symbolEnvs[sym] = env
	}
}

// bind records a reference from t to sym and counts identifier usages.
func (m *Model) bind(t tree.Tree, sym Symbol) {
	if sym == nil {
		return
	}
	m.refs[t] = sym
	var id *tree.Identifier
	switch n := t.(type) {
	case *tree.Identifier:
		id = n
	case *tree.MemberSelect:
		id = n.Name
		m.refs[n.Name] = sym
	}
	if id != nil {
		b := sym.base()
		for _, u := range b.usages {
			if u == id {
				return
			}
		}
		b.usages = append(b.usages, id)
	}
}

func (m *Model) setType(t tree.Tree, typ Type) {
	if typ == nil {
		typ = m.symbols.Unknown
	}
	m.types[t] = typ
}

func (m *Model) unresolvedRef(t tree.Tree, name string, outcome Outcome) {
	m.unresolved = append(m.unresolved, Unresolved{Node: t, Name: name, Outcome: outcome})
}
