// Package semantic builds the semantic model of a Java compilation unit:
// symbols for every declaration, a binding for every reference and a type
// for every expression. Binary dependencies are read lazily from class
// files through a ClassFinder.
package semantic

import (
	"fmt"
	"strings"

	"github.com/dhamidi/javasem/tree"
)

// CycleError reports a class that is its own supertype.
type CycleError struct {
	Class string
	Path  []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic inheritance involving %s (%s)", e.Class, strings.Join(e.Path, " -> "))
}

// Session analyses one compilation unit. Symbols are owned by the session
// and must not be shared with other sessions; the ClassFinder may be.
type Session struct {
	finder    ClassFinder
	cache     *typeCache
	completer *BytecodeCompleter
	symbols   *Symbols
	types     *Types
	resolve   *Resolve
	second    *secondPass
	model     *Model
	analyzed  bool
}

func NewSession(finder ClassFinder) *Session {
	ss := &Session{finder: finder, cache: newTypeCache()}
	ss.completer = newBytecodeCompleter(finder, ss.cache)
	ss.symbols = newSymbols(ss.completer)
	ss.types = &Types{ss: ss, symbols: ss.symbols}
	ss.resolve = &Resolve{ss: ss, symbols: ss.symbols, types: ss.types}
	ss.second = &secondPass{ss: ss}
	return ss
}

func (ss *Session) Symbols() *Symbols { return ss.symbols }

func (ss *Session) Types() *Types { return ss.types }

func (ss *Session) Resolve() *Resolve { return ss.resolve }

func (ss *Session) Completer() *BytecodeCompleter { return ss.completer }

// LoadClass finds a class by canonical name, trying each dot as a nesting
// separator from the right when the plain binary name is not found.
func (ss *Session) LoadClass(name string) (*TypeSymbol, bool) {
	flat := name
	for {
		if sym, ok := ss.completer.LoadClass(flat); ok {
			return sym, true
		}
		i := strings.LastIndexByte(flat, '.')
		if i < 0 {
			return nil, false
		}
		flat = flat[:i] + "$" + flat[i+1:]
	}
}

// Analyze runs the first pass, completes every declared symbol, then
// resolves and types the bodies. A session analyses a single unit; an
// inheritance cycle aborts with a *CycleError.
func (ss *Session) Analyze(unit *tree.CompilationUnit) (model *Model, err error) {
	if ss.analyzed {
		return nil, fmt.Errorf("session already analysed %s", ss.model.unit.File)
	}
	ss.analyzed = true
	ss.model = newModel(unit, ss.symbols)

	defer func() {
		if r := recover(); r != nil {
			cycle, ok := r.(*CycleError)
			if !ok {
				panic(r)
			}
			log.Infof("%s: %s", unit.File, cycle)
			model, err = nil, cycle
		}
	}()

	fp := &firstPass{ss: ss, model: ss.model}
	fp.run(unit)
	(&solver{ss: ss, model: ss.model}).run(unit)
	return ss.model, nil
}

// Analyze analyses unit in a fresh session.
func Analyze(finder ClassFinder, unit *tree.CompilationUnit) (*Model, error) {
	return NewSession(finder).Analyze(unit)
}
