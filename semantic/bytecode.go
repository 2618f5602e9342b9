package semantic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/javasem/classfile"
)

var log = commonlog.GetLogger("javasem.semantic")

// ClassFinder supplies decoded class files by internal name
// (java/util/Map$Entry). classpath.Path and classpath.Cache implement it.
type ClassFinder interface {
	FindClass(internalName string) (*classfile.ClassFile, error)
}

// BytecodeCompleter creates class symbols for binary classes on demand
// and fills them from class files when they are first inspected.
// Creating a symbol never reads a class file.
type BytecodeCompleter struct {
	finder   ClassFinder
	symbols  *Symbols
	cache    *typeCache
	classes  map[string]*TypeSymbol
	packages map[string]*PackageSymbol
	exists   map[string]bool
	reads    int
}

func newBytecodeCompleter(finder ClassFinder, cache *typeCache) *BytecodeCompleter {
	return &BytecodeCompleter{
		finder:   finder,
		cache:    cache,
		classes:  map[string]*TypeSymbol{},
		packages: map[string]*PackageSymbol{},
		exists:   map[string]bool{},
	}
}

// Reads counts the class files consulted to complete symbols.
func (c *BytecodeCompleter) Reads() int { return c.reads }

// EnterPackage returns the package symbol for a dotted name, creating it
// and its parents as needed.
func (c *BytecodeCompleter) EnterPackage(fullName string) *PackageSymbol {
	if fullName == "" {
		return c.symbols.Root
	}
	if p, ok := c.packages[fullName]; ok {
		return p
	}
	parent := c.symbols.Root
	name := fullName
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		parent = c.EnterPackage(fullName[:i])
		name = fullName[i+1:]
	}
	p := &PackageSymbol{symbol: symbol{name: name, owner: parent}, fullName: fullName}
	p.members = NewScope(p)
	parent.members.Enter(p)
	c.packages[fullName] = p
	return p
}

// FormFullName qualifies name by owner: packages join with '.', classes
// with '$'.
func (c *BytecodeCompleter) FormFullName(name string, owner Symbol) string {
	switch o := owner.(type) {
	case *TypeSymbol:
		return o.FlatName() + "$" + name
	case *PackageSymbol:
		if o.fullName == "" {
			return name
		}
		return o.fullName + "." + name
	}
	return name
}

// ClassSymbol returns the symbol for a flat class name such as
// java.util.Map$Entry, creating an uncompleted one if needed.
func (c *BytecodeCompleter) ClassSymbol(flatName string) *TypeSymbol {
	if sym, ok := c.classes[flatName]; ok {
		return sym
	}
	pkgName, simple := "", flatName
	if i := strings.LastIndexByte(flatName, '.'); i >= 0 {
		pkgName, simple = flatName[:i], flatName[i+1:]
	}
	var owner Symbol
	name := simple
	if i := strings.LastIndexByte(simple, '$'); i > 0 && i < len(simple)-1 {
		outer := simple[:i]
		if pkgName != "" {
			outer = pkgName + "." + outer
		}
		owner = c.ClassSymbol(outer)
		name = simple[i+1:]
	} else {
		pkg := c.EnterPackage(pkgName)
		owner = pkg
		defer func() {
			if sym := c.classes[flatName]; !pkg.members.contains(sym) {
				pkg.members.Enter(sym)
			}
		}()
	}
	sym := &TypeSymbol{symbol: symbol{name: name, owner: owner}}
	sym.members = NewScope(sym)
	sym.typ = &ClassType{sym: sym}
	sym.setCompleter(c)
	c.classes[flatName] = sym
	return sym
}

// RegisterClass records a source class so lookups by name find it
// instead of a class file.
func (c *BytecodeCompleter) RegisterClass(sym *TypeSymbol) {
	flat := sym.FlatName()
	c.classes[flat] = sym
	c.exists[flat] = true
}

// LoadClass returns the class called flatName if it is declared in
// source or present on the class path.
func (c *BytecodeCompleter) LoadClass(flatName string) (*TypeSymbol, bool) {
	known, ok := c.exists[flatName]
	if !ok {
		_, err := c.finder.FindClass(internalName(flatName))
		known = err == nil
		c.exists[flatName] = known
	}
	if !known {
		return nil, false
	}
	return c.ClassSymbol(flatName), true
}

func internalName(flatName string) string {
	return strings.ReplaceAll(flatName, ".", "/")
}

func flatName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// Complete reads the class file behind sym. A missing or malformed class
// leaves the symbol empty rather than failing the analysis.
func (c *BytecodeCompleter) Complete(sym Symbol) {
	t, ok := sym.(*TypeSymbol)
	if !ok {
		return
	}
	c.reads++
	cf, err := c.finder.FindClass(internalName(t.FlatName()))
	if err != nil {
		log.Warningf("cannot complete %s: %s", t.FlatName(), err)
		t.interfaces = []Type{}
		return
	}
	if err := c.fill(t, cf); err != nil {
		log.Warningf("incomplete class %s: %s", t.FlatName(), err)
	}
}

func (c *BytecodeCompleter) fill(t *TypeSymbol, cf *classfile.ClassFile) error {
	access := cf.AccessFlags
	for _, ic := range cf.InnerClasses {
		if ic.Name == cf.Name {
			access = ic.AccessFlags
		}
	}
	t.flags = flagsFromAccess(access)
	if access.IsAnnotation() {
		t.flags |= Interface
	}
	if cf.Deprecated {
		t.flags |= Deprecated
	}
	t.annotations = annotationNames(cf.Annotations)

	var errs []string
	vars := c.typeVarLookup(t)
	if cf.Signature != "" {
		if cs, err := classfile.ParseClassSignature(cf.Signature); err == nil {
			c.typeParams(t, cs.TypeParams, vars)
			t.superclass = c.typeOf(cs.Super, vars)
			for _, i := range cs.Interfaces {
				t.interfaces = append(t.interfaces, c.typeOf(i, vars))
			}
		} else {
			errs = append(errs, err.Error())
			cf = withoutSignature(cf)
		}
	}
	if cf.Signature == "" {
		if cf.SuperName != "" {
			t.superclass = c.ClassSymbol(flatName(cf.SuperName)).typ
		}
		for _, i := range cf.Interfaces {
			t.interfaces = append(t.interfaces, c.ClassSymbol(flatName(i)).typ)
		}
	}
	if t.interfaces == nil {
		t.interfaces = []Type{}
	}
	if t.flags.Has(Interface) && cf.SuperName == "java/lang/Object" {
		t.superclass = nil
	}

	for _, ic := range cf.InnerClasses {
		if ic.Outer != cf.Name || ic.SimpleName == "" {
			continue
		}
		inner := c.ClassSymbol(flatName(ic.Name))
		inner.owner = t
		inner.name = ic.SimpleName
		if !t.members.contains(inner) {
			t.members.Enter(inner)
		}
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags.IsSynthetic() {
			continue
		}
		v := &VariableSymbol{symbol: symbol{name: f.Name, owner: t}, constant: f.Constant}
		v.flags = flagsFromAccess(f.AccessFlags)
		if f.AccessFlags.Has(classfile.AccVolatile) {
			v.flags |= Volatile
		}
		if f.AccessFlags.Has(classfile.AccTransient) {
			v.flags |= Transient
		}
		if f.Deprecated {
			v.flags |= Deprecated
		}
		v.annotations = annotationNames(f.Annotations)
		sig, err := classfile.ParseFieldSignature(f.TypeSignature())
		if err != nil {
			errs = append(errs, fmt.Sprintf("field %s: %s", f.Name, err))
			sig, err = classfile.ParseFieldSignature(f.Descriptor)
		}
		if err == nil {
			v.typ = c.typeOf(sig, vars)
		} else {
			v.typ = c.symbols.Unknown
		}
		t.members.Enter(v)
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge() || m.Name == "<clinit>" {
			continue
		}
		sym, err := c.method(t, m, vars)
		if err != nil {
			errs = append(errs, fmt.Sprintf("method %s: %s", m.Name, err))
			continue
		}
		t.members.Enter(sym)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func withoutSignature(cf *classfile.ClassFile) *classfile.ClassFile {
	copied := *cf
	copied.Signature = ""
	return &copied
}

func (c *BytecodeCompleter) method(t *TypeSymbol, m *classfile.Member, classVars func(string) Type) (*MethodSymbol, error) {
	sym := &MethodSymbol{symbol: symbol{name: m.Name, owner: t}}
	sym.flags = flagsFromAccess(m.AccessFlags)
	if m.AccessFlags.IsVarargs() {
		sym.flags |= Varargs
	}
	if m.AccessFlags.Has(classfile.AccSynchronized) {
		sym.flags |= Synchronized
	}
	if t.flags.Has(Interface) && !sym.flags.Has(Abstract|Static|Private) {
		sym.flags |= Default
	}
	if m.Deprecated {
		sym.flags |= Deprecated
	}
	sym.annotations = annotationNames(m.Annotations)

	desc, err := classfile.ParseMethodSignature(m.Descriptor)
	if err != nil {
		return nil, err
	}
	sig := desc
	if m.Signature != "" {
		if generic, err := classfile.ParseMethodSignature(m.Signature); err == nil {
			sig = generic
		}
	}

	vars := func(name string) Type {
		for _, v := range sym.typeParams {
			if v.name == name {
				return v.typ
			}
		}
		return classVars(name)
	}
	c.typeParams(sym, sig.TypeParams, vars)

	mt := &MethodType{}
	for _, v := range sym.typeParams {
		mt.TypeParams = append(mt.TypeParams, v.TypeVar())
	}
	// Signatures of inner class constructors omit the enclosing instance.
	if m.Name == "<init>" && sig != desc && len(sig.Params) == len(desc.Params)-1 {
		mt.Params = append(mt.Params, c.typeOf(desc.Params[0], vars))
	}
	for _, p := range sig.Params {
		mt.Params = append(mt.Params, c.typeOf(p, vars))
	}
	if m.Name != "<init>" {
		if sig.Result == nil {
			mt.Result = c.symbols.Void
		} else {
			mt.Result = c.typeOf(sig.Result, vars)
		}
	}
	if len(sig.Throws) > 0 {
		for _, th := range sig.Throws {
			mt.Thrown = append(mt.Thrown, c.typeOf(th, vars))
		}
	} else {
		for _, ex := range m.Exceptions {
			mt.Thrown = append(mt.Thrown, c.ClassSymbol(flatName(ex)).typ)
		}
	}
	sym.typ = mt

	for i, p := range mt.Params {
		param := &VariableSymbol{symbol: symbol{name: fmt.Sprintf("arg%d", i), owner: sym, typ: p}}
		sym.params = append(sym.params, param)
	}
	return sym, nil
}

// typeParams declares type variables on owner, then resolves their
// bounds so bounds may refer to any of them.
func (c *BytecodeCompleter) typeParams(owner Symbol, params []classfile.TypeParam, vars func(string) Type) []*TypeVariableSymbol {
	out := make([]*TypeVariableSymbol, 0, len(params))
	for _, p := range params {
		out = append(out, c.symbols.newTypeVariable(p.Name, owner))
	}
	switch o := owner.(type) {
	case *TypeSymbol:
		o.typeParams = out
	case *MethodSymbol:
		o.typeParams = out
	}
	for i, p := range params {
		tv := out[i].TypeVar()
		for _, b := range p.Bounds {
			tv.Bounds = append(tv.Bounds, c.typeOf(b, vars))
		}
	}
	return out
}

// typeVarLookup resolves type variable names against t and the classes
// enclosing it.
func (c *BytecodeCompleter) typeVarLookup(t *TypeSymbol) func(string) Type {
	return func(name string) Type {
		for _, v := range t.typeParams {
			if v.name == name {
				return v.typ
			}
		}
		for o, ok := t.owner.(*TypeSymbol); ok; o, ok = o.owner.(*TypeSymbol) {
			for _, v := range o.TypeParameters() {
				if v.name == name {
					return v.typ
				}
			}
		}
		return nil
	}
}

func (c *BytecodeCompleter) typeOf(sig *classfile.TypeSig, vars func(string) Type) Type {
	if sig == nil {
		return c.symbols.ObjectType()
	}
	switch sig.Kind {
	case classfile.SigBase:
		if p := c.symbols.Primitive(classfile.BaseName(sig.Base)); p != nil {
			return p
		}
		return c.symbols.Unknown
	case classfile.SigArray:
		return c.symbols.ArrayOf(c.typeOf(sig.Elem, vars))
	case classfile.SigTypeVar:
		if v := vars(sig.Var); v != nil {
			return v
		}
		return c.symbols.ObjectType()
	}
	sym := c.ClassSymbol(flatName(sig.Class))
	if len(sig.Args) == 0 {
		return sym.typ
	}
	args := make([]Type, 0, len(sig.Args))
	for _, a := range sig.Args {
		switch a.Wildcard {
		case '*':
			args = append(args, c.symbols.Wildcard(Unbounded, nil))
		case '+':
			args = append(args, c.symbols.Wildcard(Extends, c.typeOf(a.Type, vars)))
		case '-':
			args = append(args, c.symbols.Wildcard(Super, c.typeOf(a.Type, vars)))
		default:
			args = append(args, c.typeOf(a.Type, vars))
		}
	}
	return c.cache.parameterized(sym, args)
}

// annotationNames turns annotation descriptors into canonical names.
func annotationNames(descs []string) []string {
	var out []string
	for _, d := range descs {
		d = strings.TrimSuffix(strings.TrimPrefix(d, "L"), ";")
		out = append(out, classfile.InternalToSourceName(d))
	}
	return out
}
