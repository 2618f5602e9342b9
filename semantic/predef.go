package semantic

// Symbols holds the predefined symbols of a session: the root package,
// primitive types, the operator table and the well-known classes.
type Symbols struct {
	completer *BytecodeCompleter

	Root *PackageSymbol
	// predefClass owns the primitive type symbols and operator methods.
	predefClass *TypeSymbol
	arrayClass  *TypeSymbol

	Byte, Char, Short, Int, Long, Float, Double, Boolean, Void *PrimitiveType

	Unknown Type
	Null    Type

	primitives map[string]*PrimitiveType
}

var boxNames = map[Tag]string{
	TagByte:    "java.lang.Byte",
	TagChar:    "java.lang.Character",
	TagShort:   "java.lang.Short",
	TagInt:     "java.lang.Integer",
	TagLong:    "java.lang.Long",
	TagFloat:   "java.lang.Float",
	TagDouble:  "java.lang.Double",
	TagBoolean: "java.lang.Boolean",
	TagVoid:    "java.lang.Void",
}

func newSymbols(c *BytecodeCompleter) *Symbols {
	s := &Symbols{completer: c, primitives: map[string]*PrimitiveType{}}
	s.Root = &PackageSymbol{fullName: ""}
	s.Root.members = NewScope(s.Root)
	c.symbols = s

	s.predefClass = s.placeholder("", Public)
	s.predefClass.members = NewScope(s.predefClass)

	prim := func(name string, tag Tag) *PrimitiveType {
		sym := s.placeholder(name, Public)
		sym.owner = s.predefClass
		t := &PrimitiveType{tag: tag, sym: sym}
		sym.typ = t
		s.predefClass.members.Enter(sym)
		s.primitives[name] = t
		return t
	}
	s.Byte = prim("byte", TagByte)
	s.Char = prim("char", TagChar)
	s.Short = prim("short", TagShort)
	s.Int = prim("int", TagInt)
	s.Long = prim("long", TagLong)
	s.Float = prim("float", TagFloat)
	s.Double = prim("double", TagDouble)
	s.Boolean = prim("boolean", TagBoolean)
	s.Void = prim("void", TagVoid)

	unknown := s.placeholder("!unknown!", Public)
	s.Unknown = &specialType{tag: TagUnknown, name: "!unknown!", sym: unknown}
	unknown.typ = s.Unknown
	null := s.placeholder("<nulltype>", Public)
	s.Null = &specialType{tag: TagBot, name: "<nulltype>", sym: null}
	null.typ = s.Null

	s.arrayClass = s.placeholder("Array", Public)
	s.arrayClass.setCompleter(completerFunc(s.completeArrayClass))

	s.enterOperators()
	return s
}

func (s *Symbols) placeholder(name string, flags Flags) *TypeSymbol {
	sym := &TypeSymbol{symbol: symbol{name: name, owner: s.Root, flags: flags}}
	sym.members = NewScope(sym)
	sym.typ = &ClassType{sym: sym}
	return sym
}

// completeArrayClass gives arrays their length field and clone method.
func (s *Symbols) completeArrayClass(sym Symbol) {
	c := sym.(*TypeSymbol)
	c.superclass = s.ObjectType()
	c.interfaces = []Type{s.ClassType("java.lang.Cloneable"), s.ClassType("java.io.Serializable")}
	length := &VariableSymbol{symbol: symbol{name: "length", owner: c, flags: Public | Final, typ: s.Int}}
	clone := &MethodSymbol{symbol: symbol{name: "clone", owner: c, flags: Public,
		typ: &MethodType{Result: s.ObjectType()}}}
	c.members.Enter(length)
	c.members.Enter(clone)
}

// ArrayOf returns the array type with element elem.
func (s *Symbols) ArrayOf(elem Type) *ArrayType {
	return &ArrayType{Elem: elem, sym: s.arrayClass}
}

// Primitive returns the primitive type called name, or nil.
func (s *Symbols) Primitive(name string) *PrimitiveType { return s.primitives[name] }

// ClassType returns the type of the class with the given canonical or
// binary name without loading it.
func (s *Symbols) ClassType(fullName string) Type {
	return s.completer.ClassSymbol(fullName).typ
}

func (s *Symbols) ObjectType() Type { return s.ClassType("java.lang.Object") }
func (s *Symbols) StringType() Type { return s.ClassType("java.lang.String") }

// Boxed returns the wrapper class type of a primitive, or nil.
func (s *Symbols) Boxed(t Type) Type {
	p, ok := t.(*PrimitiveType)
	if !ok {
		return nil
	}
	return s.ClassType(boxNames[p.tag])
}

// Unboxed returns the primitive wrapped by t, or nil.
func (s *Symbols) Unboxed(t Type) *PrimitiveType {
	if t == nil || t.Tag() != TagClass {
		return nil
	}
	name := t.Symbol().FullName()
	for tag, box := range boxNames {
		if box == name && tag != TagVoid {
			return s.primitiveByTag(tag)
		}
	}
	return nil
}

// enterOperators declares the binary operators as static methods of the
// predefined class so operator typing reuses overload resolution.
func (s *Symbols) enterOperators() {
	numeric := []Type{s.Int, s.Long, s.Float, s.Double}
	integral := []Type{s.Int, s.Long}
	object := s.ObjectType
	str := s.StringType

	op := func(name string, result Type, params ...Type) {
		m := &MethodSymbol{symbol: symbol{name: name, owner: s.predefClass, flags: Public | Static,
			typ: &MethodType{Params: params, Result: result}}}
		s.predefClass.members.Enter(m)
	}

	op("+", str(), str(), str())
	op("+", str(), str(), object())
	op("+", str(), object(), str())
	for _, name := range []string{"+", "-", "*", "/", "%"} {
		for _, t := range numeric {
			op(name, t, t, t)
		}
	}
	for _, name := range []string{"&", "|", "^"} {
		op(name, s.Boolean, s.Boolean, s.Boolean)
		for _, t := range integral {
			op(name, t, t, t)
		}
	}
	for _, name := range []string{"<<", ">>", ">>>"} {
		for _, l := range integral {
			for _, r := range integral {
				op(name, l, l, r)
			}
		}
	}
	for _, name := range []string{"<", ">", "<=", ">="} {
		for _, t := range numeric {
			op(name, s.Boolean, t, t)
		}
	}
	for _, name := range []string{"==", "!="} {
		for _, t := range numeric {
			op(name, s.Boolean, t, t)
		}
		op(name, s.Boolean, s.Boolean, s.Boolean)
		op(name, s.Boolean, object(), object())
	}
	for _, name := range []string{"&&", "||"} {
		op(name, s.Boolean, s.Boolean, s.Boolean)
	}
}

func (s *Symbols) newTypeVariable(name string, owner Symbol) *TypeVariableSymbol {
	v := &TypeVariableSymbol{symbol: symbol{name: name, owner: owner}}
	v.typ = &TypeVar{sym: v, object: s.ObjectType}
	return v
}

// Wildcard builds ?, ? extends bound or ? super bound.
func (s *Symbols) Wildcard(kind WildcardKind, bound Type) *WildcardType {
	w := &WildcardType{Bound: kind, Type: bound, upper: s.ObjectType()}
	if kind == Extends && bound != nil {
		w.upper = bound
	}
	if kind != Unbounded && bound == nil {
		w.Bound = Unbounded
	}
	return w
}

func (s *Symbols) primitiveByTag(tag Tag) *PrimitiveType {
	for _, p := range s.primitives {
		if p.tag == tag {
			return p
		}
	}
	return nil
}
