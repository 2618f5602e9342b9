package semantic

import "sort"

// Types implements subtyping, erasure, boxing and least upper and
// greatest lower bounds. Parameterized types are related through their
// supertypes and argument containment.
type Types struct {
	ss      *Session
	symbols *Symbols
}

var widening = map[Tag][]Tag{
	TagByte:  {TagShort, TagInt, TagLong, TagFloat, TagDouble},
	TagShort: {TagInt, TagLong, TagFloat, TagDouble},
	TagChar:  {TagInt, TagLong, TagFloat, TagDouble},
	TagInt:   {TagLong, TagFloat, TagDouble},
	TagLong:  {TagFloat, TagDouble},
	TagFloat: {TagDouble},
}

// IsSubtype reports whether t is a subtype of s.
func (ts *Types) IsSubtype(t, s Type) bool {
	if t == nil || s == nil || IsUnknown(t) || IsUnknown(s) {
		return false
	}
	if SameType(t, s) {
		return true
	}
	if w, ok := s.(*WildcardType); ok {
		if w.Bound == Super {
			return ts.IsSubtype(t, w.Type)
		}
		return ts.IsSubtype(t, w.upper)
	}
	if w, ok := t.(*WildcardType); ok {
		return ts.IsSubtype(w.upper, s)
	}
	if IsPrimitive(t) || IsPrimitive(s) {
		if !IsPrimitive(t) || !IsPrimitive(s) {
			return false
		}
		for _, w := range widening[t.Tag()] {
			if w == s.Tag() {
				return true
			}
		}
		return false
	}
	if t.Tag() == TagBot {
		return IsReference(s)
	}
	if s.Tag() == TagVoid || t.Tag() == TagVoid {
		return false
	}
	if ts.isObject(s) {
		return true
	}
	switch t := t.(type) {
	case *TypeVar:
		for _, b := range t.Bounds {
			if ts.IsSubtype(b, s) {
				return true
			}
		}
		return false
	case *ArrayType:
		sa, ok := s.(*ArrayType)
		if !ok {
			name := s.Symbol().FullName()
			return name == "java.lang.Cloneable" || name == "java.io.Serializable"
		}
		if IsPrimitive(t.Elem) || IsPrimitive(sa.Elem) {
			return t.Elem.Tag() == sa.Elem.Tag() && IsPrimitive(t.Elem) && IsPrimitive(sa.Elem)
		}
		return ts.IsSubtype(t.Elem, sa.Elem)
	}
	if _, ok := s.(*TypeVar); ok {
		return false
	}
	if _, ok := s.(*ArrayType); ok {
		return false
	}
	if !ts.IsSubclass(t.Symbol(), s.Symbol()) {
		return false
	}
	sp, ok := s.(*ParameterizedType)
	if !ok {
		return true
	}
	// Raw supertypes convert unchecked.
	tp, ok := ts.asSuper(t, sp.sym).(*ParameterizedType)
	if !ok || len(tp.Args) != len(sp.Args) {
		return true
	}
	for i, a := range tp.Args {
		if !ts.contains(sp.Args[i], a) {
			return false
		}
	}
	return true
}

// contains reports whether the type argument s contains t.
func (ts *Types) contains(s, t Type) bool {
	if IsUnknown(s) || IsUnknown(t) {
		return true
	}
	w, ok := s.(*WildcardType)
	if !ok {
		return SameType(s, t)
	}
	switch w.Bound {
	case Extends:
		return ts.IsSubtype(t, w.Type)
	case Super:
		if tw, ok := t.(*WildcardType); ok {
			return tw.Bound == Super && ts.IsSubtype(w.Type, tw.Type)
		}
		return ts.IsSubtype(w.Type, t)
	}
	return true
}

func (ts *Types) isObject(t Type) bool {
	return t.Tag() == TagClass && t.Symbol() == ts.symbols.ObjectType().Symbol()
}

// IsSubclass reports whether c inherits from base, directly or
// transitively, through superclasses or interfaces.
func (ts *Types) IsSubclass(c, base *TypeSymbol) bool {
	if c == nil || base == nil {
		return false
	}
	seen := map[*TypeSymbol]bool{}
	var walk func(*TypeSymbol) bool
	walk = func(x *TypeSymbol) bool {
		if x == base {
			return true
		}
		if seen[x] {
			return false
		}
		seen[x] = true
		if sup := x.Superclass(); sup != nil && walk(sup.Symbol()) {
			return true
		}
		for _, i := range x.Interfaces() {
			if walk(i.Symbol()) {
				return true
			}
		}
		return false
	}
	return walk(c)
}

// Superclass returns the direct superclass of t with t's type arguments
// applied. Raw types yield erased supertypes.
func (ts *Types) Superclass(t Type) Type {
	switch t := t.(type) {
	case *ParameterizedType:
		sup := t.sym.Superclass()
		if sup == nil {
			return nil
		}
		return ts.ss.Substitute(sup, t.Substitution())
	case *ClassType:
		sup := t.sym.Superclass()
		if sup != nil && t.sym.IsGeneric() {
			return sup.Erasure()
		}
		return sup
	case *ArrayType:
		return ts.symbols.ObjectType()
	case *TypeVar:
		return t.UpperBound()
	case *WildcardType:
		return t.upper
	}
	return nil
}

// Interfaces returns the direct superinterfaces of t with t's type
// arguments applied.
func (ts *Types) Interfaces(t Type) []Type {
	switch t := t.(type) {
	case *ParameterizedType:
		ifaces := t.sym.Interfaces()
		out := make([]Type, len(ifaces))
		for i, it := range ifaces {
			out[i] = ts.ss.Substitute(it, t.Substitution())
		}
		return out
	case *ClassType:
		ifaces := t.sym.Interfaces()
		if !t.sym.IsGeneric() {
			return ifaces
		}
		out := make([]Type, len(ifaces))
		for i, it := range ifaces {
			out[i] = it.Erasure()
		}
		return out
	case *ArrayType:
		return t.sym.Interfaces()
	}
	return nil
}

// MemberType is the type of member sym as seen from site: the site's type
// arguments replace the owner's type parameters, and raw sites erase.
func (ts *Types) MemberType(sym Symbol, site Type) Type {
	declared := sym.Type()
	if declared == nil {
		return ts.symbols.Unknown
	}
	owner := EnclosingClass(sym.Owner())
	if owner == nil {
		return declared
	}
	if site = ts.asSuper(site, owner); site == nil {
		return declared
	}
	switch s := site.(type) {
	case *ParameterizedType:
		return ts.ss.Substitute(declared, s.Substitution())
	case *ClassType:
		if s.sym.IsGeneric() && !isStatic(sym) {
			return ts.erase(declared)
		}
	}
	return declared
}

func (ts *Types) erase(t Type) Type {
	if mt, ok := t.(*MethodType); ok {
		out := &MethodType{Result: mt.Result}
		if mt.Result != nil {
			out.Result = mt.Result.Erasure()
		}
		for _, p := range mt.Params {
			out.Params = append(out.Params, p.Erasure())
		}
		for _, th := range mt.Thrown {
			out.Thrown = append(out.Thrown, th.Erasure())
		}
		return out
	}
	return t.Erasure()
}

// asSuper finds the supertype of t whose class is sym.
func (ts *Types) asSuper(t Type, sym *TypeSymbol) Type {
	seen := map[*TypeSymbol]bool{}
	var walk func(Type) Type
	walk = func(x Type) Type {
		if x == nil || x.Symbol() == nil {
			return nil
		}
		if x.Symbol() == sym {
			return x
		}
		if seen[x.Symbol()] {
			return nil
		}
		seen[x.Symbol()] = true
		if r := walk(ts.Superclass(x)); r != nil {
			return r
		}
		for _, i := range ts.Interfaces(x) {
			if r := walk(i); r != nil {
				return r
			}
		}
		return nil
	}
	return walk(t)
}

func (ts *Types) Boxed(t Type) Type { return ts.symbols.Boxed(t) }

// Unboxed returns the primitive for a wrapper class, t itself for a
// primitive, and nil otherwise.
func (ts *Types) Unboxed(t Type) Type {
	if IsPrimitive(t) {
		return t
	}
	if p := ts.symbols.Unboxed(t); p != nil {
		return p
	}
	return nil
}

// UnaryPromotion widens byte, short and char to int, unboxing first.
func (ts *Types) UnaryPromotion(t Type) Type {
	u := ts.Unboxed(t)
	if u == nil || !IsNumeric(u) {
		return nil
	}
	switch u.Tag() {
	case TagByte, TagShort, TagChar:
		return ts.symbols.Int
	}
	return u
}

// BinaryPromotion is the common numeric type of two operands.
func (ts *Types) BinaryPromotion(a, b Type) Type {
	ua, ub := ts.Unboxed(a), ts.Unboxed(b)
	if ua == nil || ub == nil || !IsNumeric(ua) || !IsNumeric(ub) {
		return nil
	}
	for _, tag := range []Tag{TagDouble, TagFloat, TagLong} {
		if ua.Tag() == tag || ub.Tag() == tag {
			return ts.symbols.primitiveByTag(tag)
		}
	}
	return ts.symbols.Int
}

// Supertypes lists t and all of its supertypes, each class once,
// superclasses before interfaces.
func (ts *Types) Supertypes(t Type) []Type {
	var out []Type
	seen := map[*TypeSymbol]bool{}
	var walk func(Type)
	walk = func(x Type) {
		if x == nil || x.Symbol() == nil || seen[x.Symbol()] {
			return
		}
		seen[x.Symbol()] = true
		out = append(out, x)
		walk(ts.Superclass(x))
		for _, i := range ts.Interfaces(x) {
			walk(i)
		}
	}
	walk(t)
	if len(out) > 0 && !seen[ts.symbols.ObjectType().Symbol()] && IsReference(t) {
		out = append(out, ts.symbols.ObjectType())
	}
	return out
}

// LUB is the least upper bound of types. Primitives are boxed and the
// null type is ignored; the result is the most specific class shared by
// all operands, with type arguments merged when they disagree.
func (ts *Types) LUB(types []Type) Type {
	var refs []Type
	for _, t := range types {
		if t == nil || IsUnknown(t) {
			return ts.symbols.Unknown
		}
		if IsPrimitive(t) {
			t = ts.Boxed(t)
		}
		if t.Tag() == TagBot {
			continue
		}
		refs = append(refs, t)
	}
	switch len(refs) {
	case 0:
		return ts.symbols.Null
	case 1:
		return refs[0]
	}
	return ts.lub(refs, 0)
}

func (ts *Types) lub(refs []Type, depth int) Type {
	allSame := true
	for _, r := range refs[1:] {
		allSame = allSame && SameType(r, refs[0])
	}
	if allSame {
		return refs[0]
	}
	if arr := ts.lubArrays(refs, depth); arr != nil {
		return arr
	}

	// Erased candidate set: classes that are supertypes of every operand.
	var candidates []*TypeSymbol
	for i, r := range refs {
		set := map[*TypeSymbol]bool{}
		for _, st := range ts.Supertypes(r) {
			set[st.Symbol()] = true
		}
		if i == 0 {
			for _, st := range ts.Supertypes(r) {
				candidates = append(candidates, st.Symbol())
			}
			continue
		}
		kept := candidates[:0]
		for _, c := range candidates {
			if set[c] {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	// Minimal candidates: drop any that is a proper supertype of another.
	var minimal []*TypeSymbol
	for _, c := range candidates {
		redundant := false
		for _, o := range candidates {
			if o != c && ts.IsSubclass(o, c) {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, c)
		}
	}
	if len(minimal) == 0 {
		return ts.symbols.ObjectType()
	}
	sort.SliceStable(minimal, func(i, j int) bool {
		ii, ji := minimal[i].IsInterface(), minimal[j].IsInterface()
		if ii != ji {
			return !ii
		}
		return minimal[i].FullName() < minimal[j].FullName()
	})
	best := minimal[0]

	// Relevant parameterizations of best.
	var params []*ParameterizedType
	for _, r := range refs {
		sup := ts.asSuper(r, best)
		p, ok := sup.(*ParameterizedType)
		if !ok {
			return best.typ
		}
		params = append(params, p)
	}
	if depth > 1 {
		return best.typ
	}
	args := make([]Type, len(params[0].Args))
	for i := range args {
		var column []Type
		for _, p := range params {
			if i >= len(p.Args) {
				return best.typ
			}
			column = append(column, p.Args[i])
		}
		args[i] = ts.containing(column, depth)
	}
	return ts.ss.cache.parameterized(best, args)
}

// containing merges type arguments: equal arguments are kept, others
// become a wildcard bounded by their least upper bound.
func (ts *Types) containing(args []Type, depth int) Type {
	same := true
	for _, a := range args[1:] {
		same = same && SameType(a, args[0])
	}
	if same {
		return args[0]
	}
	var bounds []Type
	for _, a := range args {
		if w, ok := a.(*WildcardType); ok {
			if w.Bound == Super {
				return ts.symbols.Wildcard(Unbounded, nil)
			}
			a = w.upper
		}
		bounds = append(bounds, a)
	}
	return ts.symbols.Wildcard(Extends, ts.lub(bounds, depth+1))
}

func (ts *Types) lubArrays(refs []Type, depth int) Type {
	var elems []Type
	for _, r := range refs {
		a, ok := r.(*ArrayType)
		if !ok {
			return nil
		}
		elems = append(elems, a.Elem)
	}
	for _, e := range elems {
		if IsPrimitive(e) {
			return nil
		}
	}
	return ts.symbols.ArrayOf(ts.lub(elems, depth))
}

// GLB returns the greatest lower bound of types: the one that is a
// subtype of all others. Intersections are not modelled; for unrelated
// types the first class among the minimal ones stands in.
func (ts *Types) GLB(types []Type) Type {
	var minimal []Type
	for i, t := range types {
		lower := false
		for j, o := range types {
			if i != j && !ts.IsSubtype(t.Erasure(), o.Erasure()) && ts.IsSubtype(o.Erasure(), t.Erasure()) {
				lower = true
				break
			}
		}
		if !lower {
			minimal = append(minimal, t)
		}
	}
	if len(minimal) == 0 {
		return ts.symbols.ObjectType()
	}
	for _, t := range minimal {
		if c := t.Symbol(); c != nil && !c.IsInterface() {
			return t
		}
	}
	return minimal[0]
}
