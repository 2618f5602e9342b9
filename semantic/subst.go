package semantic

import (
	"encoding/binary"
	"sync"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// typeCache interns parameterized types so that applying the same
// arguments to the same class yields the same value. It is safe for
// concurrent use.
type typeCache struct {
	mu      sync.Mutex
	entries map[uint64][]*ParameterizedType
}

func newTypeCache() *typeCache {
	return &typeCache{entries: map[uint64][]*ParameterizedType{}}
}

func (c *typeCache) parameterized(sym *TypeSymbol, args []Type) *ParameterizedType {
	d := xxhash.New()
	writePointer(d, unsafe.Pointer(sym))
	for _, a := range args {
		hashType(d, a)
	}
	key := d.Sum64()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.entries[key] {
		if p.sym == sym && sameArgs(p.Args, args) {
			return p
		}
	}
	p := &ParameterizedType{sym: sym, Args: args}
	c.entries[key] = append(c.entries[key], p)
	return p
}

func sameArgs(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

func writePointer(d *xxhash.Digest, p unsafe.Pointer) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(uintptr(p)))
	d.Write(buf[:])
}

// hashType feeds d with a key consistent with SameType: structural for
// arrays and wildcards, identity otherwise.
func hashType(d *xxhash.Digest, t Type) {
	switch t := t.(type) {
	case *ArrayType:
		d.WriteString("[")
		hashType(d, t.Elem)
	case *WildcardType:
		d.Write([]byte{'?', byte(t.Bound)})
		if t.Bound != Unbounded {
			hashType(d, t.Type)
		}
	case *ParameterizedType:
		d.WriteString("<")
		writePointer(d, unsafe.Pointer(t.sym))
		for _, a := range t.Args {
			hashType(d, a)
		}
		d.WriteString(">")
	case *ClassType:
		writePointer(d, unsafe.Pointer(t))
	case *PrimitiveType:
		writePointer(d, unsafe.Pointer(t))
	case *TypeVar:
		writePointer(d, unsafe.Pointer(t))
	case *specialType:
		writePointer(d, unsafe.Pointer(t))
	default:
		d.WriteString(t.String())
	}
}

// Substitute replaces the type variables of s in t.
func (ss *Session) Substitute(t Type, s *Substitution) Type {
	if s == nil || s.Len() == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeVar:
		if r, ok := s.Get(t); ok {
			return r
		}
		return t
	case *ArrayType:
		e := ss.Substitute(t.Elem, s)
		if e == t.Elem {
			return t
		}
		return ss.symbols.ArrayOf(e)
	case *ParameterizedType:
		changed := false
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = ss.Substitute(a, s)
			changed = changed || args[i] != a
		}
		if !changed {
			return t
		}
		return ss.cache.parameterized(t.sym, args)
	case *WildcardType:
		if t.Bound == Unbounded {
			return t
		}
		b := ss.Substitute(t.Type, s)
		if b == t.Type {
			return t
		}
		return ss.symbols.Wildcard(t.Bound, b)
	case *MethodType:
		mt := &MethodType{TypeParams: t.TypeParams}
		for _, p := range t.Params {
			mt.Params = append(mt.Params, ss.Substitute(p, s))
		}
		mt.Result = ss.Substitute(t.Result, s)
		for _, th := range t.Thrown {
			mt.Thrown = append(mt.Thrown, ss.Substitute(th, s))
		}
		return mt
	}
	return t
}

// Parameterized returns the interned application of sym to args.
func (ss *Session) Parameterized(sym *TypeSymbol, args ...Type) *ParameterizedType {
	return ss.cache.parameterized(sym, args)
}
