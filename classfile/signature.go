package classfile

import (
	"fmt"
	"strings"
)

// SigKind discriminates TypeSig.
type SigKind int

const (
	SigBase SigKind = iota
	SigClass
	SigArray
	SigTypeVar
)

// TypeSig is a parsed JavaTypeSignature. Erased descriptors are a subset of
// the signature grammar and parse to the same structure.
type TypeSig struct {
	Kind SigKind
	// Base is the descriptor character of a primitive (B C D F I J S Z).
	Base byte
	// Class is the internal name; member classes of a generic outer are
	// joined with '$'.
	Class string
	// Args are the type arguments of the innermost class segment.
	Args []TypeArg
	Elem *TypeSig
	Var  string
}

// TypeArg is a type argument: Wildcard is 0 for an exact argument, '+' for
// extends, '-' for super and '*' for an unbounded wildcard (Type nil).
type TypeArg struct {
	Wildcard byte
	Type     *TypeSig
}

type TypeParam struct {
	Name string
	// Bounds holds the class bound first when present, then interface bounds.
	Bounds []*TypeSig
}

type ClassSig struct {
	TypeParams []TypeParam
	Super      *TypeSig
	Interfaces []*TypeSig
}

type MethodSig struct {
	TypeParams []TypeParam
	Params     []*TypeSig
	// Result is nil for void.
	Result *TypeSig
	Throws []*TypeSig
}

// BaseName returns the Java keyword for a primitive descriptor character.
func BaseName(b byte) string {
	switch b {
	case 'B':
		return "byte"
	case 'C':
		return "char"
	case 'D':
		return "double"
	case 'F':
		return "float"
	case 'I':
		return "int"
	case 'J':
		return "long"
	case 'S':
		return "short"
	case 'Z':
		return "boolean"
	case 'V':
		return "void"
	}
	return ""
}

func (t *TypeSig) String() string {
	switch t.Kind {
	case SigBase:
		return BaseName(t.Base)
	case SigArray:
		return t.Elem.String() + "[]"
	case SigTypeVar:
		return t.Var
	}
	var sb strings.Builder
	sb.WriteString(InternalToSourceName(t.Class))
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			switch a.Wildcard {
			case '*':
				sb.WriteByte('?')
			case '+':
				sb.WriteString("? extends " + a.Type.String())
			case '-':
				sb.WriteString("? super " + a.Type.String())
			default:
				sb.WriteString(a.Type.String())
			}
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("signature %q: expected %q at %d", p.s, c, p.pos)
	}
	p.pos++
	return nil
}

func (p *sigParser) identifier(stops string) string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(stops, rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *sigParser) typeParams() ([]TypeParam, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []TypeParam
	for p.peek() != '>' {
		if p.peek() == 0 {
			return nil, fmt.Errorf("signature %q: unterminated type parameters", p.s)
		}
		tp := TypeParam{Name: p.identifier(":")}
		// class bound, possibly empty when only interface bounds follow
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			b, err := p.javaType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, b)
		}
		for p.peek() == ':' {
			p.pos++
			b, err := p.javaType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, b)
		}
		params = append(params, tp)
	}
	p.pos++
	return params, nil
}

func (p *sigParser) javaType() (*TypeSig, error) {
	switch c := p.peek(); c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		p.pos++
		return &TypeSig{Kind: SigBase, Base: c}, nil
	case '[':
		p.pos++
		elem, err := p.javaType()
		if err != nil {
			return nil, err
		}
		return &TypeSig{Kind: SigArray, Elem: elem}, nil
	case 'T':
		p.pos++
		name := p.identifier(";")
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		return &TypeSig{Kind: SigTypeVar, Var: name}, nil
	case 'L':
		return p.classType()
	}
	return nil, fmt.Errorf("signature %q: unexpected %q at %d", p.s, p.peek(), p.pos)
}

func (p *sigParser) classType() (*TypeSig, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	t := &TypeSig{Kind: SigClass, Class: p.identifier("<;.")}
	for {
		if p.peek() == '<' {
			args, err := p.typeArgs()
			if err != nil {
				return nil, err
			}
			t.Args = args
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		t.Class += "$" + p.identifier("<;.")
		t.Args = nil
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *sigParser) typeArgs() ([]TypeArg, error) {
	p.pos++
	var args []TypeArg
	for p.peek() != '>' {
		switch c := p.peek(); c {
		case 0:
			return nil, fmt.Errorf("signature %q: unterminated type arguments", p.s)
		case '*':
			p.pos++
			args = append(args, TypeArg{Wildcard: '*'})
			continue
		case '+', '-':
			p.pos++
			t, err := p.javaType()
			if err != nil {
				return nil, err
			}
			args = append(args, TypeArg{Wildcard: c, Type: t})
			continue
		}
		t, err := p.javaType()
		if err != nil {
			return nil, err
		}
		args = append(args, TypeArg{Type: t})
	}
	p.pos++
	return args, nil
}

func (p *sigParser) done() error {
	if p.pos != len(p.s) {
		return fmt.Errorf("signature %q: trailing input at %d", p.s, p.pos)
	}
	return nil
}

// ParseFieldSignature parses a field descriptor or generic field signature.
func ParseFieldSignature(s string) (*TypeSig, error) {
	p := &sigParser{s: s}
	t, err := p.javaType()
	if err != nil {
		return nil, err
	}
	return t, p.done()
}

func ParseClassSignature(s string) (*ClassSig, error) {
	p := &sigParser{s: s}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	sig := &ClassSig{TypeParams: tps}
	if sig.Super, err = p.classType(); err != nil {
		return nil, err
	}
	for p.peek() == 'L' {
		itf, err := p.classType()
		if err != nil {
			return nil, err
		}
		sig.Interfaces = append(sig.Interfaces, itf)
	}
	return sig, p.done()
}

// ParseMethodSignature parses a method descriptor or generic method
// signature.
func ParseMethodSignature(s string) (*MethodSig, error) {
	p := &sigParser{s: s}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	sig := &MethodSig{TypeParams: tps}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		if p.peek() == 0 {
			return nil, fmt.Errorf("signature %q: unterminated parameters", s)
		}
		t, err := p.javaType()
		if err != nil {
			return nil, err
		}
		sig.Params = append(sig.Params, t)
	}
	p.pos++
	if p.peek() == 'V' {
		p.pos++
	} else if sig.Result, err = p.javaType(); err != nil {
		return nil, err
	}
	for p.peek() == '^' {
		p.pos++
		t, err := p.javaType()
		if err != nil {
			return nil, err
		}
		sig.Throws = append(sig.Throws, t)
	}
	return sig, p.done()
}
