// Package classfiletest synthesizes class files for tests, so fixtures are
// described in Go instead of committed as binaries.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/dhamidi/javasem/classfile"
)

// Class describes a class file to emit. Super "" emits no superclass, which
// only java/lang/Object and module-info legitimately have.
type Class struct {
	Name         string
	Super        string
	Interfaces   []string
	Flags        classfile.AccessFlags
	Signature    string
	Fields       []Member
	Methods      []Member
	InnerClasses []classfile.InnerClass
	Annotations  []string
	Deprecated   bool
}

type Member struct {
	Flags       classfile.AccessFlags
	Name        string
	Descriptor  string
	Signature   string
	Exceptions  []string
	Annotations []string
	Constant    any
	// Body emits a trivial Code attribute, which decoders must skip.
	Body bool
}

type pool struct {
	buf     bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if i, ok := p.utf8s[s]; ok {
		return i
	}
	p.buf.WriteByte(byte(classfile.ConstantUtf8))
	writeU2(&p.buf, uint16(len(s)))
	p.buf.WriteString(s)
	p.utf8s[s] = p.count
	p.count++
	return p.utf8s[s]
}

func (p *pool) class(name string) uint16 {
	if name == "" {
		return 0
	}
	if i, ok := p.classes[name]; ok {
		return i
	}
	nameIndex := p.utf8(name)
	p.buf.WriteByte(byte(classfile.ConstantClass))
	writeU2(&p.buf, nameIndex)
	p.classes[name] = p.count
	p.count++
	return p.classes[name]
}

func (p *pool) value(v any) uint16 {
	index := p.count
	switch v := v.(type) {
	case int:
		p.buf.WriteByte(byte(classfile.ConstantInteger))
		writeU4(&p.buf, uint32(int32(v)))
	case int32:
		p.buf.WriteByte(byte(classfile.ConstantInteger))
		writeU4(&p.buf, uint32(v))
	case float32:
		p.buf.WriteByte(byte(classfile.ConstantFloat))
		writeU4(&p.buf, math.Float32bits(v))
	case int64:
		p.buf.WriteByte(byte(classfile.ConstantLong))
		writeU4(&p.buf, uint32(uint64(v)>>32))
		writeU4(&p.buf, uint32(v))
		p.count++
	case float64:
		p.buf.WriteByte(byte(classfile.ConstantDouble))
		bits := math.Float64bits(v)
		writeU4(&p.buf, uint32(bits>>32))
		writeU4(&p.buf, uint32(bits))
		p.count++
	case string:
		s := p.utf8(v)
		index = p.count
		p.buf.WriteByte(byte(classfile.ConstantString))
		writeU2(&p.buf, s)
	default:
		return 0
	}
	p.count++
	return index
}

type attribute struct {
	name uint16
	info []byte
}

func (p *pool) memberAttributes(m Member) []attribute {
	var attrs []attribute
	if m.Signature != "" {
		attrs = append(attrs, attribute{p.utf8(classfile.AttrSignature), u2(p.utf8(m.Signature))})
	}
	if m.Constant != nil {
		if idx := p.value(m.Constant); idx != 0 {
			attrs = append(attrs, attribute{p.utf8(classfile.AttrConstantValue), u2(idx)})
		}
	}
	if len(m.Exceptions) > 0 {
		var b bytes.Buffer
		writeU2(&b, uint16(len(m.Exceptions)))
		for _, e := range m.Exceptions {
			writeU2(&b, p.class(e))
		}
		attrs = append(attrs, attribute{p.utf8(classfile.AttrExceptions), b.Bytes()})
	}
	if len(m.Annotations) > 0 {
		attrs = append(attrs, p.annotations(m.Annotations))
	}
	if m.Body {
		var b bytes.Buffer
		writeU2(&b, 1)
		writeU2(&b, 1)
		writeU4(&b, 1)
		b.WriteByte(0xb1)
		writeU2(&b, 0)
		writeU2(&b, 0)
		attrs = append(attrs, attribute{p.utf8("Code"), b.Bytes()})
	}
	return attrs
}

func (p *pool) annotations(descriptors []string) attribute {
	var b bytes.Buffer
	writeU2(&b, uint16(len(descriptors)))
	for _, d := range descriptors {
		writeU2(&b, p.utf8(d))
		// one element pair so decoders exercise element value skipping
		writeU2(&b, 1)
		writeU2(&b, p.utf8("value"))
		b.WriteByte('s')
		writeU2(&b, p.utf8(""))
	}
	return attribute{p.utf8(classfile.AttrRuntimeVisibleAnnotations), b.Bytes()}
}

// Bytes encodes the class. Version is Java 8 (52.0).
func (c *Class) Bytes() []byte {
	p := newPool()
	this := p.class(c.Name)
	super := p.class(c.Super)
	var interfaces []uint16
	for _, i := range c.Interfaces {
		interfaces = append(interfaces, p.class(i))
	}

	var body bytes.Buffer
	writeU2(&body, uint16(c.Flags))
	writeU2(&body, this)
	writeU2(&body, super)
	writeU2(&body, uint16(len(interfaces)))
	for _, i := range interfaces {
		writeU2(&body, i)
	}
	for _, members := range [][]Member{c.Fields, c.Methods} {
		writeU2(&body, uint16(len(members)))
		for _, m := range members {
			writeU2(&body, uint16(m.Flags))
			writeU2(&body, p.utf8(m.Name))
			writeU2(&body, p.utf8(m.Descriptor))
			writeAttributes(&body, p.memberAttributes(m))
		}
	}

	var attrs []attribute
	if c.Signature != "" {
		attrs = append(attrs, attribute{p.utf8(classfile.AttrSignature), u2(p.utf8(c.Signature))})
	}
	if len(c.InnerClasses) > 0 {
		var b bytes.Buffer
		writeU2(&b, uint16(len(c.InnerClasses)))
		for _, ic := range c.InnerClasses {
			writeU2(&b, p.class(ic.Name))
			writeU2(&b, p.class(ic.Outer))
			if ic.SimpleName == "" {
				writeU2(&b, 0)
			} else {
				writeU2(&b, p.utf8(ic.SimpleName))
			}
			writeU2(&b, uint16(ic.AccessFlags))
		}
		attrs = append(attrs, attribute{p.utf8(classfile.AttrInnerClasses), b.Bytes()})
	}
	if len(c.Annotations) > 0 {
		attrs = append(attrs, p.annotations(c.Annotations))
	}
	if c.Deprecated {
		attrs = append(attrs, attribute{p.utf8(classfile.AttrDeprecated), nil})
	}
	attrs = append(attrs, attribute{p.utf8("SourceFile"), u2(p.utf8("Synthesized.java"))})
	writeAttributes(&body, attrs)

	var out bytes.Buffer
	writeU4(&out, classfile.Magic)
	writeU2(&out, 0)
	writeU2(&out, 52)
	writeU2(&out, p.count)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeAttributes(b *bytes.Buffer, attrs []attribute) {
	writeU2(b, uint16(len(attrs)))
	for _, a := range attrs {
		writeU2(b, a.name)
		writeU4(b, uint32(len(a.info)))
		b.Write(a.info)
	}
}

func u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func writeU2(b *bytes.Buffer, v uint16) {
	b.Write(u2(v))
}

func writeU4(b *bytes.Buffer, v uint32) {
	b.Write(binary.BigEndian.AppendUint32(nil, v))
}
