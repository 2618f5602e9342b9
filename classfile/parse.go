package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrBadMagic is returned when the input does not start with 0xCAFEBABE.
var ErrBadMagic = errors.New("invalid class file magic")

// reader accumulates the first error; every read after a failure is a no-op
// returning zero values, so callers check r.err once per structure.
type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readU8() uint64 {
	high := r.readU4()
	low := r.readU4()
	return uint64(high)<<32 | uint64(low)
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int64) {
	if r.err != nil {
		return
	}
	_, r.err = io.CopyN(io.Discard, r.r, n)
}

func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func ParseBytes(data []byte) (*ClassFile, error) {
	return Parse(bytes.NewReader(data))
}

// Parse decodes the declaration-level structure of a class file: header,
// hierarchy, fields, methods and the attributes that describe them. Method
// bodies and every attribute not listed in constants.go are skipped.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%X", ErrBadMagic, magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read version: %w", r.err)
	}

	cp, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.Name = cp.ClassName(r.readU2())
	cf.SuperName = cp.ClassName(r.readU2())
	interfacesCount := r.readU2()
	for i := uint16(0); i < interfacesCount; i++ {
		cf.Interfaces = append(cf.Interfaces, cp.ClassName(r.readU2()))
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	fieldsCount := r.readU2()
	for i := uint16(0); i < fieldsCount; i++ {
		m, err := readMember(r, cp)
		if err != nil {
			return nil, fmt.Errorf("failed to read field %d: %w", i, err)
		}
		cf.Fields = append(cf.Fields, m)
	}

	methodsCount := r.readU2()
	for i := uint16(0); i < methodsCount; i++ {
		m, err := readMember(r, cp)
		if err != nil {
			return nil, fmt.Errorf("failed to read method %d: %w", i, err)
		}
		cf.Methods = append(cf.Methods, m)
	}

	var attrs attributes
	if err := readAttributes(r, cp, &attrs); err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}
	cf.Signature = attrs.signature
	cf.InnerClasses = attrs.innerClasses
	cf.Annotations = attrs.annotations
	cf.Deprecated = attrs.deprecated
	return cf, nil
}

func readMember(r *reader, cp ConstantPool) (Member, error) {
	m := Member{
		AccessFlags: AccessFlags(r.readU2()),
		Name:        cp.Utf8(r.readU2()),
		Descriptor:  cp.Utf8(r.readU2()),
	}
	if r.err != nil {
		return m, r.err
	}
	var attrs attributes
	if err := readAttributes(r, cp, &attrs); err != nil {
		return m, err
	}
	m.Signature = attrs.signature
	m.Exceptions = attrs.exceptions
	m.Annotations = attrs.annotations
	m.Constant = attrs.constant
	m.Deprecated = attrs.deprecated
	if attrs.synthetic {
		m.AccessFlags |= AccSynthetic
	}
	return m, nil
}

// attributes collects what one attribute table contributes to its owner.
type attributes struct {
	signature    string
	exceptions   []string
	innerClasses []InnerClass
	annotations  []string
	constant     any
	deprecated   bool
	synthetic    bool
}

func readAttributes(r *reader, cp ConstantPool, out *attributes) error {
	count := r.readU2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		name := cp.Utf8(r.readU2())
		length := r.readU4()
		if r.err != nil {
			break
		}
		switch name {
		case AttrSignature:
			out.signature = cp.Utf8(r.readU2())
		case AttrConstantValue:
			out.constant = cp.Value(r.readU2())
		case AttrExceptions:
			n := r.readU2()
			for j := uint16(0); j < n; j++ {
				out.exceptions = append(out.exceptions, cp.ClassName(r.readU2()))
			}
		case AttrInnerClasses:
			n := r.readU2()
			for j := uint16(0); j < n; j++ {
				ic := InnerClass{
					Name:  cp.ClassName(r.readU2()),
					Outer: cp.ClassName(r.readU2()),
				}
				ic.SimpleName = cp.Utf8(r.readU2())
				ic.AccessFlags = AccessFlags(r.readU2())
				out.innerClasses = append(out.innerClasses, ic)
			}
		case AttrRuntimeVisibleAnnotations, AttrRuntimeInvisibleAnnotations:
			info := r.readBytes(int(length))
			if r.err == nil {
				names, err := annotationTypes(info, cp)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", name, err)
				}
				out.annotations = append(out.annotations, names...)
			}
		case AttrDeprecated:
			out.deprecated = true
		case AttrSynthetic:
			out.synthetic = true
		default:
			r.skip(int64(length))
		}
	}
	return r.err
}

// annotationTypes returns the type descriptors of the annotations in a
// Runtime*Annotations attribute; element values are walked only to find
// where the next annotation starts.
func annotationTypes(info []byte, cp ConstantPool) ([]string, error) {
	r := &reader{r: bytes.NewReader(info)}
	n := r.readU2()
	var names []string
	for i := uint16(0); i < n && r.err == nil; i++ {
		names = append(names, cp.Utf8(r.readU2()))
		skipElementPairs(r)
	}
	return names, r.err
}

func skipElementPairs(r *reader) {
	pairs := r.readU2()
	for i := uint16(0); i < pairs && r.err == nil; i++ {
		r.readU2()
		skipElementValue(r)
	}
}

func skipElementValue(r *reader) {
	switch tag := r.readU1(); tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		r.readU2()
	case 'e':
		r.readU2()
		r.readU2()
	case '@':
		r.readU2()
		skipElementPairs(r)
	case '[':
		n := r.readU2()
		for i := uint16(0); i < n && r.err == nil; i++ {
			skipElementValue(r)
		}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("unknown element value tag %q", tag)
		}
	}
}

func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			// surrogate pairs are encoded as two 3-byte sequences
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3] == 0xED {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
