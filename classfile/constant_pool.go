package classfile

import "fmt"

// constant is one decoded constant pool slot. Only the parts needed for
// declaration-level decoding are kept: UTF-8 text, class name indices and
// the literal values a ConstantValue attribute can point at.
type constant struct {
	tag   ConstantTag
	text  string
	index uint16
	value any
}

// ConstantPool is indexed from 1, like the JVM's; slot 0 and the slot after
// a long or double are empty.
type ConstantPool []constant

func (cp ConstantPool) entry(index uint16) (constant, bool) {
	if index == 0 || int(index) >= len(cp) {
		return constant{}, false
	}
	return cp[index], true
}

// Utf8 returns the text of a CONSTANT_Utf8 slot, or "" when the index does
// not point at one.
func (cp ConstantPool) Utf8(index uint16) string {
	c, ok := cp.entry(index)
	if !ok || c.tag != ConstantUtf8 {
		return ""
	}
	return c.text
}

// ClassName returns the internal name (java/lang/String) a CONSTANT_Class
// slot refers to.
func (cp ConstantPool) ClassName(index uint16) string {
	c, ok := cp.entry(index)
	if !ok || c.tag != ConstantClass {
		return ""
	}
	return cp.Utf8(c.index)
}

// Value returns the literal held by an Integer, Float, Long, Double or
// String slot. Strings are resolved to their text.
func (cp ConstantPool) Value(index uint16) any {
	c, ok := cp.entry(index)
	if !ok {
		return nil
	}
	switch c.tag {
	case ConstantString:
		return cp.Utf8(c.index)
	case ConstantInteger, ConstantFloat, ConstantLong, ConstantDouble:
		return c.value
	}
	return nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.err)
	}
	cp := make(ConstantPool, count)
	for i := uint16(1); i < count; i++ {
		c, wide, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cp[i] = c
		if wide {
			i++
		}
	}
	return cp, nil
}

// readConstant decodes one slot. The boolean reports whether the constant
// occupies two slots.
func readConstant(r *reader) (constant, bool, error) {
	tag := ConstantTag(r.readU1())
	c := constant{tag: tag}
	wide := false
	switch tag {
	case ConstantUtf8:
		n := r.readU2()
		c.text = decodeModifiedUtf8(r.readBytes(int(n)))
	case ConstantInteger:
		c.value = int32(r.readU4())
	case ConstantFloat:
		c.value = float32frombits(r.readU4())
	case ConstantLong:
		c.value = int64(r.readU8())
		wide = true
	case ConstantDouble:
		c.value = float64frombits(r.readU8())
		wide = true
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.index = r.readU2()
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		c.index = r.readU2()
		r.readU2()
	case ConstantMethodHandle:
		r.readU1()
		c.index = r.readU2()
	default:
		if r.err == nil {
			return c, false, fmt.Errorf("unknown constant pool tag: %d", tag)
		}
	}
	return c, wide, r.err
}
