package classfile

import "strings"

// ClassFile is the declaration-level view of a compiled class. Names are
// internal names (java/util/Map$Entry); constant pool indices are resolved
// during decoding so the value carries no reference to the pool.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  AccessFlags
	Name         string
	SuperName    string
	Interfaces   []string
	Signature    string
	Fields       []Member
	Methods      []Member
	InnerClasses []InnerClass
	Annotations  []string
	Deprecated   bool
}

// Member is a field or a method.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Signature   string
	Exceptions  []string
	Annotations []string
	Constant    any
	Deprecated  bool
}

// InnerClass is one entry of the InnerClasses attribute. Outer and
// SimpleName are empty for local and anonymous classes.
type InnerClass struct {
	Name        string
	Outer       string
	SimpleName  string
	AccessFlags AccessFlags
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// MethodsNamed returns every overload declared with the given name.
func (cf *ClassFile) MethodsNamed(name string) []*Member {
	var methods []*Member
	for i := range cf.Methods {
		if cf.Methods[i].Name == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}

// TypeSignature returns the generic signature when present, otherwise the
// erased descriptor; both parse with ParseFieldSignature or
// ParseMethodSignature.
func (m *Member) TypeSignature() string {
	if m.Signature != "" {
		return m.Signature
	}
	return m.Descriptor
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "/", "."), "$", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
