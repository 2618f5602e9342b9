package semantic

import (
	"strings"

	"github.com/dhamidi/javasem/classfile"
	"github.com/dhamidi/javasem/tree"
)

// Flags are the modifier and property bits of a symbol.
type Flags uint32

const (
	Public Flags = 1 << iota
	Private
	Protected
	Static
	Final
	Synchronized
	Volatile
	Transient
	Native
	Interface
	Abstract
	Strictfp
	Annotation
	Enum
	Varargs
	Deprecated
	Default
	Synthetic
)

// AccessFlags masks the access modifiers; zero means package access.
const AccessFlags = Public | Private | Protected

func (f Flags) Has(mask Flags) bool { return f&mask != 0 }

func (f Flags) Access() Flags { return f & AccessFlags }

var flagNames = []struct {
	flag Flags
	name string
}{
	{Public, "public"},
	{Private, "private"},
	{Protected, "protected"},
	{Abstract, "abstract"},
	{Default, "default"},
	{Static, "static"},
	{Final, "final"},
	{Synchronized, "synchronized"},
	{Volatile, "volatile"},
	{Transient, "transient"},
	{Native, "native"},
	{Strictfp, "strictfp"},
	{Interface, "interface"},
	{Annotation, "annotation"},
	{Enum, "enum"},
	{Varargs, "varargs"},
	{Deprecated, "deprecated"},
	{Synthetic, "synthetic"},
}

func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, " ")
}

var modifierFlags = map[string]Flags{
	"public":       Public,
	"private":      Private,
	"protected":    Protected,
	"static":       Static,
	"final":        Final,
	"synchronized": Synchronized,
	"volatile":     Volatile,
	"transient":    Transient,
	"native":       Native,
	"abstract":     Abstract,
	"strictfp":     Strictfp,
	"default":      Default,
}

// FlagsFromModifiers maps modifier keywords; @Deprecated sets Deprecated.
func FlagsFromModifiers(m *tree.Modifiers) Flags {
	if m == nil {
		return 0
	}
	var f Flags
	for _, k := range m.Keywords {
		f |= modifierFlags[k]
	}
	for _, a := range m.Annotations {
		switch tree.QualifiedName(a.Type) {
		case "Deprecated", "java.lang.Deprecated":
			f |= Deprecated
		}
	}
	return f
}

var accessFlagBits = []struct {
	acc  classfile.AccessFlags
	flag Flags
}{
	{classfile.AccPublic, Public},
	{classfile.AccPrivate, Private},
	{classfile.AccProtected, Protected},
	{classfile.AccStatic, Static},
	{classfile.AccFinal, Final},
	{classfile.AccNative, Native},
	{classfile.AccInterface, Interface},
	{classfile.AccAbstract, Abstract},
	{classfile.AccStrict, Strictfp},
	{classfile.AccSynthetic, Synthetic},
	{classfile.AccAnnotation, Annotation},
	{classfile.AccEnum, Enum},
}

// flagsFromAccess converts class, field or method access flags. The bits
// shared between kinds (synchronized/super, volatile/bridge,
// transient/varargs) are mapped by the caller.
func flagsFromAccess(a classfile.AccessFlags) Flags {
	var f Flags
	for _, b := range accessFlagBits {
		if a.Has(b.acc) {
			f |= b.flag
		}
	}
	return f
}
