package classfile

const (
	Magic = 0xCAFEBABE
)

// AccessFlags are the raw JVM access_flags of a class, inner class entry,
// field or method. Several bits are overloaded depending on where they
// appear (ACC_SUPER/ACC_SYNCHRONIZED, ACC_VOLATILE/ACC_BRIDGE,
// ACC_TRANSIENT/ACC_VARARGS).
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

func (f AccessFlags) Has(mask AccessFlags) bool { return f&mask != 0 }

func (f AccessFlags) IsPublic() bool     { return f.Has(AccPublic) }
func (f AccessFlags) IsPrivate() bool    { return f.Has(AccPrivate) }
func (f AccessFlags) IsProtected() bool  { return f.Has(AccProtected) }
func (f AccessFlags) IsStatic() bool     { return f.Has(AccStatic) }
func (f AccessFlags) IsFinal() bool      { return f.Has(AccFinal) }
func (f AccessFlags) IsBridge() bool     { return f.Has(AccBridge) }
func (f AccessFlags) IsVarargs() bool    { return f.Has(AccVarargs) }
func (f AccessFlags) IsInterface() bool  { return f.Has(AccInterface) }
func (f AccessFlags) IsAbstract() bool   { return f.Has(AccAbstract) }
func (f AccessFlags) IsSynthetic() bool  { return f.Has(AccSynthetic) }
func (f AccessFlags) IsAnnotation() bool { return f.Has(AccAnnotation) }
func (f AccessFlags) IsEnum() bool       { return f.Has(AccEnum) }

type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantDynamic            ConstantTag = 17
	ConstantInvokeDynamic      ConstantTag = 18
	ConstantModule             ConstantTag = 19
	ConstantPackage            ConstantTag = 20
)

// Attribute names the decoder understands. Every other attribute,
// including Code, is skipped by length.
const (
	AttrSignature                   = "Signature"
	AttrExceptions                  = "Exceptions"
	AttrInnerClasses                = "InnerClasses"
	AttrConstantValue               = "ConstantValue"
	AttrDeprecated                  = "Deprecated"
	AttrSynthetic                   = "Synthetic"
	AttrRuntimeVisibleAnnotations   = "RuntimeVisibleAnnotations"
	AttrRuntimeInvisibleAnnotations = "RuntimeInvisibleAnnotations"
)
