package classfile_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/classfile"
	"github.com/dhamidi/javasem/classfile/classfiletest"
)

func TestParseClassFile(t *testing.T) {
	src := &classfiletest.Class{
		Name:       "com/example/Box",
		Super:      "java/lang/Object",
		Interfaces: []string{"java/lang/Comparable", "java/io/Serializable"},
		Flags:      classfile.AccPublic | classfile.AccSuper,
		Signature:  "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Comparable<Lcom/example/Box<TT;>;>;Ljava/io/Serializable;",
		Fields: []classfiletest.Member{
			{Flags: classfile.AccPrivate, Name: "value", Descriptor: "Ljava/lang/Object;", Signature: "TT;"},
			{Flags: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal, Name: "LIMIT", Descriptor: "I", Constant: 42},
			{Flags: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal, Name: "BIG", Descriptor: "J", Constant: int64(1) << 40},
			{Flags: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal, Name: "NAME", Descriptor: "Ljava/lang/String;", Constant: "box"},
		},
		Methods: []classfiletest.Member{
			{Flags: classfile.AccPublic, Name: "<init>", Descriptor: "()V", Body: true},
			{Flags: classfile.AccPublic, Name: "get", Descriptor: "()Ljava/lang/Object;", Signature: "()TT;", Body: true},
			{Flags: classfile.AccPublic, Name: "load", Descriptor: "()V", Exceptions: []string{"java/io/IOException"}, Annotations: []string{"Ljava/lang/Deprecated;"}, Body: true},
		},
		InnerClasses: []classfile.InnerClass{
			{Name: "com/example/Box$Entry", Outer: "com/example/Box", SimpleName: "Entry", AccessFlags: classfile.AccPublic | classfile.AccStatic},
		},
		Annotations: []string{"Ljava/lang/FunctionalInterface;"},
		Deprecated:  true,
	}

	cf, err := classfile.Parse(bytes.NewReader(src.Bytes()))
	require.NoError(t, err)

	t.Run("header", func(t *testing.T) {
		assert.Equal(t, uint16(52), cf.MajorVersion)
		assert.Equal(t, "com/example/Box", cf.Name)
		assert.Equal(t, "java/lang/Object", cf.SuperName)
		assert.Equal(t, []string{"java/lang/Comparable", "java/io/Serializable"}, cf.Interfaces)
		assert.True(t, cf.AccessFlags.IsPublic())
		assert.False(t, cf.IsInterface())
		assert.True(t, cf.Deprecated)
		assert.Equal(t, []string{"Ljava/lang/FunctionalInterface;"}, cf.Annotations)
	})

	t.Run("fields", func(t *testing.T) {
		require.Len(t, cf.Fields, 4)
		value := cf.Field("value")
		require.NotNil(t, value)
		assert.Equal(t, "TT;", value.Signature)
		assert.Equal(t, "TT;", value.TypeSignature())
		assert.Equal(t, int32(42), cf.Field("LIMIT").Constant)
		assert.Equal(t, int64(1)<<40, cf.Field("BIG").Constant)
		assert.Equal(t, "box", cf.Field("NAME").Constant)
	})

	t.Run("methods", func(t *testing.T) {
		require.Len(t, cf.Methods, 3)
		get := cf.MethodsNamed("get")
		require.Len(t, get, 1)
		assert.Equal(t, "()TT;", get[0].TypeSignature())
		load := cf.MethodsNamed("load")[0]
		assert.Equal(t, []string{"java/io/IOException"}, load.Exceptions)
		assert.Equal(t, []string{"Ljava/lang/Deprecated;"}, load.Annotations)
		assert.Equal(t, "()V", load.TypeSignature())
	})

	t.Run("inner classes", func(t *testing.T) {
		require.Len(t, cf.InnerClasses, 1)
		assert.Equal(t, "Entry", cf.InnerClasses[0].SimpleName)
		assert.Equal(t, "com/example/Box", cf.InnerClasses[0].Outer)
		assert.True(t, cf.InnerClasses[0].AccessFlags.IsStatic())
	})
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := classfile.ParseBytes([]byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 52})
	require.ErrorIs(t, err, classfile.ErrBadMagic)
}

func TestParseTruncated(t *testing.T) {
	data := (&classfiletest.Class{Name: "A", Super: "java/lang/Object"}).Bytes()
	_, err := classfile.ParseBytes(data[:len(data)-3])
	require.Error(t, err)
}

func TestParseMiniJDK(t *testing.T) {
	for name, data := range classfiletest.JDK() {
		cf, err := classfile.ParseBytes(data)
		require.NoError(t, err, name)
		assert.Equal(t, name, cf.Name+".class")
	}
}

func TestInternalToSourceName(t *testing.T) {
	assert.Equal(t, "java.util.Map.Entry", classfile.InternalToSourceName("java/util/Map$Entry"))
	assert.Equal(t, "java/lang/String", classfile.SourceToInternalName("java.lang.String"))
}
