package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/classfile/classfiletest"
	"github.com/dhamidi/javasem/classpath"
	"github.com/dhamidi/javasem/semantic"
)

func load(t *testing.T, name string) *semantic.TypeSymbol {
	t.Helper()
	p := &classpath.Path{}
	p.Add(classpath.Memory(classfiletest.JDK()))
	c, ok := semantic.NewSession(classpath.NewCache(p)).LoadClass(name)
	require.True(t, ok)
	return c
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(load(t, "java.lang.Math")))

	var got jsonClass
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "java.lang.Math", got.Name)
	assert.Equal(t, "java.lang", got.Package)
	assert.Equal(t, "class", got.Kind)
	assert.Contains(t, got.Modifiers, "public")
	assert.Equal(t, "java.lang.Object", got.SuperClass)

	var pi *jsonField
	for i := range got.Fields {
		if got.Fields[i].Name == "PI" {
			pi = &got.Fields[i]
		}
	}
	require.NotNil(t, pi)
	assert.Equal(t, "double", pi.Type)
	assert.InDelta(t, 3.14159, pi.Constant, 1e-5)
	assert.ElementsMatch(t, []string{"public", "static", "final"}, pi.Modifiers)

	var maxes []string
	for _, m := range got.Methods {
		if m.Name == "max" {
			maxes = append(maxes, m.Parameters[0].Type)
			assert.Equal(t, m.Parameters[0].Type, m.ReturnType)
		}
	}
	assert.ElementsMatch(t, []string{"int", "long", "double"}, maxes)
}

func TestJSONEncoderGenericsAndNesting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(load(t, "java.util.Map")))

	var got jsonClass
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "interface", got.Kind)
	assert.Equal(t, []string{"K", "V"}, got.TypeParameters)
	require.Len(t, got.Classes, 1)
	assert.Equal(t, "java.util.Map$Entry", got.Classes[0].FlatName)
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc, err := New("text", &buf)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(load(t, "java.lang.Runnable")))
	assert.Equal(t, "public abstract interface java.lang.Runnable\n  public abstract void run()\n", buf.String())

	_, err = New("yaml", &buf)
	assert.Error(t, err)
}
