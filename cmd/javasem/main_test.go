package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/analysis"
	"github.com/dhamidi/javasem/classfile/classfiletest"
	"github.com/dhamidi/javasem/classpath"
	"github.com/dhamidi/javasem/semantic"
)

func jdk() *classpath.Cache {
	p := &classpath.Path{}
	p.Add(classpath.Memory(classfiletest.JDK()))
	return classpath.NewCache(p)
}

const greeter = `package demo;

class Greeter implements Runnable {
    private String name = "world";
    public void run() {
        System.out.println(name.length());
        undefined();
    }
    static class Inner {}
}
`

func TestPrintReferences(t *testing.T) {
	r := analysis.NewRunner(jdk(), 1).AnalyzeSource("Greeter.java", []byte(greeter))
	require.NoError(t, r.Err)

	var out bytes.Buffer
	printReferences(&out, r, false)
	text := out.String()
	assert.Contains(t, text, "System.out.println() -> java.io.PrintStream.println(int) : void")
	assert.Contains(t, text, "name.length() -> java.lang.String.length() : int")
	assert.Contains(t, text, "name -> demo.Greeter.name : java.lang.String")
	assert.Contains(t, text, "unresolved\tundefined (not found)")
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("-> java.io.PrintStream.println(int)")))

	out.Reset()
	printReferences(&out, r, true)
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestPrintSymbols(t *testing.T) {
	r := analysis.NewRunner(jdk(), 1).AnalyzeSource("Greeter.java", []byte(greeter))
	require.NoError(t, r.Err)

	var out bytes.Buffer
	require.NoError(t, printSymbols(&out, "text", r.Model))
	assert.Equal(t, `class demo.Greeter extends java.lang.Object implements java.lang.Runnable
  private java.lang.String name
  public void run()
  static class demo.Greeter.Inner extends java.lang.Object
    synthetic Inner()
  synthetic Greeter()
`, out.String())
}

func TestPrintClassInfo(t *testing.T) {
	ss := semantic.NewSession(jdk())
	c, ok := ss.LoadClass("java.util.ArrayList")
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, printClassInfo(&out, ss, c))
	text := out.String()
	assert.Contains(t, text, "public class java.util.ArrayList extends java.lang.Object implements java.util.List<E>")
	assert.Contains(t, text, "hierarchy:\n  java.util.ArrayList<E>\n    java.lang.Object\n    java.util.List<E>\n")
	assert.Contains(t, text, "java.lang.Iterable<E>")
}

func TestPrintSymbolsJSON(t *testing.T) {
	r := analysis.NewRunner(jdk(), 1).AnalyzeSource("Greeter.java", []byte(greeter))
	require.NoError(t, r.Err)

	var out bytes.Buffer
	require.NoError(t, printSymbols(&out, "json", r.Model))
	assert.Contains(t, out.String(), `"name": "demo.Greeter"`)
	assert.Contains(t, out.String(), `"flatName": "demo.Greeter$Inner"`)
	assert.Error(t, printSymbols(&out, "xml", r.Model))
}
