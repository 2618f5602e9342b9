package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/javasem/classfile/classfiletest"
	"github.com/dhamidi/javasem/classpath"
)

const uri = "file:///work/Greeter.java"

const src = `class Greeter {
    private String name = "world";
    int size() {
        return name.length() + missing;
    }
}
`

func open(t *testing.T) *Server {
	t.Helper()
	p := &classpath.Path{}
	p.Add(classpath.Memory(classfiletest.JDK()))
	s := NewServer("test", classpath.NewCache(p))
	err := s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Version: 1, Text: src},
	})
	require.NoError(t, err)
	return s
}

// at returns the position of the first occurrence of text plus delta.
func at(text string, delta int) protocol.TextDocumentPositionParams {
	off := strings.Index(src, text) + delta
	line := strings.Count(src[:off], "\n")
	col := off - (strings.LastIndex(src[:off], "\n") + 1)
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
	}
}

func TestHover(t *testing.T) {
	s := open(t)

	h, err := s.textDocumentHover(nil, &protocol.HoverParams{TextDocumentPositionParams: at("name.length", 1)})
	require.NoError(t, err)
	require.NotNil(t, h)
	content, ok := h.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "java.lang.String name")
	require.NotNil(t, h.Range)
	assert.EqualValues(t, 3, h.Range.Start.Line)

	h, err = s.textDocumentHover(nil, &protocol.HoverParams{TextDocumentPositionParams: at("length()", 2)})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Contains(t, h.Contents.(protocol.MarkupContent).Value, "int java.lang.String.length()")
}

func TestDefinition(t *testing.T) {
	s := open(t)

	loc, err := s.textDocumentDefinition(nil, &protocol.DefinitionParams{TextDocumentPositionParams: at("name.length", 0)})
	require.NoError(t, err)
	l, ok := loc.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, uri, l.URI)
	assert.EqualValues(t, 1, l.Range.Start.Line)
	assert.EqualValues(t, strings.Index("    private String name", "name"), l.Range.Start.Character)

	loc, err = s.textDocumentDefinition(nil, &protocol.DefinitionParams{TextDocumentPositionParams: at("length()", 0)})
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestDiagnosticsAndClose(t *testing.T) {
	s := open(t)
	doc := s.document(uri)
	require.NotNil(t, doc)

	diags := doc.diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "missing")
	assert.EqualValues(t, 3, diags[0].Range.Start.Line)

	require.NoError(t, s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, s.document(uri))
}

func TestDidChangeReanalyses(t *testing.T) {
	s := open(t)
	err := s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "class Greeter {}\n"}},
	})
	require.NoError(t, err)
	assert.Empty(t, s.document(uri).diagnostics())
}

func TestURIToPath(t *testing.T) {
	p, err := uriToPath("file:///tmp/a%20b/X.java")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a b/X.java", p)

	p, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", p)
}

func labels(t *testing.T, result any) map[string]protocol.CompletionItemKind {
	t.Helper()
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	out := map[string]protocol.CompletionItemKind{}
	for _, it := range items {
		require.NotNil(t, it.Kind)
		out[it.Label] = *it.Kind
	}
	return out
}

func TestCompletionAfterDot(t *testing.T) {
	s := open(t)
	res, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{TextDocumentPositionParams: at("length()", 3)})
	require.NoError(t, err)
	got := labels(t, res)
	assert.Equal(t, protocol.CompletionItemKindMethod, got["length"])
	for name := range got {
		assert.True(t, strings.HasPrefix(name, "len"), name)
	}
}

func TestCompletionOfVisibleNames(t *testing.T) {
	s := open(t)
	res, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{TextDocumentPositionParams: at("name.length", 2)})
	require.NoError(t, err)
	got := labels(t, res)
	assert.Equal(t, map[string]protocol.CompletionItemKind{"name": protocol.CompletionItemKindField}, got)

	res, err = s.textDocumentCompletion(nil, &protocol.CompletionParams{TextDocumentPositionParams: at("return", 0)})
	require.NoError(t, err)
	got = labels(t, res)
	assert.Contains(t, got, "size")
	assert.Contains(t, got, "Greeter")
	assert.NotContains(t, got, "this")
}
