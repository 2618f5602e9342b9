// Package lsp serves semantic models over the Language Server Protocol:
// hover shows the symbol and type under the cursor, definition jumps to
// declarations in the same file, completion lists members and visible
// names, and unresolved references are published as diagnostics.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/javasem/analysis"
	"github.com/dhamidi/javasem/semantic"
	"github.com/dhamidi/javasem/tree"
)

const lsName = "javasem"

var log = commonlog.GetLogger("javasem.lsp")

type document struct {
	uri     protocol.DocumentUri
	content []byte
	lines   []int
	report  analysis.Report
}

type Server struct {
	runner  *analysis.Runner
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

// NewServer returns a server analysing documents against the classes
// finder provides.
func NewServer(version string, finder semantic.ClassFinder) *Server {
	s := &Server{
		runner:  analysis.NewRunner(finder, 1),
		version: version,
		docs:    map[protocol.DocumentUri]*document{},
	}
	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentCompletion: s.textDocumentCompletion,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKind(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, []byte(*params.Text))
	}
	return nil
}

// update reanalyses a document and publishes its unresolved references.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		path = uri
	}
	doc := &document{uri: uri, content: content, lines: lineOffsets(content)}
	doc.report = s.runner.AnalyzeSource(path, content)
	if doc.report.Err != nil {
		log.Warningf("%s: %s", path, doc.report.Err)
	}

	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()

	if ctx != nil && ctx.Notify != nil {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: doc.diagnostics(),
		})
	}
}

func (s *Server) document(uri protocol.DocumentUri) *document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.document(params.TextDocument.URI)
	if doc == nil || doc.report.Model == nil {
		return nil, nil
	}
	n, sym, typ := doc.report.Model.At(doc.offset(params.Position))
	if n == nil {
		return nil, nil
	}
	r := doc.rangeOf(n.Range())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```java\n" + describe(sym, typ) + "\n```",
		},
		Range: &r,
	}, nil
}

func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.document(params.TextDocument.URI)
	if doc == nil || doc.report.Model == nil {
		return nil, nil
	}
	m := doc.report.Model
	_, sym, _ := m.At(doc.offset(params.Position))
	if sym == nil {
		return nil, nil
	}
	decl := m.Declaration(sym)
	if decl == nil {
		return nil, nil
	}
	return protocol.Location{URI: doc.uri, Range: doc.rangeOf(declName(decl).Range())}, nil
}

// textDocumentCompletion offers the members of the qualifier before a dot,
// or else the names visible at the cursor, filtered by the typed prefix.
func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.document(params.TextDocument.URI)
	if doc == nil || doc.report.Model == nil {
		return nil, nil
	}
	m := doc.report.Model
	off := doc.offset(params.Position)
	start := off
	for start > 0 && isIdentByte(doc.content[start-1]) {
		start--
	}
	prefix := string(doc.content[start:off])

	var syms []semantic.Symbol
	if start > 0 && doc.content[start-1] == '.' {
		if start < 2 {
			return nil, nil
		}
		_, _, typ := m.At(start - 2)
		syms = members(typ)
	} else if env := m.EnvAt(off); env != nil {
		syms = env.Visible()
	}

	var items []protocol.CompletionItem
	for _, sym := range syms {
		if !strings.HasPrefix(sym.Name(), prefix) || sym.Flags().Has(semantic.Synthetic) {
			continue
		}
		kind := completionKind(sym)
		detail := describe(sym, sym.Type())
		items = append(items, protocol.CompletionItem{
			Label:  sym.Name(),
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

// members lists the fields and methods of t and its supertypes, most
// derived first and each name once per kind.
func members(t semantic.Type) []semantic.Symbol {
	if t == nil || t.Symbol() == nil {
		return nil
	}
	seen := map[string]bool{}
	visited := map[*semantic.TypeSymbol]bool{}
	var out []semantic.Symbol
	var walk func(c *semantic.TypeSymbol)
	walk = func(c *semantic.TypeSymbol) {
		if c == nil || visited[c] {
			return
		}
		visited[c] = true
		for _, m := range c.Members().Members() {
			switch m.(type) {
			case *semantic.VariableSymbol, *semantic.MethodSymbol:
			default:
				continue
			}
			key := m.Kind().String() + ":" + m.Name()
			if m.Name() == "<init>" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
		}
		if sup := c.Superclass(); sup != nil {
			walk(sup.Symbol())
		}
		for _, i := range c.Interfaces() {
			walk(i.Symbol())
		}
	}
	walk(t.Symbol())
	return out
}

func completionKind(sym semantic.Symbol) protocol.CompletionItemKind {
	switch s := sym.(type) {
	case *semantic.MethodSymbol:
		return protocol.CompletionItemKindMethod
	case *semantic.VariableSymbol:
		if _, ok := s.Owner().(*semantic.TypeSymbol); ok {
			return protocol.CompletionItemKindField
		}
		return protocol.CompletionItemKindVariable
	case *semantic.TypeSymbol:
		switch {
		case s.IsEnum():
			return protocol.CompletionItemKindEnum
		case s.IsInterface():
			return protocol.CompletionItemKindInterface
		}
		return protocol.CompletionItemKindClass
	case *semantic.TypeVariableSymbol:
		return protocol.CompletionItemKindTypeParameter
	}
	return protocol.CompletionItemKindText
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}

func (d *document) diagnostics() []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityWarning
	source := lsName
	for _, u := range d.report.Unresolved {
		out = append(out, protocol.Diagnostic{
			Range:    d.rangeOf(u.Node.Range()),
			Severity: &severity,
			Source:   &source,
			Message:  u.Outcome.String() + ": " + u.Name,
		})
	}
	if d.report.Err != nil {
		severity := protocol.DiagnosticSeverityError
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{},
			Severity: &severity,
			Source:   &source,
			Message:  d.report.Err.Error(),
		})
	}
	return out
}

// declName narrows a declaration to its name, where editors expect the
// cursor to land.
func declName(t tree.Tree) tree.Tree {
	var id *tree.Identifier
	switch d := t.(type) {
	case *tree.ClassDecl:
		id = d.Name
	case *tree.MethodDecl:
		id = d.Name
	case *tree.VariableDecl:
		id = d.Name
	case *tree.EnumConstant:
		id = d.Name
	case *tree.TypeParameter:
		id = d.Name
	case *tree.Labeled:
		id = d.Label
	}
	if id == nil {
		return t
	}
	return id
}

// describe renders the hover text for a symbol and its type.
func describe(sym semantic.Symbol, typ semantic.Type) string {
	switch s := sym.(type) {
	case *semantic.TypeSymbol:
		kind := "class"
		switch {
		case s.IsAnnotation():
			kind = "@interface"
		case s.IsInterface():
			kind = "interface"
		case s.IsEnum():
			kind = "enum"
		}
		return kind + " " + s.FullName()
	case *semantic.MethodSymbol:
		owner := ""
		if o, ok := s.Owner().(*semantic.TypeSymbol); ok {
			owner = o.FullName() + "."
		}
		if s.IsConstructor() {
			return owner + s.Signature()
		}
		return s.ReturnType().String() + " " + owner + s.Signature()
	case *semantic.VariableSymbol:
		return s.Type().String() + " " + s.Name()
	case *semantic.PackageSymbol:
		return "package " + s.FullName()
	case *semantic.LabelSymbol:
		return "label " + s.Name()
	}
	if typ == nil {
		return ""
	}
	return typ.String()
}

// offset converts an LSP position to a byte offset. Characters are
// counted in bytes.
func (d *document) offset(p protocol.Position) int {
	line := int(p.Line)
	if line >= len(d.lines) {
		return len(d.content)
	}
	off := d.lines[line] + int(p.Character)
	end := len(d.content)
	if line+1 < len(d.lines) {
		end = d.lines[line+1]
	}
	return min(off, end)
}

func (d *document) rangeOf(span tree.Span) protocol.Range {
	return protocol.Range{Start: d.position(span.Start), End: d.position(span.End)}
}

func (d *document) position(p tree.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line-1, 0)),
		Character: protocol.UInteger(max(p.Column-1, 0)),
	}
}

func lineOffsets(content []byte) []int {
	lines := []int{0}
	for i, b := range content {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
