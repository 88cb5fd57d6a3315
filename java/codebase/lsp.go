package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/tjc/format"
	"github.com/dhamidi/tjc/internal/logging"
	"github.com/dhamidi/tjc/java/compile"
	"github.com/dhamidi/tjc/java/diag"
)

const lsName = "tjc"

// LSPServer publishes compiler diagnostics and document outlines over the
// language server protocol.
type LSPServer struct {
	codebase *Codebase
	opts     []compile.Option
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger
}

func NewLSPServer(version string, opts ...compile.Option) *LSPServer {
	ls := &LSPServer{
		opts:    opts,
		version: version,
		log:     logging.Get("lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentFormatting:     ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase returns the workspace, or nil before initialize.
func (ls *LSPServer) Codebase() *Codebase {
	return ls.codebase
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.opts...)
	ls.log.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		ls.log.Warningf("scan: %s", err)
	}
	for _, path := range ls.codebase.Files() {
		ls.publish(ctx, pathToURI(path), ls.codebase.GetFile(path))
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	info := ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			info := ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx, params.TextDocument.URI, info)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.publish(ctx, params.TextDocument.URI, nil)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		ls.log.Warningf("save: %s", err)
		return nil
	}
	ls.publish(ctx, params.TextDocument.URI, ls.codebase.GetFile(path))
	return nil
}

// publish sends the diagnostics of info, or an empty list to clear them
// when info is nil.
func (ls *LSPServer) publish(ctx *glsp.Context, uri protocol.DocumentUri, info *FileInfo) {
	diagnostics := []protocol.Diagnostic{}
	if info != nil && info.Result != nil {
		for _, d := range info.Result.Diagnostics {
			diagnostics = append(diagnostics, toProtocolDiagnostic(d))
		}
	}
	ls.log.Debugf("publish %s: %d diagnostics", uri, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	start := toProtocolPosition(d.Pos)
	end := start
	end.Character++
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
}

func toProtocolPosition(pos diag.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(pos.Line-1, 0)),
		Character: protocol.UInteger(max(pos.Column-1, 0)),
	}
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	return toDocumentSymbols(ls.codebase.Symbols(path)), nil
}

func toDocumentSymbols(symbols []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		detail := s.Detail
		r := protocol.Range{Start: toProtocolPosition(s.Start), End: toProtocolPosition(s.End)}
		out = append(out, protocol.DocumentSymbol{
			Name:           s.Name,
			Detail:         &detail,
			Kind:           toSymbolKind(s.Kind),
			Range:          r,
			SelectionRange: r,
			Children:       toDocumentSymbols(s.Children),
		})
	}
	return out
}

func toSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolClass:
		return protocol.SymbolKindClass
	case SymbolField:
		return protocol.SymbolKindField
	case SymbolMethod:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindVariable
	}
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character) + 1

	completions := ls.codebase.CompletionsAtPoint(path, line, col)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toCompletionKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		format := protocol.InsertTextFormatSnippet

		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		})
	}

	return items, nil
}

func toCompletionKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindLocal:
		return protocol.CompletionItemKindVariable
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	default:
		return protocol.CompletionItemKindText
	}
}

// textDocumentFormatting replaces the whole document with its canonical
// form. Documents with syntax errors are left alone.
func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	formatted, err := format.PrettyPrint(f.Content)
	if err != nil {
		ls.log.Debugf("format %s: %s", path, err)
		return nil, nil
	}
	if string(formatted) == string(f.Content) {
		return []protocol.TextEdit{}, nil
	}

	lines := strings.Count(string(f.Content), "\n")
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(lines + 1), Character: 0},
		},
		NewText: string(formatted),
	}}, nil
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

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
