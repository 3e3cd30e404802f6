// Package lsp implements a language server for XTN documents. It reports
// parse errors as diagnostics and provides formatting and folding ranges.
package lsp

import (
	"path"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "xtn"

// Server is an XTN language server.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	docs    *documents
	log     commonlog.Logger
	version string
}

// NewServer returns a server reporting version in its handshake.
func NewServer(version string) *Server {
	ls := &Server{
		docs:    newDocuments(),
		log:     commonlog.GetLogger("xtn.lsp"),
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:               ls.initialize,
		Initialized:              ls.initialized,
		Shutdown:                 ls.shutdown,
		SetTrace:                 ls.setTrace,
		TextDocumentDidOpen:      ls.textDocumentDidOpen,
		TextDocumentDidChange:    ls.textDocumentDidChange,
		TextDocumentDidClose:     ls.textDocumentDidClose,
		TextDocumentFormatting:   ls.textDocumentFormatting,
		TextDocumentFoldingRange: ls.textDocumentFoldingRange,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// RunStdio serves a single client over standard input and output.
func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Infof("client initialized, server version %s", ls.version)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	ls.docs.set(uri, params.TextDocument.Text)
	ls.publish(ctx, uri, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := ls.docs.apply(uri, params.ContentChanges)
	ls.publish(ctx, uri, text)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	ls.docs.remove(uri)
	// Clear the diagnostics of the closed document.
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	text, ok := ls.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	edits, err := formatEdits(text)
	if err != nil {
		ls.log.Errorf("formatting %s: %s", params.TextDocument.URI, err)
	}
	return edits, err
}

func (ls *Server) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	text, ok := ls.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return foldingRanges(text), nil
}

func (ls *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diags := diagnostics(path.Base(string(uri)), text)
	ls.log.Debugf("%s: %d diagnostic(s)", uri, len(diags))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
