package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// hover shows the declaration and doc comment of the procedure, import or
// constant referenced at pos. Returns nil if nothing resolves.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	ref, ok := referenceAt(content, pos)
	if !ok {
		return nil
	}
	sym := resolve(result, ref)
	if sym == nil {
		return nil
	}

	var md strings.Builder
	md.WriteString("```masm\n")
	md.WriteString(sym.Detail)
	md.WriteString("\n```")
	if sym.Doc != "" {
		md.WriteString("\n\n")
		md.WriteString(sym.Doc)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md.String(),
		},
		Range: &ref.Range,
	}
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	content, result, ok := s.docs.Analysis(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	return hover(result, content, params.Position), nil
}
