package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/masmfmt/internal/format"
)

// formatEdits returns a single edit replacing the whole document with its
// formatted form, or no edits when the content is already formatted.
func formatEdits(content string) []protocol.TextEdit {
	formatted := format.Format(content)
	if formatted == content {
		return []protocol.TextEdit{}
	}

	lines := splitLines(content)
	last := len(lines) - 1
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End: protocol.Position{
				Line:      uint32(last),
				Character: utf16Len(lines[last]),
			},
		},
		NewText: formatted,
	}}
}

// textDocumentFormatting handles textDocument/formatting requests. Editor
// options such as tab size are ignored; the layout is fixed.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	edits := formatEdits(content)
	if len(edits) > 0 {
		log.Debugf("formatting %s: %d lines", params.TextDocument.URI, strings.Count(edits[0].NewText, "\n"))
	}
	return edits, nil
}
