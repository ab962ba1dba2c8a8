package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var symbolKinds = map[SymbolKind]protocol.SymbolKind{
	SymbolImport:   protocol.SymbolKindModule,
	SymbolProc:     protocol.SymbolKindFunction,
	SymbolExport:   protocol.SymbolKindFunction,
	SymbolReexport: protocol.SymbolKindFunction,
	SymbolConst:    protocol.SymbolKindConstant,
}

// documentSymbols lists every declaration as a flat outline.
func documentSymbols(result *AnalysisResult) []protocol.DocumentSymbol {
	symbols := make([]protocol.DocumentSymbol, 0, len(result.Symbols))
	for _, sym := range result.Symbols {
		detail := sym.Detail
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         &detail,
			Kind:           symbolKinds[sym.Kind],
			Range:          sym.Range,
			SelectionRange: sym.NameRange,
		})
	}
	return symbols
}

// textDocumentDocumentSymbol handles textDocument/documentSymbol requests.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	_, result, ok := s.docs.Analysis(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return documentSymbols(result), nil
}
