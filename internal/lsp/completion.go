package lsp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/masmfmt/internal/format"
)

// invokePrefix matches an invocation being typed at the end of a line, e.g.
// "exec." or "call.ha".
var invokePrefix = regexp.MustCompile(`(?:^|\s)(?:exec|call|syscall|procref)\.([\w:]*)$`)

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	textBeforeCursor := line[:byteOffset(line, pos.Character)]

	if strings.Contains(textBeforeCursor, "#") {
		return nil
	}

	if m := invokePrefix.FindStringSubmatch(textBeforeCursor); m != nil {
		return procCompletions(result, m[1])
	}

	word := strings.TrimSpace(textBeforeCursor)
	if !strings.ContainsAny(word, ". \t") {
		return keywordCompletions(word)
	}

	return nil
}

// procCompletions offers local procedures and import aliases matching the
// partial name. Procedures of other modules are unknown, so nothing is
// offered after "alias::".
func procCompletions(result *AnalysisResult, partial string) []protocol.CompletionItem {
	if result == nil || strings.Contains(partial, "::") {
		return nil
	}

	var items []protocol.CompletionItem
	for _, sym := range result.Symbols {
		if !strings.HasPrefix(sym.Name, partial) {
			continue
		}
		detail := sym.Detail
		switch sym.Kind {
		case SymbolProc, SymbolExport, SymbolReexport:
			kind := protocol.CompletionItemKindFunction
			items = append(items, protocol.CompletionItem{
				Label:  sym.Name,
				Kind:   &kind,
				Detail: &detail,
			})
		case SymbolImport:
			kind := protocol.CompletionItemKindModule
			insert := sym.Name + "::"
			items = append(items, protocol.CompletionItem{
				Label:      sym.Name,
				Kind:       &kind,
				Detail:     &detail,
				InsertText: &insert,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Label < items[j].Label
	})
	return items
}

// keywordCompletions offers the block keywords starting with prefix.
func keywordCompletions(prefix string) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindKeyword
	var items []protocol.CompletionItem
	for _, kw := range format.Keywords {
		if strings.HasPrefix(kw, prefix) {
			items = append(items, protocol.CompletionItem{
				Label: kw,
				Kind:  &kind,
			})
		}
	}
	return items
}

// textDocumentCompletion handles textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	content, result, ok := s.docs.Analysis(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	return complete(result, content, params.Position), nil
}
