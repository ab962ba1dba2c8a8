package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// invokeOps are the instructions whose immediate names a procedure.
var invokeOps = map[string]bool{
	"exec":    true,
	"call":    true,
	"syscall": true,
	"procref": true,
}

// reference is a name used or declared at the cursor.
type reference struct {
	Module string // alias before "::", empty for local names
	Name   string
	Proc   bool // names a procedure rather than a constant
	Range  protocol.Range
}

// tokenAt returns the whitespace-delimited token under character and its
// start column, both in UTF-16 units. Tokens inside a trailing comment are
// ignored.
func tokenAt(line string, character uint32) (string, uint32) {
	if character > utf16Len(line) {
		return "", 0
	}
	col := byteOffset(line, character)
	if hash := strings.IndexByte(line, '#'); hash >= 0 && col >= hash {
		return "", 0
	}

	start := col
	for start > 0 && !isSpace(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && !isSpace(line[end]) && line[end] != '#' {
		end++
	}
	if start == end {
		return "", 0
	}
	return line[start:end], utf16Len(line[:start])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// referenceAt parses the instruction under the cursor into a reference.
// "exec.foo" and "proc.foo" name procedures, "exec.math::add" names the
// import aliased math, and any other "op.NAME" is treated as a constant use.
func referenceAt(content string, pos protocol.Position) (reference, bool) {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return reference{}, false
	}

	tok, start := tokenAt(lines[pos.Line], pos.Character)
	op, target, ok := strings.Cut(tok, ".")
	if !ok || target == "" {
		return reference{}, false
	}

	ref := reference{
		Range: lineRange(pos.Line, start, start+utf16Len(tok)),
	}
	switch {
	case invokeOps[op], op == "proc", op == "export":
		ref.Proc = true
		if op == "proc" || op == "export" {
			target, _, _ = strings.Cut(target, ".")
		}
		if i := strings.LastIndex(target, "::"); i >= 0 {
			ref.Module = target[:i]
			target = target[i+2:]
		}
	case op == "use" || op == "const":
		return reference{}, false
	default:
		target, _, _ = strings.Cut(target, ".")
	}
	ref.Name = target
	return ref, ref.Name != ""
}

// resolve looks up the declaration a reference points at. Module-qualified
// procedures resolve to their import.
func resolve(result *AnalysisResult, ref reference) *Symbol {
	if result == nil {
		return nil
	}
	switch {
	case ref.Module != "":
		return result.find(ref.Module, SymbolImport)
	case ref.Proc:
		return result.find(ref.Name, SymbolProc, SymbolExport, SymbolReexport)
	default:
		return result.find(ref.Name, SymbolConst)
	}
}

// definition returns the location of the declaration referenced at pos, or
// nil when the cursor is not on a known name.
func definition(result *AnalysisResult, content string, uri string, pos protocol.Position) *protocol.Location {
	ref, ok := referenceAt(content, pos)
	if !ok {
		return nil
	}
	sym := resolve(result, ref)
	if sym == nil {
		return nil
	}

	return &protocol.Location{
		URI:   protocol.DocumentUri(uri),
		Range: sym.NameRange,
	}
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, result, ok := s.docs.Analysis(uri)
	if !ok {
		return nil, nil
	}

	return definition(result, content, uri, params.Position), nil
}
