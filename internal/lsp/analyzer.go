package lsp

import (
	"strings"

	"github.com/jsvensson/masmfmt/internal/format"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SymbolKind classifies a declaration found in a masm document.
type SymbolKind int

const (
	SymbolImport   SymbolKind = iota // use.path[->alias]
	SymbolProc                       // proc.name
	SymbolExport                     // export.name ... end
	SymbolReexport                   // export.path::name on one line
	SymbolConst                      // const.NAME=value
)

// Symbol is a single declaration.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Detail    string // the declaration's code, comment stripped
	Doc       string // comment block directly above the declaration
	Range     protocol.Range
	NameRange protocol.Range
}

// AnalysisResult holds the declarations of a document in source order.
type AnalysisResult struct {
	Symbols []Symbol
}

// find returns the first symbol with the given name and one of kinds.
func (r *AnalysisResult) find(name string, kinds ...SymbolKind) *Symbol {
	for i := range r.Symbols {
		s := &r.Symbols[i]
		if s.Name != name {
			continue
		}
		for _, k := range kinds {
			if s.Kind == k {
				return s
			}
		}
	}
	return nil
}

// openBlock is a block that has not seen its end yet; sym indexes the
// procedure it declares, or is -1.
type openBlock struct {
	construct format.Construct
	sym       int
}

// Analyze scans masm content and records imports, procedures, exports and
// constants. It never fails: unbalanced blocks leave their symbol ranges
// ending at the header line.
func Analyze(content string) *AnalysisResult {
	result := &AnalysisResult{}
	var (
		doc   []string
		stack []openBlock
	)

	for i, raw := range splitLines(content) {
		trimmed := strings.TrimSpace(raw)
		line := uint32(i)
		col := utf16Len(raw[:strings.Index(raw, trimmed)])

		kind := format.Classify(trimmed)
		switch kind {
		case format.KindEmpty, format.KindStackComment, format.KindSectionComment:
			doc = nil
			continue
		case format.KindComment:
			doc = append(doc, commentText(trimmed))
			continue
		}

		code := format.CodePortion(trimmed)
		switch kind {
		case format.KindImport:
			result.addAliased(SymbolImport, "use.", code, line, col, doc)

		case format.KindSingleLineExport:
			result.addAliased(SymbolReexport, "export.", code, line, col, doc)

		case format.KindKeyword:
			c := format.ConstructOf(trimmed)
			switch {
			case c == format.ConstructEnd:
				if len(stack) == 0 {
					break
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.sym >= 0 {
					result.Symbols[top.sym].Range.End = protocol.Position{
						Line:      line,
						Character: col + utf16Len(trimmed),
					}
				}
			case c == format.ConstructProc || c == format.ConstructExport:
				sk := SymbolProc
				if c == format.ConstructExport {
					sk = SymbolExport
				}
				idx := result.addProc(sk, code, line, col, doc)
				stack = append(stack, openBlock{construct: c, sym: idx})
			case c.Opens():
				stack = append(stack, openBlock{construct: c, sym: -1})
			}

		case format.KindContent:
			if format.IsConst(trimmed) {
				result.addConst(code, line, col, doc)
			}
		}
		doc = nil
	}

	return result
}

// addAliased records an import or a one-line re-export. The local name is
// the alias after "->" or else the last "::" segment of the path.
func (r *AnalysisResult) addAliased(kind SymbolKind, prefix, code string, line, col uint32, doc []string) {
	target := strings.TrimPrefix(code, prefix)
	name := target
	if _, alias, ok := strings.Cut(target, "->"); ok {
		name = alias
	} else if i := strings.LastIndex(target, "::"); i >= 0 {
		name = target[i+2:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	start := col + utf16Len(prefix)
	r.Symbols = append(r.Symbols, Symbol{
		Name:      name,
		Kind:      kind,
		Detail:    code,
		Doc:       strings.Join(doc, "\n"),
		Range:     lineRange(line, col, col+utf16Len(code)),
		NameRange: lineRange(line, start, start+utf16Len(target)),
	})
}

// addProc records a procedure or export header and returns its index, or -1
// when the header carries no name.
func (r *AnalysisResult) addProc(kind SymbolKind, code string, line, col uint32, doc []string) int {
	parts := strings.SplitN(code, ".", 3)
	if len(parts) < 2 || parts[1] == "" {
		return -1
	}
	name := parts[1]
	start := col + utf16Len(parts[0]) + 1

	r.Symbols = append(r.Symbols, Symbol{
		Name:      name,
		Kind:      kind,
		Detail:    code,
		Doc:       strings.Join(doc, "\n"),
		Range:     lineRange(line, col, col+utf16Len(code)),
		NameRange: lineRange(line, start, start+utf16Len(name)),
	})
	return len(r.Symbols) - 1
}

func (r *AnalysisResult) addConst(code string, line, col uint32, doc []string) {
	rest := strings.TrimPrefix(code, "const.")
	name, _, _ := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	start := col + utf16Len("const.")

	r.Symbols = append(r.Symbols, Symbol{
		Name:      name,
		Kind:      SymbolConst,
		Detail:    code,
		Doc:       strings.Join(doc, "\n"),
		Range:     lineRange(line, col, col+utf16Len(code)),
		NameRange: lineRange(line, start, start+utf16Len(name)),
	})
}

// splitLines splits content into lines, preserving empty trailing lines so
// line numbers match the editor's.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// commentText strips the comment marker from a comment line.
func commentText(trimmed string) string {
	text := strings.TrimPrefix(trimmed, "#!")
	if len(text) == len(trimmed) {
		text = strings.TrimPrefix(trimmed, "#")
	}
	return strings.TrimSpace(text)
}

func lineRange(line, start, end uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: end},
	}
}
