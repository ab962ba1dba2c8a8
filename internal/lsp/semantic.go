package lsp

import (
	"sort"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/masmfmt/internal/format"
)

// Semantic token types we'll use (indices 0-4)
var semanticTokenTypes = []string{
	"keyword",   // 0: block keywords, use, const
	"comment",   // 1: comments, including trailing ones
	"namespace", // 2: import paths and module aliases
	"function",  // 3: procedure names
	"variable",  // 4: constant names
}

// Semantic token modifiers (bit flags)
var semanticTokenModifiers = []string{
	"declaration", // bit 0: defining a new symbol
}

const modDeclaration uint32 = 1

// tokenTypeIndices maps type names to their indices for fast lookup
var tokenTypeIndices map[string]uint32

func init() {
	tokenTypeIndices = make(map[string]uint32, len(semanticTokenTypes))
	for i, t := range semanticTokenTypes {
		tokenTypeIndices[t] = uint32(i)
	}
}

// SemanticToken represents a single token with its metadata
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based character offset
	Length    uint32
	Type      uint32 // index into semanticTokenTypes
	Modifiers uint32 // bit flags
}

// encodeTokens converts tokens to LSP format (5 integers per token)
// Uses delta encoding for line numbers and character positions
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)

	var prevLine, prevChar uint32
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		deltaStart := tok.StartChar
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		}

		data = append(data, deltaLine, deltaStart, tok.Length, tok.Type, tok.Modifiers)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return data
}

// tokenLine collects the tokens of a single source line.
type tokenLine struct {
	line   uint32
	tokens []SemanticToken
}

func (l *tokenLine) add(start, length uint32, typ string, mods uint32) {
	if length == 0 {
		return
	}
	l.tokens = append(l.tokens, SemanticToken{
		Line:      l.line,
		StartChar: start,
		Length:    length,
		Type:      tokenTypeIndices[typ],
		Modifiers: mods,
	})
}

// semanticTokensFull generates semantic tokens for the entire document content
func semanticTokensFull(content string) []uint32 {
	var tokens []SemanticToken
	for i, raw := range splitLines(content) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		l := tokenLine{line: uint32(i)}
		extractLineTokens(&l, trimmed, utf16Len(raw[:strings.Index(raw, trimmed)]))
		tokens = append(tokens, l.tokens...)
	}
	return encodeTokens(tokens)
}

// extractLineTokens tokenizes one trimmed line that starts at column col.
func extractLineTokens(l *tokenLine, trimmed string, col uint32) {
	kind := format.Classify(trimmed)
	if kind.IsComment() {
		l.add(col, utf16Len(trimmed), "comment", 0)
		return
	}

	code := format.CodePortion(trimmed)
	if hash := strings.IndexByte(trimmed, '#'); hash > 0 {
		l.add(col+utf16Len(trimmed[:hash]), utf16Len(trimmed[hash:]), "comment", 0)
	}

	switch kind {
	case format.KindImport:
		l.add(col, uint32(len("use")), "keyword", 0)
		l.add(col+4, utf16Len(code[4:]), "namespace", 0)

	case format.KindSingleLineExport:
		l.add(col, uint32(len("export")), "keyword", 0)
		l.add(col+7, utf16Len(code[7:]), "namespace", 0)

	case format.KindKeyword:
		op, name, _ := strings.Cut(code, ".")
		l.add(col, utf16Len(op), "keyword", 0)
		c := format.ConstructOf(trimmed)
		if c == format.ConstructProc || c == format.ConstructExport {
			name, _, _ = strings.Cut(name, ".")
			l.add(col+utf16Len(op)+1, utf16Len(name), "function", modDeclaration)
		}

	case format.KindContent:
		if format.IsConst(trimmed) {
			name, _, _ := strings.Cut(strings.TrimPrefix(code, "const."), "=")
			l.add(col, uint32(len("const")), "keyword", 0)
			l.add(col+6, utf16Len(strings.TrimRight(name, " \t")), "variable", modDeclaration)
			return
		}
		extractInvocations(l, code, col)
	}
}

// extractInvocations marks the targets of exec, call, syscall and procref.
// A module-qualified target yields a namespace token for the alias followed
// by a function token.
func extractInvocations(l *tokenLine, code string, col uint32) {
	offset := 0
	for _, tok := range strings.Fields(code) {
		idx := strings.Index(code[offset:], tok) + offset
		offset = idx + len(tok)

		op, target, ok := strings.Cut(tok, ".")
		if !ok || !invokeOps[op] || target == "" {
			continue
		}
		start := col + utf16Len(code[:idx+len(op)+1])
		if i := strings.LastIndex(target, "::"); i >= 0 {
			alias := utf16Len(target[:i])
			l.add(start, alias, "namespace", 0)
			l.add(start+alias+2, utf16Len(target[i+2:]), "function", 0)
			continue
		}
		l.add(start, utf16Len(target), "function", 0)
	}
}

// textDocumentSemanticTokensFull handles textDocument/semanticTokens/full requests.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	return &protocol.SemanticTokens{
		Data: semanticTokensFull(content),
	}, nil
}
