package format

import (
	"regexp"
	"strings"
)

// LineKind is the category of a single trimmed source line.
type LineKind int

const (
	KindEmpty LineKind = iota
	KindImport
	KindComment
	KindStackComment
	KindSectionComment
	KindSingleLineExport
	KindKeyword
	KindContent
)

func (k LineKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindImport:
		return "import"
	case KindComment:
		return "comment"
	case KindStackComment:
		return "stack-comment"
	case KindSectionComment:
		return "section-comment"
	case KindSingleLineExport:
		return "single-line-export"
	case KindKeyword:
		return "keyword"
	case KindContent:
		return "content"
	}
	return "unknown"
}

// IsComment reports whether k is any of the comment kinds.
func (k LineKind) IsComment() bool {
	return k == KindComment || k == KindStackComment || k == KindSectionComment
}

// Construct identifies a block keyword.
type Construct int

const (
	NoConstruct Construct = iota
	ConstructProc
	ConstructExport
	ConstructBegin
	ConstructWhile
	ConstructRepeat
	ConstructIf
	ConstructElse
	ConstructEnd
)

var constructs = map[string]Construct{
	"proc":   ConstructProc,
	"export": ConstructExport,
	"begin":  ConstructBegin,
	"while":  ConstructWhile,
	"repeat": ConstructRepeat,
	"if":     ConstructIf,
	"else":   ConstructElse,
	"end":    ConstructEnd,
}

// Keywords lists the block keywords in the order they are usually written.
var Keywords = []string{"begin", "proc", "export", "if", "else", "while", "repeat", "end"}

var constructNames = [...]string{
	NoConstruct:     "none",
	ConstructProc:   "proc",
	ConstructExport: "export",
	ConstructBegin:  "begin",
	ConstructWhile:  "while",
	ConstructRepeat: "repeat",
	ConstructIf:     "if",
	ConstructElse:   "else",
	ConstructEnd:    "end",
}

func (c Construct) String() string {
	if c < 0 || int(c) >= len(constructNames) {
		return "unknown"
	}
	return constructNames[c]
}

// Opens reports whether c starts a new indented body.
func (c Construct) Opens() bool {
	switch c {
	case ConstructProc, ConstructExport, ConstructBegin, ConstructWhile, ConstructRepeat, ConstructIf:
		return true
	}
	return false
}

const (
	importPrefix  = "use."
	constPrefix   = "const."
	separatorMark = "===="
)

var singleLineExport = regexp.MustCompile(`^export\..*(::|->).*$`)

// Line is one record of the input: the raw text and its trimmed form.
type Line struct {
	Raw     string
	Trimmed string
	Kind    LineKind
}

// splitLines breaks text into classified lines. A trailing newline does not
// produce an extra empty line.
func splitLines(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]Line, len(raw))
	for i, r := range raw {
		t := strings.TrimSpace(r)
		lines[i] = Line{Raw: r, Trimmed: t, Kind: Classify(t)}
	}
	return lines
}

// Classify returns the category of a trimmed line.
func Classify(trimmed string) LineKind {
	switch {
	case trimmed == "":
		return KindEmpty
	case strings.HasPrefix(trimmed, importPrefix):
		return KindImport
	case strings.HasPrefix(trimmed, "#"):
		if isStackComment(trimmed) {
			return KindStackComment
		}
		if isSectionComment(trimmed) {
			return KindSectionComment
		}
		return KindComment
	case singleLineExport.MatchString(trimmed):
		return KindSingleLineExport
	case ConstructOf(trimmed) != NoConstruct:
		return KindKeyword
	}
	return KindContent
}

func isStackComment(s string) bool {
	return strings.HasPrefix(s, "# => [") || strings.HasPrefix(s, "#! => [")
}

func isSectionComment(s string) bool {
	return (strings.HasPrefix(s, "# "+separatorMark) || strings.HasPrefix(s, "#! "+separatorMark)) &&
		strings.Contains(s, separatorMark)
}

// CodePortion strips an inline comment from a trimmed line.
func CodePortion(trimmed string) string {
	code, _, _ := strings.Cut(trimmed, "#")
	return strings.TrimSpace(code)
}

// FirstToken returns the first dot-delimited token of the line's code portion.
func FirstToken(trimmed string) string {
	tok, _, _ := strings.Cut(CodePortion(trimmed), ".")
	return tok
}

// ConstructOf returns the block keyword a line starts with, if any.
func ConstructOf(trimmed string) Construct {
	return constructs[FirstToken(trimmed)]
}

// IsConst reports whether a trimmed line is a constant declaration.
func IsConst(trimmed string) bool {
	return strings.HasPrefix(trimmed, constPrefix)
}

// isDeclaration reports whether a trimmed line opens a procedure or export.
func isDeclaration(trimmed string) bool {
	c := ConstructOf(trimmed)
	return c == ConstructProc || c == ConstructExport
}
