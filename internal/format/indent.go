package format

import "strings"

const indentUnit = "    "

// emitted describes the most recently written output line.
type emitted struct {
	kind   LineKind
	indent int
	token  string
}

// indenter is the state carried through the body lines. The construct stack
// and the depth are tracked separately: popping a frame does not always
// change the depth.
type indenter struct {
	out   []string
	stack []Construct
	depth int

	started bool
	prev    emitted

	// flushLeft is set by a single-line export and holds for the comments
	// that follow it, up to the next code line.
	flushLeft bool
	// stackNote is set when the last comment documented the operand stack.
	stackNote bool
}

func newIndenter(p preamble, lines []Line) *indenter {
	in := &indenter{out: make([]string, 0, len(lines)+8)}
	for _, l := range p.lines {
		if l == "" {
			in.blank()
			continue
		}
		in.emit(0, l, Classify(l))
	}
	if p.imports > 0 && p.bodyStart < len(lines) && lines[p.bodyStart].Kind != KindEmpty && !p.lastBlank() {
		in.blank()
	}
	return in
}

func (in *indenter) emit(indent int, text string, kind LineKind) {
	if indent > 0 {
		text = strings.Repeat(indentUnit, indent) + text
	}
	in.out = append(in.out, text)
	in.started = true
	in.prev = emitted{kind: kind, indent: indent, token: FirstToken(text)}
}

func (in *indenter) blank() {
	in.out = append(in.out, "")
	in.started = true
	in.prev = emitted{kind: KindEmpty}
}

func (in *indenter) top() Construct {
	if len(in.stack) == 0 {
		return NoConstruct
	}
	return in.stack[len(in.stack)-1]
}

// step consumes lines[i].
func (in *indenter) step(lines []Line, i int) {
	l := lines[i]
	switch {
	case l.Kind == KindEmpty:
		if in.started && in.prev.kind == KindEmpty {
			return
		}
		if in.prev.kind.IsComment() && in.prev.kind != KindSectionComment &&
			i+1 < len(lines) && IsConst(lines[i+1].Trimmed) {
			return
		}
		in.blank()

	case l.Kind.IsComment():
		indent := in.depth
		switch {
		case in.flushLeft:
			indent = 0
		case in.prev.token == "export":
			indent = in.prev.indent + 1
		}
		in.stackNote = l.Kind == KindStackComment
		in.emit(indent, l.Trimmed, l.Kind)

	case l.Kind == KindSingleLineExport:
		in.flushLeft = true
		in.stackNote = false
		in.emit(0, l.Trimmed, l.Kind)

	default:
		in.flushLeft = false
		c := ConstructOf(l.Trimmed)
		if in.stackNote {
			if c != ConstructEnd && c != ConstructElse && in.prev.kind != KindEmpty {
				in.blank()
			}
			in.stackNote = false
		}
		in.code(lines, i, c)
	}
}

func (in *indenter) code(lines []Line, i int, c Construct) {
	l := lines[i]
	switch c {
	case NoConstruct:
		in.emit(in.depth, l.Trimmed, l.Kind)

	case ConstructEnd:
		if len(in.stack) == 0 {
			in.emit(in.depth, l.Trimmed, l.Kind)
			return
		}
		popped := in.top()
		in.stack = in.stack[:len(in.stack)-1]
		if popped != ConstructEnd && in.depth > 0 {
			in.depth--
		}
		in.emit(in.depth, l.Trimmed, l.Kind)
		if (popped == ConstructProc || popped == ConstructExport) && contentAfter(lines, i) {
			in.blank()
		}

	case ConstructElse:
		if in.top() == ConstructIf && in.depth > 0 {
			in.depth--
		}
		in.emit(in.depth, l.Trimmed, l.Kind)
		in.depth++

	default:
		in.stack = append(in.stack, c)
		in.emit(in.depth, l.Trimmed, l.Kind)
		in.depth++
	}
}

func contentAfter(lines []Line, i int) bool {
	for _, l := range lines[i+1:] {
		if l.Kind != KindEmpty {
			return true
		}
	}
	return false
}

// indent runs the body lines through the state machine and returns every
// output line, preamble included.
func indent(lines []Line, p preamble) []string {
	in := newIndenter(p, lines)
	for i := p.bodyStart; i < len(lines); i++ {
		in.step(lines, i)
	}
	return in.out
}
