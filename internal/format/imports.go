package format

import "sort"

// preamble is the formatted leading section of a file: sorted import
// groups with the comments and blank lines that surround them.
type preamble struct {
	lines     []string
	bodyStart int
	imports   int
}

// importGroup collects consecutive imports until a comment or the first body
// line forces it out.
type importGroup []string

func (g *importGroup) flush(p *preamble, separate bool) {
	if len(*g) == 0 {
		return
	}
	sorted := append([]string(nil), (*g)...)
	sort.Strings(sorted)
	p.lines = append(p.lines, sorted...)
	p.imports += len(sorted)
	if separate {
		p.lines = append(p.lines, "")
	}
	*g = (*g)[:0]
}

func (p *preamble) lastBlank() bool {
	return len(p.lines) > 0 && p.lines[len(p.lines)-1] == ""
}

// extractImports scans the leading lines of a file and returns the sorted
// import section together with the index where the body begins.
//
// Blank lines inside a pending import group are dropped; the group separators
// take their place, which keeps the result stable under reformatting.
func extractImports(lines []Line) preamble {
	var (
		p     preamble
		group importGroup
	)
	for i, l := range lines {
		switch {
		case l.Kind == KindImport:
			group = append(group, l.Trimmed)
		case l.Kind.IsComment():
			group.flush(&p, true)
			p.lines = append(p.lines, l.Trimmed)
		case l.Kind == KindEmpty:
			if len(group) > 0 || p.lastBlank() {
				continue
			}
			p.lines = append(p.lines, "")
		default:
			// const declarations end the section too; the pending group is
			// still emitted so no import is lost.
			group.flush(&p, false)
			p.bodyStart = i
			return p
		}
	}
	group.flush(&p, false)
	p.bodyStart = len(lines)
	return p
}
