package format

import "strings"

// normalize is the second pass over the emitted lines. It collapses blank
// runs, drops a blank line between a plain comment and the declaration it
// documents, and terminates the text with exactly one newline.
func normalize(lines []string) string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
			continue
		}
		if len(out) > 0 && out[len(out)-1] == "" {
			continue
		}
		if len(out) > 0 && detachedComment(out[len(out)-1], nextNonBlank(lines, i)) {
			continue
		}
		out = append(out, "")
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}

// detachedComment reports whether a blank line between prev and next should
// go. Section separators keep the blank line after them.
func detachedComment(prev, next string) bool {
	kind := Classify(strings.TrimSpace(prev))
	if !kind.IsComment() || kind == KindSectionComment {
		return false
	}
	next = strings.TrimSpace(next)
	return isDeclaration(next) || IsConst(next)
}

func nextNonBlank(lines []string, i int) string {
	for _, l := range lines[i+1:] {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}
