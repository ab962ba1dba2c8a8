// Package format implements the canonical layout of Miden assembly (.masm)
// source: sorted imports, four-space block indentation and normalized blank
// lines.
package format

// Format takes masm source content and returns it in canonical form.
//
// Format never fails. Unbalanced or otherwise malformed input is laid out on
// a best-effort basis, and formatting the result again returns it unchanged.
func Format(content string) string {
	lines := splitLines(content)
	p := extractImports(lines)
	return normalize(indent(lines, p))
}
