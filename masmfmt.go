// Package masmfmt formats Miden assembly (.masm) source into a canonical
// layout: sorted imports, four-space block indentation and normalized blank
// lines. Formatting is deterministic and idempotent.
package masmfmt

import (
	"github.com/jsvensson/masmfmt/internal/format"
)

// Format returns the canonical form of masm source. It never fails; input it
// does not understand is passed through with best-effort indentation.
func Format(src string) string {
	return format.Format(src)
}

// FormatFile rewrites the file at path in its canonical form and reports
// whether the content changed. An unchanged file is not written.
func FormatFile(path string) (changed bool, err error) {
	return format.FormatFile(path)
}

// CheckFile reports whether the file at path is already formatted. The file
// is never written.
func CheckFile(path string) (formatted bool, err error) {
	return format.CheckFile(path)
}
