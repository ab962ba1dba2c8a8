package masmfmt

import (
	"os"
	"path/filepath"
	"testing"
)

const messy = `use.std::sys
use.std::math::u64
begin
push.1
exec.u64::add
end
`

const tidy = `use.std::math::u64
use.std::sys

begin
    push.1
    exec.u64::add
end
`

func TestFormat(t *testing.T) {
	if got := Format(messy); got != tidy {
		t.Errorf("Format() = %q, want %q", got, tidy)
	}
	if got := Format(tidy); got != tidy {
		t.Errorf("Format() of formatted input changed it: %q", got)
	}
}

func TestFormatFileAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.masm")
	if err := os.WriteFile(path, []byte(messy), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err := CheckFile(path)
	if err != nil {
		t.Fatalf("CheckFile() error: %v", err)
	}
	if ok {
		t.Error("CheckFile() = true for unformatted file")
	}

	changed, err := FormatFile(path)
	if err != nil {
		t.Fatalf("FormatFile() error: %v", err)
	}
	if !changed {
		t.Error("FormatFile() reported no change")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != tidy {
		t.Errorf("file content = %q, want %q", data, tidy)
	}

	if ok, err := CheckFile(path); err != nil || !ok {
		t.Errorf("CheckFile() after format = %v, %v; want true, nil", ok, err)
	}
	if changed, err := FormatFile(path); err != nil || changed {
		t.Errorf("second FormatFile() = %v, %v; want false, nil", changed, err)
	}
}

func TestFormatFileMissing(t *testing.T) {
	if _, err := FormatFile(filepath.Join(t.TempDir(), "missing.masm")); err == nil {
		t.Error("expected error for missing file")
	}
}
