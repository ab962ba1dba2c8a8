package format

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"", KindEmpty},
		{"use.std::math::u64", KindImport},
		{"# plain comment", KindComment},
		{"#! doc comment", KindComment},
		{"# => [a, b]", KindStackComment},
		{"#! => [a]", KindStackComment},
		{"# =>", KindComment},
		{"# ===== SECTION =====", KindSectionComment},
		{"#! ==== SECTION", KindSectionComment},
		{"#====", KindComment},
		{"export.foo::bar", KindSingleLineExport},
		{"export.std::math::u64::add->add64", KindSingleLineExport},
		{"export.foo", KindKeyword},
		{"export.foo.2", KindKeyword},
		{"proc.helper", KindKeyword},
		{"begin", KindKeyword},
		{"while.true", KindKeyword},
		{"repeat.4", KindKeyword},
		{"if.true # comment", KindKeyword},
		{"else", KindKeyword},
		{"end", KindKeyword},
		{"const.X=1", KindContent},
		{"push.1", KindContent},
		{"ending", KindContent},
		{"exec.foo::bar", KindContent},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.line, got, tt.want)
			}
		})
	}
}

func TestConstructOf(t *testing.T) {
	tests := []struct {
		line string
		want Construct
	}{
		{"proc.foo", ConstructProc},
		{"export.foo.1", ConstructExport},
		{"begin", ConstructBegin},
		{"while.true", ConstructWhile},
		{"repeat.10", ConstructRepeat},
		{"if.true", ConstructIf},
		{"else # otherwise", ConstructElse},
		{"end", ConstructEnd},
		{"end#inline", ConstructEnd},
		{"push.1", NoConstruct},
		{"# end", NoConstruct},
	}

	for _, tt := range tests {
		if got := ConstructOf(tt.line); got != tt.want {
			t.Errorf("ConstructOf(%q) = %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestConstructOpens(t *testing.T) {
	for _, c := range []Construct{ConstructProc, ConstructExport, ConstructBegin, ConstructWhile, ConstructRepeat, ConstructIf} {
		if !c.Opens() {
			t.Errorf("%s should open a block", c)
		}
	}
	for _, c := range []Construct{NoConstruct, ConstructElse, ConstructEnd} {
		if c.Opens() {
			t.Errorf("%s should not open a block", c)
		}
	}
}

func TestConstructString(t *testing.T) {
	for name, c := range constructs {
		if got := c.String(); got != name {
			t.Errorf("%d.String() = %q, want %q", c, got, name)
		}
	}
	if got := NoConstruct.String(); got != "none" {
		t.Errorf("NoConstruct.String() = %q, want none", got)
	}
	if got := Construct(42).String(); got != "unknown" {
		t.Errorf("Construct(42).String() = %q, want unknown", got)
	}
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("  push.1  \r\n\nend\n")
	if len(lines) != 3 {
		t.Fatalf("splitLines() returned %d lines, want 3", len(lines))
	}
	if lines[0].Trimmed != "push.1" || lines[0].Kind != KindContent {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[1].Kind != KindEmpty {
		t.Errorf("line 1 kind = %s, want empty", lines[1].Kind)
	}
	if lines[2].Kind != KindKeyword {
		t.Errorf("line 2 kind = %s, want keyword", lines[2].Kind)
	}
	if got := splitLines(""); got != nil {
		t.Errorf("splitLines(\"\") = %v, want nil", got)
	}
}
