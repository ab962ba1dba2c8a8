package format

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var formatTests = []struct {
	name     string
	input    string
	expected string
}{
	{
		name:     "simple block",
		input:    "begin\nend",
		expected: "begin\nend\n",
	},
	{
		name:     "proc inside begin gets separated from the closing end",
		input:    "begin\n    proc\n    end\nend",
		expected: "begin\n    proc\n    end\n\nend\n",
	},
	{
		name:     "if else alignment",
		input:    "if\nbegin\nend\nelse\nbegin\nend\nend",
		expected: "if\n    begin\n    end\nelse\n    begin\n    end\nend\n",
	},
	{
		name:     "already formatted nesting stays same",
		input:    "begin\n    if\n        while\n        end\n    else\n        repeat\n        end\n    end\nend",
		expected: "begin\n    if\n        while\n        end\n    else\n        repeat\n        end\n    end\nend\n",
	},
	{
		name:     "single blank lines preserved",
		input:    "begin\n\n    proc\n\n    end\n\nend",
		expected: "begin\n\n    proc\n\n    end\n\nend\n",
	},
	{
		name:     "imports sorted",
		input:    "use.b\nuse.a\nbegin\nend",
		expected: "use.a\nuse.b\n\nbegin\nend\n",
	},
	{
		name:     "duplicate imports kept",
		input:    "use.a\nuse.a\nbegin\nend",
		expected: "use.a\nuse.a\n\nbegin\nend\n",
	},
	{
		name:     "blank runs collapsed",
		input:    "begin\n    push.1\n\n\n\n    push.2\nend",
		expected: "begin\n    push.1\n\n    push.2\nend\n",
	},
	{
		name:     "single-line export flush left",
		input:    "proc.a\n    if.true\n        export.foo::bar\n    end\nend",
		expected: "proc.a\n    if.true\nexport.foo::bar\n    end\nend\n",
	},
	{
		name:     "comment after single-line export flush left",
		input:    "begin\n    export.foo::bar\n    # note\n    push.1\nend",
		expected: "begin\nexport.foo::bar\n# note\n    push.1\nend\n",
	},
	{
		name:     "comment before const loses blank line",
		input:    "# the answer\n\nconst.ANSWER=42\n\nbegin\n    push.ANSWER\nend",
		expected: "# the answer\nconst.ANSWER=42\n\nbegin\n    push.ANSWER\nend\n",
	},
	{
		name:     "comment before const in body",
		input:    "begin\n    push.1\nend\n# c\n\nconst.X=1",
		expected: "begin\n    push.1\nend\n# c\nconst.X=1\n",
	},
	{
		name:     "section separator keeps blank line",
		input:    "# ===== HELPERS =====\n\nproc.foo\n    push.1\nend",
		expected: "# ===== HELPERS =====\n\nproc.foo\n    push.1\nend\n",
	},
	{
		name:     "section separator before const in block keeps blank line",
		input:    "begin\n    # ==== S ====\n\n\n    const.X=1\nend",
		expected: "begin\n    # ==== S ====\n\n    const.X=1\nend\n",
	},
	{
		name:     "section separator before const after proc",
		input:    "proc.a\nend\n# ==== S ====\n\n\nconst.X=1",
		expected: "proc.a\nend\n\n# ==== S ====\n\nconst.X=1\n",
	},
	{
		name:     "doc comment attached to export",
		input:    "#! Adds\n\nexport.add\n    add\nend",
		expected: "#! Adds\nexport.add\n    add\nend\n",
	},
	{
		name:     "stack comment separates next instruction",
		input:    "begin\n    push.1\n    # => [1]\n    push.2\n    # => [2, 1]\nend",
		expected: "begin\n    push.1\n    # => [1]\n\n    push.2\n    # => [2, 1]\nend\n",
	},
	{
		name:     "procedures separated by blank line",
		input:    "proc.a\nadd\nend\nproc.b\nmul\nend",
		expected: "proc.a\n    add\nend\n\nproc.b\n    mul\nend\n",
	},
	{
		name:     "comment after export header indented",
		input:    "export.foo\n# inside\npush.1\nend",
		expected: "export.foo\n    # inside\n    push.1\nend\n",
	},
	{
		name:     "nested loops",
		input:    "proc.loop\nrepeat.4\nwhile.true\ndup\nend\nend\nend",
		expected: "proc.loop\n    repeat.4\n        while.true\n            dup\n        end\n    end\nend\n",
	},
	{
		name:     "inline comment on keyword line",
		input:    "if.true # check\npush.1\nend",
		expected: "if.true # check\n    push.1\nend\n",
	},
	{
		name:     "import groups split by comments",
		input:    "# header\nuse.std::sys\nuse.std::math::u64\n# local\nuse.miden::account\n\nconst.X=1",
		expected: "# header\nuse.std::math::u64\nuse.std::sys\n\n# local\nuse.miden::account\n\nconst.X=1\n",
	},
	{
		name:     "unbalanced input",
		input:    "end\nend\nelse\n    push.1",
		expected: "end\nend\nelse\n    push.1\n",
	},
	{
		name:     "crlf line endings",
		input:    "begin\r\n    push.1\r\nend\r\n",
		expected: "begin\n    push.1\nend\n",
	},
	{
		name:     "trailing blank lines stripped",
		input:    "begin\nend\n\n\n\n",
		expected: "begin\nend\n",
	},
	{
		name:     "empty content",
		input:    "",
		expected: "\n",
	},
	{
		name:     "only blank lines",
		input:    "\n\n\n",
		expected: "\n",
	},
}

func TestFormat(t *testing.T) {
	for _, tt := range formatTests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := make([]string, 0, len(formatTests)+2)
	for _, tt := range formatTests {
		inputs = append(inputs, tt.input)
	}
	for _, name := range []string{"example.masm", "nested.masm"} {
		inputs = append(inputs, readTestdata(t, name))
	}

	for _, input := range inputs {
		once := Format(input)
		twice := Format(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Format() not idempotent for %q (-once +twice):\n%s", input, diff)
		}
	}
}

// lineFragments are the building blocks for generated inputs. They cover
// every line kind with varied indentation and inline comments.
var lineFragments = []string{
	"", "", "   ",
	"use.std::sys", "use.std::math::u64", "use.miden::account->acct",
	"# note", "#! doc", "    # indented note", "# => [a, b]", "#! => [c]",
	"# ==== SECTION ====", "#! ==== API ====",
	"export.std::sys::truncate_stack", "    export.foo::bar->baz",
	"proc.foo", "proc.bar.2 # locals", "export.run", "begin", "  if.true",
	"else", "else # otherwise", "while.true", "repeat.4", "end", "    end # done",
	"push.1", "    dup add", "exec.foo", "call.acct::get_id # id",
	"const.X=1", "    const.Y=2", "\t\tswap\r",
}

func generateInput(r *rand.Rand) string {
	n := r.IntN(16)
	lines := make([]string, n)
	for i := range lines {
		lines[i] = lineFragments[r.IntN(len(lineFragments))]
	}
	s := strings.Join(lines, "\n")
	if r.IntN(2) == 0 {
		s += "\n"
	}
	return s
}

func checkFormatProperties(t *testing.T, input string) {
	t.Helper()
	once := Format(input)
	if twice := Format(once); twice != once {
		t.Fatalf("Format() not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
	}
	if !strings.HasSuffix(once, "\n") {
		t.Fatalf("Format(%q) = %q, missing trailing newline", input, once)
	}
	if once != "\n" && strings.HasSuffix(once, "\n\n") {
		t.Fatalf("Format(%q) = %q, ends with a blank line", input, once)
	}
}

func TestFormatIdempotentGenerated(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20000; i++ {
		checkFormatProperties(t, generateInput(r))
	}
}

func FuzzFormat(f *testing.F) {
	for _, tt := range formatTests {
		f.Add(tt.input)
	}
	f.Fuzz(func(t *testing.T, input string) {
		checkFormatProperties(t, input)
	})
}

func TestFormatTrailingNewline(t *testing.T) {
	for _, tt := range formatTests {
		got := Format(tt.input)
		if !strings.HasSuffix(got, "\n") {
			t.Errorf("Format(%q) = %q, missing trailing newline", tt.input, got)
		}
		if got != "\n" && strings.HasSuffix(got, "\n\n") {
			t.Errorf("Format(%q) = %q, ends with a blank line", tt.input, got)
		}
	}
}

func TestFormatGolden(t *testing.T) {
	for _, name := range []string{"example", "nested"} {
		t.Run(name, func(t *testing.T) {
			input := readTestdata(t, name+".masm")
			want := readTestdata(t, name+".golden.masm")

			if diff := cmp.Diff(want, Format(input)); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, Format(want)); diff != "" {
				t.Errorf("golden file is not a fixed point (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatConcurrent(t *testing.T) {
	input := readTestdata(t, "example.masm")
	want := Format(input)

	done := make(chan string, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- Format(input)
		}()
	}
	for i := 0; i < 10; i++ {
		if got := <-done; got != want {
			t.Errorf("concurrent Format() = %q, want %q", got, want)
		}
	}
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
