package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "prose only",
			in:   "Just text.\nSecond line.",
			want: []Segment{{Kind: Prose, Text: "Just text.\nSecond line."}},
		},
		{
			name: "prose code prose",
			in:   "Try this:\n```sql\nSELECT 1;\n```\nDone.",
			want: []Segment{
				{Kind: Prose, Text: "Try this:"},
				{Kind: Code, Lang: "sql", Text: "SELECT 1;"},
				{Kind: Prose, Text: "Done."},
			},
		},
		{
			name: "unterminated fence",
			in:   "```\nx = 1\ny = 2",
			want: []Segment{{Kind: Code, Text: "x = 1\ny = 2"}},
		},
		{
			name: "crlf and blank prose dropped",
			in:   "\r\n```go\r\nfmt.Println()\r\n```\r\n\r\n",
			want: []Segment{{Kind: Code, Lang: "go", Text: "fmt.Println()"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Split(tt.in)); diff != "" {
				t.Fatalf("Split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTerminalRenderWithoutTTYHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Render("Use this:\n```sql\nSELECT 1;\n```", "sql")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected plain output for non-terminal writer, got %q", out)
	}
	for _, want := range []string{"sql:", "Use this:", "SELECT 1;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "```") {
		t.Fatalf("fences should not be printed:\n%s", out)
	}
}

func TestTerminalNotices(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Warn("careful")
	term.Error("broken")
	term.Prompt("sas")

	out := buf.String()
	for _, want := range []string{"warning: careful", "error: broken", "[sas] > "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
