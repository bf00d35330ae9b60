package nvim

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in    string
		lines []string
		eol   bool
	}{
		{"a\nb\n", []string{"a", "b"}, true},
		{"a\nb", []string{"a", "b"}, false},
		{"\n", []string{""}, true},
		{"", []string{""}, false},
		{"a\n\n", []string{"a", ""}, true},
		{"a\r\nb\r\n", []string{"a\r", "b\r"}, true},
	}
	for _, tt := range tests {
		lines, eol := SplitLines([]byte(tt.in))
		got := make([]string, len(lines))
		for i, l := range lines {
			got[i] = string(l)
		}
		if diff := cmp.Diff(tt.lines, got); diff != "" {
			t.Errorf("SplitLines(%q) lines mismatch (-want +got):\n%s", tt.in, diff)
		}
		if eol != tt.eol {
			t.Errorf("SplitLines(%q) eol = %v, want %v", tt.in, eol, tt.eol)
		}
		// A unix-format write of the lines restores the input.
		out := strings.Join(got, "\n")
		if eol {
			out += "\n"
		}
		if out != tt.in {
			t.Errorf("SplitLines(%q) writes back as %q", tt.in, out)
		}
	}
}

func TestEscapePath(t *testing.T) {
	if got, want := escapePath("/tmp/my file#1.go"), `/tmp/my\ file\#1.go`; got != want {
		t.Errorf("escapePath() = %q, want %q", got, want)
	}
}

func TestLoadCommandsDisableConversion(t *testing.T) {
	want := []string{
		`edit! ++bin ++ff=unix /tmp/a\ b.go`,
		"setlocal binary fileformat=unix fileencoding= nobomb eol nofixendofline",
	}
	if diff := cmp.Diff(want, loadCommands("/tmp/a b.go", true)); diff != "" {
		t.Errorf("loadCommands() mismatch (-want +got):\n%s", diff)
	}
	if got := loadCommands("/tmp/a.go", false)[1]; !strings.Contains(got, " noeol ") {
		t.Errorf("loadCommands() without eol = %q, want noeol", got)
	}
}
