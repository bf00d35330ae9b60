package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestConfirmFrom(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"y\n", true},
		{"no\n", false},
		{"maybe\n\nYES\n", true},
		{"what\nno\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := ConfirmFrom(strings.NewReader(tt.input), &out, "Commentize?")
		if got != tt.want {
			t.Errorf("ConfirmFrom(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Commentize? [yes/no]") {
			t.Errorf("prompt not written, got %q", out.String())
		}
	}
}

// pipe returns the read end of a pipe that yields content and then EOF.
func pipe(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	if _, err := w.WriteString(content); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return r
}

func TestAnswerInputReadsTerminalWhenStdinIsPiped(t *testing.T) {
	// The comment already consumed the piped stdin.
	stdin := pipe(t, "")
	tty := pipe(t, "y\n")

	in, release := answerInput(stdin, func() (*os.File, error) { return tty, nil })
	defer release()
	if !ConfirmFrom(in, &bytes.Buffer{}, "Commentize?") {
		t.Error("answer from the terminal was not read")
	}
}

func TestAnswerInputFallsBackToStdin(t *testing.T) {
	stdin := pipe(t, "yes\n")

	in, release := answerInput(stdin, func() (*os.File, error) { return nil, errors.New("no tty") })
	defer release()
	if in != stdin {
		t.Fatalf("answerInput() = %v, want stdin", in)
	}
	if !ConfirmFrom(in, &bytes.Buffer{}, "Commentize?") {
		t.Error("answer from stdin was not read")
	}
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("main.go", []byte("package main\n"), []byte("// hi\npackage main\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"--- a/main.go", "+++ b/main.go", "+// hi", " package main"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}
}

func TestPrintBox(t *testing.T) {
	var out bytes.Buffer
	PrintBox(&out, "/**/\n")
	if got, want := out.String(), "Comment:\n\n/**/\n\n"; got != want {
		t.Errorf("PrintBox() = %q, want %q", got, want)
	}
}
