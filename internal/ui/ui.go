// Package ui prints styled messages, prompts and diffs to the terminal.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/sokinpui/commentize/model"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	PathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	PromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Log is the diagnostic logger. It only prints debug records when verbose
// output is enabled.
var Log = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "commentize",
	Level:  log.InfoLevel,
})

// SetVerbose switches the diagnostic logger to debug level.
func SetVerbose(verbose bool) {
	if verbose {
		Log.SetLevel(log.DebugLevel)
		Log.SetReportTimestamp(true)
		return
	}
	Log.SetLevel(log.InfoLevel)
}

func Header(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, HeaderStyle.Render(fmt.Sprintf(format, a...)))
}

func Info(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, InfoStyle.Render(fmt.Sprintf(format, a...)))
}

func Success(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, SuccessStyle.Render(fmt.Sprintf(format, a...)))
}

func Warning(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, WarningStyle.Render(fmt.Sprintf(format, a...)))
}

func Error(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf(format, a...)))
}

func Path(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, PathStyle.Render("  "+fmt.Sprintf(format, a...)))
}

func Prompt(format string, a ...interface{}) string {
	return PromptStyle.Render(fmt.Sprintf(format, a...))
}

// Confirm asks a yes/no question until it gets an answer. The answer is
// read from the terminal when stdin is piped, since stdin may have carried
// the comment.
func Confirm(question string) bool {
	in, release := answerInput(os.Stdin, openTTY)
	defer release()
	return ConfirmFrom(in, os.Stderr, question)
}

func openTTY() (*os.File, error) {
	return os.Open("/dev/tty")
}

// answerInput picks the reader for an interactive answer: stdin when it is
// a terminal, otherwise the controlling terminal if one can be opened.
func answerInput(stdin *os.File, open func() (*os.File, error)) (io.Reader, func()) {
	fd := stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return stdin, func() {}
	}
	tty, err := open()
	if err != nil {
		Log.Debug("no terminal to read the answer from, using stdin", "err", err)
		return stdin, func() {}
	}
	return tty, func() { tty.Close() }
}

// ConfirmFrom is Confirm with explicit streams. End of input counts as no.
func ConfirmFrom(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintln(out, Prompt("%s [yes/no]", question))
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
		if err != nil {
			return false
		}
	}
}

// PrintBox prints a rendered box the way the plain output mode shows it.
func PrintBox(w io.Writer, box string) {
	fmt.Fprintf(w, "Comment:\n\n%s\n", box)
}

// --- Summaries ---

// PrintSummary prints the result of a run to stderr.
func PrintSummary(summary model.Summary) {
	Header("\n--- Commentize Summary ---")
	if summary.Message != "" {
		Info("%s", summary.Message)
	}

	if len(summary.Modified) == 0 && len(summary.Unchanged) == 0 && len(summary.Failed) == 0 {
		if summary.Message == "" {
			Info("No files were updated.")
		}
		return
	}

	if len(summary.Modified) > 0 {
		Success("Updated %d file(s):", len(summary.Modified))
		for _, f := range summary.Modified {
			Path("- %s", f)
		}
	}
	if len(summary.Unchanged) > 0 {
		Info("Already commentized %d file(s):", len(summary.Unchanged))
		for _, f := range summary.Unchanged {
			Path("- %s", f)
		}
	}
	if len(summary.Failed) > 0 {
		Error("Failed to process %d file(s):", len(summary.Failed))
		for _, f := range summary.Failed {
			Path("- %s", f)
		}
	}
}

// --- Diffs ---

// UnifiedDiff renders the difference between two versions of a file.
func UnifiedDiff(path string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}

// PrintDiff writes a unified diff of the change to w.
func PrintDiff(w io.Writer, path string, before, after []byte) error {
	diff, err := UnifiedDiff(path, before, after)
	if err != nil {
		return fmt.Errorf("failed to diff '%s': %w", path, err)
	}
	_, err = io.WriteString(w, diff)
	return err
}
