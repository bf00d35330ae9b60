// Package source reads the comment text from a flag, a file, stdin or the
// clipboard.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/commentize/internal/fs"
	"github.com/sokinpui/commentize/internal/ui"
)

// SourceProvider determines and retrieves the comment text.
type SourceProvider struct {
	Comment  string
	File     string
	Markdown bool

	// Stdin is read when neither Comment nor File is set and it is piped.
	Stdin *os.File
}

// New creates a new SourceProvider.
func New(comment, file string, markdown bool) *SourceProvider {
	return &SourceProvider{
		Comment:  comment,
		File:     file,
		Markdown: markdown,
		Stdin:    os.Stdin,
	}
}

// GetContent returns the literal comment, the content of the comment file,
// piped stdin, or the clipboard, in that order of preference.
func (sp *SourceProvider) GetContent() (string, error) {
	content, err := sp.raw()
	if err != nil {
		return "", err
	}
	if sp.Markdown {
		return FlattenMarkdown([]byte(content))
	}
	return content, nil
}

func (sp *SourceProvider) raw() (string, error) {
	if sp.Comment != "" {
		return sp.Comment, nil
	}

	if sp.File != "" {
		if fs.IsDir(sp.File) {
			return "", fmt.Errorf("comment file '%s' is a directory", sp.File)
		}
		data, err := os.ReadFile(sp.File)
		if err != nil {
			return "", fmt.Errorf("failed to read comment file: %w", err)
		}
		return string(data), nil
	}

	if sp.Stdin != nil {
		if stat, err := sp.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			ui.Log.Debug("reading comment from stdin")
			content, err := io.ReadAll(sp.Stdin)
			if err != nil {
				return "", fmt.Errorf("failed to read from stdin: %w", err)
			}
			return string(content), nil
		}
	}

	ui.Log.Debug("reading comment from clipboard")
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}
