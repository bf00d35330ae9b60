package commentize

import (
	"fmt"

	"github.com/sokinpui/commentize/cli"
	"github.com/sokinpui/commentize/internal/box"
)

// Options controls the box layout when commentize is used as a library.
type Options = box.Options

// Style selects the comment delimiters.
type Style = box.Style

const (
	Block       = box.Block
	LineComment = box.LineComment
	BoxOnly     = box.BoxOnly
)

// ErrEmptyContent is returned when the comment has no lines.
var ErrEmptyContent = box.ErrEmptyContent

// DefaultOptions returns the layout used by the command line tool.
func DefaultOptions() Options {
	return box.DefaultOptions()
}

// Render lays out text inside a box.
func Render(text string, opts Options) (string, error) {
	return box.Render(box.Lines(text), opts)
}

// Apply renders text and inserts it into every file under paths without
// asking for confirmation. It returns a summary of the operation in a map.
func Apply(text string, opts Options, paths ...string) (map[string][]string, error) {
	if len(box.Lines(text)) == 0 {
		return nil, ErrEmptyContent
	}
	cfg := configFromOptions(text, opts, paths)
	cfg.Yes = true
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize commentize app: %w", err)
	}

	summary, err := app.Execute()
	if err != nil {
		return nil, err
	}

	return map[string][]string{
		"Modified":  summary.Modified,
		"Unchanged": summary.Unchanged,
		"Failed":    summary.Failed,
	}, nil
}

func configFromOptions(text string, opts Options, paths []string) *cli.Config {
	if opts.Style == box.LineComment {
		// The line style always draws /// walls.
		opts.Symbol, opts.Wall = "", ""
	}
	return &cli.Config{
		Comment:   text,
		Symbol:    opts.Symbol,
		Wall:      opts.Wall,
		Title:     opts.Title,
		WidthPad:  opts.WidthPad,
		HeightPad: opts.HeightPad,
		Left:      opts.LeftPad,
		Right:     opts.RightPad,
		Move:      opts.Move,
		Modded:    opts.Style == box.LineComment,
		BoxOnly:   opts.Style == box.BoxOnly,
		Append:    opts.Append,
		Paths:     paths,
	}
}
