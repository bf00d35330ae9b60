// Package cli parses command-line flags and the layout defaults file.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sokinpui/commentize/internal/box"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = ".commentize.yaml"

// Config holds all the command-line flag values.
type Config struct {
	// Comment source
	Comment  string
	File     string
	Markdown bool

	// Layout
	Symbol    string
	Wall      string
	Title     string
	WidthPad  int
	HeightPad int
	Left      int
	Right     int
	Move      int
	Modded    bool
	BoxOnly   bool

	// Targets
	Paths  []string
	Append bool

	// Behavior
	Output      bool
	Copy        bool
	DryRun      bool
	Yes         bool
	Undo        bool
	Redo        bool
	Nvim        bool
	NoAnimation bool
	Verbose     bool
	ConfigFile  string
}

// FileConfig is the layout defaults that can be set in a config file.
type FileConfig struct {
	Symbol    *string `yaml:"symbol"`
	Wall      *string `yaml:"wall"`
	Title     *string `yaml:"title"`
	WidthPad  *int    `yaml:"width_pad"`
	HeightPad *int    `yaml:"height_pad"`
	Left      *int    `yaml:"left"`
	Right     *int    `yaml:"right"`
	Move      *int    `yaml:"move"`
	Style     *string `yaml:"style"`
	Append    *bool   `yaml:"append"`
}

// ParseFlags parses os.Args.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs defines and parses command-line flags using pflag. Values from
// the config file apply to every flag not given explicitly.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("commentize", pflag.ContinueOnError)

	// Comment source
	flags.StringVarP(&cfg.Comment, "comment", "c", "", "Comment to be added.")
	flags.StringVarP(&cfg.File, "file", "f", "", "Text file to get the comment from.")
	flags.BoolVar(&cfg.Markdown, "markdown", false, "Treat the comment as markdown and flatten it to plain text.")

	// Layout
	flags.StringVarP(&cfg.Symbol, "symbol", "s", "", "Symbol to commentize with (default \"*\").")
	flags.StringVarP(&cfg.Wall, "wall", "w", "", "Wall symbol to commentize with (default: the symbol).")
	flags.StringVarP(&cfg.Title, "title", "t", "", "Title rendered above the box.")
	flags.IntVarP(&cfg.WidthPad, "wp", "x", box.DefaultWidthPad, "Width padding length.")
	flags.IntVarP(&cfg.HeightPad, "hp", "y", 0, "Height padding length.")
	flags.IntVarP(&cfg.Left, "left", "l", 0, "Left side padding length.")
	flags.IntVarP(&cfg.Right, "right", "r", 0, "Right side padding length.")
	flags.IntVarP(&cfg.Move, "move", "M", 0, "Indent every line of the box by this many spaces.")
	flags.BoolVarP(&cfg.Modded, "modded", "m", false, "Modded style: /// walls and no block comment delimiters.")
	flags.BoolVarP(&cfg.BoxOnly, "box-only", "b", false, "Only draw the box, without comment delimiters.")

	// Targets
	flags.BoolVarP(&cfg.Append, "append", "a", false, "Append to the end of the files instead of prepending.")

	// Behavior
	flags.BoolVarP(&cfg.Output, "output", "o", false, "Print the comment even when writing to files.")
	flags.BoolVarP(&cfg.Copy, "copy", "C", false, "Copy the comment to the clipboard.")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Show the changes as a diff without writing them.")
	flags.BoolVar(&cfg.Yes, "yes", false, "Do not ask for confirmation.")
	flags.BoolVarP(&cfg.Undo, "undo", "u", false, "Remove the comment inserted by the last run.")
	flags.BoolVarP(&cfg.Redo, "redo", "R", false, "Insert the comment removed by the last undo again.")
	flags.BoolVar(&cfg.Nvim, "nvim", false, "Write through Neovim buffers instead of directly to disk.")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the interactive progress display.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "V", false, "Print debug logs.")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Layout defaults file (default: ./"+DefaultConfigFile+" if present).")

	flags.Usage = func() {
		fmt.Println("Usage: commentize [flags] [PATH...]")
		fmt.Println("\nRender a comment inside a box and add it to the start or end of files.")
		fmt.Println("\nExample: commentize -c 'Copyright 2024 Me' -s '#' src/")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.Paths = flags.Args()

	if err := cfg.applyConfigFile(flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyConfigFile fills every flag that was not set on the command line
// from the config file.
func (c *Config) applyConfigFile(flags *pflag.FlagSet) error {
	path := c.ConfigFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid config file '%s': %w", path, err)
	}
	return c.merge(fc, flags.Changed)
}

func (c *Config) merge(fc FileConfig, changed func(string) bool) error {
	setString := func(name string, dst *string, v *string) {
		if v != nil && !changed(name) {
			*dst = *v
		}
	}
	setInt := func(name string, dst *int, v *int) {
		if v != nil && !changed(name) {
			*dst = *v
		}
	}

	setString("symbol", &c.Symbol, fc.Symbol)
	setString("wall", &c.Wall, fc.Wall)
	setString("title", &c.Title, fc.Title)
	setInt("wp", &c.WidthPad, fc.WidthPad)
	setInt("hp", &c.HeightPad, fc.HeightPad)
	setInt("left", &c.Left, fc.Left)
	setInt("right", &c.Right, fc.Right)
	setInt("move", &c.Move, fc.Move)
	if fc.Append != nil && !changed("append") {
		c.Append = *fc.Append
	}

	if fc.Style != nil && !changed("modded") && !changed("box-only") {
		style, ok := box.ParseStyle(*fc.Style)
		if !ok {
			return fmt.Errorf("invalid style %q in config file", *fc.Style)
		}
		c.Modded = style == box.LineComment
		c.BoxOnly = style == box.BoxOnly
	}
	// The line comment style wins over a symbol or wall from the file.
	if c.Modded {
		if !changed("symbol") {
			c.Symbol = ""
		}
		if !changed("wall") {
			c.Wall = ""
		}
	}
	return nil
}

// Validate rejects flag combinations that cannot be rendered or applied.
func (c *Config) Validate() error {
	if c.Undo && c.Redo {
		return errors.New("error: --undo and --redo are mutually exclusive")
	}
	if c.Comment != "" && c.File != "" {
		return errors.New("error: --comment and --file are mutually exclusive")
	}
	if c.Modded && c.BoxOnly {
		return errors.New("error: --modded and --box-only are mutually exclusive")
	}
	if c.Modded && (c.Symbol != "" || c.Wall != "") {
		return errors.New("error: --modded cannot be combined with --symbol or --wall")
	}
	if c.BoxOnly && len(c.Paths) > 0 {
		return errors.New("error: --box-only output cannot be written to a path")
	}
	for _, n := range []struct {
		flag  string
		value int
	}{
		{"wp", c.WidthPad},
		{"hp", c.HeightPad},
		{"left", c.Left},
		{"right", c.Right},
		{"move", c.Move},
	} {
		if n.value < 0 {
			return fmt.Errorf("error: --%s must not be negative", n.flag)
		}
	}
	if (c.Undo || c.Redo) && len(c.Paths) > 0 {
		return errors.New("error: --undo and --redo do not take paths")
	}
	if c.DryRun && (c.Undo || c.Redo) {
		return errors.New("error: --dry-run cannot be combined with --undo or --redo")
	}
	if c.DryRun && len(c.Paths) == 0 {
		return errors.New("error: --dry-run needs at least one path")
	}
	return nil
}

// Style returns the box style selected by the flags.
func (c *Config) Style() box.Style {
	switch {
	case c.Modded:
		return box.LineComment
	case c.BoxOnly:
		return box.BoxOnly
	default:
		return box.Block
	}
}

// LayoutOptions converts the flags into renderer options.
func (c *Config) LayoutOptions() box.Options {
	return box.Options{
		Symbol:    c.Symbol,
		Wall:      c.Wall,
		Title:     c.Title,
		WidthPad:  c.WidthPad,
		HeightPad: c.HeightPad,
		LeftPad:   c.Left,
		RightPad:  c.Right,
		Move:      c.Move,
		Style:     c.Style(),
		Append:    c.Append,
	}
}
