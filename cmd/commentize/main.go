package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/sokinpui/commentize/cli"
	"github.com/sokinpui/commentize/commentize"
	"github.com/sokinpui/commentize/internal/tui"
	"github.com/sokinpui/commentize/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	ui.SetVerbose(cfg.Verbose)

	app, err := commentize.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if !cfg.Undo && !cfg.Redo {
		box, err := app.Render()
		if err != nil {
			ui.Error("Error: %v", err)
			os.Exit(1)
		}
		if cfg.Output || len(cfg.Paths) == 0 {
			ui.PrintBox(os.Stdout, box)
		}
		if len(cfg.Paths) == 0 {
			return
		}
	}

	// Modes that print to stdout or read stdin should not run the TUI.
	if cfg.DryRun || cfg.NoAnimation {
		summary, err := app.Execute()
		if err != nil {
			ui.Error("Error: %v", err)
			os.Exit(1)
		}
		ui.PrintSummary(summary)
		return
	}

	model := tui.New(app)
	// Read keys from the terminal; stdin may carry the comment.
	p := tea.NewProgram(model, tea.WithInputTTY())
	model.SetProgram(p)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		os.Exit(1)
	}
}
