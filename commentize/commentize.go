// Package commentize renders a comment box and adds it to files, with
// confirmation, dry runs and undo/redo.
package commentize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/commentize/cli"
	"github.com/sokinpui/commentize/internal/box"
	"github.com/sokinpui/commentize/internal/fs"
	"github.com/sokinpui/commentize/internal/inserter"
	"github.com/sokinpui/commentize/internal/nvim"
	"github.com/sokinpui/commentize/internal/source"
	"github.com/sokinpui/commentize/internal/state"
	"github.com/sokinpui/commentize/internal/ui"
	"github.com/sokinpui/commentize/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// ConfirmFunc asks the user whether to go ahead. It returns false to abort.
type ConfirmFunc func(prompt string) bool

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	stateManager     *state.Manager
	sourceProvider   *source.SourceProvider
	progressCallback ProgressUpdate
	confirm          ConfirmFunc
	stdout           io.Writer

	rendered string
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	stateManager, err := state.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	return newApp(cfg, stateManager), nil
}

func newApp(cfg *cli.Config, stateManager *state.Manager) *App {
	return &App{
		cfg:            cfg,
		stateManager:   stateManager,
		sourceProvider: source.New(cfg.Comment, cfg.File, cfg.Markdown),
		confirm:        ui.Confirm,
		stdout:         os.Stdout,
	}
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetConfirm replaces the confirmation prompt used before writing files.
func (a *App) SetConfirm(confirm ConfirmFunc) {
	a.confirm = confirm
}

// Render reads the comment and lays it out in a box. The result is cached.
func (a *App) Render() (string, error) {
	if a.rendered != "" {
		return a.rendered, nil
	}
	content, err := a.sourceProvider.GetContent()
	if err != nil {
		return "", err
	}
	rendered, err := box.Render(box.Lines(content), a.cfg.LayoutOptions())
	if err != nil {
		return "", err
	}
	if a.cfg.Copy {
		if err := clipboard.WriteAll(rendered); err != nil {
			ui.Warning("Could not copy the comment to the clipboard: %v", err)
		}
	}
	a.rendered = rendered
	return rendered, nil
}

// Data returns the bytes inserted into files: the rendered box, followed by
// a newline when prepending.
func (a *App) Data() ([]byte, error) {
	rendered, err := a.Render()
	if err != nil {
		return nil, err
	}
	if !a.cfg.Append {
		rendered += "\n"
	}
	return []byte(rendered), nil
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastOperation()
	case a.cfg.Redo:
		return a.redoLastOperation()
	case a.cfg.DryRun:
		return a.printDryRun()
	default:
		return a.processTargets()
	}
}

func (a *App) mode() inserter.Mode {
	if a.cfg.Append {
		return inserter.Append
	}
	return inserter.Prepend
}

// openEditor returns the editor writes go through and a function to release it.
func (a *App) openEditor() (inserter.Editor, func(), error) {
	if !a.cfg.Nvim {
		return inserter.Disk{}, func() {}, nil
	}
	manager, err := nvim.New()
	if err != nil {
		return nil, nil, err
	}
	return manager, manager.Close, nil
}

// processTargets inserts the box into every target path after confirmation.
func (a *App) processTargets() (model.Summary, error) {
	if len(a.cfg.Paths) == 0 {
		return model.Summary{Message: "No path given. Nothing to do."}, nil
	}
	data, err := a.Data()
	if err != nil {
		return model.Summary{}, err
	}

	if !a.cfg.Yes && a.confirm != nil && !a.confirm("Are you sure you want to commentize the file/files?") {
		return model.Summary{Message: "Aborted."}, nil
	}

	editor, release, err := a.openEditor()
	if err != nil {
		return model.Summary{}, err
	}
	defer release()

	summary, err := a.applyChanges(inserter.New(editor), data)
	if err != nil {
		return summary, err
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// applyChanges runs the inserter over every path and records the modified
// files in the history. It stops at the first error; files written so far
// are still recorded.
func (a *App) applyChanges(ins *inserter.Inserter, data []byte) (model.Summary, error) {
	var summary model.Summary
	mode := a.mode()

	if a.progressCallback != nil {
		ins.SetProgressCallback(a.progressCallback)
	}
	for _, target := range a.cfg.Paths {
		result, err := ins.Apply(data, target, mode)
		summary.Modified = append(summary.Modified, result.Modified...)
		summary.Unchanged = append(summary.Unchanged, result.Unchanged...)
		if err != nil {
			a.record(mode, data, summary.Modified)
			return summary, err
		}
	}

	a.record(mode, data, summary.Modified)
	return summary, nil
}

func (a *App) record(mode inserter.Mode, data []byte, modified []string) {
	if len(modified) == 0 {
		return
	}
	ops := state.CreateOperations(modified)
	if err := a.stateManager.Write(mode.String(), data, ops); err != nil {
		ui.Warning("Undo will not be available for this operation: %v", err)
	}
}

// Preview computes the changes a run would make without writing them.
func (a *App) Preview() ([]model.FileChange, error) {
	data, err := a.Data()
	if err != nil {
		return nil, err
	}
	ins := inserter.New(nil)

	var changes []model.FileChange
	for _, target := range a.cfg.Paths {
		planned, err := ins.Plan(data, target, a.mode())
		if err != nil {
			return nil, err
		}
		for _, c := range planned {
			if !c.Changed() {
				continue
			}
			changes = append(changes, model.FileChange{Path: c.Path, Before: c.Before, After: c.After})
		}
	}
	return changes, nil
}

// printDryRun prints the diff of every file a run would change.
func (a *App) printDryRun() (model.Summary, error) {
	changes, err := a.Preview()
	if err != nil {
		return model.Summary{}, err
	}
	for _, c := range changes {
		if err := ui.PrintDiff(a.stdout, a.displayPath(c.Path), c.Before, c.After); err != nil {
			return model.Summary{}, err
		}
	}
	return model.Summary{Message: fmt.Sprintf("Dry run: %d file(s) would change.", len(changes))}, nil
}

// undoLastOperation removes the box inserted by the last recorded run.
func (a *App) undoLastOperation() (model.Summary, error) {
	entry, err := a.stateManager.GetEntryToUndo()
	if err != nil {
		return model.Summary{}, err
	}
	if entry == nil {
		return model.Summary{Message: "No operation to undo."}, nil
	}
	mode, err := inserter.ParseMode(entry.Mode)
	if err != nil {
		return model.Summary{}, err
	}

	summary, err := a.replay(entry, func(current []byte, op state.Operation) ([]byte, bool) {
		// Leave files alone that changed after the insert.
		if op.ContentHash == "" || fs.SHA256(current) != op.ContentHash {
			return nil, false
		}
		return inserter.Strip(current, []byte(entry.Data), mode)
	})
	summary.Message = "Undid last operation."
	return summary, err
}

// redoLastOperation inserts the box removed by the last undo again.
func (a *App) redoLastOperation() (model.Summary, error) {
	entry, err := a.stateManager.GetEntryToRedo()
	if err != nil {
		return model.Summary{}, err
	}
	if entry == nil {
		return model.Summary{Message: "No operation to redo."}, nil
	}
	mode, err := inserter.ParseMode(entry.Mode)
	if err != nil {
		return model.Summary{}, err
	}

	summary, err := a.replay(entry, func(current []byte, op state.Operation) ([]byte, bool) {
		next := inserter.Compose(current, []byte(entry.Data), mode)
		// Only redo when the result is exactly what the original run produced.
		if op.ContentHash == "" || fs.SHA256(next) != op.ContentHash {
			return nil, false
		}
		return next, true
	})
	summary.Message = "Redid last undone operation."
	return summary, err
}

// replay rewrites every file of a history entry with the content returned
// by transform. Files transform rejects are reported as failed.
func (a *App) replay(entry *state.HistoryEntry, transform func([]byte, state.Operation) ([]byte, bool)) (model.Summary, error) {
	editor, release, err := a.openEditor()
	if err != nil {
		return model.Summary{}, err
	}
	defer release()
	ins := inserter.New(editor)

	var summary model.Summary
	total := len(entry.Operations)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}
	for i, op := range entry.Operations {
		if a.replayFile(ins, op, transform) {
			summary.Modified = append(summary.Modified, op.Path)
		} else {
			summary.Failed = append(summary.Failed, op.Path)
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

func (a *App) replayFile(ins *inserter.Inserter, op state.Operation, transform func([]byte, state.Operation) ([]byte, bool)) bool {
	current, err := ins.Read(op.Path)
	if err != nil {
		ui.Log.Debug("cannot read file", "path", op.Path, "err", err)
		return false
	}
	next, ok := transform(current, op)
	if !ok {
		ui.Log.Debug("file changed since the operation, skipping", "path", op.Path)
		return false
	}
	if err := ins.Replace(op.Path, next); err != nil {
		ui.Log.Debug("failed to rewrite file", "path", op.Path, "err", err)
		return false
	}
	return true
}

func (a *App) displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return p
	}
	return rel
}

// relativizeSummaryPaths converts file paths in a summary to be relative to
// the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	makeRelative := func(paths []string) []string {
		if paths == nil {
			return nil
		}
		relPaths := make([]string, len(paths))
		for i, p := range paths {
			relPaths[i] = a.displayPath(p)
		}
		return relPaths
	}

	summary.Modified = makeRelative(summary.Modified)
	summary.Unchanged = makeRelative(summary.Unchanged)
	summary.Failed = makeRelative(summary.Failed)
}
