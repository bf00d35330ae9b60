// Package inserter writes a rendered box to the start or end of files
// without inserting it twice.
package inserter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sokinpui/commentize/internal/fs"
	"github.com/sokinpui/commentize/internal/ui"
)

// ErrIsDirectory is returned when a single-file operation is given a directory.
var ErrIsDirectory = errors.New("path is a directory")

// Mode selects where the box goes.
type Mode int

const (
	Prepend Mode = iota
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "prepend"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "prepend":
		return Prepend, nil
	case "append":
		return Append, nil
	}
	return Prepend, fmt.Errorf("unknown insert mode %q", s)
}

// Editor is the storage the inserter reads from and writes to.
type Editor interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	AppendFile(path string, data []byte) error
}

// Disk edits files directly on the filesystem.
type Disk struct{}

func (Disk) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the content of an existing file, keeping its mode.
func (Disk) WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (Disk) AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Change describes what inserting into one file does.
type Change struct {
	Path   string
	Before []byte
	After  []byte
}

// Changed reports whether the file content differs after insertion.
func (c Change) Changed() bool {
	return !bytes.Equal(c.Before, c.After)
}

// Result lists the files an Apply call touched.
type Result struct {
	Modified  []string
	Unchanged []string
}

// Compose returns the content of a file after inserting data into existing.
// The content is returned unchanged when data is already in place.
func Compose(existing, data []byte, mode Mode) []byte {
	switch mode {
	case Append:
		if bytes.HasSuffix(existing, data) {
			return existing
		}
		out := make([]byte, 0, len(existing)+len(data))
		out = append(out, existing...)
		return append(out, data...)
	default:
		if bytes.HasPrefix(existing, data) {
			return existing
		}
		out := make([]byte, 0, len(existing)+len(data))
		out = append(out, data...)
		return append(out, existing...)
	}
}

// Strip removes data from where mode would have put it. It reports false
// when data is not there.
func Strip(content, data []byte, mode Mode) ([]byte, bool) {
	switch mode {
	case Append:
		if !bytes.HasSuffix(content, data) {
			return content, false
		}
		return content[:len(content)-len(data)], true
	default:
		if !bytes.HasPrefix(content, data) {
			return content, false
		}
		return content[len(data):], true
	}
}

// Inserter applies a rendered box to files through an Editor.
type Inserter struct {
	editor   Editor
	progress func(current, total int)
}

// New creates an Inserter. A nil editor edits files on disk.
func New(editor Editor) *Inserter {
	if editor == nil {
		editor = Disk{}
	}
	return &Inserter{editor: editor}
}

// SetProgressCallback sets a function called after each file is handled.
func (in *Inserter) SetProgressCallback(cb func(current, total int)) {
	in.progress = cb
}

// Plan computes the change for every file under target without writing.
func (in *Inserter) Plan(data []byte, target string, mode Mode) ([]Change, error) {
	files, err := fs.Files(target)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files under '%s': %w", target, err)
	}
	changes := make([]Change, 0, len(files))
	for _, path := range files {
		before, err := in.editor.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read '%s': %w", path, err)
		}
		changes = append(changes, Change{
			Path:   path,
			Before: before,
			After:  Compose(before, data, mode),
		})
	}
	return changes, nil
}

// Apply inserts data into target, or into every file under target when it
// is a directory. The first failure stops the walk; files already written
// stay written.
func (in *Inserter) Apply(data []byte, target string, mode Mode) (Result, error) {
	var result Result
	files, err := fs.Files(target)
	if err != nil {
		return result, fmt.Errorf("failed to collect files under '%s': %w", target, err)
	}

	total := len(files)
	if in.progress != nil {
		in.progress(0, total)
	}
	for i, path := range files {
		changed, err := in.ApplyFile(data, path, mode)
		if err != nil {
			return result, err
		}
		if changed {
			result.Modified = append(result.Modified, path)
		} else {
			result.Unchanged = append(result.Unchanged, path)
		}
		if in.progress != nil {
			in.progress(i+1, total)
		}
	}
	return result, nil
}

// ApplyFile inserts data into a single file and reports whether the file
// was modified.
func (in *Inserter) ApplyFile(data []byte, path string, mode Mode) (bool, error) {
	if fs.IsDir(path) {
		return false, fmt.Errorf("cannot %s '%s': %w", mode, path, ErrIsDirectory)
	}

	existing, err := in.editor.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	switch mode {
	case Append:
		if bytes.HasSuffix(existing, data) {
			ui.Log.Debug("box already present", "path", path, "mode", mode)
			return false, nil
		}
		if err := in.editor.AppendFile(path, data); err != nil {
			return false, fmt.Errorf("failed to append to '%s': %w", path, err)
		}
	default:
		if bytes.HasPrefix(existing, data) {
			ui.Log.Debug("box already present", "path", path, "mode", mode)
			return false, nil
		}
		if err := in.editor.WriteFile(path, Compose(existing, data, mode)); err != nil {
			return false, fmt.Errorf("failed to prepend to '%s': %w", path, err)
		}
	}
	ui.Log.Debug("inserted box", "path", path, "mode", mode)
	return true, nil
}

// Replace overwrites a file with content. It is used to restore files.
func (in *Inserter) Replace(path string, content []byte) error {
	if err := in.editor.WriteFile(path, content); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

// Read returns the current content of path as seen by the editor.
func (in *Inserter) Read(path string) ([]byte, error) {
	return in.editor.ReadFile(path)
}
