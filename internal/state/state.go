// Package state persists the undo/redo history of runs.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/commentize/internal/fs"
	"github.com/sokinpui/commentize/internal/ui"
)

const (
	stateDirName  = fs.StateDirName
	stateFileName = "state.yaml"
)

// Operation records one file a box was inserted into.
type Operation struct {
	Path string `yaml:"path"`
	// ContentHash is the SHA-256 of the file right after the insert.
	ContentHash string `yaml:"hash"`
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	Timestamp  int64       `yaml:"timestamp"`
	Mode       string      `yaml:"mode"`
	Data       string      `yaml:"data"`
	Operations []Operation `yaml:"operations"`
}

// State represents the entire state file.
type State struct {
	History      []HistoryEntry `yaml:"history"`
	CurrentIndex int            `yaml:"current_index"`
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// New loads the state manager for the current project.
func New() (*Manager, error) {
	rootDir, err := fs.ProjectRoot()
	if err != nil {
		return nil, err
	}
	return NewAt(rootDir)
}

// NewAt loads the state manager rooted at dir.
func NewAt(dir string) (*Manager, error) {
	stateDir := filepath.Join(dir, stateDirName)
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		ui.Log.Warn("ignoring unreadable state file", "path", m.statePath, "err", err)
		m.state = &State{CurrentIndex: -1}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{CurrentIndex: -1}
			return nil
		}
		return err
	}

	st := &State{CurrentIndex: -1}
	if err := yaml.Unmarshal(data, st); err != nil {
		return fmt.Errorf("invalid state file: %w", err)
	}
	if st.CurrentIndex < -1 || st.CurrentIndex >= len(st.History) {
		return fmt.Errorf("invalid state file: current index %d out of range", st.CurrentIndex)
	}
	m.state = st
	return nil
}

func (m *Manager) save() error {
	if err := os.MkdirAll(m.StateDir, 0755); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}
	data, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}
	if err := os.WriteFile(m.statePath, data, 0644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	return nil
}

// Write adds a new run to the history, discarding anything that was undone.
func (m *Manager) Write(mode string, data []byte, operations []Operation) error {
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  time.Now().UTC().Unix(),
		Mode:       mode,
		Data:       string(data),
		Operations: operations,
	})
	m.state.CurrentIndex++
	return m.save()
}

// GetEntryToUndo returns the last applied run and moves the history pointer
// back. It returns nil when there is nothing to undo.
func (m *Manager) GetEntryToUndo() (*HistoryEntry, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	entry := m.state.History[m.state.CurrentIndex]
	m.state.CurrentIndex--
	return &entry, m.save()
}

// GetEntryToRedo returns the next undone run and moves the history pointer
// forward. It returns nil when there is nothing to redo.
func (m *Manager) GetEntryToRedo() (*HistoryEntry, error) {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil, nil
	}
	m.state.CurrentIndex = nextIndex
	entry := m.state.History[nextIndex]
	return &entry, m.save()
}

// CreateOperations hashes the updated files in their current state.
func CreateOperations(updatedFiles []string) []Operation {
	ops := make([]Operation, 0, len(updatedFiles))
	for _, f := range updatedFiles {
		hash, err := fs.GetFileSHA256(f)
		if err != nil {
			// An empty hash never matches, so undo will skip this file.
			hash = ""
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		ops = append(ops, Operation{Path: abs, ContentHash: hash})
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Path < ops[j].Path
	})
	return ops
}
