// Package nvim writes files through Neovim buffers.
package nvim

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/neovim/go-client/nvim"

	"github.com/sokinpui/commentize/internal/ui"
)

// Manager edits files through Neovim buffers, so that running editors see
// the change and it lands in the buffer's undo history.
type Manager struct {
	nvim          *nvim.Nvim
	isSelfStarted bool
	cmd           *exec.Cmd
	socketPath    string
}

// New creates a new Neovim manager, connecting to an existing instance
// or starting a new headless one.
func New() (*Manager, error) {
	// Try to connect to a running instance first.
	if addr := os.Getenv("NVIM_LISTEN_ADDRESS"); addr != "" {
		v, err := nvim.Dial(addr)
		if err == nil {
			ui.Log.Debug("connected to running neovim", "addr", addr)
			return &Manager{nvim: v}, nil
		}
		ui.Log.Debug("could not dial neovim, starting headless instance", "addr", addr, "err", err)
	}

	tmpDir, err := os.MkdirTemp("", "commentize-nvim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for nvim: %w", err)
	}
	socketPath := filepath.Join(tmpDir, "nvim.sock")

	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", socketPath)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to start headless nvim: %w. Is 'nvim' in your PATH?", err)
	}

	// Wait for the socket file to appear.
	for i := 0; i < 20; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	v, err := nvim.Dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to connect to headless nvim: %w", err)
	}

	m := &Manager{
		nvim:          v,
		isSelfStarted: true,
		cmd:           cmd,
		socketPath:    socketPath,
	}
	m.configureTempInstance()
	return m, nil
}

func (m *Manager) configureTempInstance() {
	b := m.nvim.NewBatch()
	b.Command("set noswapfile")
	b.Command("set nofixendofline")
	if err := b.Execute(); err != nil {
		ui.Log.Debug("failed to configure headless neovim", "err", err)
	}
}

// Close disconnects from Neovim and cleans up if it was self-started.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
	if m.isSelfStarted && m.cmd != nil && m.cmd.Process != nil {
		if err := m.cmd.Process.Kill(); err == nil {
			m.cmd.Wait()
			os.RemoveAll(filepath.Dir(m.socketPath))
		}
	}
}

// ReadFile reads from disk; buffers are reloaded before they are written.
func (m *Manager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the buffer for path with data and saves it.
func (m *Manager) WriteFile(path string, data []byte) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	lines, eol := SplitLines(data)
	b := m.nvim.NewBatch()
	for _, c := range loadCommands(absPath, eol) {
		b.Command(c)
	}
	b.SetBufferLines(0, 0, -1, true, lines)
	b.Command("write")
	if err := b.Execute(); err != nil {
		return fmt.Errorf("neovim failed to write '%s': %w", path, err)
	}
	return nil
}

// AppendFile writes the current content of path followed by data.
func (m *Manager) AppendFile(path string, data []byte) error {
	existing, err := m.ReadFile(path)
	if err != nil {
		return err
	}
	return m.WriteFile(path, append(existing, data...))
}

// loadCommands opens path for a byte-exact rewrite. The buffer is read in
// binary mode with unix line endings and no encoding conversion, so a line
// keeps any '\r' it had and the write emits exactly the bytes given.
func loadCommands(path string, eol bool) []string {
	endOfLine := "noeol"
	if eol {
		endOfLine = "eol"
	}
	return []string{
		fmt.Sprintf("edit! ++bin ++ff=unix %s", escapePath(path)),
		fmt.Sprintf("setlocal binary fileformat=unix fileencoding= nobomb %s nofixendofline", endOfLine),
	}
}

// SplitLines converts file content into buffer lines and reports whether
// the content ends with a newline. Only '\n' separates lines; a CRLF line
// keeps its '\r'.
func SplitLines(data []byte) ([][]byte, bool) {
	eol := bytes.HasSuffix(data, []byte("\n"))
	trimmed := bytes.TrimSuffix(data, []byte("\n"))
	return bytes.Split(trimmed, []byte("\n")), eol
}

// escapePath escapes characters that are special in an Ex command argument.
func escapePath(path string) string {
	var b bytes.Buffer
	for _, r := range path {
		switch r {
		case ' ', '\\', '%', '#', '|', '"':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
