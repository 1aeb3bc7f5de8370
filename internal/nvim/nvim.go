// Package nvim applies patches through Neovim buffers so the edits land in
// the editor's undo history. Manager implements patch.IO.
package nvim

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/neovim/go-client/nvim"

	"github.com/sokinpui/apatch/internal/fs"
)

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim          *nvim.Nvim
	ws            *fs.Workspace
	isSelfStarted bool
	cmd           *exec.Cmd
	socketPath    string
}

// New creates a Neovim manager for ws, connecting to the instance named by
// $NVIM_LISTEN_ADDRESS or starting a new headless one.
func New(ws *fs.Workspace) (*Manager, error) {
	if addr := os.Getenv("NVIM_LISTEN_ADDRESS"); addr != "" {
		v, err := nvim.Dial(addr)
		if err == nil {
			return &Manager{nvim: v, ws: ws}, nil
		}
	}

	tmpDir, err := os.MkdirTemp("", "apatch-nvim-")
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
	for i := 0; i < 40; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	v, err := nvim.Dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to connect to headless nvim: %w", err)
	}

	m := &Manager{
		nvim:          v,
		ws:            ws,
		isSelfStarted: true,
		cmd:           cmd,
		socketPath:    socketPath,
	}
	if err := m.nvim.Command("set noswapfile"); err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to configure headless nvim: %w", err)
	}
	return m, nil
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

// Open reads from disk. Unsaved buffer edits are not seen.
func (m *Manager) Open(path string) (string, error) {
	return m.ws.Open(path)
}

// Write loads path into a buffer, replaces its lines and writes it.
func (m *Manager) Write(path, content string) error {
	absPath, err := m.ws.MkdirParent(path)
	if err != nil {
		return err
	}
	escaped, err := m.escape(absPath)
	if err != nil {
		return err
	}

	lines, eol := bufferLines(content)
	eolOpts := "setlocal noendofline nofixendofline"
	if eol {
		eolOpts = "setlocal endofline fixendofline"
	}

	b := m.nvim.NewBatch()
	b.Command("edit! " + escaped)
	b.Command(eolOpts)
	b.SetBufferLines(0, 0, -1, true, lines)
	b.Command("write!")
	if err := b.Execute(); err != nil {
		return fmt.Errorf("nvim failed to update %s: %w", path, err)
	}
	return nil
}

// Remove wipes any buffer holding path, then deletes the file.
func (m *Manager) Remove(path string) error {
	absPath, err := m.ws.Resolve(path)
	if err != nil {
		return err
	}
	escaped, err := m.escape(absPath)
	if err != nil {
		return err
	}
	if err := m.nvim.Command("silent! bwipeout! " + escaped); err != nil {
		return fmt.Errorf("nvim failed to close %s: %w", path, err)
	}
	return m.ws.Remove(path)
}

func (m *Manager) escape(absPath string) (string, error) {
	var escaped string
	if err := m.nvim.Call("fnameescape", &escaped, absPath); err != nil {
		return "", fmt.Errorf("nvim fnameescape failed: %w", err)
	}
	return escaped, nil
}

// bufferLines splits content into buffer lines. A trailing newline becomes
// the 'endofline' option rather than an extra empty line.
func bufferLines(content string) ([][]byte, bool) {
	eol := strings.HasSuffix(content, "\n")
	if eol {
		content = content[:len(content)-1]
	}
	parts := strings.Split(content, "\n")
	lines := make([][]byte, len(parts))
	for i, s := range parts {
		lines[i] = []byte(s)
	}
	return lines, eol
}
