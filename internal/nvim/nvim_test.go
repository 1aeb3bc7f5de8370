package nvim

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/apatch/internal/fs"
)

func TestBufferLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantEOL bool
	}{
		{name: "empty", content: "", want: []string{""}},
		{name: "no trailing newline", content: "a\nb", want: []string{"a", "b"}},
		{name: "trailing newline", content: "a\nb\n", want: []string{"a", "b"}, wantEOL: true},
		{name: "blank last line", content: "a\n\n", want: []string{"a", ""}, wantEOL: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, eol := bufferLines(tt.content)
			got := make([]string, len(lines))
			for i, l := range lines {
				got[i] = string(l)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("bufferLines() mismatch (-want +got):\n%s", diff)
			}
			if eol != tt.wantEOL {
				t.Errorf("eol = %v, want %v", eol, tt.wantEOL)
			}
		})
	}
}

func TestManagerRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("nvim"); err != nil {
		t.Skip("nvim not installed")
	}
	t.Setenv("NVIM_LISTEN_ADDRESS", "")

	root := t.TempDir()
	ws, err := fs.NewWorkspace(root)
	if err != nil {
		t.Fatal(err)
	}
	m, err := New(ws)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	for _, content := range []string{"one\ntwo\n", "no newline"} {
		if err := m.Write("sub/file.txt", content); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		got, err := m.Open("sub/file.txt")
		if err != nil || got != content {
			t.Errorf("Open() = %q, %v, want %q", got, err, content)
		}
	}

	if err := m.Remove("sub/file.txt"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "sub", "file.txt")); !os.IsNotExist(err) {
		t.Errorf("file still exists: %v", err)
	}
}
