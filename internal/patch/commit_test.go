package patch

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildCommit(t *testing.T) {
	originals := Originals{
		"gone.txt": "bye\n",
		"mod.txt":  "a\nb\nc\n",
	}
	env := &Envelope{}
	env.add("gone.txt", NewDelete())
	env.add("new.txt", NewAdd(""))
	env.add("mod.txt", NewUpdate([]Chunk{
		{OrigIndex: 0, InsLines: []string{"top"}},
		{OrigIndex: 1, DelLines: []string{"b"}, InsLines: []string{"B"}},
	}, "moved.txt"))

	commit, err := BuildCommit(env, originals)
	if err != nil {
		t.Fatalf("BuildCommit() error = %v", err)
	}

	want := &Commit{Changes: []Change{
		{Type: ActionDelete, Path: "gone.txt", OldContent: "bye\n"},
		{Type: ActionAdd, Path: "new.txt", NewContent: ""},
		{Type: ActionUpdate, Path: "mod.txt", OldContent: "a\nb\nc\n", NewContent: "top\na\nB\nc\n", MovePath: "moved.txt"},
	}}
	if diff := cmp.Diff(want, commit); diff != "" {
		t.Errorf("commit mismatch (-want +got):\n%s", diff)
	}

	if ch, ok := commit.Get("mod.txt"); !ok || ch.MovePath != "moved.txt" {
		t.Errorf("Get(mod.txt) = %+v, %v", ch, ok)
	}
	if _, ok := commit.Get("missing"); ok {
		t.Error("Get(missing) reported a change")
	}
}

func TestBuildCommitIdentity(t *testing.T) {
	for _, content := range []string{"", "one", "one\ntwo\n", "\n\n"} {
		env := &Envelope{}
		env.add("f", NewUpdate(nil, ""))
		commit, err := BuildCommit(env, Originals{"f": content})
		if err != nil {
			t.Fatalf("BuildCommit(%q) error = %v", content, err)
		}
		if got := commit.Changes[0].NewContent; got != content {
			t.Errorf("identity update of %q produced %q", content, got)
		}
	}
}

func TestBuildCommitReconstructErrors(t *testing.T) {
	tests := []struct {
		name   string
		chunks []Chunk
		want   string
	}{
		{
			name:   "index past end",
			chunks: []Chunk{{OrigIndex: 9, InsLines: []string{"x"}}},
			want:   "exceeds file length",
		},
		{
			name: "out of order",
			chunks: []Chunk{
				{OrigIndex: 1, DelLines: []string{"b", "c"}},
				{OrigIndex: 2, InsLines: []string{"x"}},
			},
			want: "chunk index out of order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &Envelope{}
			env.add("src/f.txt", NewUpdate(tt.chunks, ""))

			_, err := BuildCommit(env, Originals{"src/f.txt": "a\nb\nc\nd"})
			if !IsKind(err, KindReconstruct) {
				t.Fatalf("BuildCommit() error = %v, want reconstruct error", err)
			}
			if !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), "src/f.txt") {
				t.Errorf("error %q should mention %q and the path", err, tt.want)
			}
		})
	}
}

func TestApplyChunksAtEnd(t *testing.T) {
	got, err := applyChunks("f", "a\nb", []Chunk{{OrigIndex: 2, InsLines: []string{"c"}}})
	if err != nil {
		t.Fatalf("applyChunks() error = %v", err)
	}
	if got != "a\nb\nc" {
		t.Errorf("applyChunks() = %q", got)
	}
}
