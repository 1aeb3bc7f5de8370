package patch

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	first := envelope("*** Add File: a", "+a")
	second := envelope("*** Delete File: b")

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "none", text: "nothing here", want: nil},
		{name: "single", text: first, want: []string{first}},
		{name: "surrounded by prose", text: "intro\n" + first + "\noutro", want: []string{first}},
		{name: "two", text: first + "\n\n" + second + "\n", want: []string{first, second}},
		{name: "unterminated second", text: first + "\n" + BeginMarker + "\n*** Delete File: c", want: []string{first}},
		{name: "crlf", text: strings.ReplaceAll(first, "\n", "\r\n"), want: []string{first}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Split(tt.text)); diff != "" {
				t.Errorf("Split() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPreScans(t *testing.T) {
	text := envelope(
		"*** Update File: src/a.go",
		"*** Move to: src/b.go",
		"@@",
		"*** Add File: docs/new.md ",
		"+*** Update File: not/a/directive",
		"*** Delete File: old.txt",
		"*** Update File: src/a.go",
	)

	if diff := cmp.Diff([]string{"src/a.go", "old.txt"}, NeededFiles(text)); diff != "" {
		t.Errorf("NeededFiles() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"docs/new.md"}, AddedFiles(text)); diff != "" {
		t.Errorf("AddedFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckDuplicates(t *testing.T) {
	if err := checkDuplicates(envelope("*** Update File: a", "*** Delete File: b")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := checkDuplicates(envelope("*** Update File: a", "*** Delete File: a"))
	if !IsKind(err, KindStructure) || !strings.Contains(err.Error(), "a: duplicate path") {
		t.Errorf("checkDuplicates() = %v", err)
	}
}
