package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStat(t *testing.T) {
	text := envelope(
		"*** Add File: new.txt",
		"+one",
		"+two",
		"*** Update File: a.go",
		"*** Move to: b.go",
		"@@ func f() {",
		" keep",
		"-old",
		"+new",
		"+newer",
		EOFMarker,
		"*** Delete File: gone.txt",
	) + "\n" + envelope("*** Update File: c.go", "-x")

	got, err := Stat(text)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	want := []FileStat{
		{Op: ActionAdd, Path: "new.txt", Added: 2},
		{Op: ActionUpdate, Path: "a.go", MovePath: "b.go", Added: 2, Deleted: 1},
		{Op: ActionDelete, Path: "gone.txt"},
		{Op: ActionUpdate, Path: "c.go", Deleted: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stat() mismatch (-want +got):\n%s", diff)
	}
}

func TestStatErrors(t *testing.T) {
	if _, err := Stat("no patch"); !IsKind(err, KindStructure) {
		t.Errorf("Stat(no patch) error = %v", err)
	}
	if _, err := Stat(envelope("+stray")); !IsKind(err, KindStructure) {
		t.Errorf("Stat(stray line) error = %v", err)
	}
}
