package matcher

import "testing"

func TestFind(t *testing.T) {
	file := []string{
		"package main",
		"",
		"func main() {",
		"\tfmt.Println(\"hi\")   ",
		"}",
		"",
		"func main() {",
		"}",
	}

	tests := []struct {
		name     string
		context  []string
		start    int
		eof      bool
		wantPos  int
		wantFuzz int
	}{
		{
			name:    "empty context matches at start",
			start:   3,
			wantPos: 3,
		},
		{
			name:    "exact",
			context: []string{"func main() {"},
			wantPos: 2,
		},
		{
			name:    "exact respects start",
			context: []string{"func main() {"},
			start:   3,
			wantPos: 6,
		},
		{
			name:     "trailing whitespace",
			context:  []string{"\tfmt.Println(\"hi\")"},
			wantPos:  3,
			wantFuzz: FuzzTrailing,
		},
		{
			name:     "leading whitespace",
			context:  []string{"    fmt.Println(\"hi\")"},
			wantPos:  3,
			wantFuzz: FuzzTrimmed,
		},
		{
			name:    "canonical punctuation",
			context: []string{"\tfmt.Println(“hi”)   "},
			wantPos: 3,
		},
		{
			name:    "multi line",
			context: []string{"", "func main() {", "}"},
			wantPos: 5,
		},
		{
			name:    "no match",
			context: []string{"func other() {"},
			wantPos: NotFound,
		},
		{
			name:    "window past end never matches",
			context: []string{"}", "", "extra"},
			wantPos: NotFound,
		},
		{
			name:    "eof anchored prefers tail",
			context: []string{"func main() {", "}"},
			eof:     true,
			wantPos: 6,
		},
		{
			name:     "eof anchored falls back with penalty",
			context:  []string{"package main"},
			eof:      true,
			wantPos:  0,
			wantFuzz: FuzzEOFMiss,
		},
		{
			name:    "eof anchored empty context sits at end",
			eof:     true,
			wantPos: len(file),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, fuzz := Find(file, tt.context, tt.start, tt.eof)
			if pos != tt.wantPos {
				t.Errorf("pos = %d, want %d", pos, tt.wantPos)
			}
			if pos != NotFound && fuzz != tt.wantFuzz {
				t.Errorf("fuzz = %d, want %d", fuzz, tt.wantFuzz)
			}
		})
	}
}

func TestFindEOFPrefersTailOverEarlierCopy(t *testing.T) {
	file := []string{"a", "b", "x", "a", "b"}

	pos, fuzz := Find(file, []string{"a", "b"}, 0, true)
	if pos != 3 || fuzz != FuzzExact {
		t.Errorf("Find() = (%d, %d), want (3, 0)", pos, fuzz)
	}

	pos, _ = Find(file, []string{"a", "b"}, 0, false)
	if pos != 0 {
		t.Errorf("forward Find() = %d, want 0", pos)
	}
}

func TestFindContextLongerThanFile(t *testing.T) {
	pos, _ := Find([]string{"a"}, []string{"a", "b"}, 0, true)
	if pos != NotFound {
		t.Errorf("pos = %d, want NotFound", pos)
	}
}

func TestTierOrdering(t *testing.T) {
	if !(FuzzExact < FuzzTrailing && FuzzTrailing < FuzzTrimmed && FuzzTrimmed < FuzzEOFMiss) {
		t.Fatal("fuzz tiers must be strictly increasing")
	}
}

func TestContains(t *testing.T) {
	m := New([]string{"def f():", "    return 1", "def g():"})

	if !m.Contains("def f():", 1) {
		t.Error("expected def f(): among first line")
	}
	if m.Contains("def g():", 2) {
		t.Error("def g(): is outside the first two lines")
	}
	if !m.Contains("return 1", 3) {
		t.Error("trimmed tier should find return 1")
	}
	if m.Contains("def f():", 0) {
		t.Error("nothing is contained in zero lines")
	}
}
