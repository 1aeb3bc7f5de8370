package canon

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii untouched", in: `x := "a-b" // 'c'`, want: `x := "a-b" // 'c'`},
		{name: "en and em dash", in: "a–b—c", want: "a-b-c"},
		{name: "hyphen variants", in: "‐‑‒", want: "---"},
		{name: "minus sign", in: "x − 1", want: "x - 1"},
		{name: "curly double quotes", in: "“hi”", want: `"hi"`},
		{name: "guillemets", in: "«hi»", want: `"hi"`},
		{name: "low double quote", in: "„hi", want: `"hi`},
		{name: "curly single quotes", in: "‘it’s‛", want: "'it's'"},
		{name: "non-breaking spaces", in: "a\u00a0b\u202fc", want: "a b c"},
		{name: "composes combining marks", in: "e\u0301", want: "\u00e9"},
		{name: "other unicode kept", in: "naïve → ok", want: "naïve → ok"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinesDoesNotAliasInput(t *testing.T) {
	in := []string{"a–b", "plain"}
	out := Lines(in)

	if out[0] != "a-b" || out[1] != "plain" {
		t.Fatalf("Lines() = %q", out)
	}
	if in[0] != "a–b" {
		t.Errorf("input was modified: %q", in[0])
	}
}
