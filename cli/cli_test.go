package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{name: "defaults", args: nil, want: &Config{}},
		{
			name: "short flags",
			args: []string{"-d", "/tmp/project", "-n", "-s", "-m"},
			want: &Config{Dir: "/tmp/project", DryRun: true, Stat: true, Markdown: true},
		},
		{
			name: "long flags",
			args: []string{"--buffer", "--plain", "--file=-"},
			want: &Config{Buffer: true, Plain: true, InputFile: "-"},
		},
		{name: "buffer with dry run", args: []string{"-b", "-n"}, wantErr: true},
		{name: "unknown flag", args: []string{"--frobnicate"}, wantErr: true},
		{name: "positional argument", args: []string{"patch.txt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
