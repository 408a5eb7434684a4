package config

import (
	"strings"
	"testing"
)

func TestDetectSensitiveData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "clean config",
			content: "sb0 = {\n  repo = \"terminal-use/sb0-cli\",\n}\n",
		},
		{
			name:    "token assignment",
			content: "sb0 = {\n  token = \"abcdefghijklmnopqrstuvwxyz\",\n}\n",
			want:    []string{"Token"},
		},
		{
			name:    "classic github token",
			content: "-- ghp_" + strings.Repeat("a", 36) + "\n",
			want:    []string{"GitHub Token"},
		},
		{
			name:    "fine-grained github token",
			content: "x = 1\n-- github_pat_" + strings.Repeat("B", 30) + "\n",
			want:    []string{"GitHub Fine-grained Token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := DetectSensitiveData(tt.content)
			if len(findings) != len(tt.want) {
				t.Fatalf("got %d findings %+v, want %v", len(findings), findings, tt.want)
			}
			for i, f := range findings {
				if f.PatternName != tt.want[i] {
					t.Errorf("finding %d = %q, want %q", i, f.PatternName, tt.want[i])
				}
				if strings.Contains(f.Preview, "abcdefghijklmnop") {
					t.Errorf("preview leaks value: %q", f.Preview)
				}
			}
		})
	}
}

func TestRedactSensitiveValue(t *testing.T) {
	if got := redactSensitiveValue(`  token = "secret"`); got != "token = [REDACTED]" {
		t.Errorf("redactSensitiveValue() = %q", got)
	}
	if got := redactSensitiveValue("short"); got != "short [REDACTED]" {
		t.Errorf("redactSensitiveValue() = %q", got)
	}
}
