package release

import (
	"testing"

	"github.com/terminal-use/sb0-install/internal/fault"
)

func TestParseExplicit(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1.2.3", "v1.2.3", false},
		{"v1.2.3", "v1.2.3", false},
		{"2.0.0", "v2.0.0", false},
		{"v10.20.30", "v10.20.30", false},
		{"1.0.0-rc.1", "v1.0.0-rc.1", false},
		{"v1.0.0-beta_2", "v1.0.0-beta_2", false},
		{"v1.0.0.post1", "v1.0.0.post1", false},
		{"1.2", "", true},
		{"1.2.3.", "", true},
		{"latest", "", true},
		{"v1.2.x", "", true},
		{"vv1.2.3", "", true},
		{"1.2.3+build", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseExplicit(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExplicit(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !fault.Is(err, fault.KindVersion) {
					t.Errorf("error kind = %v, want version", fault.KindOf(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseExplicit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, v := range []string{"1.2.3", "v1.2.3", "0.0.1-alpha"} {
		once := Normalize(v)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", v, twice, once)
		}
	}
}

func TestPlain(t *testing.T) {
	if got := Plain("v2.0.0"); got != "2.0.0" {
		t.Errorf("Plain(v2.0.0) = %q", got)
	}
	if got := Plain("2.0.0"); got != "2.0.0" {
		t.Errorf("Plain(2.0.0) = %q", got)
	}
}
