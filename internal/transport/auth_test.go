package transport

import (
	"reflect"
	"testing"
)

func TestAuthArgs(t *testing.T) {
	tests := []struct {
		name   string
		client string
		token  string
		want   []string
	}{
		{"curl with token", KindCurl, "t0k", []string{"-H", "Authorization: Bearer t0k"}},
		{"wget with token", KindWget, "t0k", []string{"--header=Authorization: Bearer t0k"}},
		{"curl without token", KindCurl, "", nil},
		{"wget without token", KindWget, "", nil},
		{"native takes no args", KindNative, "t0k", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthArgs(tt.client, tt.token); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AuthArgs(%q, %q) = %q, want %q", tt.client, tt.token, got, tt.want)
			}
		})
	}
}

func TestAuthHeader(t *testing.T) {
	if got := AuthHeader(""); got != "" {
		t.Errorf("AuthHeader(\"\") = %q, want empty", got)
	}
	if got := AuthHeader("abc"); got != "Bearer abc" {
		t.Errorf("AuthHeader(abc) = %q", got)
	}
}
