package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"YES with spaces", "  YES  \n", true},
		{"no", "no\n", false},
		{"n", "n\n", false},
		{"empty answer defaults to no", "\n", false},
		{"garbage", "sure\n", false},
		{"eof counts as no", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(&out, strings.NewReader(tc.input), "Proceed?")
			if got != tc.want {
				t.Errorf("Confirm(%q) = %t, want %t", tc.input, got, tc.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Error("prompt should show the y/N hint")
			}
		})
	}
}
