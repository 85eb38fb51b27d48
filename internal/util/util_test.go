package util

import "testing"

func TestMaskCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ABCD1234", "AB...34"},
		{"ABC123", "A...3"},
		{"AB", "AB"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskCode(tc.in); got != tc.want {
			t.Fatalf("MaskCode(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}
