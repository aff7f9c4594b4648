package cli

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Nightly Report", 20, "Nightly Report"},
		{"exact", "backup", 6, "backup"},
		{"cut", "Nightly Report", 8, "Nightly…"},
		{"cut at rune boundary", "répertoire sync", 3, "ré…"},
		{"width one", "backup", 1, "…"},
		{"zero width", "backup", 0, ""},
		{"negative width", "backup", -1, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.width); got != tc.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
		})
	}
}
