package powershell_test

import (
	"testing"
	"time"

	"wintask/internal/powershell"
)

func TestQuote(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", `"plain"`},
		{`C:\Scripts\job.py`, `"C:\Scripts\job.py"`},
		{`say "hi"`, `"say ""hi"""`},
		{"", `""`},
	}
	for _, tc := range cases {
		if got := powershell.Quote(tc.in); got != tc.want {
			t.Errorf("Quote(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestSingleQuote(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"a" "b"`, `'"a" "b"'`},
		{"it's", "'it''s'"},
		{"", "''"},
	}
	for _, tc := range cases {
		if got := powershell.SingleQuote(tc.in); got != tc.want {
			t.Errorf("SingleQuote(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNewCommandRunnerDefaults(t *testing.T) {
	r := powershell.NewCommandRunner("", 0)
	if r.Path != "powershell.exe" {
		t.Errorf("path = %q, want powershell.exe", r.Path)
	}
	if r.Timeout != powershell.DefaultTimeout {
		t.Errorf("timeout = %s, want %s", r.Timeout, powershell.DefaultTimeout)
	}

	r = powershell.NewCommandRunner("pwsh", 5*time.Second)
	if r.Path != "pwsh" || r.Timeout != 5*time.Second {
		t.Errorf("got %q/%s, want pwsh/5s", r.Path, r.Timeout)
	}
}
