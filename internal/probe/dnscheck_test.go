package probe

import (
	"context"
	"testing"
)

func TestHostOf(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://api.github.com/zen", "api.github.com"},
		{"http://127.0.0.1:8080/x", "127.0.0.1"},
		{" example.com ", "example.com"},
	}
	for _, c := range cases {
		if got := hostOf(c.in); got != c.want {
			t.Fatalf("hostOf(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestDiagnose_NoLookupNeeded(t *testing.T) {
	if s := Diagnose(context.Background(), ""); s.Class != "INVALID_NAME" {
		t.Fatalf("empty host: got %q", s.Class)
	}
	if s := Diagnose(context.Background(), "http://127.0.0.1:9/"); s.Class != "RESOLVES" || !s.HasAOrAAAA {
		t.Fatalf("ip literal: got %+v", s)
	}
}
