package gate

import "testing"

func TestCheck(t *testing.T) {
	tests := []struct {
		candidate string
		expected  string
		want      bool
	}{
		{"BlackPearl", "blackpearl", true},
		{"BLACKPEARL", "blackpearl", true},
		{"blackpear", "blackpearl", false},
		{" blackpearl", "blackpearl", false},
		{"", "blackpearl", false},
		{"ÉCLAIR", "éclair", true},
	}
	for _, tt := range tests {
		if got := Check(tt.candidate, tt.expected); got != tt.want {
			t.Fatalf("Check(%q, %q) = %v, want %v", tt.candidate, tt.expected, got, tt.want)
		}
	}
}

func TestSubmitRejectSetsErrorUntilCleared(t *testing.T) {
	g := New("blackpearl")
	if out := g.Submit("blackpear"); out != Rejected {
		t.Fatalf("expected rejected, got %s", out)
	}
	if !g.ShowError() {
		t.Fatalf("expected error flag after miss")
	}
	g.ClearError()
	if g.ShowError() {
		t.Fatalf("expected error flag cleared")
	}
	if g.Attempts() != 1 {
		t.Fatalf("expected 1 attempt, got %d", g.Attempts())
	}
}

func TestSubmitUnlocksOnce(t *testing.T) {
	g := New("blackpearl")
	_ = g.Submit("wrong")
	if out := g.Submit("BlackPearl"); out != Unlocked {
		t.Fatalf("expected unlocked, got %s", out)
	}
	if g.ShowError() {
		t.Fatalf("unlock should clear the error flag")
	}
	if out := g.Submit("blackpearl"); out != Ignored {
		t.Fatalf("expected later submits ignored, got %s", out)
	}
	if g.Attempts() != 2 {
		t.Fatalf("ignored submits must not count, got %d", g.Attempts())
	}
	if !g.Unlocked() {
		t.Fatalf("expected gate unlocked")
	}
}

func TestEmptySecretOnlyMatchesEmpty(t *testing.T) {
	g := New("")
	if out := g.Submit("x"); out != Rejected {
		t.Fatalf("expected rejected, got %s", out)
	}
	if out := g.Submit(""); out != Unlocked {
		t.Fatalf("expected unlocked, got %s", out)
	}
}
