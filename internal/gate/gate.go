package gate

import (
	"strings"
	"sync"
	"time"
)

// ErrorClearDelay is how long the rejected state stays visible.
const ErrorClearDelay = 1000 * time.Millisecond

// Check reports whether candidate matches expected under Unicode simple case
// folding. Whitespace is significant.
func Check(candidate, expected string) bool {
	return strings.EqualFold(candidate, expected)
}

type Outcome int

const (
	// Rejected means the candidate did not match and the error flag is now set.
	Rejected Outcome = iota
	// Unlocked is returned once, for the first matching submit.
	Unlocked
	// Ignored is returned for any submit after the gate has opened.
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Unlocked:
		return "unlocked"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Gate holds the secret plus the transient error flag shown after a miss.
type Gate struct {
	mu       sync.Mutex
	secret   string
	attempts int
	showErr  bool
	unlocked bool
}

func New(secret string) *Gate {
	return &Gate{secret: secret}
}

// Submit checks candidate. A miss sets the error flag; callers clear it after
// ErrorClearDelay with ClearError, whatever happens in between.
func (g *Gate) Submit(candidate string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unlocked {
		return Ignored
	}
	g.attempts++
	if !Check(candidate, g.secret) {
		g.showErr = true
		return Rejected
	}
	g.unlocked = true
	g.showErr = false
	return Unlocked
}

func (g *Gate) ClearError() {
	g.mu.Lock()
	g.showErr = false
	g.mu.Unlock()
}

func (g *Gate) ShowError() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.showErr
}

func (g *Gate) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts
}

func (g *Gate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}
