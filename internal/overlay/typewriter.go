package overlay

import "time"

const (
	TypewriterDelay    = 500 * time.Millisecond
	TypewriterInterval = 50 * time.Millisecond
)

// Typewriter reveals a string one rune per interval after an initial delay.
type Typewriter struct {
	text    []rune
	started time.Time
}

func NewTypewriter(text string, now time.Time) *Typewriter {
	return &Typewriter{text: []rune(text), started: now}
}

// Restart begins the reveal again from empty.
func (tw *Typewriter) Restart(now time.Time) {
	tw.started = now
}

// Visible returns the revealed prefix at now.
func (tw *Typewriter) Visible(now time.Time) string {
	return string(tw.text[:tw.count(now)])
}

// Done reports whether the whole text is revealed at now.
func (tw *Typewriter) Done(now time.Time) bool {
	return tw.count(now) == len(tw.text)
}

func (tw *Typewriter) count(now time.Time) int {
	elapsed := now.Sub(tw.started) - TypewriterDelay
	if elapsed < 0 {
		return 0
	}
	n := int(elapsed / TypewriterInterval)
	if n > len(tw.text) {
		n = len(tw.text)
	}
	return n
}
