package overlay

import (
	"math"
	"time"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/utils"
)

type Phase string

const (
	PhaseEnter   Phase = "enter"
	PhaseVisible Phase = "visible"
	PhaseExit    Phase = "exit"
)

const (
	PhaseDuration = 500 * time.Millisecond

	enterOffsetY = 50.0  // px below rest while hidden
	exitOffsetY  = -50.0 // px above rest once gone
	hiddenBlur   = 10.0  // px
)

// Appearance is how the mounted panel is drawn at one instant.
type Appearance struct {
	Opacity float64 `json:"opacity"`
	OffsetY float64 `json:"offset_y"`
	Blur    float64 `json:"blur"`
}

// Transition swaps panels one at a time: the mounted panel finishes its exit
// before the next one is mounted and enters.
type Transition struct {
	mounted    content.Section
	target     content.Section
	phase      Phase
	phaseStart time.Time
	onMount    func(s content.Section, at time.Time)
}

// NewTransition mounts initial and starts its enter phase at now.
func NewTransition(initial content.Section, now time.Time, onMount func(content.Section, time.Time)) *Transition {
	t := &Transition{
		mounted:    initial,
		target:     initial,
		phase:      PhaseEnter,
		phaseStart: now,
		onMount:    onMount,
	}
	if onMount != nil {
		onMount(initial, now)
	}
	return t
}

// Retarget requests that target become the mounted panel. Interrupting a
// phase turns it around from the current opacity instead of restarting it.
func (t *Transition) Retarget(target content.Section, now time.Time) {
	t.Advance(now)
	t.target = target

	switch t.phase {
	case PhaseExit:
		// Coming back to the panel that is leaving.
		if target == t.mounted {
			t.reverse(PhaseEnter, now)
		}
	case PhaseEnter:
		if target != t.mounted {
			t.reverse(PhaseExit, now)
		}
	default:
		if target != t.mounted {
			t.phase = PhaseExit
			t.phaseStart = now
		}
	}
}

// reverse switches between enter and exit so the eased progress of the new
// phase is the complement of the old one.
func (t *Transition) reverse(next Phase, now time.Time) {
	progress := utils.Clamp(float64(now.Sub(t.phaseStart))/float64(PhaseDuration), 0, 1)
	raw := easeOutInverse(1 - easeOut(progress))
	t.phase = next
	t.phaseStart = now.Add(-time.Duration(raw * float64(PhaseDuration)))
}

// Advance moves the phases forward to now. It may mount the target.
func (t *Transition) Advance(now time.Time) {
	for {
		elapsed := now.Sub(t.phaseStart)
		switch t.phase {
		case PhaseEnter:
			if elapsed < PhaseDuration {
				return
			}
			t.phase = PhaseVisible
			t.phaseStart = t.phaseStart.Add(PhaseDuration)
		case PhaseExit:
			if elapsed < PhaseDuration {
				return
			}
			at := t.phaseStart.Add(PhaseDuration)
			t.mounted = t.target
			t.phase = PhaseEnter
			t.phaseStart = at
			if t.onMount != nil {
				t.onMount(t.mounted, at)
			}
		default:
			return
		}
	}
}

func (t *Transition) Mounted() content.Section { return t.mounted }

func (t *Transition) Phase() Phase { return t.phase }

// Appearance reports the mounted panel's look at now. Advance must have
// been called for now.
func (t *Transition) Appearance(now time.Time) Appearance {
	progress := utils.Clamp(float64(now.Sub(t.phaseStart))/float64(PhaseDuration), 0, 1)
	switch t.phase {
	case PhaseEnter:
		p := easeOut(progress)
		return Appearance{
			Opacity: p,
			OffsetY: utils.Lerp(enterOffsetY, 0, p),
			Blur:    utils.Lerp(hiddenBlur, 0, p),
		}
	case PhaseExit:
		p := easeOut(progress)
		return Appearance{
			Opacity: 1 - p,
			OffsetY: utils.Lerp(0, exitOffsetY, p),
			Blur:    utils.Lerp(0, hiddenBlur, p),
		}
	default:
		return Appearance{Opacity: 1}
	}
}

func easeOut(t float64) float64 {
	inv := 1 - t
	return 1 - inv*inv*inv
}

func easeOutInverse(v float64) float64 {
	return 1 - math.Cbrt(1-v)
}
