package scene

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/navigation"
)

const frame = time.Second / 60

func newTestPresenter(t *testing.T) (*Presenter, *navigation.Machine) {
	t.Helper()
	reg, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	nav := navigation.NewMachine()
	p := NewPresenter(nav, reg, Config{Aspect: 16.0 / 9, Rand: fixedRand(0.5)})
	t.Cleanup(p.Close)
	return p, nav
}

// pointerOver returns the screen position of the affordance for section.
func pointerOver(t *testing.T, p *Presenter, section content.Section) Pointer {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.affordances {
		if s.Section == section {
			x, y, _, ok := p.camera.project(s.worldPosition(p.avatar.Elapsed))
			if !ok {
				t.Fatalf("affordance %s is behind the camera", section)
			}
			return Pointer{X: x, Y: y}
		}
	}
	t.Fatalf("no affordance for %s", section)
	return Pointer{}
}

func settle(p *Presenter) Frame {
	var f Frame
	for i := 0; i < 180; i++ {
		f = p.Tick(frame)
	}
	return f
}

func viewFor(f Frame, section content.Section) AffordanceView {
	for _, a := range f.Affordances {
		if a.Section == section {
			return a
		}
	}
	return AffordanceView{}
}

func TestOneAffordancePerNonHomeSection(t *testing.T) {
	p, _ := newTestPresenter(t)
	f := p.Frame()

	if len(f.Affordances) != len(content.AllSections())-1 {
		t.Fatalf("expected %d affordances, got %d", len(content.AllSections())-1, len(f.Affordances))
	}
	seen := make(map[content.Section]bool)
	shapes := make(map[Shape]bool)
	for _, a := range f.Affordances {
		if a.Section == content.Home {
			t.Error("Home must not have an affordance")
		}
		if seen[a.Section] {
			t.Errorf("duplicate affordance for %s", a.Section)
		}
		if shapes[a.Shape] {
			t.Errorf("shape %s used twice", a.Shape)
		}
		seen[a.Section] = true
		shapes[a.Shape] = true
		if a.Color == "" {
			t.Errorf("affordance %s has no color", a.Section)
		}
	}
}

func TestTierOrdering(t *testing.T) {
	active := TierFor(true, false).Emphasis()
	activeHovered := TierFor(true, true).Emphasis()
	hovered := TierFor(false, true).Emphasis()
	idle := TierFor(false, false).Emphasis()

	if activeHovered != active {
		t.Error("active must win over hovered")
	}
	if !(active.Scale > hovered.Scale && hovered.Scale > idle.Scale) {
		t.Errorf("expected strict scale ordering, got %v > %v > %v", active.Scale, hovered.Scale, idle.Scale)
	}
	if !(active.Distort > hovered.Distort && hovered.Distort >= idle.Distort) {
		t.Errorf("expected distortion ordering, got %v, %v, %v", active.Distort, hovered.Distort, idle.Distort)
	}
}

func TestEmphasisFollowsActiveSection(t *testing.T) {
	p, nav := newTestPresenter(t)

	nav.Navigate(content.Skills)
	first := p.Tick(frame)
	if v := viewFor(first, content.Skills); v.Tier != "active" {
		t.Errorf("expected active tier immediately, got %q", v.Tier)
	}
	if v := viewFor(first, content.Skills); v.Scale >= 1.5 {
		t.Errorf("expected a smoothed transition, scale jumped to %v", v.Scale)
	}

	f := settle(p)
	if v := viewFor(f, content.Skills); v.Scale != 1.5 || v.Distort != 0.6 {
		t.Errorf("expected active emphasis 1.5/0.6, got %v/%v", v.Scale, v.Distort)
	}
	if v := viewFor(f, content.About); v.Scale != 0.8 {
		t.Errorf("expected idle scale 0.8 on other affordances, got %v", v.Scale)
	}

	nav.Navigate(content.Home)
	f = settle(p)
	if v := viewFor(f, content.Skills); v.Scale != 0.8 || v.Distort != 0.2 || v.Tier != "idle" {
		t.Errorf("expected idle emphasis after leaving, got %v/%v (%s)", v.Scale, v.Distort, v.Tier)
	}
}

func TestHoverEmphasisAndCursor(t *testing.T) {
	p, _ := newTestPresenter(t)

	if cursor := p.PointerMove(pointerOver(t, p, content.Contact)); cursor != CursorPointer {
		t.Errorf("expected pointer cursor over an affordance, got %s", cursor)
	}
	f := settle(p)
	if v := viewFor(f, content.Contact); !v.Hovered || v.Scale != 1.1 {
		t.Errorf("expected hovered emphasis, got hovered=%v scale=%v", v.Hovered, v.Scale)
	}
	if f.Cursor != CursorPointer {
		t.Errorf("expected frame cursor pointer, got %s", f.Cursor)
	}

	if cursor := p.PointerMove(Pointer{}); cursor != CursorAuto {
		t.Errorf("expected auto cursor over empty space, got %s", cursor)
	}
	f = settle(p)
	if v := viewFor(f, content.Contact); v.Hovered || v.Scale != 0.8 {
		t.Errorf("expected idle after pointer leave, got hovered=%v scale=%v", v.Hovered, v.Scale)
	}
}

func TestClickAffordanceNavigatesWithoutMissFallback(t *testing.T) {
	for _, section := range []content.Section{content.About, content.Projects, content.Skills, content.Volunteering, content.Certificates, content.Contact} {
		p, nav := newTestPresenter(t)

		var changes []navigation.Change
		nav.Subscribe(func(c navigation.Change) { changes = append(changes, c) })

		got := p.Click(pointerOver(t, p, section))
		if got != section || nav.Active() != section {
			t.Errorf("click on %s: active is %s", section, nav.Active())
		}
		if len(changes) != 1 {
			t.Errorf("click on %s: expected exactly one transition, got %v", section, changes)
		}
	}
}

func TestClickEmptySpaceReturnsHome(t *testing.T) {
	p, nav := newTestPresenter(t)
	nav.Navigate(content.Volunteering)

	if got := p.Click(Pointer{X: 0, Y: 0}); got != content.Home {
		t.Errorf("expected HOME after clicking empty space, got %s", got)
	}

	// From Home the miss is a harmless no-op.
	if got := p.Click(Pointer{X: -0.9, Y: -0.9}); got != content.Home {
		t.Errorf("expected to stay on HOME, got %s", got)
	}
}

func TestActiveAffordanceClickKeepsSection(t *testing.T) {
	p, nav := newTestPresenter(t)
	nav.Navigate(content.Projects)
	settle(p)

	if got := p.Click(pointerOver(t, p, content.Projects)); got != content.Projects {
		t.Errorf("expected to stay on PROJECTS, got %s", got)
	}
}

func TestStopPropagation(t *testing.T) {
	ev := &PointerEvent{}
	if ev.Stopped() {
		t.Fatal("new events must propagate")
	}
	ev.StopPropagation()
	if !ev.Stopped() {
		t.Error("expected propagation to be stopped")
	}
}

func TestAffordancesRotateAtConstantRate(t *testing.T) {
	p, nav := newTestPresenter(t)
	before := viewFor(p.Frame(), content.About).Rotation

	nav.Navigate(content.About) // emphasis must not affect rotation
	after := viewFor(p.Tick(500*time.Millisecond), content.About).Rotation

	for axis := 0; axis < 2; axis++ {
		delta := after[axis] - before[axis]
		if delta < RotationRate*0.5-1e-9 || delta > RotationRate*0.5+1e-9 {
			t.Errorf("axis %d rotated by %v, want %v", axis, delta, RotationRate*0.5)
		}
	}
}

func TestPointerMoveDoesNotNavigate(t *testing.T) {
	p, nav := newTestPresenter(t)
	p.PointerMove(pointerOver(t, p, content.Skills))
	settle(p)
	if nav.Active() != content.Home {
		t.Errorf("pointer movement must not change the section, got %s", nav.Active())
	}
}

func TestRunPublishesFrames(t *testing.T) {
	p, _ := newTestPresenter(t)

	var count atomic.Int32
	unsubscribe := p.Subscribe(func(Frame) { count.Add(1) })
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	p.Run(ctx, 60)

	if count.Load() == 0 {
		t.Error("expected frames to be published while running")
	}
	if p.Frame().Seq == 0 {
		t.Error("expected the frame sequence to advance")
	}
}

func TestFrameCarriesScreenProjection(t *testing.T) {
	p, _ := newTestPresenter(t)
	f := p.Tick(frame)

	for _, v := range f.Affordances {
		if v.ScreenRadius <= 0 {
			t.Errorf("%s: expected a positive screen radius, got %v", v.Section, v.ScreenRadius)
			continue
		}
		// The drawn center must be the spot a click resolves to.
		if got := p.Click(v.Screen); got != v.Section {
			t.Errorf("click at the drawn center of %s landed on %s", v.Section, got)
		}
	}
}
