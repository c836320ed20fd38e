package scene

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/navigation"
)

type Cursor string

const (
	CursorAuto    Cursor = "auto"
	CursorPointer Cursor = "pointer"
)

// Navigator is the part of the navigation machine the scene drives.
type Navigator interface {
	Active() content.Section
	Navigate(target content.Section) error
	PointerMissed()
	Subscribe(fn navigation.Listener) (unsubscribe func())
}

// PointerEvent is a click delivered to the scene. Handlers on an affordance
// run before the canvas handler and may stop propagation.
type PointerEvent struct {
	Pointer Pointer
	Target  *content.Section
	stopped bool
}

func (e *PointerEvent) StopPropagation() { e.stopped = true }

func (e *PointerEvent) Stopped() bool { return e.stopped }

type AffordanceView struct {
	Section  content.Section `json:"section"`
	Shape    Shape           `json:"shape"`
	Color    string          `json:"color"`
	Position Vec3            `json:"position"`
	Rotation Vec3            `json:"rotation"`
	Scale    float64         `json:"scale"`
	Distort  float64         `json:"distort"`
	Tier     string          `json:"tier"`
	Hovered  bool            `json:"hovered"`

	// Screen is the projected center in normalized device coordinates and
	// ScreenRadius the pickable radius as a fraction of half the viewport
	// height. Both are zero when the affordance is behind the camera.
	Screen       Pointer `json:"screen"`
	ScreenRadius float64 `json:"screen_radius"`
}

// Frame is a snapshot of the scene after one tick.
type Frame struct {
	Seq         uint64           `json:"seq"`
	Elapsed     float64          `json:"elapsed"`
	Active      content.Section  `json:"active"`
	Cursor      Cursor           `json:"cursor"`
	Affordances []AffordanceView `json:"affordances"`
	Avatar      AvatarState      `json:"avatar"`
}

type Config struct {
	Aspect float64
	Rand   RandomSource // nil uses an unseeded generator
	Debug  bool
}

// Presenter owns the per-frame scene state: affordance emphasis, hover,
// cursor and the avatar. It reads the active section from the navigation
// machine and only writes to it on clicks.
type Presenter struct {
	mu          sync.Mutex
	nav         Navigator
	camera      Camera
	rng         RandomSource
	debug       bool
	affordances []*affordanceState
	avatar      AvatarState
	active      content.Section
	pointer     Pointer
	hovered     *affordanceState
	seq         uint64
	last        Frame

	listenersMu sync.Mutex
	listeners   map[int]func(Frame)
	nextID      int

	unsubscribe func()
}

func NewPresenter(nav Navigator, reg *content.Registry, cfg Config) *Presenter {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}

	p := &Presenter{
		nav:       nav,
		camera:    DefaultCamera(cfg.Aspect),
		rng:       rng,
		debug:     cfg.Debug,
		avatar:    NewAvatarState(),
		active:    nav.Active(),
		listeners: make(map[int]func(Frame)),
	}
	for _, a := range DefaultAffordances(reg) {
		p.affordances = append(p.affordances, newAffordanceState(a, a.Section == p.active))
	}
	p.last = p.snapshotLocked()

	p.unsubscribe = nav.Subscribe(func(c navigation.Change) {
		p.mu.Lock()
		p.active = c.To
		p.mu.Unlock()
	})
	return p
}

// Close detaches the presenter from the navigation machine.
func (p *Presenter) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

// Tick advances the scene by dt seconds and publishes the resulting frame.
func (p *Presenter) Tick(dt time.Duration) Frame {
	seconds := dt.Seconds()

	p.mu.Lock()
	for _, s := range p.affordances {
		s.step(p.active, seconds)
	}
	p.avatar = UpdateAvatar(p.avatar, seconds, p.pointer, p.rng)
	// Affordances bob, so hover can change without the pointer moving.
	p.updateHoverLocked()
	p.seq++
	frame := p.snapshotLocked()
	p.last = frame
	p.mu.Unlock()

	p.publish(frame)
	return frame
}

// PointerMove records the pointer for head tracking and hover detection.
// Moving the pointer never changes the active section.
func (p *Presenter) PointerMove(ptr Pointer) Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pointer = ptr.Clamped()
	return p.updateHoverLocked()
}

// Click dispatches a click at ptr. A hit affordance navigates to its section
// and stops propagation; otherwise the canvas treats it as a missed pointer.
func (p *Presenter) Click(ptr Pointer) content.Section {
	ev := &PointerEvent{Pointer: ptr.Clamped()}

	p.mu.Lock()
	p.pointer = ev.Pointer
	if hit := hitTest(p.camera, p.affordances, p.avatar.Elapsed, ev.Pointer); hit != nil {
		section := hit.Section
		ev.Target = &section
	}
	p.updateHoverLocked()
	p.mu.Unlock()

	// Navigation listeners lock the presenter, so dispatch unlocked.
	p.dispatch(ev)
	return p.nav.Active()
}

func (p *Presenter) dispatch(ev *PointerEvent) {
	if ev.Target != nil {
		p.onAffordanceClick(ev)
	}
	p.onCanvasClick(ev)
}

func (p *Presenter) onAffordanceClick(ev *PointerEvent) {
	ev.StopPropagation()
	if err := p.nav.Navigate(*ev.Target); err != nil {
		log.Printf("scene: navigate to %s: %v", *ev.Target, err)
	}
}

func (p *Presenter) onCanvasClick(ev *PointerEvent) {
	if ev.Stopped() || ev.Target != nil {
		return
	}
	p.nav.PointerMissed()
}

func (p *Presenter) updateHoverLocked() Cursor {
	hit := hitTest(p.camera, p.affordances, p.avatar.Elapsed, p.pointer)
	if hit != p.hovered {
		if p.hovered != nil {
			p.hovered.hovered = false
			if p.debug {
				log.Printf("scene: pointer left %s", p.hovered.Section)
			}
		}
		if hit != nil {
			hit.hovered = true
			if p.debug {
				log.Printf("scene: pointer entered %s", hit.Section)
			}
		}
		p.hovered = hit
	}
	return p.cursorLocked()
}

func (p *Presenter) cursorLocked() Cursor {
	if p.hovered != nil {
		return CursorPointer
	}
	return CursorAuto
}

// Frame returns the most recent snapshot.
func (p *Presenter) Frame() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Presenter) snapshotLocked() Frame {
	views := make([]AffordanceView, 0, len(p.affordances))
	for _, s := range p.affordances {
		pos := s.worldPosition(p.avatar.Elapsed)
		view := AffordanceView{
			Section:  s.Section,
			Shape:    s.Shape,
			Color:    s.Color,
			Position: pos,
			Rotation: s.rotation,
			Scale:    s.scale.Value,
			Distort:  s.distort.Value,
			Tier:     s.tier(p.active).String(),
			Hovered:  s.hovered,
		}
		if x, y, unit, ok := p.camera.project(pos); ok {
			view.Screen = Pointer{X: x, Y: y}
			view.ScreenRadius = s.radius() * unit
		}
		views = append(views, view)
	}
	return Frame{
		Seq:         p.seq,
		Elapsed:     p.avatar.Elapsed,
		Active:      p.active,
		Cursor:      p.cursorLocked(),
		Affordances: views,
		Avatar:      p.avatar,
	}
}

// Subscribe registers fn to receive every frame produced by Tick.
func (p *Presenter) Subscribe(fn func(Frame)) (unsubscribe func()) {
	p.listenersMu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.listenersMu.Unlock()

	return func() {
		p.listenersMu.Lock()
		delete(p.listeners, id)
		p.listenersMu.Unlock()
	}
}

func (p *Presenter) publish(f Frame) {
	p.listenersMu.Lock()
	fns := make([]func(Frame), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.listenersMu.Unlock()

	for _, fn := range fns {
		fn(f)
	}
}

// Run drives Tick from a wall-clock ticker until ctx is cancelled.
func (p *Presenter) Run(ctx context.Context, frameRate int) {
	if frameRate <= 0 {
		frameRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.Tick(now.Sub(last))
			last = now
		}
	}
}
