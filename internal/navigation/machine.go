package navigation

import (
	"sync"

	"github.com/nethmitharushika56/portfolio/internal/content"
)

// Change describes a transition of the active section.
type Change struct {
	From content.Section `json:"from"`
	To   content.Section `json:"to"`
}

type Listener func(Change)

// Machine holds the single active section shared by the scene and the
// overlay. Every section is reachable from every other one; the only
// implicit transition is PointerMissed, which returns to Home.
type Machine struct {
	mu        sync.Mutex
	active    content.Section
	listeners map[int]Listener
	nextID    int
}

func NewMachine() *Machine {
	return &Machine{
		active:    content.Home,
		listeners: make(map[int]Listener),
	}
}

func (m *Machine) Active() content.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Navigate makes target the active section. Navigating to the section that
// is already active changes nothing and notifies no one. Listeners run after
// the lock is released so they may read or navigate the machine themselves.
func (m *Machine) Navigate(target content.Section) error {
	if !target.Valid() {
		return content.ErrUnknownSection
	}

	m.mu.Lock()
	if m.active == target {
		m.mu.Unlock()
		return nil
	}
	change := Change{From: m.active, To: target}
	m.active = target
	listeners := m.snapshotLocked()
	m.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
	return nil
}

// PointerMissed handles a click on empty space in the scene.
func (m *Machine) PointerMissed() {
	// Home is always valid.
	_ = m.Navigate(content.Home)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (m *Machine) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// snapshotLocked returns listeners in subscription order.
func (m *Machine) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if l, ok := m.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}
