package overlay

import (
	"log"
	"sync"
	"time"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/navigation"
)

// Navigator is the part of the navigation machine the overlay reads.
type Navigator interface {
	Active() content.Section
	Subscribe(fn navigation.Listener) (unsubscribe func())
}

type NavItem struct {
	Section content.Section `json:"section"`
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Color   string          `json:"color"`
	Active  bool            `json:"active"`
}

// Panel is the mounted content panel and the data it shows. Only the field
// matching Section is populated.
type Panel struct {
	Section    content.Section `json:"section"`
	Slug       string          `json:"slug"`
	Title      string          `json:"title"`
	Color      string          `json:"color"`
	Phase      Phase           `json:"phase"`
	Appearance Appearance      `json:"appearance"`

	Home           *HomePanel               `json:"home,omitempty"`
	Profile        *content.Profile         `json:"profile,omitempty"`
	Projects       []content.Project        `json:"projects,omitempty"`
	SkillGroups    []content.SkillGroup     `json:"skill_groups,omitempty"`
	Volunteering   []content.VolunteerEntry `json:"volunteering,omitempty"`
	Certifications []content.Certification  `json:"certifications,omitempty"`
	Contact        *ContactPanel            `json:"contact,omitempty"`
}

type HomePanel struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	TypedText string `json:"typed_text"`
	Typed     bool   `json:"typed"`
}

type ContactPanel struct {
	Email  string `json:"email"`
	Mailto string `json:"mailto"`
}

// View is everything the overlay draws at one instant.
type View struct {
	Active    content.Section `json:"active"`
	Nav       []NavItem       `json:"nav"`
	ShowClose bool            `json:"show_close"`
	Panel     Panel           `json:"panel"`
}

type Config struct {
	Now   func() time.Time // nil uses time.Now
	Debug bool
}

// Presenter derives the overlay from the navigation state. Its own state is
// limited to the panel transition and the typewriter on the home panel.
type Presenter struct {
	mu         sync.Mutex
	reg        *content.Registry
	now        func() time.Time
	debug      bool
	active     content.Section
	transition *Transition
	typewriter *Typewriter

	unsubscribe func()
}

func NewPresenter(nav Navigator, reg *content.Registry, cfg Config) *Presenter {
	clock := cfg.Now
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	p := &Presenter{
		reg:        reg,
		now:        clock,
		debug:      cfg.Debug,
		active:     nav.Active(),
		typewriter: NewTypewriter(reg.Profile.Title, now),
	}
	p.transition = NewTransition(p.active, now, p.onMount)

	p.unsubscribe = nav.Subscribe(func(c navigation.Change) {
		p.retarget(c.To, p.now())
	})
	return p
}

// Close detaches the presenter from the navigation machine.
func (p *Presenter) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *Presenter) retarget(section content.Section, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = section
	p.transition.Retarget(section, now)
}

// onMount runs with p.mu held whenever a panel is mounted.
func (p *Presenter) onMount(s content.Section, at time.Time) {
	if s == content.Home {
		p.typewriter.Restart(at)
	}
	if p.debug {
		log.Printf("Overlay mounted panel %s", s)
	}
}

// Current returns the overlay as it looks on the presenter's clock.
func (p *Presenter) Current() View {
	return p.View(p.now())
}

// View returns the overlay as it looks at now.
func (p *Presenter) View(now time.Time) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transition.Advance(now)

	nav := make([]NavItem, 0, len(content.AllSections()))
	for _, s := range content.AllSections() {
		meta := p.reg.Metadata(s)
		nav = append(nav, NavItem{
			Section: s,
			Slug:    s.Slug(),
			Title:   meta.Title,
			Color:   meta.Color,
			Active:  s == p.active,
		})
	}

	return View{
		Active:    p.active,
		Nav:       nav,
		ShowClose: p.active != content.Home,
		Panel:     p.panelLocked(now),
	}
}

func (p *Presenter) panelLocked(now time.Time) Panel {
	s := p.transition.Mounted()
	meta := p.reg.Metadata(s)
	panel := Panel{
		Section:    s,
		Slug:       s.Slug(),
		Title:      meta.Title,
		Color:      meta.Color,
		Phase:      p.transition.Phase(),
		Appearance: p.transition.Appearance(now),
	}

	switch s {
	case content.Home:
		panel.Home = &HomePanel{
			Name:      p.reg.Profile.Name,
			Title:     p.reg.Profile.Title,
			TypedText: p.typewriter.Visible(now),
			Typed:     p.typewriter.Done(now),
		}
	case content.About:
		profile := p.reg.Profile
		panel.Profile = &profile
	case content.Projects:
		panel.Projects = p.reg.Projects
	case content.Skills:
		panel.SkillGroups = p.reg.SkillGroups()
	case content.Volunteering:
		panel.Volunteering = p.reg.Volunteering
	case content.Certificates:
		panel.Certifications = p.reg.Certifications
	case content.Contact:
		panel.Contact = &ContactPanel{
			Email:  p.reg.Profile.Email,
			Mailto: "mailto:" + p.reg.Profile.Email,
		}
	}
	return panel
}
