package scene

import (
	"math"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/utils"
)

type Shape string

const (
	ShapeSphere       Shape = "sphere"
	ShapeBox          Shape = "box"
	ShapeTorusKnot    Shape = "torus"
	ShapeOctahedron   Shape = "octahedron"
	ShapeDodecahedron Shape = "dodecahedron"
	ShapeIcosahedron  Shape = "icosahedron"
	ShapeCone         Shape = "cone"
)

// boundingRadius is the unscaled radius used for hit testing.
var boundingRadius = map[Shape]float64{
	ShapeSphere:       0.7,
	ShapeBox:          0.75,
	ShapeTorusKnot:    0.8,
	ShapeOctahedron:   0.8,
	ShapeDodecahedron: 0.8,
	ShapeIcosahedron:  0.8,
	ShapeCone:         0.75,
}

type Vec3 [3]float64

// Affordance is a navigation shape placed in the scene for one section.
type Affordance struct {
	Section  content.Section
	Shape    Shape
	Position Vec3
	Color    string
}

// DefaultAffordances lays out one shape per section except Home.
func DefaultAffordances(reg *content.Registry) []Affordance {
	layout := []Affordance{
		{Section: content.About, Shape: ShapeSphere, Position: Vec3{-3.5, 0, -1}},
		{Section: content.Projects, Shape: ShapeBox, Position: Vec3{-2, 2.5, -2}},
		{Section: content.Certificates, Shape: ShapeCone, Position: Vec3{0, 3.8, -2}},
		{Section: content.Skills, Shape: ShapeTorusKnot, Position: Vec3{2, 2.5, -2}},
		{Section: content.Volunteering, Shape: ShapeIcosahedron, Position: Vec3{3, -2.5, -0.5}},
		{Section: content.Contact, Shape: ShapeOctahedron, Position: Vec3{3.5, 0, -1}},
	}
	for i := range layout {
		layout[i].Color = reg.Metadata(layout[i].Section).Color
	}
	return layout
}

// Tier is the discrete prominence of an affordance.
type Tier int

const (
	TierIdle Tier = iota
	TierHovered
	TierActive
)

func (t Tier) String() string {
	switch t {
	case TierActive:
		return "active"
	case TierHovered:
		return "hovered"
	default:
		return "idle"
	}
}

type Emphasis struct {
	Scale   float64 `json:"scale"`
	Distort float64 `json:"distort"`
}

var tierEmphasis = map[Tier]Emphasis{
	TierActive:  {Scale: 1.5, Distort: 0.6},
	TierHovered: {Scale: 1.1, Distort: 0.2},
	TierIdle:    {Scale: 0.8, Distort: 0.2},
}

// TierFor ranks active above hovered above neither.
func TierFor(active, hovered bool) Tier {
	switch {
	case active:
		return TierActive
	case hovered:
		return TierHovered
	default:
		return TierIdle
	}
}

func (t Tier) Emphasis() Emphasis {
	return tierEmphasis[t]
}

const (
	// RotationRate is the constant self-rotation about x and y, rad/s.
	RotationRate = 0.6
	floatSpeed   = 2.0
)

// affordanceState is the animated state of one affordance.
type affordanceState struct {
	Affordance
	hovered  bool
	scale    utils.Spring
	distort  utils.Spring
	rotation Vec3
}

func newAffordanceState(a Affordance, active bool) *affordanceState {
	e := TierFor(active, false).Emphasis()
	return &affordanceState{
		Affordance: a,
		scale:      utils.Spring{Value: e.Scale},
		distort:    utils.Spring{Value: e.Distort},
	}
}

func (s *affordanceState) tier(active content.Section) Tier {
	return TierFor(s.Section == active, s.hovered)
}

func (s *affordanceState) step(active content.Section, dt float64) {
	target := s.tier(active).Emphasis()
	s.scale = s.scale.Step(target.Scale, dt, utils.DefaultSpring)
	s.distort = s.distort.Step(target.Distort, dt, utils.DefaultSpring)

	s.rotation[0] = math.Mod(s.rotation[0]+RotationRate*dt, 2*math.Pi)
	s.rotation[1] = math.Mod(s.rotation[1]+RotationRate*dt, 2*math.Pi)
}

// floatOffset is the gentle vertical bob applied on top of the fixed position.
func floatOffset(elapsed float64) float64 {
	return math.Sin(elapsed/4*floatSpeed) / 10
}

func (s *affordanceState) worldPosition(elapsed float64) Vec3 {
	p := s.Position
	p[1] += floatOffset(elapsed)
	return p
}

func (s *affordanceState) radius() float64 {
	return boundingRadius[s.Shape] * s.scale.Value
}
