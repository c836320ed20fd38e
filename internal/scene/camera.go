package scene

import "math"

// Pointer is a pointer position in normalized device coordinates,
// x and y in [-1, 1] with +y up.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pointer) Clamped() Pointer {
	return Pointer{X: math.Max(-1, math.Min(1, p.X)), Y: math.Max(-1, math.Min(1, p.Y))}
}

// Camera is a perspective camera on the +z axis looking at the origin.
type Camera struct {
	Distance float64 // camera z
	FovY     float64 // vertical field of view, degrees
	Aspect   float64 // width / height
}

func DefaultCamera(aspect float64) Camera {
	if aspect <= 0 {
		aspect = 16.0 / 9
	}
	return Camera{Distance: 8, FovY: 45, Aspect: aspect}
}

func (c Camera) halfHeight(depth float64) float64 {
	return depth * math.Tan(c.FovY*math.Pi/360)
}

// project returns the screen position of p and the screen-space size of one
// world unit at that depth (in y-normalized units). ok is false behind the
// camera.
func (c Camera) project(p Vec3) (x, y, unit float64, ok bool) {
	depth := c.Distance - p[2]
	if depth <= 0 {
		return 0, 0, 0, false
	}
	h := c.halfHeight(depth)
	return p[0] / (h * c.Aspect), p[1] / h, 1 / h, true
}

// hitTest returns the nearest affordance whose projected bounding circle
// contains the pointer, or nil.
func hitTest(c Camera, states []*affordanceState, elapsed float64, ptr Pointer) *affordanceState {
	var best *affordanceState
	bestDepth := math.Inf(1)
	for _, s := range states {
		pos := s.worldPosition(elapsed)
		x, y, unit, ok := c.project(pos)
		if !ok {
			continue
		}
		// Compare in y-normalized space so the circle stays round.
		dx := (ptr.X - x) * c.Aspect
		dy := ptr.Y - y
		r := s.radius() * unit
		if dx*dx+dy*dy > r*r {
			continue
		}
		depth := c.Distance - pos[2]
		if depth < bestDepth {
			best, bestDepth = s, depth
		}
	}
	return best
}
