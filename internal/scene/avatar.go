package scene

import (
	"math"

	"github.com/nethmitharushika56/portfolio/internal/utils"
)

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

const (
	FirstBlinkAt   = 2.0  // seconds after start
	BlinkDuration  = 0.15 // seconds the eyes stay closed
	BlinkMinGap    = 2.0  // seconds between blink starts, lower bound
	BlinkGapSpread = 4.0  // width of the uniform window above BlinkMinGap

	restBodyY  = -2.6
	restBrowY  = 0.14
	closedEyeY = 0.1
	headLambda = 4
	bodyLambda = 8
	eyeLambda  = 30
	gazeLambda = 6
	faceLambda = 5
)

// Pose is everything the avatar renderer needs for one frame.
type Pose struct {
	HeadRotX    float64 `json:"head_rot_x"`
	HeadRotY    float64 `json:"head_rot_y"`
	BodyPosY    float64 `json:"body_pos_y"`
	BodyRotZ    float64 `json:"body_rot_z"`
	BodyRotY    float64 `json:"body_rot_y"`
	EyeScaleY   float64 `json:"eye_scale_y"`
	GazeX       float64 `json:"gaze_x"`
	GazeY       float64 `json:"gaze_y"`
	BrowY       float64 `json:"brow_y"`
	MouthScaleX float64 `json:"mouth_scale_x"`
}

// Blink is the open/closed eye cycle. StartedAt and NextAt are scheduled
// times, not the frame times at which they were observed.
type Blink struct {
	Closed    bool    `json:"closed"`
	StartedAt float64 `json:"started_at"`
	NextAt    float64 `json:"next_at"`
}

type AvatarState struct {
	Elapsed float64 `json:"elapsed"`
	Pose    Pose    `json:"pose"`
	Blink   Blink   `json:"blink"`
}

func NewAvatarState() AvatarState {
	return AvatarState{
		Pose: Pose{
			BodyPosY:    restBodyY,
			EyeScaleY:   1,
			BrowY:       restBrowY,
			MouthScaleX: 1,
		},
		Blink: Blink{NextAt: FirstBlinkAt},
	}
}

// UpdateAvatar advances the avatar by dt seconds. It is a pure function of
// its inputs: rng is only drawn from when a blink ends.
func UpdateAvatar(s AvatarState, dt float64, ptr Pointer, rng RandomSource) AvatarState {
	if dt < 0 {
		dt = 0
	}
	ptr = ptr.Clamped()
	t := s.Elapsed + dt
	s.Elapsed = t
	s.Blink = stepBlink(s.Blink, t, rng)

	p := s.Pose

	// Head follows the pointer with a slow idle weave.
	targetRotX := -ptr.Y*0.25 + math.Sin(t*1.5)*0.05
	targetRotY := ptr.X*0.4 + math.Cos(t)*0.05
	p.HeadRotX = utils.Damp(p.HeadRotX, targetRotX, headLambda, dt)
	p.HeadRotY = utils.Damp(p.HeadRotY, targetRotY, headLambda, dt)

	// Breathing, weight shift and a slight lean toward the pointer.
	p.BodyPosY = utils.Damp(p.BodyPosY, restBodyY+math.Sin(t*2)*0.04, bodyLambda, dt)
	p.BodyRotZ = utils.Damp(p.BodyRotZ, math.Sin(t*0.8)*0.03-ptr.X*0.02, bodyLambda, dt)
	p.BodyRotY = utils.Damp(p.BodyRotY, math.Sin(t*0.5)*0.02, bodyLambda, dt)

	eyeTarget := 1.0
	if s.Blink.Closed {
		eyeTarget = closedEyeY
	}
	p.EyeScaleY = utils.Damp(p.EyeScaleY, eyeTarget, eyeLambda, dt)
	p.GazeX = utils.Damp(p.GazeX, ptr.X*0.015, gazeLambda, dt)
	p.GazeY = utils.Damp(p.GazeY, ptr.Y*0.01, gazeLambda, dt)

	// Brows lift when the pointer is high; the smile widens off-center.
	p.BrowY = utils.Damp(p.BrowY, restBrowY+math.Max(0, ptr.Y*0.03), faceLambda, dt)
	p.MouthScaleX = utils.Damp(p.MouthScaleX, 1+math.Abs(ptr.X)*0.1+math.Sin(t*2)*0.05, faceLambda, dt)

	s.Pose = p
	return s
}

// stepBlink advances the blink cycle to t. A blink that starts in this
// step stays closed for at least the frame, however long dt was.
func stepBlink(b Blink, t float64, rng RandomSource) Blink {
	if !b.Closed && t >= b.NextAt {
		b.Closed = true
		b.StartedAt = b.NextAt
		return b
	}
	if b.Closed && t >= b.StartedAt+BlinkDuration {
		b.Closed = false
		b.NextAt = b.StartedAt + BlinkMinGap + rng.Float64()*BlinkGapSpread
	}
	return b
}
