package capture

import "time"

// Frame rates used by the capture loop.
const (
	// IdleFPS is the frame rate while nothing moves in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the user is drawing.
	ActiveFPS = 30
	// IdleTimeout is how long the scene must stay still before dropping back
	// to IdleFPS.
	IdleTimeout = 2 * time.Second
)

// Pacer decides the capture frame rate from motion results. It is not safe
// for concurrent use; the capture loop owns it.
type Pacer struct {
	active     bool
	lastMotion time.Time
}

// NewPacer returns a pacer in idle mode.
func NewPacer() *Pacer {
	return &Pacer{}
}

// Observe records one motion result taken at now. It returns the frame rate
// to use and whether that rate changed with this observation.
func (p *Pacer) Observe(m Motion, now time.Time) (fps int, changed bool) {
	if m.Detected {
		p.lastMotion = now
		if !p.active {
			p.active = true
			return ActiveFPS, true
		}
		return ActiveFPS, false
	}

	if p.active && now.Sub(p.lastMotion) > IdleTimeout {
		p.active = false
		return IdleFPS, true
	}
	return p.FPS(), false
}

// Active reports whether the pacer is in active mode.
func (p *Pacer) Active() bool {
	return p.active
}

// FPS returns the frame rate for the current mode.
func (p *Pacer) FPS() int {
	if p.active {
		return ActiveFPS
	}
	return IdleFPS
}

// Interval returns the time between frames for the current mode.
func (p *Pacer) Interval() time.Duration {
	return time.Second / time.Duration(p.FPS())
}
