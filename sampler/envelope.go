package sampler

import (
	"github.com/bearsamplr/bearsamplr"
)

type envState int

const (
	envStateAttack envState = iota
	envStateDecay
	envStateSustain
	envStateRelease
	envStateOff
)

// envelope is the per-voice ADSR state machine. Rates are per-frame level
// increments, precomputed at trigger time so that next() stays cheap inside
// the render loop.
type envelope struct {
	state                              envState
	level                              float32
	attackRate, decayRate, releaseRate float32
	sustain                            float32
}

func makeEnvelope(e bearsamplr.Envelope, sampleRate int) envelope {
	env := envelope{
		state:       envStateAttack,
		attackRate:  rate(e.Attack, sampleRate),
		decayRate:   rate(e.Decay, sampleRate),
		releaseRate: rate(e.ReleaseTime(), sampleRate),
		sustain:     float32(e.SustainLevel()),
	}
	if e.Attack == 0 {
		env.level = 1
		env.state = envStateDecay
	}
	return env
}

// rate converts a time in seconds to a per-frame level increment. A zero time
// means an instant transition.
func rate(seconds float64, sampleRate int) float32 {
	if seconds <= 0 {
		return 1
	}
	return float32(1 / (seconds * float64(sampleRate)))
}

// next advances the envelope by one frame and returns the level to apply.
func (e *envelope) next() float32 {
	switch e.state {
	case envStateAttack:
		e.level += e.attackRate
		if e.level >= 1 {
			e.level = 1
			e.state = envStateDecay
		}
	case envStateDecay:
		e.level -= e.decayRate
		if e.level <= e.sustain {
			e.level = e.sustain
			e.state = envStateSustain
		}
	case envStateSustain:
		// hold until release
	case envStateRelease:
		e.level -= e.releaseRate
		if e.level <= 0 {
			e.level = 0
			e.state = envStateOff
		}
	}
	return e.level
}

// release moves the envelope to the release phase, from whatever level it is
// currently at.
func (e *envelope) release() {
	if e.state != envStateOff {
		e.state = envStateRelease
	}
}

// active returns true while the envelope still produces sound.
func (e *envelope) active() bool {
	return e.state != envStateOff
}

// sustaining returns true before the release phase has started.
func (e *envelope) sustaining() bool {
	return e.state < envStateRelease
}
