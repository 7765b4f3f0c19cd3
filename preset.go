package bearsamplr

import (
	"errors"
	"fmt"
)

type (
	// Preset is a named collection of Samples plus the parameters telling the
	// engine how to play them. Presets are loaded from numbered directories
	// in the sample library; see the library package.
	Preset struct {
		Name string `yaml:"name"`

		// Envelope is the ADSR envelope applied to every voice of this
		// preset.
		Envelope Envelope `yaml:"envelope"`

		// Polyphony limits how many voices this preset may sustain at once;
		// 0 means the engine maximum. When exceeded, the engine steals the
		// oldest voice.
		Polyphony int `yaml:"polyphony,omitempty"`

		// Gain is the linear master gain of the preset; 0 is treated as 1.
		Gain float32 `yaml:"gain,omitempty"`

		Samples []Sample `yaml:"samples"`
	}

	// Envelope holds ADSR parameters: times in seconds, Sustain as a level in
	// [0, 1]. The zero value means: no attack or decay ramp, full sustain and
	// the 100 ms default release of the original hardware.
	Envelope struct {
		Attack  float64 `yaml:"attack"`
		Decay   float64 `yaml:"decay"`
		Sustain float64 `yaml:"sustain"`
		Release float64 `yaml:"release"`
	}
)

// DefaultRelease is the release time used when a preset does not define one.
const DefaultRelease = 0.1

// SampleFor returns the sample that should play for the given note and
// velocity, or nil if no sample of the preset responds to it. When several
// samples cover the note, the one whose root note is closest wins, so that
// sparse sample maps sound as natural as possible.
func (p *Preset) SampleFor(note, velocity byte) *Sample {
	var best *Sample
	bestDist := 256
	for i := range p.Samples {
		s := &p.Samples[i]
		if !s.Contains(note, velocity) {
			continue
		}
		dist := int(note) - int(s.RootNote)
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best = s
			bestDist = dist
		}
	}
	return best
}

func (p *Preset) Validate() error {
	if len(p.Samples) == 0 {
		return errors.New("preset contains no samples")
	}
	if p.Polyphony < 0 {
		return errors.New("preset polyphony cannot be negative")
	}
	if e := p.Envelope; e.Attack < 0 || e.Decay < 0 || e.Release < 0 || e.Sustain < 0 || e.Sustain > 1 {
		return errors.New("preset envelope parameters out of range")
	}
	for i := range p.Samples {
		if err := p.Samples[i].Validate(); err != nil {
			return fmt.Errorf("preset %v: %w", p.Name, err)
		}
	}
	return nil
}

// Copy makes a deep copy of the Preset metadata; the sample audio data is
// shared.
func (p *Preset) Copy() Preset {
	samples := make([]Sample, len(p.Samples))
	for i := range p.Samples {
		samples[i] = p.Samples[i].Copy()
	}
	return Preset{Name: p.Name, Envelope: p.Envelope, Polyphony: p.Polyphony, Gain: p.Gain, Samples: samples}
}

// MasterGain returns the preset gain, mapping the zero value to unity.
func (p *Preset) MasterGain() float32 {
	if p.Gain == 0 {
		return 1
	}
	return p.Gain
}

// ReleaseTime returns the envelope release time, mapping the zero value to
// the default release.
func (e Envelope) ReleaseTime() float64 {
	if e.Release == 0 {
		return DefaultRelease
	}
	return e.Release
}

// SustainLevel returns the sustain level. An envelope with no decay stage
// sustains at full level; otherwise the level is taken as given, so that a
// decaying envelope with sustain 0 behaves percussively.
func (e Envelope) SustainLevel() float64 {
	if e.Decay == 0 {
		return 1
	}
	return e.Sustain
}
