package bearsamplr

import (
	"errors"
	"fmt"
)

type (
	// Sample is one sample of a preset: the decoded audio data plus the
	// mapping telling which notes and velocities it responds to. The audio
	// data is always stereo and already resampled to the engine sample rate,
	// so the only pitch adjustment left to the engine is the distance between
	// the played note and RootNote.
	Sample struct {
		Name string `yaml:"name"`

		// RootNote is the MIDI note at which the sample plays back at its
		// original pitch.
		RootNote byte `yaml:"rootnote"`

		// LoKey and HiKey define the key range (inclusive) this sample
		// responds to.
		LoKey byte `yaml:"lokey"`
		HiKey byte `yaml:"hikey"`

		// LoVel and HiVel define the velocity range (inclusive) this sample
		// responds to, for velocity layered presets.
		LoVel byte `yaml:"lovel,omitempty"`
		HiVel byte `yaml:"hivel,omitempty"`

		// Gain is a per-sample linear gain; 0 is treated as 1.
		Gain float32 `yaml:"gain,omitempty"`

		// Loop defines an optional sustain loop, in frames.
		Loop Loop `yaml:"loop,omitempty"`

		Data AudioBuffer `yaml:"-"`
	}

	// Loop is a sustain loop within the sample data. A Loop with End <= Start
	// means no looping: the voice just plays to the end of the data.
	Loop struct {
		Start int `yaml:"start"`
		End   int `yaml:"end"`
	}
)

// Enabled returns true if the loop actually loops.
func (l Loop) Enabled() bool {
	return l.End > l.Start
}

// Contains returns true if the sample responds to the note and velocity.
func (s *Sample) Contains(note, velocity byte) bool {
	if note < s.LoKey || note > s.HiKey {
		return false
	}
	hiVel := s.HiVel
	if hiVel == 0 {
		hiVel = 127
	}
	return velocity >= s.LoVel && velocity <= hiVel
}

func (s *Sample) Validate() error {
	if len(s.Data) == 0 {
		return fmt.Errorf("sample %v has no data", s.Name)
	}
	if s.LoKey > s.HiKey {
		return fmt.Errorf("sample %v: lokey %d > hikey %d", s.Name, s.LoKey, s.HiKey)
	}
	if s.RootNote > 127 {
		return fmt.Errorf("sample %v: root note %d out of range", s.Name, s.RootNote)
	}
	if s.Loop.Enabled() && s.Loop.End > len(s.Data) {
		return errors.New("sample loop extends past the end of the data")
	}
	return nil
}

// Copy makes a copy of the Sample metadata. The audio data is shared, as it
// is immutable after loading.
func (s *Sample) Copy() Sample {
	return *s
}
