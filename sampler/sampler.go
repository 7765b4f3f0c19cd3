// Package sampler implements the real-time sample playback engine: a fixed
// pool of voices mixed down to a stereo buffer, with ADSR envelopes, cubic
// interpolation for pitch shifting and oldest-voice stealing when the
// polyphony limit is exceeded.
//
// The engine is not safe for concurrent use: Trigger, Release, Render and the
// setters must all be called from the audio goroutine. Everything else in the
// program talks to the audio goroutine through the device broker.
package sampler

import (
	"math"

	"github.com/bearsamplr/bearsamplr"
)

// MaxVoices is the hard limit of simultaneous voices; presets can lower it
// with their Polyphony setting but never raise it.
const MaxVoices = 64

var _ bearsamplr.Voicer = (*Sampler)(nil)

type (
	Sampler struct {
		preset *bearsamplr.Preset

		sampleRate int
		// maxPolyphony is the device-wide voice cap; polyphony is the
		// effective limit after the preset's own Polyphony is applied.
		maxPolyphony int
		polyphony    int
		volume       float32
		pedal        bool
		voices       [MaxVoices]voice
	}

	voice struct {
		sample *bearsamplr.Sample
		noteID int
		note   byte
		pos    float64
		step   float64
		gain   float32
		env    envelope
		// sustained marks a voice whose release was deferred by the sustain
		// pedal.
		sustained         bool
		samplesSinceEvent int
	}
)

func New(sampleRate int) *Sampler {
	return &Sampler{
		sampleRate:   sampleRate,
		maxPolyphony: MaxVoices,
		polyphony:    MaxVoices,
		volume:       0.8,
	}
}

// SetPreset swaps the active preset. All playing voices are put into release
// so the swap does not click; their sample data stays alive until the
// envelopes finish.
func (s *Sampler) SetPreset(preset *bearsamplr.Preset) {
	s.preset = preset
	s.applyPolyphony()
	for i := range s.voices {
		s.voices[i].release()
	}
}

// SetMaxPolyphony caps the number of simultaneous voices, clamped to
// [1, MaxVoices]. Presets can lower the cap further, never raise it.
func (s *Sampler) SetMaxPolyphony(limit int) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxVoices {
		limit = MaxVoices
	}
	s.maxPolyphony = limit
	s.applyPolyphony()
}

func (s *Sampler) applyPolyphony() {
	s.polyphony = s.maxPolyphony
	if s.preset != nil && s.preset.Polyphony > 0 && s.preset.Polyphony < s.polyphony {
		s.polyphony = s.preset.Polyphony
	}
}

func (s *Sampler) Preset() *bearsamplr.Preset { return s.preset }

// SetVolume sets the master volume, clamped to [0, 1].
func (s *Sampler) SetVolume(volume float32) {
	s.volume = float32(math.Max(0, math.Min(1, float64(volume))))
}

func (s *Sampler) Volume() float32 { return s.volume }

// SetSustain sets the sustain pedal state. Releasing the pedal releases every
// voice whose note-off arrived while the pedal was down.
func (s *Sampler) SetSustain(down bool) {
	s.pedal = down
	if down {
		return
	}
	for i := range s.voices {
		if s.voices[i].sustained {
			s.voices[i].release()
		}
	}
}

// ActiveVoices returns the number of voices currently producing sound.
func (s *Sampler) ActiveVoices() int {
	n := 0
	for i := range s.voices {
		if s.voices[i].env.active() && s.voices[i].sample != nil {
			n++
		}
	}
	return n
}

// Trigger starts a new voice for the note. id identifies who triggered the
// voice, so that a matching Release finds it; triggering the same id again
// first releases the old voice, like the original hardware retriggering a
// held key. If every voice of the preset's polyphony is busy, the oldest one
// is stolen, preferring voices that are already released.
func (s *Sampler) Trigger(id int, note, velocity byte) {
	s.Release(id)
	if s.preset == nil {
		return
	}
	sample := s.preset.SampleFor(note, velocity)
	if sample == nil {
		return
	}
	var age int
	oldestReleased := false
	oldest := 0
	for i := 0; i < s.polyphony; i++ {
		// find a suitable voice to trigger. a voice that has been released is
		// preferred over one that is still playing; among equals, the older
		// one wins
		released := !s.voices[i].env.sustaining() || s.voices[i].sample == nil
		if (released && !oldestReleased) ||
			(released == oldestReleased && s.voices[i].samplesSinceEvent >= age) {
			oldest = i
			oldestReleased = released
			age = s.voices[i].samplesSinceEvent
		}
	}
	gain := float32(velocity) / 127 * s.preset.MasterGain()
	if sample.Gain != 0 {
		gain *= sample.Gain
	}
	s.voices[oldest] = voice{
		sample: sample,
		noteID: id,
		note:   note,
		step:   math.Exp2(float64(int(note)-int(sample.RootNote)) / 12),
		gain:   gain,
		env:    makeEnvelope(s.preset.Envelope, s.sampleRate),
	}
}

// Release releases the voice holding the given note id, if any. With the
// sustain pedal down the release is deferred until the pedal is lifted.
func (s *Sampler) Release(id int) {
	for i := range s.voices {
		if s.voices[i].noteID == id && s.voices[i].env.sustaining() && s.voices[i].sample != nil {
			if s.pedal {
				s.voices[i].sustained = true
				return
			}
			s.voices[i].release()
			return
		}
	}
}

// ReleaseAll releases every playing voice, pedal or not.
func (s *Sampler) ReleaseAll() {
	s.pedal = false
	for i := range s.voices {
		s.voices[i].release()
	}
}

// Render mixes all active voices into the buffer, adding to whatever is
// already there, and clamps the result to [-1, 1]. It never allocates.
func (s *Sampler) Render(buffer bearsamplr.AudioBuffer) {
	for i := range s.voices {
		s.voices[i].mix(buffer, s.volume)
		s.voices[i].samplesSinceEvent += len(buffer)
	}
	for i := range buffer {
		buffer[i][0] = clamp1(buffer[i][0])
		buffer[i][1] = clamp1(buffer[i][1])
	}
}

func (v *voice) release() {
	v.sustained = false
	if v.env.sustaining() {
		v.samplesSinceEvent = 0
	}
	v.env.release()
}

func (v *voice) mix(buffer bearsamplr.AudioBuffer, volume float32) {
	if v.sample == nil || !v.env.active() {
		return
	}
	data := v.sample.Data
	loop := v.sample.Loop
	gain := v.gain * volume
	for i := range buffer {
		level := v.env.next()
		if !v.env.active() {
			v.sample = nil
			return
		}
		g := gain * level
		pos := int(v.pos)
		frac := float32(v.pos - float64(pos))
		buffer[i][0] += interp(data, pos, frac, 0) * g
		buffer[i][1] += interp(data, pos, frac, 1) * g
		v.pos += v.step
		if loop.Enabled() && v.env.sustaining() {
			for v.pos >= float64(loop.End) {
				v.pos -= float64(loop.End - loop.Start)
			}
		} else if v.pos >= float64(len(data)-1) {
			v.sample = nil
			v.env.state = envStateOff
			return
		}
	}
}

// interp reads channel ch at fractional position pos+frac with cubic
// interpolation, clamping the neighbor indices at the data boundaries.
func interp(data bearsamplr.AudioBuffer, pos int, frac float32, ch int) float32 {
	last := len(data) - 1
	i0, i2, i3 := pos-1, pos+1, pos+2
	if i0 < 0 {
		i0 = 0
	}
	if i2 > last {
		i2 = last
	}
	if i3 > last {
		i3 = last
	}
	return bearsamplr.CubicInterpolate(data[i0][ch], data[pos][ch], data[i2][ch], data[i3][ch], frac)
}

func clamp1(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
