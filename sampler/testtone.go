package sampler

import (
	"math"

	"github.com/bearsamplr/bearsamplr"
)

// TestTonePreset builds a synthetic preset containing a single 440 Hz sine
// sample, used by the B button to verify the audio path without any sample
// library present. The sample loops, so the tone plays for as long as the
// note is held.
func TestTonePreset(sampleRate int) *bearsamplr.Preset {
	const freq = 440.0
	// one full period worth of frames, rounded down; close enough to 440 Hz
	// for a test tone and loops without a click
	frames := int(float64(sampleRate) / freq)
	data := make(bearsamplr.AudioBuffer, frames)
	for i := range data {
		v := float32(0.5 * math.Sin(2*math.Pi*float64(i)/float64(frames)))
		data[i] = [2]float32{v, v}
	}
	return &bearsamplr.Preset{
		Name: "test tone",
		Envelope: bearsamplr.Envelope{
			Attack:  0.005,
			Release: 0.05,
		},
		Samples: []bearsamplr.Sample{{
			Name:     "sine440",
			RootNote: 69, // A4
			LoKey:    0,
			HiKey:    127,
			Loop:     bearsamplr.Loop{Start: 0, End: frames},
			Data:     data,
		}},
	}
}
