package format

import (
	"github.com/bearsamplr/bearsamplr"
)

// Resample converts stereo frames from one sample rate to another with the
// same Catmull-Rom interpolation the engine uses for pitch shifting. If the
// rates match, the input is returned as-is.
func Resample(frames bearsamplr.AudioBuffer, from, to int) bearsamplr.AudioBuffer {
	if from == to || from <= 0 || to <= 0 || len(frames) == 0 {
		return frames
	}
	ratio := float64(from) / float64(to)
	outLen := int(float64(len(frames)) / ratio)
	if outLen < 1 {
		outLen = 1
	}
	out := make(bearsamplr.AudioBuffer, outLen)
	last := len(frames) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))
		i0, i2, i3 := idx-1, idx+1, idx+2
		if i0 < 0 {
			i0 = 0
		}
		if idx > last {
			idx = last
		}
		if i2 > last {
			i2 = last
		}
		if i3 > last {
			i3 = last
		}
		out[i] = [2]float32{
			bearsamplr.CubicInterpolate(frames[i0][0], frames[idx][0], frames[i2][0], frames[i3][0], frac),
			bearsamplr.CubicInterpolate(frames[i0][1], frames[idx][1], frames[i2][1], frames[i3][1], frac),
		}
	}
	return out
}
