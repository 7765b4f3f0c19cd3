package oto

import (
	"math"

	"github.com/bearsamplr/bearsamplr"
)

// AudioBufferTo16BitLE appends the buffer to dst as interleaved 16-bit
// little-endian samples, clamping the nominal [-1, 1] range.
func AudioBufferTo16BitLE(buffer bearsamplr.AudioBuffer, dst []byte) []byte {
	for _, frame := range buffer {
		for chn := 0; chn < 2; chn++ {
			v := frame[chn]
			var s int16
			if v < -1.0 {
				s = -math.MaxInt16
			} else if v > 1.0 {
				s = math.MaxInt16
			} else {
				s = int16(v * math.MaxInt16)
			}
			dst = append(dst, byte(s), byte(s>>8))
		}
	}
	return dst
}
