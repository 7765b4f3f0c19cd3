package device

import (
	"github.com/bearsamplr/bearsamplr"
	"github.com/viterin/vek/vek32"
)

// peakDetector measures the per-channel peak level of an audio block. The
// scratch slice is reused between blocks to avoid allocations in the audio
// goroutine.
type peakDetector struct {
	scratch []float32
}

func (d *peakDetector) peaks(buf bearsamplr.AudioBuffer) (ret [2]float32) {
	if len(buf) == 0 {
		return
	}
	if cap(d.scratch) < len(buf) {
		d.scratch = make([]float32, len(buf))
	}
	d.scratch = d.scratch[:len(buf)]
	for chn := 0; chn < 2; chn++ {
		for i, frame := range buf {
			d.scratch[i] = frame[chn]
		}
		vek32.Abs_Inplace(d.scratch)
		ret[chn] = vek32.Max(d.scratch)
	}
	return
}
