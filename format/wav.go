package format

import (
	"fmt"
	"io"

	"github.com/bearsamplr/bearsamplr"
	"github.com/go-audio/wav"
)

type wavDecoder struct{}

func (wavDecoder) Decode(r io.ReadSeeker) (bearsamplr.AudioBuffer, int, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: wav", ErrInvalidFile)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading wav data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, ErrNoAudioData
	}
	bitDepth := int(d.BitDepth)
	if buf.SourceBitDepth != 0 {
		bitDepth = buf.SourceBitDepth
	}
	scale := float32(int64(1) << (bitDepth - 1))
	interleaved := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		interleaved[i] = float32(v) / scale
	}
	return stereoize(interleaved, buf.Format.NumChannels), buf.Format.SampleRate, nil
}
