package format

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bearsamplr/bearsamplr"
	"github.com/hajimehoshi/go-mp3"
)

type mp3Decoder struct{}

func (mp3Decoder) Decode(r io.ReadSeeker) (bearsamplr.AudioBuffer, int, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: mp3: %v", ErrInvalidFile, err)
	}
	// go-mp3 always outputs 16-bit little-endian stereo
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("reading mp3 data: %w", err)
	}
	frames := make(bearsamplr.AudioBuffer, len(raw)/4)
	for i := range frames {
		l := int16(binary.LittleEndian.Uint16(raw[i*4:]))
		r := int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
		frames[i] = [2]float32{float32(l) / 32768, float32(r) / 32768}
	}
	return frames, d.SampleRate(), nil
}
