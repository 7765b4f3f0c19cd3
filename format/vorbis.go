package format

import (
	"fmt"
	"io"

	"github.com/bearsamplr/bearsamplr"
	"github.com/jfreymuth/oggvorbis"
)

type vorbisDecoder struct{}

func (vorbisDecoder) Decode(r io.ReadSeeker) (bearsamplr.AudioBuffer, int, error) {
	interleaved, fmtInfo, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ogg vorbis: %v", ErrInvalidFile, err)
	}
	return stereoize(interleaved, fmtInfo.Channels), fmtInfo.SampleRate, nil
}
