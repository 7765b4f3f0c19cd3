// Package format decodes sample files into the engine's stereo float frames.
// WAV, MP3 and Ogg Vorbis are supported; mono sources are duplicated to both
// channels and everything is resampled to the engine sample rate at load
// time, so the engine never has to care about source formats.
package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bearsamplr/bearsamplr"
)

// Decoder decodes one audio format into interleaved stereo frames at the
// source sample rate.
type Decoder interface {
	Decode(r io.ReadSeeker) (frames bearsamplr.AudioBuffer, sampleRate int, err error)
}

var decoders = map[string]Decoder{
	".wav": wavDecoder{},
	".mp3": mp3Decoder{},
	".ogg": vorbisDecoder{},
	".oga": vorbisDecoder{},
}

// Supported returns true if files with the given extension can be decoded.
func Supported(ext string) bool {
	_, ok := decoders[strings.ToLower(ext)]
	return ok
}

// Decode decodes the reader using the decoder for the given file extension.
func Decode(ext string, r io.ReadSeeker) (bearsamplr.AudioBuffer, int, error) {
	d, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnknownFormat, ext)
	}
	return d.Decode(r)
}

// Load decodes the file at path and resamples it to targetRate.
func Load(path string, targetRate int) (bearsamplr.AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open sample %v: %w", path, err)
	}
	defer f.Close()
	frames, rate, err := Decode(filepath.Ext(path), f)
	if err != nil {
		return nil, fmt.Errorf("could not decode sample %v: %w", path, err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("sample %v: %w", path, ErrNoAudioData)
	}
	return Resample(frames, rate, targetRate), nil
}

// stereoize converts interleaved samples with the given channel count into
// stereo frames. Mono is duplicated to both channels; for more than two
// channels the extra channels are dropped.
func stereoize(interleaved []float32, channels int) bearsamplr.AudioBuffer {
	if channels < 1 {
		return nil
	}
	frames := make(bearsamplr.AudioBuffer, len(interleaved)/channels)
	for i := range frames {
		l := interleaved[i*channels]
		r := l
		if channels > 1 {
			r = interleaved[i*channels+1]
		}
		frames[i] = [2]float32{l, r}
	}
	return frames
}
