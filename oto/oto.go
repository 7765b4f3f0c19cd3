// Package oto implements the audio output of the device on top of
// ebitengine/oto, which talks to ALSA on the Pi.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/bearsamplr/bearsamplr"
	"github.com/ebitengine/oto/v3"
)

type (
	OtoContext struct {
		context    *oto.Context
		sampleRate int
		bufferSize int // frames pulled from the source per read
	}

	// OtoPlayer pulls audio from a bearsamplr.AudioSource. It implements
	// bearsamplr.CloserWaiter.
	OtoPlayer struct {
		player *oto.Player
		reader *sourceReader
	}

	OtoOutput struct {
		player    *oto.Player
		pipe      *io.PipeWriter
		tmpBuffer []byte
	}

	// sourceReader adapts an AudioSource into the io.Reader oto pulls from,
	// converting float32 frames to the 16-bit little-endian samples of the
	// device.
	sourceReader struct {
		source    bearsamplr.AudioSource
		buffer    bearsamplr.AudioBuffer
		tmpBuffer []byte
		err       error
	}
)

// NewContext opens the audio device. bufferSize is the number of frames
// rendered per callback; the device keeps two periods of that length
// buffered.
func NewContext(sampleRate, bufferSize int) (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   2 * time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, sampleRate: sampleRate, bufferSize: bufferSize}, nil
}

func (c *OtoContext) Play(source bearsamplr.AudioSource) bearsamplr.CloserWaiter {
	reader := &sourceReader{
		source: source,
		buffer: make(bearsamplr.AudioBuffer, c.bufferSize),
	}
	player := c.context.NewPlayer(reader)
	player.Play()
	return &OtoPlayer{player: player, reader: reader}
}

// Output returns a push-style sink for the device, used when the caller
// wants to pace the rendering itself. The sink blocks in WriteAudio until
// the device has consumed the buffer.
func (c *OtoContext) Output() bearsamplr.AudioSink {
	pr, pw := io.Pipe()
	player := c.context.NewPlayer(pr)
	player.Play()
	return &OtoOutput{player: player, pipe: pw}
}

// Close is a no-op; oto contexts cannot be closed, but Suspend stops the
// audio thread from running.
func (c *OtoContext) Close() error {
	return c.context.Suspend()
}

func (p *OtoPlayer) Close() error {
	return p.player.Close()
}

// Wait blocks until the source has returned an error (io.EOF when it is
// just done) and the device has played everything buffered.
func (p *OtoPlayer) Wait() {
	for p.reader.err == nil || p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

func (r *sourceReader) Read(p []byte) (int, error) {
	if len(r.tmpBuffer) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		n, err := r.source.ReadAudio(r.buffer)
		r.err = err
		if n == 0 && err != nil {
			return 0, err
		}
		r.tmpBuffer = AudioBufferTo16BitLE(r.buffer[:n], r.tmpBuffer[:0])
	}
	n := copy(p, r.tmpBuffer)
	r.tmpBuffer = r.tmpBuffer[n:]
	return n, nil
}

func (o *OtoOutput) WriteAudio(buffer bearsamplr.AudioBuffer) error {
	o.tmpBuffer = AudioBufferTo16BitLE(buffer, o.tmpBuffer[:0])
	if _, err := o.pipe.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to audio device: %w", err)
	}
	return nil
}

func (o *OtoOutput) Close() error {
	o.pipe.Close()
	return o.player.Close()
}
