package bearsamplr

import "io"

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length. Each
	// sample is represented as [2]float32, where the first element is the left
	// channel and the second the right, in the nominal range [-1, 1].
	AudioBuffer [][2]float32

	// AudioSource is something that can fill an AudioBuffer with audio; in
	// practice, the device Player, which renders the sampler voices. ReadAudio
	// returns the number of frames written. Returning io.EOF stops the
	// playback.
	AudioSource interface {
		ReadAudio(buffer AudioBuffer) (n int, err error)
	}

	// AudioSink is the destination for rendered audio. WriteAudio blocks until
	// the whole buffer has been accepted by the device, which is what paces
	// the audio goroutine.
	AudioSink interface {
		WriteAudio(buffer AudioBuffer) error
		Close() error
	}

	// AudioContext represents the connection to the audio device of the
	// machine.
	AudioContext interface {
		// Play starts playing the source, pulling audio from it as the device
		// needs it. The returned CloserWaiter can be used to stop the playback
		// or to wait until the source is exhausted.
		Play(source AudioSource) CloserWaiter

		// Output opens a sink for pushing audio to the device.
		Output() AudioSink

		Close() error
	}

	CloserWaiter interface {
		Close() error
		Wait()
	}
)

// Fill zeroes the buffer.
func (buffer AudioBuffer) Fill() {
	for i := range buffer {
		buffer[i] = [2]float32{}
	}
}

// Source returns an AudioSource that reads through the buffer once and then
// returns io.EOF.
func (buffer AudioBuffer) Source() AudioSource {
	return &bufferSource{buffer: buffer}
}

type bufferSource struct {
	buffer AudioBuffer
}

func (s *bufferSource) ReadAudio(dst AudioBuffer) (int, error) {
	n := copy(dst, s.buffer)
	s.buffer = s.buffer[n:]
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
