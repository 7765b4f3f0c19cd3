package device

import (
	"sync"
	"time"

	"github.com/bearsamplr/bearsamplr"
)

type (
	// Broker is the centralized message hub of the device. The Player runs in
	// the audio goroutine and the Model in the UI goroutine; they communicate
	// only through the broker channels, so the audio path never takes a lock.
	// The broker also has a sync.Pool of *bearsamplr.AudioBuffers, so the
	// player can pass rendered audio to the model for the visualizer without
	// allocating on every callback.
	Broker struct {
		ToPlayer chan any
		ToModel  chan MsgToModel

		bufferPool sync.Pool
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToPlayer:   make(chan any, 1024),
		ToModel:    make(chan MsgToModel, 1024),
		bufferPool: sync.Pool{New: func() any { return &bearsamplr.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the buffer pool. After
// use, return it with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *bearsamplr.AudioBuffer {
	return b.bufferPool.Get().(*bearsamplr.AudioBuffer)
}

// PutAudioBuffer returns an audio buffer to the buffer pool, resetting its
// length but keeping the capacity.
func (b *Broker) PutAudioBuffer(buf *bearsamplr.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend is a helper function to send a value to a channel if it is not
// full. It is guaranteed to be non-blocking, which is why every send from
// the audio goroutine goes through it. Returns true if the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received from the channel or the
// timeout expires; ok is false on timeout or when the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
