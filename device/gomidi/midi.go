// Package gomidi is the rtmidi implementation of device.MIDIContext.
package gomidi

import (
	"fmt"
	"strings"
	"time"

	"github.com/bearsamplr/bearsamplr/device"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// RTMIDIContext converts timestamped MIDI messages from rtmidi into
	// frame-accurate events for the player. Messages arrive on a driver
	// goroutine and are queued on a buffered channel; NextEvent drains the
	// channel in the audio goroutine and maps arrival times to frame
	// offsets within the current audio block.
	RTMIDIContext struct {
		driver     *rtmididrv.Driver
		in         drivers.In
		stop       func()
		events     chan timestampedMsg
		sampleRate int
		blockStart time.Time
	}

	timestampedMsg struct {
		recv time.Time
		msg  midi.Message
	}
)

func NewContext(sampleRate int) (*RTMIDIContext, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("opening rtmidi driver: %w", err)
	}
	return &RTMIDIContext{
		driver:     driver,
		events:     make(chan timestampedMsg, 1024),
		sampleRate: sampleRate,
		blockStart: time.Now(),
	}, nil
}

// InputDevices lists the names of the available MIDI inputs.
func (c *RTMIDIContext) InputDevices() []string {
	ins, err := c.driver.Ins()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// TryToOpenBy opens the first input whose name contains the given string, or
// just the first input when takeFirst is set. Returns the name of the opened
// device, or false when nothing matched.
func (c *RTMIDIContext) TryToOpenBy(name string, takeFirst bool) (string, bool) {
	ins, err := c.driver.Ins()
	if err != nil {
		return "", false
	}
	for _, in := range ins {
		if takeFirst || (name != "" && strings.Contains(in.String(), name)) {
			if c.open(in) == nil {
				return in.String(), true
			}
		}
	}
	return "", false
}

func (c *RTMIDIContext) open(in drivers.In) error {
	if err := in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input %v: %w", in, err)
	}
	stop, err := midi.ListenTo(in, c.handleMessage)
	if err != nil {
		in.Close()
		return fmt.Errorf("listening to MIDI input %v: %w", in, err)
	}
	c.in = in
	c.stop = stop
	return nil
}

// handleMessage runs on the rtmidi goroutine; it only stamps the message and
// queues it, dropping it when the queue is full.
func (c *RTMIDIContext) handleMessage(msg midi.Message, timestampms int32) {
	device.TrySend(c.events, timestampedMsg{recv: time.Now(), msg: msg})
}

func (c *RTMIDIContext) NextEvent(frame int) (device.MIDIEvent, bool) {
	for {
		select {
		case m := <-c.events:
			event, ok := c.convert(m)
			if !ok {
				continue
			}
			if event.Frame < frame {
				event.Frame = frame
			}
			return event, true
		default:
			return device.MIDIEvent{}, false
		}
	}
}

func (c *RTMIDIContext) convert(m timestampedMsg) (device.MIDIEvent, bool) {
	frame := int(m.recv.Sub(c.blockStart).Seconds() * float64(c.sampleRate))
	if frame < 0 {
		frame = 0
	}
	var channel, a, b uint8
	switch {
	case m.msg.GetNoteOn(&channel, &a, &b):
		return device.MIDIEvent{Frame: frame, Kind: device.NoteEvent, Channel: int(channel), Note: a, Velocity: b, On: b > 0}, true
	case m.msg.GetNoteOff(&channel, &a, &b):
		return device.MIDIEvent{Frame: frame, Kind: device.NoteEvent, Channel: int(channel), Note: a}, true
	case m.msg.GetControlChange(&channel, &a, &b):
		return device.MIDIEvent{Frame: frame, Kind: device.ControllerEvent, Channel: int(channel), Controller: a, Value: b}, true
	}
	return device.MIDIEvent{}, false
}

// FinishBlock resets the frame clock to the start of the next audio block.
func (c *RTMIDIContext) FinishBlock(frame int) {
	c.blockStart = time.Now()
}

func (c *RTMIDIContext) HasDeviceOpen() bool { return c.in != nil }

func (c *RTMIDIContext) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.in != nil {
		c.in.Close()
		c.in = nil
	}
	c.driver.Close()
}
