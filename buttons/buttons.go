// Package buttons reads the four front buttons of the Pirate Audio HAT. The
// buttons short their GPIO line to ground, so the pins run with pull-ups and
// a pressed button reads low.
package buttons

import (
	"fmt"
	"time"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/device"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type Reader struct {
	pins   []gpio.PinIO
	events chan device.ButtonEvent
	done   chan struct{}
}

const debounce = 20 * time.Millisecond

func New(cfg bearsamplr.ButtonConfig) (*Reader, error) {
	mapping := []struct {
		button device.Button
		bcm    int
	}{
		{device.ButtonA, cfg.A},
		{device.ButtonB, cfg.B},
		{device.ButtonX, cfg.X},
		{device.ButtonY, cfg.Y},
	}
	r := &Reader{
		events: make(chan device.ButtonEvent, 64),
		done:   make(chan struct{}),
	}
	for _, m := range mapping {
		pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", m.bcm))
		if pin == nil {
			r.Close()
			return nil, fmt.Errorf("no GPIO%d for button %v", m.bcm, m.button)
		}
		if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
			r.Close()
			return nil, fmt.Errorf("configuring GPIO%d for button %v: %w", m.bcm, m.button, err)
		}
		r.pins = append(r.pins, pin)
		go r.watch(pin, m.button)
	}
	return r, nil
}

// Events returns the edge stream. Events are dropped rather than blocking
// when nobody is reading.
func (r *Reader) Events() <-chan device.ButtonEvent {
	return r.events
}

func (r *Reader) watch(pin gpio.PinIO, button device.Button) {
	last := pin.Read()
	for {
		select {
		case <-r.done:
			return
		default:
		}
		if !pin.WaitForEdge(time.Second) {
			continue
		}
		// settle before reading, mechanical buttons bounce
		time.Sleep(debounce)
		level := pin.Read()
		if level == last {
			continue
		}
		last = level
		device.TrySend(r.events, device.ButtonEvent{
			Button:  button,
			Pressed: level == gpio.Low,
			When:    time.Now(),
		})
	}
}

func (r *Reader) Close() error {
	select {
	case <-r.done:
		return nil
	default:
	}
	close(r.done)
	for _, pin := range r.pins {
		pin.Halt()
	}
	return nil
}
