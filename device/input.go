package device

import "time"

type (
	Button int

	// ButtonEvent is the raw edge from the GPIO layer: a button went down or
	// up at the given time.
	ButtonEvent struct {
		Button  Button
		Pressed bool
		When    time.Time
	}

	PressKind int

	// Press is an interpreted button gesture.
	Press struct {
		Button Button
		Kind   PressKind
	}

	// PressDetector turns raw button edges into short and long presses. A
	// held button fires a long press every LongPressTime and a quick tap
	// fires a short press on release. Call Tick regularly so long presses
	// fire while the button is still down.
	PressDetector struct {
		longPress time.Duration
		held      [buttonCount]bool
		// fired marks buttons whose hold already produced a long press, so
		// the eventual release is not also reported as a short press.
		fired [buttonCount]bool
		since [buttonCount]time.Time
	}
)

const (
	ButtonA Button = iota // previous preset
	ButtonB               // test tone / restart audio
	ButtonX               // next preset
	ButtonY               // menu / sleep
	buttonCount
)

const (
	ShortPress PressKind = iota
	LongPress
)

const DefaultLongPressTime = 500 * time.Millisecond

func NewPressDetector(longPress time.Duration) *PressDetector {
	if longPress <= 0 {
		longPress = DefaultLongPressTime
	}
	return &PressDetector{longPress: longPress}
}

// Feed processes one raw edge and returns the presses it completes.
func (d *PressDetector) Feed(e ButtonEvent) []Press {
	if e.Button < 0 || e.Button >= buttonCount {
		return nil
	}
	if e.Pressed {
		if !d.held[e.Button] {
			d.held[e.Button] = true
			d.fired[e.Button] = false
			d.since[e.Button] = e.When
		}
		return nil
	}
	if !d.held[e.Button] {
		return nil
	}
	d.held[e.Button] = false
	if !d.fired[e.Button] && e.When.Sub(d.since[e.Button]) < d.longPress {
		return []Press{{Button: e.Button, Kind: ShortPress}}
	}
	return nil
}

// Tick fires long presses for buttons that have been held past the
// threshold. The hold timer restarts on each fire, so keeping a button down
// repeats the long press.
func (d *PressDetector) Tick(now time.Time) []Press {
	var presses []Press
	for b := Button(0); b < buttonCount; b++ {
		if d.held[b] && now.Sub(d.since[b]) >= d.longPress {
			d.since[b] = now
			d.fired[b] = true
			presses = append(presses, Press{Button: b, Kind: LongPress})
		}
	}
	return presses
}

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonX:
		return "X"
	case ButtonY:
		return "Y"
	}
	return "?"
}
