package device

import (
	"testing"
	"time"
)

func TestShortPress(t *testing.T) {
	d := NewPressDetector(500 * time.Millisecond)
	start := time.Now()
	if p := d.Feed(ButtonEvent{Button: ButtonA, Pressed: true, When: start}); len(p) != 0 {
		t.Fatalf("press down should not emit, got %v", p)
	}
	p := d.Feed(ButtonEvent{Button: ButtonA, Pressed: false, When: start.Add(100 * time.Millisecond)})
	if len(p) != 1 || p[0] != (Press{Button: ButtonA, Kind: ShortPress}) {
		t.Fatalf("expected short press, got %v", p)
	}
}

func TestLongPressRepeats(t *testing.T) {
	d := NewPressDetector(500 * time.Millisecond)
	start := time.Now()
	d.Feed(ButtonEvent{Button: ButtonY, Pressed: true, When: start})
	if p := d.Tick(start.Add(400 * time.Millisecond)); len(p) != 0 {
		t.Fatalf("long press fired too early: %v", p)
	}
	p := d.Tick(start.Add(600 * time.Millisecond))
	if len(p) != 1 || p[0] != (Press{Button: ButtonY, Kind: LongPress}) {
		t.Fatalf("expected long press, got %v", p)
	}
	// holding past another threshold repeats the long press
	p = d.Tick(start.Add(1200 * time.Millisecond))
	if len(p) != 1 || p[0].Kind != LongPress {
		t.Fatalf("expected repeated long press, got %v", p)
	}
	// releasing after a long press is not a short press
	if p := d.Feed(ButtonEvent{Button: ButtonY, Pressed: false, When: start.Add(1300 * time.Millisecond)}); len(p) != 0 {
		t.Fatalf("release after long press should not emit, got %v", p)
	}
}

func TestReleaseSoonAfterLongPress(t *testing.T) {
	d := NewPressDetector(500 * time.Millisecond)
	start := time.Now()
	d.Feed(ButtonEvent{Button: ButtonB, Pressed: true, When: start})
	if p := d.Tick(start.Add(600 * time.Millisecond)); len(p) != 1 || p[0].Kind != LongPress {
		t.Fatalf("expected long press, got %v", p)
	}
	// releasing within the threshold of the last fire is still not a tap
	if p := d.Feed(ButtonEvent{Button: ButtonB, Pressed: false, When: start.Add(700 * time.Millisecond)}); len(p) != 0 {
		t.Fatalf("release after long press should not emit, got %v", p)
	}
	// a fresh press afterwards taps normally
	d.Feed(ButtonEvent{Button: ButtonB, Pressed: true, When: start.Add(800 * time.Millisecond)})
	p := d.Feed(ButtonEvent{Button: ButtonB, Pressed: false, When: start.Add(900 * time.Millisecond)})
	if len(p) != 1 || p[0].Kind != ShortPress {
		t.Fatalf("expected short press on the next tap, got %v", p)
	}
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	d := NewPressDetector(0)
	if p := d.Feed(ButtonEvent{Button: ButtonB, Pressed: false, When: time.Now()}); len(p) != 0 {
		t.Fatalf("stray release should not emit, got %v", p)
	}
}

func TestIndependentButtons(t *testing.T) {
	d := NewPressDetector(500 * time.Millisecond)
	start := time.Now()
	d.Feed(ButtonEvent{Button: ButtonA, Pressed: true, When: start})
	d.Feed(ButtonEvent{Button: ButtonX, Pressed: true, When: start})
	p := d.Feed(ButtonEvent{Button: ButtonA, Pressed: false, When: start.Add(50 * time.Millisecond)})
	if len(p) != 1 || p[0].Button != ButtonA {
		t.Fatalf("expected short press of A, got %v", p)
	}
	p = d.Tick(start.Add(700 * time.Millisecond))
	if len(p) != 1 || p[0] != (Press{Button: ButtonX, Kind: LongPress}) {
		t.Fatalf("expected long press of X, got %v", p)
	}
}
