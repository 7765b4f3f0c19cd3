package oto

import (
	"math"
	"testing"

	"github.com/bearsamplr/bearsamplr"
)

func TestAudioBufferTo16BitLE(t *testing.T) {
	buf := bearsamplr.AudioBuffer{{0, 1}, {-1, 2}, {-2, 0.5}}
	got := AudioBufferTo16BitLE(buf, nil)
	if len(got) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(got))
	}
	want := []int16{0, math.MaxInt16, -math.MaxInt16, math.MaxInt16, -math.MaxInt16, int16(0.5 * math.MaxInt16)}
	for i, w := range want {
		s := int16(got[2*i]) | int16(got[2*i+1])<<8
		if s != w {
			t.Errorf("sample %d = %d, expected %d", i, s, w)
		}
	}
}

func TestAudioBufferTo16BitLEAppends(t *testing.T) {
	got := AudioBufferTo16BitLE(bearsamplr.AudioBuffer{{0, 0}}, []byte{42})
	if len(got) != 5 || got[0] != 42 {
		t.Fatalf("conversion should append to dst, got %v", got)
	}
}
