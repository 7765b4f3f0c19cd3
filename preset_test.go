package bearsamplr_test

import (
	"testing"

	"github.com/bearsamplr/bearsamplr"
)

func zone(root, loKey, hiKey, loVel, hiVel byte) bearsamplr.Sample {
	return bearsamplr.Sample{
		RootNote: root,
		LoKey:    loKey,
		HiKey:    hiKey,
		LoVel:    loVel,
		HiVel:    hiVel,
		Data:     make(bearsamplr.AudioBuffer, 16),
	}
}

func TestSampleForNearestRoot(t *testing.T) {
	p := bearsamplr.Preset{Samples: []bearsamplr.Sample{
		zone(48, 0, 127, 0, 127),
		zone(60, 0, 127, 0, 127),
		zone(72, 0, 127, 0, 127),
	}}
	for _, c := range []struct {
		note byte
		root byte
	}{{40, 48}, {55, 60}, {60, 60}, {65, 60}, {67, 72}, {127, 72}} {
		s := p.SampleFor(c.note, 100)
		if s == nil {
			t.Fatalf("no sample for note %d", c.note)
		}
		if s.RootNote != c.root {
			t.Errorf("note %d picked root %d, expected %d", c.note, s.RootNote, c.root)
		}
	}
}

func TestSampleForKeyZones(t *testing.T) {
	p := bearsamplr.Preset{Samples: []bearsamplr.Sample{
		zone(48, 0, 59, 0, 127),
		zone(72, 60, 127, 0, 127),
	}}
	if s := p.SampleFor(59, 100); s == nil || s.RootNote != 48 {
		t.Fatalf("note 59 should pick the lower zone, got %v", s)
	}
	if s := p.SampleFor(60, 100); s == nil || s.RootNote != 72 {
		t.Fatalf("note 60 should pick the upper zone, got %v", s)
	}
}

func TestSampleForVelocityLayers(t *testing.T) {
	soft := zone(60, 0, 127, 0, 80)
	hard := zone(60, 0, 127, 81, 127)
	soft.Name, hard.Name = "soft", "hard"
	p := bearsamplr.Preset{Samples: []bearsamplr.Sample{soft, hard}}
	if s := p.SampleFor(60, 50); s == nil || s.Name != "soft" {
		t.Fatalf("velocity 50 should pick the soft layer, got %v", s)
	}
	if s := p.SampleFor(60, 127); s == nil || s.Name != "hard" {
		t.Fatalf("velocity 127 should pick the hard layer, got %v", s)
	}
}

func TestSampleForNoMatch(t *testing.T) {
	p := bearsamplr.Preset{Samples: []bearsamplr.Sample{zone(60, 60, 72, 0, 127)}}
	if s := p.SampleFor(59, 100); s != nil {
		t.Fatalf("note outside all zones should return nil, got %v", s)
	}
}

func TestEnvelopeDefaults(t *testing.T) {
	var e bearsamplr.Envelope
	if got := e.ReleaseTime(); got != bearsamplr.DefaultRelease {
		t.Errorf("zero envelope release = %v, expected the default", got)
	}
	if got := e.SustainLevel(); got != 1 {
		t.Errorf("zero envelope sustain = %v, expected full level", got)
	}
	e = bearsamplr.Envelope{Attack: 0.01}
	if got := e.SustainLevel(); got != 1 {
		t.Errorf("attack-only envelope sustain = %v, expected full level", got)
	}
	e = bearsamplr.Envelope{Decay: 0.5, Sustain: 0.25}
	if got := e.SustainLevel(); got != 0.25 {
		t.Errorf("decaying envelope sustain = %v, expected 0.25", got)
	}
}

func TestPresetValidate(t *testing.T) {
	p := bearsamplr.Preset{}
	if err := p.Validate(); err == nil {
		t.Error("empty preset should not validate")
	}
	p = bearsamplr.Preset{Samples: []bearsamplr.Sample{zone(60, 0, 127, 0, 127)}, Polyphony: -1}
	if err := p.Validate(); err == nil {
		t.Error("negative polyphony should not validate")
	}
	p = bearsamplr.Preset{Samples: []bearsamplr.Sample{zone(60, 0, 127, 0, 127)}}
	if err := p.Validate(); err != nil {
		t.Errorf("valid preset failed to validate: %v", err)
	}
}

func TestPresetMasterGain(t *testing.T) {
	var p bearsamplr.Preset
	if p.MasterGain() != 1 {
		t.Error("zero gain should map to unity")
	}
	p.Gain = 0.5
	if p.MasterGain() != 0.5 {
		t.Error("explicit gain should be returned as is")
	}
}

func TestPresetCopySharesAudio(t *testing.T) {
	p := bearsamplr.Preset{Name: "orig", Samples: []bearsamplr.Sample{zone(60, 0, 127, 0, 127)}}
	c := p.Copy()
	c.Name = "copy"
	c.Samples[0].RootNote = 72
	if p.Name != "orig" || p.Samples[0].RootNote != 60 {
		t.Error("mutating the copy changed the original metadata")
	}
	if &p.Samples[0].Data[0] != &c.Samples[0].Data[0] {
		t.Error("copy should share the sample audio data")
	}
}
