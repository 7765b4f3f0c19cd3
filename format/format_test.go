package format_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/format"
)

func sineBuffer(frames, period int) bearsamplr.AudioBuffer {
	buf := make(bearsamplr.AudioBuffer, frames)
	for i := range buf {
		v := float32(0.5 * math.Sin(2*math.Pi*float64(i)/float64(period)))
		buf[i] = [2]float32{v, v}
	}
	return buf
}

func TestDecodeWavRoundtrip(t *testing.T) {
	orig := sineBuffer(2000, 100)
	wavBytes, err := orig.Wav(44100, true)
	if err != nil {
		t.Fatalf("could not build wav: %v", err)
	}
	frames, rate, err := format.Decode(".wav", bytes.NewReader(wavBytes))
	if err != nil {
		t.Fatalf("could not decode wav: %v", err)
	}
	if rate != 44100 {
		t.Fatalf("expected sample rate 44100, got %v", rate)
	}
	if len(frames) != len(orig) {
		t.Fatalf("expected %v frames, got %v", len(orig), len(frames))
	}
	for i := range frames {
		if d := math.Abs(float64(frames[i][0] - orig[i][0])); d > 1e-3 {
			t.Fatalf("frame %v differs by %v", i, d)
		}
	}
}

// monoWav builds a minimal 16-bit PCM mono WAV file.
func monoWav(samples []int16, sampleRate int) []byte {
	buf := new(bytes.Buffer)
	dataLen := len(samples) * 2
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

func TestDecodeWavMonoBecomesStereo(t *testing.T) {
	samples := []int16{0, 8192, 16384, 8192, 0, -8192, -16384, -8192}
	frames, rate, err := format.Decode(".wav", bytes.NewReader(monoWav(samples, 22050)))
	if err != nil {
		t.Fatalf("could not decode mono wav: %v", err)
	}
	if rate != 22050 {
		t.Fatalf("expected sample rate 22050, got %v", rate)
	}
	if len(frames) != len(samples) {
		t.Fatalf("expected %v frames, got %v", len(samples), len(frames))
	}
	for i, f := range frames {
		if f[0] != f[1] {
			t.Fatalf("frame %v: mono source should give identical channels, got %v", i, f)
		}
		want := float32(samples[i]) / 32768
		if d := math.Abs(float64(f[0] - want)); d > 1e-3 {
			t.Fatalf("frame %v: expected %v, got %v", i, want, f[0])
		}
	}
}

func TestDecodeUnknownExtension(t *testing.T) {
	_, _, err := format.Decode(".xyz", bytes.NewReader(nil))
	if !errors.Is(err, format.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDecodeGarbageWav(t *testing.T) {
	_, _, err := format.Decode(".wav", bytes.NewReader([]byte("not a wav file at all")))
	if err == nil {
		t.Fatal("expected an error for a garbage wav file")
	}
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{".wav", ".WAV", ".mp3", ".ogg", ".oga"} {
		if !format.Supported(ext) {
			t.Errorf("%v should be supported", ext)
		}
	}
	for _, ext := range []string{".txt", ".yml", ""} {
		if format.Supported(ext) {
			t.Errorf("%v should not be supported", ext)
		}
	}
}

func TestResampleLength(t *testing.T) {
	in := sineBuffer(44100, 100)
	out := format.Resample(in, 44100, 22050)
	if got, want := len(out), 22050; got < want-1 || got > want+1 {
		t.Fatalf("expected about %v frames, got %v", want, got)
	}
	up := format.Resample(in, 22050, 44100)
	if got, want := len(up), 88200; got < want-1 || got > want+1 {
		t.Fatalf("expected about %v frames, got %v", want, got)
	}
}

func TestResampleSameRateReturnsInput(t *testing.T) {
	in := sineBuffer(100, 10)
	out := format.Resample(in, 44100, 44100)
	if &out[0] != &in[0] {
		t.Fatal("same-rate resample should return the input unchanged")
	}
}

func TestResamplePreservesConstant(t *testing.T) {
	in := make(bearsamplr.AudioBuffer, 1000)
	for i := range in {
		in[i] = [2]float32{0.25, -0.25}
	}
	out := format.Resample(in, 48000, 44100)
	for i, v := range out {
		if d := math.Abs(float64(v[0] - 0.25)); d > 1e-4 {
			t.Fatalf("frame %v: constant signal distorted to %v", i, v[0])
		}
	}
}
