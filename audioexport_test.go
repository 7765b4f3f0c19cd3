package bearsamplr_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/bearsamplr/bearsamplr"
)

func TestWavHeader16Bit(t *testing.T) {
	buffer := make(bearsamplr.AudioBuffer, 100)
	wav, err := buffer.Wav(44100, true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("wave format = %d, expected PCM", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 44100 {
		t.Errorf("sample rate = %d, expected 44100", got)
	}
	if got := len(wav) - 44; got != 100*2*2 {
		t.Errorf("data length = %d bytes, expected %d", got, 100*2*2)
	}
}

func TestWavHeaderFloat(t *testing.T) {
	buffer := make(bearsamplr.AudioBuffer, 10)
	wav, err := buffer.Wav(22050, false)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 3 {
		t.Errorf("wave format = %d, expected IEEE float", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 22050 {
		t.Errorf("sample rate = %d, expected 22050", got)
	}
}

func TestRawClamps(t *testing.T) {
	buffer := bearsamplr.AudioBuffer{{2, -2}}
	raw, err := buffer.Raw(true)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	l := int16(binary.LittleEndian.Uint16(raw[0:2]))
	r := int16(binary.LittleEndian.Uint16(raw[2:4]))
	if l != 32767 || r != -32768 {
		t.Errorf("samples = %d, %d; expected full scale clamp", l, r)
	}
}

func TestBufferSource(t *testing.T) {
	buffer := bearsamplr.AudioBuffer{{1, 2}, {3, 4}, {5, 6}}
	src := buffer.Source()
	dst := make(bearsamplr.AudioBuffer, 2)
	n, err := src.ReadAudio(dst)
	if n != 2 || err != nil {
		t.Fatalf("first read = %d, %v; expected 2 frames", n, err)
	}
	if dst[0] != [2]float32{1, 2} || dst[1] != [2]float32{3, 4} {
		t.Fatal("first read returned wrong frames")
	}
	n, err = src.ReadAudio(dst)
	if n != 1 || err != nil {
		t.Fatalf("second read = %d, %v; expected the last frame", n, err)
	}
	if n, err = src.ReadAudio(dst); n != 0 || err != io.EOF {
		t.Fatalf("exhausted source = %d, %v; expected io.EOF", n, err)
	}
}

func TestRawFloatRoundtrip(t *testing.T) {
	buffer := bearsamplr.AudioBuffer{{0.25, -0.5}}
	raw, err := buffer.Raw(false)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	var got [2]float32
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &got); err != nil {
		t.Fatalf("reading raw data: %v", err)
	}
	if got != [2]float32{0.25, -0.5} {
		t.Fatalf("round trip gave %v", got)
	}
}
