package st7789

import (
	"image"
	"image/color"
	"testing"
)

func TestRGB565(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	img.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})
	dst := make([]byte, 4)
	rgb565(img, dst)
	if dst[0] != 0xFF || dst[1] != 0xFF {
		t.Errorf("white = %#02x%02x, expected 0xFFFF", dst[0], dst[1])
	}
	if dst[2] != 0xF8 || dst[3] != 0x00 {
		t.Errorf("red = %#02x%02x, expected 0xF800", dst[2], dst[3])
	}
}

func TestMadctl(t *testing.T) {
	for rotation, want := range map[int]byte{0: 0x00, 90: 0x60, 180: 0xC0, 270: 0xA0} {
		got, err := madctlFor(rotation)
		if err != nil || got != want {
			t.Errorf("madctlFor(%d) = %#02x, %v; expected %#02x", rotation, got, err, want)
		}
	}
	if _, err := madctlFor(45); err == nil {
		t.Error("expected an error for an unsupported rotation")
	}
}
