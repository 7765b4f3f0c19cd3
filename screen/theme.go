package screen

import "image/color"

// The crystal-red palette of the device. Everything on screen derives from
// these few colors so the UI stays readable on the small panel.
var (
	colorBG       = color.RGBA{12, 2, 6, 255}
	colorPanel    = color.RGBA{32, 8, 14, 255}
	colorAccent   = color.RGBA{224, 36, 64, 255}
	colorDim      = color.RGBA{120, 32, 48, 255}
	colorText     = color.RGBA{240, 230, 232, 255}
	colorTextDim  = color.RGBA{150, 120, 128, 255}
	colorWarn     = color.RGBA{255, 170, 40, 255}
	colorGood     = color.RGBA{80, 200, 120, 255}
	colorSleepDot = color.RGBA{40, 8, 12, 255}
)

// fireColor maps a level in [0, 1] to the black-red-orange-yellow-white
// gradient of the visualizer bars.
func fireColor(v float32) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	switch {
	case v < 0.25:
		return color.RGBA{ramp(v, 0, 0.25, 20, 255), 0, 0, 255}
	case v < 0.5:
		return color.RGBA{255, ramp(v, 0.25, 0.5, 0, 128), 0, 255}
	case v < 0.75:
		return color.RGBA{255, ramp(v, 0.5, 0.75, 128, 255), 0, 255}
	default:
		return color.RGBA{255, 255, ramp(v, 0.75, 1, 0, 255), 255}
	}
}

func ramp(v, lo, hi float32, from, to int) uint8 {
	t := (v - lo) / (hi - lo)
	return uint8(float32(from) + t*float32(to-from))
}
