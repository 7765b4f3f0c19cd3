// Package screen renders the user interface into an image.RGBA, which the
// display driver then pushes to the panel. Rendering is plain software
// drawing; at 240x240 and 30 FPS that is well within what the Pi can do.
package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"strings"

	"github.com/bearsamplr/bearsamplr/device"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type (
	// Displayer is the output of the screen package, implemented by the
	// st7789 driver and by test fakes.
	Displayer interface {
		Display(img *image.RGBA) error
		SetBacklight(on bool) error
		Close() error
	}

	Screen struct {
		img   *image.RGBA
		fonts fontSet
		rand  *rand.Rand

		scrollText   string
		scrollOffset int
		scrollPause  int
	}
)

const (
	scrollPauseFrames = 45 // pause at both ends of a scroll, in frames
	scrollStep        = 2  // pixels per frame
)

func New(width, height int) *Screen {
	return &Screen{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts: loadFonts(),
		rand:  rand.New(rand.NewSource(1)),
	}
}

func (s *Screen) Size() (int, int) {
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// Draw renders one frame of the UI from the model state.
func (s *Screen) Draw(m *device.Model) *image.RGBA {
	s.fill(s.img.Rect, colorBG)
	switch {
	case m.Sleeping():
		s.drawSleep()
	case m.MenuVisible():
		s.drawMenu(m)
	default:
		s.drawHome(m)
	}
	if alert, ok := m.Alert(); ok && !m.Sleeping() {
		s.drawAlert(alert)
	}
	return s.img
}

// DrawSplash renders the startup screen shown while the first preset loads.
func (s *Screen) DrawSplash(version string) *image.RGBA {
	s.fill(s.img.Rect, colorBG)
	w, h := s.Size()
	s.centeredText("BearSamplr", s.fonts.big, colorAccent, h/2-10)
	s.centeredText(version, s.fonts.small, colorTextDim, h/2+20)
	s.fill(image.Rect(w/4, h/2+40, 3*w/4, h/2+43), colorDim)
	return s.img
}

// DrawError renders a full-screen error, word-wrapped to fit the panel. Used
// for faults the device cannot recover from, so the user at least sees why
// it is silent.
func (s *Screen) DrawError(message string) *image.RGBA {
	s.fill(s.img.Rect, colorBG)
	w, _ := s.Size()
	s.fill(image.Rect(0, 0, w, 36), colorAccent)
	s.text("ERROR", s.fonts.med, colorText, 8, 25)
	y := 60
	for _, line := range wrapText(message, s.fonts.small, w-16) {
		s.text(line, s.fonts.small, colorText, 8, y)
		y += 18
	}
	return s.img
}

func (s *Screen) drawSleep() {
	w, h := s.Size()
	s.fill(image.Rect(w/2-2, h/2-2, w/2+2, h/2+2), colorSleepDot)
}

func (s *Screen) drawHome(m *device.Model) {
	w, h := s.Size()

	number := "--"
	if m.PresetNumber() >= 0 {
		number = fmt.Sprintf("%02d", m.PresetNumber())
	}
	s.text(number, s.fonts.med, colorDim, 8, 28)
	name := m.PresetName()
	if m.Loading() {
		name = "Loading..."
	}
	s.scrollingText(name, s.fonts.big, colorText, 8, 64, w-16)

	s.drawBars(m.Bars(), image.Rect(8, 80, w-8, h-70))
	s.drawVolume(m.Volume(), image.Rect(8, h-56, w-8, h-46))

	status := "no presets"
	if m.PresetCount() > 0 && m.PresetNumber() >= 0 {
		status = fmt.Sprintf("%d/%d", m.PresetNumber(), m.PresetCount())
	}
	s.text(status, s.fonts.small, colorTextDim, 8, h-12)
	midi, midiColor := "MIDI", colorGood
	if !m.MIDIOpen() {
		midiColor = colorDim
	}
	s.text(midi, s.fonts.small, midiColor, w-90, h-12)
	s.text(fmt.Sprintf("%dv", m.ActiveVoices()), s.fonts.small, colorTextDim, w-40, h-12)
}

func (s *Screen) drawMenu(m *device.Model) {
	w, _ := s.Size()
	s.fill(image.Rect(0, 0, w, 36), colorPanel)
	s.text("Info", s.fonts.med, colorAccent, 8, 25)
	lines := []string{
		fmt.Sprintf("Preset    %d/%d", m.PresetNumber(), m.PresetCount()),
		fmt.Sprintf("Volume    %d%%", int(m.Volume()*100)),
		fmt.Sprintf("Voices    %d", m.ActiveVoices()),
		fmt.Sprintf("MIDI      %v", m.MIDIOpen()),
	}
	y := 70
	for _, line := range lines {
		s.text(line, s.fonts.med, colorText, 12, y)
		y += 32
	}
	s.text("A/X presets  B tone  Y back", s.fonts.small, colorTextDim, 8, 228)
}

// drawBars renders the fire visualizer. Each bar is colored by the gradient
// from its base to its tip, with a little random flicker so the fire moves
// even on a steady level.
func (s *Screen) drawBars(bars [device.VisualizerBars]float32, r image.Rectangle) {
	barWidth := r.Dx() / len(bars)
	for i, level := range bars {
		if level > 0 {
			level += (s.rand.Float32() - 0.5) * 0.05
		}
		if level < 0 {
			level = 0
		}
		if level > 1 {
			level = 1
		}
		height := int(level * float32(r.Dy()))
		x0 := r.Min.X + i*barWidth
		for y := 0; y < height; y++ {
			c := fireColor(float32(y) / float32(r.Dy()))
			s.fill(image.Rect(x0+1, r.Max.Y-y-1, x0+barWidth-1, r.Max.Y-y), c)
		}
	}
}

func (s *Screen) drawVolume(volume float32, r image.Rectangle) {
	s.fill(r, colorPanel)
	filled := int(volume * float32(r.Dx()))
	s.fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+filled, r.Max.Y), colorAccent)
}

func (s *Screen) drawAlert(a device.Alert) {
	w, h := s.Size()
	bg := colorPanel
	switch a.Priority {
	case device.Warning:
		bg = colorWarn
	case device.Error:
		bg = colorAccent
	}
	lines := wrapText(a.Message, s.fonts.small, w-16)
	top := h - 40 - 18*(len(lines)-1)
	s.fill(image.Rect(0, top-20, w, top+18*(len(lines)-1)+10), bg)
	for i, line := range lines {
		s.text(line, s.fonts.small, colorText, 8, top+i*18)
	}
}

// scrollingText draws text left-aligned, scrolling it back and forth when it
// is wider than maxWidth, pausing at both ends.
func (s *Screen) scrollingText(text string, face font.Face, c color.RGBA, x, y, maxWidth int) {
	width := textWidth(text, face)
	if width <= maxWidth {
		if text != s.scrollText {
			s.scrollText, s.scrollOffset, s.scrollPause = text, 0, scrollPauseFrames
		}
		s.text(text, face, c, x, y)
		return
	}
	if text != s.scrollText {
		s.scrollText, s.scrollOffset, s.scrollPause = text, 0, scrollPauseFrames
	}
	overflow := width - maxWidth
	if s.scrollPause > 0 {
		s.scrollPause--
	} else {
		s.scrollOffset += scrollStep
		if s.scrollOffset >= 2*overflow {
			s.scrollOffset = 0
			s.scrollPause = scrollPauseFrames
		} else if s.scrollOffset == overflow || s.scrollOffset == overflow+1 {
			s.scrollPause = scrollPauseFrames
		}
	}
	offset := s.scrollOffset
	if offset > overflow { // scrolling back
		offset = 2*overflow - offset
	}
	clipped := s.img.SubImage(image.Rect(x, y-40, x+maxWidth, y+12)).(*image.RGBA)
	d := font.Drawer{
		Dst:  clipped,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x-offset, y),
	}
	d.DrawString(s.scrollText)
}

func (s *Screen) text(str string, face font.Face, c color.RGBA, x, y int) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(str)
}

func (s *Screen) centeredText(str string, face font.Face, c color.RGBA, y int) {
	w, _ := s.Size()
	s.text(str, face, c, (w-textWidth(str, face))/2, y)
}

func (s *Screen) fill(r image.Rectangle, c color.RGBA) {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func textWidth(str string, face font.Face) int {
	return font.MeasureString(face, str).Ceil()
}

// wrapText breaks the text into lines fitting maxWidth. A single word wider
// than the screen gets a line of its own rather than being broken.
func wrapText(text string, face font.Face, maxWidth int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if textWidth(candidate, face) > maxWidth && line != "" {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
