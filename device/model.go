package device

import (
	"fmt"
	"time"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/library"
)

type (
	// Model is the UI-side state of the device: which preset is selected,
	// what the levels look like, whether the display is asleep. It runs in
	// the UI goroutine; the only communication with the audio side is
	// through the broker. Preset loading happens in a worker goroutine so
	// neither the UI nor the audio ever waits on the SD card or USB stick.
	Model struct {
		broker *Broker
		lib    *library.Library

		entries  []library.Entry
		index    int
		preset   presetStatus
		volume   float32
		peak     [2]float32
		bars     [VisualizerBars]float32
		voices   int
		midiOpen bool

		alert      Alert
		alertUntil time.Time

		sleeping     bool
		lastActivity time.Time
		sleepTimeout time.Duration

		menuVisible bool

		// RestartAudio is called on a long press of the B button. Set by the
		// main program to tear down and reopen the audio device.
		RestartAudio func()
	}

	presetStatus struct {
		number  int
		name    string
		loading bool
	}

	presetLoadedMsg struct {
		entry  library.Entry
		preset *bearsamplr.Preset
		err    error
	}
)

// VisualizerBars is the number of level bars on the home screen.
const VisualizerBars = 12

const (
	alertDuration = 2 * time.Second
	barFalloff    = 0.06
	testToneSecs  = 1
)

func NewModel(broker *Broker, lib *library.Library, sleepTimeout time.Duration) *Model {
	return &Model{
		broker:       broker,
		lib:          lib,
		volume:       0.8,
		preset:       presetStatus{number: -1, name: "No preset"},
		sleepTimeout: sleepTimeout,
		lastActivity: time.Now(),
	}
}

// Rescan reloads the preset list from disk. When the current preset is gone,
// the selection moves to the first entry.
func (m *Model) Rescan() {
	entries, err := m.lib.Scan()
	if err != nil {
		m.SetAlert(Alert{Priority: Error, Message: err.Error()})
		return
	}
	m.entries = entries
	if len(entries) == 0 {
		m.SetAlert(Alert{Priority: Warning, Message: "No presets found"})
		return
	}
	for i, e := range entries {
		if e.Number == m.preset.number {
			m.index = i
			return
		}
	}
	m.index = 0
	m.loadSelected()
}

func (m *Model) NextPreset() { m.step(1) }
func (m *Model) PrevPreset() { m.step(-1) }

func (m *Model) step(d int) {
	if len(m.entries) == 0 || m.preset.loading {
		return
	}
	m.index = (m.index + d + len(m.entries)) % len(m.entries)
	m.loadSelected()
}

// loadSelected starts loading the selected entry in the background. The
// result comes back through the broker as a presetLoadedMsg, so the swap to
// the player only happens once the whole preset is in memory.
func (m *Model) loadSelected() {
	entry := m.entries[m.index]
	m.preset.loading = true
	go func() {
		preset, err := m.lib.LoadPreset(entry.Number)
		TrySend(m.broker.ToModel, MsgToModel{Data: presetLoadedMsg{entry: entry, preset: preset, err: err}})
	}()
}

// ProcessMessages drains the broker without blocking. Call once per UI
// frame, before drawing.
func (m *Model) ProcessMessages() {
	for {
		select {
		case msg := <-m.broker.ToModel:
			m.handleMessage(msg)
		default:
			return
		}
	}
}

func (m *Model) handleMessage(msg MsgToModel) {
	if msg.Audio != nil {
		m.updateBars(*msg.Audio)
		m.broker.PutAudioBuffer(msg.Audio)
		m.peak = msg.Peak
		m.voices = msg.ActiveVoices
		if msg.ActiveVoices > 0 {
			m.touch()
		}
	}
	switch d := msg.Data.(type) {
	case nil:
	case presetLoadedMsg:
		m.preset.loading = false
		if d.err != nil {
			m.SetAlert(Alert{Priority: Error, Message: d.err.Error()})
			return
		}
		m.preset = presetStatus{number: d.entry.Number, name: d.preset.Name}
		TrySend(m.broker.ToPlayer, any(LoadPresetMsg{Number: d.entry.Number, Preset: d.preset}))
	case VolumeMsg:
		m.volume = d.Volume
		m.touch()
	case Alert:
		m.SetAlert(d)
	default:
		m.SetAlert(Alert{Priority: Error, Message: fmt.Sprintf("Model: unknown message type %T", d)})
	}
}

// updateBars splits the block into segments and takes the peak of each,
// giving the visualizer a crude spectrum-like shape from pure level data.
func (m *Model) updateBars(buf bearsamplr.AudioBuffer) {
	for i := range m.bars {
		m.bars[i] -= barFalloff
		if m.bars[i] < 0 {
			m.bars[i] = 0
		}
	}
	if len(buf) < VisualizerBars {
		return
	}
	seg := len(buf) / VisualizerBars
	for i := 0; i < VisualizerBars; i++ {
		var peak float32
		for _, frame := range buf[i*seg : (i+1)*seg] {
			for chn := 0; chn < 2; chn++ {
				v := frame[chn]
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		if peak > m.bars[i] {
			m.bars[i] = peak
		}
	}
}

// HandlePress reacts to an interpreted button press. Any press while
// sleeping only wakes the display.
func (m *Model) HandlePress(p Press, sampleRate int) {
	m.touch()
	if m.sleeping {
		m.sleeping = false
		return
	}
	switch {
	case p.Button == ButtonA && p.Kind == ShortPress:
		m.PrevPreset()
	case p.Button == ButtonX && p.Kind == ShortPress:
		m.NextPreset()
	case p.Button == ButtonB && p.Kind == ShortPress:
		TrySend(m.broker.ToPlayer, any(TestToneMsg{Frames: testToneSecs * sampleRate}))
	case p.Button == ButtonB && p.Kind == LongPress:
		TrySend(m.broker.ToPlayer, any(PanicMsg{}))
		if m.RestartAudio != nil {
			m.RestartAudio()
			m.SetAlert(Alert{Priority: Info, Message: "Audio restarted"})
		}
	case p.Button == ButtonY && p.Kind == ShortPress:
		m.menuVisible = !m.menuVisible
	case p.Button == ButtonY && p.Kind == LongPress:
		m.sleeping = true
	}
}

// Update advances the time-based state. Call once per UI frame.
func (m *Model) Update(now time.Time) {
	if m.alert.Message != "" && now.After(m.alertUntil) {
		m.alert = Alert{}
	}
	if !m.sleeping && m.sleepTimeout > 0 && now.Sub(m.lastActivity) > m.sleepTimeout {
		m.sleeping = true
	}
}

func (m *Model) SetAlert(a Alert) {
	if a.Priority < m.alert.Priority && m.alert.Message != "" {
		return
	}
	m.alert = a
	m.alertUntil = time.Now().Add(alertDuration)
}

func (m *Model) SetMIDIOpen(open bool) { m.midiOpen = open }

func (m *Model) touch() { m.lastActivity = time.Now() }

func (m *Model) PresetNumber() int { return m.preset.number }

func (m *Model) PresetName() string { return m.preset.name }

func (m *Model) PresetCount() int { return len(m.entries) }

func (m *Model) Loading() bool { return m.preset.loading }

func (m *Model) Volume() float32 { return m.volume }

func (m *Model) Peak() [2]float32 { return m.peak }

func (m *Model) Bars() [VisualizerBars]float32 { return m.bars }

func (m *Model) ActiveVoices() int { return m.voices }

func (m *Model) MIDIOpen() bool { return m.midiOpen }

func (m *Model) Sleeping() bool { return m.sleeping }

func (m *Model) MenuVisible() bool { return m.menuVisible }

func (m *Model) Alert() (Alert, bool) { return m.alert, m.alert.Message != "" }
