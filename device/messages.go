package device

import "github.com/bearsamplr/bearsamplr"

type (
	// Messages to the Player. The messages are sent on Broker.ToPlayer and
	// processed at the start of every audio block.
	NoteOnMsg struct {
		Channel  int
		Note     byte
		Velocity byte
	}

	NoteOffMsg struct {
		Channel int
		Note    byte
	}

	// LoadPresetMsg hands a fully loaded preset to the player. Loading from
	// disk happens on the model side; the player only swaps the pointer, so
	// the audio callback never blocks on I/O.
	LoadPresetMsg struct {
		Number int
		Preset *bearsamplr.Preset
	}

	VolumeMsg struct {
		Volume float32
	}

	// TestToneMsg plays the built-in test tone for the given number of
	// frames, useful for checking the audio path without a preset.
	TestToneMsg struct {
		Frames int
	}

	// PanicMsg releases all sounding voices.
	PanicMsg struct{}

	// MsgToModel is the aggregate status message the player sends back to
	// the model once per audio block. Audio is passed by pointer from the
	// broker buffer pool; the receiver is responsible for returning it.
	MsgToModel struct {
		Audio        *bearsamplr.AudioBuffer
		Peak         [2]float32
		ActiveVoices int
		PresetNumber int

		Data any
	}

	// AlertPriority is the priority of an alert shown on the display; higher
	// priority alerts replace lower priority ones.
	AlertPriority int

	Alert struct {
		Priority AlertPriority
		Message  string
	}
)

const (
	Info AlertPriority = iota
	Warning
	Error
)
