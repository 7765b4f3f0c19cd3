package bearsamplr

// Voicer is the playback engine as the rest of the device sees it: something
// that turns note events into audio. id identifies who triggered a note so a
// later Release finds exactly the voices that note started. Implemented by
// sampler.Sampler; the device player depends only on this interface.
//
// Voicers are not safe for concurrent use; all calls must come from the
// audio goroutine.
type Voicer interface {
	Trigger(id int, note, velocity byte)
	Release(id int)
	ReleaseAll()

	// Render mixes the active voices into the buffer, adding to whatever is
	// already there.
	Render(buffer AudioBuffer)

	SetPreset(preset *Preset)
	SetVolume(volume float32)
	SetSustain(down bool)

	// SetMaxPolyphony caps the number of simultaneous voices. Presets can
	// lower the cap further with their own Polyphony setting, never raise it.
	SetMaxPolyphony(limit int)

	ActiveVoices() int
}
