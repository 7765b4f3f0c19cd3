package device

type (
	// MIDIContext is the player's view of a MIDI input. NextEvent returns
	// events one at a time, with Frame telling how many frames into the
	// current audio block the event lands. FinishBlock tells the context how
	// many frames the block had, so it can keep its frame clock in sync with
	// the audio clock.
	MIDIContext interface {
		NextEvent(frame int) (MIDIEvent, bool)
		FinishBlock(frame int)
		HasDeviceOpen() bool
		Close()
	}

	MIDIEventKind int

	MIDIEvent struct {
		Frame   int
		Kind    MIDIEventKind
		Channel int

		// Note and Velocity for NoteEvent; On is false for a note off.
		Note     byte
		Velocity byte
		On       bool

		// Controller and Value for ControllerEvent.
		Controller byte
		Value      byte
	}

	// NullMIDIContext is a no-op MIDI context, used when no MIDI device is
	// available or wanted.
	NullMIDIContext struct{}
)

const (
	NoteEvent MIDIEventKind = iota
	ControllerEvent
)

func (NullMIDIContext) NextEvent(frame int) (MIDIEvent, bool) { return MIDIEvent{}, false }
func (NullMIDIContext) FinishBlock(frame int)                 {}
func (NullMIDIContext) HasDeviceOpen() bool                   { return false }
func (NullMIDIContext) Close()                                {}
