package device

import (
	"fmt"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/sampler"
)

type (
	// Player renders audio for the device. It runs in the audio goroutine,
	// paced by the audio device pulling blocks through ReadAudio, and owns
	// the samplers; all other goroutines talk to it through broker messages.
	//
	// There are two samplers: the main one playing the current preset, and a
	// second one dedicated to the built-in test tone, so the tone works even
	// when no preset is loaded.
	Player struct {
		sampler bearsamplr.Voicer
		tone    bearsamplr.Voicer
		midi    MIDIContext
		broker  *Broker

		toneFramesLeft int
		channel        int // 1-16, or 0 for omni
		presetNumber   int
		detector       peakDetector
	}
)

// NewPlayer builds the player and its two engines. maxPolyphony is the
// device-wide voice cap from the configuration; presets can only lower it.
func NewPlayer(broker *Broker, midiContext MIDIContext, sampleRate, channel, maxPolyphony int) *Player {
	engine := sampler.New(sampleRate)
	engine.SetMaxPolyphony(maxPolyphony)
	tone := sampler.New(sampleRate)
	tone.SetPreset(sampler.TestTonePreset(sampleRate))
	return &Player{
		sampler:      engine,
		tone:         tone,
		midi:         midiContext,
		broker:       broker,
		channel:      channel,
		presetNumber: -1,
	}
}

// ReadAudio renders one audio block. MIDI events are applied at their exact
// frame offsets, splitting the block at each event, so note timing does not
// quantize to the block size.
func (p *Player) ReadAudio(buffer bearsamplr.AudioBuffer) (int, error) {
	p.processMessages()
	buffer.Fill()
	frame := 0
	event, ok := p.midi.NextEvent(frame)
	for frame < len(buffer) {
		for ok && event.Frame <= frame {
			p.handleMIDIEvent(event)
			event, ok = p.midi.NextEvent(frame)
		}
		end := len(buffer)
		if ok && event.Frame < end {
			end = event.Frame
			if end <= frame { // guard against events with a stale frame clock
				end = frame + 1
			}
		}
		p.render(buffer[frame:end])
		frame = end
	}
	// events stamped past the block end apply at the boundary
	for ok {
		p.handleMIDIEvent(event)
		event, ok = p.midi.NextEvent(frame)
	}
	p.midi.FinishBlock(len(buffer))
	// Pass a copy of the rendered block to the model for the visualizer. On
	// a full channel the copy is just returned to the pool; the model can
	// miss a block but the audio goroutine never blocks.
	scope := p.broker.GetAudioBuffer()
	*scope = append(*scope, buffer...)
	ok = TrySend(p.broker.ToModel, MsgToModel{
		Audio:        scope,
		Peak:         p.detector.peaks(buffer),
		ActiveVoices: p.sampler.ActiveVoices(),
		PresetNumber: p.presetNumber,
	})
	if !ok {
		p.broker.PutAudioBuffer(scope)
	}
	return len(buffer), nil
}

func (p *Player) render(buffer bearsamplr.AudioBuffer) {
	p.sampler.Render(buffer)
	if p.toneFramesLeft > 0 {
		p.tone.Render(buffer)
		p.toneFramesLeft -= len(buffer)
		if p.toneFramesLeft <= 0 {
			p.tone.ReleaseAll()
		}
	} else if p.tone.ActiveVoices() > 0 {
		p.tone.Render(buffer) // let the tone release tail ring out
	}
}

// processMessages processes new messages from the broker, without blocking.
func (p *Player) processMessages() {
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case NoteOnMsg:
				p.sampler.Trigger(noteID(m.Channel, m.Note), m.Note, m.Velocity)
			case NoteOffMsg:
				p.sampler.Release(noteID(m.Channel, m.Note))
			case LoadPresetMsg:
				p.sampler.SetPreset(m.Preset)
				p.presetNumber = m.Number
			case VolumeMsg:
				p.sampler.SetVolume(m.Volume)
				p.tone.SetVolume(m.Volume)
			case TestToneMsg:
				p.toneFramesLeft = m.Frames
				p.tone.Trigger(noteID(0, 69), 69, 100)
			case PanicMsg:
				p.sampler.ReleaseAll()
				p.tone.ReleaseAll()
				p.toneFramesLeft = 0
			default:
				p.send(MsgToModel{Data: Alert{
					Priority: Error,
					Message:  fmt.Sprintf("Player: unknown message type %T", msg),
				}})
			}
		default:
			return
		}
	}
}

func (p *Player) handleMIDIEvent(e MIDIEvent) {
	if p.channel > 0 && e.Channel != p.channel-1 {
		return
	}
	switch e.Kind {
	case NoteEvent:
		if e.On && e.Velocity > 0 {
			p.sampler.Trigger(noteID(e.Channel, e.Note), e.Note, e.Velocity)
		} else {
			p.sampler.Release(noteID(e.Channel, e.Note))
		}
	case ControllerEvent:
		switch e.Controller {
		case 7: // channel volume
			volume := float32(e.Value) / 127
			p.sampler.SetVolume(volume)
			p.tone.SetVolume(volume)
			p.send(MsgToModel{Data: VolumeMsg{Volume: volume}})
		case 64: // sustain pedal
			p.sampler.SetSustain(e.Value >= 64)
		case 120, 123: // all sound off, all notes off
			p.sampler.ReleaseAll()
		}
	}
}

func (p *Player) send(msg MsgToModel) {
	TrySend(p.broker.ToModel, msg)
}

// noteID identifies a sounding note so a later note off can release exactly
// the voices the note on started.
func noteID(channel int, note byte) int {
	return channel*256 + int(note)
}
