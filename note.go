package bearsamplr

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the name of the MIDI note, e.g. NoteName(60) == "C4".
func NoteName(note byte) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12-1)
}

// ParseNote parses a note name such as "C4", "f#2" or "Db3" into a MIDI note
// number. Plain numbers ("60") are accepted as-is.
func ParseNote(s string) (byte, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("note number %d out of MIDI range", n)
		}
		return byte(n), nil
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("cannot parse note %q", s)
	}
	upper := strings.ToUpper(s)
	semitone := -1
	for i, name := range noteNames {
		if upper[0] == name[0] {
			semitone = i
			break
		}
	}
	if semitone < 0 {
		return 0, fmt.Errorf("cannot parse note %q", s)
	}
	rest := upper[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		semitone++
		rest = rest[1:]
	case strings.HasPrefix(rest, "B") && len(rest) > 1: // flat, e.g. Db3
		semitone--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("cannot parse note %q", s)
	}
	n := (octave+1)*12 + semitone
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("note %q out of MIDI range", s)
	}
	return byte(n), nil
}

// NoteFromFilename extracts the root note from a sample file name. The
// library convention is name_note.ext, where note is either a MIDI note
// number or a note name: "piano_60.wav" and "piano_c4.wav" both map to middle
// C. Returns false if the name does not follow the convention.
func NoteFromFilename(filename string) (byte, bool) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	idx := strings.LastIndexByte(base, '_')
	if idx < 0 || idx == len(base)-1 {
		return 0, false
	}
	note, err := ParseNote(base[idx+1:])
	if err != nil {
		return 0, false
	}
	return note, true
}
