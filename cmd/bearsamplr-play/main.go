package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/library"
	"github.com/bearsamplr/bearsamplr/oto"
	"github.com/bearsamplr/bearsamplr/sampler"
	"github.com/bearsamplr/bearsamplr/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the preset is.")
	play := flag.Bool("p", false, "Play the rendered notes (default behaviour when no other output is defined).")
	notes := flag.String("n", "C4,E4,G4", "Comma-separated notes to play, as names or MIDI numbers.")
	duration := flag.Float64("d", 1, "How long each note is held, in seconds.")
	chord := flag.Bool("chord", false, "Play the notes together instead of one after another.")
	sampleRate := flag.Int("rate", 44100, "Sample rate to render at.")
	rawOut := flag.Bool("r", false, "Output the rendered audio as .raw file. By default, saves stereo float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered audio as .wav file. By default, saves stereo float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the preset
	}
	parsedNotes, err := parseNotes(*notes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	var audioContext bearsamplr.AudioContext
	if *play {
		audioContext, err = oto.NewContext(*sampleRate, 1024)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	process := func(dir string) error {
		output := func(extension string, contents []byte) error {
			if *stdout {
				os.Stdout.Write(contents)
				return nil
			}
			outDir := *directory
			if outDir == "" {
				outDir = dir
			}
			if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", outDir, err)
			}
			f := filepath.Join(outDir, filepath.Base(filepath.Clean(dir))+extension)
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		lib := library.New(dir, dir, *sampleRate)
		preset, err := lib.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("could not load preset %v: %v", dir, err)
		}
		buffer := render(preset, parsedNotes, *sampleRate, *duration, *chord)
		if *rawOut {
			raw, err := buffer.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(".raw", raw); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := buffer.Wav(*sampleRate, *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(".wav", wav); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			audioContext.Play(buffer.Source()).Wait()
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if err := process(param); err != nil {
			fmt.Fprintf(os.Stderr, "could not process %v: %v\n", param, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

// render plays the notes through an offline sampler and returns the audio,
// including a short tail so releases are not cut off.
func render(preset *bearsamplr.Preset, notes []byte, sampleRate int, duration float64, chord bool) bearsamplr.AudioBuffer {
	s := sampler.New(sampleRate)
	s.SetPreset(preset)
	hold := int(duration * float64(sampleRate))
	tail := int((preset.Envelope.ReleaseTime() + 0.2) * float64(sampleRate))
	renderFrames := func(buffer bearsamplr.AudioBuffer, frames int) bearsamplr.AudioBuffer {
		for frames > 0 {
			n := 1024
			if n > frames {
				n = frames
			}
			block := make(bearsamplr.AudioBuffer, n)
			s.Render(block)
			buffer = append(buffer, block...)
			frames -= n
		}
		return buffer
	}
	var buffer bearsamplr.AudioBuffer
	if chord {
		for _, n := range notes {
			s.Trigger(int(n), n, 100)
		}
		buffer = renderFrames(buffer, hold)
		s.ReleaseAll()
		return renderFrames(buffer, tail)
	}
	for _, n := range notes {
		s.Trigger(int(n), n, 100)
		buffer = renderFrames(buffer, hold)
		s.Release(int(n))
	}
	return renderFrames(buffer, tail)
}

func parseNotes(s string) ([]byte, error) {
	var notes []byte
	for _, part := range strings.Split(s, ",") {
		note, err := bearsamplr.ParseNote(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("could not parse note %q: %v", part, err)
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "BearSamplr command line utility for playing preset directories without the hardware.\nUsage: %s [flags] [preset directory ...]\n", os.Args[0])
	flag.PrintDefaults()
}
