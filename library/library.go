// Package library manages the on-disk sample library: numbered preset
// directories under the library root (normally a USB stick), each containing
// sample files and an optional preset.yml manifest.
//
// Without a manifest, every supported audio file whose name ends in a note
// ("piano_c4.wav", "marimba_60.wav") is mapped across the whole keyboard and
// the engine picks the nearest root note; with a manifest, names, envelopes,
// key/velocity zones and loops come from the file.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/format"
)

const manifestName = "preset.yml"

type (
	// Library locates and loads presets. Loading decodes every sample of the
	// preset up front, as the original hardware did: the engine then never
	// touches the disk.
	Library struct {
		root     string
		fallback string
		rate     int
	}

	// Entry is one preset directory found by Scan, not yet loaded.
	Entry struct {
		Number int
		Name   string
		Dir    string
	}
)

func New(root, fallback string, sampleRate int) *Library {
	return &Library{root: root, fallback: fallback, rate: sampleRate}
}

// Root returns the directory presets are read from: the configured root if
// it exists, otherwise the fallback.
func (l *Library) Root() string {
	if info, err := os.Stat(l.root); err == nil && info.IsDir() {
		return l.root
	}
	return l.fallback
}

// Scan enumerates the numbered preset directories, sorted by number. An
// empty library is not an error; the device just shows "no presets".
func (l *Library) Scan() ([]Entry, error) {
	root := l.Root()
	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read library %v: %w", root, err)
	}
	var entries []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		num, err := strconv.Atoi(d.Name())
		if err != nil {
			continue
		}
		dir := filepath.Join(root, d.Name())
		name := presetDisplayName(dir, num)
		entries = append(entries, Entry{Number: num, Name: name, Dir: dir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })
	return entries, nil
}

// LoadPreset loads and decodes the preset with the given number. Samples
// that fail to decode are skipped with a warning so that one broken file
// does not take the whole preset down, matching the original behavior.
func (l *Library) LoadPreset(number int) (*bearsamplr.Preset, error) {
	dir := filepath.Join(l.Root(), strconv.Itoa(number))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %v", ErrPresetNotFound, number)
	}
	m, err := readManifest(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	if m != nil {
		return l.loadFromManifest(dir, number, m)
	}
	return l.loadFromFilenames(dir, number)
}

// LoadDir loads a preset straight from a directory, without the numbered
// layout. Used by the command line player.
func (l *Library) LoadDir(dir string) (*bearsamplr.Preset, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %v", ErrPresetNotFound, dir)
	}
	m, err := readManifest(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	if m != nil {
		return l.loadFromManifest(dir, 0, m)
	}
	preset, err := l.loadFromFilenames(dir, 0)
	if err != nil {
		return nil, err
	}
	preset.Name = filepath.Base(dir)
	return preset, nil
}

func (l *Library) loadFromFilenames(dir string, number int) (*bearsamplr.Preset, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read preset directory %v: %w", dir, err)
	}
	preset := &bearsamplr.Preset{Name: fmt.Sprintf("Preset %d", number)}
	var firstErr error
	for _, f := range files {
		if f.IsDir() || !format.Supported(filepath.Ext(f.Name())) {
			continue
		}
		note, ok := bearsamplr.NoteFromFilename(f.Name())
		if !ok {
			continue
		}
		data, err := format.Load(filepath.Join(dir, f.Name()), l.rate)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		preset.Samples = append(preset.Samples, bearsamplr.Sample{
			Name:     f.Name(),
			RootNote: note,
			LoKey:    0,
			HiKey:    127,
			Data:     data,
		})
	}
	if len(preset.Samples) == 0 {
		if firstErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmptyPreset, firstErr)
		}
		return nil, ErrEmptyPreset
	}
	return preset, nil
}

func presetDisplayName(dir string, number int) string {
	if m, err := readManifest(filepath.Join(dir, manifestName)); err == nil && m != nil && m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("Preset %d", number)
}
