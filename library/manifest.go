package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/format"
)

type (
	// manifest is the preset.yml file format. Notes are written as names
	// ("C4") or numbers ("60"); ranges default to the whole keyboard and all
	// velocities.
	manifest struct {
		Name      string              `yaml:"name"`
		Envelope  bearsamplr.Envelope `yaml:"envelope"`
		Polyphony int                 `yaml:"polyphony"`
		Gain      float32             `yaml:"gain"`
		Samples   []manifestSample    `yaml:"samples"`
	}

	manifestSample struct {
		File  string          `yaml:"file"`
		Root  string          `yaml:"root"`
		LoKey string          `yaml:"lokey"`
		HiKey string          `yaml:"hikey"`
		LoVel int             `yaml:"lovel"`
		HiVel int             `yaml:"hivel"`
		Gain  float32         `yaml:"gain"`
		Loop  bearsamplr.Loop `yaml:"loop"`
	}
)

// readManifest returns nil without error if the manifest does not exist.
func readManifest(path string) (*manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read manifest %v: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("could not parse manifest %v: %w", path, err)
	}
	return &m, nil
}

func (l *Library) loadFromManifest(dir string, number int, m *manifest) (*bearsamplr.Preset, error) {
	preset := &bearsamplr.Preset{
		Name:      m.Name,
		Envelope:  m.Envelope,
		Polyphony: m.Polyphony,
		Gain:      m.Gain,
	}
	if preset.Name == "" {
		preset.Name = fmt.Sprintf("Preset %d", number)
	}
	for _, ms := range m.Samples {
		s, err := l.loadManifestSample(dir, ms)
		if err != nil {
			return nil, fmt.Errorf("preset %v: %w", number, err)
		}
		preset.Samples = append(preset.Samples, s)
	}
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	return preset, nil
}

func (l *Library) loadManifestSample(dir string, ms manifestSample) (bearsamplr.Sample, error) {
	s := bearsamplr.Sample{
		Name:  ms.File,
		LoKey: 0,
		HiKey: 127,
		LoVel: byte(ms.LoVel),
		Gain:  ms.Gain,
		Loop:  ms.Loop,
	}
	if ms.HiVel > 0 {
		s.HiVel = byte(ms.HiVel)
	}
	root := ms.Root
	if root == "" {
		// fall back to the filename convention
		if note, ok := bearsamplr.NoteFromFilename(ms.File); ok {
			s.RootNote = note
		} else {
			return s, fmt.Errorf("sample %v has no root note", ms.File)
		}
	} else {
		note, err := bearsamplr.ParseNote(root)
		if err != nil {
			return s, fmt.Errorf("sample %v: %w", ms.File, err)
		}
		s.RootNote = note
	}
	if ms.LoKey != "" {
		note, err := bearsamplr.ParseNote(ms.LoKey)
		if err != nil {
			return s, fmt.Errorf("sample %v lokey: %w", ms.File, err)
		}
		s.LoKey = note
	}
	if ms.HiKey != "" {
		note, err := bearsamplr.ParseNote(ms.HiKey)
		if err != nil {
			return s, fmt.Errorf("sample %v hikey: %w", ms.File, err)
		}
		s.HiKey = note
	}
	data, err := format.Load(filepath.Join(dir, ms.File), l.rate)
	if err != nil {
		return s, err
	}
	s.Data = data
	return s, nil
}
