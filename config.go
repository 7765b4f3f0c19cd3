package bearsamplr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type (
	// Config is the hardware and system configuration of the device. All
	// fields have working defaults for the Pirate Audio HAT on a Raspberry Pi
	// 3B+, so a missing config file is not an error.
	Config struct {
		Display DisplayConfig `yaml:"display"`
		Audio   AudioConfig   `yaml:"audio"`
		Buttons ButtonConfig  `yaml:"buttons"`
		System  SystemConfig  `yaml:"system"`
	}

	DisplayConfig struct {
		Width      int `yaml:"width"`
		Height     int `yaml:"height"`
		Rotation   int `yaml:"rotation"`
		SPISpeedHz int `yaml:"spispeedhz"`
		// BCM pin numbers of the control lines. CS is the SPI chip select
		// index, not a GPIO number.
		PinDC        int `yaml:"pindc"`
		CS           int `yaml:"cs"`
		PinBacklight int `yaml:"pinbacklight"`
	}

	AudioConfig struct {
		SampleRate int `yaml:"samplerate"`
		BufferSize int `yaml:"buffersize"` // frames per device period
	}

	// ButtonConfig maps the four front buttons to BCM pin numbers.
	ButtonConfig struct {
		A int `yaml:"a"` // previous preset
		B int `yaml:"b"` // play test tone / restart audio
		X int `yaml:"x"` // next preset
		Y int `yaml:"y"` // menu / sleep
	}

	SystemConfig struct {
		MaxPolyphony  int    `yaml:"maxpolyphony"`
		AudioPriority int    `yaml:"audiopriority"`
		SamplePath    string `yaml:"samplepath"`
		// FallbackPath is used when SamplePath does not exist, typically when
		// no USB stick is inserted. Empty means ~/BearSamplr.
		FallbackPath string `yaml:"fallbackpath,omitempty"`
		SleepTimeout int    `yaml:"sleeptimeout"` // seconds of idle before the display sleeps
		MIDIChannel  int    `yaml:"midichannel"`  // 1-16; 0 listens on all channels
		LogFile      bool   `yaml:"logfile"`      // also log to a timestamped file
	}
)

// DefaultConfig returns the configuration of the stock hardware: Pirate Audio
// Line Out HAT (ST7789 240x240, buttons on BCM 5/6/16/24) with samples on a
// USB stick.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			Width:        240,
			Height:       240,
			Rotation:     90,
			SPISpeedHz:   80_000_000,
			PinDC:        9,
			CS:           1,
			PinBacklight: 13,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			BufferSize: 1024,
		},
		Buttons: ButtonConfig{A: 5, B: 6, X: 16, Y: 24},
		System: SystemConfig{
			MaxPolyphony:  64,
			AudioPriority: -20,
			SamplePath:    "/media/usb/BearSamplr",
			SleepTimeout:  300,
		},
	}
}

// ReadConfig loads the configuration from path, filling unset fields with
// defaults. A missing file returns the defaults.
func ReadConfig(path string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("could not read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return DefaultConfig(), fmt.Errorf("could not parse config %v: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %v: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return errors.New("display dimensions must be positive")
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio sample rate must be positive")
	}
	if c.Audio.BufferSize <= 0 {
		return errors.New("audio buffer size must be positive")
	}
	if c.System.MaxPolyphony <= 0 {
		return errors.New("max polyphony must be positive")
	}
	if c.System.MIDIChannel < 0 || c.System.MIDIChannel > 16 {
		return errors.New("midi channel must be 0 (omni) or 1-16")
	}
	for _, pin := range []int{c.Buttons.A, c.Buttons.B, c.Buttons.X, c.Buttons.Y} {
		if pin < 0 || pin > 27 {
			return fmt.Errorf("button pin %d is not a BCM GPIO", pin)
		}
	}
	return nil
}

// FallbackSamplePath returns the configured fallback library path, defaulting
// to ~/BearSamplr.
func (c *Config) FallbackSamplePath() string {
	if c.System.FallbackPath != "" {
		return c.System.FallbackPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "BearSamplr"
	}
	return filepath.Join(home, "BearSamplr")
}
