package bearsamplr_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bearsamplr/bearsamplr"
)

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := bearsamplr.ReadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing config should give defaults, got %v", err)
	}
	if cfg != bearsamplr.DefaultConfig() {
		t.Fatal("missing config should give defaults")
	}
}

func TestReadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "audio:\n  samplerate: 48000\nsystem:\n  samplepath: /tmp/samples\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := bearsamplr.ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample rate = %d, expected 48000", cfg.Audio.SampleRate)
	}
	if cfg.System.SamplePath != "/tmp/samples" {
		t.Errorf("sample path = %q, expected /tmp/samples", cfg.System.SamplePath)
	}
	// fields absent from the file keep their defaults
	if cfg.Display.Width != 240 || cfg.Buttons.A != 5 {
		t.Error("unset fields lost their defaults")
	}
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("audio:\n  samplerate: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := bearsamplr.ReadConfig(path); err == nil {
		t.Fatal("negative sample rate should not validate")
	}
	if err := os.WriteFile(path, []byte(":::not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := bearsamplr.ReadConfig(path); err == nil {
		t.Fatal("malformed yaml should be an error")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := bearsamplr.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	cfg.Buttons.X = 99
	if err := cfg.Validate(); err == nil {
		t.Fatal("button pin outside BCM range should not validate")
	}
	cfg = bearsamplr.DefaultConfig()
	cfg.System.MIDIChannel = 17
	if err := cfg.Validate(); err == nil {
		t.Fatal("midi channel 17 should not validate")
	}
}

func TestFallbackSamplePath(t *testing.T) {
	cfg := bearsamplr.DefaultConfig()
	cfg.System.FallbackPath = "/data/samples"
	if got := cfg.FallbackSamplePath(); got != "/data/samples" {
		t.Fatalf("fallback = %q, expected the configured path", got)
	}
	cfg.System.FallbackPath = ""
	if got := cfg.FallbackSamplePath(); filepath.Base(got) != "BearSamplr" {
		t.Fatalf("default fallback = %q, expected a BearSamplr directory", got)
	}
}
