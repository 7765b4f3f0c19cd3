// The bearsamplr daemon runs the sampler on the actual hardware: a Raspberry
// Pi with a Pirate Audio Line Out HAT. It wires the MIDI input, the sampler
// engine, the audio output, the display and the buttons together and then
// loops at 30 FPS until terminated.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bearsamplr/bearsamplr"
	"github.com/bearsamplr/bearsamplr/buttons"
	"github.com/bearsamplr/bearsamplr/device"
	"github.com/bearsamplr/bearsamplr/device/gomidi"
	"github.com/bearsamplr/bearsamplr/library"
	"github.com/bearsamplr/bearsamplr/oto"
	"github.com/bearsamplr/bearsamplr/screen"
	"github.com/bearsamplr/bearsamplr/st7789"
	"github.com/bearsamplr/bearsamplr/version"
	"golang.org/x/sys/unix"
	"periph.io/x/host/v3"
)

const frameTime = time.Second / 30

func main() {
	configPath := flag.String("config", "/etc/bearsamplr.yml", "Path to the configuration file.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	cfg, err := bearsamplr.ReadConfig(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	setupLogging(cfg)
	log.Printf("bearsamplr %v starting", version.VersionOrHash)

	// audio glitches on the Pi without elevated priority, but failing to get
	// it is not fatal
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, cfg.System.AudioPriority); err != nil {
		log.Printf("could not set process priority: %v", err)
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("could not initialize the GPIO host: %v", err)
	}

	scr := screen.New(cfg.Display.Width, cfg.Display.Height)
	display, err := st7789.New(cfg.Display)
	if err != nil {
		// keep playing audio even with a broken panel
		log.Printf("display unavailable, running headless: %v", err)
		display = nil
	}
	if display != nil {
		display.SetBacklight(true)
		display.Display(scr.DrawSplash(version.VersionOrHash))
	}
	fatal := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if display != nil {
			display.Display(scr.DrawError(msg))
		}
		log.Fatalf("%s", msg)
	}

	lib := library.New(cfg.System.SamplePath, cfg.FallbackSamplePath(), cfg.Audio.SampleRate)
	broker := device.NewBroker()

	midiContext, err := gomidi.NewContext(cfg.Audio.SampleRate)
	var midi device.MIDIContext = device.NullMIDIContext{}
	if err != nil {
		log.Printf("MIDI unavailable: %v", err)
	} else {
		midi = midiContext
		defer midiContext.Close()
		if name, ok := midiContext.TryToOpenBy("", true); ok {
			log.Printf("MIDI input: %v", name)
		}
	}

	player := device.NewPlayer(broker, midi, cfg.Audio.SampleRate, cfg.System.MIDIChannel, cfg.System.MaxPolyphony)
	audioContext, err := oto.NewContext(cfg.Audio.SampleRate, cfg.Audio.BufferSize)
	if err != nil {
		fatal("could not open the audio device: %v", err)
	}
	playWaiter := audioContext.Play(player)
	defer func() { playWaiter.Close() }()

	model := device.NewModel(broker, lib, time.Duration(cfg.System.SleepTimeout)*time.Second)
	model.RestartAudio = func() {
		playWaiter.Close()
		playWaiter = audioContext.Play(player)
	}
	model.SetMIDIOpen(midi.HasDeviceOpen())
	model.Rescan()

	changed, stopWatch := lib.Watch()
	defer stopWatch()

	var buttonEvents <-chan device.ButtonEvent
	if reader, err := buttons.New(cfg.Buttons); err != nil {
		log.Printf("buttons unavailable: %v", err)
	} else {
		buttonEvents = reader.Events()
		defer reader.Close()
	}
	detector := device.NewPressDetector(device.DefaultLongPressTime)
	displayFaults := device.NewFaultCounter("display", device.DefaultFaultLimit)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()
	midiRetry := time.NewTicker(2 * time.Second)
	defer midiRetry.Stop()
	wasSleeping := false
	for {
		select {
		case <-signals:
			log.Printf("shutting down")
			if display != nil {
				display.Close()
			}
			return
		case ev := <-buttonEvents:
			for _, press := range detector.Feed(ev) {
				model.HandlePress(press, cfg.Audio.SampleRate)
			}
		case <-changed:
			log.Printf("sample library changed, rescanning")
			model.Rescan()
		case <-midiRetry.C:
			if !midi.HasDeviceOpen() && midiContext != nil {
				if name, ok := midiContext.TryToOpenBy("", true); ok {
					log.Printf("MIDI input: %v", name)
				}
			}
			model.SetMIDIOpen(midi.HasDeviceOpen())
		case now := <-ticker.C:
			for _, press := range detector.Tick(now) {
				model.HandlePress(press, cfg.Audio.SampleRate)
			}
			model.ProcessMessages()
			model.Update(now)
			if display != nil {
				if model.Sleeping() != wasSleeping {
					wasSleeping = model.Sleeping()
					display.SetBacklight(!wasSleeping)
				}
				if err := display.Display(scr.Draw(model)); err != nil {
					log.Printf("display write failed: %v", err)
					if err := displayFaults.Fail(err); err != nil {
						fatal("giving up: %v", err)
					}
				} else {
					displayFaults.OK()
				}
			}
		}
	}
}

// setupLogging optionally duplicates the log to a timestamped file next to
// the sample library, which is where it is easiest to fish out over USB.
func setupLogging(cfg bearsamplr.Config) {
	if !cfg.System.LogFile {
		return
	}
	name := fmt.Sprintf("bearsamplr-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		log.Printf("could not create log file: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
