// Command dashboard is a live demo of the engine: constraint-solved
// panels, tick-driven animation, mouse input, and a themed look loaded
// from an optional TOML file. The progress loop plays a chime each time
// it completes, which doubles as an audio smoke test.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lixenwraith/tui/engine"
	"github.com/lixenwraith/tui/terminal"
)

func main() {
	configPath := flag.String("config", "dashboard.toml", "config file path")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
	pal, err := cfg.Theme.palette()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}

	// No audio device just means a silent dashboard
	sound := newSoundPlayer()
	soundOn := cfg.Sound
	if soundOn && sound.init() != nil {
		soundOn = false
	}

	a := &app{pal: pal, sound: sound, soundOn: soundOn}
	p := engine.New(a,
		engine.WithTick(cfg.tickInterval()),
		engine.WithMouseMode(terminal.MouseModeClick|terminal.MouseModeDrag),
	)
	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}
