package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/tui/style"
)

// config is the optional dashboard.toml. A missing file means defaults;
// a file that exists but does not parse is an error.
type config struct {
	TickMs int   `toml:"tick_ms"`
	Sound  bool  `toml:"sound"`
	Theme  theme `toml:"theme"`
}

// theme holds "#RRGGBB" color strings as they appear in the file.
type theme struct {
	Background string `toml:"background"`
	Panel      string `toml:"panel"`
	Border     string `toml:"border"`
	Text       string `toml:"text"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
	Good       string `toml:"good"`
	Warn       string `toml:"warn"`
}

func defaultConfig() config {
	return config{
		TickMs: 100,
		Sound:  true,
		Theme: theme{
			Background: "#14141e",
			Panel:      "#283246",
			Border:     "#50648c",
			Text:       "#c8c8c8",
			Dim:        "#646464",
			Accent:     "#64c8dc",
			Good:       "#50c850",
			Warn:       "#ffb464",
		},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.TickMs <= 0 {
		cfg.TickMs = 100
	}
	return cfg, nil
}

func (c config) tickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// palette is the theme resolved to RGB values.
type palette struct {
	bg     style.RGB
	panel  style.RGB
	border style.RGB
	text   style.RGB
	dim    style.RGB
	accent style.RGB
	good   style.RGB
	warn   style.RGB
}

func (t theme) palette() (palette, error) {
	var p palette
	fields := []struct {
		name string
		src  string
		dst  *style.RGB
	}{
		{"background", t.Background, &p.bg},
		{"panel", t.Panel, &p.panel},
		{"border", t.Border, &p.border},
		{"text", t.Text, &p.text},
		{"dim", t.Dim, &p.dim},
		{"accent", t.Accent, &p.accent},
		{"good", t.Good, &p.good},
		{"warn", t.Warn, &p.warn},
	}
	for _, f := range fields {
		c, err := parseColor(f.src)
		if err != nil {
			return p, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

func parseColor(s string) (style.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return style.RGB{}, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[1+i*2:3+i*2], 16, 8)
		if err != nil {
			return style.RGB{}, fmt.Errorf("color %q: %w", s, err)
		}
		out[i] = uint8(v)
	}
	return style.RGB{R: out[0], G: out[1], B: out[2]}, nil
}
