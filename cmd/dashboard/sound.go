package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// tone is a fixed-length sine burst. The final third fades linearly so
// the cutoff does not click.
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
}

func newTone(freq float64, d time.Duration) beep.Streamer {
	return &tone{freq: freq, length: sampleRate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, false
		}

		val := math.Sin(2*math.Pi*t.phase) * 0.4

		fade := t.length / 3
		if rem := t.length - t.position; rem < fade {
			val *= float64(rem) / float64(fade)
		}

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// soundPlayer owns the speaker and a mixer that one-shot chimes are added
// to. Playback is best-effort: a failed audio init disables sound rather
// than killing the dashboard.
type soundPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func newSoundPlayer() *soundPlayer {
	return &soundPlayer{mixer: &beep.Mixer{}}
}

func (p *soundPlayer) init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// chime plays a short rising two-note figure.
func (p *soundPlayer) chime() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	streamer := beep.Seq(
		newTone(880, time.Millisecond*90),
		newTone(1320, time.Millisecond*140),
	)
	speaker.Lock()
	p.mixer.Add(streamer)
	speaker.Unlock()
}
